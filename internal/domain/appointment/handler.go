package appointment

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/mindease/mindease/internal/platform/auth"
	"github.com/mindease/mindease/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	g := api.Group("/appointments")
	g.POST("", h.Book)
	g.GET("", h.List)
	g.POST("/instant-visit", h.StartInstantVisit)
	g.GET("/available/:therapistId/:date", h.AvailableSlots)
	g.GET("/:id", h.Get)
	g.PUT("/:id", h.Reschedule)
	g.PUT("/:id/cancel", h.Cancel)
	g.PUT("/:id/status", h.UpdateStatus, auth.RequireRole(auth.RoleAdmin))
}

// httpError maps the service error taxonomy onto status codes.
func httpError(err error) error {
	switch {
	case errors.Is(err, ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, ErrInvalid):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrConflict):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	}
	return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
}

type bookRequest struct {
	UserID          uuid.UUID `json:"user_id"`
	TherapistID     uuid.UUID `json:"therapist_id"`
	StartTime       time.Time `json:"start_time"`
	DurationMinutes int       `json:"duration_minutes"`
	Type            string    `json:"type"`
	Notes           *string   `json:"notes"`
}

func (h *Handler) Book(c echo.Context) error {
	var req bookRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	a := &Appointment{
		UserID:          req.UserID,
		TherapistID:     req.TherapistID,
		StartTime:       req.StartTime,
		DurationMinutes: req.DurationMinutes,
		Type:            req.Type,
		Notes:           req.Notes,
	}
	booked, err := h.svc.Book(c.Request().Context(), a)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, booked)
}

func (h *Handler) Get(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	a, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, a)
}

func (h *Handler) List(c echo.Context) error {
	pg := pagination.FromContext(c)
	if userID := c.QueryParam("user_id"); userID != "" {
		uid, err := uuid.Parse(userID)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid user_id")
		}
		items, total, err := h.svc.ListByUser(c.Request().Context(), uid, pg.Limit, pg.Offset)
		if err != nil {
			return httpError(err)
		}
		return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
	}
	if therapistID := c.QueryParam("therapist_id"); therapistID != "" {
		tid, err := uuid.Parse(therapistID)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid therapist_id")
		}
		items, total, err := h.svc.ListByTherapist(c.Request().Context(), tid, pg.Limit, pg.Offset)
		if err != nil {
			return httpError(err)
		}
		return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
	}
	return echo.NewHTTPError(http.StatusBadRequest, "user_id or therapist_id query parameter required")
}

func (h *Handler) Reschedule(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var upd Update
	if err := c.Bind(&upd); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	a, err := h.svc.Reschedule(c.Request().Context(), id, upd)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, a)
}

func (h *Handler) Cancel(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	a, err := h.svc.Cancel(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, a)
}

type statusRequest struct {
	Status string `json:"status"`
}

func (h *Handler) UpdateStatus(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var req statusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	a, err := h.svc.UpdateStatus(c.Request().Context(), id, req.Status)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, a)
}

type instantVisitRequest struct {
	UserID      uuid.UUID `json:"user_id"`
	TherapistID uuid.UUID `json:"therapist_id"`
}

func (h *Handler) StartInstantVisit(c echo.Context) error {
	var req instantVisitRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	a, err := h.svc.StartInstantVisit(c.Request().Context(), req.UserID, req.TherapistID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, map[string]interface{}{
		"appointment_id": a.ID,
		"meeting_link":   a.MeetingLink,
		"status":         a.Status,
	})
}

func (h *Handler) AvailableSlots(c echo.Context) error {
	tid, err := uuid.Parse(c.Param("therapistId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid therapist id")
	}
	slots, err := h.svc.AvailableSlots(c.Request().Context(), tid, c.Param("date"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"therapist_id": tid,
		"date":         c.Param("date"),
		"slots":        slots,
	})
}
