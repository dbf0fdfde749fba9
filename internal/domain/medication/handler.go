package medication

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
	g := api.Group("/medications")
	g.POST("", h.Prescribe, auth.RequireRole(auth.RoleTherapist, auth.RoleAdmin))
	g.GET("/user/:userId", h.ListByUser)
	g.GET("/logs/:userId", h.Logs)
	g.GET("/schedule/:userId", h.TodaySchedule)
	g.GET("/:id", h.Get)
	g.PUT("/:id", h.Update, auth.RequireRole(auth.RoleTherapist, auth.RoleAdmin))
	g.DELETE("/:id", h.Delete, auth.RequireRole(auth.RoleTherapist, auth.RoleAdmin))
	g.PUT("/:id/toggle", h.ToggleActive, auth.RequireRole(auth.RoleTherapist, auth.RoleAdmin))
	g.POST("/:id/log", h.LogIntake)
}

func httpError(err error) error {
	switch {
	case errors.Is(err, ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, ErrInvalid):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
}

type prescribeRequest struct {
	UserID       uuid.UUID  `json:"user_id"`
	TherapistID  uuid.UUID  `json:"therapist_id"`
	Name         string     `json:"name"`
	Dosage       string     `json:"dosage"`
	Frequency    string     `json:"frequency"`
	Instructions string     `json:"instructions"`
	StartDate    time.Time  `json:"start_date"`
	EndDate      *time.Time `json:"end_date"`
	Reminders    []string   `json:"reminders"`
}

func (h *Handler) Prescribe(c echo.Context) error {
	var req prescribeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	m, err := h.svc.Prescribe(c.Request().Context(), &Medication{
		UserID:       req.UserID,
		TherapistID:  req.TherapistID,
		Name:         req.Name,
		Dosage:       req.Dosage,
		Frequency:    req.Frequency,
		Instructions: req.Instructions,
		StartDate:    req.StartDate,
		EndDate:      req.EndDate,
		Reminders:    req.Reminders,
	})
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, m)
}

func (h *Handler) Get(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	m, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, m)
}

func (h *Handler) ListByUser(c echo.Context) error {
	userID, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid user id")
	}
	activeOnly := c.QueryParam("active") == "true"
	pg := pagination.FromContext(c)
	items, total, err := h.svc.ListByUser(c.Request().Context(), userID, activeOnly, pg.Limit, pg.Offset)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

func (h *Handler) Update(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var upd MedicationUpdate
	if err := c.Bind(&upd); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	m, err := h.svc.Update(c.Request().Context(), id, upd)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, m)
}

func (h *Handler) Delete(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := h.svc.Delete(c.Request().Context(), id); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "medication deleted"})
}

func (h *Handler) ToggleActive(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	m, err := h.svc.ToggleActive(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, m)
}

type logIntakeRequest struct {
	Taken bool       `json:"taken"`
	Notes string     `json:"notes"`
	Date  *time.Time `json:"date"`
}

func (h *Handler) LogIntake(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var req logIntakeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	var date time.Time
	if req.Date != nil {
		date = *req.Date
	}
	l, err := h.svc.LogIntake(c.Request().Context(), id, req.Taken, req.Notes, date)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, l)
}

func (h *Handler) Logs(c echo.Context) error {
	userID, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid user id")
	}
	var from, to time.Time
	if raw := c.QueryParam("start_date"); raw != "" {
		from, err = time.Parse("2006-01-02", raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid start_date")
		}
	}
	if raw := c.QueryParam("end_date"); raw != "" {
		to, err = time.Parse("2006-01-02", raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid end_date")
		}
	}
	logs, err := h.svc.Logs(c.Request().Context(), userID, from, to)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, logs)
}

func (h *Handler) TodaySchedule(c echo.Context) error {
	userID, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid user id")
	}
	schedule, err := h.svc.TodaySchedule(c.Request().Context(), userID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, schedule)
}
