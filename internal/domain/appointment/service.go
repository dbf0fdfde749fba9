package appointment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/mindease/mindease/internal/platform/meeting"
	"github.com/mindease/mindease/internal/platform/notification"
)

// Party identifies one side of an appointment for validation and
// notification purposes.
type Party struct {
	ID    uuid.UUID
	Name  string
	Email string
}

// UserDirectory resolves booking users. A missing user is reported with
// an error wrapping ErrNotFound; any other error is a lookup failure.
type UserDirectory interface {
	FindUser(ctx context.Context, id uuid.UUID) (*Party, error)
}

// TherapistDirectory resolves therapists. A missing therapist is
// reported with an error wrapping ErrNotFound.
type TherapistDirectory interface {
	FindTherapist(ctx context.Context, id uuid.UUID) (*Party, error)
}

// Notifier sends templated notifications. Satisfied by
// notification.NotificationManager.
type Notifier interface {
	SendFromTemplate(ctx context.Context, templateID string, data map[string]string, recipient string) (*notification.Notification, error)
}

type Service struct {
	repo       Repository
	users      UserDirectory
	therapists TherapistDirectory
	notifier   Notifier
	meetings   meeting.LinkProvider
	log        zerolog.Logger

	now      func() time.Time
	dispatch func(func())
}

func NewService(repo Repository, users UserDirectory, therapists TherapistDirectory, notifier Notifier, meetings meeting.LinkProvider, log zerolog.Logger) *Service {
	return &Service{
		repo:       repo,
		users:      users,
		therapists: therapists,
		notifier:   notifier,
		meetings:   meetings,
		log:        log,
		now:        time.Now,
		dispatch:   func(f func()) { go f() },
	}
}

// Book validates and persists a new appointment. The conflict check and
// insert are atomic in the repository; ErrConflict means the therapist
// already has an overlapping non-cancelled appointment. Meeting link and
// notification failures never fail the booking.
func (s *Service) Book(ctx context.Context, a *Appointment) (*Appointment, error) {
	if a.Type == "" {
		a.Type = TypeOnline
	}
	if !ValidType(a.Type) {
		return nil, fmt.Errorf("%w: unknown type %q", ErrInvalid, a.Type)
	}
	if a.DurationMinutes == 0 {
		a.DurationMinutes = SlotMinutes
	}
	if a.DurationMinutes < 1 {
		return nil, fmt.Errorf("%w: duration must be at least one minute", ErrInvalid)
	}
	if a.StartTime.Before(s.now()) {
		return nil, fmt.Errorf("%w: start time is in the past", ErrInvalid)
	}

	user, err := s.lookupUser(ctx, a.UserID)
	if err != nil {
		return nil, err
	}
	therapist, err := s.lookupTherapist(ctx, a.TherapistID)
	if err != nil {
		return nil, err
	}

	if a.Type != TypePhysical {
		link := s.meetingLink(ctx, therapist.Name, a)
		a.MeetingLink = &link
	}
	a.Status = StatusScheduled

	if err := s.repo.Create(ctx, a); err != nil {
		return nil, err
	}

	s.dispatch(func() { s.notifyBooked(user, therapist, a) })
	return a, nil
}

// Update carries the mutable fields of a reschedule request. Nil fields
// are left unchanged.
type Update struct {
	StartTime       *time.Time `json:"start_time"`
	DurationMinutes *int       `json:"duration_minutes"`
	Notes           *string    `json:"notes"`
	Status          *string    `json:"status"`
}

// Reschedule applies a partial update. Changing the start time or
// duration re-runs the past-date check and the atomic conflict check.
func (s *Service) Reschedule(ctx context.Context, id uuid.UUID, upd Update) (*Appointment, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	timeChanged := false
	if upd.StartTime != nil {
		a.StartTime = *upd.StartTime
		timeChanged = true
	}
	if upd.DurationMinutes != nil {
		if *upd.DurationMinutes < 1 {
			return nil, fmt.Errorf("%w: duration must be at least one minute", ErrInvalid)
		}
		a.DurationMinutes = *upd.DurationMinutes
		timeChanged = true
	}
	if upd.Notes != nil {
		a.Notes = upd.Notes
	}
	if upd.Status != nil {
		status := NormalizeStatus(*upd.Status)
		if !ValidStatus(status) {
			return nil, fmt.Errorf("%w: unknown status %q", ErrInvalid, *upd.Status)
		}
		a.Status = status
	}

	if timeChanged {
		if a.StartTime.Before(s.now()) {
			return nil, fmt.Errorf("%w: start time is in the past", ErrInvalid)
		}
		if err := s.repo.Reschedule(ctx, a); err != nil {
			return nil, err
		}
	} else {
		if err := s.repo.Update(ctx, a); err != nil {
			return nil, err
		}
	}

	if timeChanged || a.Status == StatusRescheduled {
		user, uerr := s.users.FindUser(ctx, a.UserID)
		therapist, terr := s.therapists.FindTherapist(ctx, a.TherapistID)
		if uerr == nil && terr == nil {
			s.dispatch(func() { s.notifyRescheduled(user, therapist, a) })
		}
	}
	return a, nil
}

// Cancel marks an appointment cancelled. Already-cancelled and past
// appointments are rejected.
func (s *Service) Cancel(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if a.Status == StatusCancelled {
		return nil, fmt.Errorf("%w: appointment is already cancelled", ErrInvalid)
	}
	if a.StartTime.Before(s.now()) {
		return nil, fmt.Errorf("%w: cannot cancel a past appointment", ErrInvalid)
	}
	a.Status = StatusCancelled
	if err := s.repo.Update(ctx, a); err != nil {
		return nil, err
	}

	user, uerr := s.users.FindUser(ctx, a.UserID)
	therapist, terr := s.therapists.FindTherapist(ctx, a.TherapistID)
	if uerr == nil && terr == nil {
		s.dispatch(func() { s.notifyCancelled(user, therapist, a) })
	}
	return a, nil
}

// StartInstantVisit books an on-demand session starting now. Instant
// visits are one slot long, begin in-progress, and always carry a
// meeting link.
func (s *Service) StartInstantVisit(ctx context.Context, userID, therapistID uuid.UUID) (*Appointment, error) {
	user, err := s.lookupUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	therapist, err := s.lookupTherapist(ctx, therapistID)
	if err != nil {
		return nil, err
	}

	a := &Appointment{
		UserID:          userID,
		TherapistID:     therapistID,
		StartTime:       s.now().UTC(),
		DurationMinutes: SlotMinutes,
		Status:          StatusInProgress,
		Type:            TypeInstant,
	}
	link := s.meetingLink(ctx, therapist.Name, a)
	a.MeetingLink = &link

	if err := s.repo.Create(ctx, a); err != nil {
		return nil, err
	}

	s.dispatch(func() { s.notifyInstantVisit(user, therapist, a) })
	return a, nil
}

// adminStatuses is the subset settable through the admin status endpoint.
var adminStatuses = map[string]bool{
	StatusScheduled: true, StatusCompleted: true, StatusCancelled: true,
}

// UpdateStatus sets a canonical status on behalf of an administrator.
func (s *Service) UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*Appointment, error) {
	status = NormalizeStatus(status)
	if !adminStatuses[status] {
		return nil, fmt.Errorf("%w: status must be one of scheduled, completed, cancelled", ErrInvalid)
	}
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	a.Status = status
	if err := s.repo.Update(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*Appointment, int, error) {
	return s.repo.ListByUser(ctx, userID, limit, offset)
}

func (s *Service) ListByTherapist(ctx context.Context, therapistID uuid.UUID, limit, offset int) ([]*Appointment, int, error) {
	return s.repo.ListByTherapist(ctx, therapistID, limit, offset)
}

// AvailableSlots returns the hourly grid for a therapist on a calendar
// date given as "2006-01-02".
func (s *Service) AvailableSlots(ctx context.Context, therapistID uuid.UUID, date string) ([]Slot, error) {
	day, err := time.ParseInLocation("2006-01-02", date, time.UTC)
	if err != nil {
		return nil, fmt.Errorf("%w: date must be YYYY-MM-DD", ErrInvalid)
	}
	if _, err := s.lookupTherapist(ctx, therapistID); err != nil {
		return nil, err
	}
	booked, err := s.repo.ListForTherapistDay(ctx, therapistID, day)
	if err != nil {
		return nil, err
	}
	return DaySlots(day, s.now(), booked), nil
}

// lookupUser distinguishes a genuinely unknown user from a directory
// failure so the latter surfaces as an internal error.
func (s *Service) lookupUser(ctx context.Context, id uuid.UUID) (*Party, error) {
	p, err := s.users.FindUser(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("%w: user %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("look up user %s: %w", id, err)
	}
	return p, nil
}

func (s *Service) lookupTherapist(ctx context.Context, id uuid.UUID) (*Party, error) {
	p, err := s.therapists.FindTherapist(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("%w: therapist %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("look up therapist %s: %w", id, err)
	}
	return p, nil
}

func (s *Service) meetingLink(ctx context.Context, therapistName string, a *Appointment) string {
	summary := "MindEase session with " + therapistName
	link, err := s.meetings.CreateLink(ctx, summary, a.StartTime, a.EndTime())
	if err != nil {
		s.log.Warn().Err(err).Msg("meeting link provider failed, using fallback")
		return meeting.FallbackLink
	}
	return link
}

// -- notifications --

func (s *Service) templateData(user, therapist *Party, a *Appointment) map[string]string {
	meetingLine := ""
	if a.MeetingLink != nil {
		meetingLine = "Join online: " + *a.MeetingLink + ". "
	}
	data := map[string]string{
		"patient_name":     user.Name,
		"therapist_name":   therapist.Name,
		"appointment_type": a.Type,
		"date":             a.StartTime.Format("January 2, 2006"),
		"time":             a.StartTime.Format("15:04"),
		"meeting_line":     meetingLine,
	}
	if a.MeetingLink != nil {
		data["meeting_link"] = *a.MeetingLink
	}
	return data
}

func (s *Service) send(templateID string, data map[string]string, recipient string) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if _, err := s.notifier.SendFromTemplate(ctx, templateID, data, recipient); err != nil {
		s.log.Warn().Err(err).Str("template", templateID).Str("recipient", recipient).
			Msg("notification delivery failed")
	}
}

func (s *Service) notifyBooked(user, therapist *Party, a *Appointment) {
	data := s.templateData(user, therapist, a)
	s.send("appointment-confirmation", data, user.Email)
	s.send("therapist-new-booking", data, therapist.Email)
}

func (s *Service) notifyRescheduled(user, therapist *Party, a *Appointment) {
	data := s.templateData(user, therapist, a)
	s.send("appointment-rescheduled", data, user.Email)
	s.send("therapist-rescheduled", data, therapist.Email)
}

func (s *Service) notifyCancelled(user, therapist *Party, a *Appointment) {
	data := s.templateData(user, therapist, a)
	s.send("appointment-cancelled", data, user.Email)
	s.send("therapist-cancelled", data, therapist.Email)
}

func (s *Service) notifyInstantVisit(user, therapist *Party, a *Appointment) {
	s.send("instant-visit-started", s.templateData(user, therapist, a), user.Email)
}
