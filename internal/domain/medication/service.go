package medication

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
)

// UserChecker validates that the prescribed user exists.
type UserChecker interface {
	UserExists(ctx context.Context, id uuid.UUID) (bool, error)
}

// TherapistDirectory resolves the prescribing therapist's display name.
type TherapistDirectory interface {
	TherapistName(ctx context.Context, id uuid.UUID) (string, error)
}

type Service struct {
	repo       Repository
	users      UserChecker
	therapists TherapistDirectory

	now func() time.Time
}

func NewService(repo Repository, users UserChecker, therapists TherapistDirectory) *Service {
	return &Service{
		repo:       repo,
		users:      users,
		therapists: therapists,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// Prescribe validates the prescription and stamps the prescribing
// therapist's name onto it.
func (s *Service) Prescribe(ctx context.Context, m *Medication) (*Medication, error) {
	if m.Name == "" || m.Dosage == "" || m.Frequency == "" {
		return nil, fmt.Errorf("%w: name, dosage and frequency are required", ErrInvalid)
	}
	if m.StartDate.IsZero() {
		return nil, fmt.Errorf("%w: start date is required", ErrInvalid)
	}
	if m.EndDate != nil && m.EndDate.Before(m.StartDate) {
		return nil, fmt.Errorf("%w: end date precedes start date", ErrInvalid)
	}
	for _, r := range m.Reminders {
		if _, err := time.Parse("15:04", r); err != nil {
			return nil, fmt.Errorf("%w: reminder %q is not HH:MM", ErrInvalid, r)
		}
	}

	ok, err := s.users.UserExists(ctx, m.UserID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: user %s", ErrNotFound, m.UserID)
	}
	name, err := s.therapists.TherapistName(ctx, m.TherapistID)
	if err != nil {
		return nil, fmt.Errorf("%w: therapist %s", ErrNotFound, m.TherapistID)
	}

	m.PrescribedBy = name
	m.IsActive = true
	m.PrescribedAt = s.now()
	if err := s.repo.Create(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Medication, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListByUser(ctx context.Context, userID uuid.UUID, activeOnly bool, limit, offset int) ([]*Medication, int, error) {
	return s.repo.ListByUser(ctx, userID, activeOnly, limit, offset)
}

// MedicationUpdate carries the mutable fields of a prescription. Nil
// fields are left unchanged.
type MedicationUpdate struct {
	Name         *string    `json:"name"`
	Dosage       *string    `json:"dosage"`
	Frequency    *string    `json:"frequency"`
	Instructions *string    `json:"instructions"`
	EndDate      *time.Time `json:"end_date"`
	Reminders    []string   `json:"reminders"`
	IsActive     *bool      `json:"is_active"`
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, upd MedicationUpdate) (*Medication, error) {
	m, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if upd.Name != nil {
		if *upd.Name == "" {
			return nil, fmt.Errorf("%w: name cannot be empty", ErrInvalid)
		}
		m.Name = *upd.Name
	}
	if upd.Dosage != nil {
		m.Dosage = *upd.Dosage
	}
	if upd.Frequency != nil {
		m.Frequency = *upd.Frequency
	}
	if upd.Instructions != nil {
		m.Instructions = *upd.Instructions
	}
	if upd.EndDate != nil {
		m.EndDate = upd.EndDate
	}
	if upd.Reminders != nil {
		for _, r := range upd.Reminders {
			if _, err := time.Parse("15:04", r); err != nil {
				return nil, fmt.Errorf("%w: reminder %q is not HH:MM", ErrInvalid, r)
			}
		}
		m.Reminders = upd.Reminders
	}
	if upd.IsActive != nil {
		m.IsActive = *upd.IsActive
	}
	if err := s.repo.Update(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

// ToggleActive flips the prescription's active flag.
func (s *Service) ToggleActive(ctx context.Context, id uuid.UUID) (*Medication, error) {
	m, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	m.IsActive = !m.IsActive
	if err := s.repo.Update(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

// LogIntake records whether a dose was taken. Date defaults to now.
func (s *Service) LogIntake(ctx context.Context, medicationID uuid.UUID, taken bool, notes string, date time.Time) (*IntakeLog, error) {
	if _, err := s.repo.GetByID(ctx, medicationID); err != nil {
		return nil, err
	}
	if date.IsZero() {
		date = s.now()
	}
	l := &IntakeLog{MedicationID: medicationID, Date: date, Taken: taken, Notes: notes}
	if err := s.repo.AddLog(ctx, l); err != nil {
		return nil, err
	}
	return l, nil
}

// Logs returns the user's intake history. A zero from defaults to the
// trailing 30 days and a zero to defaults to now.
func (s *Service) Logs(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]*LogRecord, error) {
	if to.IsZero() {
		to = s.now()
	}
	if from.IsZero() {
		from = to.AddDate(0, 0, -30)
	}
	return s.repo.LogsInRange(ctx, userID, from, to)
}

// TodaySchedule expands the user's active prescriptions into reminder
// slots for today, sorted by time, marking slots already logged taken.
func (s *Service) TodaySchedule(ctx context.Context, userID uuid.UUID) ([]ScheduleItem, error) {
	meds, _, err := s.repo.ListByUser(ctx, userID, true, 100, 0)
	if err != nil {
		return nil, err
	}
	logs, err := s.repo.LogsOnDay(ctx, userID, s.now())
	if err != nil {
		return nil, err
	}
	takenToday := make(map[uuid.UUID]bool)
	for _, l := range logs {
		if l.Taken {
			takenToday[l.MedicationID] = true
		}
	}

	var schedule []ScheduleItem
	for _, m := range meds {
		for _, r := range m.Reminders {
			schedule = append(schedule, ScheduleItem{
				MedicationID:   m.ID,
				MedicationName: m.Name,
				Dosage:         m.Dosage,
				Time:           r,
				Taken:          takenToday[m.ID],
				Instructions:   m.Instructions,
			})
		}
	}
	sort.Slice(schedule, func(i, j int) bool { return schedule[i].Time < schedule[j].Time })
	return schedule, nil
}
