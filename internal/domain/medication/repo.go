package medication

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound = errors.New("medication not found")
	ErrInvalid  = errors.New("invalid medication")
)

type Repository interface {
	Create(ctx context.Context, m *Medication) error
	GetByID(ctx context.Context, id uuid.UUID) (*Medication, error)
	Update(ctx context.Context, m *Medication) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListByUser(ctx context.Context, userID uuid.UUID, activeOnly bool, limit, offset int) ([]*Medication, int, error)

	AddLog(ctx context.Context, l *IntakeLog) error
	// LogsInRange returns intake logs for all of the user's medications
	// with date in [from, to], most recent first.
	LogsInRange(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]*LogRecord, error)
	// LogsOnDay returns the user's intake logs for the given calendar day.
	LogsOnDay(ctx context.Context, userID uuid.UUID, day time.Time) ([]*IntakeLog, error)
}
