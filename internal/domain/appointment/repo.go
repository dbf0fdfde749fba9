package appointment

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound = errors.New("appointment not found")
	ErrInvalid  = errors.New("invalid appointment")
	ErrConflict = errors.New("appointment time conflicts with an existing booking")
)

// Repository is the persistence port for appointments. Create and
// Reschedule are conflict-checked: they must atomically verify the
// therapist has no overlapping non-cancelled appointment and return
// ErrConflict otherwise. Update writes without a conflict check and is
// used for status-only changes.
type Repository interface {
	Create(ctx context.Context, a *Appointment) error
	GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error)
	Update(ctx context.Context, a *Appointment) error
	Reschedule(ctx context.Context, a *Appointment) error
	ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*Appointment, int, error)
	ListByTherapist(ctx context.Context, therapistID uuid.UUID, limit, offset int) ([]*Appointment, int, error)
	ListForTherapistDay(ctx context.Context, therapistID uuid.UUID, day time.Time) ([]*Appointment, error)
}
