package mood

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound = errors.New("mood entry not found")
	ErrInvalid  = errors.New("invalid mood entry")
)

type Repository interface {
	Create(ctx context.Context, m *Mood) error
	ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*Mood, int, error)
	// ListByUserRange returns entries with recorded_at in [from, to).
	ListByUserRange(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]*Mood, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
