package therapist

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var (
	ErrNotFound = errors.New("therapist not found")
	ErrInvalid  = errors.New("invalid therapist")
)

type Repository interface {
	Create(ctx context.Context, t *Therapist) error
	GetByID(ctx context.Context, id uuid.UUID) (*Therapist, error)
	Update(ctx context.Context, t *Therapist) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, specialty string, availableOnly bool, limit, offset int) ([]*Therapist, int, error)
}
