package payment

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var (
	ErrNotFound = errors.New("payment not found")
	ErrInvalid  = errors.New("invalid payment")
)

type Repository interface {
	Create(ctx context.Context, p *Payment) error
	GetByID(ctx context.Context, id uuid.UUID) (*Payment, error)
	Update(ctx context.Context, p *Payment) error
	ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*Payment, int, error)
	List(ctx context.Context, limit, offset int) ([]*Payment, int, error)
}
