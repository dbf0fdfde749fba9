package payment

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// UserChecker validates that the paying user exists.
type UserChecker interface {
	UserExists(ctx context.Context, id uuid.UUID) (bool, error)
}

type Service struct {
	repo  Repository
	users UserChecker

	now func() time.Time
}

func NewService(repo Repository, users UserChecker) *Service {
	return &Service{repo: repo, users: users, now: func() time.Time { return time.Now().UTC() }}
}

// Create records a new pending payment.
func (s *Service) Create(ctx context.Context, userID uuid.UUID, appointmentID *uuid.UUID, amount float64, method string) (*Payment, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("%w: amount must be positive", ErrInvalid)
	}
	ok, err := s.users.UserExists(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: user %s", ErrNotFound, userID)
	}
	if method == "" {
		method = "card"
	}

	p := &Payment{
		UserID:        userID,
		AppointmentID: appointmentID,
		Amount:        amount,
		Status:        StatusPending,
		Method:        method,
		PaidAt:        s.now(),
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Payment, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*Payment, int, error) {
	return s.repo.ListByUser(ctx, userID, limit, offset)
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]*Payment, int, error) {
	return s.repo.List(ctx, limit, offset)
}

// UpdateStatus moves a payment to a new status. Refunds go through
// Refund, not here.
func (s *Service) UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*Payment, error) {
	status = NormalizeStatus(status)
	if !ValidStatus(status) {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalid, status)
	}
	if status == StatusRefunded {
		return nil, fmt.Errorf("%w: use the refund endpoint to refund", ErrInvalid)
	}
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.Status == StatusRefunded {
		return nil, fmt.Errorf("%w: payment already refunded", ErrInvalid)
	}
	p.Status = status
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// Refund marks a completed payment refunded. Only completed payments
// can be refunded, and only once.
func (s *Service) Refund(ctx context.Context, id uuid.UUID) (*Payment, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.Status == StatusRefunded {
		return nil, fmt.Errorf("%w: payment already refunded", ErrInvalid)
	}
	if p.Status != StatusCompleted {
		return nil, fmt.Errorf("%w: can only refund completed payments", ErrInvalid)
	}
	now := s.now()
	p.Status = StatusRefunded
	p.RefundedAt = &now
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}
