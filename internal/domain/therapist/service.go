package therapist

import (
	"context"
	"fmt"
	"net/mail"

	"github.com/google/uuid"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Create(ctx context.Context, t *Therapist) error {
	if t.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalid)
	}
	if _, err := mail.ParseAddress(t.Email); err != nil {
		return fmt.Errorf("%w: invalid email address", ErrInvalid)
	}
	if t.Specialty == "" {
		return fmt.Errorf("%w: specialty is required", ErrInvalid)
	}
	if t.HourlyRate < 0 {
		return fmt.Errorf("%w: hourly rate cannot be negative", ErrInvalid)
	}
	return s.repo.Create(ctx, t)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Therapist, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Update(ctx context.Context, t *Therapist) error {
	if t.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalid)
	}
	if t.HourlyRate < 0 {
		return fmt.Errorf("%w: hourly rate cannot be negative", ErrInvalid)
	}
	return s.repo.Update(ctx, t)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) List(ctx context.Context, specialty string, availableOnly bool, limit, offset int) ([]*Therapist, int, error) {
	return s.repo.List(ctx, specialty, availableOnly, limit, offset)
}

// SetAvailability flips the directory listing flag without touching the
// rest of the profile.
func (s *Service) SetAvailability(ctx context.Context, id uuid.UUID, available bool) (*Therapist, error) {
	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	t.IsAvailable = available
	if err := s.repo.Update(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}
