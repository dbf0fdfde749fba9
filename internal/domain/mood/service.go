package mood

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Service struct {
	repo Repository

	now func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: func() time.Time { return time.Now().UTC() }}
}

// Record appends a mood entry to the user's history. It is also the hook
// the journal uses to mirror entries into mood history.
func (s *Service) Record(ctx context.Context, userID uuid.UUID, mood, note string, at time.Time) error {
	mood = strings.ToLower(strings.TrimSpace(mood))
	if mood == "" {
		return fmt.Errorf("%w: mood is required", ErrInvalid)
	}
	if at.IsZero() {
		at = s.now()
	}
	return s.repo.Create(ctx, &Mood{UserID: userID, Mood: mood, Note: note, RecordedAt: at})
}

func (s *Service) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*Mood, int, error) {
	return s.repo.ListByUser(ctx, userID, limit, offset)
}

// Summary counts mood occurrences over the trailing number of days.
func (s *Service) Summary(ctx context.Context, userID uuid.UUID, days int) (map[string]int, error) {
	if days < 1 {
		return nil, fmt.Errorf("%w: days must be positive", ErrInvalid)
	}
	to := s.now()
	from := to.AddDate(0, 0, -days)
	entries, err := s.repo.ListByUserRange(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int)
	for _, m := range entries {
		counts[m.Mood]++
	}
	return counts, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}
