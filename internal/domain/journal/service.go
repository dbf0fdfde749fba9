package journal

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// UserChecker validates that the journaling user exists.
type UserChecker interface {
	UserExists(ctx context.Context, id uuid.UUID) (bool, error)
}

// MoodRecorder mirrors each journal entry into the user's mood history.
type MoodRecorder interface {
	Record(ctx context.Context, userID uuid.UUID, mood, note string, at time.Time) error
}

type Service struct {
	repo  Repository
	users UserChecker
	moods MoodRecorder
}

func NewService(repo Repository, users UserChecker, moods MoodRecorder) *Service {
	return &Service{repo: repo, users: users, moods: moods}
}

// Create stores a journal entry with a computed sentiment score and
// records a mood entry for the same date. Mood defaults to neutral.
func (s *Service) Create(ctx context.Context, userID uuid.UUID, entryDate time.Time, content, mood string) (*Entry, error) {
	if content == "" {
		return nil, fmt.Errorf("%w: content is required", ErrInvalid)
	}
	ok, err := s.users.UserExists(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: user %s", ErrNotFound, userID)
	}
	if entryDate.IsZero() {
		entryDate = time.Now().UTC()
	}
	if mood == "" {
		mood = "neutral"
	}

	e := &Entry{
		UserID:         userID,
		EntryDate:      entryDate,
		Content:        content,
		SentimentScore: SentimentScore(content).Score,
	}
	if err := s.repo.Create(ctx, e); err != nil {
		return nil, err
	}
	if err := s.moods.Record(ctx, userID, mood, content, entryDate); err != nil {
		return nil, fmt.Errorf("record mood: %w", err)
	}
	return e, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Entry, error) {
	return s.repo.GetByID(ctx, id)
}

// EntryUpdate carries the mutable fields of a journal entry.
type EntryUpdate struct {
	Content *string `json:"content"`
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, upd EntryUpdate) (*Entry, error) {
	e, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if upd.Content != nil {
		if *upd.Content == "" {
			return nil, fmt.Errorf("%w: content cannot be empty", ErrInvalid)
		}
		e.Content = *upd.Content
		e.SentimentScore = SentimentScore(e.Content).Score
	}
	if err := s.repo.Update(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*Entry, int, error) {
	return s.repo.ListByUser(ctx, userID, limit, offset)
}

// AnalyzeEntry runs the keyword analysis over a stored entry.
func (s *Service) AnalyzeEntry(ctx context.Context, id uuid.UUID) (*Entry, Analysis, error) {
	e, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, Analysis{}, err
	}
	return e, Analyze(e.Content), nil
}

// AnalyzedEntry pairs an entry with its analysis for history listings.
type AnalyzedEntry struct {
	Entry    *Entry   `json:"entry"`
	Analysis Analysis `json:"analysis"`
}

// AnalysisHistory analyzes the user's most recent entries.
func (s *Service) AnalysisHistory(ctx context.Context, userID uuid.UUID, limit, offset int) ([]AnalyzedEntry, int, error) {
	ok, err := s.users.UserExists(ctx, userID)
	if err != nil {
		return nil, 0, err
	}
	if !ok {
		return nil, 0, fmt.Errorf("%w: user %s", ErrNotFound, userID)
	}
	entries, total, err := s.repo.ListByUser(ctx, userID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	history := make([]AnalyzedEntry, len(entries))
	for i, e := range entries {
		history[i] = AnalyzedEntry{Entry: e, Analysis: Analyze(e.Content)}
	}
	return history, total, nil
}
