package mood

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
)

type mockRepo struct {
	moods map[uuid.UUID]*Mood
}

func newMockRepo() *mockRepo {
	return &mockRepo{moods: make(map[uuid.UUID]*Mood)}
}

func (m *mockRepo) Create(_ context.Context, mo *Mood) error {
	mo.ID = uuid.New()
	mo.CreatedAt = time.Now()
	m.moods[mo.ID] = mo
	return nil
}

func (m *mockRepo) ListByUser(_ context.Context, userID uuid.UUID, limit, offset int) ([]*Mood, int, error) {
	var result []*Mood
	for _, mo := range m.moods {
		if mo.UserID == userID {
			result = append(result, mo)
		}
	}
	return result, len(result), nil
}

func (m *mockRepo) ListByUserRange(_ context.Context, userID uuid.UUID, from, to time.Time) ([]*Mood, error) {
	var result []*Mood
	for _, mo := range m.moods {
		if mo.UserID == userID && !mo.RecordedAt.Before(from) && mo.RecordedAt.Before(to) {
			result = append(result, mo)
		}
	}
	return result, nil
}

func (m *mockRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := m.moods[id]; !ok {
		return ErrNotFound
	}
	delete(m.moods, id)
	return nil
}

func newTestService() (*Service, *mockRepo) {
	repo := newMockRepo()
	svc := NewService(repo)
	svc.now = func() time.Time {
		return time.Date(2027, 6, 14, 12, 0, 0, 0, time.UTC)
	}
	return svc, repo
}

func TestRecord(t *testing.T) {
	svc, repo := newTestService()
	userID := uuid.New()

	if err := svc.Record(context.Background(), userID, "Happy", "good session", time.Time{}); err != nil {
		t.Fatalf("Record() error: %v", err)
	}
	if len(repo.moods) != 1 {
		t.Fatalf("expected 1 mood entry, got %d", len(repo.moods))
	}
	for _, m := range repo.moods {
		if m.Mood != "happy" {
			t.Errorf("expected mood lowercased, got %q", m.Mood)
		}
		if !m.RecordedAt.Equal(svc.now()) {
			t.Errorf("expected recorded_at to default to now, got %v", m.RecordedAt)
		}
	}
}

func TestRecord_EmptyMood(t *testing.T) {
	svc, _ := newTestService()

	err := svc.Record(context.Background(), uuid.New(), "  ", "", time.Time{})
	if !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}
}

func TestSummary(t *testing.T) {
	svc, _ := newTestService()
	userID := uuid.New()
	now := svc.now()

	for _, m := range []struct {
		mood string
		at   time.Time
	}{
		{"happy", now.AddDate(0, 0, -1)},
		{"happy", now.AddDate(0, 0, -2)},
		{"sad", now.AddDate(0, 0, -3)},
		{"sad", now.AddDate(0, 0, -30)}, // outside the window
	} {
		if err := svc.Record(context.Background(), userID, m.mood, "", m.at); err != nil {
			t.Fatalf("Record() error: %v", err)
		}
	}

	counts, err := svc.Summary(context.Background(), userID, 7)
	if err != nil {
		t.Fatalf("Summary() error: %v", err)
	}
	if counts["happy"] != 2 || counts["sad"] != 1 {
		t.Errorf("unexpected counts: %v", counts)
	}
}

func TestSummary_InvalidDays(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.Summary(context.Background(), uuid.New(), 0)
	if !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}
}
