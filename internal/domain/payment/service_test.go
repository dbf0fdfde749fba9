package payment

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
)

type mockRepo struct {
	payments map[uuid.UUID]*Payment
}

func newMockRepo() *mockRepo {
	return &mockRepo{payments: make(map[uuid.UUID]*Payment)}
}

func (m *mockRepo) Create(_ context.Context, p *Payment) error {
	p.ID = uuid.New()
	p.CreatedAt = time.Now()
	p.UpdatedAt = time.Now()
	m.payments[p.ID] = p
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, id uuid.UUID) (*Payment, error) {
	p, ok := m.payments[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *p
	return &copied, nil
}

func (m *mockRepo) Update(_ context.Context, p *Payment) error {
	if _, ok := m.payments[p.ID]; !ok {
		return ErrNotFound
	}
	m.payments[p.ID] = p
	return nil
}

func (m *mockRepo) ListByUser(_ context.Context, userID uuid.UUID, limit, offset int) ([]*Payment, int, error) {
	var result []*Payment
	for _, p := range m.payments {
		if p.UserID == userID {
			result = append(result, p)
		}
	}
	return result, len(result), nil
}

func (m *mockRepo) List(_ context.Context, limit, offset int) ([]*Payment, int, error) {
	var result []*Payment
	for _, p := range m.payments {
		result = append(result, p)
	}
	return result, len(result), nil
}

type mockUserChecker struct {
	known map[uuid.UUID]bool
}

func (m *mockUserChecker) UserExists(_ context.Context, id uuid.UUID) (bool, error) {
	return m.known[id], nil
}

func newTestService() (*Service, uuid.UUID) {
	userID := uuid.New()
	svc := NewService(newMockRepo(), &mockUserChecker{known: map[uuid.UUID]bool{userID: true}})
	svc.now = func() time.Time {
		return time.Date(2027, 6, 14, 12, 0, 0, 0, time.UTC)
	}
	return svc, userID
}

func TestCreate(t *testing.T) {
	svc, userID := newTestService()

	p, err := svc.Create(context.Background(), userID, nil, 120.0, "")
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}
	if p.Status != StatusPending {
		t.Errorf("expected pending status, got %q", p.Status)
	}
	if p.Method != "card" {
		t.Errorf("expected method to default to card, got %q", p.Method)
	}
	if !p.PaidAt.Equal(svc.now()) {
		t.Errorf("expected paid_at set to now, got %v", p.PaidAt)
	}
}

func TestCreate_InvalidAmount(t *testing.T) {
	svc, userID := newTestService()

	for _, amount := range []float64{0, -10} {
		if _, err := svc.Create(context.Background(), userID, nil, amount, "card"); !errors.Is(err, ErrInvalid) {
			t.Errorf("amount %f: expected ErrInvalid, got %v", amount, err)
		}
	}
}

func TestCreate_UnknownUser(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.Create(context.Background(), uuid.New(), nil, 50.0, "card")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUpdateStatus(t *testing.T) {
	svc, userID := newTestService()
	p, err := svc.Create(context.Background(), userID, nil, 80.0, "card")
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}

	updated, err := svc.UpdateStatus(context.Background(), p.ID, "Completed")
	if err != nil {
		t.Fatalf("UpdateStatus() error: %v", err)
	}
	if updated.Status != StatusCompleted {
		t.Errorf("expected status normalized to completed, got %q", updated.Status)
	}
}

func TestUpdateStatus_Rejections(t *testing.T) {
	svc, userID := newTestService()
	p, err := svc.Create(context.Background(), userID, nil, 80.0, "card")
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}

	for _, status := range []string{"refunded", "unknown", ""} {
		if _, err := svc.UpdateStatus(context.Background(), p.ID, status); !errors.Is(err, ErrInvalid) {
			t.Errorf("status %q: expected ErrInvalid, got %v", status, err)
		}
	}
}

func TestRefund(t *testing.T) {
	svc, userID := newTestService()
	p, err := svc.Create(context.Background(), userID, nil, 80.0, "card")
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}
	if _, err := svc.UpdateStatus(context.Background(), p.ID, StatusCompleted); err != nil {
		t.Fatalf("UpdateStatus() error: %v", err)
	}

	refunded, err := svc.Refund(context.Background(), p.ID)
	if err != nil {
		t.Fatalf("Refund() error: %v", err)
	}
	if refunded.Status != StatusRefunded {
		t.Errorf("expected refunded status, got %q", refunded.Status)
	}
	if refunded.RefundedAt == nil || !refunded.RefundedAt.Equal(svc.now()) {
		t.Errorf("expected refunded_at set, got %v", refunded.RefundedAt)
	}
}

func TestRefund_OnlyCompleted(t *testing.T) {
	svc, userID := newTestService()
	p, err := svc.Create(context.Background(), userID, nil, 80.0, "card")
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}

	// Still pending.
	if _, err := svc.Refund(context.Background(), p.ID); !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected ErrInvalid for pending payment, got %v", err)
	}
}

func TestRefund_Twice(t *testing.T) {
	svc, userID := newTestService()
	p, err := svc.Create(context.Background(), userID, nil, 80.0, "card")
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}
	if _, err := svc.UpdateStatus(context.Background(), p.ID, StatusCompleted); err != nil {
		t.Fatalf("UpdateStatus() error: %v", err)
	}
	if _, err := svc.Refund(context.Background(), p.ID); err != nil {
		t.Fatalf("Refund() error: %v", err)
	}

	if _, err := svc.Refund(context.Background(), p.ID); !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected ErrInvalid on second refund, got %v", err)
	}
}
