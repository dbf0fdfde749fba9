package payment

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Payment statuses.
const (
	StatusPending   = "pending"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
	StatusRefunded  = "refunded"
)

var validStatuses = map[string]bool{
	StatusPending:   true,
	StatusCompleted: true,
	StatusFailed:    true,
	StatusRefunded:  true,
}

// NormalizeStatus folds client casing onto the canonical form.
func NormalizeStatus(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func ValidStatus(s string) bool { return validStatuses[s] }

// Payment is a charge against a user, optionally tied to an appointment.
type Payment struct {
	ID            uuid.UUID  `db:"id" json:"id"`
	UserID        uuid.UUID  `db:"user_id" json:"user_id"`
	AppointmentID *uuid.UUID `db:"appointment_id" json:"appointment_id,omitempty"`
	Amount        float64    `db:"amount" json:"amount"`
	Status        string     `db:"status" json:"status"`
	Method        string     `db:"method" json:"method"`
	PaidAt        time.Time  `db:"paid_at" json:"paid_at"`
	RefundedAt    *time.Time `db:"refunded_at" json:"refunded_at,omitempty"`
	CreatedAt     time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time  `db:"updated_at" json:"updated_at"`
}
