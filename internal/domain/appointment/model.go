package appointment

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Appointment maps to the appointments table.
type Appointment struct {
	ID              uuid.UUID `db:"id" json:"id"`
	UserID          uuid.UUID `db:"user_id" json:"user_id"`
	TherapistID     uuid.UUID `db:"therapist_id" json:"therapist_id"`
	StartTime       time.Time `db:"start_time" json:"start_time"`
	DurationMinutes int       `db:"duration_minutes" json:"duration_minutes"`
	Status          string    `db:"status" json:"status"`
	Type            string    `db:"type" json:"type"`
	Notes           *string   `db:"notes" json:"notes,omitempty"`
	MeetingLink     *string   `db:"meeting_link" json:"meeting_link,omitempty"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time `db:"updated_at" json:"updated_at"`
}

// EndTime returns the exclusive end of the appointment interval.
func (a *Appointment) EndTime() time.Time {
	return a.StartTime.Add(time.Duration(a.DurationMinutes) * time.Minute)
}

const (
	StatusScheduled   = "scheduled"
	StatusInProgress  = "in-progress"
	StatusCompleted   = "completed"
	StatusCancelled   = "cancelled"
	StatusRescheduled = "rescheduled"

	TypeOnline   = "online"
	TypePhysical = "physical"
	TypeInstant  = "instant"
)

var validStatuses = map[string]bool{
	StatusScheduled: true, StatusInProgress: true, StatusCompleted: true,
	StatusCancelled: true, StatusRescheduled: true,
}

var validTypes = map[string]bool{
	TypeOnline: true, TypePhysical: true, TypeInstant: true,
}

// NormalizeStatus lower-cases and trims an externally supplied status so
// that values like "Completed" match the canonical enum.
func NormalizeStatus(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func ValidStatus(s string) bool { return validStatuses[s] }

func ValidType(t string) bool { return validTypes[t] }

// Slot is one entry in a therapist's daily availability grid.
type Slot struct {
	Start     time.Time `json:"start_time"`
	End       time.Time `json:"end_time"`
	Time      string    `json:"time"`
	Available bool      `json:"available"`
}
