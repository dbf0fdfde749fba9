package medication

import (
	"time"

	"github.com/google/uuid"
)

// Medication is a prescription a therapist has issued to a user.
// Reminders hold "HH:MM" times for the daily schedule.
type Medication struct {
	ID           uuid.UUID  `db:"id" json:"id"`
	UserID       uuid.UUID  `db:"user_id" json:"user_id"`
	TherapistID  uuid.UUID  `db:"therapist_id" json:"therapist_id"`
	Name         string     `db:"name" json:"name"`
	Dosage       string     `db:"dosage" json:"dosage"`
	Frequency    string     `db:"frequency" json:"frequency"`
	Instructions string     `db:"instructions" json:"instructions,omitempty"`
	PrescribedBy string     `db:"prescribed_by" json:"prescribed_by"`
	StartDate    time.Time  `db:"start_date" json:"start_date"`
	EndDate      *time.Time `db:"end_date" json:"end_date,omitempty"`
	Reminders    []string   `db:"reminders" json:"reminders"`
	IsActive     bool       `db:"is_active" json:"is_active"`
	PrescribedAt time.Time  `db:"prescribed_at" json:"prescribed_at"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updated_at"`
}

// IntakeLog records whether a dose was taken.
type IntakeLog struct {
	ID           uuid.UUID `db:"id" json:"id"`
	MedicationID uuid.UUID `db:"medication_id" json:"medication_id"`
	Date         time.Time `db:"date" json:"date"`
	Taken        bool      `db:"taken" json:"taken"`
	Notes        string    `db:"notes" json:"notes,omitempty"`
}

// LogRecord is an intake log joined with its medication, for history
// listings.
type LogRecord struct {
	MedicationID   uuid.UUID `json:"medication_id"`
	MedicationName string    `json:"medication_name"`
	Dosage         string    `json:"dosage"`
	Date           time.Time `json:"date"`
	Taken          bool      `json:"taken"`
	Notes          string    `json:"notes,omitempty"`
}

// ScheduleItem is one reminder slot in a user's daily schedule.
type ScheduleItem struct {
	MedicationID   uuid.UUID `json:"medication_id"`
	MedicationName string    `json:"medication_name"`
	Dosage         string    `json:"dosage"`
	Time           string    `json:"time"`
	Taken          bool      `json:"taken"`
	Instructions   string    `json:"instructions,omitempty"`
}
