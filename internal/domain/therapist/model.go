package therapist

import (
	"time"

	"github.com/google/uuid"
)

// Therapist maps to the therapists table.
type Therapist struct {
	ID              uuid.UUID `db:"id" json:"id"`
	Name            string    `db:"name" json:"name"`
	Email           string    `db:"email" json:"email"`
	Phone           *string   `db:"phone" json:"phone,omitempty"`
	Specialty       string    `db:"specialty" json:"specialty"`
	ExperienceYears int       `db:"experience_years" json:"experience_years"`
	Location        *string   `db:"location" json:"location,omitempty"`
	Rating          float64   `db:"rating" json:"rating"`
	HourlyRate      float64   `db:"hourly_rate" json:"hourly_rate"`
	Bio             *string   `db:"bio" json:"bio,omitempty"`
	Languages       []string  `db:"languages" json:"languages,omitempty"`
	IsAvailable     bool      `db:"is_available" json:"is_available"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time `db:"updated_at" json:"updated_at"`
}
