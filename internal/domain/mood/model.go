package mood

import (
	"time"

	"github.com/google/uuid"
)

// Mood is a single point in a user's mood history. Entries are created
// directly or as a side effect of journaling.
type Mood struct {
	ID         uuid.UUID `db:"id" json:"id"`
	UserID     uuid.UUID `db:"user_id" json:"user_id"`
	Mood       string    `db:"mood" json:"mood"`
	Note       string    `db:"note" json:"note,omitempty"`
	RecordedAt time.Time `db:"recorded_at" json:"recorded_at"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}
