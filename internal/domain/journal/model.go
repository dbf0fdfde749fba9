package journal

import (
	"time"

	"github.com/google/uuid"
)

// Entry maps to the journal_entries table.
type Entry struct {
	ID             uuid.UUID `db:"id" json:"id"`
	UserID         uuid.UUID `db:"user_id" json:"user_id"`
	EntryDate      time.Time `db:"entry_date" json:"entry_date"`
	Content        string    `db:"content" json:"content"`
	SentimentScore float64   `db:"sentiment_score" json:"sentiment_score"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`
}
