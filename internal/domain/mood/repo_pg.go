package mood

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mindease/mindease/internal/platform/db"
)

type queryable interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

func (r *repoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

const moodCols = `id, user_id, mood, note, recorded_at, created_at`

func scanMood(row pgx.Row) (*Mood, error) {
	var m Mood
	err := row.Scan(&m.ID, &m.UserID, &m.Mood, &m.Note, &m.RecordedAt, &m.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return &m, err
}

func (r *repoPG) Create(ctx context.Context, m *Mood) error {
	m.ID = uuid.New()
	return r.conn(ctx).QueryRow(ctx, `
		INSERT INTO moods (id, user_id, mood, note, recorded_at)
		VALUES ($1,$2,$3,$4,$5)
		RETURNING created_at`,
		m.ID, m.UserID, m.Mood, m.Note, m.RecordedAt).Scan(&m.CreatedAt)
}

func (r *repoPG) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*Mood, int, error) {
	c := r.conn(ctx)

	var total int
	if err := c.QueryRow(ctx, `SELECT COUNT(*) FROM moods WHERE user_id = $1`, userID).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := c.Query(ctx, `
		SELECT `+moodCols+` FROM moods
		WHERE user_id = $1
		ORDER BY recorded_at DESC
		LIMIT $2 OFFSET $3`, userID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var result []*Mood
	for rows.Next() {
		m, err := scanMood(rows)
		if err != nil {
			return nil, 0, err
		}
		result = append(result, m)
	}
	return result, total, rows.Err()
}

func (r *repoPG) ListByUserRange(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]*Mood, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT `+moodCols+` FROM moods
		WHERE user_id = $1 AND recorded_at >= $2 AND recorded_at < $3
		ORDER BY recorded_at ASC`, userID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []*Mood
	for rows.Next() {
		m, err := scanMood(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, m)
	}
	return result, rows.Err()
}

func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.conn(ctx).Exec(ctx, `DELETE FROM moods WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
