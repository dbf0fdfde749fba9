package therapist

import (
	"context"
	"errors"
	"fmt"

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

const therapistCols = `id, name, email, phone, specialty, experience_years,
	location, rating, hourly_rate, bio, languages, is_available, created_at, updated_at`

func (r *repoPG) scanTherapist(row pgx.Row) (*Therapist, error) {
	var t Therapist
	err := row.Scan(&t.ID, &t.Name, &t.Email, &t.Phone, &t.Specialty, &t.ExperienceYears,
		&t.Location, &t.Rating, &t.HourlyRate, &t.Bio, &t.Languages, &t.IsAvailable,
		&t.CreatedAt, &t.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return &t, err
}

func (r *repoPG) Create(ctx context.Context, t *Therapist) error {
	t.ID = uuid.New()
	return r.conn(ctx).QueryRow(ctx, `
		INSERT INTO therapists (id, name, email, phone, specialty, experience_years,
			location, rating, hourly_rate, bio, languages, is_available)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
		RETURNING created_at, updated_at`,
		t.ID, t.Name, t.Email, t.Phone, t.Specialty, t.ExperienceYears,
		t.Location, t.Rating, t.HourlyRate, t.Bio, t.Languages, t.IsAvailable).
		Scan(&t.CreatedAt, &t.UpdatedAt)
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Therapist, error) {
	return r.scanTherapist(r.conn(ctx).QueryRow(ctx, `SELECT `+therapistCols+` FROM therapists WHERE id = $1`, id))
}

func (r *repoPG) Update(ctx context.Context, t *Therapist) error {
	err := r.conn(ctx).QueryRow(ctx, `
		UPDATE therapists SET name=$2, email=$3, phone=$4, specialty=$5,
			experience_years=$6, location=$7, rating=$8, hourly_rate=$9,
			bio=$10, languages=$11, is_available=$12, updated_at=NOW()
		WHERE id = $1
		RETURNING updated_at`,
		t.ID, t.Name, t.Email, t.Phone, t.Specialty,
		t.ExperienceYears, t.Location, t.Rating, t.HourlyRate,
		t.Bio, t.Languages, t.IsAvailable).
		Scan(&t.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.conn(ctx).Exec(ctx, `DELETE FROM therapists WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repoPG) List(ctx context.Context, specialty string, availableOnly bool, limit, offset int) ([]*Therapist, int, error) {
	query := `SELECT ` + therapistCols + ` FROM therapists WHERE 1=1`
	countQuery := `SELECT COUNT(*) FROM therapists WHERE 1=1`
	var args []interface{}
	idx := 1

	if specialty != "" {
		query += fmt.Sprintf(` AND specialty = $%d`, idx)
		countQuery += fmt.Sprintf(` AND specialty = $%d`, idx)
		args = append(args, specialty)
		idx++
	}
	if availableOnly {
		query += ` AND is_available`
		countQuery += ` AND is_available`
	}

	var total int
	if err := r.conn(ctx).QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query += fmt.Sprintf(` ORDER BY rating DESC, name ASC LIMIT $%d OFFSET $%d`, idx, idx+1)
	args = append(args, limit, offset)

	rows, err := r.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Therapist
	for rows.Next() {
		t, err := r.scanTherapist(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, t)
	}
	return items, total, nil
}
