package appointment

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

const apptCols = `id, user_id, therapist_id, start_time, duration_minutes,
	status, type, notes, meeting_link, created_at, updated_at`

func (r *repoPG) scanAppt(row pgx.Row) (*Appointment, error) {
	var a Appointment
	err := row.Scan(&a.ID, &a.UserID, &a.TherapistID, &a.StartTime, &a.DurationMinutes,
		&a.Status, &a.Type, &a.Notes, &a.MeetingLink, &a.CreatedAt, &a.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return &a, err
}

// hasConflict locks the therapist's overlapping non-cancelled rows so a
// concurrent booking in another transaction blocks until this one
// commits. Must run inside a transaction.
func (r *repoPG) hasConflict(ctx context.Context, therapistID uuid.UUID, start time.Time, minutes int, excludeID uuid.UUID) (bool, error) {
	var id uuid.UUID
	err := r.conn(ctx).QueryRow(ctx, `
		SELECT id FROM appointments
		WHERE therapist_id = $1 AND status <> 'cancelled' AND id <> $2
		  AND start_time < $3 + make_interval(mins => $4)
		  AND start_time + make_interval(mins => duration_minutes) > $3
		LIMIT 1
		FOR UPDATE`,
		therapistID, excludeID, start, minutes).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *repoPG) Create(ctx context.Context, a *Appointment) error {
	a.ID = uuid.New()
	return db.InTx(ctx, r.pool, func(ctx context.Context) error {
		busy, err := r.hasConflict(ctx, a.TherapistID, a.StartTime, a.DurationMinutes, uuid.Nil)
		if err != nil {
			return err
		}
		if busy {
			return ErrConflict
		}
		err = r.conn(ctx).QueryRow(ctx, `
			INSERT INTO appointments (id, user_id, therapist_id, start_time, duration_minutes,
				status, type, notes, meeting_link)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
			RETURNING created_at, updated_at`,
			a.ID, a.UserID, a.TherapistID, a.StartTime, a.DurationMinutes,
			a.Status, a.Type, a.Notes, a.MeetingLink).
			Scan(&a.CreatedAt, &a.UpdatedAt)
		return mapPgErr(err)
	})
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	return r.scanAppt(r.conn(ctx).QueryRow(ctx, `SELECT `+apptCols+` FROM appointments WHERE id = $1`, id))
}

func (r *repoPG) Update(ctx context.Context, a *Appointment) error {
	err := r.conn(ctx).QueryRow(ctx, `
		UPDATE appointments SET start_time=$2, duration_minutes=$3, status=$4,
			notes=$5, meeting_link=$6, updated_at=NOW()
		WHERE id = $1
		RETURNING updated_at`,
		a.ID, a.StartTime, a.DurationMinutes, a.Status, a.Notes, a.MeetingLink).
		Scan(&a.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	return mapPgErr(err)
}

func (r *repoPG) Reschedule(ctx context.Context, a *Appointment) error {
	return db.InTx(ctx, r.pool, func(ctx context.Context) error {
		busy, err := r.hasConflict(ctx, a.TherapistID, a.StartTime, a.DurationMinutes, a.ID)
		if err != nil {
			return err
		}
		if busy {
			return ErrConflict
		}
		return r.Update(ctx, a)
	})
}

func (r *repoPG) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*Appointment, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM appointments WHERE user_id = $1`, userID).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx, `SELECT `+apptCols+` FROM appointments WHERE user_id = $1 ORDER BY start_time DESC LIMIT $2 OFFSET $3`, userID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Appointment
	for rows.Next() {
		a, err := r.scanAppt(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, a)
	}
	return items, total, nil
}

func (r *repoPG) ListByTherapist(ctx context.Context, therapistID uuid.UUID, limit, offset int) ([]*Appointment, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM appointments WHERE therapist_id = $1`, therapistID).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx, `SELECT `+apptCols+` FROM appointments WHERE therapist_id = $1 ORDER BY start_time DESC LIMIT $2 OFFSET $3`, therapistID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Appointment
	for rows.Next() {
		a, err := r.scanAppt(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, a)
	}
	return items, total, nil
}

func (r *repoPG) ListForTherapistDay(ctx context.Context, therapistID uuid.UUID, day time.Time) ([]*Appointment, error) {
	dayStart := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT `+apptCols+` FROM appointments
		WHERE therapist_id = $1 AND start_time >= $2 AND start_time < $3
		ORDER BY start_time ASC`,
		therapistID, dayStart, dayStart.Add(24*time.Hour))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*Appointment
	for rows.Next() {
		a, err := r.scanAppt(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, a)
	}
	return items, nil
}

// mapPgErr translates the appointments_no_overlap exclusion constraint
// into ErrConflict so races that slip past the row lock still surface
// as a booking conflict.
func mapPgErr(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23P01" {
		return ErrConflict
	}
	return err
}
