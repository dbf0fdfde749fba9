package medication

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

const medCols = `id, user_id, therapist_id, name, dosage, frequency, instructions,
	prescribed_by, start_date, end_date, reminders, is_active, prescribed_at,
	created_at, updated_at`

func scanMedication(row pgx.Row) (*Medication, error) {
	var m Medication
	err := row.Scan(&m.ID, &m.UserID, &m.TherapistID, &m.Name, &m.Dosage, &m.Frequency,
		&m.Instructions, &m.PrescribedBy, &m.StartDate, &m.EndDate, &m.Reminders,
		&m.IsActive, &m.PrescribedAt, &m.CreatedAt, &m.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return &m, err
}

func (r *repoPG) Create(ctx context.Context, m *Medication) error {
	m.ID = uuid.New()
	return r.conn(ctx).QueryRow(ctx, `
		INSERT INTO medications (id, user_id, therapist_id, name, dosage, frequency,
			instructions, prescribed_by, start_date, end_date, reminders, is_active,
			prescribed_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
		RETURNING created_at, updated_at`,
		m.ID, m.UserID, m.TherapistID, m.Name, m.Dosage, m.Frequency, m.Instructions,
		m.PrescribedBy, m.StartDate, m.EndDate, m.Reminders, m.IsActive, m.PrescribedAt).
		Scan(&m.CreatedAt, &m.UpdatedAt)
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Medication, error) {
	return scanMedication(r.conn(ctx).QueryRow(ctx,
		`SELECT `+medCols+` FROM medications WHERE id = $1`, id))
}

func (r *repoPG) Update(ctx context.Context, m *Medication) error {
	err := r.conn(ctx).QueryRow(ctx, `
		UPDATE medications SET name=$2, dosage=$3, frequency=$4, instructions=$5,
			end_date=$6, reminders=$7, is_active=$8, updated_at=NOW()
		WHERE id = $1
		RETURNING updated_at`,
		m.ID, m.Name, m.Dosage, m.Frequency, m.Instructions, m.EndDate, m.Reminders, m.IsActive).
		Scan(&m.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.conn(ctx).Exec(ctx, `DELETE FROM medications WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repoPG) ListByUser(ctx context.Context, userID uuid.UUID, activeOnly bool, limit, offset int) ([]*Medication, int, error) {
	c := r.conn(ctx)

	where := `WHERE user_id = $1`
	if activeOnly {
		where += ` AND is_active`
	}

	var total int
	if err := c.QueryRow(ctx, `SELECT COUNT(*) FROM medications `+where, userID).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := c.Query(ctx, `
		SELECT `+medCols+` FROM medications `+where+`
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`, userID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var result []*Medication
	for rows.Next() {
		m, err := scanMedication(rows)
		if err != nil {
			return nil, 0, err
		}
		result = append(result, m)
	}
	return result, total, rows.Err()
}

func (r *repoPG) AddLog(ctx context.Context, l *IntakeLog) error {
	l.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO medication_logs (id, medication_id, date, taken, notes)
		VALUES ($1,$2,$3,$4,$5)`,
		l.ID, l.MedicationID, l.Date, l.Taken, l.Notes)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23503" {
		return ErrNotFound
	}
	return err
}

func (r *repoPG) LogsInRange(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]*LogRecord, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT l.medication_id, m.name, m.dosage, l.date, l.taken, l.notes
		FROM medication_logs l
		JOIN medications m ON m.id = l.medication_id
		WHERE m.user_id = $1 AND l.date >= $2 AND l.date <= $3
		ORDER BY l.date DESC`, userID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []*LogRecord
	for rows.Next() {
		var rec LogRecord
		if err := rows.Scan(&rec.MedicationID, &rec.MedicationName, &rec.Dosage,
			&rec.Date, &rec.Taken, &rec.Notes); err != nil {
			return nil, err
		}
		result = append(result, &rec)
	}
	return result, rows.Err()
}

func (r *repoPG) LogsOnDay(ctx context.Context, userID uuid.UUID, day time.Time) ([]*IntakeLog, error) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT l.id, l.medication_id, l.date, l.taken, l.notes
		FROM medication_logs l
		JOIN medications m ON m.id = l.medication_id
		WHERE m.user_id = $1 AND l.date >= $2 AND l.date < $3
		ORDER BY l.date ASC`, userID, start, start.AddDate(0, 0, 1))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []*IntakeLog
	for rows.Next() {
		var l IntakeLog
		if err := rows.Scan(&l.ID, &l.MedicationID, &l.Date, &l.Taken, &l.Notes); err != nil {
			return nil, err
		}
		result = append(result, &l)
	}
	return result, rows.Err()
}
