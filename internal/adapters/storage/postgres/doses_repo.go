package postgres

import (
	"context"
	"database/sql"
	"time"

	"medicine-calendar/internal/domain/doses"
)

type DosesRepo struct {
	db *sql.DB
}

func NewDosesRepo(db *sql.DB) *DosesRepo {
	return &DosesRepo{db: db}
}

func (r *DosesRepo) Get(ctx context.Context, medicineID, date string) (doses.Record, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT medicine_id, record_date, taken, taken_at
		FROM dose_records
		WHERE medicine_id = $1 AND record_date = $2
	`, medicineID, date)

	var rec doses.Record
	var takenAt sql.NullTime
	if err := row.Scan(&rec.MedicineID, &rec.Date, &rec.Taken, &takenAt); err != nil {
		if err == sql.ErrNoRows {
			return doses.Record{}, doses.ErrNotFound
		}
		return doses.Record{}, err
	}

	if takenAt.Valid {
		t := takenAt.Time
		rec.TakenAt = &t
	}
	return rec, nil
}

// Upsert confía en la PK compuesta (medicine_id, record_date): el invariante
// "como máximo un registro por dosis" lo garantiza el propio esquema.
func (r *DosesRepo) Upsert(ctx context.Context, rec doses.Record) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO dose_records (medicine_id, record_date, taken, taken_at)
		VALUES ($1,$2,$3,$4)
		ON CONFLICT (medicine_id, record_date) DO UPDATE SET
			taken = excluded.taken,
			taken_at = excluded.taken_at
	`,
		rec.MedicineID,
		rec.Date,
		rec.Taken,
		toNullTime(rec.TakenAt),
	)
	return err
}

func (r *DosesRepo) ListBetween(ctx context.Context, start, end string) ([]doses.Record, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT medicine_id, record_date, taken, taken_at
		FROM dose_records
		WHERE record_date >= $1 AND record_date <= $2
		ORDER BY record_date ASC, medicine_id ASC
	`, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]doses.Record, 0)
	for rows.Next() {
		var rec doses.Record
		var takenAt sql.NullTime
		if err := rows.Scan(&rec.MedicineID, &rec.Date, &rec.Taken, &takenAt); err != nil {
			return nil, err
		}
		if takenAt.Valid {
			t := takenAt.Time
			rec.TakenAt = &t
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func toNullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}
