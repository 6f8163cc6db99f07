package postgres

import (
	"context"
	"database/sql"
	"strings"

	"medicine-calendar/internal/domain/medicines"
)

type MedicinesRepo struct {
	db *sql.DB
}

func NewMedicinesRepo(db *sql.DB) *MedicinesRepo {
	return &MedicinesRepo{db: db}
}

// Las fechas civiles y la hora de toma van como TEXT normalizado
// ("YYYY-MM-DD" / "HH:MM"): el orden lexicográfico es el cronológico y la
// clave (medicine_id, record_date) queda libre de zonas horarias.
const medicineColumns = `
	id, name, dosage, take_time,
	start_date, end_date, notes, active,
	created_at, updated_at
`

func (r *MedicinesRepo) Create(ctx context.Context, m medicines.Medicine) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO medicines (`+medicineColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
	`,
		m.ID,
		m.Name,
		m.Dosage,
		m.TakeTime,
		m.StartDate,
		m.EndDate,
		m.Notes,
		m.Active,
		m.CreatedAt,
		m.UpdatedAt,
	)
	return err
}

func (r *MedicinesRepo) Update(ctx context.Context, m medicines.Medicine) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE medicines
		SET
			name = $2,
			dosage = $3,
			take_time = $4,
			start_date = $5,
			end_date = $6,
			notes = $7,
			active = $8,
			updated_at = $9
		WHERE id = $1
	`,
		m.ID,
		m.Name,
		m.Dosage,
		m.TakeTime,
		m.StartDate,
		m.EndDate,
		m.Notes,
		m.Active,
		m.UpdatedAt,
	)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return medicines.ErrNotFound
	}
	return nil
}

func (r *MedicinesRepo) GetByID(ctx context.Context, id string) (medicines.Medicine, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return medicines.Medicine{}, medicines.ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT `+medicineColumns+`
		FROM medicines
		WHERE id = $1
	`, id)

	m, err := scanMedicine(row)
	if err == sql.ErrNoRows {
		return medicines.Medicine{}, medicines.ErrNotFound
	}
	return m, err
}

func (r *MedicinesRepo) ListForDate(ctx context.Context, date string) ([]medicines.Medicine, error) {
	return r.query(ctx, `
		SELECT `+medicineColumns+`
		FROM medicines
		WHERE active AND start_date <= $1 AND end_date >= $1
		ORDER BY take_time ASC, id ASC
	`, date)
}

func (r *MedicinesRepo) ListBetween(ctx context.Context, start, end string) ([]medicines.Medicine, error) {
	return r.query(ctx, `
		SELECT `+medicineColumns+`
		FROM medicines
		WHERE active AND start_date <= $2 AND end_date >= $1
		ORDER BY take_time ASC, id ASC
	`, start, end)
}

func (r *MedicinesRepo) query(ctx context.Context, q string, args ...any) ([]medicines.Medicine, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]medicines.Medicine, 0)
	for rows.Next() {
		m, err := scanMedicine(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanMedicine(s scanner) (medicines.Medicine, error) {
	var m medicines.Medicine
	err := s.Scan(
		&m.ID,
		&m.Name,
		&m.Dosage,
		&m.TakeTime,
		&m.StartDate,
		&m.EndDate,
		&m.Notes,
		&m.Active,
		&m.CreatedAt,
		&m.UpdatedAt,
	)
	return m, err
}
