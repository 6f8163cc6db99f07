package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"medicine-calendar/internal/domain/doses"
)

type dosesRepo struct {
	mu    sync.RWMutex
	byKey map[doses.Key]doses.Record
}

func NewDosesRepo() doses.Repository {
	return &dosesRepo{
		byKey: make(map[doses.Key]doses.Record),
	}
}

func (r *dosesRepo) Get(ctx context.Context, medicineID, date string) (doses.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.byKey[doses.Key{MedicineID: medicineID, Date: date}]
	if !ok {
		return doses.Record{}, doses.ErrNotFound
	}
	return rec, nil
}

func (r *dosesRepo) Upsert(ctx context.Context, rec doses.Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(rec.MedicineID) == "" || strings.TrimSpace(rec.Date) == "" {
		return errors.New("dose key required")
	}
	r.byKey[rec.Key()] = rec
	return nil
}

func (r *dosesRepo) ListBetween(ctx context.Context, start, end string) ([]doses.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]doses.Record, 0)
	for _, rec := range r.byKey {
		if rec.Date >= start && rec.Date <= end {
			out = append(out, rec)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		return out[i].MedicineID < out[j].MedicineID
	})

	return out, nil
}
