package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"medicine-calendar/internal/domain/medicines"
)

type medicinesRepo struct {
	mu   sync.RWMutex
	byID map[string]medicines.Medicine
}

func NewMedicinesRepo() medicines.Repository {
	return &medicinesRepo{
		byID: make(map[string]medicines.Medicine),
	}
}

func (r *medicinesRepo) Create(ctx context.Context, m medicines.Medicine) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(m.ID) == "" {
		return errors.New("medicine id required")
	}
	if _, exists := r.byID[m.ID]; exists {
		return errors.New("medicine already exists")
	}
	r.byID[m.ID] = m
	return nil
}

func (r *medicinesRepo) Update(ctx context.Context, m medicines.Medicine) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(m.ID) == "" {
		return errors.New("medicine id required")
	}
	if _, exists := r.byID[m.ID]; !exists {
		return medicines.ErrNotFound
	}
	r.byID[m.ID] = m
	return nil
}

func (r *medicinesRepo) GetByID(ctx context.Context, id string) (medicines.Medicine, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	m, ok := r.byID[id]
	if !ok {
		return medicines.Medicine{}, medicines.ErrNotFound
	}
	return m, nil
}

func (r *medicinesRepo) ListForDate(ctx context.Context, date string) ([]medicines.Medicine, error) {
	return r.list(func(m medicines.Medicine) bool {
		return m.ScheduledOn(date)
	})
}

func (r *medicinesRepo) ListBetween(ctx context.Context, start, end string) ([]medicines.Medicine, error) {
	return r.list(func(m medicines.Medicine) bool {
		return m.Active && m.StartDate <= end && m.EndDate >= start
	})
}

func (r *medicinesRepo) list(keep func(medicines.Medicine) bool) ([]medicines.Medicine, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]medicines.Medicine, 0)
	for _, m := range r.byID {
		if keep(m) {
			out = append(out, m)
		}
	}

	// Mismo orden que los adapters SQL: take_time asc, empates por id.
	sort.Slice(out, func(i, j int) bool {
		if out[i].TakeTime != out[j].TakeTime {
			return out[i].TakeTime < out[j].TakeTime
		}
		return out[i].ID < out[j].ID
	})

	return out, nil
}
