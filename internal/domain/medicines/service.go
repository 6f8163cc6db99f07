package medicines

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("medicine not found")
)

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04"
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
		now:  time.Now,
	}
}

type CreateInput struct {
	Name      string
	Dosage    string
	TakeTime  string // "HH:MM"
	StartDate string // "YYYY-MM-DD"
	EndDate   string // "YYYY-MM-DD"
	Notes     string
}

func (s *Service) Create(ctx context.Context, in CreateInput) (Medicine, error) {
	name := strings.TrimSpace(in.Name)
	dosage := strings.TrimSpace(in.Dosage)
	if name == "" || dosage == "" {
		return Medicine{}, ErrInvalidInput
	}

	takeTime, err := normalizeTime(in.TakeTime)
	if err != nil {
		return Medicine{}, ErrInvalidInput
	}
	start, err := normalizeDate(in.StartDate)
	if err != nil {
		return Medicine{}, ErrInvalidInput
	}
	end, err := normalizeDate(in.EndDate)
	if err != nil {
		return Medicine{}, ErrInvalidInput
	}
	if end < start {
		return Medicine{}, ErrInvalidInput
	}

	now := s.now()
	m := Medicine{
		ID:        uuid.NewString(),
		Name:      name,
		Dosage:    dosage,
		TakeTime:  takeTime,
		StartDate: start,
		EndDate:   end,
		Notes:     strings.TrimSpace(in.Notes),
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Create(ctx, m); err != nil {
		return Medicine{}, err
	}
	return m, nil
}

type UpdateInput struct {
	// Punteros para PATCH real: nil = no tocar.
	Name      *string
	Dosage    *string
	TakeTime  *string
	StartDate *string
	EndDate   *string
	Notes     *string
}

// Update edita la definición del medicamento. Los registros de toma históricos
// no se tocan: cambiar nombre/dosis/hora no reescribe lo ya tomado.
func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (Medicine, error) {
	m, err := s.repo.GetByID(ctx, strings.TrimSpace(id))
	if err != nil {
		return Medicine{}, err
	}

	if in.Name != nil {
		v := strings.TrimSpace(*in.Name)
		if v == "" {
			return Medicine{}, ErrInvalidInput
		}
		m.Name = v
	}
	if in.Dosage != nil {
		v := strings.TrimSpace(*in.Dosage)
		if v == "" {
			return Medicine{}, ErrInvalidInput
		}
		m.Dosage = v
	}
	if in.TakeTime != nil {
		v, err := normalizeTime(*in.TakeTime)
		if err != nil {
			return Medicine{}, ErrInvalidInput
		}
		m.TakeTime = v
	}
	if in.StartDate != nil {
		v, err := normalizeDate(*in.StartDate)
		if err != nil {
			return Medicine{}, ErrInvalidInput
		}
		m.StartDate = v
	}
	if in.EndDate != nil {
		v, err := normalizeDate(*in.EndDate)
		if err != nil {
			return Medicine{}, ErrInvalidInput
		}
		m.EndDate = v
	}
	if m.EndDate < m.StartDate {
		return Medicine{}, ErrInvalidInput
	}
	if in.Notes != nil {
		m.Notes = strings.TrimSpace(*in.Notes)
	}

	m.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, m); err != nil {
		return Medicine{}, err
	}
	return m, nil
}

// Deactivate es la baja lógica: el medicamento deja de programar tomas pero su
// historial de registros sigue siendo consultable.
func (s *Service) Deactivate(ctx context.Context, id string) (Medicine, error) {
	m, err := s.repo.GetByID(ctx, strings.TrimSpace(id))
	if err != nil {
		return Medicine{}, err
	}
	if !m.Active {
		return m, nil // idempotente
	}
	m.Active = false
	m.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, m); err != nil {
		return Medicine{}, err
	}
	return m, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Medicine, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Medicine{}, ErrNotFound
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListForDate(ctx context.Context, date string) ([]Medicine, error) {
	d, err := normalizeDate(date)
	if err != nil {
		return nil, ErrInvalidInput
	}
	return s.repo.ListForDate(ctx, d)
}

func normalizeDate(s string) (string, error) {
	t, err := time.Parse(dateLayout, strings.TrimSpace(s))
	if err != nil {
		return "", err
	}
	return t.Format(dateLayout), nil
}

func normalizeTime(s string) (string, error) {
	t, err := time.Parse(timeLayout, strings.TrimSpace(s))
	if err != nil {
		return "", err
	}
	return t.Format(timeLayout), nil
}
