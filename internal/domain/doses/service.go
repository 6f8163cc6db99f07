package doses

import (
	"context"
	"errors"
	"strings"
	"time"

	"medicine-calendar/internal/domain/medicines"
)

var (
	ErrInvalidDate = errors.New("invalid date")
	ErrNotFound    = errors.New("dose record not found")
)

const dateLayout = "2006-01-02"

// Announcements es lo mínimo que el servicio necesita del set de dosis ya
// anunciadas: poder olvidar una entrada cuando el usuario destoma dentro de la
// ventana, para que el siguiente ciclo pueda volver a avisar.
type Announcements interface {
	Forget(medicineID, date string)
}

type Service struct {
	repo  Repository
	meds  medicines.Repository
	ann   Announcements // puede ser nil (tests, CLI tooling)
	now   func() time.Time
	locks keyedLocks
}

func NewService(repo Repository, meds medicines.Repository, ann Announcements) *Service {
	return &Service{
		repo: repo,
		meds: meds,
		ann:  ann,
		now:  time.Now,
	}
}

// Toggle invierte el estado tomado/no-tomado de una dosis y devuelve el
// registro resultante. Las llamadas sobre la misma clave se serializan: N
// toggles dejan taken = (N impar), sin updates perdidos.
func (s *Service) Toggle(ctx context.Context, medicineID, date string) (Record, error) {
	key, err := s.validate(ctx, medicineID, date)
	if err != nil {
		return Record{}, err
	}

	unlock := s.locks.lock(key)
	defer unlock()

	rec, err := s.current(ctx, key)
	if err != nil {
		return Record{}, err
	}

	rec.Taken = !rec.Taken
	if rec.Taken {
		t := s.now()
		rec.TakenAt = &t
	} else {
		rec.TakenAt = nil
	}

	if err := s.repo.Upsert(ctx, rec); err != nil {
		return Record{}, err
	}

	// Destomar re-arma la notificación: si la ventana ya venció, el evaluador
	// igualmente no la incluirá, así que olvidar siempre es seguro.
	if !rec.Taken && s.ann != nil {
		s.ann.Forget(key.MedicineID, key.Date)
	}

	return rec, nil
}

// SetTaken fija el estado de forma idempotente: aplicarlo dos veces deja el
// mismo resultado que una. TakenAt solo cambia en transiciones reales.
func (s *Service) SetTaken(ctx context.Context, medicineID, date string, taken bool) (Record, error) {
	key, err := s.validate(ctx, medicineID, date)
	if err != nil {
		return Record{}, err
	}

	unlock := s.locks.lock(key)
	defer unlock()

	rec, err := s.current(ctx, key)
	if err != nil {
		return Record{}, err
	}
	if rec.Taken == taken {
		return rec, nil
	}

	rec.Taken = taken
	if taken {
		t := s.now()
		rec.TakenAt = &t
	} else {
		rec.TakenAt = nil
	}

	if err := s.repo.Upsert(ctx, rec); err != nil {
		return Record{}, err
	}
	if !taken && s.ann != nil {
		s.ann.Forget(key.MedicineID, key.Date)
	}
	return rec, nil
}

// GetOrCreate devuelve el registro de la dosis, creándolo como no-tomada si es
// la primera vez que se consulta esa fecha. Nunca falla con un medicineID válido.
func (s *Service) GetOrCreate(ctx context.Context, medicineID, date string) (Record, error) {
	key, err := s.validate(ctx, medicineID, date)
	if err != nil {
		return Record{}, err
	}

	unlock := s.locks.lock(key)
	defer unlock()

	rec, err := s.repo.Get(ctx, key.MedicineID, key.Date)
	if err == nil {
		return rec, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return Record{}, err
	}

	rec = Record{MedicineID: key.MedicineID, Date: key.Date}
	if err := s.repo.Upsert(ctx, rec); err != nil {
		return Record{}, err
	}
	return rec, nil
}

// validate normaliza la fecha y confirma que el medicamento existe: no se crean
// dosis de medicamentos inexistentes.
func (s *Service) validate(ctx context.Context, medicineID, date string) (Key, error) {
	medicineID = strings.TrimSpace(medicineID)
	if medicineID == "" {
		return Key{}, medicines.ErrNotFound
	}

	t, err := time.Parse(dateLayout, strings.TrimSpace(date))
	if err != nil {
		return Key{}, ErrInvalidDate
	}

	if _, err := s.meds.GetByID(ctx, medicineID); err != nil {
		return Key{}, err
	}

	return Key{MedicineID: medicineID, Date: t.Format(dateLayout)}, nil
}

// current lee bajo el lock de la clave; ausente equivale a no-tomada.
func (s *Service) current(ctx context.Context, key Key) (Record, error) {
	rec, err := s.repo.Get(ctx, key.MedicineID, key.Date)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Record{MedicineID: key.MedicineID, Date: key.Date}, nil
		}
		return Record{}, err
	}
	return rec, nil
}
