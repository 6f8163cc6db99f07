package notifications

import (
	"context"
	"errors"
	"sort"
	"time"

	"medicine-calendar/internal/domain/doses"
	"medicine-calendar/internal/domain/medicines"
)

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04"

	// DefaultGrace iguala el intervalo de polling: así ninguna ventana cae
	// entre dos ciclos consecutivos.
	DefaultGrace = 5 * time.Minute
)

// Evaluator calcula qué dosis están "due now": medicamentos activos cuya hora
// programada ya pasó pero hace menos que la gracia, y que aún no se tomaron.
// Solo lee del Schedule Store; puede correr concurrente con toggles
// (consistencia eventual: a lo sumo un aviso de más, suprimido al ciclo
// siguiente).
type Evaluator struct {
	meds  medicines.Repository
	doses doses.Repository
	loc   *time.Location
	grace time.Duration
}

func NewEvaluator(meds medicines.Repository, dosesRepo doses.Repository, loc *time.Location, grace time.Duration) *Evaluator {
	if loc == nil {
		loc = time.Local
	}
	if grace <= 0 {
		grace = DefaultGrace
	}
	return &Evaluator{
		meds:  meds,
		doses: dosesRepo,
		loc:   loc,
		grace: grace,
	}
}

// Day devuelve la fecha civil local del instante dado.
func (e *Evaluator) Day(now time.Time) string {
	return now.In(e.loc).Format(dateLayout)
}

// DueNow devuelve las dosis con ventana abierta en `now`, orden ascendente por
// instante programado (empates por id). Cada dosis se evalúa contra la fecha
// en la que abre su ventana: una ventana que cruza medianoche sigue contando
// para el día anterior y no se evalúa dos veces.
func (e *Evaluator) DueNow(ctx context.Context, now time.Time) ([]DueDose, error) {
	local := now.In(e.loc)

	days := []time.Time{local}
	midnight := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, e.loc)
	if local.Sub(midnight) <= e.grace {
		// Una ventana abierta ayer a última hora puede seguir viva.
		days = append(days, local.AddDate(0, 0, -1))
	}

	out := make([]DueDose, 0)
	for _, d := range days {
		day := d.Format(dateLayout)

		meds, err := e.meds.ListForDate(ctx, day)
		if err != nil {
			return nil, err
		}

		for _, m := range meds {
			t, err := time.Parse(timeLayout, m.TakeTime)
			if err != nil {
				continue // hora corrupta en storage: se ignora, no se revienta el ciclo
			}
			scheduled := time.Date(d.Year(), d.Month(), d.Day(), t.Hour(), t.Minute(), 0, 0, e.loc)

			elapsed := local.Sub(scheduled)
			if elapsed < 0 || elapsed > e.grace {
				continue
			}

			rec, err := e.doses.Get(ctx, m.ID, day)
			if err != nil && !errors.Is(err, doses.ErrNotFound) {
				return nil, err
			}
			if err == nil && rec.Taken {
				continue
			}

			out = append(out, DueDose{Medicine: m, Date: day, ScheduledTime: m.TakeTime})
		}
	}

	// Orden cronológico determinista: fecha, hora programada, id.
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		if out[i].ScheduledTime != out[j].ScheduledTime {
			return out[i].ScheduledTime < out[j].ScheduledTime
		}
		return out[i].Medicine.ID < out[j].Medicine.ID
	})

	return out, nil
}
