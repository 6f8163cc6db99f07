package calendar

import (
	"context"
	"errors"
	"time"

	"medicine-calendar/internal/domain/doses"
	"medicine-calendar/internal/domain/medicines"
)

var ErrInvalidMonth = errors.New("invalid year/month")

const dateLayout = "2006-01-02"

// Service compone medicamentos y registros de toma en la grilla mensual.
// Solo lectura: no crea registros perezosos, un día sin registro se pinta como
// no-tomado.
type Service struct {
	meds  medicines.Repository
	doses doses.Repository
	now   func() time.Time
}

func NewService(meds medicines.Repository, dosesRepo doses.Repository) *Service {
	return &Service{
		meds:  meds,
		doses: dosesRepo,
		now:   time.Now,
	}
}

// CurrentYearMonth da los defaults para la vista cuando el front no manda
// year/month.
func (s *Service) CurrentYearMonth() (int, int) {
	t := s.now()
	return t.Year(), int(t.Month())
}

func (s *Service) Month(ctx context.Context, year, month int) (MonthView, error) {
	if year < 1 || year > 9999 || month < 1 || month > 12 {
		return MonthView{}, ErrInvalidMonth
	}

	first := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1)
	start := first.Format(dateLayout)
	end := last.Format(dateLayout)

	meds, err := s.meds.ListBetween(ctx, start, end)
	if err != nil {
		return MonthView{}, err
	}
	recs, err := s.doses.ListBetween(ctx, start, end)
	if err != nil {
		return MonthView{}, err
	}

	taken := make(map[doses.Key]bool, len(recs))
	for _, r := range recs {
		taken[r.Key()] = r.Taken
	}

	view := MonthView{
		Year:  year,
		Month: month,
		Days:  make([]DayView, 0, last.Day()),
	}
	for d := first; !d.After(last); d = d.AddDate(0, 0, 1) {
		day := d.Format(dateLayout)
		dv := DayView{Date: day, Entries: make([]DayEntry, 0)}
		for _, m := range meds {
			if !m.ScheduledOn(day) {
				continue
			}
			dv.Entries = append(dv.Entries, DayEntry{
				MedicineID: m.ID,
				Name:       m.Name,
				IsTaken:    taken[doses.Key{MedicineID: m.ID, Date: day}],
			})
		}
		view.Days = append(view.Days, dv)
	}

	return view, nil
}
