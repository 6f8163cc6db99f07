package notifications

import (
	"sync"
	"time"

	"medicine-calendar/internal/domain/doses"
	"medicine-calendar/internal/domain/medicines"
)

// DueDose es una toma cuya ventana de aviso está abierta y que aún no se marcó
// como tomada.
type DueDose struct {
	Medicine      medicines.Medicine
	Date          string // fecha en la que abre la ventana ("YYYY-MM-DD")
	ScheduledTime string // "HH:MM"
}

// Batch es lo que se entrega al colaborador de presentación en cada ciclo.
// PlaySound=false con Items vacío es la señal de "nada nuevo": no suena ni se
// pinta panel.
type Batch struct {
	PlaySound bool
	Items     []DueDose
}

// AnnouncedSet recuerda qué dosis ya se anunciaron en el día en curso, para no
// repetir la alarma en cada ciclo de polling. Es estado efímero de proceso: se
// vacía solo al cambiar el día local y al destomar una dosis (re-arme).
//
// Todas las lecturas/escrituras pasan por el paso único del Dispatcher, salvo
// Forget, que invoca el servicio de dosis al destomar.
type AnnouncedSet struct {
	mu   sync.Mutex
	day  string // día local de la última evaluación
	keys map[doses.Key]struct{}
}

func NewAnnouncedSet() *AnnouncedSet {
	return &AnnouncedSet{keys: make(map[doses.Key]struct{})}
}

// filterNew descarta las dosis ya anunciadas, marca el resto como anunciado y
// lo devuelve. El rollover de día es perezoso: si el día local cambió desde la
// última evaluación, el set arranca vacío.
func (a *AnnouncedSet) filterNew(day string, due []DueDose) []DueDose {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.day != day {
		// Rollover: se purga lo viejo, pero se conserva el día inmediatamente
		// anterior por las ventanas que cruzan medianoche y siguen abiertas.
		a.day = day
		prev := previousDay(day)
		for k := range a.keys {
			if k.Date != day && k.Date != prev {
				delete(a.keys, k)
			}
		}
	}

	fresh := make([]DueDose, 0, len(due))
	for _, d := range due {
		key := doses.Key{MedicineID: d.Medicine.ID, Date: d.Date}
		if _, seen := a.keys[key]; seen {
			continue
		}
		a.keys[key] = struct{}{}
		fresh = append(fresh, d)
	}
	return fresh
}

// Forget elimina la entrada de una dosis, dejándola elegible de nuevo si su
// ventana sigue abierta. Implementa doses.Announcements.
func (a *AnnouncedSet) Forget(medicineID, date string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	delete(a.keys, doses.Key{MedicineID: medicineID, Date: date})
}

func previousDay(day string) string {
	t, err := time.Parse("2006-01-02", day)
	if err != nil {
		return ""
	}
	return t.AddDate(0, 0, -1).Format("2006-01-02")
}
