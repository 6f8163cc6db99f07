package notifications

import (
	"context"
	"sync"

	"github.com/jonboulle/clockwork"
)

// Dispatcher orquesta un ciclo de notificación: evalúa, filtra lo ya
// anunciado y marca lo que sale en el batch. El paso entero corre bajo un
// mutex, de modo que el timer periódico y los checks bajo demanda del front
// nunca intercalan updates parciales sobre el AnnouncedSet.
type Dispatcher struct {
	mu    sync.Mutex
	eval  *Evaluator
	ann   *AnnouncedSet
	clock clockwork.Clock
}

func NewDispatcher(eval *Evaluator, ann *AnnouncedSet, clock clockwork.Clock) *Dispatcher {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if ann == nil {
		ann = NewAnnouncedSet()
	}
	return &Dispatcher{
		eval:  eval,
		ann:   ann,
		clock: clock,
	}
}

// Announced expone el set para cablear el re-arme al destomar
// (doses.Announcements).
func (d *Dispatcher) Announced() *AnnouncedSet {
	return d.ann
}

// Run ejecuta un ciclo y devuelve el batch para el colaborador de
// presentación. Una (dosis, fecha) sale con PlaySound=true como máximo una vez
// por día, salvo rollover o destome dentro de la ventana. Si el storage falla,
// el ciclo se salta (error al caller, que loguea y reintenta al siguiente tick).
func (d *Dispatcher) Run(ctx context.Context) (Batch, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	now := d.clock.Now()

	due, err := d.eval.DueNow(ctx, now)
	if err != nil {
		return Batch{}, err
	}

	fresh := d.ann.filterNew(d.eval.Day(now), due)
	if len(fresh) == 0 {
		return Batch{PlaySound: false, Items: []DueDose{}}, nil
	}
	return Batch{PlaySound: true, Items: fresh}, nil
}
