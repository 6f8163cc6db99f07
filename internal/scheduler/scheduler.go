package scheduler

import (
	"context"
	"time"

	"medicine-calendar/internal/domain/notifications"
	"medicine-calendar/internal/platform/logger"

	"github.com/go-co-op/gocron/v2"
	"github.com/jonboulle/clockwork"
)

// cycleTimeout acota cada ciclo: si el storage se cuelga, el ciclo se aborta y
// el siguiente tick reintenta. Nada bloquea indefinidamente.
const cycleTimeout = 30 * time.Second

// Presenter es el colaborador de presentación (sonido + panel). Puede ser nil:
// entonces el único consumidor es el polling del front.
type Presenter interface {
	Present(ctx context.Context, b notifications.Batch) error
}

// Start lanza el poller periódico que dispara ciclos del Dispatcher. El primer
// check corre inmediatamente al arrancar; apagar el scheduler (Shutdown)
// cancela el timer.
func Start(d *notifications.Dispatcher, p Presenter, log logger.Logger, interval time.Duration, clock clockwork.Clock) (gocron.Scheduler, error) {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}

	s, err := gocron.NewScheduler(gocron.WithClock(clock))
	if err != nil {
		return nil, err
	}

	_, err = s.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			ctx, cancel := context.WithTimeout(context.Background(), cycleTimeout)
			defer cancel()

			batch, err := d.Run(ctx)
			if err != nil {
				// Ciclo saltado, no fatal: el siguiente tick reintenta.
				log.Warn("notification cycle skipped", map[string]any{"error": err.Error()})
				return
			}
			if !batch.PlaySound {
				return
			}

			log.Info("doses due", map[string]any{"count": len(batch.Items)})
			if p != nil {
				if err := p.Present(ctx, batch); err != nil {
					log.Warn("presenter failed", map[string]any{"error": err.Error()})
				}
			}
		}),
		gocron.WithStartAt(gocron.WithStartImmediately()),
	)
	if err != nil {
		return nil, err
	}

	s.Start()
	return s, nil
}
