package router

import (
	"database/sql"
	"net/http"
	"os"
	"time"

	mem "medicine-calendar/internal/adapters/storage/memory"
	pg "medicine-calendar/internal/adapters/storage/postgres"
	lite "medicine-calendar/internal/adapters/storage/sqlite"
	"medicine-calendar/internal/domain/calendar"
	"medicine-calendar/internal/domain/doses"
	"medicine-calendar/internal/domain/medicines"
	"medicine-calendar/internal/domain/notifications"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/jonboulle/clockwork"
)

type Options struct {
	// Opcional: si viene, usa Postgres. Si no, SQLitePath; y si tampoco,
	// in-memory (dev/tests).
	DB         *sql.DB
	SQLitePath string

	// Gracia de la ventana de aviso. 0 => notifications.DefaultGrace.
	Grace time.Duration

	// Locale único de la sesión. nil => time.Local.
	Location *time.Location

	// Reloj inyectable para que los tests muevan el tiempo sin timers reales.
	// nil => reloj real.
	Clock clockwork.Clock
}

// App es el cableado completo del core: handler HTTP listo para servir y el
// Dispatcher para que main lo enganche al poller.
type App struct {
	Handler    http.Handler
	Dispatcher *notifications.Dispatcher
}

func New(opts Options) *App {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	var (
		medsRepo  medicines.Repository
		dosesRepo doses.Repository
	)

	// Si no te pasan DB explícita, intenta por env (para dev/handoff).
	db := opts.DB
	if db == nil {
		if dsn := os.Getenv("DB_DSN"); dsn != "" {
			if opened, err := pg.Open(dsn); err == nil {
				db = opened
			}
		}
	}

	switch {
	case db != nil:
		medsRepo = pg.NewMedicinesRepo(db)
		dosesRepo = pg.NewDosesRepo(db)
	case opts.SQLitePath != "":
		if ldb, err := lite.Open(opts.SQLitePath); err == nil {
			medsRepo = lite.NewMedicinesRepo(ldb)
			dosesRepo = lite.NewDosesRepo(ldb)
		}
	}
	if medsRepo == nil {
		medsRepo = mem.NewMedicinesRepo()
		dosesRepo = mem.NewDosesRepo()
	}

	// El AnnouncedSet se crea una vez y se comparte: el dispatcher lo consume
	// en su paso único y el servicio de dosis lo limpia al destomar (re-arme).
	announced := notifications.NewAnnouncedSet()

	medsSvc := medicines.NewService(medsRepo)
	dosesSvc := doses.NewService(dosesRepo, medsRepo, announced)
	calSvc := calendar.NewService(medsRepo, dosesRepo)

	eval := notifications.NewEvaluator(medsRepo, dosesRepo, opts.Location, opts.Grace)
	dispatcher := notifications.NewDispatcher(eval, announced, opts.Clock)

	medicines.RegisterRoutes(r, medsSvc)
	doses.RegisterRoutes(r, dosesSvc)
	notifications.RegisterRoutes(r, dispatcher)
	calendar.RegisterRoutes(r, calSvc)

	return &App{
		Handler:    r,
		Dispatcher: dispatcher,
	}
}
