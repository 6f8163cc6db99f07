package main

import (
	"context"
	"database/sql"
	stdlog "log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"medicine-calendar/internal/adapters/notify/webhook"
	pg "medicine-calendar/internal/adapters/storage/postgres"
	"medicine-calendar/internal/config"
	"medicine-calendar/internal/platform/httpclient"
	"medicine-calendar/internal/platform/logger"
	"medicine-calendar/internal/router"
	"medicine-calendar/internal/scheduler"

	"github.com/jonboulle/clockwork"
)

func main() {
	// config primero: carga el .env del que NewFromEnv también lee
	cfg, err := config.Load()
	if err != nil {
		stdlog.Fatalf("config error: %v", err)
	}

	log := logger.NewFromEnv()

	var db *sql.DB
	if cfg.DBDSN != "" {
		db, err = pg.Open(cfg.DBDSN)
		if err != nil {
			log.Error("postgres open failed", map[string]any{"error": err.Error()})
			return
		}
		defer db.Close()
	}

	app := router.New(router.Options{
		DB:         db,
		SQLitePath: cfg.SQLitePath,
		Grace:      cfg.Grace,
		Location:   cfg.Location,
	})

	var presenter scheduler.Presenter
	if cfg.WebhookURL != "" {
		n, err := webhook.New(cfg.WebhookURL, httpclient.DefaultTimeout)
		if err != nil {
			log.Error("webhook config error", map[string]any{"error": err.Error()})
			return
		}
		presenter = n
	}

	sched, err := scheduler.Start(app.Dispatcher, presenter, log, cfg.PollInterval, clockwork.NewRealClock())
	if err != nil {
		log.Error("scheduler start failed", map[string]any{"error": err.Error()})
		return
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      app.Handler,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Info("starting server", map[string]any{"addr": srv.Addr, "poll_interval": cfg.PollInterval.String()})
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", map[string]any{"error": err.Error()})
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
	_ = sched.Shutdown()
	log.Info("server stopped", nil)
}
