package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	// El front hace polling cada 300s; la gracia por defecto iguala el
	// intervalo para que ninguna ventana caiga entre dos checks.
	DefaultPollInterval = 300 * time.Second
	DefaultPort         = "8080"
)

type Config struct {
	Port string

	// Selección de storage: DB_DSN gana sobre SQLITE_PATH; sin ninguno, memoria.
	DBDSN      string
	SQLitePath string

	PollInterval time.Duration
	Grace        time.Duration

	// Zona horaria única para todo el proceso; no hay negociación por usuario.
	Location *time.Location

	// Opcional: URL a la que empujar los batches con sonido.
	WebhookURL string
}

func Load() (Config, error) {
	_ = godotenv.Load() // .env opcional, solo para dev

	cfg := Config{
		Port:       DefaultPort,
		DBDSN:      strings.TrimSpace(os.Getenv("DB_DSN")),
		SQLitePath: strings.TrimSpace(os.Getenv("SQLITE_PATH")),
		Location:   time.Local,
		WebhookURL: strings.TrimSpace(os.Getenv("NOTIFY_WEBHOOK_URL")),
	}

	if v := strings.TrimSpace(os.Getenv("PORT")); v != "" {
		cfg.Port = v
	}

	poll, err := seconds("POLL_INTERVAL_SECONDS", DefaultPollInterval)
	if err != nil {
		return Config{}, err
	}
	cfg.PollInterval = poll

	grace, err := seconds("GRACE_SECONDS", poll)
	if err != nil {
		return Config{}, err
	}
	cfg.Grace = grace

	if tz := strings.TrimSpace(os.Getenv("TIMEZONE")); tz != "" {
		loc, err := time.LoadLocation(tz)
		if err != nil {
			return Config{}, fmt.Errorf("config: invalid TIMEZONE %q: %w", tz, err)
		}
		cfg.Location = loc
	}

	return cfg, nil
}

func seconds(key string, def time.Duration) (time.Duration, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("config: %s must be a positive integer of seconds", key)
	}
	return time.Duration(n) * time.Second, nil
}
