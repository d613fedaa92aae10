package config

import (
	"os"
	"strings"
	"time"
)

// Config is centralized process configuration.
// Keep infra values here and pass typed config into builders.
type Config struct {
	ServiceName string
	HTTPPort    string
	PostgresDSN string

	PresenceOnlineTimeout time.Duration
	PresenceTTL           time.Duration
	WorkerPollInterval    time.Duration
}

func Load() (Config, error) {
	service := os.Getenv("SERVICE_NAME")
	if service == "" {
		service = "retroboard"
	}

	port := os.Getenv("HTTP_PORT")
	if port == "" {
		port = "8080"
	}

	return Config{
		ServiceName: service,
		HTTPPort:    port,
		PostgresDSN: os.Getenv("POSTGRES_DSN"),

		PresenceOnlineTimeout: envDuration("PRESENCE_ONLINE_TIMEOUT", 2*time.Minute),
		PresenceTTL:           envDuration("PRESENCE_TTL", 24*time.Hour),
		WorkerPollInterval:    envDuration("WORKER_POLL_INTERVAL", 30*time.Second),
	}, nil
}

func envDuration(name string, fallback time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return fallback
	}
	value, err := time.ParseDuration(raw)
	if err != nil || value <= 0 {
		return fallback
	}
	return value
}
