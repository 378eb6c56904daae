package worker

import (
	"os"
	"time"

	"github.com/domino14/reachgen/config"
)

// WorkerConfig holds what the search worker needs besides the engine
// settings in the main config.
type WorkerConfig struct {
	NatsURL string
	Subject string

	// Requests naming a kick table other than these are refused, so that
	// clients cannot make the worker read arbitrary files.
	AllowedKicks []string

	// How long a client waits for a reply.
	RequestTimeout time.Duration

	Config *config.Config
}

func NewWorkerConfig(cfg *config.Config) *WorkerConfig {
	allowed := []string{"srs", "none"}
	if k := cfg.GetString(config.ConfigKickTable); k != "" && k != "srs" && k != "none" {
		allowed = append(allowed, k)
	}
	return &WorkerConfig{
		NatsURL:        cfg.GetString(config.ConfigNatsURL),
		Subject:        cfg.GetString(config.ConfigWorkerSubject),
		AllowedKicks:   allowed,
		RequestTimeout: getEnvDuration("REACHGEN_WORKER_TIMEOUT", 10*time.Second),
		Config:         cfg,
	}
}

// getEnvDuration gets a duration from an environment variable or returns a default
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
