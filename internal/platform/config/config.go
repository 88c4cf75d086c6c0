package config

import (
	"os"
	"time"
)

// Engine captures the external-collaborator configuration of the validation
// engine: where the company registry lives and which optional backends are
// wired in.
type Engine struct {
	// RegistryBaseURL points at the company registry service. Empty means
	// the deterministic mock client is used instead.
	RegistryBaseURL string
	RegistryTimeout time.Duration

	// RedisURL enables the registry read-through cache when set.
	RedisURL         string
	RegistryCacheTTL time.Duration

	// DatabaseURL enables the Postgres previous-bordereaux finder when set.
	DatabaseURL string
}

// FromEnv builds an Engine config from environment variables so main stays
// lean.
func FromEnv() Engine {
	cfg := Engine{
		RegistryBaseURL:  os.Getenv("TD_REGISTRY_URL"),
		RegistryTimeout:  10 * time.Second,
		RedisURL:         os.Getenv("TD_REDIS_URL"),
		RegistryCacheTTL: 5 * time.Minute,
		DatabaseURL:      os.Getenv("TD_DATABASE_URL"),
	}
	if v := os.Getenv("TD_REGISTRY_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.RegistryTimeout = d
		}
	}
	if v := os.Getenv("TD_REGISTRY_CACHE_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.RegistryCacheTTL = d
		}
	}
	return cfg
}
