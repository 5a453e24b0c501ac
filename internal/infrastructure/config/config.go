package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	DriverDynamoDB = "dynamodb"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// Config is read once at startup from the environment. The .env file, when
// present, is loaded by main through godotenv/autoload.
type Config struct {
	Port              string
	PersistenceDriver string
	DatabaseURL       string
	RedisAddr         string
	RedisChannel      string
	JWTSecret         string

	PersistenceMaxRetries      uint64
	PersistenceRetryInitial    time.Duration
	PersistenceRetryMaxBackoff time.Duration
}

// Load reads the configuration and validates the combinations main relies on.
func Load() (Config, error) {
	cfg := Config{
		Port:              getenvDefault("PORT", "8080"),
		PersistenceDriver: strings.ToLower(getenvDefault("PERSISTENCE_DRIVER", DriverDynamoDB)),
		DatabaseURL:       os.Getenv("DATABASE_URL"),
		RedisAddr:         os.Getenv("REDIS_ADDR"),
		RedisChannel:      getenvDefault("REDIS_CHANNEL", "negotiation-events"),
		JWTSecret:         os.Getenv("JWT_SECRET"),
	}

	var err error
	if cfg.PersistenceMaxRetries, err = strconv.ParseUint(getenvDefault("PERSISTENCE_MAX_RETRIES", "3"), 10, 64); err != nil {
		return Config{}, fmt.Errorf("PERSISTENCE_MAX_RETRIES: %w", err)
	}
	if cfg.PersistenceRetryInitial, err = time.ParseDuration(getenvDefault("PERSISTENCE_RETRY_INITIAL_INTERVAL", "50ms")); err != nil {
		return Config{}, fmt.Errorf("PERSISTENCE_RETRY_INITIAL_INTERVAL: %w", err)
	}
	if cfg.PersistenceRetryMaxBackoff, err = time.ParseDuration(getenvDefault("PERSISTENCE_RETRY_MAX_INTERVAL", "1s")); err != nil {
		return Config{}, fmt.Errorf("PERSISTENCE_RETRY_MAX_INTERVAL: %w", err)
	}

	switch cfg.PersistenceDriver {
	case DriverDynamoDB, DriverMemory:
	case DriverPostgres:
		if cfg.DatabaseURL == "" {
			return Config{}, fmt.Errorf("DATABASE_URL is required for the %s driver", DriverPostgres)
		}
	default:
		return Config{}, fmt.Errorf("unknown PERSISTENCE_DRIVER %q", cfg.PersistenceDriver)
	}
	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("JWT_SECRET is required")
	}
	return cfg, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
