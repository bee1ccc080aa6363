// Package config loads runtime settings from the environment, with an
// optional .env file for development.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	DBPath      string
	Port        string
	LogLevel    string
	LogFormat   string
	HorizonDays int
	TriggerDays int
	MaxPoints   int
}

// Load reads configuration from CHOREBOARD_* environment variables. A .env
// file in the working directory is applied first if present; real
// environment variables win over it.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		DBPath:      envOr("CHOREBOARD_DB_PATH", "choreboard.db"),
		Port:        envOr("CHOREBOARD_PORT", "8080"),
		LogLevel:    envOr("CHOREBOARD_LOG_LEVEL", "info"),
		LogFormat:   envOr("CHOREBOARD_LOG_FORMAT", "text"),
		HorizonDays: 31,
		TriggerDays: 3,
		MaxPoints:   100,
	}

	var err error
	if cfg.HorizonDays, err = envIntOr("CHOREBOARD_HORIZON_DAYS", cfg.HorizonDays); err != nil {
		return Config{}, err
	}
	if cfg.TriggerDays, err = envIntOr("CHOREBOARD_GENERATION_TRIGGER_DAYS", cfg.TriggerDays); err != nil {
		return Config{}, err
	}
	if cfg.MaxPoints, err = envIntOr("CHOREBOARD_MAX_POINTS", cfg.MaxPoints); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%s must be a positive integer, got %q", key, v)
	}
	return n, nil
}
