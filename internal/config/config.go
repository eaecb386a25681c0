// Package config loads the service configuration from the environment and
// an optional .env file.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"go-simpler.org/env"
)

// Store drivers understood by persist.Open.
const (
	DriverYAML   = "yaml"
	DriverSQLite = "sqlite"
	DriverRedis  = "redis"
	DriverMemory = "memory"
)

type Config struct {
	Port     string `env:"PORT" default:"4000"`
	DiagAddr string `env:"DIAG_ADDR" default:":9999"`
	TestMode bool   `env:"IS_TEST_MODE"`
	LogLevel string `env:"LOG_LEVEL" default:"info"`

	StoreDriver string `env:"STORE_DRIVER" default:"yaml"`
	StorePath   string `env:"STORE_PATH" default:"database.yaml"`
	RedisURL    string `env:"REDIS_URL" default:"redis://localhost:6379/0"`
	RedisKey    string `env:"REDIS_KEY" default:"forum:database"`

	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" default:"10s"`
}

// Addr is the listen address of the API server.
func (c *Config) Addr() string {
	return ":" + c.Port
}

// Load reads .env when present, then the process environment. The returned
// config is not validated yet; flags may still override it.
func Load() (*Config, error) {
	// a missing .env is fine
	_ = godotenv.Load()

	var cfg Config
	if err := env.Load(&cfg, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.Port == "" {
		return errors.New("PORT is required")
	}

	switch c.StoreDriver {
	case DriverYAML, DriverSQLite:
		if c.StorePath == "" {
			return fmt.Errorf("STORE_PATH is required for the %s driver", c.StoreDriver)
		}
	case DriverRedis:
		if c.RedisURL == "" || c.RedisKey == "" {
			return errors.New("REDIS_URL and REDIS_KEY are required for the redis driver")
		}
	case DriverMemory:
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", c.StoreDriver)
	}

	if c.ShutdownTimeout <= 0 {
		return errors.New("SHUTDOWN_TIMEOUT must be positive")
	}

	return nil
}
