// Package config provides runtime configuration values for the service.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Store drivers.
const (
	DriverMemory = "memory"
	DriverMongo  = "mongo"
	DriverRedis  = "redis"
)

var ErrInvalidConfig = errors.New("invalid configuration")

// Config holds configuration knobs for the HTTP server and the Aggregate Store.
type Config struct {
	HTTPAddr        string        `yaml:"http_addr"`
	GinMode         string        `yaml:"gin_mode"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	StoreDriver     string        `yaml:"store_driver"`
	MongoURI        string        `yaml:"mongodb_uri"`
	MongoDatabase   string        `yaml:"mongodb_database"`
	RedisURL        string        `yaml:"redis_url"`
	RedisNamespace  string        `yaml:"redis_namespace"`
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	return Config{
		HTTPAddr:        ":3000",
		GinMode:         "release",
		ShutdownTimeout: 10 * time.Second,
		StoreDriver:     DriverMemory,
		MongoDatabase:   "bedrock_db",
		RedisNamespace:  "commerce",
	}
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// durenvs reads key as a whole number of seconds.
func durenvs(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	sec, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be a whole number of seconds, got %q", ErrInvalidConfig, key, v)
	}
	return time.Duration(sec) * time.Second, nil
}

// Load builds the configuration from defaults, then the YAML file named by
// CONFIG_FILE if set, then environment variables.
func Load() (Config, error) {
	cfg := Default()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}

	cfg.HTTPAddr = getenv("HTTP_ADDR", cfg.HTTPAddr)
	cfg.GinMode = getenv("GIN_MODE", cfg.GinMode)
	timeout, err := durenvs("SHUTDOWN_TIMEOUT", cfg.ShutdownTimeout)
	if err != nil {
		return Config{}, err
	}
	cfg.ShutdownTimeout = timeout
	cfg.StoreDriver = getenv("STORE_DRIVER", cfg.StoreDriver)
	cfg.MongoURI = getenv("MONGODB_URI", cfg.MongoURI)
	cfg.MongoDatabase = getenv("MONGODB_DATABASE", cfg.MongoDatabase)
	cfg.RedisURL = getenv("REDIS_URL", cfg.RedisURL)
	cfg.RedisNamespace = getenv("REDIS_NAMESPACE", cfg.RedisNamespace)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects unknown store drivers and missing connection settings.
func (c Config) Validate() error {
	switch c.StoreDriver {
	case DriverMemory:
	case DriverMongo:
		if c.MongoURI == "" {
			return fmt.Errorf("%w: MONGODB_URI is required for the mongo driver", ErrInvalidConfig)
		}
		if c.MongoDatabase == "" {
			return fmt.Errorf("%w: MONGODB_DATABASE is required for the mongo driver", ErrInvalidConfig)
		}
	case DriverRedis:
		if c.RedisURL == "" {
			return fmt.Errorf("%w: REDIS_URL is required for the redis driver", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown store driver %q", ErrInvalidConfig, c.StoreDriver)
	}
	if c.ShutdownTimeout <= 0 {
		return fmt.Errorf("%w: shutdown timeout must be positive", ErrInvalidConfig)
	}
	return nil
}
