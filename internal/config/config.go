// Package config loads slidecore settings from an optional YAML file with
// environment variable overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// DefaultHistoryLimit bounds the undo stack when no limit is configured.
const DefaultHistoryLimit = 50

// Config is the top-level slidecore configuration.
type Config struct {
	Storage Storage `yaml:"storage"`
	History History `yaml:"history"`
	Log     Log     `yaml:"log"`
	Metrics Metrics `yaml:"metrics"`
}

// Storage selects and configures the key-value backend.
type Storage struct {
	Driver      string        `yaml:"driver" env:"SLIDECORE_STORAGE_DRIVER"`
	Timeout     time.Duration `yaml:"timeout" env:"SLIDECORE_STORAGE_TIMEOUT"`
	FSRoot      string        `yaml:"fs_root" env:"SLIDECORE_FS_ROOT"`
	SQLitePath  string        `yaml:"sqlite_path" env:"SLIDECORE_SQLITE_PATH"`
	PostgresDSN string        `yaml:"postgres_dsn" env:"SLIDECORE_POSTGRES_DSN"`
	BoltPath    string        `yaml:"bolt_path" env:"SLIDECORE_BOLT_PATH"`
	Redis       Redis         `yaml:"redis"`
	S3          S3            `yaml:"s3"`
}

// Redis configures the redis driver.
type Redis struct {
	Addr      string `yaml:"addr" env:"SLIDECORE_REDIS_ADDR"`
	Password  string `yaml:"password" env:"SLIDECORE_REDIS_PASSWORD"`
	DB        int    `yaml:"db" env:"SLIDECORE_REDIS_DB"`
	Namespace string `yaml:"namespace" env:"SLIDECORE_REDIS_NAMESPACE"`
}

// S3 configures the s3 driver. Credentials fall back to the default AWS chain
// when AccessKeyID is empty.
type S3 struct {
	Bucket          string `yaml:"bucket" env:"SLIDECORE_S3_BUCKET"`
	Region          string `yaml:"region" env:"SLIDECORE_S3_REGION"`
	Endpoint        string `yaml:"endpoint" env:"SLIDECORE_S3_ENDPOINT"`
	Prefix          string `yaml:"prefix" env:"SLIDECORE_S3_PREFIX"`
	PathStyle       bool   `yaml:"path_style" env:"SLIDECORE_S3_PATH_STYLE"`
	AccessKeyID     string `yaml:"access_key_id" env:"SLIDECORE_S3_ACCESS_KEY_ID"`
	SecretAccessKey string `yaml:"secret_access_key" env:"SLIDECORE_S3_SECRET_ACCESS_KEY"`
	SessionToken    string `yaml:"session_token" env:"SLIDECORE_S3_SESSION_TOKEN"`
}

// History configures the undo stack.
type History struct {
	Limit int `yaml:"limit" env:"SLIDECORE_HISTORY_LIMIT"`
}

// Log configures the zap logger.
type Log struct {
	Level       string `yaml:"level" env:"SLIDECORE_LOG_LEVEL"`
	Development bool   `yaml:"development" env:"SLIDECORE_LOG_DEVELOPMENT"`
}

// Metrics selects the operation metrics backend: none, expvar or prometheus.
type Metrics struct {
	Backend string `yaml:"backend" env:"SLIDECORE_METRICS_BACKEND"`
	Name    string `yaml:"name" env:"SLIDECORE_METRICS_NAME"`
}

// Default returns the configuration used when nothing is overridden.
func Default() Config {
	return Config{
		Storage: Storage{
			Driver:      "fs",
			Timeout:     5 * time.Second,
			FSRoot:      "./slidedata",
			SQLitePath:  "./slidecore.db",
			PostgresDSN: "postgres://localhost:5432/slidecore?sslmode=disable",
			BoltPath:    "./slidecore.bolt",
			Redis:       Redis{Addr: "localhost:6379", Namespace: "slidecore"},
			S3:          S3{Region: "us-east-1"},
		},
		History: History{Limit: DefaultHistoryLimit},
		Log:     Log{Level: "info"},
		Metrics: Metrics{Backend: "none", Name: "slidecore"},
	}
}

// Load builds the configuration from defaults, then the YAML file at path
// (skipped when path is empty), then SLIDECORE_* environment variables.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("failed to read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("failed to parse YAML: %w", err)
		}
	}
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// ParseEnv overlays environment variables onto target.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Validate reports settings that cannot be used.
func (c Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.Storage.Driver) == "" {
		errs = append(errs, errors.New("storage.driver is required"))
	}
	if c.Storage.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("storage.timeout must be positive, got %s", c.Storage.Timeout))
	}
	if c.History.Limit < 1 {
		errs = append(errs, fmt.Errorf("history.limit must be >= 1, got %d", c.History.Limit))
	}
	switch c.Metrics.Backend {
	case "none", "expvar", "prometheus":
	default:
		errs = append(errs, fmt.Errorf("unknown metrics backend %q", c.Metrics.Backend))
	}
	return errors.Join(errs...)
}
