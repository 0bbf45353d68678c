package config

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override, e.g. BOSSTIMERS_HTTP_ADDR.
const EnvPrefix = "BOSSTIMERS_"

// Storage backends for best times.
const (
	BackendMemory   = "memory"
	BackendFile     = "file"
	BackendPostgres = "postgres"
)

// Config holds all configuration for the boss timer daemon.
type Config struct {
	LogLevel string `yaml:"log_level" env:"LOG_LEVEL"`

	// HTTP read API and event feed
	HTTPAddr string `yaml:"http_addr" env:"HTTP_ADDR"`

	// TickInterval drives a local tick source when > 0. Hosts that stream
	// their own tick events leave it at 0.
	TickInterval time.Duration `yaml:"tick_interval" env:"TICK_INTERVAL"`

	// EventBuffer is the engine's inbound queue size.
	EventBuffer int `yaml:"event_buffer" env:"EVENT_BUFFER"`

	Storage  StorageConfig  `yaml:"storage" envPrefix:"STORAGE_"`
	Database DatabaseConfig `yaml:"database" envPrefix:"DB_"`
	Options  Options        `yaml:"options" envPrefix:"OPTIONS_"`
}

// StorageConfig selects where best times are persisted.
type StorageConfig struct {
	Backend       string        `yaml:"backend" env:"BACKEND"`
	FilePath      string        `yaml:"file_path" env:"FILE_PATH"`
	FlushInterval time.Duration `yaml:"flush_interval" env:"FLUSH_INTERVAL"` // postgres write-behind
}

// DatabaseConfig holds PostgreSQL connection parameters.
type DatabaseConfig struct {
	Host     string `yaml:"host" env:"HOST"`
	Port     int    `yaml:"port" env:"PORT"`
	User     string `yaml:"user" env:"USER"`
	Password string `yaml:"password" env:"PASSWORD"`
	DBName   string `yaml:"dbname" env:"NAME"`
	SSLMode  string `yaml:"sslmode" env:"SSLMODE"`
}

// DSN returns the PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

// Default returns Config with sensible defaults.
func Default() Config {
	return Config{
		LogLevel:    "info",
		HTTPAddr:    "127.0.0.1:8642",
		EventBuffer: 256,
		Storage: StorageConfig{
			Backend:       BackendFile,
			FilePath:      "data/besttimes.yaml",
			FlushInterval: 30 * time.Second,
		},
		Database: DatabaseConfig{
			Host:     "127.0.0.1",
			Port:     5432,
			User:     "bosstimers",
			Password: "bosstimers",
			DBName:   "bosstimers",
			SSLMode:  "disable",
		},
		Options: DefaultOptions(),
	}
}

// Load reads config from a YAML file and applies environment overrides.
// If the file doesn't exist, defaults are used.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}
	if err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parsing config %s: %w", path, err)
		}
	}

	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return cfg, fmt.Errorf("parsing environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("validating config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks values that would otherwise fail late.
func (c Config) Validate() error {
	switch c.Storage.Backend {
	case BackendMemory, BackendPostgres:
	case BackendFile:
		if c.Storage.FilePath == "" {
			return fmt.Errorf("storage.file_path is required for the file backend")
		}
	default:
		return fmt.Errorf("unknown storage backend %q", c.Storage.Backend)
	}
	if err := c.Options.Validate(); err != nil {
		return err
	}
	if c.EventBuffer <= 0 {
		return fmt.Errorf("event_buffer must be positive, got %d", c.EventBuffer)
	}
	return nil
}
