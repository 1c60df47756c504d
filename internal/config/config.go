// Package config loads the SalesPulse configuration from environment
// variables (SALESPULSE_ prefix) with an optional YAML file overlay.
// File values take precedence over environment values, which take
// precedence over the struct-tag defaults.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config is the complete application configuration.
type Config struct {
	Server  ServerConfig  `yaml:"server" envconfig:"SERVER"`
	Logging LoggingConfig `yaml:"logging" envconfig:"LOGGING"`
	Ingest  IngestConfig  `yaml:"ingest" envconfig:"INGEST"`
}

// ServerConfig contains HTTP server configuration.
type ServerConfig struct {
	Port            int             `yaml:"port" envconfig:"PORT" default:"8080"`
	ReadTimeout     time.Duration   `yaml:"read_timeout" envconfig:"READ_TIMEOUT" default:"30s"`
	WriteTimeout    time.Duration   `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT" default:"60s"`
	IdleTimeout     time.Duration   `yaml:"idle_timeout" envconfig:"IDLE_TIMEOUT" default:"60s"`
	ShutdownTimeout time.Duration   `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT" default:"15s"`
	RateLimit       RateLimitConfig `yaml:"rate_limit" envconfig:"RATE_LIMIT"`
}

// RateLimitConfig throttles the upload endpoint.
type RateLimitConfig struct {
	Enabled bool    `yaml:"enabled" envconfig:"ENABLED" default:"true"`
	RPS     float64 `yaml:"rps" envconfig:"RPS" default:"10"`
	Burst   int     `yaml:"burst" envconfig:"BURST" default:"5"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	Level  string `yaml:"level" envconfig:"LEVEL" default:"info"`
	Format string `yaml:"format" envconfig:"FORMAT" default:"json"`
}

// IngestConfig bounds the batch ingestion pipeline.
type IngestConfig struct {
	// Workers caps the per-file ingestion pool. Zero means one worker per
	// available core.
	Workers int `yaml:"workers" envconfig:"WORKERS" default:"0"`

	// ParseTimeout bounds a single file parse so one malformed spreadsheet
	// cannot stall the whole batch.
	ParseTimeout time.Duration `yaml:"parse_timeout" envconfig:"PARSE_TIMEOUT" default:"30s"`

	// MaxUploadBytes caps the in-memory size of one multipart upload batch.
	MaxUploadBytes int64 `yaml:"max_upload_bytes" envconfig:"MAX_UPLOAD_BYTES" default:"67108864"`
}

// Load reads configuration from the environment and, when filePath names an
// existing YAML file, overlays the file's values on top.
func Load(filePath string) (*Config, error) {
	var cfg Config
	if err := envconfig.Process("SALESPULSE", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if filePath != "" {
		if _, err := os.Stat(filePath); err == nil {
			fileCfg, err := loadFromFile(filePath)
			if err != nil {
				return nil, fmt.Errorf("failed to load config file %s: %w", filePath, err)
			}
			cfg = merge(*fileCfg, cfg)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

func loadFromFile(filePath string) (*Config, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// merge overlays file config over env config: any field the file set wins,
// everything else keeps the env/default value envconfig already resolved.
func merge(fileCfg, envCfg Config) Config {
	out := envCfg
	if fileCfg.Server.Port != 0 {
		out.Server.Port = fileCfg.Server.Port
	}
	if fileCfg.Server.ReadTimeout != 0 {
		out.Server.ReadTimeout = fileCfg.Server.ReadTimeout
	}
	if fileCfg.Server.WriteTimeout != 0 {
		out.Server.WriteTimeout = fileCfg.Server.WriteTimeout
	}
	if fileCfg.Server.IdleTimeout != 0 {
		out.Server.IdleTimeout = fileCfg.Server.IdleTimeout
	}
	if fileCfg.Server.ShutdownTimeout != 0 {
		out.Server.ShutdownTimeout = fileCfg.Server.ShutdownTimeout
	}
	if fileCfg.Server.RateLimit.RPS != 0 {
		out.Server.RateLimit.RPS = fileCfg.Server.RateLimit.RPS
	}
	if fileCfg.Server.RateLimit.Burst != 0 {
		out.Server.RateLimit.Burst = fileCfg.Server.RateLimit.Burst
	}
	if fileCfg.Logging.Level != "" {
		out.Logging.Level = fileCfg.Logging.Level
	}
	if fileCfg.Logging.Format != "" {
		out.Logging.Format = fileCfg.Logging.Format
	}
	if fileCfg.Ingest.Workers != 0 {
		out.Ingest.Workers = fileCfg.Ingest.Workers
	}
	if fileCfg.Ingest.ParseTimeout != 0 {
		out.Ingest.ParseTimeout = fileCfg.Ingest.ParseTimeout
	}
	if fileCfg.Ingest.MaxUploadBytes != 0 {
		out.Ingest.MaxUploadBytes = fileCfg.Ingest.MaxUploadBytes
	}
	return out
}

func (c *Config) validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Ingest.Workers < 0 {
		return fmt.Errorf("ingest workers must not be negative: %d", c.Ingest.Workers)
	}
	if c.Ingest.ParseTimeout <= 0 {
		return fmt.Errorf("ingest parse timeout must be positive: %s", c.Ingest.ParseTimeout)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level: %s", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "json", "text":
	default:
		return fmt.Errorf("invalid log format: %s", c.Logging.Format)
	}
	return nil
}
