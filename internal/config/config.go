// Package config provides configuration management for the room validation services.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"roomcheck/internal/models"
)

// Store types.
const (
	StoreFile     = "file"
	StorePostgres = "postgres"
	StoreRedis    = "redis"
	StoreHTTP     = "http"
)

// Configuration validation errors.
var (
	ErrInvalidMode              = errors.New("validator.mode must be one of: strict, preview, relaxed")
	ErrInvalidConcurrency       = errors.New("validator.batch_concurrency must be at least 1")
	ErrInvalidBatchSize         = errors.New("validator.max_batch_size must be at least 1")
	ErrInvalidStoreType         = errors.New("store.type must be one of: file, postgres, redis, http")
	ErrMissingDataDir           = errors.New("store.file.dir is required for the file store")
	ErrMissingDatabaseURL       = errors.New("store.postgres.url is required for the postgres store")
	ErrMissingTable             = errors.New("store.postgres.table is required for the postgres store")
	ErrMissingRedisURL          = errors.New("store.redis.url is required for the redis store")
	ErrMissingBaseURL           = errors.New("store.http.base_url is required for the http store")
	ErrInvalidMaxAttempts       = errors.New("store.http.retry.max_attempts must be at least 1")
	ErrInvalidInitialDelay      = errors.New("store.http.retry.initial_delay_ms must be non-negative")
	ErrInvalidBackoffMultiplier = errors.New("store.http.retry.backoff_multiplier must be >= 1.0")
	ErrInvalidTimeout           = errors.New("store.http.retry.timeout_sec must be at least 1")
	ErrMissingAddr              = errors.New("server.addr is required")
	ErrInvalidLogLevel          = errors.New("logging.level must be one of: debug, info, warn, error")
	ErrInvalidLogFormat         = errors.New("logging.format must be 'text' or 'json'")
)

// Config represents the complete service configuration.
type Config struct {
	Validator ValidatorConfig `yaml:"validator"`
	Store     StoreConfig     `yaml:"store"`
	Server    ServerConfig    `yaml:"server"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// ValidatorConfig selects the default mode and batch behavior.
type ValidatorConfig struct {
	Mode             string `yaml:"mode"`
	BatchConcurrency int    `yaml:"batch_concurrency"`
	MaxBatchSize     int    `yaml:"max_batch_size"`
}

// StoreConfig selects and configures the room store.
type StoreConfig struct {
	Type     string         `yaml:"type"`
	File     FileConfig     `yaml:"file"`
	Postgres PostgresConfig `yaml:"postgres"`
	Redis    RedisConfig    `yaml:"redis"`
	HTTP     HTTPConfig     `yaml:"http"`
}

// FileConfig points at a directory of room documents.
type FileConfig struct {
	Dir string `yaml:"dir"`
}

// PostgresConfig configures the Postgres store.
type PostgresConfig struct {
	URL      string `yaml:"url"`
	Table    string `yaml:"table"`
	MaxConns int32  `yaml:"max_conns"`
}

// RedisConfig configures the Redis store.
type RedisConfig struct {
	URL       string `yaml:"url"`
	KeyPrefix string `yaml:"key_prefix"`
}

// HTTPConfig configures the HTTP store.
type HTTPConfig struct {
	BaseURL   string      `yaml:"base_url"`
	UserAgent string      `yaml:"user_agent"`
	Token     string      `yaml:"token"`
	Retry     RetryPolicy `yaml:"retry"`
}

// RetryPolicy defines retry behavior.
type RetryPolicy struct {
	MaxAttempts       int     `yaml:"max_attempts"`
	InitialDelayMs    int     `yaml:"initial_delay_ms"`
	MaxDelayMs        int     `yaml:"max_delay_ms"`
	BackoffMultiplier float64 `yaml:"backoff_multiplier"`
	TimeoutSec        int     `yaml:"timeout_sec"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr            string `yaml:"addr"`
	ReadTimeoutSec  int    `yaml:"read_timeout_sec"`
	WriteTimeoutSec int    `yaml:"write_timeout_sec"`
	MaxBodyBytes    int64  `yaml:"max_body_bytes"`
}

// LoggingConfig defines logging behavior.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns a configuration that validates rooms from ./data with the
// strict mode.
func Default() *Config {
	return &Config{
		Validator: ValidatorConfig{
			Mode:             models.StrictnessStrict,
			BatchConcurrency: 8,
			MaxBatchSize:     100,
		},
		Store: StoreConfig{
			Type:     StoreFile,
			File:     FileConfig{Dir: "./data"},
			Postgres: PostgresConfig{Table: "rooms", MaxConns: 4},
			Redis:    RedisConfig{KeyPrefix: "room:"},
			HTTP: HTTPConfig{
				UserAgent: "roomcheck/1.0",
				Retry: RetryPolicy{
					MaxAttempts:       3,
					InitialDelayMs:    200,
					MaxDelayMs:        5000,
					BackoffMultiplier: 2.0,
					TimeoutSec:        10,
				},
			},
		},
		Server: ServerConfig{
			Addr:            ":8080",
			ReadTimeoutSec:  10,
			WriteTimeoutSec: 30,
			MaxBodyBytes:    1 << 20,
		},
		Logging: LoggingConfig{Level: "info", Format: "text"},
	}
}

// LoadConfig loads configuration from a YAML file on top of Default, applies
// environment overrides and validates the result. An empty path skips the
// file.
func LoadConfig(filepath string) (*Config, error) {
	cfg := Default()

	if filepath != "" {
		data, err := os.ReadFile(filepath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}

		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse YAML: %w", err)
		}
	}

	// .env is optional
	_ = godotenv.Load()

	cfg.ApplyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// ApplyEnv overrides file settings with environment variables when set.
func (c *Config) ApplyEnv() {
	setString(&c.Store.Type, "ROOMCHECK_STORE")
	setString(&c.Store.File.Dir, "ROOMCHECK_DATA_DIR")
	setString(&c.Store.Postgres.URL, "DATABASE_URL")
	setString(&c.Store.Redis.URL, "REDIS_URL")
	setString(&c.Store.HTTP.BaseURL, "ROOMCHECK_HTTP_BASE_URL")
	setString(&c.Store.HTTP.Token, "ROOMCHECK_HTTP_TOKEN")
	setString(&c.Server.Addr, "ROOMCHECK_ADDR")
	setString(&c.Logging.Level, "LOG_LEVEL")
	setString(&c.Validator.Mode, "ROOMCHECK_MODE")

	if v, err := strconv.Atoi(os.Getenv("ROOMCHECK_BATCH_CONCURRENCY")); err == nil {
		c.Validator.BatchConcurrency = v
	}
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

// SaveConfig saves configuration to YAML file.
func (c *Config) SaveConfig(filepath string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(filepath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if _, ok := models.ModeFor(c.Validator.Mode); !ok {
		return fmt.Errorf("%w: %q", ErrInvalidMode, c.Validator.Mode)
	}

	if c.Validator.BatchConcurrency < 1 {
		return ErrInvalidConcurrency
	}

	if c.Validator.MaxBatchSize < 1 {
		return ErrInvalidBatchSize
	}

	if err := c.Store.validate(); err != nil {
		return err
	}

	if c.Server.Addr == "" {
		return ErrMissingAddr
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Logging.Level] {
		return ErrInvalidLogLevel
	}

	if c.Logging.Format != "text" && c.Logging.Format != "json" {
		return ErrInvalidLogFormat
	}

	return nil
}

func (s *StoreConfig) validate() error {
	switch s.Type {
	case StoreFile:
		if s.File.Dir == "" {
			return ErrMissingDataDir
		}
	case StorePostgres:
		if s.Postgres.URL == "" {
			return ErrMissingDatabaseURL
		}

		if s.Postgres.Table == "" {
			return ErrMissingTable
		}
	case StoreRedis:
		if s.Redis.URL == "" {
			return ErrMissingRedisURL
		}
	case StoreHTTP:
		if s.HTTP.BaseURL == "" {
			return ErrMissingBaseURL
		}

		return s.HTTP.Retry.validate()
	default:
		return fmt.Errorf("%w: %q", ErrInvalidStoreType, s.Type)
	}

	return nil
}

func (rp *RetryPolicy) validate() error {
	if rp.MaxAttempts < 1 {
		return ErrInvalidMaxAttempts
	}

	if rp.InitialDelayMs < 0 {
		return ErrInvalidInitialDelay
	}

	if rp.BackoffMultiplier < 1.0 {
		return ErrInvalidBackoffMultiplier
	}

	if rp.TimeoutSec < 1 {
		return ErrInvalidTimeout
	}

	return nil
}

// Mode returns the configured default validation mode.
func (c *Config) Mode() models.Mode {
	mode, _ := models.ModeFor(c.Validator.Mode)
	return mode
}

// GetRetryDelay calculates exponential backoff delay for attempt number.
func (rp *RetryPolicy) GetRetryDelay(attempt int) time.Duration {
	if attempt <= 1 {
		return 0
	}

	delayMs := float64(rp.InitialDelayMs)
	for i := 1; i < attempt; i++ {
		delayMs *= rp.BackoffMultiplier
	}

	// Cap at max delay
	if int(delayMs) > rp.MaxDelayMs {
		delayMs = float64(rp.MaxDelayMs)
	}

	return time.Duration(int(delayMs)) * time.Millisecond
}

// GetTimeout returns the timeout duration.
func (rp *RetryPolicy) GetTimeout() time.Duration {
	return time.Duration(rp.TimeoutSec) * time.Second
}

// ReadTimeout returns the server read timeout.
func (s *ServerConfig) ReadTimeout() time.Duration {
	return time.Duration(s.ReadTimeoutSec) * time.Second
}

// WriteTimeout returns the server write timeout.
func (s *ServerConfig) WriteTimeout() time.Duration {
	return time.Duration(s.WriteTimeoutSec) * time.Second
}

// String returns a string representation of the config.
func (c *Config) String() string {
	return fmt.Sprintf(
		"Config{Store: %s, Mode: %s, Addr: %s}",
		c.Store.Type,
		c.Validator.Mode,
		c.Server.Addr,
	)
}
