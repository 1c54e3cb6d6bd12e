// Package config provides configuration management for the gpuhunt collectors.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Configuration validation errors.
var (
	ErrInvalidMaxAttempts       = errors.New("http.retry.max_attempts must be at least 1")
	ErrInvalidInitialDelay      = errors.New("http.retry.initial_delay_ms must be non-negative")
	ErrInvalidBackoffMultiplier = errors.New("http.retry.backoff_multiplier must be >= 1.0")
	ErrInvalidTimeout           = errors.New("http.retry.timeout_sec must be at least 1")
	ErrInvalidBufferSize        = errors.New("http.buffer_size_kb must be at least 1")
	ErrMissingModel             = errors.New("extraction.model is required")
	ErrMissingAPIKeyEnv         = errors.New("extraction.api_key_env is required")
	ErrInvalidContentSize       = errors.New("extraction.max_content_kb must be non-negative")
	ErrInvalidRate              = errors.New("currency.rates values must be positive")
	ErrInvalidOutputFormat      = errors.New("output.format must be one of: csv, json, table")
	ErrInvalidLogLevel          = errors.New("logging.level must be one of: debug, info, warn, error")
	ErrInvalidLogFormat         = errors.New("logging.format must be 'text' or 'json'")
)

// Default values.
const (
	DefaultUserAgent   = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"
	DefaultModel       = "gpt-4o-mini"
	DefaultAPIKeyEnv   = "OPENAI_API_KEY"
	DefaultEURToUSD    = 1.10
	DefaultTimeoutSec  = 30
	DefaultBufferKb    = 8192
	DefaultContentKb   = 512
	DefaultOutputFmt   = "csv"
	DefaultLogLevel    = "info"
	DefaultLogFormat   = "text"
	DefaultMaxAttempts = 1
)

// Config represents the complete gpuhunt configuration.
type Config struct {
	Providers  map[string]ProviderConfig `yaml:"providers"`
	Currency   CurrencyConfig            `yaml:"currency"`
	Extraction ExtractionConfig          `yaml:"extraction"`
	Logging    LoggingConfig             `yaml:"logging"`
	Output     OutputConfig              `yaml:"output"`
	HTTP       HTTPConfig                `yaml:"http"`
}

// HTTPConfig controls outbound fetches.
type HTTPConfig struct {
	UserAgent    string      `yaml:"user_agent"`
	Retry        RetryPolicy `yaml:"retry"`
	BufferSizeKb int         `yaml:"buffer_size_kb"`
}

// RetryPolicy defines retry behavior. MaxAttempts of 1 disables retries.
type RetryPolicy struct {
	MaxAttempts       int     `yaml:"max_attempts"`
	InitialDelayMs    int     `yaml:"initial_delay_ms"`
	MaxDelayMs        int     `yaml:"max_delay_ms"`
	BackoffMultiplier float64 `yaml:"backoff_multiplier"`
	TimeoutSec        int     `yaml:"timeout_sec"`
}

// ExtractionConfig configures the completion-backed extraction pipeline.
type ExtractionConfig struct {
	Model        string `yaml:"model"`
	APIKeyEnv    string `yaml:"api_key_env"`
	MaxContentKb int    `yaml:"max_content_kb"`
	ConvertHTML  bool   `yaml:"convert_html"`
}

// CurrencyConfig holds fixed conversion rates to USD, keyed by ISO code.
type CurrencyConfig struct {
	Rates map[string]float64 `yaml:"rates"`
}

// LoggingConfig defines logging behavior.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// OutputConfig defines how the collected catalog is written.
type OutputConfig struct {
	Format string `yaml:"format"`
	Filter bool   `yaml:"filter"`
}

// ProviderConfig toggles a provider and optionally overrides its source URL.
type ProviderConfig struct {
	URL     string `yaml:"url"`
	Enabled *bool  `yaml:"enabled"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		HTTP: HTTPConfig{
			UserAgent:    DefaultUserAgent,
			BufferSizeKb: DefaultBufferKb,
			Retry: RetryPolicy{
				MaxAttempts:       DefaultMaxAttempts,
				InitialDelayMs:    500,
				MaxDelayMs:        10000,
				BackoffMultiplier: 2.0,
				TimeoutSec:        DefaultTimeoutSec,
			},
		},
		Extraction: ExtractionConfig{
			Model:        DefaultModel,
			APIKeyEnv:    DefaultAPIKeyEnv,
			MaxContentKb: DefaultContentKb,
			ConvertHTML:  true,
		},
		Currency: CurrencyConfig{
			Rates: map[string]float64{"EUR": DefaultEURToUSD},
		},
		Logging: LoggingConfig{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
		Output: OutputConfig{
			Format: DefaultOutputFmt,
			Filter: true,
		},
		Providers: map[string]ProviderConfig{},
	}
}

// LoadConfig loads configuration from a YAML file on top of Default.
func LoadConfig(filepath string) (*Config, error) {
	data, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	retry := c.HTTP.Retry

	if retry.MaxAttempts < 1 {
		return ErrInvalidMaxAttempts
	}

	if retry.InitialDelayMs < 0 {
		return ErrInvalidInitialDelay
	}

	if retry.BackoffMultiplier < 1.0 {
		return ErrInvalidBackoffMultiplier
	}

	if retry.TimeoutSec < 1 {
		return ErrInvalidTimeout
	}

	if c.HTTP.BufferSizeKb < 1 {
		return ErrInvalidBufferSize
	}

	if c.Extraction.Model == "" {
		return ErrMissingModel
	}

	if c.Extraction.APIKeyEnv == "" {
		return ErrMissingAPIKeyEnv
	}

	if c.Extraction.MaxContentKb < 0 {
		return ErrInvalidContentSize
	}

	for code, rate := range c.Currency.Rates {
		if rate <= 0 {
			return fmt.Errorf("%w: %s", ErrInvalidRate, code)
		}
	}

	switch c.Output.Format {
	case "csv", "json", "table":
	default:
		return ErrInvalidOutputFormat
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

// ProviderEnabled reports whether a provider should run. Providers absent from
// the config fall back to defaultOn.
func (c *Config) ProviderEnabled(name string, defaultOn bool) bool {
	p, ok := c.Providers[strings.ToLower(name)]
	if !ok || p.Enabled == nil {
		return defaultOn
	}

	return *p.Enabled
}

// ProviderURL returns the configured URL override for a provider, or fallback.
func (c *Config) ProviderURL(name, fallback string) string {
	if p, ok := c.Providers[strings.ToLower(name)]; ok && p.URL != "" {
		return p.URL
	}

	return fallback
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

	if int(delayMs) > rp.MaxDelayMs {
		delayMs = float64(rp.MaxDelayMs)
	}

	return time.Duration(int(delayMs)) * time.Millisecond
}

// GetTimeout returns the timeout duration.
func (rp *RetryPolicy) GetTimeout() time.Duration {
	return time.Duration(rp.TimeoutSec) * time.Second
}

// String returns a string representation of the config.
func (c *Config) String() string {
	return fmt.Sprintf(
		"Config{Providers: %d, MaxAttempts: %d, Model: %s, Output: %s}",
		len(c.Providers),
		c.HTTP.Retry.MaxAttempts,
		c.Extraction.Model,
		c.Output.Format,
	)
}
