package config

import (
	"fmt"
	"strings"

	"github.com/robfig/cron/v3"
)

// validProviderTypes lists the supported provider adapter types.
var validProviderTypes = map[string]bool{
	"openrouter": true,
	"openai":     true,
	"generic":    true,
}

// Validate checks the configuration for errors. It returns the first
// problem found, with enough context to locate it in the file.
func Validate(cfg *Config) error {
	if len(cfg.Providers) == 0 {
		return fmt.Errorf("at least one provider must be configured")
	}

	for name, p := range cfg.Providers {
		if err := validateProvider(name, p); err != nil {
			return err
		}
	}

	if err := validateManager(cfg); err != nil {
		return err
	}

	if err := validateCache(&cfg.Cache); err != nil {
		return err
	}

	return validateTelemetry(&cfg.Telemetry)
}

func validateProvider(name string, p ProviderConfig) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("provider name cannot be empty")
	}
	if !validProviderTypes[p.Type] {
		return fmt.Errorf("provider %q: unknown type %q (must be openrouter, openai, or generic)", name, p.Type)
	}
	// Generic providers are the only ones that may omit an API key
	// (local OpenAI-compatible servers typically run unauthenticated).
	if p.APIKey == "" && p.Type != "generic" {
		return fmt.Errorf("provider %q: api_key is required for type %q", name, p.Type)
	}
	if p.Type == "generic" && p.BaseURL == "" {
		return fmt.Errorf("provider %q: base_url is required for generic providers", name)
	}
	if p.Model == "" {
		return fmt.Errorf("provider %q: model is required", name)
	}
	if p.Temperature < 0 || p.Temperature > 2 {
		return fmt.Errorf("provider %q: temperature must be between 0.0 and 2.0, got %v", name, p.Temperature)
	}
	if p.MaxTokens < 1 {
		return fmt.Errorf("provider %q: max_tokens must be positive, got %d", name, p.MaxTokens)
	}
	if p.Timeout <= 0 {
		return fmt.Errorf("provider %q: timeout must be positive, got %v", name, p.Timeout)
	}
	return nil
}

func validateManager(cfg *Config) error {
	m := &cfg.Manager
	if m.PrimaryProvider == "" {
		return fmt.Errorf("manager: primary_provider is required")
	}
	if _, ok := cfg.Providers[m.PrimaryProvider]; !ok {
		return fmt.Errorf("manager: primary_provider %q is not a configured provider", m.PrimaryProvider)
	}
	if m.EnableFallback {
		if m.FallbackProvider == "" {
			return fmt.Errorf("manager: fallback_provider is required when enable_fallback is true")
		}
		if _, ok := cfg.Providers[m.FallbackProvider]; !ok {
			return fmt.Errorf("manager: fallback_provider %q is not a configured provider", m.FallbackProvider)
		}
	}
	if m.MaxRetryAttempts < 0 {
		return fmt.Errorf("manager: max_retry_attempts cannot be negative, got %d", m.MaxRetryAttempts)
	}
	if m.BackoffBaseDelay <= 0 {
		return fmt.Errorf("manager: backoff_base_delay must be positive, got %v", m.BackoffBaseDelay)
	}
	if m.BackoffMaxDelay < m.BackoffBaseDelay {
		return fmt.Errorf("manager: backoff_max_delay %v is below backoff_base_delay %v",
			m.BackoffMaxDelay, m.BackoffBaseDelay)
	}
	if m.FailureThreshold < 1 {
		return fmt.Errorf("manager: failure_threshold must be at least 1, got %d", m.FailureThreshold)
	}
	return nil
}

func validateCache(c *CacheConfig) error {
	switch c.Backend {
	case "memory", "sqlite", "redis":
	default:
		return fmt.Errorf("cache: unknown backend %q (must be memory, sqlite, or redis)", c.Backend)
	}
	if c.TTL <= 0 {
		return fmt.Errorf("cache: ttl must be positive, got %v", c.TTL)
	}
	if c.Backend == "sqlite" && c.SQLitePath == "" {
		return fmt.Errorf("cache: sqlite_path is required for the sqlite backend")
	}
	if c.Backend == "redis" && c.Redis.Addr == "" {
		return fmt.Errorf("cache: redis.addr is required for the redis backend")
	}
	if c.MaxEntries < 0 {
		return fmt.Errorf("cache: max_entries cannot be negative, got %d", c.MaxEntries)
	}
	return nil
}

func validateTelemetry(t *TelemetryConfig) error {
	switch t.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("telemetry: unknown log level %q", t.Logging.Level)
	}
	switch t.Logging.Format {
	case "json", "text":
	default:
		return fmt.Errorf("telemetry: unknown log format %q", t.Logging.Format)
	}
	if t.HealthSweep.Enabled {
		if _, err := cron.ParseStandard(t.HealthSweep.Schedule); err != nil {
			return fmt.Errorf("telemetry: invalid health_sweep schedule %q: %w", t.HealthSweep.Schedule, err)
		}
	}
	return nil
}
