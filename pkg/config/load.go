package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// LoadConfig loads configuration from a YAML file at the specified path.
// It applies default values and validates the result. Environment variable
// overrides are not applied; use LoadConfigWithEnvOverrides for that.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
	}

	ApplyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// LoadConfigWithEnvOverrides loads configuration from a YAML file and applies
// environment variable overrides. Variables follow the naming convention
// CHATBRIDGE_SECTION_FIELD (e.g. CHATBRIDGE_MANAGER_PRIMARY_PROVIDER) and
// always take precedence over file-based configuration.
//
// The loading sequence is:
//  1. Load YAML from file
//  2. Apply default values
//  3. Apply environment variable overrides
//  4. Validate the final configuration
func LoadConfigWithEnvOverrides(path string) (*Config, error) {
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, err
	}

	applyEnvOverrides(cfg)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed after environment overrides: %w", err)
	}

	return cfg, nil
}

// applyEnvOverrides applies environment variable overrides to the configuration.
func applyEnvOverrides(cfg *Config) {
	// Provider overrides use the provider name in the variable:
	// CHATBRIDGE_PROVIDER_<NAME>_API_KEY, ..._BASE_URL, ..._MODEL, ..._TIMEOUT.
	for name, p := range cfg.Providers {
		prefix := "CHATBRIDGE_PROVIDER_" + strings.ToUpper(name) + "_"
		if val := os.Getenv(prefix + "API_KEY"); val != "" {
			p.APIKey = val
		}
		if val := os.Getenv(prefix + "BASE_URL"); val != "" {
			p.BaseURL = val
		}
		if val := os.Getenv(prefix + "MODEL"); val != "" {
			p.Model = val
		}
		if val := os.Getenv(prefix + "TIMEOUT"); val != "" {
			if d, err := time.ParseDuration(val); err == nil {
				p.Timeout = d
			}
		}
		cfg.Providers[name] = p
	}

	// Manager overrides
	if val := os.Getenv("CHATBRIDGE_MANAGER_PRIMARY_PROVIDER"); val != "" {
		cfg.Manager.PrimaryProvider = val
	}
	if val := os.Getenv("CHATBRIDGE_MANAGER_FALLBACK_PROVIDER"); val != "" {
		cfg.Manager.FallbackProvider = val
	}
	if val := os.Getenv("CHATBRIDGE_MANAGER_ENABLE_FALLBACK"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Manager.EnableFallback = b
		}
	}
	if val := os.Getenv("CHATBRIDGE_MANAGER_MAX_RETRY_ATTEMPTS"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			cfg.Manager.MaxRetryAttempts = i
		}
	}
	if val := os.Getenv("CHATBRIDGE_MANAGER_BACKOFF_BASE_DELAY"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Manager.BackoffBaseDelay = d
		}
	}
	if val := os.Getenv("CHATBRIDGE_MANAGER_FAILURE_THRESHOLD"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			cfg.Manager.FailureThreshold = i
		}
	}

	// Cache overrides
	if val := os.Getenv("CHATBRIDGE_CACHE_BACKEND"); val != "" {
		cfg.Cache.Backend = val
	}
	if val := os.Getenv("CHATBRIDGE_CACHE_TTL"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Cache.TTL = d
		}
	}
	if val := os.Getenv("CHATBRIDGE_CACHE_REDIS_ADDR"); val != "" {
		cfg.Cache.Redis.Addr = val
	}
	if val := os.Getenv("CHATBRIDGE_CACHE_REDIS_PASSWORD"); val != "" {
		cfg.Cache.Redis.Password = val
	}

	// Telemetry overrides
	if val := os.Getenv("CHATBRIDGE_LOG_LEVEL"); val != "" {
		cfg.Telemetry.Logging.Level = val
	}
	if val := os.Getenv("CHATBRIDGE_LOG_FORMAT"); val != "" {
		cfg.Telemetry.Logging.Format = val
	}
}
