package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

const validYAML = `
providers:
  openrouter:
    type: openrouter
    api_key: sk-or-test
    model: openai/gpt-4o-mini
  local:
    type: generic
    base_url: http://localhost:11434/v1
    model: llama3

manager:
  primary_provider: openrouter
  fallback_provider: local
  enable_fallback: true
  max_retry_attempts: 2

cache:
  enabled: true
  backend: memory
  ttl: 5m
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, validYAML))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	if len(cfg.Providers) != 2 {
		t.Fatalf("got %d providers, want 2", len(cfg.Providers))
	}

	or := cfg.Providers["openrouter"]
	if or.Type != "openrouter" || or.APIKey != "sk-or-test" {
		t.Errorf("openrouter provider not parsed: %+v", or)
	}

	if cfg.Manager.PrimaryProvider != "openrouter" || !cfg.Manager.EnableFallback {
		t.Errorf("manager section not parsed: %+v", cfg.Manager)
	}
	if cfg.Manager.MaxRetryAttempts != 2 {
		t.Errorf("MaxRetryAttempts = %d, want 2", cfg.Manager.MaxRetryAttempts)
	}

	if !cfg.Cache.Enabled || cfg.Cache.TTL != 5*time.Minute {
		t.Errorf("cache section not parsed: %+v", cfg.Cache)
	}
}

func TestLoadConfigAppliesDefaults(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, validYAML))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	or := cfg.Providers["openrouter"]
	if or.Timeout != DefaultProviderTimeout {
		t.Errorf("Timeout = %v, want default %v", or.Timeout, DefaultProviderTimeout)
	}
	if or.Temperature != DefaultTemperature {
		t.Errorf("Temperature = %v, want default %v", or.Temperature, DefaultTemperature)
	}
	if or.MaxTokens != DefaultMaxTokens {
		t.Errorf("MaxTokens = %d, want default %d", or.MaxTokens, DefaultMaxTokens)
	}

	if cfg.Manager.BackoffBaseDelay != DefaultBackoffBaseDelay {
		t.Errorf("BackoffBaseDelay = %v, want default", cfg.Manager.BackoffBaseDelay)
	}
	if cfg.Manager.FailureThreshold != DefaultFailureThreshold {
		t.Errorf("FailureThreshold = %d, want default", cfg.Manager.FailureThreshold)
	}

	if cfg.Telemetry.Logging.Level != DefaultLogLevel {
		t.Errorf("log level = %q, want default", cfg.Telemetry.Logging.Level)
	}
	if len(cfg.Telemetry.Metrics.LatencyBuckets) == 0 {
		t.Error("latency buckets default not applied")
	}
	if cfg.Telemetry.HealthSweep.Schedule != DefaultHealthSweepSchedule {
		t.Errorf("sweep schedule = %q, want default", cfg.Telemetry.HealthSweep.Schedule)
	}
}

func TestLoadConfigExplicitValuesSurviveDefaults(t *testing.T) {
	yaml := strings.Replace(validYAML, "max_retry_attempts: 2", "max_retry_attempts: 7", 1)
	cfg, err := LoadConfig(writeConfig(t, yaml))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Manager.MaxRetryAttempts != 7 {
		t.Errorf("MaxRetryAttempts = %d, want 7", cfg.Manager.MaxRetryAttempts)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestLoadConfigMalformedYAML(t *testing.T) {
	if _, err := LoadConfig(writeConfig(t, "providers: [not: a map")); err == nil {
		t.Error("expected error for malformed YAML")
	}
}

func TestLoadConfigWithEnvOverrides(t *testing.T) {
	t.Setenv("CHATBRIDGE_PROVIDER_OPENROUTER_API_KEY", "sk-from-env")
	t.Setenv("CHATBRIDGE_MANAGER_MAX_RETRY_ATTEMPTS", "5")
	t.Setenv("CHATBRIDGE_CACHE_TTL", "90s")
	t.Setenv("CHATBRIDGE_LOG_LEVEL", "debug")

	cfg, err := LoadConfigWithEnvOverrides(writeConfig(t, validYAML))
	if err != nil {
		t.Fatalf("LoadConfigWithEnvOverrides: %v", err)
	}

	if got := cfg.Providers["openrouter"].APIKey; got != "sk-from-env" {
		t.Errorf("APIKey = %q, want the env value", got)
	}
	if cfg.Manager.MaxRetryAttempts != 5 {
		t.Errorf("MaxRetryAttempts = %d, want 5", cfg.Manager.MaxRetryAttempts)
	}
	if cfg.Cache.TTL != 90*time.Second {
		t.Errorf("TTL = %v, want 90s", cfg.Cache.TTL)
	}
	if cfg.Telemetry.Logging.Level != "debug" {
		t.Errorf("log level = %q, want debug", cfg.Telemetry.Logging.Level)
	}
}

func baseConfig() *Config {
	cfg := &Config{
		Providers: map[string]ProviderConfig{
			"openrouter": {Type: "openrouter", APIKey: "sk", Model: "m"},
			"local":      {Type: "generic", BaseURL: "http://localhost:1234/v1", Model: "m"},
		},
		Manager: ManagerConfig{
			PrimaryProvider:  "openrouter",
			FallbackProvider: "local",
			EnableFallback:   true,
		},
		Cache: CacheConfig{Enabled: true},
	}
	ApplyDefaults(cfg)
	return cfg
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(cfg *Config)
		wantErr string
	}{
		{
			name:    "valid config",
			mutate:  func(cfg *Config) {},
			wantErr: "",
		},
		{
			name:    "no providers",
			mutate:  func(cfg *Config) { cfg.Providers = nil },
			wantErr: "at least one provider",
		},
		{
			name: "unknown provider type",
			mutate: func(cfg *Config) {
				p := cfg.Providers["openrouter"]
				p.Type = "anthropic-magic"
				cfg.Providers["openrouter"] = p
			},
			wantErr: "unknown type",
		},
		{
			name: "missing api key",
			mutate: func(cfg *Config) {
				p := cfg.Providers["openrouter"]
				p.APIKey = ""
				cfg.Providers["openrouter"] = p
			},
			wantErr: "api_key is required",
		},
		{
			name: "generic without base url",
			mutate: func(cfg *Config) {
				p := cfg.Providers["local"]
				p.BaseURL = ""
				cfg.Providers["local"] = p
			},
			wantErr: "base_url is required",
		},
		{
			name: "missing model",
			mutate: func(cfg *Config) {
				p := cfg.Providers["openrouter"]
				p.Model = ""
				cfg.Providers["openrouter"] = p
			},
			wantErr: "model is required",
		},
		{
			name: "temperature out of range",
			mutate: func(cfg *Config) {
				p := cfg.Providers["openrouter"]
				p.Temperature = 2.5
				cfg.Providers["openrouter"] = p
			},
			wantErr: "temperature",
		},
		{
			name:    "missing primary",
			mutate:  func(cfg *Config) { cfg.Manager.PrimaryProvider = "" },
			wantErr: "primary_provider is required",
		},
		{
			name:    "primary not configured",
			mutate:  func(cfg *Config) { cfg.Manager.PrimaryProvider = "ghost" },
			wantErr: "not a configured provider",
		},
		{
			name:    "fallback enabled but empty",
			mutate:  func(cfg *Config) { cfg.Manager.FallbackProvider = "" },
			wantErr: "fallback_provider is required",
		},
		{
			name:    "negative retry attempts",
			mutate:  func(cfg *Config) { cfg.Manager.MaxRetryAttempts = -1 },
			wantErr: "max_retry_attempts",
		},
		{
			name: "backoff max below base",
			mutate: func(cfg *Config) {
				cfg.Manager.BackoffBaseDelay = time.Minute
				cfg.Manager.BackoffMaxDelay = time.Second
			},
			wantErr: "backoff_max_delay",
		},
		{
			name:    "zero failure threshold",
			mutate:  func(cfg *Config) { cfg.Manager.FailureThreshold = 0 },
			wantErr: "failure_threshold",
		},
		{
			name:    "unknown cache backend",
			mutate:  func(cfg *Config) { cfg.Cache.Backend = "memcached" },
			wantErr: "unknown backend",
		},
		{
			name: "sqlite without path",
			mutate: func(cfg *Config) {
				cfg.Cache.Backend = "sqlite"
				cfg.Cache.SQLitePath = ""
			},
			wantErr: "sqlite_path",
		},
		{
			name: "redis without addr",
			mutate: func(cfg *Config) {
				cfg.Cache.Backend = "redis"
			},
			wantErr: "redis.addr",
		},
		{
			name:    "unknown log level",
			mutate:  func(cfg *Config) { cfg.Telemetry.Logging.Level = "loud" },
			wantErr: "unknown log level",
		},
		{
			name: "bad sweep schedule",
			mutate: func(cfg *Config) {
				cfg.Telemetry.HealthSweep.Enabled = true
				cfg.Telemetry.HealthSweep.Schedule = "every minute"
			},
			wantErr: "health_sweep schedule",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := baseConfig()
			tt.mutate(cfg)

			err := Validate(cfg)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("expected an error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not mention %q", err, tt.wantErr)
			}
		})
	}
}
