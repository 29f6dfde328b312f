package config

import "time"

// Config is the root configuration structure for chatbridge.
// It is loaded once at startup from a YAML file and treated as immutable
// for the lifetime of the process.
type Config struct {
	// Providers maps provider names to their configurations
	Providers map[string]ProviderConfig `yaml:"providers"`

	// Manager contains AI manager orchestration settings
	Manager ManagerConfig `yaml:"manager"`

	// Cache contains response cache settings
	Cache CacheConfig `yaml:"cache"`

	// Telemetry contains logging and metrics settings
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// ProviderConfig contains configuration for a single upstream LLM provider.
type ProviderConfig struct {
	// Type is the adapter type (openrouter, openai, generic)
	Type string `yaml:"type"`

	// BaseURL is the API endpoint base URL
	BaseURL string `yaml:"base_url"`

	// APIKey is the bearer token used for authentication
	APIKey string `yaml:"api_key"`

	// Model is the model identifier sent with each request
	Model string `yaml:"model"`

	// Temperature is the default sampling temperature (0.0 to 2.0)
	Temperature float64 `yaml:"temperature"`

	// MaxTokens is the default completion token budget
	MaxTokens int `yaml:"max_tokens"`

	// Timeout bounds a single request to the provider
	Timeout time.Duration `yaml:"timeout"`

	// MaxIdleConns is the maximum number of idle connections in the pool
	MaxIdleConns int `yaml:"max_idle_conns"`

	// MaxIdleConnsPerHost is the maximum idle connections per host
	MaxIdleConnsPerHost int `yaml:"max_idle_conns_per_host"`

	// IdleConnTimeout is how long an idle connection remains in the pool
	IdleConnTimeout time.Duration `yaml:"idle_conn_timeout"`
}

// ManagerConfig contains AI manager orchestration settings.
type ManagerConfig struct {
	// PrimaryProvider is the provider attempted first
	PrimaryProvider string `yaml:"primary_provider"`

	// FallbackProvider is attempted after the primary is exhausted.
	// Empty disables fallback regardless of EnableFallback.
	FallbackProvider string `yaml:"fallback_provider"`

	// EnableFallback controls whether the fallback provider is ever attempted
	EnableFallback bool `yaml:"enable_fallback"`

	// MaxRetryAttempts is the total number of attempts against one provider
	// before it is considered exhausted. Only transient errors consume
	// additional attempts; fatal errors end the sequence immediately.
	MaxRetryAttempts int `yaml:"max_retry_attempts"`

	// BackoffBaseDelay is the initial delay between retry attempts
	BackoffBaseDelay time.Duration `yaml:"backoff_base_delay"`

	// BackoffMaxDelay caps the exponential backoff delay
	BackoffMaxDelay time.Duration `yaml:"backoff_max_delay"`

	// FailureThreshold is the consecutive-failure count after which a
	// provider with a fatal last error becomes ineligible for selection
	FailureThreshold int `yaml:"failure_threshold"`
}

// CacheConfig contains response cache settings.
type CacheConfig struct {
	// Enabled controls whether responses are cached at all
	Enabled bool `yaml:"enabled"`

	// Backend selects the cache store (memory, sqlite, redis)
	Backend string `yaml:"backend"`

	// TTL is the time-to-live for cached responses
	TTL time.Duration `yaml:"ttl"`

	// MaxEntries bounds the memory backend (0 = unlimited)
	MaxEntries int `yaml:"max_entries"`

	// SQLitePath is the database file path for the sqlite backend
	SQLitePath string `yaml:"sqlite_path"`

	// Redis contains connection settings for the redis backend
	Redis RedisConfig `yaml:"redis"`
}

// RedisConfig contains connection settings for the redis cache backend.
type RedisConfig struct {
	// Addr is the host:port of the redis server
	Addr string `yaml:"addr"`

	// Password is the redis AUTH password (empty = no auth)
	Password string `yaml:"password"`

	// DB is the redis database number
	DB int `yaml:"db"`
}

// TelemetryConfig contains observability settings.
type TelemetryConfig struct {
	// Logging contains structured logging settings
	Logging LoggingConfig `yaml:"logging"`

	// Metrics contains Prometheus metrics settings
	Metrics MetricsConfig `yaml:"metrics"`

	// HealthSweep contains background provider health sweep settings
	HealthSweep HealthSweepConfig `yaml:"health_sweep"`
}

// LoggingConfig contains structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level (debug, info, warn, error)
	Level string `yaml:"level"`

	// Format is the output format (json, text)
	Format string `yaml:"format"`

	// AddSource includes file:line in log records
	AddSource bool `yaml:"add_source"`
}

// MetricsConfig contains Prometheus metrics settings.
type MetricsConfig struct {
	// Enabled controls whether metrics are collected
	Enabled bool `yaml:"enabled"`

	// Namespace is the metric name prefix
	Namespace string `yaml:"namespace"`

	// Subsystem is the metric name subsystem component
	Subsystem string `yaml:"subsystem"`

	// LatencyBuckets are the histogram buckets for provider latency, in seconds
	LatencyBuckets []float64 `yaml:"latency_buckets"`
}

// HealthSweepConfig contains background health sweep settings.
type HealthSweepConfig struct {
	// Enabled controls whether the sweeper runs at all
	Enabled bool `yaml:"enabled"`

	// Schedule is a standard cron expression (e.g. "*/5 * * * *")
	Schedule string `yaml:"schedule"`

	// Timeout bounds a single sweep across all providers
	Timeout time.Duration `yaml:"timeout"`
}
