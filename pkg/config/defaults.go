package config

import "time"

// Default values applied to fields left unset in the configuration file.
const (
	DefaultProviderTimeout     = 30 * time.Second
	DefaultMaxIdleConns        = 100
	DefaultMaxIdleConnsPerHost = 10
	DefaultIdleConnTimeout     = 90 * time.Second
	DefaultTemperature         = 0.7
	DefaultMaxTokens           = 1000

	DefaultMaxRetryAttempts = 3
	DefaultBackoffBaseDelay = 1 * time.Second
	DefaultBackoffMaxDelay  = 30 * time.Second
	DefaultFailureThreshold = 3

	DefaultCacheBackend = "memory"
	DefaultCacheTTL     = 60 * time.Second
	DefaultCacheEntries = 1024

	DefaultLogLevel  = "info"
	DefaultLogFormat = "text"

	DefaultMetricsNamespace = "chatbridge"
	DefaultMetricsSubsystem = "core"

	DefaultHealthSweepSchedule = "*/5 * * * *"
	DefaultHealthSweepTimeout  = 30 * time.Second
)

// DefaultLatencyBuckets are histogram buckets tuned for LLM completion
// latencies, which commonly fall between a few hundred milliseconds and
// tens of seconds.
var DefaultLatencyBuckets = []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 20, 30, 60}

// ApplyDefaults fills in default values for any unset configuration fields.
// It modifies the configuration in place.
func ApplyDefaults(cfg *Config) {
	for name, p := range cfg.Providers {
		if p.Timeout == 0 {
			p.Timeout = DefaultProviderTimeout
		}
		if p.MaxIdleConns == 0 {
			p.MaxIdleConns = DefaultMaxIdleConns
		}
		if p.MaxIdleConnsPerHost == 0 {
			p.MaxIdleConnsPerHost = DefaultMaxIdleConnsPerHost
		}
		if p.IdleConnTimeout == 0 {
			p.IdleConnTimeout = DefaultIdleConnTimeout
		}
		if p.Temperature == 0 {
			p.Temperature = DefaultTemperature
		}
		if p.MaxTokens == 0 {
			p.MaxTokens = DefaultMaxTokens
		}
		cfg.Providers[name] = p
	}

	if cfg.Manager.MaxRetryAttempts == 0 {
		cfg.Manager.MaxRetryAttempts = DefaultMaxRetryAttempts
	}
	if cfg.Manager.BackoffBaseDelay == 0 {
		cfg.Manager.BackoffBaseDelay = DefaultBackoffBaseDelay
	}
	if cfg.Manager.BackoffMaxDelay == 0 {
		cfg.Manager.BackoffMaxDelay = DefaultBackoffMaxDelay
	}
	if cfg.Manager.FailureThreshold == 0 {
		cfg.Manager.FailureThreshold = DefaultFailureThreshold
	}

	if cfg.Cache.Backend == "" {
		cfg.Cache.Backend = DefaultCacheBackend
	}
	if cfg.Cache.TTL == 0 {
		cfg.Cache.TTL = DefaultCacheTTL
	}
	if cfg.Cache.MaxEntries == 0 {
		cfg.Cache.MaxEntries = DefaultCacheEntries
	}

	if cfg.Telemetry.Logging.Level == "" {
		cfg.Telemetry.Logging.Level = DefaultLogLevel
	}
	if cfg.Telemetry.Logging.Format == "" {
		cfg.Telemetry.Logging.Format = DefaultLogFormat
	}

	if cfg.Telemetry.Metrics.Namespace == "" {
		cfg.Telemetry.Metrics.Namespace = DefaultMetricsNamespace
	}
	if cfg.Telemetry.Metrics.Subsystem == "" {
		cfg.Telemetry.Metrics.Subsystem = DefaultMetricsSubsystem
	}
	if len(cfg.Telemetry.Metrics.LatencyBuckets) == 0 {
		cfg.Telemetry.Metrics.LatencyBuckets = DefaultLatencyBuckets
	}

	if cfg.Telemetry.HealthSweep.Schedule == "" {
		cfg.Telemetry.HealthSweep.Schedule = DefaultHealthSweepSchedule
	}
	if cfg.Telemetry.HealthSweep.Timeout == 0 {
		cfg.Telemetry.HealthSweep.Timeout = DefaultHealthSweepTimeout
	}
}
