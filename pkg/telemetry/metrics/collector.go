package metrics

import (
	"net/http"

	"aria-hq/chatbridge/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector registers and records all Prometheus metrics for the service.
// It satisfies the manager's MetricsRecorder interface, so a single
// Collector instance is shared between the manager and the health sweeper.
type Collector struct {
	enabled  bool
	registry *prometheus.Registry

	// Per-provider call attempts.
	providerRequests *prometheus.CounterVec

	// Failed attempts labeled by error kind (auth, quota, rate_limit, ...).
	providerErrors *prometheus.CounterVec

	// Latency of successful provider calls.
	providerLatency *prometheus.HistogramVec

	// Health status reported by the sweeper (1=healthy, 0=unhealthy).
	providerHealth *prometheus.GaugeVec

	// Response cache outcomes.
	cacheHits   prometheus.Counter
	cacheMisses prometheus.Counter

	// Requests answered by the fallback provider.
	fallbacks prometheus.Counter
}

// NewCollector creates a collector and registers its metrics with the given
// registry. If registry is nil a fresh one is created. When cfg.Enabled is
// false all record methods are no-ops, but metrics still register so the
// /metrics endpoint stays stable across config changes.
func NewCollector(cfg config.MetricsConfig, registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}
	if cfg.Namespace == "" {
		cfg.Namespace = config.DefaultMetricsNamespace
	}
	if cfg.Subsystem == "" {
		cfg.Subsystem = config.DefaultMetricsSubsystem
	}
	if len(cfg.LatencyBuckets) == 0 {
		cfg.LatencyBuckets = config.DefaultLatencyBuckets
	}

	c := &Collector{
		enabled:  cfg.Enabled,
		registry: registry,

		providerRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "provider_requests_total",
				Help:      "Total number of call attempts against each provider",
			},
			[]string{"provider"},
		),

		providerErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "provider_errors_total",
				Help:      "Total number of failed provider calls by error kind",
			},
			[]string{"provider", "kind"},
		),

		providerLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "provider_latency_seconds",
				Help:      "Latency of successful provider calls in seconds",
				Buckets:   cfg.LatencyBuckets,
			},
			[]string{"provider", "model"},
		),

		providerHealth: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "provider_health",
				Help:      "Provider health status (1=healthy, 0=unhealthy)",
			},
			[]string{"provider"},
		),

		cacheHits: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "cache_hits_total",
				Help:      "Total number of responses served from the cache",
			},
		),

		cacheMisses: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "cache_misses_total",
				Help:      "Total number of requests that missed the cache",
			},
		),

		fallbacks: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "fallback_total",
				Help:      "Total number of requests answered by the fallback provider",
			},
		),
	}

	registry.MustRegister(
		c.providerRequests,
		c.providerErrors,
		c.providerLatency,
		c.providerHealth,
		c.cacheHits,
		c.cacheMisses,
		c.fallbacks,
	)

	return c
}

// RecordProviderRequest counts one call attempt against a provider.
func (c *Collector) RecordProviderRequest(provider string) {
	if !c.enabled {
		return
	}
	c.providerRequests.WithLabelValues(provider).Inc()
}

// RecordProviderError counts one failed attempt, labeled by error kind.
func (c *Collector) RecordProviderError(provider, kind string) {
	if !c.enabled {
		return
	}
	c.providerErrors.WithLabelValues(provider, kind).Inc()
}

// RecordProviderLatency observes the latency of a successful call.
func (c *Collector) RecordProviderLatency(provider, model string, seconds float64) {
	if !c.enabled {
		return
	}
	c.providerLatency.WithLabelValues(provider, model).Observe(seconds)
}

// UpdateProviderHealth sets the health gauge for a provider.
func (c *Collector) UpdateProviderHealth(provider string, healthy bool) {
	if !c.enabled {
		return
	}
	value := 0.0
	if healthy {
		value = 1.0
	}
	c.providerHealth.WithLabelValues(provider).Set(value)
}

// RecordCacheHit counts a response served from the cache.
func (c *Collector) RecordCacheHit() {
	if !c.enabled {
		return
	}
	c.cacheHits.Inc()
}

// RecordCacheMiss counts a request that missed the cache.
func (c *Collector) RecordCacheMiss() {
	if !c.enabled {
		return
	}
	c.cacheMisses.Inc()
}

// RecordFallback counts a request answered by the fallback provider.
func (c *Collector) RecordFallback() {
	if !c.enabled {
		return
	}
	c.fallbacks.Inc()
}

// Registry returns the Prometheus registry backing this collector.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler returns an HTTP handler serving the collector's metrics in
// Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
