package manager

// MetricsRecorder receives manager events for metrics export. The telemetry
// package provides a Prometheus-backed implementation; a nil recorder
// disables instrumentation.
type MetricsRecorder interface {
	// RecordProviderRequest counts one call attempt against a provider.
	RecordProviderRequest(provider string)

	// RecordProviderError counts one failed attempt, labeled by error kind.
	RecordProviderError(provider, kind string)

	// RecordProviderLatency observes the latency of a successful call.
	RecordProviderLatency(provider, model string, seconds float64)

	// RecordCacheHit counts a response served from the cache.
	RecordCacheHit()

	// RecordCacheMiss counts a request that missed the cache.
	RecordCacheMiss()

	// RecordFallback counts a request answered by the fallback provider.
	RecordFallback()
}

// nopRecorder is the recorder used when metrics are disabled.
type nopRecorder struct{}

func (nopRecorder) RecordProviderRequest(string)                  {}
func (nopRecorder) RecordProviderError(string, string)            {}
func (nopRecorder) RecordProviderLatency(string, string, float64) {}
func (nopRecorder) RecordCacheHit()                               {}
func (nopRecorder) RecordCacheMiss()                              {}
func (nopRecorder) RecordFallback()                               {}
