package manager

import "sync/atomic"

// atomicStats tracks manager-level counters with lock-free atomics.
type atomicStats struct {
	totalRequests atomic.Uint64
	successful    atomic.Uint64
	failed        atomic.Uint64
	fallbackUsed  atomic.Uint64
	cacheHits     atomic.Uint64
	cacheMisses   atomic.Uint64
}

// ProviderStatistics reports one provider's cumulative call outcomes.
type ProviderStatistics struct {
	// Successes is the cumulative success count
	Successes uint64 `json:"successes"`

	// Failures is the cumulative failure count
	Failures uint64 `json:"failures"`

	// ConsecutiveFailures is the current run of failures without a success
	ConsecutiveFailures int `json:"consecutive_failures"`

	// LastFailureKind labels the most recent failure, empty if none
	LastFailureKind string `json:"last_failure_kind,omitempty"`
}

// Statistics is a point-in-time snapshot of manager and provider counters,
// used by admin and reporting surfaces.
type Statistics struct {
	// TotalRequests counts generate calls that reached provider selection
	// (cache hits and validation failures excluded)
	TotalRequests uint64 `json:"requests_total"`

	// Successful counts requests that returned a provider response
	Successful uint64 `json:"requests_successful"`

	// Failed counts requests that ended in AllProvidersExhausted
	Failed uint64 `json:"requests_failed"`

	// FallbackUsed counts requests answered by the fallback provider
	FallbackUsed uint64 `json:"fallback_used"`

	// CacheHits counts requests served from the response cache
	CacheHits uint64 `json:"cache_hits"`

	// CacheMisses counts requests that missed the response cache
	CacheMisses uint64 `json:"cache_misses"`

	// Providers maps provider names to their cumulative statistics
	Providers map[string]ProviderStatistics `json:"providers"`
}
