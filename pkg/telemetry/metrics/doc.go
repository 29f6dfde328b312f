// Package metrics exports Prometheus metrics for provider calls, cache
// outcomes, fallback usage, and provider health. The Collector type plugs
// into the manager as its metrics recorder and into the health sweeper for
// the provider_health gauge.
package metrics
