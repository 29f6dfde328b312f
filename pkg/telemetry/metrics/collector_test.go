package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"aria-hq/chatbridge/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func enabledConfig() config.MetricsConfig {
	return config.MetricsConfig{
		Enabled:   true,
		Namespace: "chatbridge",
		Subsystem: "core",
	}
}

func TestCollectorRecordsProviderMetrics(t *testing.T) {
	c := NewCollector(enabledConfig(), nil)

	c.RecordProviderRequest("openrouter")
	c.RecordProviderRequest("openrouter")
	c.RecordProviderError("openrouter", "rate_limit")
	c.RecordProviderLatency("openrouter", "gpt-4o-mini", 1.5)

	if got := testutil.ToFloat64(c.providerRequests.WithLabelValues("openrouter")); got != 2 {
		t.Errorf("provider requests = %v, want 2", got)
	}
	if got := testutil.ToFloat64(c.providerErrors.WithLabelValues("openrouter", "rate_limit")); got != 1 {
		t.Errorf("provider errors = %v, want 1", got)
	}
}

func TestCollectorRecordsCacheAndFallback(t *testing.T) {
	c := NewCollector(enabledConfig(), nil)

	c.RecordCacheHit()
	c.RecordCacheHit()
	c.RecordCacheMiss()
	c.RecordFallback()

	if got := testutil.ToFloat64(c.cacheHits); got != 2 {
		t.Errorf("cache hits = %v, want 2", got)
	}
	if got := testutil.ToFloat64(c.cacheMisses); got != 1 {
		t.Errorf("cache misses = %v, want 1", got)
	}
	if got := testutil.ToFloat64(c.fallbacks); got != 1 {
		t.Errorf("fallbacks = %v, want 1", got)
	}
}

func TestCollectorHealthGauge(t *testing.T) {
	c := NewCollector(enabledConfig(), nil)

	c.UpdateProviderHealth("openrouter", true)
	c.UpdateProviderHealth("local", false)

	if got := testutil.ToFloat64(c.providerHealth.WithLabelValues("openrouter")); got != 1 {
		t.Errorf("openrouter health = %v, want 1", got)
	}
	if got := testutil.ToFloat64(c.providerHealth.WithLabelValues("local")); got != 0 {
		t.Errorf("local health = %v, want 0", got)
	}
}

func TestCollectorDisabled(t *testing.T) {
	cfg := enabledConfig()
	cfg.Enabled = false
	c := NewCollector(cfg, nil)

	c.RecordProviderRequest("openrouter")
	c.RecordCacheHit()
	c.RecordFallback()

	if got := testutil.ToFloat64(c.cacheHits); got != 0 {
		t.Errorf("disabled collector recorded %v cache hits", got)
	}
}

func TestCollectorHandler(t *testing.T) {
	c := NewCollector(enabledConfig(), prometheus.NewRegistry())
	c.RecordCacheHit()

	srv := httptest.NewServer(c.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	if err != nil {
		t.Fatalf("GET /metrics: %v", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	out := string(body)

	if !strings.Contains(out, "chatbridge_core_cache_hits_total 1") {
		t.Errorf("exposition missing cache hit counter:\n%s", out)
	}
}
