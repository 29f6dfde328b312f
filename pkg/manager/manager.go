package manager

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"

	"aria-hq/chatbridge/pkg/cache"
	"aria-hq/chatbridge/pkg/config"
	"aria-hq/chatbridge/pkg/providers"
)

// Options carries per-call overrides for GenerateResponse. The zero value
// uses the configured primary provider with its default parameters.
type Options struct {
	// PreferProvider selects a provider by name, overriding the configured
	// primary. An unknown or ineligible preference falls back to the
	// normal selection order.
	PreferProvider string

	// Temperature overrides the provider's default sampling temperature.
	Temperature *float64

	// MaxTokens overrides the provider's default completion budget.
	// Callers use this to apply premium/quota token budgets.
	MaxTokens int

	// DisableCache bypasses the response cache for this call, both lookup
	// and store.
	DisableCache bool
}

// Manager orchestrates provider calls: it consults the response cache,
// applies per-provider retry with exponential backoff, falls back to the
// secondary provider, and maintains health and usage statistics.
//
// A Manager is constructed once at startup and shared by all request
// handling code. All methods are safe for concurrent use; each
// GenerateResponse call runs independently and waits (for backoff or I/O)
// without blocking other in-flight calls.
type Manager struct {
	cfg      config.ManagerConfig
	cacheCfg config.CacheConfig
	registry *Registry
	store    cache.Store
	tracker  *HealthTracker
	stats    atomicStats
	metrics  MetricsRecorder
	logger   *slog.Logger
}

// New creates a Manager over the given registry and cache store. The store
// may be nil, which disables caching. The metrics recorder may be nil,
// which disables instrumentation.
func New(cfg *config.Config, registry *Registry, store cache.Store, metrics MetricsRecorder) (*Manager, error) {
	if registry == nil {
		return nil, fmt.Errorf("provider registry cannot be nil")
	}
	if _, ok := registry.Get(cfg.Manager.PrimaryProvider); !ok {
		return nil, fmt.Errorf("primary provider %q is not registered", cfg.Manager.PrimaryProvider)
	}
	if cfg.Manager.EnableFallback {
		if _, ok := registry.Get(cfg.Manager.FallbackProvider); !ok {
			return nil, fmt.Errorf("fallback provider %q is not registered", cfg.Manager.FallbackProvider)
		}
	}
	if metrics == nil {
		metrics = nopRecorder{}
	}

	return &Manager{
		cfg:      cfg.Manager,
		cacheCfg: cfg.Cache,
		registry: registry,
		store:    store,
		tracker:  NewHealthTracker(registry.Names(), cfg.Manager.FailureThreshold),
		metrics:  metrics,
		logger:   slog.Default().With("component", "manager"),
	}, nil
}

// Tracker exposes the health tracker for monitoring surfaces.
func (m *Manager) Tracker() *HealthTracker {
	return m.tracker
}

// GenerateResponse generates a completion for the given conversation.
//
// The call sequence is: validate, cache lookup, primary provider with
// bounded retry, fallback provider with bounded retry, terminal failure.
// Fatal provider errors (authentication, quota) skip retry and move
// straight to fallback evaluation. A cache hit returns immediately with no
// provider call and no health tracker update.
//
// It fails with *ValidationError for caller errors and
// *AllProvidersExhaustedError once every retry and fallback option is
// spent. Context cancellation is returned as-is and records nothing.
func (m *Manager) GenerateResponse(ctx context.Context, messages []providers.Message, opts *Options) (*providers.Response, error) {
	if opts == nil {
		opts = &Options{}
	}
	if err := validateMessages(messages); err != nil {
		return nil, err
	}

	primaryName := m.resolvePrimary(opts.PreferProvider)
	primary, _ := m.registry.Get(primaryName)

	temperature := primary.Config().Temperature
	if opts.Temperature != nil {
		temperature = *opts.Temperature
	}
	maxTokens := primary.Config().MaxTokens
	if opts.MaxTokens > 0 {
		maxTokens = opts.MaxTokens
	}

	useCache := m.store != nil && !opts.DisableCache
	fingerprint := Fingerprint(primaryName, primary.Config().Model, temperature, maxTokens, messages)

	if useCache {
		resp, found, err := m.store.Get(ctx, fingerprint)
		switch {
		case err != nil:
			// A broken cache degrades to a provider call, never to a
			// failed request.
			m.logger.Warn("cache lookup failed", "error", err)
		case found:
			m.stats.cacheHits.Add(1)
			m.metrics.RecordCacheHit()
			m.logger.Debug("cache hit", "provider", resp.Provider, "fingerprint", fingerprint[:12])
			resp.Cached = true
			return resp, nil
		}
		m.stats.cacheMisses.Add(1)
		m.metrics.RecordCacheMiss()
	}

	m.stats.totalRequests.Add(1)
	requestID := uuid.NewString()

	chain := []string{primaryName}
	if m.cfg.EnableFallback && m.cfg.FallbackProvider != "" && m.cfg.FallbackProvider != primaryName {
		chain = append(chain, m.cfg.FallbackProvider)
	}

	var lastErr error
	var attempted, skipped []string

	for i, name := range chain {
		// Eligibility short-circuits before any client call, so an
		// ineligible provider's counters stay frozen.
		if !m.tracker.Eligible(name) {
			skipped = append(skipped, name)
			m.logger.Debug("skipping ineligible provider", "provider", name, "request_id", requestID)
			continue
		}

		p, ok := m.registry.Get(name)
		if !ok {
			skipped = append(skipped, name)
			continue
		}
		attempted = append(attempted, name)

		req := &providers.Request{
			Model:       p.Config().Model,
			Messages:    messages,
			Temperature: temperature,
			MaxTokens:   maxTokens,
			RequestID:   requestID,
		}
		if opts.Temperature == nil {
			req.Temperature = p.Config().Temperature
		}
		if opts.MaxTokens <= 0 {
			req.MaxTokens = p.Config().MaxTokens
		}

		resp, err := m.callWithRetry(ctx, p, req)
		if err == nil {
			m.tracker.RecordSuccess(name)
			m.stats.successful.Add(1)
			if i > 0 {
				m.stats.fallbackUsed.Add(1)
				m.metrics.RecordFallback()
				m.logger.Info("request served by fallback provider",
					"provider", name,
					"primary", primaryName,
					"request_id", requestID,
				)
			}
			if useCache {
				if err := m.store.Set(ctx, fingerprint, resp, m.cacheCfg.TTL); err != nil {
					m.logger.Warn("cache store failed", "error", err)
				}
			}
			return resp, nil
		}

		// A cancelled request is the caller's doing, not a provider
		// failure; surface it without fallback.
		if ctx.Err() != nil && (errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)) {
			return nil, err
		}

		lastErr = err
		m.logger.Warn("provider exhausted",
			"provider", name,
			"error", err,
			"request_id", requestID,
		)
	}

	m.stats.failed.Add(1)
	return nil, &AllProvidersExhaustedError{
		Attempted: attempted,
		Skipped:   skipped,
		LastErr:   lastErr,
	}
}

// GenerateSimple generates a completion for a single user prompt with
// default options.
func (m *Manager) GenerateSimple(ctx context.Context, prompt string) (*providers.Response, error) {
	messages := []providers.Message{
		{Role: providers.RoleUser, Content: prompt, Timestamp: time.Now()},
	}
	return m.GenerateResponse(ctx, messages, nil)
}

// callWithRetry runs the bounded retry loop against one provider. The
// total number of attempts is MaxRetryAttempts; only transient errors
// consume further attempts, a fatal error ends the loop at once, and a
// malformed response is retried at most once. Backoff waits are
// context-aware and never block other in-flight requests.
func (m *Manager) callWithRetry(ctx context.Context, p providers.Provider, req *providers.Request) (*providers.Response, error) {
	maxAttempts := m.cfg.MaxRetryAttempts
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = m.cfg.BackoffBaseDelay
	bo.Multiplier = 2
	bo.MaxInterval = m.cfg.BackoffMaxDelay
	bo.MaxElapsedTime = 0
	bo.RandomizationFactor = 0
	bo.Reset()

	var lastErr error
	parseRetried := false

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if attempt > 1 {
			delay := bo.NextBackOff()
			// Honor a provider-requested wait when it is longer than ours.
			var rateErr *providers.RateLimitError
			if errors.As(lastErr, &rateErr) && rateErr.RetryAfter > delay {
				delay = rateErr.RetryAfter
			}

			m.logger.Debug("retrying provider",
				"provider", p.Name(),
				"attempt", attempt,
				"max_attempts", maxAttempts,
				"backoff", delay,
				"request_id", req.RequestID,
			)

			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(delay):
			}
		}

		m.metrics.RecordProviderRequest(p.Name())

		resp, err := p.Generate(ctx, req)
		if err == nil {
			m.metrics.RecordProviderLatency(p.Name(), resp.Model, resp.Latency.Seconds())
			return resp, nil
		}

		// Cancelled attempts record neither success nor failure.
		if ctx.Err() != nil && (errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)) {
			return nil, err
		}

		m.tracker.RecordFailure(p.Name(), err)
		m.metrics.RecordProviderError(p.Name(), providers.Kind(err))
		lastErr = err

		if providers.Classify(err) == providers.ClassFatal {
			m.logger.Warn("fatal provider error, skipping retries",
				"provider", p.Name(),
				"error", err,
				"request_id", req.RequestID,
			)
			break
		}

		var parseErr *providers.ParseError
		if errors.As(err, &parseErr) {
			if parseRetried {
				break
			}
			parseRetried = true
		}
	}

	return nil, lastErr
}

// resolvePrimary picks the provider to try first: the caller's preference
// when registered, else the configured primary, else (when fallback is
// enabled and the primary is ineligible) the fallback.
func (m *Manager) resolvePrimary(prefer string) string {
	if prefer != "" {
		if _, ok := m.registry.Get(prefer); ok && m.tracker.Eligible(prefer) {
			return prefer
		}
		m.logger.Debug("ignoring provider preference", "prefer", prefer)
	}

	primary := m.cfg.PrimaryProvider
	if !m.tracker.Eligible(primary) && m.cfg.EnableFallback &&
		m.cfg.FallbackProvider != "" && m.tracker.Eligible(m.cfg.FallbackProvider) {
		return m.cfg.FallbackProvider
	}
	return primary
}

// HealthCheckAll probes every registered provider concurrently and reports
// reachability per provider. It is intended for diagnostics commands and
// the background sweeper, not the request path.
func (m *Manager) HealthCheckAll(ctx context.Context) map[string]bool {
	results := make(map[string]bool)
	var mu sync.Mutex
	var wg sync.WaitGroup

	for _, name := range m.registry.Names() {
		p, ok := m.registry.Get(name)
		if !ok {
			continue
		}

		wg.Add(1)
		go func(name string, p providers.Provider) {
			defer wg.Done()

			err := p.HealthCheck(ctx)
			mu.Lock()
			results[name] = err == nil
			mu.Unlock()

			if err != nil {
				m.logger.Warn("provider health check failed", "provider", name, "error", err)
			}
		}(name, p)
	}

	wg.Wait()
	return results
}

// Statistics returns a snapshot of manager and per-provider counters.
func (m *Manager) Statistics() Statistics {
	health := m.tracker.Snapshot()
	perProvider := make(map[string]ProviderStatistics, len(health))
	for name, state := range health {
		perProvider[name] = ProviderStatistics{
			Successes:           state.Successes,
			Failures:            state.Failures,
			ConsecutiveFailures: state.ConsecutiveFailures,
			LastFailureKind:     state.LastFailureKind,
		}
	}

	return Statistics{
		TotalRequests: m.stats.totalRequests.Load(),
		Successful:    m.stats.successful.Load(),
		Failed:        m.stats.failed.Load(),
		FallbackUsed:  m.stats.fallbackUsed.Load(),
		CacheHits:     m.stats.cacheHits.Load(),
		CacheMisses:   m.stats.cacheMisses.Load(),
		Providers:     perProvider,
	}
}

// ClearCache drops all cached responses.
func (m *Manager) ClearCache(ctx context.Context) error {
	if m.store == nil {
		return nil
	}
	if err := m.store.Clear(ctx); err != nil {
		return fmt.Errorf("failed to clear response cache: %w", err)
	}
	m.logger.Info("response cache cleared")
	return nil
}

// Close shuts down the providers and the cache store.
func (m *Manager) Close() error {
	var errs []error
	if err := m.registry.Close(); err != nil {
		errs = append(errs, err)
	}
	if m.store != nil {
		if err := m.store.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	m.logger.Info("manager closed")
	return errors.Join(errs...)
}

// validateMessages rejects message sequences the providers cannot serve.
func validateMessages(messages []providers.Message) error {
	if len(messages) == 0 {
		return &ValidationError{
			Field:   "messages",
			Message: "message sequence cannot be empty",
		}
	}
	for i, msg := range messages {
		switch msg.Role {
		case providers.RoleSystem, providers.RoleUser, providers.RoleAssistant:
		default:
			return &ValidationError{
				Field:   "messages",
				Message: fmt.Sprintf("message %d has unknown role %q", i, msg.Role),
			}
		}
		if msg.Content == "" {
			return &ValidationError{
				Field:   "messages",
				Message: fmt.Sprintf("message %d has empty content", i),
			}
		}
	}
	return nil
}
