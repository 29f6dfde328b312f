package manager

import (
	"sync"
	"time"

	"aria-hq/chatbridge/pkg/providers"
)

// ProviderHealthState is a point-in-time snapshot of one provider's health
// counters.
type ProviderHealthState struct {
	// Provider is the provider identifier
	Provider string

	// Successes is the cumulative success count (reporting only)
	Successes uint64

	// Failures is the cumulative failure count (reporting only)
	Failures uint64

	// ConsecutiveFailures is the current run of failures without a success
	ConsecutiveFailures int

	// LastFailureKind is the classification label of the most recent
	// failure (auth, quota, rate_limit, server, connection, parse)
	LastFailureKind string

	// LastFailureClass is the retry class of the most recent failure
	LastFailureClass providers.Class

	// LastFailureAt is when the most recent failure was recorded
	LastFailureAt time.Time
}

// HealthTracker tracks per-provider call outcomes and decides provider
// eligibility for selection. It is owned exclusively by the Manager and is
// safe for concurrent use.
//
// A provider becomes ineligible once its consecutive-failure count exceeds
// the configured threshold AND its last failure was fatal (authentication
// or quota). There is no time-based recovery: only a success, an explicit
// Reset, or a process restart restores eligibility.
type HealthTracker struct {
	mu        sync.RWMutex
	states    map[string]*ProviderHealthState
	threshold int
}

// NewHealthTracker creates a tracker with a state slot for each named
// provider.
func NewHealthTracker(providerNames []string, failureThreshold int) *HealthTracker {
	states := make(map[string]*ProviderHealthState, len(providerNames))
	for _, name := range providerNames {
		states[name] = &ProviderHealthState{Provider: name}
	}
	return &HealthTracker{
		states:    states,
		threshold: failureThreshold,
	}
}

// RecordSuccess records a successful call and resets the consecutive-failure
// counter.
func (t *HealthTracker) RecordSuccess(provider string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	state := t.state(provider)
	state.Successes++
	state.ConsecutiveFailures = 0
}

// RecordFailure records a failed call attempt with its classification.
func (t *HealthTracker) RecordFailure(provider string, err error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	state := t.state(provider)
	state.Failures++
	state.ConsecutiveFailures++
	state.LastFailureKind = providers.Kind(err)
	state.LastFailureClass = providers.Classify(err)
	state.LastFailureAt = time.Now()
}

// Eligible reports whether the provider may be selected for a call.
func (t *HealthTracker) Eligible(provider string) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()

	state, ok := t.states[provider]
	if !ok {
		return false
	}
	return state.ConsecutiveFailures <= t.threshold ||
		state.LastFailureClass != providers.ClassFatal
}

// Reset clears the consecutive-failure state for a provider, restoring its
// eligibility. Cumulative counters are preserved.
func (t *HealthTracker) Reset(provider string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if state, ok := t.states[provider]; ok {
		state.ConsecutiveFailures = 0
		state.LastFailureKind = ""
		state.LastFailureClass = providers.ClassTransient
	}
}

// Snapshot returns a copy of all provider health states.
func (t *HealthTracker) Snapshot() map[string]ProviderHealthState {
	t.mu.RLock()
	defer t.mu.RUnlock()

	snapshot := make(map[string]ProviderHealthState, len(t.states))
	for name, state := range t.states {
		snapshot[name] = *state
	}
	return snapshot
}

// state returns the state slot for a provider, creating it on first use.
// Must be called with the write lock held.
func (t *HealthTracker) state(provider string) *ProviderHealthState {
	s, ok := t.states[provider]
	if !ok {
		s = &ProviderHealthState{Provider: provider}
		t.states[provider] = s
	}
	return s
}
