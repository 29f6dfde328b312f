package cache

import (
	"context"
	"sync"
	"time"

	"aria-hq/chatbridge/pkg/providers"
)

// memoryEntry is a single cached response with its expiry bookkeeping.
type memoryEntry struct {
	response       *providers.Response
	createdAt      time.Time
	expiresAt      time.Time
	lastAccessedAt time.Time
}

// Memory is a thread-safe in-memory response cache with per-entry TTL and
// LRU eviction. A background janitor removes expired entries so the map
// does not grow unbounded between accesses.
type Memory struct {
	// entries maps fingerprints to cached responses
	entries map[string]*memoryEntry

	// maxEntries is the maximum number of entries (0 = unlimited)
	maxEntries int

	// mu protects concurrent access to the cache
	mu sync.RWMutex

	// stopCh signals the janitor goroutine to stop
	stopCh chan struct{}

	// closeOnce guards stopCh from a double close
	closeOnce sync.Once

	// now is the clock, replaceable in tests
	now func() time.Time
}

// defaultJanitorInterval is how often the janitor purges expired entries.
const defaultJanitorInterval = time.Minute

// NewMemory creates an in-memory store. If maxEntries is 0 the store is
// unbounded. janitorInterval controls how often expired entries are purged
// in the background; 0 uses a one-minute default.
func NewMemory(maxEntries int, janitorInterval time.Duration) *Memory {
	if janitorInterval <= 0 {
		janitorInterval = defaultJanitorInterval
	}

	m := &Memory{
		entries:    make(map[string]*memoryEntry),
		maxEntries: maxEntries,
		stopCh:     make(chan struct{}),
		now:        time.Now,
	}

	go m.janitor(janitorInterval)

	return m
}

// Get returns the cached response for the fingerprint. An expired entry is
// treated as absent and purged on the spot.
func (m *Memory) Get(_ context.Context, fingerprint string) (*providers.Response, bool, error) {
	m.mu.RLock()
	entry, ok := m.entries[fingerprint]
	if !ok {
		m.mu.RUnlock()
		return nil, false, nil
	}
	expired := m.now().After(entry.expiresAt)
	m.mu.RUnlock()

	if expired {
		// Lazy eviction: drop the dead entry so the next overwrite does not
		// count it against maxEntries.
		m.mu.Lock()
		if e, ok := m.entries[fingerprint]; ok && m.now().After(e.expiresAt) {
			delete(m.entries, fingerprint)
		}
		m.mu.Unlock()
		return nil, false, nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	entry, ok = m.entries[fingerprint]
	if !ok || m.now().After(entry.expiresAt) {
		return nil, false, nil
	}
	entry.lastAccessedAt = m.now()
	return copyResponse(entry.response), true, nil
}

// Set stores a response under the fingerprint. When the store is full, the
// least recently accessed entry is evicted first.
func (m *Memory) Set(_ context.Context, fingerprint string, resp *providers.Response, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.maxEntries > 0 && len(m.entries) >= m.maxEntries {
		if _, exists := m.entries[fingerprint]; !exists {
			m.evictLRU()
		}
	}

	now := m.now()
	m.entries[fingerprint] = &memoryEntry{
		response:       copyResponse(resp),
		createdAt:      now,
		expiresAt:      now.Add(ttl),
		lastAccessedAt: now,
	}
	return nil
}

// Delete removes an entry.
func (m *Memory) Delete(_ context.Context, fingerprint string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, fingerprint)
	return nil
}

// Clear removes all entries.
func (m *Memory) Clear(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = make(map[string]*memoryEntry)
	return nil
}

// Len returns the current number of entries.
func (m *Memory) Len(_ context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries), nil
}

// Close stops the janitor goroutine.
func (m *Memory) Close() error {
	m.closeOnce.Do(func() { close(m.stopCh) })
	return nil
}

// evictLRU removes the least recently accessed entry.
// Must be called with the write lock held.
func (m *Memory) evictLRU() {
	var oldestKey string
	var oldestTime time.Time

	for key, entry := range m.entries {
		if oldestKey == "" || entry.lastAccessedAt.Before(oldestTime) {
			oldestKey = key
			oldestTime = entry.lastAccessedAt
		}
	}

	if oldestKey != "" {
		delete(m.entries, oldestKey)
	}
}

// janitor periodically removes expired entries until Close is called.
func (m *Memory) janitor(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.removeExpired()
		case <-m.stopCh:
			return
		}
	}
}

// removeExpired purges all expired entries.
func (m *Memory) removeExpired() {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	for key, entry := range m.entries {
		if now.After(entry.expiresAt) {
			delete(m.entries, key)
		}
	}
}
