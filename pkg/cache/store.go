package cache

import (
	"context"
	"time"

	"aria-hq/chatbridge/pkg/providers"
)

// Store is a response cache keyed by request fingerprint.
//
// A Store is pure memoization: concurrent requests for the same fingerprint
// may each compute independently, and the store never deduplicates in-flight
// work. Only successful responses are ever stored; failures are not cached.
//
// Get must treat an expired entry exactly like a missing one. Backends purge
// expired entries opportunistically (on access, on overwrite, or via a
// background janitor).
type Store interface {
	// Get returns the cached response for the fingerprint, or found=false
	// when no live entry exists.
	Get(ctx context.Context, fingerprint string) (resp *providers.Response, found bool, err error)

	// Set stores a response under the fingerprint with the given TTL,
	// replacing any existing entry.
	Set(ctx context.Context, fingerprint string, resp *providers.Response, ttl time.Duration) error

	// Delete removes an entry. Deleting a missing entry is not an error.
	Delete(ctx context.Context, fingerprint string) error

	// Clear removes all entries.
	Clear(ctx context.Context) error

	// Len returns the number of stored entries, including any expired
	// entries not yet purged.
	Len(ctx context.Context) (int, error)

	// Close releases the backend's resources.
	Close() error
}

// copyResponse returns a copy of the response so cached entries are never
// aliased by callers.
func copyResponse(resp *providers.Response) *providers.Response {
	c := *resp
	return &c
}
