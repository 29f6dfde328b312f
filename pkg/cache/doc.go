// Package cache provides the response cache used by the AI manager.
//
// The cache maps request fingerprints (see the manager package) to
// previously generated responses, each with its own time-to-live. Three
// backends implement the Store interface:
//
//   - Memory: mutex-protected map with LRU eviction and a janitor
//     goroutine; the default for single-process deployments.
//   - SQLite: durable cache that survives restarts, for single-instance
//     deployments.
//   - Redis: shared cache for multi-worker deployments, with server-side
//     expiry.
//
// All backends treat expired entries as absent and never store failures.
package cache
