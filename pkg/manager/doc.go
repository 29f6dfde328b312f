// Package manager implements the AI manager: the orchestration layer that
// turns a conversation into a completion by selecting among configured
// providers.
//
// For each call the manager computes a request fingerprint and consults the
// response cache, then walks the provider chain (primary, then the
// configured fallback) applying a bounded retry loop with exponential
// backoff per provider. Authentication and quota failures are fatal: they
// skip retry and move straight to the next provider. Once a provider's
// consecutive failures exceed the configured threshold with a fatal last
// error, the health tracker marks it ineligible and the manager stops
// calling it until an explicit reset or process restart.
//
// The manager owns the health tracker and the cache store exclusively;
// provider adapters are stateless with respect to both.
package manager
