// Package providers defines the provider abstraction for upstream LLM
// services and the shared HTTP plumbing used by the adapters.
//
// Each adapter (openrouter, openai, generic) wraps one upstream REST API:
// it builds the provider-specific request payload, issues a single HTTP
// call, and classifies the outcome into this package's error taxonomy:
//
//   - *AuthError (401/403) and *QuotaError (402) are fatal: they are never
//     retried against the same provider.
//   - *RateLimitError (429), *ServerError (5xx), *ConnectionError
//     (network/timeout/unexpected status), and *ParseError (malformed
//     body) are transient and eligible for retry with backoff.
//
// Classify reports the retry class of any provider error; Kind reports a
// stable short label for metrics.
//
// Adapters never retry internally. The manager package owns retry, backoff,
// and fallback across providers.
package providers
