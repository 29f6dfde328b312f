package providers

import "context"

// Provider is the interface implemented by every upstream LLM adapter.
// It gives the manager a unified view of OpenRouter, OpenAI, and
// OpenAI-compatible services.
//
// A Provider issues exactly one HTTP call per Generate invocation and
// classifies the outcome into the error taxonomy of this package. Retry,
// backoff, and fallback are the manager's responsibility, never the
// adapter's.
//
// All methods accept a context.Context for cancellation and timeout
// control. Implementations must respect context cancellation and return
// promptly when the context is cancelled.
type Provider interface {
	// Generate sends a single completion request to the provider and
	// returns the normalized response. The request is transformed to the
	// provider-specific wire format; the response is normalized back.
	//
	// On failure it returns one of *ConnectionError, *AuthError,
	// *QuotaError, *RateLimitError, *ServerError, or *ParseError.
	Generate(ctx context.Context, req *Request) (*Response, error)

	// HealthCheck verifies the provider is reachable and able to serve a
	// minimal completion. It is used by monitoring surfaces, not by the
	// manager's request path.
	HealthCheck(ctx context.Context) error

	// Name returns the provider's configured name (e.g. "openrouter").
	Name() string

	// Type returns the adapter type (openrouter, openai, generic).
	Type() string

	// Config returns the provider's configuration.
	Config() ProviderConfig

	// Close releases the provider's resources (idle HTTP connections).
	// After Close the provider must not be used.
	Close() error
}
