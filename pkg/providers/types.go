package providers

import "time"

// Message role constants.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is a single message in a conversation, ordered oldest first.
// Messages are immutable once created.
type Message struct {
	// Role identifies the message sender (system, user, assistant)
	Role string `json:"role"`

	// Content is the message text
	Content string `json:"content"`

	// Timestamp is when the message was created (optional)
	Timestamp time.Time `json:"timestamp,omitempty"`
}

// Request is a provider-agnostic completion request. Adapters transform it
// to their provider-specific wire format.
type Request struct {
	// Model is the model identifier to request
	Model string

	// Messages is the ordered conversation history
	Messages []Message

	// Temperature controls sampling randomness (0.0 to 2.0)
	Temperature float64

	// MaxTokens is the completion token budget
	MaxTokens int

	// RequestID correlates log lines for one manager call
	RequestID string
}

// Response is a provider-agnostic completion response. It is constructed
// only after a provider call fully succeeds and is never partially
// populated.
type Response struct {
	// Content is the generated text
	Content string `json:"content"`

	// Model is the model that generated the response
	Model string `json:"model"`

	// TokensUsed is the total token consumption reported by the provider
	TokensUsed int `json:"tokens_used"`

	// Latency is the wall-clock duration of the provider call
	Latency time.Duration `json:"latency"`

	// Provider is the name of the provider that produced the response
	Provider string `json:"provider"`

	// Cached reports whether the response was served from the cache
	Cached bool `json:"cached"`

	// FinishReason indicates why generation stopped (stop, length, ...)
	FinishReason string `json:"finish_reason,omitempty"`
}

// ProviderConfig contains the static configuration for one provider
// instance. It is loaded once at startup and never mutated afterwards.
type ProviderConfig struct {
	// Name is the provider identifier (e.g. "openrouter")
	Name string

	// Type is the adapter type (openrouter, openai, generic)
	Type string

	// BaseURL is the API endpoint base URL
	BaseURL string

	// APIKey is the bearer token for authentication
	APIKey string

	// Model is the default model identifier
	Model string

	// Temperature is the default sampling temperature
	Temperature float64

	// MaxTokens is the default completion token budget
	MaxTokens int

	// Timeout bounds a single request
	Timeout time.Duration

	// MaxIdleConns is the maximum number of idle connections in the pool
	MaxIdleConns int

	// MaxIdleConnsPerHost is the maximum idle connections per host
	MaxIdleConnsPerHost int

	// IdleConnTimeout is how long an idle connection remains pooled
	IdleConnTimeout time.Duration
}
