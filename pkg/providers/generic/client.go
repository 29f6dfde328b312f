package generic

import (
	"log/slog"

	"aria-hq/chatbridge/pkg/providers"
	"aria-hq/chatbridge/pkg/providers/openai"
)

// Provider is a generic OpenAI-compatible provider adapter. It supports any
// service that implements the OpenAI chat completions format, such as
// Ollama, LM Studio, vLLM, or a self-hosted gateway.
//
// The adapter reuses the OpenAI wire format but requires an explicit base
// URL and makes the API key optional (local models typically run
// unauthenticated).
type Provider struct {
	*openai.Provider
}

// NewProvider creates a new generic OpenAI-compatible provider instance.
func NewProvider(config providers.ProviderConfig) (*Provider, error) {
	if config.Name == "" {
		return nil, &providers.ConfigError{
			Provider: "generic",
			Field:    "name",
			Message:  "provider name is required",
		}
	}
	if config.BaseURL == "" {
		return nil, &providers.ConfigError{
			Provider: config.Name,
			Field:    "base_url",
			Message:  "base URL is required for generic providers",
		}
	}

	// A placeholder key keeps the OpenAI adapter's validation satisfied;
	// unauthenticated servers ignore the Authorization header.
	if config.APIKey == "" {
		config.APIKey = "not-required"
	}

	openaiProvider, err := openai.NewProvider(config)
	if err != nil {
		return nil, err
	}

	p := &Provider{
		Provider: openaiProvider,
	}

	slog.Info("generic OpenAI-compatible provider initialized",
		"provider", config.Name,
		"base_url", config.BaseURL,
	)

	return p, nil
}

// Type returns "generic" as the provider type.
func (p *Provider) Type() string {
	return "generic"
}
