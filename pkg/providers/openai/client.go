package openai

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"aria-hq/chatbridge/pkg/providers"
)

// DefaultBaseURL is the OpenAI API root.
const DefaultBaseURL = "https://api.openai.com/v1"

// Provider is the OpenAI adapter. It implements the providers.Provider
// interface for OpenAI's chat completions API.
type Provider struct {
	*providers.HTTPClient
}

// NewProvider creates a new OpenAI provider instance.
func NewProvider(config providers.ProviderConfig) (*Provider, error) {
	if config.Name == "" {
		return nil, &providers.ConfigError{
			Provider: "openai",
			Field:    "name",
			Message:  "provider name is required",
		}
	}
	if config.APIKey == "" {
		return nil, &providers.ConfigError{
			Provider: config.Name,
			Field:    "api_key",
			Message:  "API key is required for OpenAI",
		}
	}
	if config.BaseURL == "" {
		config.BaseURL = DefaultBaseURL
	}

	p := &Provider{
		HTTPClient: providers.NewHTTPClient(config),
	}

	slog.Info("OpenAI provider initialized",
		"provider", config.Name,
		"base_url", config.BaseURL,
		"model", config.Model,
	)

	return p, nil
}

// Generate sends a single completion request to OpenAI.
func (p *Provider) Generate(ctx context.Context, req *providers.Request) (*providers.Response, error) {
	oaReq := transformRequest(req)

	url := fmt.Sprintf("%s/chat/completions", p.Config().BaseURL)
	headers := map[string]string{
		"Authorization": "Bearer " + p.Config().APIKey,
		"Content-Type":  "application/json",
	}

	start := time.Now()
	var oaResp openAIResponse
	if err := p.DoJSON(ctx, "POST", url, oaReq, &oaResp, headers); err != nil {
		return nil, err
	}
	latency := time.Since(start)

	resp, err := transformResponse(p.Name(), &oaResp)
	if err != nil {
		return nil, err
	}
	resp.Latency = latency

	slog.Debug("OpenAI completion",
		"provider", p.Name(),
		"model", resp.Model,
		"tokens", resp.TokensUsed,
		"latency", latency,
		"request_id", req.RequestID,
	)

	return resp, nil
}

// HealthCheck verifies OpenAI can serve a minimal completion.
func (p *Provider) HealthCheck(ctx context.Context) error {
	return providers.CheckByGenerate(ctx, p)
}
