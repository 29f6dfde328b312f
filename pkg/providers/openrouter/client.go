package openrouter

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"aria-hq/chatbridge/pkg/providers"
)

const (
	// DefaultBaseURL is the OpenRouter API root.
	DefaultBaseURL = "https://openrouter.ai/api/v1"

	// refererHeader and titleHeader identify the application to OpenRouter
	// for their usage dashboards and model routing policies.
	refererHeader = "https://github.com/aria-hq/chatbridge"
	titleHeader   = "chatbridge"
)

// Provider is the OpenRouter adapter. It implements the providers.Provider
// interface for OpenRouter's chat completions API.
type Provider struct {
	*providers.HTTPClient
}

// NewProvider creates a new OpenRouter provider instance.
func NewProvider(config providers.ProviderConfig) (*Provider, error) {
	if config.Name == "" {
		return nil, &providers.ConfigError{
			Provider: "openrouter",
			Field:    "name",
			Message:  "provider name is required",
		}
	}
	if config.APIKey == "" {
		return nil, &providers.ConfigError{
			Provider: config.Name,
			Field:    "api_key",
			Message:  "API key is required for OpenRouter",
		}
	}
	if config.BaseURL == "" {
		config.BaseURL = DefaultBaseURL
	}

	p := &Provider{
		HTTPClient: providers.NewHTTPClient(config),
	}

	slog.Info("OpenRouter provider initialized",
		"provider", config.Name,
		"base_url", config.BaseURL,
		"model", config.Model,
	)

	return p, nil
}

// Generate sends a single completion request to OpenRouter.
func (p *Provider) Generate(ctx context.Context, req *providers.Request) (*providers.Response, error) {
	orReq := transformRequest(req)

	url := fmt.Sprintf("%s/chat/completions", p.Config().BaseURL)
	headers := map[string]string{
		"Authorization": "Bearer " + p.Config().APIKey,
		"HTTP-Referer":  refererHeader,
		"X-Title":       titleHeader,
		"Content-Type":  "application/json",
	}

	start := time.Now()
	var orResp openRouterResponse
	if err := p.DoJSON(ctx, "POST", url, orReq, &orResp, headers); err != nil {
		return nil, err
	}
	latency := time.Since(start)

	resp, err := transformResponse(p.Name(), &orResp)
	if err != nil {
		return nil, err
	}
	resp.Latency = latency

	slog.Debug("OpenRouter completion",
		"provider", p.Name(),
		"model", resp.Model,
		"tokens", resp.TokensUsed,
		"latency", latency,
		"request_id", req.RequestID,
	)

	return resp, nil
}

// HealthCheck verifies OpenRouter can serve a minimal completion.
func (p *Provider) HealthCheck(ctx context.Context) error {
	return providers.CheckByGenerate(ctx, p)
}
