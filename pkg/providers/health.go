package providers

import (
	"context"
	"time"
)

// healthCheckTimeout bounds a single health probe.
const healthCheckTimeout = 10 * time.Second

// probeContent is the minimal prompt used for health probes.
const probeContent = "Hello"

// probeMaxTokens keeps health probes cheap.
const probeMaxTokens = 8

// ProbeRequest builds the minimal completion request used by health checks.
func ProbeRequest(cfg ProviderConfig) *Request {
	return &Request{
		Model:       cfg.Model,
		Messages:    []Message{{Role: RoleUser, Content: probeContent}},
		Temperature: cfg.Temperature,
		MaxTokens:   probeMaxTokens,
	}
}

// CheckByGenerate implements a health check as a minimal generation against
// the given provider. Adapters use it to implement HealthCheck; a provider
// that can serve a one-message completion is considered healthy.
func CheckByGenerate(ctx context.Context, p Provider) error {
	probeCtx, cancel := context.WithTimeout(ctx, healthCheckTimeout)
	defer cancel()

	_, err := p.Generate(probeCtx, ProbeRequest(p.Config()))
	return err
}
