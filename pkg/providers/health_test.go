package providers

import (
	"context"
	"errors"
	"testing"
)

// stubProvider is a minimal Provider used to test the shared health probe.
type stubProvider struct {
	cfg     ProviderConfig
	lastReq *Request
	err     error
}

func (s *stubProvider) Generate(ctx context.Context, req *Request) (*Response, error) {
	s.lastReq = req
	if s.err != nil {
		return nil, s.err
	}
	return &Response{Content: "Hi", Provider: s.cfg.Name}, nil
}

func (s *stubProvider) HealthCheck(ctx context.Context) error { return CheckByGenerate(ctx, s) }
func (s *stubProvider) Name() string                          { return s.cfg.Name }
func (s *stubProvider) Type() string                          { return s.cfg.Type }
func (s *stubProvider) Config() ProviderConfig                { return s.cfg }
func (s *stubProvider) Close() error                          { return nil }

func TestCheckByGenerateUsesMinimalProbe(t *testing.T) {
	p := &stubProvider{cfg: ProviderConfig{Name: "stub", Model: "test-model"}}

	if err := CheckByGenerate(context.Background(), p); err != nil {
		t.Fatalf("expected probe to succeed, got %v", err)
	}

	if p.lastReq == nil {
		t.Fatal("expected a generation request")
	}
	if p.lastReq.Model != "test-model" {
		t.Errorf("probe model = %q, want configured model", p.lastReq.Model)
	}
	if len(p.lastReq.Messages) != 1 || p.lastReq.Messages[0].Content != "Hello" {
		t.Errorf("probe messages = %+v, want a single Hello message", p.lastReq.Messages)
	}
	if p.lastReq.MaxTokens != probeMaxTokens {
		t.Errorf("probe max tokens = %d, want %d", p.lastReq.MaxTokens, probeMaxTokens)
	}
}

func TestCheckByGeneratePropagatesFailure(t *testing.T) {
	probeErr := &AuthError{Provider: "stub", Message: "bad key"}
	p := &stubProvider{cfg: ProviderConfig{Name: "stub"}, err: probeErr}

	err := CheckByGenerate(context.Background(), p)
	var authErr *AuthError
	if !errors.As(err, &authErr) {
		t.Fatalf("expected the probe error to pass through, got %v", err)
	}
}
