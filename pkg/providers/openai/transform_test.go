package openai

import (
	"errors"
	"testing"

	"aria-hq/chatbridge/pkg/providers"
)

func TestTransformRequest(t *testing.T) {
	req := &providers.Request{
		Model: "gpt-4o-mini",
		Messages: []providers.Message{
			{Role: providers.RoleUser, Content: "Hi"},
		},
		Temperature: 0.2,
		MaxTokens:   100,
	}

	oaReq := transformRequest(req)

	if oaReq.Model != "gpt-4o-mini" {
		t.Errorf("Model = %q", oaReq.Model)
	}
	if oaReq.Temperature != 0.2 || oaReq.MaxTokens != 100 {
		t.Errorf("sampling params not carried: %+v", oaReq)
	}
	if oaReq.Stream {
		t.Error("Stream must be false")
	}
}

func TestTransformResponse(t *testing.T) {
	resp := &openAIResponse{
		Model: "gpt-4o-mini",
		Choices: []openAIChoice{
			{Message: openAIMessage{Role: "assistant", Content: "Answer"}, FinishReason: "stop"},
		},
		Usage: openAIUsage{TotalTokens: 42},
	}

	out, err := transformResponse("openai", resp)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Content != "Answer" || out.TokensUsed != 42 || out.Provider != "openai" {
		t.Errorf("unexpected response: %+v", out)
	}
}

func TestTransformResponseMalformed(t *testing.T) {
	tests := []struct {
		name string
		resp *openAIResponse
	}{
		{"no choices", &openAIResponse{Model: "m"}},
		{"blank content", &openAIResponse{
			Model:   "m",
			Choices: []openAIChoice{{Message: openAIMessage{Content: " "}}},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := transformResponse("openai", tt.resp)
			var parseErr *providers.ParseError
			if !errors.As(err, &parseErr) {
				t.Fatalf("expected *ParseError, got %T: %v", err, err)
			}
		})
	}
}
