package openai

import (
	"fmt"
	"strings"

	"aria-hq/chatbridge/pkg/providers"
)

// openAIRequest is a chat completion request in OpenAI format.
type openAIRequest struct {
	Model       string          `json:"model"`
	Messages    []openAIMessage `json:"messages"`
	Temperature float64         `json:"temperature,omitempty"`
	MaxTokens   int             `json:"max_tokens,omitempty"`
	Stream      bool            `json:"stream"`
}

// openAIMessage is a message in OpenAI format.
type openAIMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// openAIResponse is a chat completion response in OpenAI format.
type openAIResponse struct {
	ID      string         `json:"id"`
	Model   string         `json:"model"`
	Choices []openAIChoice `json:"choices"`
	Usage   openAIUsage    `json:"usage"`
}

// openAIChoice is a completion choice in OpenAI format.
type openAIChoice struct {
	Index        int           `json:"index"`
	Message      openAIMessage `json:"message"`
	FinishReason string        `json:"finish_reason"`
}

// openAIUsage is token usage in OpenAI format.
type openAIUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// transformRequest transforms a provider-agnostic request to OpenAI format.
func transformRequest(req *providers.Request) *openAIRequest {
	oaReq := &openAIRequest{
		Model:       req.Model,
		Messages:    make([]openAIMessage, len(req.Messages)),
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
		Stream:      false,
	}

	for i, msg := range req.Messages {
		oaReq.Messages[i] = openAIMessage{
			Role:    msg.Role,
			Content: msg.Content,
		}
	}

	return oaReq
}

// transformResponse normalizes an OpenAI response into the provider-agnostic
// format. A body without choices or content is a parse error.
func transformResponse(provider string, resp *openAIResponse) (*providers.Response, error) {
	if len(resp.Choices) == 0 {
		return nil, &providers.ParseError{
			Provider: provider,
			Cause:    fmt.Errorf("response has no choices"),
		}
	}

	choice := resp.Choices[0]
	content := strings.TrimSpace(choice.Message.Content)
	if content == "" {
		return nil, &providers.ParseError{
			Provider: provider,
			Cause:    fmt.Errorf("response content is empty"),
		}
	}

	return &providers.Response{
		Content:      content,
		Model:        resp.Model,
		TokensUsed:   resp.Usage.TotalTokens,
		Provider:     provider,
		FinishReason: choice.FinishReason,
	}, nil
}
