package openrouter

import (
	"fmt"
	"strings"

	"aria-hq/chatbridge/pkg/providers"
)

// OpenRouter speaks the OpenAI chat completions wire format, with an
// in-band error object that can appear even on 200 responses.

// openRouterRequest is a chat completion request in OpenRouter format.
type openRouterRequest struct {
	Model       string              `json:"model"`
	Messages    []openRouterMessage `json:"messages"`
	Temperature float64             `json:"temperature,omitempty"`
	MaxTokens   int                 `json:"max_tokens,omitempty"`
	Stream      bool                `json:"stream"`
}

// openRouterMessage is a message in OpenRouter format.
type openRouterMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// openRouterResponse is a chat completion response in OpenRouter format.
type openRouterResponse struct {
	ID      string             `json:"id"`
	Model   string             `json:"model"`
	Choices []openRouterChoice `json:"choices"`
	Usage   openRouterUsage    `json:"usage"`
	Error   *openRouterError   `json:"error,omitempty"`
}

// openRouterChoice is a completion choice in OpenRouter format.
type openRouterChoice struct {
	Index        int               `json:"index"`
	Message      openRouterMessage `json:"message"`
	FinishReason string            `json:"finish_reason"`
}

// openRouterUsage is token usage in OpenRouter format.
type openRouterUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// openRouterError is the in-band error object OpenRouter embeds in response
// bodies, including some 200 responses when an upstream model fails.
type openRouterError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// transformRequest transforms a provider-agnostic request to OpenRouter format.
func transformRequest(req *providers.Request) *openRouterRequest {
	orReq := &openRouterRequest{
		Model:       req.Model,
		Messages:    make([]openRouterMessage, len(req.Messages)),
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
		Stream:      false,
	}

	for i, msg := range req.Messages {
		orReq.Messages[i] = openRouterMessage{
			Role:    msg.Role,
			Content: msg.Content,
		}
	}

	return orReq
}

// transformResponse normalizes an OpenRouter response. In-band error objects
// are classified first; a structurally valid body with no usable content is
// a parse error.
func transformResponse(provider string, resp *openRouterResponse) (*providers.Response, error) {
	if resp.Error != nil {
		return nil, classifyBodyError(provider, resp.Error)
	}

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

	tokens := resp.Usage.TotalTokens
	if tokens == 0 {
		// Some routed models omit usage; estimate from the content length
		// so quota accounting downstream stays roughly honest.
		tokens = int(float64(len(strings.Fields(content))) * 1.3)
	}

	return &providers.Response{
		Content:      content,
		Model:        resp.Model,
		TokensUsed:   tokens,
		Provider:     provider,
		FinishReason: choice.FinishReason,
	}, nil
}

// quotaMarkers are substrings OpenRouter uses in credit-exhaustion messages.
var quotaMarkers = []string{"credit", "quota", "insufficient"}

// classifyBodyError maps an in-band OpenRouter error object to the provider
// error taxonomy.
func classifyBodyError(provider string, orErr *openRouterError) error {
	switch orErr.Code {
	case 401, 403:
		return &providers.AuthError{Provider: provider, Message: orErr.Message}
	case 402:
		return &providers.QuotaError{Provider: provider, Message: orErr.Message}
	case 429:
		return &providers.RateLimitError{Provider: provider, Message: orErr.Message}
	}

	lower := strings.ToLower(orErr.Message)
	for _, marker := range quotaMarkers {
		if strings.Contains(lower, marker) {
			return &providers.QuotaError{Provider: provider, Message: orErr.Message}
		}
	}

	if orErr.Code >= 500 {
		return &providers.ServerError{Provider: provider, StatusCode: orErr.Code, Message: orErr.Message}
	}

	return &providers.ConnectionError{
		Provider:   provider,
		StatusCode: orErr.Code,
		Message:    orErr.Message,
	}
}
