package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// HTTPClient is the base for HTTP-backed provider adapters. It provides
// connection pooling, timeout handling, and classification of outcomes into
// the error taxonomy of this package.
//
// HTTPClient performs exactly one HTTP attempt per call. Retrying is the
// manager's job; an adapter that retried internally would double up on the
// manager's backoff policy and skew the health tracker's per-attempt
// accounting.
type HTTPClient struct {
	// config contains the provider configuration
	config ProviderConfig

	// client is the pooled HTTP client
	client *http.Client
}

// NewHTTPClient creates a base HTTP client for a provider adapter.
func NewHTTPClient(config ProviderConfig) *HTTPClient {
	transport := &http.Transport{
		MaxIdleConns:        config.MaxIdleConns,
		MaxIdleConnsPerHost: config.MaxIdleConnsPerHost,
		IdleConnTimeout:     config.IdleConnTimeout,
		ForceAttemptHTTP2:   true,
	}

	return &HTTPClient{
		config: config,
		client: &http.Client{
			Transport: transport,
			Timeout:   config.Timeout,
		},
	}
}

// Name returns the provider's configured name.
func (c *HTTPClient) Name() string {
	return c.config.Name
}

// Type returns the adapter type.
func (c *HTTPClient) Type() string {
	return c.config.Type
}

// Config returns the provider's configuration.
func (c *HTTPClient) Config() ProviderConfig {
	return c.config
}

// Do performs a single HTTP request and classifies the outcome.
// On a 2xx status it returns the response with the body still open; the
// caller owns closing it. On any other outcome the body is consumed and a
// typed error is returned:
//
//	401/403        -> *AuthError
//	402            -> *QuotaError
//	429            -> *RateLimitError
//	5xx            -> *ServerError
//	network error  -> *ConnectionError
//	other statuses -> *ConnectionError (with status recorded)
func (c *HTTPClient) Do(ctx context.Context, method, url string, body []byte, headers map[string]string) (*http.Response, error) {
	var bodyReader io.Reader
	if body != nil {
		bodyReader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	for key, value := range headers {
		req.Header.Set(key, value)
	}
	if req.Header.Get("Content-Type") == "" && body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	slog.Debug("sending request to provider",
		"provider", c.config.Name,
		"method", method,
		"url", url,
	)

	resp, err := c.client.Do(req)
	if err != nil {
		// Context cancellation surfaces as-is so the caller can tell a
		// cancelled attempt apart from a provider failure.
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, &ConnectionError{
			Provider: c.config.Name,
			Message:  "request failed",
			Cause:    err,
		}
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return resp, nil
	}

	errorBody, _ := io.ReadAll(resp.Body)
	resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, &AuthError{
			Provider: c.config.Name,
			Message:  string(errorBody),
		}

	case resp.StatusCode == http.StatusPaymentRequired:
		return nil, &QuotaError{
			Provider: c.config.Name,
			Message:  string(errorBody),
		}

	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, &RateLimitError{
			Provider:   c.config.Name,
			RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After")),
			Message:    string(errorBody),
		}

	case resp.StatusCode >= 500:
		return nil, &ServerError{
			Provider:   c.config.Name,
			StatusCode: resp.StatusCode,
			Message:    string(errorBody),
		}

	default:
		return nil, &ConnectionError{
			Provider:   c.config.Name,
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("unexpected status: %s", errorBody),
		}
	}
}

// DoJSON performs a JSON request and decodes the response body into
// respBody. A body that fails to decode produces a *ParseError.
func (c *HTTPClient) DoJSON(ctx context.Context, method, url string, reqBody, respBody interface{}, headers map[string]string) error {
	var bodyBytes []byte
	var err error
	if reqBody != nil {
		bodyBytes, err = json.Marshal(reqBody)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
	}

	resp, err := c.Do(ctx, method, url, bodyBytes, headers)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	responseBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return &ConnectionError{
			Provider: c.config.Name,
			Message:  "failed to read response body",
			Cause:    err,
		}
	}

	if respBody != nil {
		if err := json.Unmarshal(responseBytes, respBody); err != nil {
			return &ParseError{
				Provider:    c.config.Name,
				RawResponse: string(responseBytes),
				Cause:       fmt.Errorf("failed to unmarshal response: %w", err),
			}
		}
	}

	return nil
}

// Close releases idle connections. The HTTPClient must not be used after
// Close.
func (c *HTTPClient) Close() error {
	c.client.CloseIdleConnections()
	slog.Debug("provider http client closed", "provider", c.config.Name)
	return nil
}

// parseRetryAfter parses a Retry-After header value, supporting both
// delay-seconds and HTTP-date formats.
func parseRetryAfter(header string) time.Duration {
	if header == "" {
		return 0
	}

	var seconds int
	if _, err := fmt.Sscanf(header, "%d", &seconds); err == nil {
		return time.Duration(seconds) * time.Second
	}

	if t, err := http.ParseTime(header); err == nil {
		return time.Until(t)
	}

	return 0
}
