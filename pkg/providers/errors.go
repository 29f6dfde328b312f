package providers

import (
	"errors"
	"fmt"
	"time"
)

// Class partitions provider errors by retry policy.
type Class int

const (
	// ClassTransient errors warrant retry with backoff, then fallback.
	ClassTransient Class = iota

	// ClassFatal errors are never retried against the same provider and
	// move straight to fallback evaluation.
	ClassFatal
)

// String returns the class name for logs and metrics labels.
func (c Class) String() string {
	if c == ClassFatal {
		return "fatal"
	}
	return "transient"
}

// ConnectionError represents a network failure, timeout, or an unexpected
// HTTP status that prevented a usable response.
type ConnectionError struct {
	// Provider is the name of the provider that could not be reached
	Provider string

	// StatusCode is the HTTP status (0 for network-level failures)
	StatusCode int

	// Message describes the failure
	Message string

	// Cause is the underlying error (if any)
	Cause error
}

func (e *ConnectionError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("provider %q connection error (status %d): %s", e.Provider, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("provider %q connection error: %s", e.Provider, e.Message)
}

// Unwrap returns the underlying error for error chain support.
func (e *ConnectionError) Unwrap() error {
	return e.Cause
}

// AuthError represents an authentication failure (HTTP 401 or 403).
// It is fatal: retrying with the same credentials cannot succeed.
type AuthError struct {
	// Provider is the name of the provider that rejected authentication
	Provider string

	// Message is the error message from the provider
	Message string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("provider %q authentication failed: %s", e.Provider, e.Message)
}

// QuotaError represents an exhausted balance or quota (HTTP 402 or a
// quota-specific error body). It is fatal until the account is topped up.
type QuotaError struct {
	// Provider is the name of the provider that reported the quota issue
	Provider string

	// Message is the error message from the provider
	Message string
}

func (e *QuotaError) Error() string {
	return fmt.Sprintf("provider %q quota exceeded: %s", e.Provider, e.Message)
}

// RateLimitError represents a rate limit response (HTTP 429).
// It includes the Retry-After duration when the provider supplies one.
type RateLimitError struct {
	// Provider is the name of the provider that rate limited the request
	Provider string

	// RetryAfter is the wait the provider requested (0 if not provided)
	RetryAfter time.Duration

	// Message is the error message from the provider
	Message string
}

func (e *RateLimitError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("provider %q rate limit exceeded (retry after %s): %s",
			e.Provider, e.RetryAfter, e.Message)
	}
	return fmt.Sprintf("provider %q rate limit exceeded: %s", e.Provider, e.Message)
}

// ServerError represents a provider-side failure (HTTP 5xx).
type ServerError struct {
	// Provider is the name of the provider that failed
	Provider string

	// StatusCode is the HTTP status code
	StatusCode int

	// Message is the error message from the provider
	Message string
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("provider %q server error (status %d): %s", e.Provider, e.StatusCode, e.Message)
}

// ParseError represents a malformed provider response: a body that failed to
// decode or a decoded body missing expected fields.
type ParseError struct {
	// Provider is the name of the provider that returned the response
	Provider string

	// RawResponse is the raw response body that failed to parse
	RawResponse string

	// Cause is the underlying parse error
	Cause error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("provider %q response parse error: %v", e.Provider, e.Cause)
}

// Unwrap returns the underlying error for error chain support.
func (e *ParseError) Unwrap() error {
	return e.Cause
}

// ConfigError represents an invalid provider configuration detected at
// construction time.
type ConfigError struct {
	// Provider is the name of the provider with invalid configuration
	Provider string

	// Field is the configuration field that is invalid
	Field string

	// Message describes the configuration error
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("provider %q configuration error for field %q: %s",
		e.Provider, e.Field, e.Message)
}

// Classify maps a provider error to its retry class. Authentication and
// quota errors are fatal; everything else is transient.
func Classify(err error) Class {
	var authErr *AuthError
	var quotaErr *QuotaError
	if errors.As(err, &authErr) || errors.As(err, &quotaErr) {
		return ClassFatal
	}
	return ClassTransient
}

// Kind returns a short stable label for the error, used in metrics and in
// health tracker snapshots.
func Kind(err error) string {
	var (
		connErr  *ConnectionError
		authErr  *AuthError
		quotaErr *QuotaError
		rateErr  *RateLimitError
		srvErr   *ServerError
		parseErr *ParseError
	)
	switch {
	case errors.As(err, &authErr):
		return "auth"
	case errors.As(err, &quotaErr):
		return "quota"
	case errors.As(err, &rateErr):
		return "rate_limit"
	case errors.As(err, &srvErr):
		return "server"
	case errors.As(err, &parseErr):
		return "parse"
	case errors.As(err, &connErr):
		return "connection"
	default:
		return "other"
	}
}
