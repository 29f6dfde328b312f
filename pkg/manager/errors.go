package manager

import (
	"fmt"
	"strings"
)

// ValidationError represents a caller error detected before any provider
// work starts (e.g. an empty message sequence). It is surfaced immediately
// with no retry or fallback.
type ValidationError struct {
	// Field is the name of the invalid input
	Field string

	// Message describes what is invalid about it
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error for %q: %s", e.Field, e.Message)
}

// AllProvidersExhaustedError is the terminal failure returned when every
// retry and fallback option has been spent. It carries the last classified
// provider error for diagnostics.
type AllProvidersExhaustedError struct {
	// Attempted lists the providers that were tried, in order
	Attempted []string

	// Skipped lists configured providers excluded by the eligibility check
	Skipped []string

	// LastErr is the final classified provider error
	LastErr error
}

func (e *AllProvidersExhaustedError) Error() string {
	if len(e.Attempted) == 0 {
		return fmt.Sprintf("all providers exhausted: none eligible (skipped: %s)",
			strings.Join(e.Skipped, ", "))
	}
	return fmt.Sprintf("all providers exhausted (attempted: %s): %v",
		strings.Join(e.Attempted, ", "), e.LastErr)
}

// Unwrap returns the last provider error for error chain support.
func (e *AllProvidersExhaustedError) Unwrap() error {
	return e.LastErr
}
