// Package openrouter implements the providers.Provider interface for the
// OpenRouter API (https://openrouter.ai).
//
// OpenRouter speaks the OpenAI chat completions format and routes requests
// to many underlying models. Two quirks distinguish it from a plain OpenAI
// endpoint:
//
//   - Error objects can arrive in-band in the response body, including on
//     200 responses, when a routed upstream model fails. These are
//     classified into the standard error taxonomy by inspecting the embedded
//     code and message (credit-exhaustion messages become *QuotaError).
//   - HTTP 402 is used for exhausted credits and maps to *QuotaError.
//
// The adapter also sends the HTTP-Referer and X-Title headers OpenRouter
// uses to attribute traffic.
package openrouter
