// Package openai implements the providers.Provider interface for OpenAI's
// chat completions API.
//
// The adapter transforms provider-agnostic requests into OpenAI's wire
// format, issues a single HTTP call through the shared base client, and
// normalizes the response. All HTTP-level error classification (401/402/
// 429/5xx) is handled by the base client in the providers package.
package openai
