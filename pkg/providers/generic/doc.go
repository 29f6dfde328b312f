// Package generic implements the providers.Provider interface for any
// OpenAI-compatible endpoint (Ollama, LM Studio, vLLM, self-hosted
// gateways). It delegates to the openai adapter with a custom base URL and
// an optional API key.
package generic
