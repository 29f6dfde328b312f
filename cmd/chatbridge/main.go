// ChatBridge is a multi-provider LLM completion service with caching,
// retry, and automatic fallback.
//
// Usage:
//
//	# Validate a configuration file
//	chatbridge validate --config config.yaml
//
//	# Probe all configured providers
//	chatbridge health --config config.yaml
//
//	# Generate a one-shot completion
//	chatbridge generate "Explain goroutines in one paragraph"
//
//	# Show version information
//	chatbridge version
package main

func main() {
	Execute()
}
