package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "chatbridge",
	Short: "ChatBridge - multi-provider LLM completion service",
	Long: `ChatBridge routes chat completions across multiple LLM providers with
response caching, bounded retry, and automatic fallback.

It manages:
  - Provider clients for OpenRouter, OpenAI, and compatible APIs
  - A fingerprint-keyed response cache (memory, SQLite, or Redis)
  - Provider health tracking with fatal-failure eligibility
  - Retry with exponential backoff and primary-to-fallback failover`,
	Version: Version,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "config.yaml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
