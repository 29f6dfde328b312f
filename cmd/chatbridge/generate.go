package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"aria-hq/chatbridge/pkg/manager"
	"aria-hq/chatbridge/pkg/providers"
)

var generateFlags struct {
	provider string
	noCache  bool
	stats    bool
	timeout  time.Duration
}

var generateCmd = &cobra.Command{
	Use:   "generate [prompt]",
	Short: "Generate a one-shot completion",
	Long: `Send a single prompt through the full manager path: cache lookup,
primary provider with retry, and fallback. The response content is
printed to stdout.

Examples:
  # Simple prompt
  chatbridge generate "Explain goroutines in one paragraph"

  # Force a specific provider and skip the cache
  chatbridge generate --provider openai --no-cache "Hello"

  # Print manager statistics after the call
  chatbridge generate --stats "Hello"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runGenerate,
}

func init() {
	rootCmd.AddCommand(generateCmd)

	generateCmd.Flags().StringVar(&generateFlags.provider, "provider", "", "prefer a specific provider")
	generateCmd.Flags().BoolVar(&generateFlags.noCache, "no-cache", false, "bypass the response cache")
	generateCmd.Flags().BoolVar(&generateFlags.stats, "stats", false, "print manager statistics after the call")
	generateCmd.Flags().DurationVar(&generateFlags.timeout, "timeout", 2*time.Minute, "overall request timeout")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	ctx, cancel := cmdContext(cmd, generateFlags.timeout)
	defer cancel()

	mgr, _, _, err := buildManager(ctx)
	if err != nil {
		return err
	}
	defer mgr.Close()

	prompt := strings.Join(args, " ")
	opts := &manager.Options{
		PreferProvider: generateFlags.provider,
		DisableCache:   generateFlags.noCache,
	}

	messages := []providers.Message{{
		Role:      providers.RoleUser,
		Content:   prompt,
		Timestamp: time.Now(),
	}}

	resp, err := mgr.GenerateResponse(ctx, messages, opts)
	if err != nil {
		return err
	}

	fmt.Println(resp.Content)

	if verbose {
		fmt.Fprintf(os.Stderr, "\nprovider=%s model=%s tokens=%d latency=%s cached=%t\n",
			resp.Provider, resp.Model, resp.TokensUsed, resp.Latency, resp.Cached)
	}

	if generateFlags.stats {
		out, err := json.MarshalIndent(mgr.Statistics(), "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "\n%s\n", out)
	}

	return nil
}
