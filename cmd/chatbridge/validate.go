package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"aria-hq/chatbridge/pkg/config"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a configuration file",
	Long: `Load the configuration file, apply defaults and environment overrides,
and run full validation. Prints a summary of the resolved configuration
on success.

Examples:
  # Validate the default config file
  chatbridge validate

  # Validate a specific file
  chatbridge validate --config /etc/chatbridge/config.yaml`,
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfigWithEnvOverrides(cfgFile)
	if err != nil {
		return err
	}

	fmt.Printf("Configuration %s is valid\n\n", cfgFile)

	names := make([]string, 0, len(cfg.Providers))
	for name := range cfg.Providers {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Println("Providers:")
	for _, name := range names {
		p := cfg.Providers[name]
		fmt.Printf("  %-16s type=%s model=%s timeout=%s\n", name, p.Type, p.Model, p.Timeout)
	}

	fmt.Printf("\nPrimary:  %s\n", cfg.Manager.PrimaryProvider)
	if cfg.Manager.EnableFallback {
		fmt.Printf("Fallback: %s\n", cfg.Manager.FallbackProvider)
	} else {
		fmt.Println("Fallback: disabled")
	}
	fmt.Printf("Retries:  %d attempts, backoff %s..%s\n",
		cfg.Manager.MaxRetryAttempts, cfg.Manager.BackoffBaseDelay, cfg.Manager.BackoffMaxDelay)

	if cfg.Cache.Enabled {
		fmt.Printf("Cache:    %s, ttl=%s\n", cfg.Cache.Backend, cfg.Cache.TTL)
	} else {
		fmt.Println("Cache:    disabled")
	}

	return nil
}
