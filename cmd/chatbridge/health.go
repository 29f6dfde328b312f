package main

import (
	"fmt"
	"sort"
	"time"

	"github.com/spf13/cobra"
)

var healthFlags struct {
	timeout time.Duration
}

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Probe all configured providers",
	Long: `Send a minimal generation probe to every configured provider and
report which are reachable. Exits non-zero if any provider fails.

Examples:
  # Probe with the default 30s timeout
  chatbridge health

  # Probe with a shorter timeout
  chatbridge health --timeout 10s`,
	RunE: runHealth,
}

func init() {
	rootCmd.AddCommand(healthCmd)

	healthCmd.Flags().DurationVar(&healthFlags.timeout, "timeout", 30*time.Second, "overall probe timeout")
}

func runHealth(cmd *cobra.Command, args []string) error {
	ctx, cancel := cmdContext(cmd, healthFlags.timeout)
	defer cancel()

	mgr, _, _, err := buildManager(ctx)
	if err != nil {
		return err
	}
	defer mgr.Close()

	results := mgr.HealthCheckAll(ctx)

	names := make([]string, 0, len(results))
	for name := range results {
		names = append(names, name)
	}
	sort.Strings(names)

	unhealthy := 0
	for _, name := range names {
		status := "ok"
		if !results[name] {
			status = "FAIL"
			unhealthy++
		}
		fmt.Printf("  %-16s %s\n", name, status)
	}

	if unhealthy > 0 {
		return fmt.Errorf("%d of %d providers unhealthy", unhealthy, len(results))
	}
	fmt.Printf("\nAll %d providers healthy\n", len(results))
	return nil
}
