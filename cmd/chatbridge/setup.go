package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"aria-hq/chatbridge/pkg/config"
	"aria-hq/chatbridge/pkg/manager"
	"aria-hq/chatbridge/pkg/telemetry/logging"
	"aria-hq/chatbridge/pkg/telemetry/metrics"
)

// cmdContext derives a context for a command invocation, bounded by the
// given timeout when one is set.
func cmdContext(cmd *cobra.Command, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(cmd.Context())
	}
	return context.WithTimeout(cmd.Context(), timeout)
}

// buildManager loads the configuration and assembles the full manager
// stack: logger, provider registry, cache store, and metrics collector.
// The caller owns the returned manager and must Close it.
func buildManager(ctx context.Context) (*manager.Manager, *metrics.Collector, *config.Config, error) {
	cfg, err := config.LoadConfigWithEnvOverrides(cfgFile)
	if err != nil {
		return nil, nil, nil, err
	}

	if verbose {
		cfg.Telemetry.Logging.Level = "debug"
	}
	if _, err := logging.Setup(cfg.Telemetry.Logging, nil); err != nil {
		return nil, nil, nil, err
	}

	registry, err := manager.NewRegistry(cfg.Providers)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to build providers: %w", err)
	}

	store, err := manager.NewStoreFromConfig(ctx, cfg.Cache)
	if err != nil {
		registry.Close()
		return nil, nil, nil, fmt.Errorf("failed to open cache store: %w", err)
	}

	collector := metrics.NewCollector(cfg.Telemetry.Metrics, nil)

	mgr, err := manager.New(cfg, registry, store, collector)
	if err != nil {
		registry.Close()
		if store != nil {
			store.Close()
		}
		return nil, nil, nil, err
	}

	return mgr, collector, cfg, nil
}
