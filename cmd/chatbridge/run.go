package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"aria-hq/chatbridge/pkg/monitor"
)

var runFlags struct {
	listenAddress string
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the service with health sweeps and a metrics endpoint",
	Long: `Run ChatBridge in service mode. The process keeps the provider
registry and cache warm, runs scheduled health sweeps, and serves
Prometheus metrics and a liveness endpoint over HTTP.

Endpoints:
  /metrics   Prometheus exposition format
  /healthz   200 once the manager is up

Examples:
  # Run with default config, listening on :9090
  chatbridge run

  # Run on a different address
  chatbridge run --listen 127.0.0.1:8081`,
	RunE: runService,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&runFlags.listenAddress, "listen", "l", ":9090", "metrics listen address")
}

func runService(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	mgr, collector, cfg, err := buildManager(ctx)
	if err != nil {
		return err
	}
	defer mgr.Close()

	sweeper := monitor.NewSweeper(cfg.Telemetry.HealthSweep, mgr, collector)
	if err := sweeper.Start(ctx); err != nil {
		return err
	}
	defer sweeper.Stop()

	mux := http.NewServeMux()
	mux.Handle("/metrics", collector.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprintln(w, "ok")
	})

	srv := &http.Server{
		Addr:              runFlags.listenAddress,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("service started", "listen", runFlags.listenAddress)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		slog.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
