package monitor

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"aria-hq/chatbridge/pkg/config"
	"aria-hq/chatbridge/pkg/manager"

	"github.com/robfig/cron/v3"
)

// HealthGauge receives per-provider health status from the sweeper. The
// telemetry metrics collector satisfies this interface.
type HealthGauge interface {
	UpdateProviderHealth(provider string, healthy bool)
}

// Sweeper probes all configured providers on a cron schedule and records
// the results. It reports transitions between healthy and unhealthy so
// operators can correlate them with request failures.
type Sweeper struct {
	cfg   config.HealthSweepConfig
	mgr   *manager.Manager
	gauge HealthGauge
	cron  *cron.Cron

	mu      sync.Mutex
	running bool
	last    map[string]bool

	logger *slog.Logger
}

// NewSweeper creates a health sweeper. gauge may be nil when metrics are
// disabled.
func NewSweeper(cfg config.HealthSweepConfig, mgr *manager.Manager, gauge HealthGauge) *Sweeper {
	return &Sweeper{
		cfg:    cfg,
		mgr:    mgr,
		gauge:  gauge,
		cron:   cron.New(),
		last:   make(map[string]bool),
		logger: slog.Default().With("component", "monitor.sweeper"),
	}
}

// Start begins the scheduled sweeps. When the sweep is disabled in the
// configuration, Start does nothing and returns nil. The sweeper stops
// itself when ctx is cancelled.
func (s *Sweeper) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.cfg.Enabled {
		s.logger.Info("health sweep disabled, skipping")
		return nil
	}

	if _, err := cron.ParseStandard(s.cfg.Schedule); err != nil {
		return fmt.Errorf("invalid sweep schedule %q: %w", s.cfg.Schedule, err)
	}

	if _, err := s.cron.AddFunc(s.cfg.Schedule, func() {
		s.runSweep(ctx)
	}); err != nil {
		return fmt.Errorf("failed to schedule health sweep: %w", err)
	}

	s.cron.Start()
	s.running = true

	s.logger.Info("health sweeper started",
		"schedule", s.cfg.Schedule,
		"timeout", s.cfg.Timeout,
	)

	go func() {
		<-ctx.Done()
		s.Stop()
	}()

	return nil
}

// runSweep executes one sweep across all providers.
func (s *Sweeper) runSweep(ctx context.Context) {
	sweepCtx := ctx
	if s.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		sweepCtx, cancel = context.WithTimeout(ctx, s.cfg.Timeout)
		defer cancel()
	}

	results := s.mgr.HealthCheckAll(sweepCtx)

	s.mu.Lock()
	defer s.mu.Unlock()

	for name, healthy := range results {
		if s.gauge != nil {
			s.gauge.UpdateProviderHealth(name, healthy)
		}

		prev, seen := s.last[name]
		s.last[name] = healthy

		switch {
		case !seen && !healthy:
			s.logger.Warn("provider unhealthy", "provider", name)
		case seen && prev != healthy && healthy:
			s.logger.Info("provider recovered", "provider", name)
		case seen && prev != healthy && !healthy:
			s.logger.Warn("provider became unhealthy", "provider", name)
		default:
			s.logger.Debug("provider health unchanged",
				"provider", name,
				"healthy", healthy,
			)
		}
	}
}

// Stop stops the scheduler and waits for a running sweep to complete.
func (s *Sweeper) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cron != nil && s.running {
		stopCtx := s.cron.Stop()
		<-stopCtx.Done()
		s.running = false
		s.logger.Info("health sweeper stopped")
	}
}

// IsRunning reports whether the sweeper is currently scheduled.
func (s *Sweeper) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}
