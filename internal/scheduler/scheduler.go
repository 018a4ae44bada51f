// Package scheduler runs the refresh cycle on a fixed interval.
package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron"
)

// Refresher runs one fetch-then-build cycle.
type Refresher interface {
	Refresh(ctx context.Context) error
}

// Scheduler periodically refreshes the store and derived artifacts.
type Scheduler struct {
	scheduler *gocron.Scheduler
	refresher Refresher
	interval  time.Duration
	timeout   time.Duration
	logger    *slog.Logger
}

// New creates a Scheduler. timeout bounds each refresh run.
func New(refresher Refresher, interval, timeout time.Duration, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		refresher: refresher,
		interval:  interval,
		timeout:   timeout,
		logger:    logger,
	}
}

// Start schedules the periodic refresh and runs the first cycle
// immediately. It does not block.
func (s *Scheduler) Start() error {
	_, err := s.scheduler.Every(s.interval).StartImmediately().Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		defer cancel()

		s.logger.Info("scheduled refresh starting")
		if err := s.refresher.Refresh(ctx); err != nil {
			s.logger.Error("scheduled refresh failed", "error", err)
			return
		}
		s.logger.Info("scheduled refresh complete")
	})
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	return nil
}

// Stop cancels future runs. In-flight runs finish on their own timeout.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
