package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"

	"github.com/acrenwood/flightwatch/internal/observability"
)

// Runner ties fetch and build into one refresh cycle and tracks readiness
// for the health endpoints.
type Runner struct {
	fetcher *Fetcher
	builder *Builder
	logger  *slog.Logger
	metrics *observability.Metrics
	ready   atomic.Bool
}

// NewRunner creates a Runner over the given stages.
func NewRunner(fetcher *Fetcher, builder *Builder, logger *slog.Logger, metrics *observability.Metrics) *Runner {
	return &Runner{
		fetcher: fetcher,
		builder: builder,
		logger:  logger,
		metrics: metrics,
	}
}

// CheckReadiness returns nil once a refresh has produced derived artifacts,
// or an error describing why the service is not yet ready.
func (r *Runner) CheckReadiness(_ context.Context) error {
	if !r.ready.Load() {
		return errors.New("no refresh has completed yet")
	}
	return nil
}

// Refresh runs one fetch-then-build cycle. A fetch failure does not abort
// the build; whatever the store already holds still produces artifacts. The
// returned error reports every stage that failed.
func (r *Runner) Refresh(ctx context.Context) error {
	r.metrics.RefreshRunning.Set(1)
	defer r.metrics.RefreshRunning.Set(0)

	fetchErr := r.fetcher.Fetch(ctx)
	if fetchErr != nil {
		r.logger.Error("fetch incomplete, building from cache", "error", fetchErr)
	}

	buildErr := r.builder.Build(ctx)
	if buildErr == nil {
		r.ready.Store(true)
		r.logger.Info("refresh complete", "fetch_ok", fetchErr == nil)
	}

	return errors.Join(fetchErr, buildErr)
}
