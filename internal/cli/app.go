package cli

import (
	"fmt"
	"log/slog"

	"github.com/jonboulle/clockwork"

	"github.com/acrenwood/flightwatch/internal/config"
	"github.com/acrenwood/flightwatch/internal/observability"
	"github.com/acrenwood/flightwatch/internal/pipeline"
	"github.com/acrenwood/flightwatch/internal/provider"
	"github.com/acrenwood/flightwatch/internal/store"
)

// app bundles the wired pipeline components a subcommand works with.
type app struct {
	cfg     *config.Config
	logger  *slog.Logger
	metrics *observability.Metrics
	store   *store.Store
	fetcher *pipeline.Fetcher
	builder *pipeline.Builder
	runner  *pipeline.Runner
}

// newApp loads configuration and wires every component. Global flags win
// over the environment.
func newApp(globals *GlobalFlags) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if globals.DataDir != "" {
		cfg.DataDir = globals.DataDir
	}
	if globals.Verbose {
		cfg.LogLevel = "debug"
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	st, err := store.New(cfg.DataDir)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	temps := provider.NewOpenMeteoClient(cfg.HTTPTimeout, cfg.Timezone, logger)
	sights := provider.NewINaturalistClient(cfg.HTTPTimeout, logger)

	clock := clockwork.NewRealClock()
	fetcher := pipeline.NewFetcher(st, temps, sights, cfg, clock, logger, metrics)
	builder := pipeline.NewBuilder(st, cfg, clock, logger, metrics)

	return &app{
		cfg:     cfg,
		logger:  logger,
		metrics: metrics,
		store:   st,
		fetcher: fetcher,
		builder: builder,
		runner:  pipeline.NewRunner(fetcher, builder, logger, metrics),
	}, nil
}
