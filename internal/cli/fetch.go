package cli

import (
	"context"
	"errors"
	"os/signal"
	"syscall"
)

// Execute implements the go-flags Commander interface for FetchCommand.
func (c *FetchCommand) Execute(_ []string) error {
	if c.CurvesOnly && c.ObservationsOnly {
		return errors.New("--curves-only and --observations-only are mutually exclusive")
	}

	app, err := newApp(c.globals)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	switch {
	case c.CurvesOnly:
		return app.fetcher.FetchCurves(ctx)
	case c.ObservationsOnly:
		return app.fetcher.FetchObservations(ctx)
	default:
		return app.fetcher.Fetch(ctx)
	}
}

// Execute implements the go-flags Commander interface for BuildCommand.
func (c *BuildCommand) Execute(_ []string) error {
	app, err := newApp(c.globals)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return app.builder.Build(ctx)
}

// Execute implements the go-flags Commander interface for RefreshCommand.
func (c *RefreshCommand) Execute(_ []string) error {
	app, err := newApp(c.globals)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return app.runner.Refresh(ctx)
}
