package cli

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	httpadapter "github.com/acrenwood/flightwatch/internal/adapter/http"
	"github.com/acrenwood/flightwatch/internal/scheduler"
)

// refreshTimeout bounds one scheduled fetch-and-build cycle. A full lookback
// window of archive fetches can take a while on a cold store.
const refreshTimeout = 10 * time.Minute

// Execute implements the go-flags Commander interface for ServeCommand.
func (c *ServeCommand) Execute(_ []string) error {
	app, err := newApp(c.globals)
	if err != nil {
		return err
	}

	addr := app.cfg.HTTPAddr
	if c.Addr != "" {
		addr = c.Addr
	}

	srv := httpadapter.NewServer(addr, app.store, app.runner, app.logger)
	sched := scheduler.New(app.runner, app.cfg.RefreshInterval, refreshTimeout, app.logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			app.logger.Error("http server error", "error", err)
		}
	}()

	if err := sched.Start(); err != nil {
		return err
	}

	<-ctx.Done()
	app.logger.Info("shutting down")

	sched.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		app.logger.Error("http server shutdown error", "error", err)
	}

	app.logger.Info("shutdown complete")
	return nil
}
