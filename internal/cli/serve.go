package cli

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/go-logr/logr"
	"github.com/spf13/cobra"

	"github.com/cinedex/catalog-api/internal/adapters/httpapi"
	"github.com/cinedex/catalog-api/internal/app/directors"
	"github.com/cinedex/catalog-api/internal/app/movies"
	platformclock "github.com/cinedex/catalog-api/internal/platform/clock"
	"github.com/cinedex/catalog-api/internal/platform/config"
	"github.com/cinedex/catalog-api/internal/platform/metrics"
)

func (a *App) createServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			ctx, cfg, log, err := a.load(ctx)
			if err != nil {
				return err
			}
			return serve(ctx, cfg, log)
		},
	}
}

func serve(ctx context.Context, cfg config.Config, log logr.Logger) error {
	clk := platformclock.NewSystemClock()
	m := metrics.New()

	b, err := openBackend(ctx, cfg, clk)
	if err != nil {
		return err
	}
	defer b.close()
	if err := b.prepare(ctx, cfg); err != nil {
		return err
	}
	b.instrument(m)

	api := httpapi.NewServer(
		directors.NewService(b.directors, b.movies),
		movies.NewService(b.movies, b.directors),
		b.idem,
		clk,
	)
	handler := httpapi.NewRouterWithOptions(api, httpapi.RouterOptions{
		Logger:         log,
		Metrics:        m,
		MetricsHandler: m.Handler(),
	})

	srv := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           handler,
		ReadHeaderTimeout: cfg.HTTP.ReadHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("api listening", "addr", cfg.HTTP.Addr, "backend", b.name)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
