package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"runtime"
	"time"

	"github.com/okian/radar/internal/adapters/http/api"
	"github.com/okian/radar/internal/adapters/http/swagger"
	app "github.com/okian/radar/internal/app"
	"github.com/okian/radar/internal/config"
	"github.com/okian/radar/pkg/logger"
	"github.com/okian/radar/pkg/metrics"
	"github.com/urfave/cli/v2"
)

// HTTP server timeout constants.
const (
	readTimeout           = 30 * time.Second
	writeTimeout          = 30 * time.Second
	idleTimeout           = 60 * time.Second
	readHeaderTimeout     = 5 * time.Second
	shutdownTimeout       = 30 * time.Second
	systemMetricsInterval = 10 * time.Second
)

func serveAction(c *cli.Context, logOut io.Writer) error {
	cfg, err := prepare(c, logOut)
	if err != nil {
		return err
	}
	return runServe(c.Context, cfg, logger.Get())
}

// runServe starts the service and the HTTP server and blocks until ctx is
// cancelled or the listener fails.
func runServe(ctx context.Context, cfg *config.Config, log logger.Logger) error {
	svc := app.New(serviceOptions(cfg, log)...)
	if err := svc.Start(ctx); err != nil {
		return fmt.Errorf("start service: %w", err)
	}
	defer svc.Stop()

	go startSystemMetricsUpdater(ctx)

	apiServer, err := api.NewServer(svc, svc,
		api.WithUploadDir(cfg.UploadDir),
		api.WithChartDir(cfg.ChartDir),
		api.WithMaxUploadBytes(cfg.MaxUploadBytes),
		api.WithLogger(log.Named("http")),
	)
	if err != nil {
		return fmt.Errorf("build http server: %w", err)
	}

	router := apiServer.Router(ctx)
	swagger.Register(ctx, router)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		defer close(errCh)
		log.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
	}
	log.Info(context.Background(), "shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(shutdownCtx, "server shutdown failed", logger.Error(err))
	}

	log.Info(shutdownCtx, "server stopped")
	return nil
}

// startSystemMetricsUpdater updates process gauges until ctx is done.
func startSystemMetricsUpdater(ctx context.Context) {
	ticker := time.NewTicker(systemMetricsInterval)
	defer ticker.Stop()

	updateSystemMetrics()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			updateSystemMetrics()
		}
	}
}

// updateSystemMetrics updates system-level metrics.
func updateSystemMetrics() {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	metrics.UpdateSystemMemoryUsage(m.Alloc)
	metrics.UpdateSystemGoroutineCount(runtime.NumGoroutine())
}
