package server

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	drepo "PegGuard/internal/domain/repository"
	"PegGuard/internal/usecase"
	"PegGuard/pkg/config"
	xhttp "PegGuard/pkg/http"
	xlogger "PegGuard/pkg/logger"
)

// App encapsulates the application lifecycle: oracle stream, regime monitor
// and the HTTP API, with graceful shutdown of all of them.
type App struct {
	cfg     *config.Config
	logger  *xlogger.Logger
	stream  drepo.OracleStream
	monitor *usecase.RegimeMonitor
	handler xhttp.Handler
	closers []io.Closer
}

// New creates a new App instance. closers are shut down, in order, after the
// HTTP server stops.
func New(
	cfg *config.Config,
	logger *xlogger.Logger,
	stream drepo.OracleStream,
	monitor *usecase.RegimeMonitor,
	handler xhttp.Handler,
	closers ...io.Closer,
) *App {
	return &App{
		cfg:     cfg,
		logger:  logger,
		stream:  stream,
		monitor: monitor,
		handler: handler,
		closers: closers,
	}
}

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// A failed first connect is not fatal: the monitor classifies the
	// unavailable feed into its fallback and the stream keeps reconnecting.
	if err := a.stream.Connect(ctx); err != nil {
		a.logger.Warn("oracle connect failed, starting degraded", xlogger.Error(err))
	}
	go a.stream.Run(ctx)
	go a.monitor.Run(ctx)

	srv := xhttp.NewServer(a.handler,
		xhttp.WithPort(a.cfg.Server.Port),
		xhttp.WithTimeouts(a.cfg.Server.ReadTimeout, a.cfg.Server.WriteTimeout, a.cfg.Server.ShutdownTimeout),
	)
	if err := srv.Start(); err != nil {
		return err
	}
	a.logger.Info("pegguard started",
		xlogger.String("env", a.cfg.Environment),
		xlogger.Int("port", a.cfg.Server.Port),
	)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	a.logger.Info("shutting down")
	cancel()

	shutdownTimeout := a.cfg.Server.ShutdownTimeout
	if shutdownTimeout <= 0 {
		shutdownTimeout = 10 * time.Second
	}
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if err := srv.Stop(shutdownCtx); err != nil {
		a.logger.Error("http shutdown failed", xlogger.Error(err))
	}
	if err := a.stream.Close(); err != nil {
		a.logger.Warn("oracle close failed", xlogger.Error(err))
	}
	for _, c := range a.closers {
		if err := c.Close(); err != nil {
			a.logger.Warn("resource close failed", xlogger.Error(err))
		}
	}
	a.logger.Info("stopped")
	return nil
}
