package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fagaru/fagaru/backend/config"
	"github.com/fagaru/fagaru/backend/internal/app"
	"github.com/fagaru/fagaru/backend/internal/logging"
	"github.com/fagaru/fagaru/backend/internal/server"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}
	logger := logging.New(cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(logger)

	a, err := app.New(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	srv, err := server.New(cfg, server.Deps{
		Services: a.Services,
		Routes:   a.RouteOptions(),
		Metrics:  a.Metrics,
		Gatherer: a.Registry,
		Logger:   logger,
	})
	if err != nil {
		return err
	}

	if cfg.WeatherUpdateSchedule != "" {
		if err := a.Scheduler.Schedule(ctx, cfg.WeatherUpdateSchedule); err != nil {
			return err
		}
		a.Scheduler.Start()
		defer a.Scheduler.Stop()
	}

	// Channel to listen for errors coming from the server
	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	// Block until we receive a signal or error
	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
		logger.Info("shutting down server")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	logger.Info("server stopped")
	return nil
}
