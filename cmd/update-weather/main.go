// Command update-weather runs one ingestion cycle and exits. It is meant
// to be driven by an external scheduler such as cron or a Kubernetes CronJob.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/fagaru/fagaru/backend/config"
	"github.com/fagaru/fagaru/backend/internal/app"
	"github.com/fagaru/fagaru/backend/internal/logging"
	"github.com/fagaru/fagaru/backend/internal/scheduler"
)

func main() {
	city := flag.String("city", "", "Update a single city instead of every tracked city")
	skipAlerts := flag.Bool("skip-alerts", false, "Ingest weather without generating alerts")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}
	logger := logging.New(cfg.LogLevel, cfg.LogFormat)

	a, err := app.New(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize", "error", err)
		os.Exit(1)
	}
	defer a.Close()

	result, err := a.Scheduler.RunCycle(ctx, scheduler.CycleOptions{City: *city, SkipAlerts: *skipAlerts})
	if err != nil {
		logger.Error("weather update failed", "error", err)
		a.Close()
		os.Exit(1)
	}

	for _, msg := range result.Update.Errors {
		logger.Warn("city not updated", "error", msg)
	}
	for _, alert := range result.Alerts {
		logger.Info("alert created", "title", alert.Title, "severity", alert.Severity)
	}
}
