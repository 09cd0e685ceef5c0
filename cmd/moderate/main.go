// Command moderate marks a community report as verified or unverified.
package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"

	"github.com/google/uuid"

	"github.com/fagaru/fagaru/backend/config"
	"github.com/fagaru/fagaru/backend/internal/app"
	"github.com/fagaru/fagaru/backend/internal/logging"
	"github.com/fagaru/fagaru/backend/internal/service"
)

func main() {
	reportID := flag.String("report", "", "Community report id")
	verified := flag.Bool("verified", true, "Verification status to set")
	flag.Parse()

	id, err := uuid.Parse(*reportID)
	if err != nil {
		slog.Error("invalid --report", "value", *reportID, "error", err)
		os.Exit(2)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}
	logger := logging.New(cfg.LogLevel, cfg.LogFormat)

	a, err := app.New(context.Background(), cfg, logger)
	if err != nil {
		logger.Error("failed to initialize", "error", err)
		os.Exit(1)
	}
	defer a.Close()

	err = a.Reports.SetVerified(context.Background(), id, *verified)
	if errors.Is(err, service.ErrReportNotFound) {
		logger.Error("report not found", "id", id)
		a.Close()
		os.Exit(1)
	}
	if err != nil {
		logger.Error("failed to update report", "error", err)
		a.Close()
		os.Exit(1)
	}
	logger.Info("report updated", "id", id, "verified", *verified)
}
