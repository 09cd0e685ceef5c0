package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	"github.com/fagaru/fagaru/backend/config"
	"github.com/fagaru/fagaru/backend/internal/database"
	"github.com/fagaru/fagaru/backend/internal/logging"
)

func main() {
	seed := flag.Bool("seed", false, "Insert reference data after migrating")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}
	logger := logging.New(cfg.LogLevel, cfg.LogFormat)

	db, err := database.Open(cfg, logger)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	if err := database.RunMigrations(db); err != nil {
		logger.Error("migration failed", "error", err)
		os.Exit(1)
	}
	logger.Info("migrations applied")

	if *seed {
		if err := database.Seed(context.Background(), db); err != nil {
			logger.Error("seeding failed", "error", err)
			os.Exit(1)
		}
		logger.Info("reference data seeded")
	}
}
