// Package app assembles the services shared by the command binaries.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/fagaru/fagaru/backend/config"
	"github.com/fagaru/fagaru/backend/internal/api"
	"github.com/fagaru/fagaru/backend/internal/database"
	"github.com/fagaru/fagaru/backend/internal/events"
	"github.com/fagaru/fagaru/backend/internal/metrics"
	"github.com/fagaru/fagaru/backend/internal/middleware"
	"github.com/fagaru/fagaru/backend/internal/openweather"
	"github.com/fagaru/fagaru/backend/internal/scheduler"
	"github.com/fagaru/fagaru/backend/internal/service"
)

// App holds the connections and services built from one Config.
type App struct {
	Config   *config.Config
	Logger   *slog.Logger
	Clock    clockwork.Clock
	DB       *gorm.DB
	Redis    *redis.Client
	Metrics  *metrics.Metrics
	Registry *prometheus.Registry

	Publisher events.Publisher
	Services  api.Services
	Reports   *service.ReportService
	Scheduler *scheduler.Scheduler
}

// New opens the database, migrates it and wires every service. Redis and
// Kafka are optional: without Redis revoked tokens are kept in memory and
// report submissions are not limited; without brokers events are dropped.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	a := &App{
		Config:   cfg,
		Logger:   logger,
		Clock:    clockwork.NewRealClock(),
		Registry: prometheus.NewRegistry(),
	}
	a.Registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	a.Metrics = metrics.NewMetricsWithRegistry(a.Registry)

	db, err := database.Open(cfg, logger)
	if err != nil {
		return nil, err
	}
	a.DB = db
	if err := database.RunMigrations(db); err != nil {
		a.Close()
		return nil, err
	}
	if cfg.SeedOnStart {
		if err := database.Seed(ctx, db); err != nil {
			a.Close()
			return nil, err
		}
	}

	var denylist service.TokenDenylist = service.NewMemoryDenylist()
	if cfg.RedisURL != "" {
		client, err := database.NewRedisClient(ctx, cfg)
		if err != nil {
			a.Close()
			return nil, err
		}
		a.Redis = client
		denylist = service.NewRedisDenylist(client)
	} else {
		logger.Warn("REDIS_URL not set, revoked tokens are kept in memory")
	}

	a.Publisher = events.NopPublisher{}
	if len(cfg.KafkaBrokers) > 0 {
		a.Publisher = events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaAlertsTopic)
		logger.Info("publishing alert events", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaAlertsTopic)
	}

	provider := openweather.NewClient(cfg.OpenWeatherAPIKey, cfg.OpenWeatherBaseURL, cfg.OpenWeatherTimeout, a.Metrics, logger)
	cities := service.NewCityService(db)
	settings := service.NewSettingsService(db)
	profiles := service.NewProfileService(db)
	notifications := service.NewNotificationService(db, service.NewLogNotifier(logger), a.Clock, a.Metrics, logger)
	weather := service.NewWeatherService(db, provider, cities, settings, a.Clock, a.Metrics, logger)
	alerts := service.NewAlertService(db, notifications, a.Publisher, a.Clock, a.Metrics, logger)
	a.Reports = service.NewReportService(db, a.Metrics, logger)

	a.Services = api.Services{
		Auth:            service.NewAuthService(db, cfg.JWTSecret, cfg.JWTExpiry, denylist, a.Clock),
		Profiles:        profiles,
		Weather:         weather,
		Cities:          cities,
		Alerts:          alerts,
		Notifications:   notifications,
		Recommendations: service.NewRecommendationService(db, profiles),
		Reports:         a.Reports,
	}
	a.Scheduler = scheduler.New(weather, alerts, a.Clock, a.Metrics, logger)

	return a, nil
}

// RouteOptions returns the route settings derived from the configuration.
func (a *App) RouteOptions() api.RouteOptions {
	opts := api.RouteOptions{
		Clock:         a.Clock,
		AuthRateLimit: a.Config.AuthRateLimit,
		Ready: func(ctx context.Context) error {
			return database.HealthCheck(ctx, a.DB)
		},
	}
	if a.Redis != nil && a.Config.ReportRateLimit > 0 {
		opts.ReportLimiter = middleware.NewReportRateLimiter(a.Redis, a.Config.ReportRateLimit, a.Clock, a.Logger)
	}
	return opts
}

// Close releases every connection New opened.
func (a *App) Close() error {
	var errs []error
	if a.Publisher != nil {
		errs = append(errs, a.Publisher.Close())
	}
	if a.Redis != nil {
		errs = append(errs, a.Redis.Close())
	}
	if a.DB != nil {
		if sqlDB, err := a.DB.DB(); err == nil {
			errs = append(errs, sqlDB.Close())
		}
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("failed to close app: %w", err)
	}
	return nil
}
