// Package scheduler runs the periodic weather ingestion cycle.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/jonboulle/clockwork"
	"github.com/robfig/cron/v3"

	"github.com/fagaru/fagaru/backend/config"
	"github.com/fagaru/fagaru/backend/internal/metrics"
	"github.com/fagaru/fagaru/backend/internal/models"
	"github.com/fagaru/fagaru/backend/internal/service"
	"github.com/fagaru/fagaru/backend/internal/types"
)

// CycleOptions narrows a cycle to one city or skips alert generation.
type CycleOptions struct {
	City       string
	SkipAlerts bool
}

// CycleResult is the outcome of one ingestion, generation and sweep pass.
type CycleResult struct {
	Update      *types.UpdateSummary
	Alerts      []models.Alert
	Deactivated int64
}

// Scheduler runs update cycles on a cron schedule. Overlapping runs are skipped.
type Scheduler struct {
	cron    *cron.Cron
	weather service.IWeatherService
	alerts  service.IAlertService
	clock   clockwork.Clock
	metrics *metrics.Metrics
	logger  *slog.Logger

	running sync.Mutex
}

func New(weather service.IWeatherService, alerts service.IAlertService, clock clockwork.Clock, m *metrics.Metrics, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		cron:    cron.New(cron.WithParser(config.ScheduleParser)),
		weather: weather,
		alerts:  alerts,
		clock:   clock,
		metrics: m,
		logger:  logger,
	}
}

// Schedule registers the full cycle under a cron expression. Runs use ctx, so cancelling
// it aborts an in-flight cycle.
func (s *Scheduler) Schedule(ctx context.Context, expr string) error {
	_, err := s.cron.AddFunc(expr, func() { s.tick(ctx) })
	if err != nil {
		return fmt.Errorf("failed to schedule weather update %q: %w", expr, err)
	}
	s.logger.Info("weather update scheduled", "schedule", expr)
	return nil
}

func (s *Scheduler) tick(ctx context.Context) {
	if !s.running.TryLock() {
		s.logger.Warn("previous weather update still running, skipping")
		return
	}
	defer s.running.Unlock()

	if _, err := s.RunCycle(ctx, CycleOptions{}); err != nil {
		s.logger.Error("weather update cycle failed", "error", err)
	}
}

// Start starts the cron scheduler
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop stops the scheduler and waits for a running cycle to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}

// RunCycle ingests weather, generates alerts for the cities that were
// updated and deactivates expired alerts, in that order.
func (s *Scheduler) RunCycle(ctx context.Context, opts CycleOptions) (*CycleResult, error) {
	start := s.clock.Now()
	defer func() {
		if s.metrics != nil {
			s.metrics.UpdateCycleDuration.Observe(s.clock.Since(start).Seconds())
		}
	}()

	var (
		summary *types.UpdateSummary
		err     error
	)
	if opts.City != "" {
		summary, err = s.weather.UpdateCity(ctx, opts.City)
	} else {
		summary, err = s.weather.UpdateAllCities(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update weather: %w", err)
	}
	result := &CycleResult{Update: summary}

	if !opts.SkipAlerts && len(summary.UpdatedCities) > 0 {
		alerts, err := s.alerts.GenerateAlerts(ctx, summary.UpdatedCities)
		if err != nil {
			return result, fmt.Errorf("failed to generate alerts: %w", err)
		}
		result.Alerts = alerts
	}

	deactivated, err := s.alerts.DeactivateExpired(ctx)
	if err != nil {
		return result, fmt.Errorf("failed to deactivate expired alerts: %w", err)
	}
	result.Deactivated = deactivated

	s.logger.Info("weather update cycle finished",
		"updated", summary.TotalUpdated,
		"errors", len(summary.Errors),
		"alerts_created", len(result.Alerts),
		"alerts_deactivated", deactivated,
	)
	return result, nil
}
