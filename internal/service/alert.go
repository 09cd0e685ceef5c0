package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"gorm.io/gorm"

	"github.com/fagaru/fagaru/backend/internal/events"
	"github.com/fagaru/fagaru/backend/internal/heat"
	"github.com/fagaru/fagaru/backend/internal/metrics"
	"github.com/fagaru/fagaru/backend/internal/models"
	"github.com/fagaru/fagaru/backend/internal/types"
)

const (
	// Only readings newer than this feed alert generation.
	generationWindow = 2 * time.Hour
	alertValidity    = 24 * time.Hour
)

type alertTemplate struct {
	title   string
	message string
}

var alertTemplates = map[heat.Level]alertTemplate{
	heat.Yellow: {
		title:   "Vigilance Jaune - Forte Chaleur",
		message: "Températures élevées prévues. Buvez régulièrement et évitez le soleil aux heures chaudes.",
	},
	heat.Orange: {
		title:   "Vigilance Orange - Danger Chaleur",
		message: "Vague de chaleur dangereuse. Limitez les sorties entre 12h et 16h et veillez sur les personnes vulnérables.",
	},
	heat.Red: {
		title:   "Vigilance Rouge - Danger Extrême",
		message: "Canicule extrême. Ne sortez pas sans nécessité, restez au frais et consultez un médecin en cas de malaise.",
	},
}

// AlertService turns recent weather readings into alerts and answers alert queries.
type AlertService struct {
	db            *gorm.DB
	notifications INotificationService
	publisher     events.Publisher
	clock         clockwork.Clock
	metrics       *metrics.Metrics
	logger        *slog.Logger
}

var _ IAlertService = (*AlertService)(nil)

func NewAlertService(db *gorm.DB, notifications INotificationService, publisher events.Publisher, clock clockwork.Clock, m *metrics.Metrics, logger *slog.Logger) *AlertService {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &AlertService{
		db:            db,
		notifications: notifications,
		publisher:     publisher,
		clock:         clock,
		metrics:       m,
		logger:        logger,
	}
}

// GenerateAlerts creates at most one alert per city, severity and day from
// readings of the last two hours. A nil cities slice means every city.
func (s *AlertService) GenerateAlerts(ctx context.Context, cities []string) ([]models.Alert, error) {
	now := s.clock.Now().UTC()

	query := s.db.WithContext(ctx).Where("recorded_at >= ?", now.Add(-generationWindow))
	if len(cities) > 0 {
		lowered := make([]string, len(cities))
		for i, c := range cities {
			lowered[i] = strings.ToLower(strings.TrimSpace(c))
		}
		query = query.Where("LOWER(city) IN ?", lowered)
	}

	var rows []models.WeatherData
	if err := query.Order("recorded_at DESC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to get recent weather: %w", err)
	}

	latest := latestPerCity(rows)
	created := []models.Alert{}
	for i := range latest {
		alert, err := s.createIfNeeded(ctx, &latest[i], now)
		if err != nil {
			return created, err
		}
		if alert != nil {
			created = append(created, *alert)
		}
	}
	return created, nil
}

func (s *AlertService) createIfNeeded(ctx context.Context, row *models.WeatherData, now time.Time) (*models.Alert, error) {
	level := heat.Classify(row.TemperatureMax)
	if !level.IsAlert() {
		return nil, nil
	}

	exists, err := s.hasAlertToday(ctx, level, row.City, now)
	if err != nil {
		return nil, err
	}
	if exists {
		s.logger.Info("alert already active", "city", row.City, "severity", level)
		return nil, nil
	}

	tmpl := alertTemplates[level]
	end := now.Add(alertValidity)
	alert := &models.Alert{
		Title:          fmt.Sprintf("%s - %s", tmpl.title, row.City),
		Message:        fmt.Sprintf("%s Température maximale prévue: %.1f°C", tmpl.message, row.TemperatureMax),
		AlertType:      models.AlertTypeHeatWave,
		Severity:       level,
		AffectedCities: models.StringArray{row.City},
		StartTime:      now,
		EndTime:        &end,
		IsActive:       true,
	}
	if err := s.db.WithContext(ctx).Create(alert).Error; err != nil {
		return nil, fmt.Errorf("failed to create alert for %s: %w", row.City, err)
	}
	s.metrics.AlertsCreated.WithLabelValues(string(level)).Inc()
	s.logger.Info("alert created", "alert_id", alert.ID, "city", row.City, "severity", level, "temperature_max", row.TemperatureMax)

	notified, err := s.notifications.FanOut(ctx, alert)
	if err != nil {
		s.logger.Error("failed to fan out alert", "alert_id", alert.ID, "error", err)
	}

	event := events.AlertEvent{
		Type:           events.TypeAlertCreated,
		AlertID:        alert.ID,
		Severity:       string(alert.Severity),
		Title:          alert.Title,
		AffectedCities: alert.AffectedCities,
		StartTime:      alert.StartTime,
		EndTime:        alert.EndTime,
		Notified:       notified,
	}
	if err := s.publisher.PublishAlert(ctx, event); err != nil {
		s.metrics.EventPublishFailures.Inc()
		s.logger.Warn("failed to publish alert event", "alert_id", alert.ID, "error", err)
	}
	return alert, nil
}

func (s *AlertService) hasAlertToday(ctx context.Context, level heat.Level, city string, now time.Time) (bool, error) {
	start, end := dayBounds(now)
	query := s.db.WithContext(ctx).Model(&models.Alert{}).
		Where("severity = ? AND is_active = ?", level, true).
		Where("start_time >= ? AND start_time < ?", start, end)

	var count int64
	if err := containsCity(query, city).Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check existing alerts: %w", err)
	}
	return count > 0, nil
}

// DeactivateExpired switches off active alerts whose end time has passed.
func (s *AlertService) DeactivateExpired(ctx context.Context) (int64, error) {
	result := s.db.WithContext(ctx).
		Model(&models.Alert{}).
		Where("is_active = ? AND end_time < ?", true, s.clock.Now().UTC()).
		Update("is_active", false)
	if result.Error != nil {
		return 0, fmt.Errorf("failed to deactivate expired alerts: %w", result.Error)
	}

	s.metrics.AlertsDeactivated.Add(float64(result.RowsAffected))
	s.logger.Info("expired alerts deactivated", "count", result.RowsAffected)
	return result.RowsAffected, nil
}

// Active returns alerts in force now, optionally restricted to city.
// Nationwide alerts match every city.
func (s *AlertService) Active(ctx context.Context, city string) ([]models.Alert, error) {
	query := activeAt(s.db.WithContext(ctx), s.clock.Now().UTC())
	if strings.TrimSpace(city) != "" {
		query = containsCityOrNationwide(query, city)
	}

	var alerts []models.Alert
	if err := query.Order("start_time DESC").Find(&alerts).Error; err != nil {
		return nil, fmt.Errorf("failed to list active alerts: %w", err)
	}
	return alerts, nil
}

// ForCity returns alerts in force now whose affected cities mention city.
func (s *AlertService) ForCity(ctx context.Context, city string) ([]models.Alert, error) {
	query := containsCity(activeAt(s.db.WithContext(ctx), s.clock.Now().UTC()), city)

	var alerts []models.Alert
	if err := query.Order("start_time DESC").Find(&alerts).Error; err != nil {
		return nil, fmt.Errorf("failed to list city alerts: %w", err)
	}
	return alerts, nil
}

func (s *AlertService) Get(ctx context.Context, id uuid.UUID) (*models.Alert, error) {
	var alert models.Alert
	err := s.db.WithContext(ctx).First(&alert, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrAlertNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get alert: %w", err)
	}
	return &alert, nil
}

// Statistics counts active alerts per severity plus today's activity.
func (s *AlertService) Statistics(ctx context.Context) (*types.AlertStatistics, error) {
	now := s.clock.Now().UTC()
	start, end := dayBounds(now)
	db := s.db.WithContext(ctx)
	stats := &types.AlertStatistics{}

	var bySeverity []struct {
		Severity heat.Level
		Count    int64
	}
	err := activeAt(db.Model(&models.Alert{}), now).
		Select("severity, COUNT(*) AS count").
		Group("severity").
		Scan(&bySeverity).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count active alerts: %w", err)
	}
	for _, row := range bySeverity {
		stats.TotalActiveAlerts += row.Count
		switch row.Severity {
		case heat.Yellow:
			stats.Yellow = row.Count
		case heat.Orange:
			stats.Orange = row.Count
		case heat.Red:
			stats.Red = row.Count
		}
	}

	counts := []struct {
		dst   *int64
		query *gorm.DB
	}{
		{&stats.TotalAlertsToday, db.Model(&models.Alert{}).Where("created_at >= ? AND created_at < ?", start, end)},
		{&stats.TotalNotificationsToday, db.Model(&models.AlertNotification{}).Where("sent_at >= ? AND sent_at < ?", start, end)},
		{&stats.TotalReports, db.Model(&models.CommunityReport{})},
		{&stats.VerifiedReports, db.Model(&models.CommunityReport{}).Where("is_verified = ?", true)},
	}
	for _, c := range counts {
		if err := c.query.Count(c.dst).Error; err != nil {
			return nil, fmt.Errorf("failed to compute alert statistics: %w", err)
		}
	}
	return stats, nil
}

// latestPerCity keeps the first row seen per city (case-insensitive) from
// rows sorted newest first, returned in city order.
func latestPerCity(rows []models.WeatherData) []models.WeatherData {
	seen := make(map[string]struct{}, len(rows))
	out := make([]models.WeatherData, 0, len(rows))
	for _, row := range rows {
		key := strings.ToLower(row.City)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, row)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].City < out[j].City })
	return out
}
