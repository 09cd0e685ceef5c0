package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"gorm.io/gorm"

	"github.com/fagaru/fagaru/backend/internal/metrics"
	"github.com/fagaru/fagaru/backend/internal/models"
)

// Notifier delivers a notification on a channel.
type Notifier interface {
	Notify(ctx context.Context, userID uuid.UUID, alert *models.Alert, channel string) error
}

// LogNotifier records deliveries in the log instead of contacting a push gateway.
type LogNotifier struct {
	logger *slog.Logger
}

func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) Notify(_ context.Context, userID uuid.UUID, alert *models.Alert, channel string) error {
	n.logger.Info("notification sent",
		"user_id", userID,
		"alert_id", alert.ID,
		"severity", alert.Severity,
		"channel", channel,
	)
	return nil
}

// NotificationService fans alerts out to users and serves their inbox.
type NotificationService struct {
	db       *gorm.DB
	notifier Notifier
	clock    clockwork.Clock
	metrics  *metrics.Metrics
	logger   *slog.Logger
}

var _ INotificationService = (*NotificationService)(nil)

func NewNotificationService(db *gorm.DB, notifier Notifier, clock clockwork.Clock, m *metrics.Metrics, logger *slog.Logger) *NotificationService {
	return &NotificationService{db: db, notifier: notifier, clock: clock, metrics: m, logger: logger}
}

// FanOut creates one push notification per user whose profile city contains
// any affected city of alert. Per-user failures are logged and skipped.
func (s *NotificationService) FanOut(ctx context.Context, alert *models.Alert) (int, error) {
	if len(alert.AffectedCities) == 0 {
		return 0, nil
	}

	cities := s.db.Where(like("LOWER(city)"), likePattern(alert.AffectedCities[0]))
	for _, city := range alert.AffectedCities[1:] {
		cities = cities.Or(like("LOWER(city)"), likePattern(city))
	}

	var profiles []models.UserProfile
	err := s.db.WithContext(ctx).
		Where("receive_push = ?", true).
		Where(cities).
		Find(&profiles).Error
	if err != nil {
		return 0, fmt.Errorf("failed to find affected users: %w", err)
	}

	seen := make(map[uuid.UUID]struct{}, len(profiles))
	sent := 0
	for _, p := range profiles {
		if _, ok := seen[p.UserID]; ok {
			continue
		}
		seen[p.UserID] = struct{}{}

		n := &models.AlertNotification{
			AlertID: alert.ID,
			UserID:  p.UserID,
			SentVia: models.ChannelPush,
			SentAt:  s.clock.Now().UTC(),
		}
		if err := s.db.WithContext(ctx).Create(n).Error; err != nil {
			s.metrics.NotificationFailures.Inc()
			s.logger.Error("failed to create notification", "user_id", p.UserID, "alert_id", alert.ID, "error", err)
			continue
		}
		if err := s.notifier.Notify(ctx, p.UserID, alert, n.SentVia); err != nil {
			s.metrics.NotificationFailures.Inc()
			s.logger.Error("failed to deliver notification", "user_id", p.UserID, "alert_id", alert.ID, "error", err)
			continue
		}
		sent++
	}

	s.metrics.NotificationsCreated.Add(float64(sent))
	s.logger.Info("alert fanned out", "alert_id", alert.ID, "notifications", sent)
	return sent, nil
}

// List returns the notifications of userID, newest first, with their alert.
func (s *NotificationService) List(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.AlertNotification, int64, error) {
	query := s.db.WithContext(ctx).Model(&models.AlertNotification{}).Where("user_id = ?", userID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count notifications: %w", err)
	}

	var notifications []models.AlertNotification
	err := query.Preload("Alert").
		Order("sent_at DESC").
		Limit(clampLimit(limit)).
		Offset(offset).
		Find(&notifications).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list notifications: %w", err)
	}
	return notifications, total, nil
}

// MarkRead marks a notification owned by userID as read.
func (s *NotificationService) MarkRead(ctx context.Context, userID, id uuid.UUID) error {
	result := s.db.WithContext(ctx).
		Model(&models.AlertNotification{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("is_read", true)
	if result.Error != nil {
		return fmt.Errorf("failed to mark notification read: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotificationNotFound
	}
	return nil
}
