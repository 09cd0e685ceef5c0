package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fagaru/fagaru/backend/internal/metrics"
	"github.com/fagaru/fagaru/backend/internal/models"
	"github.com/fagaru/fagaru/backend/internal/types"
)

// ReportService stores and lists community heat reports.
type ReportService struct {
	db      *gorm.DB
	metrics *metrics.Metrics
	logger  *slog.Logger
}

var _ IReportService = (*ReportService)(nil)

func NewReportService(db *gorm.DB, m *metrics.Metrics, logger *slog.Logger) *ReportService {
	return &ReportService{db: db, metrics: m, logger: logger}
}

// Create stores an unverified report by userID. Water access defaults to true.
func (s *ReportService) Create(ctx context.Context, userID uuid.UUID, req *types.CreateReportRequest) (*models.CommunityReport, error) {
	report := &models.CommunityReport{
		UserID:          userID,
		Latitude:        *req.Latitude,
		Longitude:       *req.Longitude,
		City:            strings.TrimSpace(req.City),
		Symptoms:        req.Symptoms,
		Description:     req.Description,
		TemperatureFelt: *req.TemperatureFelt,
		HasWaterAccess:  true,
	}
	if req.HasShade != nil {
		report.HasShade = *req.HasShade
	}
	if req.HasWaterAccess != nil {
		report.HasWaterAccess = *req.HasWaterAccess
	}

	if err := s.db.WithContext(ctx).Create(report).Error; err != nil {
		return nil, fmt.Errorf("failed to create report: %w", err)
	}

	s.metrics.CommunityReports.Inc()
	s.logger.Info("community report created", "report_id", report.ID, "city", report.City, "symptoms", report.Symptoms)
	return report, nil
}

// List returns reports newest first, filtered by city substring, verification
// state and author.
func (s *ReportService) List(ctx context.Context, filters *models.ReportFilters) ([]models.CommunityReport, int64, error) {
	if filters == nil {
		filters = &models.ReportFilters{}
	}

	query := s.db.WithContext(ctx).Model(&models.CommunityReport{})
	if filters.City != "" {
		query = query.Where(like("LOWER(city)"), likePattern(filters.City))
	}
	if filters.VerifiedOnly {
		query = query.Where("is_verified = ?", true)
	}
	if filters.UserID != nil {
		query = query.Where("user_id = ?", *filters.UserID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count reports: %w", err)
	}

	var reports []models.CommunityReport
	err := query.Order("created_at DESC").
		Limit(clampLimit(filters.Limit)).
		Offset(filters.Offset).
		Find(&reports).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list reports: %w", err)
	}
	return reports, total, nil
}

// SetVerified records the moderation outcome of a report.
func (s *ReportService) SetVerified(ctx context.Context, id uuid.UUID, verified bool) error {
	result := s.db.WithContext(ctx).
		Model(&models.CommunityReport{}).
		Where("id = ?", id).
		Update("is_verified", verified)
	if result.Error != nil {
		return fmt.Errorf("failed to update report: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrReportNotFound
	}
	return nil
}
