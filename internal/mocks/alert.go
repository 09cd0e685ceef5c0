package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/fagaru/fagaru/backend/internal/heat"
	"github.com/fagaru/fagaru/backend/internal/models"
	"github.com/fagaru/fagaru/backend/internal/service"
	"github.com/fagaru/fagaru/backend/internal/types"
)

var (
	_ service.IAlertService          = (*MockAlertService)(nil)
	_ service.INotificationService   = (*MockNotificationService)(nil)
	_ service.IRecommendationService = (*MockRecommendationService)(nil)
	_ service.IReportService         = (*MockReportService)(nil)
)

type MockAlertService struct {
	mock.Mock
}

func (m *MockAlertService) GenerateAlerts(ctx context.Context, cities []string) ([]models.Alert, error) {
	args := m.Called(ctx, cities)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Alert), args.Error(1)
}

func (m *MockAlertService) DeactivateExpired(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockAlertService) Active(ctx context.Context, city string) ([]models.Alert, error) {
	args := m.Called(ctx, city)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Alert), args.Error(1)
}

func (m *MockAlertService) ForCity(ctx context.Context, city string) ([]models.Alert, error) {
	args := m.Called(ctx, city)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Alert), args.Error(1)
}

func (m *MockAlertService) Get(ctx context.Context, id uuid.UUID) (*models.Alert, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Alert), args.Error(1)
}

func (m *MockAlertService) Statistics(ctx context.Context) (*types.AlertStatistics, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.AlertStatistics), args.Error(1)
}

type MockNotificationService struct {
	mock.Mock
}

func (m *MockNotificationService) FanOut(ctx context.Context, alert *models.Alert) (int, error) {
	args := m.Called(ctx, alert)
	return args.Int(0), args.Error(1)
}

func (m *MockNotificationService) List(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.AlertNotification, int64, error) {
	args := m.Called(ctx, userID, limit, offset)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]models.AlertNotification), args.Get(1).(int64), args.Error(2)
}

func (m *MockNotificationService) MarkRead(ctx context.Context, userID, id uuid.UUID) error {
	args := m.Called(ctx, userID, id)
	return args.Error(0)
}

type MockRecommendationService struct {
	mock.Mock
}

func (m *MockRecommendationService) List(ctx context.Context, profileType string, level heat.Level, language string) ([]models.Recommendation, error) {
	args := m.Called(ctx, profileType, level, language)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Recommendation), args.Error(1)
}

func (m *MockRecommendationService) Personalized(ctx context.Context, userID uuid.UUID, level heat.Level) (*types.PersonalizedRecommendations, error) {
	args := m.Called(ctx, userID, level)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.PersonalizedRecommendations), args.Error(1)
}

type MockReportService struct {
	mock.Mock
}

func (m *MockReportService) Create(ctx context.Context, userID uuid.UUID, req *types.CreateReportRequest) (*models.CommunityReport, error) {
	args := m.Called(ctx, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CommunityReport), args.Error(1)
}

func (m *MockReportService) List(ctx context.Context, filters *models.ReportFilters) ([]models.CommunityReport, int64, error) {
	args := m.Called(ctx, filters)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]models.CommunityReport), args.Get(1).(int64), args.Error(2)
}

func (m *MockReportService) SetVerified(ctx context.Context, id uuid.UUID, verified bool) error {
	args := m.Called(ctx, id, verified)
	return args.Error(0)
}
