package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/fagaru/fagaru/backend/internal/heat"
	"github.com/fagaru/fagaru/backend/internal/models"
	"github.com/fagaru/fagaru/backend/internal/types"
)

// IAuthService defines the interface for authentication operations
type IAuthService interface {
	Register(ctx context.Context, req *types.RegisterRequest) (*models.User, string, error)
	Login(ctx context.Context, username, password string) (*models.User, string, error)
	Logout(ctx context.Context, claims *types.TokenClaims) error
	ValidateToken(ctx context.Context, token string) (*types.TokenClaims, error)
	GetUserByID(ctx context.Context, userID uuid.UUID) (*models.User, error)
}

// IProfileService defines the interface for user profile operations
type IProfileService interface {
	GetOrCreate(ctx context.Context, userID uuid.UUID) (*models.UserProfile, bool, error)
	Find(ctx context.Context, userID uuid.UUID) (*models.UserProfile, error)
	Update(ctx context.Context, userID uuid.UUID, req *types.UpdateProfileRequest) (*models.UserProfile, error)
	UpdateLocation(ctx context.Context, userID uuid.UUID, lat, lng float64, city string) (*models.UserProfile, error)
	Stats(ctx context.Context, userID uuid.UUID) (*types.UserStats, error)
}

// IWeatherService defines ingestion and weather queries
type IWeatherService interface {
	UpdateAllCities(ctx context.Context) (*types.UpdateSummary, error)
	UpdateCity(ctx context.Context, name string) (*types.UpdateSummary, error)
	Current(ctx context.Context) ([]models.WeatherData, error)
	Latest(ctx context.Context, city string) (*models.WeatherData, error)
	CityDetail(ctx context.Context, city string) (*types.CityWeatherDetail, error)
	History(ctx context.Context, city string, days int) ([]models.WeatherData, error)
	Forecast(ctx context.Context, city string) (*types.CityForecast, error)
	HeatAlerts(ctx context.Context) ([]types.WeatherAlert, error)
	Statistics(ctx context.Context) (*types.WeatherStatistics, error)
	List(ctx context.Context, filters *models.WeatherFilters) ([]models.WeatherData, int64, error)
	Probe(ctx context.Context, city string) (*types.ProviderProbe, error)
}

// IAlertService defines alert generation and alert queries
type IAlertService interface {
	GenerateAlerts(ctx context.Context, cities []string) ([]models.Alert, error)
	DeactivateExpired(ctx context.Context) (int64, error)
	Active(ctx context.Context, city string) ([]models.Alert, error)
	ForCity(ctx context.Context, city string) ([]models.Alert, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Alert, error)
	Statistics(ctx context.Context) (*types.AlertStatistics, error)
}

// INotificationService defines notification fan-out and inbox operations
type INotificationService interface {
	FanOut(ctx context.Context, alert *models.Alert) (int, error)
	List(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.AlertNotification, int64, error)
	MarkRead(ctx context.Context, userID, id uuid.UUID) error
}

// IRecommendationService defines recommendation lookups
type IRecommendationService interface {
	List(ctx context.Context, profileType string, level heat.Level, language string) ([]models.Recommendation, error)
	Personalized(ctx context.Context, userID uuid.UUID, level heat.Level) (*types.PersonalizedRecommendations, error)
}

// IReportService defines community report operations
type IReportService interface {
	Create(ctx context.Context, userID uuid.UUID, req *types.CreateReportRequest) (*models.CommunityReport, error)
	List(ctx context.Context, filters *models.ReportFilters) ([]models.CommunityReport, int64, error)
	SetVerified(ctx context.Context, id uuid.UUID, verified bool) error
}

// ICityService defines reference city lookups
type ICityService interface {
	List(ctx context.Context, region string, priorityOnly bool) ([]models.SenegalCity, error)
	Tracked(ctx context.Context) ([]models.SenegalCity, error)
	Find(ctx context.Context, name string) (*models.SenegalCity, error)
}

// ISettingsService defines key-value settings access
type ISettingsService interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	All(ctx context.Context) (map[string]string, error)
}
