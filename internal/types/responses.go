package types

import (
	"time"

	"github.com/google/uuid"

	"github.com/fagaru/fagaru/backend/internal/heat"
	"github.com/fagaru/fagaru/backend/internal/models"
)

// AuthResponse is returned by register and login.
type AuthResponse struct {
	Message string        `json:"message"`
	User    *UserResponse `json:"user"`
	Token   string        `json:"token"`
}

type UserResponse struct {
	ID         uuid.UUID           `json:"id"`
	Username   string              `json:"username"`
	Email      string              `json:"email"`
	FirstName  string              `json:"first_name"`
	LastName   string              `json:"last_name"`
	DateJoined time.Time           `json:"date_joined"`
	Profile    *models.UserProfile `json:"profile"`
}

func NewUserResponse(u *models.User) *UserResponse {
	return &UserResponse{
		ID:         u.ID,
		Username:   u.Username,
		Email:      u.Email,
		FirstName:  u.FirstName,
		LastName:   u.LastName,
		DateJoined: u.CreatedAt,
		Profile:    u.Profile,
	}
}

// AlertSummary is the list form of an alert.
type AlertSummary struct {
	ID             uuid.UUID  `json:"id"`
	Title          string     `json:"title"`
	Severity       heat.Level `json:"severity"`
	SeverityColor  string     `json:"severity_color"`
	AffectedCities []string   `json:"affected_cities"`
	StartTime      time.Time  `json:"start_time"`
	EndTime        *time.Time `json:"end_time"`
}

// AlertDetail is the full form of an alert.
type AlertDetail struct {
	AlertSummary
	Message   string    `json:"message"`
	AlertType string    `json:"alert_type"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func NewAlertSummary(a *models.Alert) AlertSummary {
	cities := []string(a.AffectedCities)
	if cities == nil {
		cities = []string{}
	}
	return AlertSummary{
		ID:             a.ID,
		Title:          a.Title,
		Severity:       a.Severity,
		SeverityColor:  a.SeverityColor(),
		AffectedCities: cities,
		StartTime:      a.StartTime,
		EndTime:        a.EndTime,
	}
}

func NewAlertSummaries(alerts []models.Alert) []AlertSummary {
	out := make([]AlertSummary, len(alerts))
	for i := range alerts {
		out[i] = NewAlertSummary(&alerts[i])
	}
	return out
}

func NewAlertDetail(a *models.Alert) AlertDetail {
	return AlertDetail{
		AlertSummary: NewAlertSummary(a),
		Message:      a.Message,
		AlertType:    a.AlertType,
		IsActive:     a.IsActive,
		CreatedAt:    a.CreatedAt,
		UpdatedAt:    a.UpdatedAt,
	}
}

type NotificationResponse struct {
	ID            uuid.UUID  `json:"id"`
	AlertID       uuid.UUID  `json:"alert"`
	AlertTitle    string     `json:"alert_title"`
	AlertSeverity heat.Level `json:"alert_severity"`
	SentVia       string     `json:"sent_via"`
	SentAt        time.Time  `json:"sent_at"`
	IsRead        bool       `json:"is_read"`
}

func NewNotificationResponses(ns []models.AlertNotification) []NotificationResponse {
	out := make([]NotificationResponse, len(ns))
	for i, n := range ns {
		out[i] = NotificationResponse{
			ID:      n.ID,
			AlertID: n.AlertID,
			SentVia: n.SentVia,
			SentAt:  n.SentAt,
			IsRead:  n.IsRead,
		}
		if n.Alert != nil {
			out[i].AlertTitle = n.Alert.Title
			out[i].AlertSeverity = n.Alert.Severity
		}
	}
	return out
}

// WeatherResponse is a weather row with its display color.
type WeatherResponse struct {
	models.WeatherData
	AlertColor string `json:"alert_color"`
}

func NewWeatherResponse(w *models.WeatherData) WeatherResponse {
	return WeatherResponse{WeatherData: *w, AlertColor: w.AlertLevel.Color()}
}

func NewWeatherResponses(rows []models.WeatherData) []WeatherResponse {
	out := make([]WeatherResponse, len(rows))
	for i := range rows {
		out[i] = NewWeatherResponse(&rows[i])
	}
	return out
}

// UpdateSummary is the outcome of a weather ingestion run.
type UpdateSummary struct {
	UpdatedCities []string `json:"updated_cities"`
	Errors        []string `json:"errors"`
	TotalUpdated  int      `json:"total_updated"`
}

// CityWeatherDetail is the current reading of a city plus its recent history.
type CityWeatherDetail struct {
	Current WeatherResponse   `json:"current"`
	History []WeatherResponse `json:"history"`
}

type WeatherHistory struct {
	City       string            `json:"city"`
	PeriodDays int               `json:"period_days"`
	DataPoints int               `json:"data_points"`
	History    []WeatherResponse `json:"history"`
}

// WeatherAlert is a city currently above the alert threshold.
type WeatherAlert struct {
	City            string     `json:"city"`
	AlertLevel      heat.Level `json:"alert_level"`
	AlertColor      string     `json:"alert_color"`
	Temperature     float64    `json:"temperature"`
	TemperatureMax  float64    `json:"temperature_max"`
	Message         string     `json:"message"`
	Recommendations []string   `json:"recommendations"`
	RecordedAt      time.Time  `json:"recorded_at"`
}

type WeatherStatistics struct {
	TotalCities   int        `json:"total_cities"`
	CitiesInAlert int        `json:"cities_in_alert"`
	HighestTemp   float64    `json:"highest_temp"`
	HottestCity   string     `json:"hottest_city"`
	LastUpdated   time.Time  `json:"last_updated"`
	LastIngestion *time.Time `json:"last_ingestion"`
}

type ForecastItem struct {
	DateTime       time.Time  `json:"datetime"`
	Temperature    float64    `json:"temperature"`
	TemperatureMax float64    `json:"temperature_max"`
	TemperatureMin float64    `json:"temperature_min"`
	FeelsLike      float64    `json:"feels_like"`
	Humidity       int        `json:"humidity"`
	Description    string     `json:"description"`
	AlertLevel     heat.Level `json:"alert_level"`
}

type CityForecast struct {
	City     string         `json:"city"`
	Forecast []ForecastItem `json:"forecast"`
}

// ProviderProbe is the diagnostic passthrough result for one city.
type ProviderProbe struct {
	City           string     `json:"city"`
	Latitude       float64    `json:"latitude"`
	Longitude      float64    `json:"longitude"`
	Temperature    float64    `json:"temperature"`
	TemperatureMax float64    `json:"temperature_max"`
	TemperatureMin float64    `json:"temperature_min"`
	FeelsLike      float64    `json:"feels_like"`
	Humidity       int        `json:"humidity"`
	Description    string     `json:"description"`
	AlertLevel     heat.Level `json:"alert_level"`
	FetchedAt      time.Time  `json:"fetched_at"`
}

type AlertStatistics struct {
	TotalActiveAlerts       int64 `json:"total_active_alerts"`
	Yellow                  int64 `json:"yellow_alerts"`
	Orange                  int64 `json:"orange_alerts"`
	Red                     int64 `json:"red_alerts"`
	TotalAlertsToday        int64 `json:"total_alerts_today"`
	TotalNotificationsToday int64 `json:"total_notifications_today"`
	TotalReports            int64 `json:"total_reports"`
	VerifiedReports         int64 `json:"verified_reports"`
}

type PersonalizedRecommendations struct {
	ProfileType     string                  `json:"profile_type"`
	AlertLevel      heat.Level              `json:"alert_level"`
	Language        string                  `json:"language"`
	Recommendations []models.Recommendation `json:"recommendations"`
}

type UserStats struct {
	NotificationsReceived int64     `json:"notifications_received"`
	UnreadNotifications   int64     `json:"unread_notifications"`
	CommunityReports      int64     `json:"community_reports"`
	MemberSince           time.Time `json:"member_since"`
	ProfileType           string    `json:"profile_type"`
}
