package testhelpers

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fagaru/fagaru/backend/internal/heat"
	"github.com/fagaru/fagaru/backend/internal/models"
)

// CreateUser inserts a user with a profile in city. Push notifications are
// enabled when push is true.
func CreateUser(t *testing.T, db *gorm.DB, username, city string, push bool) *models.User {
	t.Helper()

	user := &models.User{
		Username:     username,
		Email:        username + "@example.sn",
		PasswordHash: "not-a-real-hash",
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	profile := models.NewUserProfile(user.ID)
	profile.City = city
	profile.ReceivePush = push
	if err := db.Create(profile).Error; err != nil {
		t.Fatalf("failed to create profile: %v", err)
	}
	user.Profile = profile
	return user
}

// CreateWeather inserts a weather row for city recorded at ts.
func CreateWeather(t *testing.T, db *gorm.DB, city string, tempMax float64, ts time.Time) *models.WeatherData {
	t.Helper()

	row := &models.WeatherData{
		City:           city,
		Temperature:    tempMax - 2,
		TemperatureMax: tempMax,
		TemperatureMin: tempMax - 10,
		FeelsLike:      tempMax + 1,
		Humidity:       30,
		Description:    "ciel dégagé",
		AlertLevel:     heat.Classify(tempMax),
		Source:         models.SourceOpenWeatherMap,
		RecordedAt:     ts.UTC(),
		RecordedDate:   models.DayKey(ts),
	}
	if err := db.Create(row).Error; err != nil {
		t.Fatalf("failed to create weather row: %v", err)
	}
	return row
}

// CreateAlert inserts an alert for cities starting at start.
func CreateAlert(t *testing.T, db *gorm.DB, severity heat.Level, cities []string, start time.Time, end *time.Time, active bool) *models.Alert {
	t.Helper()

	alert := &models.Alert{
		Title:          "Alerte " + string(severity),
		Message:        "Test",
		AlertType:      models.AlertTypeHeatWave,
		Severity:       severity,
		AffectedCities: models.StringArray(cities),
		StartTime:      start.UTC(),
		EndTime:        end,
		IsActive:       active,
		CreatedAt:      start.UTC(),
	}
	if err := db.Create(alert).Error; err != nil {
		t.Fatalf("failed to create alert: %v", err)
	}
	return alert
}

// TimePtr returns a pointer to the UTC form of t.
func TimePtr(t time.Time) *time.Time {
	u := t.UTC()
	return &u
}

// MustParseUUID parses s or fails the test.
func MustParseUUID(t *testing.T, s string) uuid.UUID {
	t.Helper()
	id, err := uuid.Parse(s)
	if err != nil {
		t.Fatalf("invalid uuid %q: %v", s, err)
	}
	return id
}
