package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fagaru/fagaru/backend/internal/heat"
)

// SourceOpenWeatherMap is the default provider tag on weather rows.
const SourceOpenWeatherMap = "openweathermap"

// WeatherData is one observation per city per calendar day.
type WeatherData struct {
	ID             uuid.UUID  `gorm:"type:varchar(36);primarykey" json:"id"`
	City           string     `gorm:"size:100;not null;uniqueIndex:idx_weather_city_day,priority:1" json:"city"`
	Latitude       float64    `json:"latitude"`
	Longitude      float64    `json:"longitude"`
	Temperature    float64    `json:"temperature"`
	TemperatureMax float64    `json:"temperature_max"`
	TemperatureMin float64    `json:"temperature_min"`
	FeelsLike      float64    `json:"feels_like"`
	Humidity       int        `json:"humidity"`
	Description    string     `gorm:"size:200" json:"description"`
	AlertLevel     heat.Level `gorm:"size:10;not null;default:'green';index" json:"alert_level"`
	Source         string     `gorm:"size:50;not null;default:'openweathermap'" json:"source"`
	RecordedAt     time.Time  `gorm:"not null;index" json:"recorded_at"`
	RecordedDate   string     `gorm:"size:10;not null;uniqueIndex:idx_weather_city_day,priority:2" json:"-"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"-"`
}

// TableName returns the table name for the WeatherData model
func (WeatherData) TableName() string {
	return "weather_data"
}

func (w *WeatherData) BeforeCreate(tx *gorm.DB) error {
	ensureID(&w.ID)
	return nil
}

// DayKey formats the calendar day used for the (city, day) uniqueness key.
func DayKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// WeatherFilters represents filters for listing weather rows
type WeatherFilters struct {
	City       string
	AlertLevel string
	Limit      int
	Offset     int
}
