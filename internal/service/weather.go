package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/fagaru/fagaru/backend/internal/database"
	"github.com/fagaru/fagaru/backend/internal/heat"
	"github.com/fagaru/fagaru/backend/internal/metrics"
	"github.com/fagaru/fagaru/backend/internal/models"
	"github.com/fagaru/fagaru/backend/internal/openweather"
	"github.com/fagaru/fagaru/backend/internal/types"
)

// City history shown next to the current reading.
const (
	detailHistoryDays  = 7
	detailHistoryLimit = 24
)

// WeatherProvider fetches observations from the external weather API.
type WeatherProvider interface {
	Current(ctx context.Context, lat, lon float64) (*openweather.Observation, error)
	Forecast(ctx context.Context, lat, lon float64) ([]openweather.ForecastEntry, error)
}

// WeatherService ingests provider readings and answers weather queries.
type WeatherService struct {
	db       *gorm.DB
	provider WeatherProvider
	cities   ICityService
	settings ISettingsService
	clock    clockwork.Clock
	metrics  *metrics.Metrics
	logger   *slog.Logger
}

var _ IWeatherService = (*WeatherService)(nil)

func NewWeatherService(db *gorm.DB, provider WeatherProvider, cities ICityService, settings ISettingsService, clock clockwork.Clock, m *metrics.Metrics, logger *slog.Logger) *WeatherService {
	return &WeatherService{
		db:       db,
		provider: provider,
		cities:   cities,
		settings: settings,
		clock:    clock,
		metrics:  m,
		logger:   logger,
	}
}

// UpdateAllCities ingests current conditions for every tracked city.
// Per-city failures end up in the summary, not in the returned error.
func (s *WeatherService) UpdateAllCities(ctx context.Context) (*types.UpdateSummary, error) {
	cities, err := s.cities.Tracked(ctx)
	if err != nil {
		return nil, err
	}
	return s.update(ctx, cities), nil
}

// UpdateCity ingests current conditions for a single known city.
func (s *WeatherService) UpdateCity(ctx context.Context, name string) (*types.UpdateSummary, error) {
	city, err := s.cities.Find(ctx, name)
	if err != nil {
		return nil, err
	}
	return s.update(ctx, []models.SenegalCity{*city}), nil
}

func (s *WeatherService) update(ctx context.Context, cities []models.SenegalCity) *types.UpdateSummary {
	summary := &types.UpdateSummary{
		UpdatedCities: []string{},
		Errors:        []string{},
	}

	for _, city := range cities {
		row, err := s.ingest(ctx, city)
		if err != nil {
			s.metrics.WeatherUpdates.WithLabelValues("error").Inc()
			s.logger.Warn("weather update failed", "city", city.Name, "error", err)
			summary.Errors = append(summary.Errors, fmt.Sprintf("%s: %v", city.Name, err))
			continue
		}

		s.metrics.WeatherUpdates.WithLabelValues("success").Inc()
		s.metrics.CityTemperature.WithLabelValues(city.Name).Set(row.TemperatureMax)
		s.logger.Info("weather updated", "city", city.Name, "temperature_max", row.TemperatureMax, "alert_level", row.AlertLevel)
		summary.UpdatedCities = append(summary.UpdatedCities, city.Name)
	}
	summary.TotalUpdated = len(summary.UpdatedCities)

	if err := s.settings.Set(ctx, database.SettingWeatherUpdate, s.clock.Now().UTC().Format(time.RFC3339)); err != nil {
		s.logger.Warn("failed to record weather update time", "error", err)
	}
	return summary
}

func (s *WeatherService) ingest(ctx context.Context, city models.SenegalCity) (*models.WeatherData, error) {
	obs, err := s.provider.Current(ctx, city.Latitude, city.Longitude)
	if err != nil {
		return nil, err
	}

	row := &models.WeatherData{
		City:           city.Name,
		Latitude:       city.Latitude,
		Longitude:      city.Longitude,
		Temperature:    obs.Temperature,
		TemperatureMax: obs.TemperatureMax,
		TemperatureMin: obs.TemperatureMin,
		FeelsLike:      obs.FeelsLike,
		Humidity:       obs.Humidity,
		Description:    obs.Description,
		AlertLevel:     heat.Classify(obs.TemperatureMax),
		Source:         models.SourceOpenWeatherMap,
		RecordedAt:     s.clock.Now().UTC(),
	}
	if err := s.Upsert(ctx, row); err != nil {
		return nil, err
	}
	return row, nil
}

// Upsert stores row as the reading of its city for the calendar day of
// RecordedAt, overwriting an earlier reading of the same day. On return row
// holds the stored reading, including its persisted id.
func (s *WeatherService) Upsert(ctx context.Context, row *models.WeatherData) error {
	row.RecordedAt = row.RecordedAt.UTC()
	row.RecordedDate = models.DayKey(row.RecordedAt)
	if row.Source == "" {
		row.Source = models.SourceOpenWeatherMap
	}

	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "city"}, {Name: "recorded_date"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"latitude", "longitude", "temperature", "temperature_max", "temperature_min",
			"feels_like", "humidity", "description", "alert_level", "source", "recorded_at", "updated_at",
		}),
	}).Create(row).Error
	if err != nil {
		return fmt.Errorf("failed to upsert weather data: %w", err)
	}

	// On conflict the existing row keeps its id; reload so row matches storage.
	var stored models.WeatherData
	if err := s.db.WithContext(ctx).
		Where("city = ? AND recorded_date = ?", row.City, row.RecordedDate).
		First(&stored).Error; err != nil {
		return fmt.Errorf("failed to reload weather data: %w", err)
	}
	*row = stored
	return nil
}

// Current returns the latest reading of every priority city that has one.
func (s *WeatherService) Current(ctx context.Context) ([]models.WeatherData, error) {
	cities, err := s.cities.Tracked(ctx)
	if err != nil {
		return nil, err
	}

	rows := make([]models.WeatherData, 0, len(cities))
	for _, city := range cities {
		row, err := s.Latest(ctx, city.Name)
		if errors.Is(err, ErrNoWeatherData) {
			continue
		}
		if err != nil {
			return nil, err
		}
		rows = append(rows, *row)
	}
	return rows, nil
}

// Latest returns the most recent reading for city, ignoring case.
func (s *WeatherService) Latest(ctx context.Context, city string) (*models.WeatherData, error) {
	var row models.WeatherData
	err := s.cityQuery(ctx, city).Order("recorded_at DESC").First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNoWeatherData
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get latest weather: %w", err)
	}
	return &row, nil
}

// CityDetail returns the latest reading and up to 24 readings of the last week.
func (s *WeatherService) CityDetail(ctx context.Context, city string) (*types.CityWeatherDetail, error) {
	latest, err := s.Latest(ctx, city)
	if err != nil {
		return nil, err
	}

	since := s.clock.Now().UTC().AddDate(0, 0, -detailHistoryDays)
	var history []models.WeatherData
	err = s.cityQuery(ctx, city).
		Where("recorded_at >= ?", since).
		Order("recorded_at DESC").
		Limit(detailHistoryLimit).
		Find(&history).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get weather history: %w", err)
	}

	return &types.CityWeatherDetail{
		Current: types.NewWeatherResponse(latest),
		History: types.NewWeatherResponses(history),
	}, nil
}

// History returns readings of the last days days, oldest first.
func (s *WeatherService) History(ctx context.Context, city string, days int) ([]models.WeatherData, error) {
	since := s.clock.Now().UTC().AddDate(0, 0, -days)

	var rows []models.WeatherData
	err := s.cityQuery(ctx, city).
		Where("recorded_at >= ?", since).
		Order("recorded_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get weather history: %w", err)
	}
	if len(rows) == 0 {
		return nil, ErrNoWeatherData
	}
	return rows, nil
}

// Forecast fetches the provider forecast for a known city and classifies each slot.
func (s *WeatherService) Forecast(ctx context.Context, name string) (*types.CityForecast, error) {
	city, err := s.cities.Find(ctx, name)
	if err != nil {
		return nil, err
	}

	entries, err := s.provider.Forecast(ctx, city.Latitude, city.Longitude)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch forecast for %s: %w", city.Name, err)
	}

	out := &types.CityForecast{City: city.Name, Forecast: make([]types.ForecastItem, len(entries))}
	for i, e := range entries {
		out.Forecast[i] = types.ForecastItem{
			DateTime:       e.Time,
			Temperature:    e.Temperature,
			TemperatureMax: e.TemperatureMax,
			TemperatureMin: e.TemperatureMin,
			FeelsLike:      e.FeelsLike,
			Humidity:       e.Humidity,
			Description:    e.Description,
			AlertLevel:     heat.Classify(e.TemperatureMax),
		}
	}
	return out, nil
}

// HeatAlerts lists the latest reading of each city when it is above green,
// most severe first.
func (s *WeatherService) HeatAlerts(ctx context.Context) ([]types.WeatherAlert, error) {
	var rows []models.WeatherData
	err := s.db.WithContext(ctx).
		Where("recorded_at = (SELECT MAX(w2.recorded_at) FROM weather_data w2 WHERE w2.city = weather_data.city)").
		Where("alert_level <> ?", heat.Green).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get heat alerts: %w", err)
	}

	alerts := []types.WeatherAlert{}
	for _, row := range rows {
		if !row.AlertLevel.IsAlert() {
			continue
		}
		alerts = append(alerts, types.WeatherAlert{
			City:            row.City,
			AlertLevel:      row.AlertLevel,
			AlertColor:      row.AlertLevel.Color(),
			Temperature:     row.Temperature,
			TemperatureMax:  row.TemperatureMax,
			Message:         weatherAlertMessage(row.AlertLevel, row.City, row.TemperatureMax),
			Recommendations: weatherAdvice[row.AlertLevel],
			RecordedAt:      row.RecordedAt,
		})
	}

	sort.SliceStable(alerts, func(i, j int) bool {
		if alerts[i].AlertLevel.Rank() != alerts[j].AlertLevel.Rank() {
			return alerts[i].AlertLevel.Rank() > alerts[j].AlertLevel.Rank()
		}
		return alerts[i].TemperatureMax > alerts[j].TemperatureMax
	})
	return alerts, nil
}

// Statistics summarizes today's readings.
func (s *WeatherService) Statistics(ctx context.Context) (*types.WeatherStatistics, error) {
	rows, err := s.today(ctx)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrNoWeatherData
	}

	stats := &types.WeatherStatistics{TotalCities: len(rows)}
	for i, row := range rows {
		if row.AlertLevel.IsAlert() {
			stats.CitiesInAlert++
		}
		if i == 0 || row.TemperatureMax > stats.HighestTemp {
			stats.HighestTemp = row.TemperatureMax
			stats.HottestCity = row.City
		}
		if row.RecordedAt.After(stats.LastUpdated) {
			stats.LastUpdated = row.RecordedAt
		}
	}

	if v, ok, err := s.settings.Get(ctx, database.SettingWeatherUpdate); err == nil && ok {
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			stats.LastIngestion = &t
		}
	}
	return stats, nil
}

// List returns weather rows filtered by city substring and alert level, newest first.
func (s *WeatherService) List(ctx context.Context, filters *models.WeatherFilters) ([]models.WeatherData, int64, error) {
	query := s.db.WithContext(ctx).Model(&models.WeatherData{})
	if filters != nil {
		if filters.City != "" {
			query = query.Where(like("LOWER(city)"), likePattern(filters.City))
		}
		if filters.AlertLevel != "" {
			query = query.Where("alert_level = ?", filters.AlertLevel)
		}
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count weather data: %w", err)
	}

	limit, offset := 50, 0
	if filters != nil {
		limit, offset = clampLimit(filters.Limit), filters.Offset
	}

	var rows []models.WeatherData
	if err := query.Order("recorded_at DESC").Limit(limit).Offset(offset).Find(&rows).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list weather data: %w", err)
	}
	return rows, total, nil
}

// Probe fetches current conditions for a known city without storing them.
func (s *WeatherService) Probe(ctx context.Context, name string) (*types.ProviderProbe, error) {
	city, err := s.cities.Find(ctx, name)
	if err != nil {
		return nil, err
	}

	obs, err := s.provider.Current(ctx, city.Latitude, city.Longitude)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch weather for %s: %w", city.Name, err)
	}

	return &types.ProviderProbe{
		City:           city.Name,
		Latitude:       city.Latitude,
		Longitude:      city.Longitude,
		Temperature:    obs.Temperature,
		TemperatureMax: obs.TemperatureMax,
		TemperatureMin: obs.TemperatureMin,
		FeelsLike:      obs.FeelsLike,
		Humidity:       obs.Humidity,
		Description:    obs.Description,
		AlertLevel:     heat.Classify(obs.TemperatureMax),
		FetchedAt:      s.clock.Now().UTC(),
	}, nil
}

func (s *WeatherService) today(ctx context.Context) ([]models.WeatherData, error) {
	var rows []models.WeatherData
	err := s.db.WithContext(ctx).
		Where("recorded_date = ?", models.DayKey(s.clock.Now())).
		Order("city").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get today's weather: %w", err)
	}
	return rows, nil
}

func (s *WeatherService) cityQuery(ctx context.Context, city string) *gorm.DB {
	return s.db.WithContext(ctx).Where("LOWER(city) = ?", strings.ToLower(strings.TrimSpace(city)))
}

var weatherAdvice = map[heat.Level][]string{
	heat.Yellow: {
		"Buvez de l'eau régulièrement",
		"Évitez l'exposition au soleil entre 12h et 16h",
		"Portez des vêtements légers et clairs",
	},
	heat.Orange: {
		"Buvez au moins 2 litres d'eau par jour",
		"Restez à l'ombre ou dans un endroit frais",
		"Limitez les activités physiques",
		"Surveillez les personnes vulnérables",
	},
	heat.Red: {
		"Restez à l'intérieur aux heures chaudes",
		"Buvez de l'eau toutes les heures",
		"Rafraîchissez-vous le corps plusieurs fois par jour",
		"Appelez le 1515 en cas de malaise",
	},
}

func weatherAlertMessage(level heat.Level, city string, tempMax float64) string {
	var risk string
	switch level {
	case heat.Red:
		risk = "danger extrême"
	case heat.Orange:
		risk = "forte chaleur dangereuse"
	default:
		risk = "chaleur importante"
	}
	return fmt.Sprintf("%s : %s à %s, %.1f°C attendus.", level.Label(), risk, city, tempMax)
}
