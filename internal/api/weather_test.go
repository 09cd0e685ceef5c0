package api_test

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/fagaru/fagaru/backend/internal/heat"
	"github.com/fagaru/fagaru/backend/internal/models"
	"github.com/fagaru/fagaru/backend/internal/service"
	"github.com/fagaru/fagaru/backend/internal/types"
)

func reading(city string, tempMax float64) models.WeatherData {
	return models.WeatherData{
		City:           city,
		Temperature:    tempMax - 3,
		TemperatureMax: tempMax,
		AlertLevel:     heat.Classify(tempMax),
		RecordedAt:     testNow,
	}
}

func TestCurrentWeather(t *testing.T) {
	s := newTestServer(t)
	s.weather.On("Current", mock.Anything).
		Return([]models.WeatherData{reading("Matam", 46), reading("Dakar", 31)}, nil).Once()

	w := s.do(t, http.MethodGet, "/api/v1/weather/current", nil, false)

	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.EqualValues(t, 2, body["count"])
	first := body["cities"].([]any)[0].(map[string]any)
	assert.Equal(t, "red", first["alert_level"])
	assert.Equal(t, heat.Red.Color(), first["alert_color"])
}

func TestCityWeather(t *testing.T) {
	s := newTestServer(t)
	s.weather.On("CityDetail", mock.Anything, "Nowhere").Return(nil, service.ErrNoWeatherData).Once()

	w := s.do(t, http.MethodGet, "/api/v1/weather/city/Nowhere", nil, false)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "no weather data for Nowhere", decode(t, w)["error"])
}

func TestWeatherHistory(t *testing.T) {
	t.Run("defaults to a week", func(t *testing.T) {
		s := newTestServer(t)
		s.weather.On("History", mock.Anything, "Podor", 7).
			Return([]models.WeatherData{reading("Podor", 41)}, nil).Once()

		w := s.do(t, http.MethodGet, "/api/v1/weather/city/Podor/history", nil, false)

		require.Equal(t, http.StatusOK, w.Code)
		body := decode(t, w)
		assert.EqualValues(t, 7, body["period_days"])
		assert.EqualValues(t, 1, body["data_points"])
	})

	for _, days := range []string{"0", "91", "week"} {
		t.Run("rejects days="+days, func(t *testing.T) {
			s := newTestServer(t)

			w := s.do(t, http.MethodGet, "/api/v1/weather/city/Podor/history?days="+days, nil, false)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Contains(t, fields(t, w), "days")
		})
	}

	t.Run("no rows", func(t *testing.T) {
		s := newTestServer(t)
		s.weather.On("History", mock.Anything, "Podor", 30).Return(nil, service.ErrNoWeatherData).Once()

		w := s.do(t, http.MethodGet, "/api/v1/weather/city/Podor/history?days=30", nil, false)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestWeatherForecast(t *testing.T) {
	t.Run("provider failure", func(t *testing.T) {
		s := newTestServer(t)
		s.weather.On("Forecast", mock.Anything, "Dakar").Return(nil, errors.New("status 503")).Once()

		w := s.do(t, http.MethodGet, "/api/v1/weather/city/Dakar/forecast", nil, false)

		assert.Equal(t, http.StatusBadGateway, w.Code)
		assert.Equal(t, "weather provider unavailable", decode(t, w)["error"])
	})

	t.Run("unknown city", func(t *testing.T) {
		s := newTestServer(t)
		s.weather.On("Forecast", mock.Anything, "Paris").Return(nil, service.ErrCityNotFound).Once()

		w := s.do(t, http.MethodGet, "/api/v1/weather/city/Paris/forecast", nil, false)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestWeatherAlerts(t *testing.T) {
	s := newTestServer(t)
	s.weather.On("HeatAlerts", mock.Anything).Return([]types.WeatherAlert{
		{City: "Matam", AlertLevel: heat.Red, TemperatureMax: 46},
	}, nil).Once()

	w := s.do(t, http.MethodGet, "/api/v1/weather/alerts", nil, false)

	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.EqualValues(t, 1, body["total_cities_in_alert"])
	assert.Equal(t, "2024-06-01T12:00:00Z", body["last_updated"])
}

func TestWeatherStatistics(t *testing.T) {
	s := newTestServer(t)
	s.weather.On("Statistics", mock.Anything).Return(nil, service.ErrNoWeatherData).Once()

	w := s.do(t, http.MethodGet, "/api/v1/weather/statistics", nil, false)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCities(t *testing.T) {
	s := newTestServer(t)
	s.cities.On("List", mock.Anything, "Saint-Louis", true).
		Return([]models.SenegalCity{{Name: "Podor", Region: "Saint-Louis", IsPriority: true}}, nil).Once()

	w := s.do(t, http.MethodGet, "/api/v1/weather/cities?region=Saint-Louis&priority=true", nil, false)

	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 1, decode(t, w)["count"])
}

func TestWeatherData(t *testing.T) {
	s := newTestServer(t)
	s.weather.On("List", mock.Anything, mock.MatchedBy(func(f *models.WeatherFilters) bool {
		return f.City == "dak" && f.AlertLevel == "yellow" && f.Limit == 2 && f.Offset == 0
	})).Return([]models.WeatherData{reading("Dakar", 36), reading("Dakar", 37)}, int64(5), nil).Once()

	w := s.do(t, http.MethodGet, "/api/v1/weather/data?city=dak&alert_level=yellow&page_size=2", nil, false)

	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.EqualValues(t, 5, body["count"])
	assert.Equal(t, "http://example.com/api/v1/weather/data?alert_level=yellow&city=dak&page=2&page_size=2", body["next"])
}

func TestWeatherUpdate(t *testing.T) {
	s := newTestServer(t)
	s.weather.On("UpdateAllCities", mock.Anything).Return(&types.UpdateSummary{
		UpdatedCities: []string{"Dakar"},
		Errors:        []string{"Matam: status 500"},
		TotalUpdated:  1,
	}, nil).Once()

	w := s.do(t, http.MethodPost, "/api/v1/weather/update", nil, true)

	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.EqualValues(t, 1, body["total_updated"])
	assert.Equal(t, []any{"Matam: status 500"}, body["errors"])
}

func TestWeatherProbe(t *testing.T) {
	s := newTestServer(t)
	s.weather.On("Probe", mock.Anything, "Dakar").
		Return(&types.ProviderProbe{City: "Dakar", Temperature: 30, AlertLevel: heat.Green}, nil).Once()

	w := s.do(t, http.MethodGet, "/api/v1/weather/test", nil, false)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Dakar", decode(t, w)["city"])
}
