package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/jonboulle/clockwork"

	"github.com/fagaru/fagaru/backend/internal/models"
	"github.com/fagaru/fagaru/backend/internal/service"
	"github.com/fagaru/fagaru/backend/internal/types"
)

const (
	defaultHistoryDays = 7
	maxHistoryDays     = 90
	defaultProbeCity   = "Dakar"
)

// WeatherHandler serves stored readings, the provider passthroughs and
// manual ingestion.
type WeatherHandler struct {
	weather service.IWeatherService
	cities  service.ICityService
	clock   clockwork.Clock
}

func NewWeatherHandler(weather service.IWeatherService, cities service.ICityService, clock clockwork.Clock) *WeatherHandler {
	return &WeatherHandler{weather: weather, cities: cities, clock: clock}
}

func (h *WeatherHandler) Current(c *gin.Context) {
	rows, err := h.weather.Current(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"count":  len(rows),
		"cities": types.NewWeatherResponses(rows),
	})
}

func (h *WeatherHandler) City(c *gin.Context) {
	city := c.Param("name")
	detail, err := h.weather.CityDetail(c.Request.Context(), city)
	if errors.Is(err, service.ErrNoWeatherData) {
		respondNotFound(c, fmt.Sprintf("no weather data for %s", city))
		return
	}
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

func (h *WeatherHandler) History(c *gin.Context) {
	city := c.Param("name")

	days := defaultHistoryDays
	if raw := c.Query("days"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > maxHistoryDays {
			respondFields(c, FieldErrors{"days": fmt.Sprintf("Ensure this value is an integer between 1 and %d.", maxHistoryDays)})
			return
		}
		days = n
	}

	rows, err := h.weather.History(c.Request.Context(), city, days)
	if errors.Is(err, service.ErrNoWeatherData) {
		respondNotFound(c, fmt.Sprintf("no weather history for %s", city))
		return
	}
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, types.WeatherHistory{
		City:       city,
		PeriodDays: days,
		DataPoints: len(rows),
		History:    types.NewWeatherResponses(rows),
	})
}

func (h *WeatherHandler) Forecast(c *gin.Context) {
	forecast, err := h.weather.Forecast(c.Request.Context(), c.Param("name"))
	if err != nil {
		h.respondProviderError(c, err)
		return
	}
	c.JSON(http.StatusOK, forecast)
}

func (h *WeatherHandler) Alerts(c *gin.Context) {
	alerts, err := h.weather.HeatAlerts(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"alerts":                alerts,
		"total_cities_in_alert": len(alerts),
		"last_updated":          h.clock.Now().UTC(),
	})
}

func (h *WeatherHandler) Statistics(c *gin.Context) {
	stats, err := h.weather.Statistics(c.Request.Context())
	if errors.Is(err, service.ErrNoWeatherData) {
		respondNotFound(c, "no weather data for today")
		return
	}
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *WeatherHandler) Cities(c *gin.Context) {
	cities, err := h.cities.List(c.Request.Context(), c.Query("region"), c.Query("priority") == "true")
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"count":  len(cities),
		"cities": cities,
	})
}

func (h *WeatherHandler) Data(c *gin.Context) {
	page, ok := parsePage(c)
	if !ok {
		return
	}

	rows, total, err := h.weather.List(c.Request.Context(), &models.WeatherFilters{
		City:       c.Query("city"),
		AlertLevel: c.Query("alert_level"),
		Limit:      page.Size,
		Offset:     page.Offset(),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	respondPage(c, page, total, types.NewWeatherResponses(rows))
}

// Update runs one ingestion pass over the tracked cities.
func (h *WeatherHandler) Update(c *gin.Context) {
	summary, err := h.weather.UpdateAllCities(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":        "Mise à jour terminée",
		"updated_cities": summary.UpdatedCities,
		"errors":         summary.Errors,
		"total_updated":  summary.TotalUpdated,
	})
}

// Test fetches current conditions for one city from the provider without storing them.
func (h *WeatherHandler) Test(c *gin.Context) {
	probe, err := h.weather.Probe(c.Request.Context(), c.DefaultQuery("city", defaultProbeCity))
	if err != nil {
		h.respondProviderError(c, err)
		return
	}
	c.JSON(http.StatusOK, probe)
}

func (h *WeatherHandler) respondProviderError(c *gin.Context, err error) {
	if errors.Is(err, service.ErrCityNotFound) {
		respondNotFound(c, err.Error())
		return
	}
	_ = c.Error(err)
	c.JSON(http.StatusBadGateway, gin.H{"error": "weather provider unavailable"})
}
