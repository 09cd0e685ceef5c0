// Package openweather is a small client for the OpenWeatherMap 2.5 API.
package openweather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/fagaru/fagaru/backend/internal/metrics"
)

// DefaultBaseURL is the public OpenWeatherMap endpoint.
const DefaultBaseURL = "https://api.openweathermap.org/data/2.5"

// ForecastLimit caps the number of three-hour forecast slots returned.
const ForecastLimit = 15

// ErrMissingAPIKey is returned when no API key was configured.
var ErrMissingAPIKey = errors.New("missing API key")

// Observation is a normalized current-conditions reading. Temperatures are
// in °C rounded to one decimal.
type Observation struct {
	Temperature    float64 `json:"temperature"`
	TemperatureMax float64 `json:"temperature_max"`
	TemperatureMin float64 `json:"temperature_min"`
	FeelsLike      float64 `json:"feels_like"`
	Humidity       int     `json:"humidity"`
	Description    string  `json:"description"`
}

// ForecastEntry is one three-hour forecast slot.
type ForecastEntry struct {
	Time time.Time `json:"datetime"`
	Observation
}

// Client implements the weather provider using OpenWeatherMap.
type Client struct {
	apiKey     string
	httpClient *http.Client
	baseURL    string
	metrics    *metrics.Metrics
	logger     *slog.Logger
}

// NewClient creates an OpenWeatherMap client. An empty baseURL selects DefaultBaseURL.
func NewClient(apiKey, baseURL string, timeout time.Duration, m *metrics.Metrics, logger *slog.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		apiKey: apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: baseURL,
		metrics: m,
		logger:  logger,
	}
}

// Current fetches current conditions at the given coordinates.
func (c *Client) Current(ctx context.Context, lat, lon float64) (*Observation, error) {
	var resp currentResponse
	if err := c.get(ctx, "weather", lat, lon, &resp); err != nil {
		return nil, err
	}
	if resp.Main == nil {
		return nil, errors.New("malformed response: missing main block")
	}

	obs, err := resp.Main.observation()
	if err != nil {
		return nil, err
	}
	obs.Description = firstDescription(resp.Weather)
	return &obs, nil
}

// Forecast fetches the three-hour forecast, keeping the first ForecastLimit slots.
func (c *Client) Forecast(ctx context.Context, lat, lon float64) ([]ForecastEntry, error) {
	var resp forecastResponse
	if err := c.get(ctx, "forecast", lat, lon, &resp); err != nil {
		return nil, err
	}

	entries := make([]ForecastEntry, 0, ForecastLimit)
	for _, item := range resp.List {
		if len(entries) == ForecastLimit {
			break
		}
		if item.Main == nil {
			return nil, errors.New("malformed response: forecast entry without main block")
		}
		obs, err := item.Main.observation()
		if err != nil {
			return nil, fmt.Errorf("forecast entry %d: %w", item.Dt, err)
		}
		obs.Description = firstDescription(item.Weather)
		entries = append(entries, ForecastEntry{
			Time:        time.Unix(item.Dt, 0).UTC(),
			Observation: obs,
		})
	}
	return entries, nil
}

func (c *Client) get(ctx context.Context, endpoint string, lat, lon float64, out any) error {
	if c.apiKey == "" {
		return ErrMissingAPIKey
	}

	params := url.Values{
		"lat":   {strconv.FormatFloat(lat, 'f', -1, 64)},
		"lon":   {strconv.FormatFloat(lon, 'f', -1, 64)},
		"appid": {c.apiKey},
		"units": {"metric"},
		"lang":  {"fr"},
	}
	fullURL := fmt.Sprintf("%s/%s?%s", c.baseURL, endpoint, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if c.metrics != nil {
		c.metrics.ProviderRequestDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	}
	if err != nil {
		return fmt.Errorf("%s request: %w", endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("openweathermap API error: status %d: %s", resp.StatusCode, body)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	c.logger.Debug("weather provider call", "endpoint", endpoint, "lat", lat, "lon", lon)
	return nil
}

// OpenWeatherMap API response types.

type currentResponse struct {
	Main    *mainBlock    `json:"main"`
	Weather []weatherItem `json:"weather"`
}

type forecastResponse struct {
	List []struct {
		Dt      int64         `json:"dt"`
		Main    *mainBlock    `json:"main"`
		Weather []weatherItem `json:"weather"`
	} `json:"list"`
}

// mainBlock uses pointers so absent keys can be told apart from zero readings.
type mainBlock struct {
	Temp      *float64 `json:"temp"`
	TempMax   *float64 `json:"temp_max"`
	TempMin   *float64 `json:"temp_min"`
	FeelsLike *float64 `json:"feels_like"`
	Humidity  *int     `json:"humidity"`
}

type weatherItem struct {
	Description string `json:"description"`
}

func (m *mainBlock) observation() (Observation, error) {
	var missing []string
	for _, f := range []struct {
		key string
		v   *float64
	}{
		{"temp", m.Temp},
		{"temp_max", m.TempMax},
		{"temp_min", m.TempMin},
		{"feels_like", m.FeelsLike},
	} {
		if f.v == nil {
			missing = append(missing, f.key)
		}
	}
	if m.Humidity == nil {
		missing = append(missing, "humidity")
	}
	if len(missing) > 0 {
		return Observation{}, fmt.Errorf("malformed response: main block missing %s", strings.Join(missing, ", "))
	}

	return Observation{
		Temperature:    round1(*m.Temp),
		TemperatureMax: round1(*m.TempMax),
		TemperatureMin: round1(*m.TempMin),
		FeelsLike:      round1(*m.FeelsLike),
		Humidity:       *m.Humidity,
	}, nil
}

func firstDescription(items []weatherItem) string {
	if len(items) == 0 {
		return ""
	}
	return items[0].Description
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
