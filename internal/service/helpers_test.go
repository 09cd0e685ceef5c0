package service_test

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"gorm.io/gorm"

	"github.com/fagaru/fagaru/backend/internal/database"
	"github.com/fagaru/fagaru/backend/internal/events"
	"github.com/fagaru/fagaru/backend/internal/logging"
	"github.com/fagaru/fagaru/backend/internal/metrics"
	"github.com/fagaru/fagaru/backend/internal/openweather"
	"github.com/fagaru/fagaru/backend/internal/service"
	"github.com/fagaru/fagaru/backend/internal/testhelpers"
)

var testNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

// fakeProvider returns canned observations keyed by latitude.
type fakeProvider struct {
	mu       sync.Mutex
	tempMax  map[float64]float64
	failing  map[float64]error
	forecast []openweather.ForecastEntry
	calls    int
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{tempMax: map[float64]float64{}, failing: map[float64]error{}}
}

func (p *fakeProvider) set(lat, tempMax float64) { p.tempMax[lat] = tempMax }

func (p *fakeProvider) Current(_ context.Context, lat, _ float64) (*openweather.Observation, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++
	if err, ok := p.failing[lat]; ok {
		return nil, err
	}
	t, ok := p.tempMax[lat]
	if !ok {
		t = 30
	}
	return &openweather.Observation{
		Temperature:    t - 2,
		TemperatureMax: t,
		TemperatureMin: t - 10,
		FeelsLike:      t + 1,
		Humidity:       25,
		Description:    "ciel dégagé",
	}, nil
}

func (p *fakeProvider) Forecast(_ context.Context, lat, _ float64) ([]openweather.ForecastEntry, error) {
	if err, ok := p.failing[lat]; ok {
		return nil, err
	}
	return p.forecast, nil
}

// recordingPublisher keeps every published event.
type recordingPublisher struct {
	mu     sync.Mutex
	events []events.AlertEvent
	err    error
}

func (p *recordingPublisher) PublishAlert(_ context.Context, e events.AlertEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return p.err
}

func (p *recordingPublisher) Close() error { return nil }

type testEnv struct {
	db            *gorm.DB
	clock         *clockwork.FakeClock
	provider      *fakeProvider
	publisher     *recordingPublisher
	cities        *service.CityService
	settings      *service.SettingsService
	weather       *service.WeatherService
	notifications *service.NotificationService
	alerts        *service.AlertService
	profiles      *service.ProfileService
	reports       *service.ReportService
	recs          *service.RecommendationService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := testhelpers.SetupTestDB(t)
	clock := clockwork.NewFakeClockAt(testNow)
	m := metrics.NewMetricsForTesting()
	logger := logging.Discard()

	env := &testEnv{
		db:        db,
		clock:     clock,
		provider:  newFakeProvider(),
		publisher: &recordingPublisher{},
	}
	env.cities = service.NewCityService(db)
	env.settings = service.NewSettingsService(db)
	env.weather = service.NewWeatherService(db, env.provider, env.cities, env.settings, clock, m, logger)
	env.notifications = service.NewNotificationService(db, service.NewLogNotifier(logger), clock, m, logger)
	env.alerts = service.NewAlertService(db, env.notifications, env.publisher, clock, m, logger)
	env.profiles = service.NewProfileService(db)
	env.reports = service.NewReportService(db, m, logger)
	env.recs = service.NewRecommendationService(db, env.profiles)
	return env
}

func cityLat(t *testing.T, name string) float64 {
	t.Helper()
	for _, c := range database.DefaultCities {
		if strings.EqualFold(c.Name, name) {
			return c.Latitude
		}
	}
	t.Fatalf("unknown city %s", name)
	return 0
}
