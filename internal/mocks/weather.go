package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/fagaru/fagaru/backend/internal/models"
	"github.com/fagaru/fagaru/backend/internal/service"
	"github.com/fagaru/fagaru/backend/internal/types"
)

var (
	_ service.IWeatherService = (*MockWeatherService)(nil)
	_ service.ICityService    = (*MockCityService)(nil)
)

type MockWeatherService struct {
	mock.Mock
}

func (m *MockWeatherService) UpdateAllCities(ctx context.Context) (*types.UpdateSummary, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.UpdateSummary), args.Error(1)
}

func (m *MockWeatherService) UpdateCity(ctx context.Context, name string) (*types.UpdateSummary, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.UpdateSummary), args.Error(1)
}

func (m *MockWeatherService) Current(ctx context.Context) ([]models.WeatherData, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.WeatherData), args.Error(1)
}

func (m *MockWeatherService) Latest(ctx context.Context, city string) (*models.WeatherData, error) {
	args := m.Called(ctx, city)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.WeatherData), args.Error(1)
}

func (m *MockWeatherService) CityDetail(ctx context.Context, city string) (*types.CityWeatherDetail, error) {
	args := m.Called(ctx, city)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.CityWeatherDetail), args.Error(1)
}

func (m *MockWeatherService) History(ctx context.Context, city string, days int) ([]models.WeatherData, error) {
	args := m.Called(ctx, city, days)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.WeatherData), args.Error(1)
}

func (m *MockWeatherService) Forecast(ctx context.Context, city string) (*types.CityForecast, error) {
	args := m.Called(ctx, city)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.CityForecast), args.Error(1)
}

func (m *MockWeatherService) HeatAlerts(ctx context.Context) ([]types.WeatherAlert, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.WeatherAlert), args.Error(1)
}

func (m *MockWeatherService) Statistics(ctx context.Context) (*types.WeatherStatistics, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.WeatherStatistics), args.Error(1)
}

func (m *MockWeatherService) List(ctx context.Context, filters *models.WeatherFilters) ([]models.WeatherData, int64, error) {
	args := m.Called(ctx, filters)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]models.WeatherData), args.Get(1).(int64), args.Error(2)
}

func (m *MockWeatherService) Probe(ctx context.Context, city string) (*types.ProviderProbe, error) {
	args := m.Called(ctx, city)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.ProviderProbe), args.Error(1)
}

type MockCityService struct {
	mock.Mock
}

func (m *MockCityService) List(ctx context.Context, region string, priorityOnly bool) ([]models.SenegalCity, error) {
	args := m.Called(ctx, region, priorityOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.SenegalCity), args.Error(1)
}

func (m *MockCityService) Tracked(ctx context.Context) ([]models.SenegalCity, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.SenegalCity), args.Error(1)
}

func (m *MockCityService) Find(ctx context.Context, name string) (*models.SenegalCity, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SenegalCity), args.Error(1)
}
