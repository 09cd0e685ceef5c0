package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/fagaru/fagaru/backend/internal/heat"
	"github.com/fagaru/fagaru/backend/internal/logging"
	"github.com/fagaru/fagaru/backend/internal/metrics"
	"github.com/fagaru/fagaru/backend/internal/mocks"
	"github.com/fagaru/fagaru/backend/internal/models"
	"github.com/fagaru/fagaru/backend/internal/types"
)

var testNow = time.Date(2024, 6, 1, 6, 0, 0, 0, time.UTC)

func newScheduler(t *testing.T) (*Scheduler, *mocks.MockWeatherService, *mocks.MockAlertService, *metrics.Metrics) {
	t.Helper()
	weather := new(mocks.MockWeatherService)
	alerts := new(mocks.MockAlertService)
	m := metrics.NewMetricsForTesting()
	t.Cleanup(func() {
		weather.AssertExpectations(t)
		alerts.AssertExpectations(t)
	})
	return New(weather, alerts, clockwork.NewFakeClockAt(testNow), m, logging.Discard()), weather, alerts, m
}

func TestRunCycleOrder(t *testing.T) {
	s, weather, alerts, m := newScheduler(t)
	ctx := context.Background()

	var order []string
	weather.On("UpdateAllCities", ctx).Return(&types.UpdateSummary{
		UpdatedCities: []string{"Dakar", "Matam"},
		Errors:        []string{"Podor: status 500"},
		TotalUpdated:  2,
	}, nil).Run(func(mock.Arguments) { order = append(order, "ingest") }).Once()
	alerts.On("GenerateAlerts", ctx, []string{"Dakar", "Matam"}).
		Return([]models.Alert{{Severity: heat.Red}}, nil).
		Run(func(mock.Arguments) { order = append(order, "generate") }).Once()
	alerts.On("DeactivateExpired", ctx).Return(int64(3), nil).
		Run(func(mock.Arguments) { order = append(order, "sweep") }).Once()

	result, err := s.RunCycle(ctx, CycleOptions{})

	require.NoError(t, err)
	assert.Equal(t, []string{"ingest", "generate", "sweep"}, order)
	assert.Len(t, result.Alerts, 1)
	assert.EqualValues(t, 3, result.Deactivated)
	assert.Equal(t, 1, testutil.CollectAndCount(m.UpdateCycleDuration))
}

func TestRunCycleSingleCitySkipAlerts(t *testing.T) {
	s, weather, alerts, _ := newScheduler(t)
	ctx := context.Background()

	weather.On("UpdateCity", ctx, "Kaolack").
		Return(&types.UpdateSummary{UpdatedCities: []string{"Kaolack"}, TotalUpdated: 1}, nil).Once()
	alerts.On("DeactivateExpired", ctx).Return(int64(0), nil).Once()

	result, err := s.RunCycle(ctx, CycleOptions{City: "Kaolack", SkipAlerts: true})

	require.NoError(t, err)
	assert.Empty(t, result.Alerts)
	alerts.AssertNotCalled(t, "GenerateAlerts", mock.Anything, mock.Anything)
}

func TestRunCycleNothingUpdated(t *testing.T) {
	s, weather, alerts, _ := newScheduler(t)
	ctx := context.Background()

	weather.On("UpdateAllCities", ctx).
		Return(&types.UpdateSummary{UpdatedCities: []string{}, Errors: []string{"Dakar: timeout"}}, nil).Once()
	alerts.On("DeactivateExpired", ctx).Return(int64(1), nil).Once()

	_, err := s.RunCycle(ctx, CycleOptions{})

	require.NoError(t, err)
	alerts.AssertNotCalled(t, "GenerateAlerts", mock.Anything, mock.Anything)
}

func TestRunCycleUnknownCity(t *testing.T) {
	s, weather, _, _ := newScheduler(t)
	ctx := context.Background()

	weather.On("UpdateCity", ctx, "Paris").Return(nil, errors.New("city not found")).Once()

	_, err := s.RunCycle(ctx, CycleOptions{City: "Paris"})

	assert.ErrorContains(t, err, "failed to update weather")
}

func TestScheduleRejectsBadExpression(t *testing.T) {
	s, _, _, _ := newScheduler(t)

	assert.Error(t, s.Schedule(context.Background(), "every now and then"))
	assert.NoError(t, s.Schedule(context.Background(), "@every 1h"))
}
