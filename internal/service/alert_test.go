package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fagaru/fagaru/backend/internal/events"
	"github.com/fagaru/fagaru/backend/internal/heat"
	"github.com/fagaru/fagaru/backend/internal/models"
	"github.com/fagaru/fagaru/backend/internal/service"
	"github.com/fagaru/fagaru/backend/internal/testhelpers"
)

func TestGenerateAlertsIsIdempotentWithinDay(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	testhelpers.CreateWeather(t, env.db, "Dakar", 41, testNow.Add(-30*time.Minute))
	testhelpers.CreateUser(t, env.db, "awa", "Dakar", true)

	created, err := env.alerts.GenerateAlerts(ctx, nil)
	require.NoError(t, err)
	require.Len(t, created, 1)

	alert := created[0]
	assert.Equal(t, heat.Orange, alert.Severity)
	assert.Equal(t, "Vigilance Orange - Danger Chaleur - Dakar", alert.Title)
	assert.Contains(t, alert.Message, "Température maximale prévue: 41.0°C")
	assert.Equal(t, models.StringArray{"Dakar"}, alert.AffectedCities)
	assert.Equal(t, models.AlertTypeHeatWave, alert.AlertType)
	assert.True(t, alert.IsActive)
	assert.Equal(t, testNow, alert.StartTime)
	require.NotNil(t, alert.EndTime)
	assert.Equal(t, testNow.Add(24*time.Hour), *alert.EndTime)

	env.clock.Advance(time.Hour)
	again, err := env.alerts.GenerateAlerts(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, again)

	var alerts, notifications int64
	require.NoError(t, env.db.Model(&models.Alert{}).Count(&alerts).Error)
	require.NoError(t, env.db.Model(&models.AlertNotification{}).Count(&notifications).Error)
	assert.Equal(t, int64(1), alerts)
	assert.Equal(t, int64(1), notifications)

	require.Len(t, env.publisher.events, 1)
	event := env.publisher.events[0]
	assert.Equal(t, events.TypeAlertCreated, event.Type)
	assert.Equal(t, alert.ID, event.AlertID)
	assert.Equal(t, 1, event.Notified)
}

func TestGenerateAlertsNewSeverityStillCreates(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	testhelpers.CreateAlert(t, env.db, heat.Yellow, []string{"Dakar"}, testNow.Add(-2*time.Hour), testhelpers.TimePtr(testNow.Add(22*time.Hour)), true)
	testhelpers.CreateWeather(t, env.db, "Dakar", 45.2, testNow)

	created, err := env.alerts.GenerateAlerts(ctx, nil)
	require.NoError(t, err)
	require.Len(t, created, 1)
	assert.Equal(t, heat.Red, created[0].Severity)
}

func TestGenerateAlertsSkipsGreenAndStaleReadings(t *testing.T) {
	env := newTestEnv(t)
	testhelpers.CreateWeather(t, env.db, "Dakar", 34.9, testNow)
	testhelpers.CreateWeather(t, env.db, "Matam", 46, testNow.Add(-3*time.Hour))

	created, err := env.alerts.GenerateAlerts(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, created)
	assert.Empty(t, env.publisher.events)
}

func TestGenerateAlertsRestrictedToCities(t *testing.T) {
	env := newTestEnv(t)
	testhelpers.CreateWeather(t, env.db, "Dakar", 41, testNow)
	testhelpers.CreateWeather(t, env.db, "Matam", 46, testNow)

	created, err := env.alerts.GenerateAlerts(context.Background(), []string{"matam"})
	require.NoError(t, err)
	require.Len(t, created, 1)
	assert.Equal(t, models.StringArray{"Matam"}, created[0].AffectedCities)
}

func TestGenerateAlertsSurvivesPublishFailure(t *testing.T) {
	env := newTestEnv(t)
	env.publisher.err = assert.AnError
	testhelpers.CreateWeather(t, env.db, "Podor", 38, testNow)

	created, err := env.alerts.GenerateAlerts(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, created, 1)
	assert.Equal(t, heat.Yellow, created[0].Severity)
}

func TestDeactivateExpired(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	expired := testhelpers.CreateAlert(t, env.db, heat.Red, []string{"Matam"}, testNow.Add(-48*time.Hour), testhelpers.TimePtr(testNow.Add(-24*time.Hour)), true)
	current := testhelpers.CreateAlert(t, env.db, heat.Orange, []string{"Dakar"}, testNow.Add(-time.Hour), testhelpers.TimePtr(testNow.Add(23*time.Hour)), true)
	openEnded := testhelpers.CreateAlert(t, env.db, heat.Yellow, []string{"Podor"}, testNow.Add(-time.Hour), nil, true)

	count, err := env.alerts.DeactivateExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	for _, tc := range []struct {
		alert  *models.Alert
		active bool
	}{
		{expired, false},
		{current, true},
		{openEnded, true},
	} {
		got, err := env.alerts.Get(ctx, tc.alert.ID)
		require.NoError(t, err)
		assert.Equal(t, tc.active, got.IsActive, got.Title)
	}

	count, err = env.alerts.DeactivateExpired(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestActiveAlertsFilters(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	end := testhelpers.TimePtr(testNow.Add(12 * time.Hour))

	dakar := testhelpers.CreateAlert(t, env.db, heat.Orange, []string{"Dakar"}, testNow.Add(-time.Hour), end, true)
	nationwide := testhelpers.CreateAlert(t, env.db, heat.Yellow, []string{}, testNow.Add(-time.Hour), nil, true)
	testhelpers.CreateAlert(t, env.db, heat.Red, []string{"Matam"}, testNow.Add(-time.Hour), end, true)
	testhelpers.CreateAlert(t, env.db, heat.Red, []string{"Dakar"}, testNow.Add(-time.Hour), end, false)
	testhelpers.CreateAlert(t, env.db, heat.Red, []string{"Dakar"}, testNow.Add(time.Hour), end, true)
	testhelpers.CreateAlert(t, env.db, heat.Red, []string{"Dakar"}, testNow.Add(-48*time.Hour), testhelpers.TimePtr(testNow.Add(-time.Minute)), true)

	all, err := env.alerts.Active(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	forAka, err := env.alerts.Active(ctx, "aka")
	require.NoError(t, err)
	assert.ElementsMatch(t, []uuid.UUID{dakar.ID, nationwide.ID}, alertIDs(forAka))

	forCity, err := env.alerts.ForCity(ctx, "DAKAR")
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{dakar.ID}, alertIDs(forCity))
}

func TestAlertCityFilterMatchesWildcardsLiterally(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	end := testhelpers.TimePtr(testNow.Add(12 * time.Hour))

	testhelpers.CreateAlert(t, env.db, heat.Red, []string{"Matam"}, testNow.Add(-time.Hour), end, true)
	testhelpers.CreateAlert(t, env.db, heat.Orange, []string{"Dakar"}, testNow.Add(-time.Hour), end, true)
	nationwide := testhelpers.CreateAlert(t, env.db, heat.Yellow, []string{}, testNow.Add(-time.Hour), end, true)

	for _, city := range []string{"%", "_", "M_t_m", `\`} {
		forCity, err := env.alerts.ForCity(ctx, city)
		require.NoError(t, err)
		assert.Empty(t, forCity, "ForCity(%q)", city)

		active, err := env.alerts.Active(ctx, city)
		require.NoError(t, err)
		assert.Equal(t, []uuid.UUID{nationwide.ID}, alertIDs(active), "Active(%q)", city)
	}
}

func TestGetAlertNotFound(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.alerts.Get(context.Background(), uuid.New())
	assert.ErrorIs(t, err, service.ErrAlertNotFound)
}

func TestAlertStatistics(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	end := testhelpers.TimePtr(testNow.Add(12 * time.Hour))

	a := testhelpers.CreateAlert(t, env.db, heat.Orange, []string{"Dakar"}, testNow.Add(-time.Hour), end, true)
	testhelpers.CreateAlert(t, env.db, heat.Orange, []string{"Thiès"}, testNow.Add(-time.Hour), end, true)
	testhelpers.CreateAlert(t, env.db, heat.Red, []string{"Matam"}, testNow.Add(-time.Hour), end, true)
	testhelpers.CreateAlert(t, env.db, heat.Yellow, []string{"Podor"}, testNow.Add(-48*time.Hour), testhelpers.TimePtr(testNow.Add(-24*time.Hour)), false)

	user := testhelpers.CreateUser(t, env.db, "moussa", "Dakar", true)
	_, err := env.notifications.FanOut(ctx, a)
	require.NoError(t, err)

	lat, lng, felt := 14.7, -17.4, 43.0
	report, err := env.reports.Create(ctx, user.ID, newReportRequest(lat, lng, felt))
	require.NoError(t, err)
	require.NoError(t, env.reports.SetVerified(ctx, report.ID, true))
	_, err = env.reports.Create(ctx, user.ID, newReportRequest(lat, lng, felt))
	require.NoError(t, err)

	stats, err := env.alerts.Statistics(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.TotalActiveAlerts)
	assert.Equal(t, int64(0), stats.Yellow)
	assert.Equal(t, int64(2), stats.Orange)
	assert.Equal(t, int64(1), stats.Red)
	assert.Equal(t, int64(3), stats.TotalAlertsToday)
	assert.Equal(t, int64(1), stats.TotalNotificationsToday)
	assert.Equal(t, int64(2), stats.TotalReports)
	assert.Equal(t, int64(1), stats.VerifiedReports)
}

func alertIDs(alerts []models.Alert) []uuid.UUID {
	ids := make([]uuid.UUID, len(alerts))
	for i, a := range alerts {
		ids[i] = a.ID
	}
	return ids
}
