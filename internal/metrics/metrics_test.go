package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMetricsWithRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetricsWithRegistry(reg)

	m.AlertsCreated.WithLabelValues("red").Inc()
	m.WeatherUpdates.WithLabelValues("success").Add(3)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.AlertsCreated.WithLabelValues("red")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.WeatherUpdates.WithLabelValues("success")))

	families, err := reg.Gather()
	require.NoError(t, err)
	names := make([]string, 0, len(families))
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.Contains(t, names, "fagaru_alerts_created_total")
	assert.Contains(t, names, "fagaru_weather_updates_total")
}

func TestRegisteringTwiceOnOneRegistryPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewMetricsWithRegistry(reg)

	assert.Panics(t, func() { NewMetricsWithRegistry(reg) })
}
