// Package metrics defines the Prometheus instruments exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "fagaru"

// Metrics holds the Prometheus counters, histograms, and gauges for the service.
type Metrics struct {
	// HTTP metrics.
	HTTPRequests        *prometheus.CounterVec   // labels: method, path, status
	HTTPRequestDuration *prometheus.HistogramVec // labels: method, path

	// Ingestion metrics.
	WeatherUpdates          *prometheus.CounterVec // labels: outcome={success,error}
	ProviderRequestDuration *prometheus.HistogramVec
	CityTemperature         *prometheus.GaugeVec // labels: city

	// Alerting metrics.
	AlertsCreated        *prometheus.CounterVec // labels: severity
	AlertsDeactivated    prometheus.Counter
	NotificationsCreated prometheus.Counter
	NotificationFailures prometheus.Counter
	EventPublishFailures prometheus.Counter
	CommunityReports     prometheus.Counter
	UpdateCycleDuration  prometheus.Histogram
}

func build() *Metrics {
	return &Metrics{
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status.",
		}, []string{"method", "path", "status"}),
		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by method and route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "path"}),
		WeatherUpdates: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "weather_updates_total",
			Help:      "Per-city weather ingestion attempts by outcome.",
		}, []string{"outcome"}),
		ProviderRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "weather_provider_request_duration_seconds",
			Help:      "Weather provider request duration by endpoint.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"endpoint"}),
		CityTemperature: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "city_temperature_max_celsius",
			Help:      "Latest ingested maximum temperature per city.",
		}, []string{"city"}),
		AlertsCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "alerts_created_total",
			Help:      "Heat alerts created by severity.",
		}, []string{"severity"}),
		AlertsDeactivated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "alerts_deactivated_total",
			Help:      "Alerts deactivated by the expiry sweep.",
		}),
		NotificationsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notifications_created_total",
			Help:      "Alert notifications fanned out to users.",
		}),
		NotificationFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notification_failures_total",
			Help:      "Per-user notification failures during fan-out.",
		}),
		EventPublishFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "event_publish_failures_total",
			Help:      "Alert events that could not be published.",
		}),
		CommunityReports: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "community_reports_total",
			Help:      "Community reports submitted.",
		}),
		UpdateCycleDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "update_cycle_duration_seconds",
			Help:      "Duration of an ingestion, generation and sweep cycle.",
			Buckets:   []float64{0.5, 1, 2.5, 5, 10, 30, 60, 120},
		}),
	}
}

func (m *Metrics) collectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.HTTPRequests,
		m.HTTPRequestDuration,
		m.WeatherUpdates,
		m.ProviderRequestDuration,
		m.CityTemperature,
		m.AlertsCreated,
		m.AlertsDeactivated,
		m.NotificationsCreated,
		m.NotificationFailures,
		m.EventPublishFailures,
		m.CommunityReports,
		m.UpdateCycleDuration,
	}
}

// NewMetrics creates and registers all metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := build()
	prometheus.MustRegister(m.collectors()...)
	return m
}

// NewMetricsWithRegistry registers all metrics with reg.
func NewMetricsWithRegistry(reg prometheus.Registerer) *Metrics {
	m := build()
	reg.MustRegister(m.collectors()...)
	return m
}

// NewMetricsForTesting creates Metrics that are not registered anywhere, so
// tests can build as many as they like.
func NewMetricsForTesting() *Metrics {
	return build()
}
