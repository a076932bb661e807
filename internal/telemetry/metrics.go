package telemetry

import (
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

const (
	meterName = "github.com/wolfeidau/adminconsole"
)

// Metrics holds all the OpenTelemetry metric instruments
type Metrics struct {
	// Session store metrics
	LoginsTotal   metric.Int64Counter
	LogoutsTotal  metric.Int64Counter
	RestoresTotal metric.Int64Counter

	// Identity store metrics
	AuthenticateDuration metric.Float64Histogram

	// Route guard metrics
	GuardDecisionsTotal metric.Int64Counter
}

var (
	once    sync.Once
	metrics *Metrics
)

// GetMetrics returns the singleton Metrics instance bound to the global meter
// provider, initializing it if necessary
func GetMetrics() *Metrics {
	once.Do(func() {
		metrics = NewMetrics(otel.GetMeterProvider())
	})
	return metrics
}

// NewMetrics creates and registers all metric instruments against the given provider
func NewMetrics(provider metric.MeterProvider) *Metrics {
	meter := provider.Meter(meterName)

	m := &Metrics{}

	m.LoginsTotal, _ = meter.Int64Counter(
		"adminconsole.session.logins.total",
		metric.WithDescription("Total number of login attempts by outcome"),
		metric.WithUnit("{login}"),
	)

	m.LogoutsTotal, _ = meter.Int64Counter(
		"adminconsole.session.logouts.total",
		metric.WithDescription("Total number of sessions cleared by reason"),
		metric.WithUnit("{logout}"),
	)

	m.RestoresTotal, _ = meter.Int64Counter(
		"adminconsole.session.restores.total",
		metric.WithDescription("Total number of durable snapshot reconciliations by outcome"),
		metric.WithUnit("{restore}"),
	)

	m.AuthenticateDuration, _ = meter.Float64Histogram(
		"adminconsole.identity.authenticate.duration",
		metric.WithDescription("Duration of identity store authentication calls"),
		metric.WithUnit("ms"),
	)

	m.GuardDecisionsTotal, _ = meter.Int64Counter(
		"adminconsole.guard.decisions.total",
		metric.WithDescription("Total number of route guard decisions by state"),
		metric.WithUnit("{decision}"),
	)

	return m
}
