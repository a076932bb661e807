package telemetry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func TestNewMetrics(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })

	m := NewMetrics(mp)
	ctx := context.Background()

	m.LoginsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", "success")))
	m.LoginsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", "success")))
	m.GuardDecisionsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("state", "loading")))

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(ctx, &rm))

	sums := map[string]int64{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			data, ok := m.Data.(metricdata.Sum[int64])
			if !ok {
				continue
			}
			for _, dp := range data.DataPoints {
				sums[m.Name] += dp.Value
			}
		}
	}

	require.Equal(t, int64(2), sums["adminconsole.session.logins.total"])
	require.Equal(t, int64(1), sums["adminconsole.guard.decisions.total"])
}

func TestGetMetricsIsSingleton(t *testing.T) {
	require.Same(t, GetMetrics(), GetMetrics())
}

func TestConfigApplyDefaults(t *testing.T) {
	cfg := Config{SampleRatio: 5}
	cfg.ApplyDefaults()

	require.Equal(t, "adminconsole", cfg.ServiceName)
	require.Equal(t, 1.0, cfg.SampleRatio)
	require.NotZero(t, cfg.ExportInterval)
}
