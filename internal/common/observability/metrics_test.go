// internal/common/observability/metrics_test.go
package observability

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func TestObservability_RecordSearch(t *testing.T) {
	reader := metric.NewManualReader()
	provider := metric.NewMeterProvider(metric.WithReader(reader))
	obs := newWithProvider(provider, "chaysh-test")
	defer obs.Shutdown()

	obs.RecordSearch(context.Background(), "en", "ok", 120*time.Millisecond)
	obs.RecordSearch(context.Background(), "pl", "degraded", 40*time.Millisecond)

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	require.Len(t, rm.ScopeMetrics, 1)

	names := map[string]bool{}
	for _, m := range rm.ScopeMetrics[0].Metrics {
		names[m.Name] = true
		if m.Name == "search.processed" {
			sum, ok := m.Data.(metricdata.Sum[int64])
			require.True(t, ok)
			var total int64
			for _, dp := range sum.DataPoints {
				total += dp.Value
			}
			assert.Equal(t, int64(2), total)
		}
	}
	assert.True(t, names["search.processed"])
	assert.True(t, names["search.duration"])
}

func TestObservability_ZeroValueIsSafe(t *testing.T) {
	obs := &Observability{}
	assert.NotPanics(t, func() {
		obs.RecordSearch(context.Background(), "en", "ok", time.Second)
		obs.Shutdown()
	})
}
