package telemetry_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"vibecommerce/internal/telemetry"
)

func TestSetup_None(t *testing.T) {
	shutdown, err := telemetry.Setup(context.Background(), "none", "")
	require.NoError(t, err)
	assert.NoError(t, shutdown(context.Background()))
}

func TestSetup_Stdout(t *testing.T) {
	shutdown, err := telemetry.Setup(context.Background(), "stdout", "")
	require.NoError(t, err)
	_, isSDK := otel.GetMeterProvider().(*sdkmetric.MeterProvider)
	assert.True(t, isSDK, "stdout installs an SDK meter provider")
	assert.NoError(t, shutdown(context.Background()))
}

func TestSetup_Unknown(t *testing.T) {
	_, err := telemetry.Setup(context.Background(), "zipkin", "")
	assert.Error(t, err)
}

func TestNewMeterProvider_RecordsCounters(t *testing.T) {
	ctx := context.Background()
	res, err := telemetry.Resource()
	require.NoError(t, err)

	reader := sdkmetric.NewManualReader()
	mp := telemetry.NewMeterProvider(res, reader)
	t.Cleanup(func() { _ = mp.Shutdown(ctx) })

	c, err := mp.Meter("test").Int64Counter("things")
	require.NoError(t, err)
	c.Add(ctx, 2)
	c.Add(ctx, 3)

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(ctx, &rm))
	require.Len(t, rm.ScopeMetrics, 1)
	require.Len(t, rm.ScopeMetrics[0].Metrics, 1)
	sum, ok := rm.ScopeMetrics[0].Metrics[0].Data.(metricdata.Sum[int64])
	require.True(t, ok)
	require.Len(t, sum.DataPoints, 1)
	assert.Equal(t, int64(5), sum.DataPoints[0].Value)

	name, ok := rm.Resource.Set().Value("service.name")
	require.True(t, ok)
	assert.Equal(t, telemetry.ServiceName, name.AsString())
}
