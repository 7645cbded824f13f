package telemetry_test

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dslab/avl/internal/config"
	"github.com/dslab/avl/internal/telemetry"
	"github.com/dslab/avl/pkg/avl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func metricsConfig() *config.AVLConfig {
	return &config.AVLConfig{
		Tree:    config.TreeConfig{KeyType: config.KeyTypeInt},
		Metrics: &config.MetricsConfig{Host: "127.0.0.1"},
	}
}

func collect(t *testing.T, reader *sdkmetric.ManualReader) map[string]metricdata.Metrics {
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	out := make(map[string]metricdata.Metrics)
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			out[m.Name] = m
		}
	}
	return out
}

func sumByAttr(t *testing.T, m metricdata.Metrics, key attribute.Key) map[string]int64 {
	sum, ok := m.Data.(metricdata.Sum[int64])
	require.True(t, ok, "unexpected data type %T", m.Data)
	out := make(map[string]int64)
	for _, dp := range sum.DataPoints {
		v, _ := dp.Attributes.Value(key)
		out[v.AsString()] += dp.Value
	}
	return out
}

func TestTelemetry_Instruments(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	otel.SetMeterProvider(sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader)))

	height := 3
	tm := telemetry.NewTreeMetrics()
	require.NoError(t, tm.Setup(metricsConfig(), func() int { return height }))
	defer tm.Close()

	ctx := context.Background()
	start := time.Now()
	tm.MeasureOperation(ctx, "insert", start, nil)
	tm.MeasureOperation(ctx, "insert", start, nil)
	tm.MeasureOperation(ctx, "delete", start,
		fmt.Errorf("delete 4: %w", avl.ErrNotFound))
	tm.MeasureOperation(ctx, "check", start, avl.ErrInvariantViolation)
	tm.MeasureRotation(ctx, avl.RotateLeft)
	tm.MeasureRotation(ctx, avl.RotateRightLeft)
	tm.MeasureRotation(ctx, avl.RotateLeft)

	metrics := collect(t, reader)

	require.Contains(t, metrics, "avl_operation_count")
	assert.Equal(t, map[string]int64{"insert": 2, "delete": 1, "check": 1},
		sumByAttr(t, metrics["avl_operation_count"], "op"))
	assert.Equal(t, map[string]int64{"ok": 2, "not_found": 1, "error": 1},
		sumByAttr(t, metrics["avl_operation_count"], "result"))

	require.Contains(t, metrics, "avl_rotation_count")
	assert.Equal(t, map[string]int64{"left": 2, "right-left": 1},
		sumByAttr(t, metrics["avl_rotation_count"], "kind"))

	require.Contains(t, metrics, "avl_operation_duration")
	hist, ok := metrics["avl_operation_duration"].Data.(metricdata.Histogram[float64])
	require.True(t, ok)
	var count uint64
	for _, dp := range hist.DataPoints {
		count += dp.Count
	}
	assert.Equal(t, uint64(4), count)
	assert.Equal(t, "us", metrics["avl_operation_duration"].Unit)

	require.Contains(t, metrics, "avl_tree_height")
	gauge, ok := metrics["avl_tree_height"].Data.(metricdata.Gauge[int64])
	require.True(t, ok)
	require.Len(t, gauge.DataPoints, 1)
	assert.Equal(t, int64(3), gauge.DataPoints[0].Value)

	height = 5
	metrics = collect(t, reader)
	gauge = metrics["avl_tree_height"].Data.(metricdata.Gauge[int64])
	assert.Equal(t, int64(5), gauge.DataPoints[0].Value)
}

func TestTelemetry_Disabled(t *testing.T) {
	tm := telemetry.NewTreeMetrics()
	conf := metricsConfig()
	conf.Metrics = nil
	require.NoError(t, tm.Setup(conf, nil))

	assert.NotPanics(t, func() {
		tm.MeasureOperation(context.Background(), "insert", time.Now(), nil)
		tm.MeasureRotation(context.Background(), avl.RotateRight)
	})
	assert.NoError(t, tm.Close())

	var nilTm *telemetry.Telemetry
	assert.NotPanics(t, func() {
		nilTm.MeasureOperation(context.Background(), "insert", time.Now(), nil)
		nilTm.MeasureRotation(context.Background(), avl.RotateRight)
	})
}

func TestRouter_MetricsAndHealth(t *testing.T) {
	provider, registry, err := telemetry.NewProvider()
	require.NoError(t, err)
	defer provider.Shutdown(context.Background())

	tm := telemetry.NewTreeMetrics()
	require.NoError(t, tm.Setup(metricsConfig(), func() int { return 2 }))
	defer tm.Close()
	tm.MeasureOperation(context.Background(), "insert", time.Now(), nil)

	server := httptest.NewServer(telemetry.Router("v1", registry, false))
	defer server.Close()

	resp, err := http.Get(server.URL + "/healthz")
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"status":"ok","version":"v1"}`, string(body))

	resp, err = http.Get(server.URL + "/metrics")
	require.NoError(t, err)
	body, err = io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "avl_operation_count")
	assert.Contains(t, string(body), "avl_tree_height")

	resp, err = http.Get(server.URL + "/debug/pprof/")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
