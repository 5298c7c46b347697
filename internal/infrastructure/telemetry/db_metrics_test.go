package telemetry

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	"go.uber.org/zap"
)

func TestDetectOperationType(t *testing.T) {
	tests := map[string]string{
		"select * from quotes":         "SELECT",
		"  INSERT INTO quote_spaces":   "INSERT",
		"update quotes set client = 1": "UPDATE",
		"DELETE FROM quote_items":      "DELETE",
		"PRAGMA foreign_keys = ON":     "OTHER",
	}
	for query, want := range tests {
		assert.Equal(t, want, detectOperationType(query), query)
	}
}

func TestNewDBMetrics_NilMeter(t *testing.T) {
	_, err := NewDBMetrics(nil, nil, zap.NewNop())
	assert.ErrorIs(t, err, ErrMeterNil)
}

func TestDBMetrics_PluginCountsStatements(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))

	db := openTestDB(t)
	sqlDB, err := db.DB()
	require.NoError(t, err)

	m, err := NewDBMetrics(provider.Meter("test"), sqlDB, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, db.Use(m))
	t.Cleanup(func() { _ = m.Stop() })

	type widget struct {
		ID   uint
		Name string
	}
	require.NoError(t, db.AutoMigrate(&widget{}))
	require.NoError(t, db.Create(&widget{Name: "a"}).Error)
	var found []widget
	require.NoError(t, db.Find(&found).Error)

	sum := collectSum(t, reader, "db_query_total")
	assert.GreaterOrEqual(t, valueFor(sum, AttrDBOperation, "INSERT"), int64(1))
	assert.GreaterOrEqual(t, valueFor(sum, AttrDBOperation, "SELECT"), int64(1))
}

func TestDBMetrics_RecordQuery(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	m, err := NewDBMetrics(provider.Meter("test"), nil, zap.NewNop())
	require.NoError(t, err)

	m.RecordQuery(context.Background(), "select", 3*time.Millisecond)
	m.RecordQuery(context.Background(), "", time.Millisecond)

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	var hist metricdata.Histogram[float64]
	for _, sm := range rm.ScopeMetrics {
		for _, metric := range sm.Metrics {
			if metric.Name == "db_query_duration_seconds" {
				hist = metric.Data.(metricdata.Histogram[float64])
			}
		}
	}
	require.Len(t, hist.DataPoints, 2)

	counts := map[string]uint64{}
	for _, dp := range hist.DataPoints {
		op, _ := dp.Attributes.Value(attribute.Key("db.operation"))
		counts[op.AsString()] += dp.Count
	}
	assert.Equal(t, map[string]uint64{"SELECT": 1, "UNKNOWN": 1}, counts)
	assert.NoError(t, m.Stop())
}
