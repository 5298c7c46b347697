package telemetry

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Database metric attribute keys
var (
	AttrDBOperation = attribute.Key("db.operation")
	AttrDBState     = attribute.Key("state")
)

// DBDurationBuckets are histogram boundaries in seconds for statement latency
var DBDurationBuckets = []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5}

const dbMetricsStartKey = "db_metrics:start"

// DBMetrics records statement counts and latency through gorm callbacks and
// reports connection pool state through an observable gauge.
type DBMetrics struct {
	queryTotal    *Counter
	queryDuration *Histogram
	registration  metric.Registration
	logger        *zap.Logger
}

// NewDBMetrics creates the database instruments on meter. sqlDB may be nil,
// in which case pool gauges are not reported.
func NewDBMetrics(meter metric.Meter, sqlDB *sql.DB, logger *zap.Logger) (*DBMetrics, error) {
	if meter == nil {
		return nil, ErrMeterNil
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	queryTotal, err := NewCounter(meter, "db_query_total", "Database statements by operation", "{query}")
	if err != nil {
		return nil, err
	}
	queryDuration, err := NewHistogram(meter, "db_query_duration_seconds",
		"Database statement latency in seconds", "s", DBDurationBuckets...)
	if err != nil {
		return nil, err
	}

	m := &DBMetrics{queryTotal: queryTotal, queryDuration: queryDuration, logger: logger}
	if sqlDB == nil {
		return m, nil
	}

	pool, err := meter.Int64ObservableGauge("db_pool_connections",
		metric.WithDescription("Connections in the pool by state"),
		metric.WithUnit("{connection}"),
	)
	if err != nil {
		return nil, err
	}
	m.registration, err = meter.RegisterCallback(func(_ context.Context, o metric.Observer) error {
		stats := sqlDB.Stats()
		o.ObserveInt64(pool, int64(stats.Idle), metric.WithAttributes(AttrDBState.String("idle")))
		o.ObserveInt64(pool, int64(stats.InUse), metric.WithAttributes(AttrDBState.String("in_use")))
		o.ObserveInt64(pool, int64(stats.OpenConnections), metric.WithAttributes(AttrDBState.String("open")))
		return nil
	}, pool)
	if err != nil {
		return nil, err
	}
	return m, nil
}

// Name implements gorm.Plugin.
func (m *DBMetrics) Name() string {
	return "quote_db_metrics"
}

// Initialize implements gorm.Plugin.
func (m *DBMetrics) Initialize(db *gorm.DB) error {
	before := func(tx *gorm.DB) {
		tx.InstanceSet(dbMetricsStartKey, time.Now())
	}
	after := func(operation string) func(*gorm.DB) {
		return func(tx *gorm.DB) {
			op := operation
			if op == "" {
				op = detectOperationType(tx.Statement.SQL.String())
			}
			var elapsed time.Duration
			if v, ok := tx.InstanceGet(dbMetricsStartKey); ok {
				if start, ok := v.(time.Time); ok {
					elapsed = time.Since(start)
				}
			}
			m.RecordQuery(tx.Statement.Context, op, elapsed)
		}
	}

	cb := db.Callback()
	steps := []func() error{
		func() error { return cb.Create().Before("gorm:create").Register("db_metrics:before_create", before) },
		func() error { return cb.Query().Before("gorm:query").Register("db_metrics:before_query", before) },
		func() error { return cb.Update().Before("gorm:update").Register("db_metrics:before_update", before) },
		func() error { return cb.Delete().Before("gorm:delete").Register("db_metrics:before_delete", before) },
		func() error { return cb.Row().Before("gorm:row").Register("db_metrics:before_row", before) },
		func() error { return cb.Raw().Before("gorm:raw").Register("db_metrics:before_raw", before) },
		func() error { return cb.Create().After("gorm:create").Register("db_metrics:after_create", after("INSERT")) },
		func() error { return cb.Query().After("gorm:query").Register("db_metrics:after_query", after("SELECT")) },
		func() error { return cb.Update().After("gorm:update").Register("db_metrics:after_update", after("UPDATE")) },
		func() error { return cb.Delete().After("gorm:delete").Register("db_metrics:after_delete", after("DELETE")) },
		func() error { return cb.Row().After("gorm:row").Register("db_metrics:after_row", after("")) },
		func() error { return cb.Raw().After("gorm:raw").Register("db_metrics:after_raw", after("")) },
	}
	for _, register := range steps {
		if err := register(); err != nil {
			return err
		}
	}
	m.logger.Info("Database metrics plugin initialized")
	return nil
}

// RecordQuery records one statement.
func (m *DBMetrics) RecordQuery(ctx context.Context, operation string, duration time.Duration) {
	if ctx == nil {
		ctx = context.Background()
	}
	operation = strings.ToUpper(operation)
	if operation == "" {
		operation = "UNKNOWN"
	}
	m.queryTotal.Inc(ctx, AttrDBOperation.String(operation))
	m.queryDuration.Record(ctx, duration.Seconds(), AttrDBOperation.String(operation))
}

// Stop unregisters the pool gauge callback
func (m *DBMetrics) Stop() error {
	if m.registration == nil {
		return nil
	}
	return m.registration.Unregister()
}

func detectOperationType(query string) string {
	query = strings.TrimSpace(strings.ToUpper(query))
	for _, op := range []string{"SELECT", "INSERT", "UPDATE", "DELETE"} {
		if strings.HasPrefix(query, op) {
			return op
		}
	}
	return "OTHER"
}

// RegisterDBMetrics installs the metrics plugin on db. It returns nil metrics
// when the meter provider is not exporting.
func RegisterDBMetrics(db *gorm.DB, mp *MeterProvider, logger *zap.Logger) (*DBMetrics, error) {
	if mp == nil || !mp.IsEnabled() {
		return nil, nil
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	m, err := NewDBMetrics(mp.Meter("db.client"), sqlDB, logger)
	if err != nil {
		return nil, err
	}
	if err := db.Use(m); err != nil {
		return nil, err
	}
	return m, nil
}
