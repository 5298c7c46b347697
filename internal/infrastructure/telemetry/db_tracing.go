package telemetry

import (
	"context"
	"errors"
	"time"

	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DBTracingConfig holds configuration for database tracing.
type DBTracingConfig struct {
	Enabled         bool
	LogFullSQL      bool // include query variables in spans (development only)
	SlowQueryThresh time.Duration
	DBSystem        string // postgresql, sqlite
}

type queryStartKey struct{}

// RegisterDBTracing installs the otelgorm plugin and a callback pair that
// flags slow statements on their spans. It is a no-op when disabled.
func RegisterDBTracing(db *gorm.DB, cfg DBTracingConfig, logger *zap.Logger) error {
	if !cfg.Enabled {
		return nil
	}
	if cfg.SlowQueryThresh == 0 {
		cfg.SlowQueryThresh = 200 * time.Millisecond
	}

	opts := []otelgorm.Option{otelgorm.WithDBName(cfg.DBSystem)}
	if !cfg.LogFullSQL {
		opts = append(opts, otelgorm.WithoutQueryVariables())
	}
	if err := db.Use(otelgorm.NewPlugin(opts...)); err != nil {
		return err
	}

	before := func(tx *gorm.DB) {
		if tx.Statement.Context != nil {
			tx.Statement.Context = context.WithValue(tx.Statement.Context, queryStartKey{}, time.Now())
		}
	}
	after := func(tx *gorm.DB) {
		markSlowQuery(tx, cfg.SlowQueryThresh)
	}

	cb := db.Callback()
	steps := []func() error{
		func() error { return cb.Create().Before("gorm:create").Register("quote_timing:before_create", before) },
		func() error { return cb.Query().Before("gorm:query").Register("quote_timing:before_query", before) },
		func() error { return cb.Update().Before("gorm:update").Register("quote_timing:before_update", before) },
		func() error { return cb.Delete().Before("gorm:delete").Register("quote_timing:before_delete", before) },
		func() error { return cb.Row().Before("gorm:row").Register("quote_timing:before_row", before) },
		func() error { return cb.Raw().Before("gorm:raw").Register("quote_timing:before_raw", before) },
		func() error { return cb.Create().After("gorm:create").Register("quote_timing:after_create", after) },
		func() error { return cb.Query().After("gorm:query").Register("quote_timing:after_query", after) },
		func() error { return cb.Update().After("gorm:update").Register("quote_timing:after_update", after) },
		func() error { return cb.Delete().After("gorm:delete").Register("quote_timing:after_delete", after) },
		func() error { return cb.Row().After("gorm:row").Register("quote_timing:after_row", after) },
		func() error { return cb.Raw().After("gorm:raw").Register("quote_timing:after_raw", after) },
	}
	for _, register := range steps {
		if err := register(); err != nil {
			return err
		}
	}

	logger.Info("Database tracing enabled",
		zap.String("db_system", cfg.DBSystem),
		zap.Bool("log_full_sql", cfg.LogFullSQL),
		zap.Duration("slow_query_threshold", cfg.SlowQueryThresh),
	)
	return nil
}

func markSlowQuery(tx *gorm.DB, threshold time.Duration) {
	ctx := tx.Statement.Context
	if ctx == nil {
		return
	}
	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return
	}

	span.SetAttributes(attribute.Int64("db.rows_affected", tx.Statement.RowsAffected))
	if tx.Error != nil && !errors.Is(tx.Error, gorm.ErrRecordNotFound) {
		RecordError(span, tx.Error)
	}

	start, ok := ctx.Value(queryStartKey{}).(time.Time)
	if !ok {
		return
	}
	if elapsed := time.Since(start); elapsed > threshold {
		span.SetAttributes(
			attribute.Bool("db.slow_query", true),
			attribute.Int64("db.query_duration_ms", elapsed.Milliseconds()),
		)
	}
}
