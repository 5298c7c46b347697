package telemetry

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metric attribute keys
var (
	AttrOperation      = attribute.Key("operation")
	AttrResult         = attribute.Key("result")
	AttrAdjustmentType = attribute.Key("adjustment_type")
)

// QuoteMetrics counts quote saves and committed adjustments
type QuoteMetrics struct {
	saves       *Counter
	adjustments *Counter
}

// NewQuoteMetrics creates the quote counters on meter
func NewQuoteMetrics(meter metric.Meter) (*QuoteMetrics, error) {
	if meter == nil {
		return nil, ErrMeterNil
	}
	saves, err := NewCounter(meter, "quote_saves_total", "Quote saves by operation and result", "{save}")
	if err != nil {
		return nil, err
	}
	adjustments, err := NewCounter(meter, "quote_adjustments_applied_total", "Adjustments committed to quotes", "{adjustment}")
	if err != nil {
		return nil, err
	}
	return &QuoteMetrics{saves: saves, adjustments: adjustments}, nil
}

// RecordSave counts one save attempt. A non-nil err is counted as a failure.
func (m *QuoteMetrics) RecordSave(ctx context.Context, operation string, err error) {
	result := "success"
	if err != nil {
		result = "failure"
	}
	m.saves.Inc(ctx, AttrOperation.String(operation), AttrResult.String(result))
}

// RecordAdjustmentApplied counts one committed adjustment
func (m *QuoteMetrics) RecordAdjustmentApplied(ctx context.Context, adjType string) {
	m.adjustments.Inc(ctx, AttrAdjustmentType.String(adjType))
}
