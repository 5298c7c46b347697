package logger

import (
	"context"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type contextKey string

const (
	loggerKey    contextKey = "logger"
	requestIDKey contextKey = "request_id"
	quoteIDKey   contextKey = "quote_id"
)

// WithContext returns a new context with the logger attached
func WithContext(ctx context.Context, logger *zap.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// FromContext retrieves the logger from context, or a no-op logger
func FromContext(ctx context.Context) *zap.Logger {
	if logger, ok := ctx.Value(loggerKey).(*zap.Logger); ok {
		return logger
	}
	return zap.NewNop()
}

// WithRequestID stores the request ID and attaches it to the context logger
func WithRequestID(ctx context.Context, logger *zap.Logger, requestID string) (context.Context, *zap.Logger) {
	ctx = context.WithValue(ctx, requestIDKey, requestID)
	enriched := logger.With(zap.String("request_id", requestID))
	return WithContext(ctx, enriched), enriched
}

// WithQuoteID stores the quote being edited and attaches it to the context logger
func WithQuoteID(ctx context.Context, quoteID string) context.Context {
	ctx = context.WithValue(ctx, quoteIDKey, quoteID)
	return WithContext(ctx, FromContext(ctx).With(zap.String("quote_id", quoteID)))
}

// GetRequestID retrieves request ID from context
func GetRequestID(ctx context.Context) string {
	if requestID, ok := ctx.Value(requestIDKey).(string); ok {
		return requestID
	}
	return ""
}

// GetQuoteID retrieves the quote ID from context
func GetQuoteID(ctx context.Context) string {
	if quoteID, ok := ctx.Value(quoteIDKey).(string); ok {
		return quoteID
	}
	return ""
}

// TraceFields returns trace_id and span_id fields for the span in ctx,
// or nil when there is no valid span.
func TraceFields(ctx context.Context) []zap.Field {
	spanCtx := trace.SpanContextFromContext(ctx)
	if !spanCtx.IsValid() {
		return nil
	}
	return []zap.Field{
		zap.String("trace_id", spanCtx.TraceID().String()),
		zap.String("span_id", spanCtx.SpanID().String()),
	}
}

// L returns the context logger enriched with trace correlation fields.
//
//	logger.L(ctx).Info("quote saved", zap.String("operation", op))
func L(ctx context.Context) *zap.Logger {
	l := FromContext(ctx)
	if fields := TraceFields(ctx); fields != nil {
		l = l.With(fields...)
	}
	return l
}
