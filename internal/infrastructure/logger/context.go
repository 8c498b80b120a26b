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
	visitorIDKey contextKey = "visitor_id"
	subjectKey   contextKey = "subject"
)

// WithContext returns a new context with the logger attached
func WithContext(ctx context.Context, logger *zap.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// FromContext returns the logger stored in ctx enriched with the request,
// visitor and trace identifiers found there. A no-op logger is returned
// when none was attached.
func FromContext(ctx context.Context) *zap.Logger {
	l, ok := ctx.Value(loggerKey).(*zap.Logger)
	if !ok || l == nil {
		return zap.NewNop()
	}
	return WithTraceContext(ctx, l)
}

// WithRequestID stores the request ID in ctx.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// GetRequestID retrieves request ID from context
func GetRequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// WithVisitorID stores the anonymous storefront visitor ID in ctx.
func WithVisitorID(ctx context.Context, visitorID string) context.Context {
	return context.WithValue(ctx, visitorIDKey, visitorID)
}

// GetVisitorID retrieves the visitor ID from context
func GetVisitorID(ctx context.Context) string {
	id, _ := ctx.Value(visitorIDKey).(string)
	return id
}

// WithSubject stores the authenticated admin's subject claim in ctx.
func WithSubject(ctx context.Context, subject string) context.Context {
	return context.WithValue(ctx, subjectKey, subject)
}

// GetSubject retrieves the admin subject from context
func GetSubject(ctx context.Context) string {
	s, _ := ctx.Value(subjectKey).(string)
	return s
}

// GetTraceID extracts the trace ID of the active span, or "".
func GetTraceID(ctx context.Context) string {
	sc := trace.SpanContextFromContext(ctx)
	if !sc.IsValid() {
		return ""
	}
	return sc.TraceID().String()
}

// WithTraceContext adds request, visitor, subject and trace identifiers
// present in ctx to the logger.
func WithTraceContext(ctx context.Context, logger *zap.Logger) *zap.Logger {
	var fields []zap.Field
	if id := GetRequestID(ctx); id != "" {
		fields = append(fields, zap.String("request_id", id))
	}
	if id := GetVisitorID(ctx); id != "" {
		fields = append(fields, zap.String("visitor_id", id))
	}
	if s := GetSubject(ctx); s != "" {
		fields = append(fields, zap.String("subject", s))
	}
	if traceID := GetTraceID(ctx); traceID != "" {
		fields = append(fields,
			zap.String("trace_id", traceID),
			zap.String("span_id", trace.SpanContextFromContext(ctx).SpanID().String()),
		)
	}
	if len(fields) == 0 {
		return logger
	}
	return logger.With(fields...)
}
