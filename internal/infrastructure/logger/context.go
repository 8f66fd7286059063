package logger

import (
	"context"

	"go.uber.org/zap"
)

// contextKey is a type for context keys used by the logger package
type contextKey string

const (
	// LoggerKey is the context key for the logger
	LoggerKey contextKey = "logger"
	// RequestIDKey is the context key for request ID
	RequestIDKey contextKey = "request_id"
	// IntegrationIDKey is the context key for the integration uuid
	IntegrationIDKey contextKey = "integration_uuid"
)

// WithContext returns a new context with the logger attached
func WithContext(ctx context.Context, logger *zap.Logger) context.Context {
	return context.WithValue(ctx, LoggerKey, logger)
}

// FromContext retrieves the logger from context, returns a no-op logger if
// not found
func FromContext(ctx context.Context) *zap.Logger {
	if logger, ok := ctx.Value(LoggerKey).(*zap.Logger); ok {
		return logger
	}
	return zap.NewNop()
}

// WithRequestID adds request ID to context and returns the enriched logger
func WithRequestID(ctx context.Context, logger *zap.Logger, requestID string) (context.Context, *zap.Logger) {
	ctx = context.WithValue(ctx, RequestIDKey, requestID)
	enriched := logger.With(zap.String("request_id", requestID))
	return WithContext(ctx, enriched), enriched
}

// WithIntegrationID adds the integration uuid to context and returns the
// enriched logger. Webhook handlers set this so everything downstream of one
// notification carries the integration it belongs to.
func WithIntegrationID(ctx context.Context, logger *zap.Logger, integrationUUID string) (context.Context, *zap.Logger) {
	ctx = context.WithValue(ctx, IntegrationIDKey, integrationUUID)
	enriched := logger.With(zap.String("integration_uuid", integrationUUID))
	return WithContext(ctx, enriched), enriched
}

// GetRequestID retrieves request ID from context
func GetRequestID(ctx context.Context) string {
	if requestID, ok := ctx.Value(RequestIDKey).(string); ok {
		return requestID
	}
	return ""
}

// GetIntegrationID retrieves the integration uuid from context
func GetIntegrationID(ctx context.Context) string {
	if integrationUUID, ok := ctx.Value(IntegrationIDKey).(string); ok {
		return integrationUUID
	}
	return ""
}
