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
	// OrganisationIDKey is the context key for the acting organisation
	OrganisationIDKey contextKey = "organisation_id"
	// LibraryIDKey is the context key for the acting library
	LibraryIDKey contextKey = "library_id"
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

// WithOrganisationID adds the organisation ID to context and returns the
// enriched logger
func WithOrganisationID(ctx context.Context, logger *zap.Logger, organisationID string) (context.Context, *zap.Logger) {
	ctx = context.WithValue(ctx, OrganisationIDKey, organisationID)
	enriched := logger.With(zap.String("organisation_id", organisationID))
	return WithContext(ctx, enriched), enriched
}

// WithLibraryID adds the library ID to context and returns the enriched
// logger
func WithLibraryID(ctx context.Context, logger *zap.Logger, libraryID string) (context.Context, *zap.Logger) {
	ctx = context.WithValue(ctx, LibraryIDKey, libraryID)
	enriched := logger.With(zap.String("library_id", libraryID))
	return WithContext(ctx, enriched), enriched
}

// GetRequestID retrieves request ID from context
func GetRequestID(ctx context.Context) string {
	if requestID, ok := ctx.Value(RequestIDKey).(string); ok {
		return requestID
	}
	return ""
}

// GetOrganisationID retrieves the organisation ID from context
func GetOrganisationID(ctx context.Context) string {
	if organisationID, ok := ctx.Value(OrganisationIDKey).(string); ok {
		return organisationID
	}
	return ""
}

// GetLibraryID retrieves the library ID from context
func GetLibraryID(ctx context.Context) string {
	if libraryID, ok := ctx.Value(LibraryIDKey).(string); ok {
		return libraryID
	}
	return ""
}
