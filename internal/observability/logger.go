package observability

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Field represents a structured log field.
type Field = zap.Field

type requestIDKey struct{}

// NewLogger builds a zap logger from level and format settings.
// Format "json" uses the production encoder; anything else uses the console encoder.
func NewLogger(level, format string) (*zap.Logger, error) {
	var zapLevel zapcore.Level
	if err := zapLevel.Set(strings.ToLower(level)); err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	var cfg zap.Config
	switch strings.ToLower(format) {
	case "json":
		cfg = zap.NewProductionConfig()
		cfg.Encoding = "json"
	default:
		cfg = zap.NewDevelopmentConfig()
		cfg.Encoding = "console"
	}
	cfg.Level = zap.NewAtomicLevelAt(zapLevel)

	return cfg.Build()
}

// WithRequestID stores a request ID for later log enrichment
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, requestID)
}

// RequestID returns the request ID stored in ctx, if any
func RequestID(ctx context.Context) string {
	if v, ok := ctx.Value(requestIDKey{}).(string); ok {
		return v
	}
	return ""
}

// FromContext returns logger enriched with the request ID carried by ctx
func FromContext(ctx context.Context, logger *zap.Logger) *zap.Logger {
	if logger == nil {
		logger = zap.NewNop()
	}
	if id := RequestID(ctx); id != "" {
		return logger.With(zap.String("request_id", id))
	}
	return logger
}
