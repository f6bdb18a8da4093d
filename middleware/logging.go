package middleware

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/upb/llm-model-router/internal/observability"
	"go.uber.org/zap"
)

// RequestLogger logs each request with zap and records HTTP metrics.
// metrics may be nil.
func RequestLogger(logger *zap.Logger, metrics *observability.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			duration := time.Since(start)

			route := ""
			if rctx := chi.RouteContext(r.Context()); rctx != nil {
				route = rctx.RoutePattern()
			}
			metrics.RecordHTTPRequest(r.Method, route, status, duration)

			fields := []zap.Field{
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.String("route", route),
				zap.Int("status", status),
				zap.Int("bytes", ww.BytesWritten()),
				zap.Duration("duration", duration),
				zap.String("request_id", GetRequestIDFromContext(r.Context())),
			}

			switch {
			case status >= http.StatusInternalServerError:
				logger.Error("request completed", fields...)
			case status >= http.StatusBadRequest:
				logger.Warn("request completed", fields...)
			default:
				logger.Info("request completed", fields...)
			}
		})
	}
}
