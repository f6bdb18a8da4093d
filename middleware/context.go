package middleware

import (
	"context"
	"net/http"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/upb/llm-model-router/internal/observability"
)

// RequestIDHeader carries the request ID in and out of the router
const RequestIDHeader = "X-Request-ID"

// GetRequestIDFromContext retrieves the request ID from context
func GetRequestIDFromContext(ctx context.Context) string {
	if id := observability.RequestID(ctx); id != "" {
		return id
	}
	return chimiddleware.GetReqID(ctx)
}

// WithRequestID adds a request ID to the context
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return observability.WithRequestID(ctx, requestID)
}

// RequestContext stores the request ID for log enrichment and the selection
// ledger, and echoes it back in the response. The ID assigned by chi's
// RequestID middleware wins, then the inbound header, then a fresh UUID.
func RequestContext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := chimiddleware.GetReqID(r.Context())
		if requestID == "" {
			requestID = r.Header.Get(RequestIDHeader)
		}
		if requestID == "" {
			requestID = uuid.NewString()
		}

		w.Header().Set(RequestIDHeader, requestID)
		next.ServeHTTP(w, r.WithContext(WithRequestID(r.Context(), requestID)))
	})
}
