package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/dhruvtrip/vizvest-app/src/logger"
	"github.com/google/uuid"
)

type contextKey string

const (
	requestIDContextKey contextKey = "requestID"
	sessionIDContextKey contextKey = "sessionID"
)

const sessionIDHeader = "X-Session-ID"

// ContextualLoggerMiddleware creates a request-scoped logger carrying a
// generated request ID and attaches it to the request context.
func ContextualLoggerMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := uuid.New().String()

		ctxLogger := logger.L.With(slog.String("requestID", requestID))

		ctx := logger.ToContext(r.Context(), ctxLogger)
		ctx = context.WithValue(ctx, requestIDContextKey, requestID)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// SessionMiddleware extracts the client-generated session ID from the
// X-Session-ID header and attaches it to the context and the contextual
// logger. An absent header leaves the session ID empty; report handlers
// treat an empty ID as an unknown session.
func SessionMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sessionID := strings.TrimSpace(r.Header.Get(sessionIDHeader))

		ctx := r.Context()
		if sessionID != "" {
			enrichedLogger := logger.FromContext(ctx).With(slog.String("sessionID", sessionID))
			ctx = logger.ToContext(ctx, enrichedLogger)
		}
		ctx = context.WithValue(ctx, sessionIDContextKey, sessionID)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetSessionIDFromContext returns the session ID set by SessionMiddleware.
func GetSessionIDFromContext(ctx context.Context) (string, bool) {
	sessionID, ok := ctx.Value(sessionIDContextKey).(string)
	if !ok || sessionID == "" {
		return "", false
	}
	return sessionID, true
}
