package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// requestIDHeader is echoed from the request when supplied, generated
// otherwise, and always set on the response.
const requestIDHeader = "X-Request-ID"

type contextKey int

const requestIDKey contextKey = iota

// RequestID attaches a correlation identifier to the request context and
// the response. The identifier lives in the per-request context, never in
// package state, so concurrent requests cannot observe each other's id.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)
		ctx := context.WithValue(r.Context(), requestIDKey, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetRequestID returns the correlation identifier for the request, or ""
// outside of a request scope.
func GetRequestID(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey).(string); ok {
		return id
	}
	return ""
}

// RequestLogger logs request start and finish with status and latency,
// tagged with the correlation identifier.
func RequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := log.With().
			Str("request_id", GetRequestID(r.Context())).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Logger()

		logger.Info().Msg("request started")
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		defer func() {
			duration := time.Since(start)
			if rec := recover(); rec != nil {
				logger.Error().
					Interface("panic", rec).
					Dur("duration", duration).
					Msg("request failed")
				panic(rec)
			}
			logger.Info().
				Int("status", ww.Status()).
				Dur("duration", duration).
				Msg("request finished")
		}()

		next.ServeHTTP(ww, r.WithContext(logger.WithContext(r.Context())))
	})
}
