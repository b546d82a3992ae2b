// Package middleware provides reusable HTTP middleware for the API server.
package middleware

import (
	"log/slog"
	"net/http"
	"time"

	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

// wrappedWriter captures the status code written by downstream handlers.
type wrappedWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *wrappedWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Logger returns middleware that logs method, path, status code, duration and
// request id for every request. Server errors are logged at error level.
func Logger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/health" {
				next.ServeHTTP(w, r)
				return
			}

			start := time.Now()
			ww := &wrappedWriter{ResponseWriter: w, statusCode: http.StatusOK}
			next.ServeHTTP(ww, r)

			fields := []any{
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.statusCode,
				"duration_ms", time.Since(start).Milliseconds(),
			}
			if id := chiMiddleware.GetReqID(r.Context()); id != "" {
				fields = append(fields, "request_id", id)
			}

			if ww.statusCode >= http.StatusInternalServerError {
				logger.Error("request complete", fields...)
				return
			}
			logger.Info("request complete", fields...)
		})
	}
}
