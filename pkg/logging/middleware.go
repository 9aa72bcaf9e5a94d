package logging

import (
	"net/http"
	"time"

	"github.com/google/uuid"
)

// RequestIDGenerator generates request IDs for incoming requests
type RequestIDGenerator interface {
	Generate() string
}

// UUIDGenerator generates UUID v4 request IDs
type UUIDGenerator struct{}

// Generate returns a new UUID string
func (g *UUIDGenerator) Generate() string {
	return uuid.New().String()
}

// responseWriter captures the status code written by a handler
type responseWriter struct {
	http.ResponseWriter
	status int
}

func (w *responseWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

// HTTPMiddleware wraps an HTTP handler with request logging. Each request
// gets a request ID (taken from the X-Request-ID header when present,
// generated otherwise) that is threaded through the request context and
// echoed back in the response headers.
func HTTPMiddleware(logger Logger, generator RequestIDGenerator) func(http.Handler) http.Handler {
	if generator == nil {
		generator = &UUIDGenerator{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := r.Header.Get("X-Request-ID")
			if requestID == "" {
				requestID = generator.Generate()
			}

			ctx := ContextWithRequestID(r.Context(), requestID)
			w.Header().Set("X-Request-ID", requestID)

			reqLogger := logger.WithContext(ctx)
			reqLogger.Debug("request started",
				String("http_method", r.Method),
				String("path", r.URL.Path),
				String("remote_addr", r.RemoteAddr),
			)

			rw := &responseWriter{ResponseWriter: w, status: http.StatusOK}
			start := time.Now()
			next.ServeHTTP(rw, r.WithContext(ctx))

			reqLogger.Info("request completed",
				String("http_method", r.Method),
				String("path", r.URL.Path),
				Int("status", rw.status),
				Duration("duration", time.Since(start)),
			)
		})
	}
}
