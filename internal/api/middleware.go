package api

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"example.com/vrp-routing-service/internal/api/handlers"
	"example.com/vrp-routing-service/internal/platform/logging"
)

// statusWriter captures the final HTTP status code and number of bytes
// written, so middleware wrapping a handler can log what was actually sent
// to the client rather than assuming success.
type statusWriter struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusWriter) Write(b []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}
	n, err := w.ResponseWriter.Write(b)
	w.bytes += n
	return n, err
}

// withRequestID gives every inbound request an ID (the caller's own
// X-Request-Id header when present, otherwise a fresh UUID), echoing it back
// as the X-Request-Id response header and attaching it to the request
// context so handlers and their loggers can tag every line with it.
func withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-Id")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-Id", id)
		ctx := handlers.WithRequestID(r.Context(), id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// loggingMiddleware logs end-to-end request duration and response size in a
// "method=... path=... status=... dur=...ms" line, with the request ID
// carried through from withRequestID.
func loggingMiddleware(log *logging.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sw := &statusWriter{ResponseWriter: w}

			next.ServeHTTP(sw, r)

			duration := time.Since(start).Milliseconds()
			reqID := handlers.RequestIDFromContext(r.Context())
			log.Scoped(reqID, "http").Printf(
				"method=%s path=%s status=%d bytes=%d dur=%dms",
				r.Method, r.URL.RequestURI(), sw.status, sw.bytes, duration,
			)
		})
	}
}
