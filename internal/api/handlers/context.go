package handlers

import "context"

type ctxKey int

const requestIDKey ctxKey = iota

// WithRequestID attaches a request ID to ctx for downstream handlers and
// loggers to read back with RequestIDFromContext.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestIDFromContext returns the request ID attached by the middleware,
// or "" if none was attached.
func RequestIDFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(requestIDKey).(string); ok {
		return v
	}
	return ""
}
