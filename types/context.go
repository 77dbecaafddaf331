package types

import "context"

// contextKey is used for storing values in context.Context.
type contextKey string

const (
	keyRunID     contextKey = "run_id"
	keyRequestID contextKey = "request_id"
	keyClientIP  contextKey = "client_ip"
	keySource    contextKey = "source"
)

// WithRunID adds run ID to context.
func WithRunID(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, keyRunID, runID)
}

// RunID extracts run ID from context.
func RunID(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(keyRunID).(string)
	return v, ok && v != ""
}

// WithRequestID adds request ID to context.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, keyRequestID, requestID)
}

// RequestID extracts request ID from context.
func RequestID(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(keyRequestID).(string)
	return v, ok && v != ""
}

// WithClientIP adds client IP to context.
func WithClientIP(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, keyClientIP, ip)
}

// ClientIP extracts client IP from context.
func ClientIP(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(keyClientIP).(string)
	return v, ok && v != ""
}

// WithSource adds the current input source name to context.
func WithSource(ctx context.Context, source string) context.Context {
	return context.WithValue(ctx, keySource, source)
}

// Source extracts the input source name from context.
func Source(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(keySource).(string)
	return v, ok && v != ""
}
