package logger

import (
	"context"

	"go.uber.org/zap"
)

type scopeKey struct{}

type scope struct {
	logger    *zap.Logger
	requestID string
}

// WithRequest returns a context carrying base annotated with the request id.
// Code downstream of the HTTP facade picks it up through Scoped.
func WithRequest(ctx context.Context, base *zap.Logger, requestID string) context.Context {
	if base == nil {
		base = zap.NewNop()
	}
	l := base
	if requestID != "" {
		l = base.With(zap.String("request_id", requestID))
	}
	return context.WithValue(ctx, scopeKey{}, scope{logger: l, requestID: requestID})
}

// Scoped returns the request logger stored in ctx, or fallback outside a request.
// A nil fallback yields a no-op logger.
func Scoped(ctx context.Context, fallback *zap.Logger) *zap.Logger {
	if sc, ok := ctx.Value(scopeKey{}).(scope); ok {
		return sc.logger
	}
	if fallback == nil {
		return zap.NewNop()
	}
	return fallback
}

// RequestID returns the id stored by WithRequest, or "".
func RequestID(ctx context.Context) string {
	sc, _ := ctx.Value(scopeKey{}).(scope)
	return sc.requestID
}
