// Package trace carries the inbound request id through contexts that outlive the request.
package trace

import "context"

type ctxKey struct{}

func WithRequestID(ctx context.Context, rid string) context.Context {
	if rid == "" {
		return ctx
	}
	return context.WithValue(ctx, ctxKey{}, rid)
}

func RequestID(ctx context.Context) string {
	rid, _ := ctx.Value(ctxKey{}).(string)
	return rid
}

// Detach copies the request id of from onto to.
func Detach(to, from context.Context) context.Context {
	return WithRequestID(to, RequestID(from))
}
