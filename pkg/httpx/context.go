package httpx

import "context"

type ctxKey string

// CtxKeySessionID carries the gateway session identifier for the request.
const CtxKeySessionID ctxKey = "session_id"

// WithSessionID stamps the gateway session identifier onto the context.
func WithSessionID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, CtxKeySessionID, id)
}

// SessionIDFromContext returns the gateway session identifier, or "".
func SessionIDFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(CtxKeySessionID).(string); ok {
		return v
	}
	return ""
}

func sessionIDFromCtx(ctx context.Context) string {
	return SessionIDFromContext(ctx)
}
