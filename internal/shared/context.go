package shared

import "context"

type ctxKey int

const sessionKey ctxKey = iota

// ContextWithSession attaches the request session. A nil session leaves the
// context untouched so downstream lookups stay nil-safe.
func ContextWithSession(ctx context.Context, sess *Session) context.Context {
	if sess == nil {
		return ctx
	}
	return context.WithValue(ctx, sessionKey, sess)
}

// SessionFromContext returns the request session, or nil outside the session
// middleware.
func SessionFromContext(ctx context.Context) *Session {
	sess, _ := ctx.Value(sessionKey).(*Session)
	return sess
}
