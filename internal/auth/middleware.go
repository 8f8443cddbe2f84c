package auth

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/arcadia-mall/arcadia-admin/internal/platform/httpx"
	"github.com/arcadia-mall/arcadia-admin/internal/shared"
)

// Middleware resolves the session into an explicit request identity.
type Middleware struct {
	Service *Service
	Logger  *slog.Logger
}

// LoadIdentity attaches the resolved identity to the request context. An
// absent, expired or unresolvable session leaves the request anonymous; the
// permission layer then fails closed.
func (m Middleware) LoadIdentity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess := shared.SessionFromContext(r.Context())
		if sess == nil {
			next.ServeHTTP(w, r)
			return
		}
		raw := strings.TrimSpace(sess.User())
		if raw == "" {
			next.ServeHTTP(w, r)
			return
		}
		userID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			if m.Logger != nil {
				m.Logger.Error("parse session user id", slog.String("value", raw))
			}
			next.ServeHTTP(w, r)
			return
		}
		identity, err := m.Service.Identity(r.Context(), userID)
		if err != nil {
			// Deactivated or deleted account: treat as anonymous.
			next.ServeHTTP(w, r)
			return
		}
		next.ServeHTTP(w, r.WithContext(ContextWithIdentity(r.Context(), identity)))
	})
}

// RequireIdentity rejects anonymous requests with 401.
func RequireIdentity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if IdentityFromContext(r.Context()) == nil {
			httpx.RespondError(w, shared.ErrUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}
