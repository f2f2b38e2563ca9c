package http

import (
	"net/http"
	"time"

	"github.com/galileomedialab/medialab/internal/crm/session"
	"github.com/galileomedialab/medialab/pkg/httpx"
	"github.com/galileomedialab/medialab/pkg/idx"
)

// SessionMiddleware resolves the browser's session cookie to a live session,
// minting a fresh ULID cookie for first-time visitors. The session ID rides
// the request context for handlers and rate limiting.
func (r *Router) SessionMiddleware() httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			id := r.sessionID(req)
			if id == "" {
				id = idx.New().String()
				http.SetCookie(w, &http.Cookie{
					Name:     r.cookieName,
					Value:    id,
					Path:     "/",
					MaxAge:   int(r.sessionTTL / time.Second),
					HttpOnly: true,
					SameSite: http.SameSiteLaxMode,
				})
			}

			r.manager.Initialize(req.Context(), id)

			ctx := httpx.WithSessionID(req.Context(), id)
			next.ServeHTTP(w, req.WithContext(ctx))
		})
	}
}

// sessionID reads the session cookie, rejecting values that do not parse as
// ULIDs so a tampered cookie simply starts a fresh session.
func (r *Router) sessionID(req *http.Request) string {
	cookie, err := req.Cookie(r.cookieName)
	if err != nil {
		return ""
	}
	if _, err := idx.Parse(cookie.Value); err != nil {
		return ""
	}
	return cookie.Value
}

// sessionFor returns the live session for a request that already passed
// SessionMiddleware.
func (r *Router) sessionFor(req *http.Request) *session.Session {
	return r.manager.Initialize(req.Context(), httpx.SessionIDFromContext(req.Context()))
}
