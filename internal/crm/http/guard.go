package http

import (
	"net/http"

	"github.com/galileomedialab/medialab/internal/crm/domain"
	"github.com/galileomedialab/medialab/internal/crm/session"
)

// Route targets used by the guard layer.
const (
	PathLogin                 = "/auth/login"
	PathDashboard             = "/dashboard"
	PathDashboardAdmin        = "/dashboard/admin"
	PathDashboardCollaborator = "/dashboard/collaborator"
	PathPortalClient          = "/portal/client"
)

// Policy declares who may reach a route and where everyone else goes.
type Policy struct {
	// AllowedRoles lists the roles that may pass. Empty means any
	// authenticated session passes.
	AllowedRoles []domain.Role

	// RedirectTarget receives authenticated sessions whose role is not
	// allowed. Empty defaults to the dashboard dispatcher.
	RedirectTarget string

	// Fallback, when set, is rendered for disallowed roles instead of
	// redirecting.
	Fallback http.Handler
}

// Verdict is the outcome of a guard decision.
type Verdict int

const (
	// VerdictRender lets the request through to the route's handler.
	VerdictRender Verdict = iota

	// VerdictRedirectLogin sends the visitor to the login page.
	VerdictRedirectLogin

	// VerdictRedirectTarget sends the visitor to Decision.Target.
	VerdictRedirectTarget

	// VerdictFallback renders the policy's fallback handler.
	VerdictFallback
)

// Decision is a resolved verdict plus its redirect target when relevant.
type Decision struct {
	Verdict Verdict
	Target  string
}

// Decide resolves a session against a policy. The authentication check
// dominates the role check: an unauthenticated session always goes to login,
// regardless of role configuration. Decisions never fail.
func Decide(sess *session.Session, policy Policy) Decision {
	if !sess.IsAuthenticated() {
		return Decision{Verdict: VerdictRedirectLogin, Target: PathLogin}
	}

	if len(policy.AllowedRoles) == 0 {
		return Decision{Verdict: VerdictRender}
	}

	role := sess.Role()
	for _, allowed := range policy.AllowedRoles {
		if role == allowed {
			return Decision{Verdict: VerdictRender}
		}
	}

	if policy.Fallback != nil {
		return Decision{Verdict: VerdictFallback}
	}

	target := policy.RedirectTarget
	if target == "" {
		target = PathDashboard
	}
	return Decision{Verdict: VerdictRedirectTarget, Target: target}
}

// DashboardPath maps a role to its home view. It is total: anything that is
// not a known role, including the absent role of a signed-out session, lands
// on the login page.
func DashboardPath(role domain.Role) string {
	switch role {
	case domain.RoleAdmin:
		return PathDashboardAdmin
	case domain.RoleCollaborator:
		return PathDashboardCollaborator
	case domain.RoleClient:
		return PathPortalClient
	default:
		return PathLogin
	}
}

// Protect wraps a handler with a policy decision.
func (r *Router) Protect(policy Policy, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		sess := r.sessionFor(req)

		switch d := Decide(sess, policy); d.Verdict {
		case VerdictRender:
			next.ServeHTTP(w, req)
		case VerdictFallback:
			policy.Fallback.ServeHTTP(w, req)
		default:
			http.Redirect(w, req, d.Target, http.StatusSeeOther)
		}
	})
}

// PublicOnly keeps signed-in visitors away from public pages such as the
// login form, bouncing them through the dashboard dispatcher.
func (r *Router) PublicOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		sess := r.sessionFor(req)
		if sess.IsAuthenticated() {
			http.Redirect(w, req, DashboardPath(sess.Role()), http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, req)
	})
}
