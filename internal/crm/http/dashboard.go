package http

import (
	"net/http"

	"github.com/galileomedialab/medialab/pkg/httpx"
)

// handleDashboardDispatch sends a visitor to the home view for their role.
// Signed-out visitors land on the login page, the same rule DashboardPath
// applies to unknown roles.
func (r *Router) handleDashboardDispatch(w http.ResponseWriter, req *http.Request) {
	sess := r.sessionFor(req)
	if !sess.IsAuthenticated() {
		http.Redirect(w, req, PathLogin, http.StatusSeeOther)
		return
	}
	http.Redirect(w, req, DashboardPath(sess.Role()), http.StatusSeeOther)
}

// dashboardView renders the view payload for a role's home. Access control
// happened in the guard before this runs.
func (r *Router) dashboardView(view string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		sess := r.sessionFor(req)

		httpx.NoCache(w)
		httpx.WriteJSON(w, http.StatusOK, map[string]any{
			"view": view,
			"user": sess.User(),
			"role": sess.Role(),
		})
	})
}

func (r *Router) handleAccessDenied(w http.ResponseWriter, req *http.Request) {
	httpx.WriteError(w, http.StatusForbidden, "Acceso denegado")
}
