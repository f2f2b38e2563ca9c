package http

import (
	"net/http"

	"github.com/galileomedialab/medialab/internal/crm/domain"
	"github.com/galileomedialab/medialab/pkg/httpx"
)

type meResponse struct {
	User        *domain.User `json:"user"`
	Role        domain.Role  `json:"role"`
	Permissions []string     `json:"permissions"`
}

// handleMe godoc
//
//	@Summary		Current session profile
//	@Description	Returns the signed-in user, their resolved role, and permissions.
//	@Tags			Session
//	@Produce		json
//	@Success		200	{object}	meResponse
//	@Failure		401	{object}	map[string]string	"unauthenticated"
//	@Router			/api/me [get].
func (r *Router) handleMe(w http.ResponseWriter, req *http.Request) {
	sess := r.sessionFor(req)

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, meResponse{
		User:        sess.User(),
		Role:        sess.Role(),
		Permissions: sess.Permissions(),
	})
}
