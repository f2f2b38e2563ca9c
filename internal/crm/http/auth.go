package http

import (
	"encoding/json"
	"net/http"

	"github.com/galileomedialab/medialab/pkg/httpx"
	"github.com/galileomedialab/medialab/pkg/slogx"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Success  bool   `json:"success"`
	Error    string `json:"error,omitempty"`
	Redirect string `json:"redirect,omitempty"`
}

// handleLogin godoc
//
//	@Summary		Sign in
//	@Description	Exchanges email and password with the backend and establishes
//	@Description	the browser session. Failures carry a fixed user-facing message.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			credentials	body		loginRequest	true	"Credentials"
//	@Success		200			{object}	loginResponse	"success plus dashboard redirect"
//	@Failure		401			{object}	loginResponse	"invalid credentials"
//	@Failure		429			{object}	loginResponse	"backend throttled the account"
//	@Failure		502			{object}	loginResponse	"backend unreachable"
//	@Router			/auth/login [post].
func (r *Router) handleLogin(w http.ResponseWriter, req *http.Request) {
	ctx := req.Context()
	log := slogx.FromContext(ctx)

	var body loginRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "malformed request body")
		return
	}
	if body.Email == "" || body.Password == "" {
		httpx.WriteError(w, http.StatusBadRequest, "email and password are required")
		return
	}

	id := httpx.SessionIDFromContext(ctx)
	result := r.facade.Login(ctx, id, body.Email, body.Password)
	if !result.Success {
		httpx.WriteJSON(w, result.Status, loginResponse{Error: result.Error})
		return
	}

	sess := r.sessionFor(req)
	log.Info("login succeeded", "user_id", sess.User().ID)

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, loginResponse{
		Success:  true,
		Redirect: DashboardPath(sess.Role()),
	})
}

// handleLoginPage renders the login view payload. Authenticated visitors
// never reach this handler; PublicOnly bounces them first.
func (r *Router) handleLoginPage(w http.ResponseWriter, req *http.Request) {
	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, map[string]any{
		"view": "login",
	})
}

// handleLogout godoc
//
//	@Summary		Sign out
//	@Description	Tears down the session. Always succeeds.
//	@Tags			Auth
//	@Produce		json
//	@Success		200	{object}	map[string]string	"redirect to login"
//	@Router			/auth/logout [post].
func (r *Router) handleLogout(w http.ResponseWriter, req *http.Request) {
	id := httpx.SessionIDFromContext(req.Context())
	r.facade.Logout(req.Context(), id)

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, map[string]string{"redirect": PathLogin})
}
