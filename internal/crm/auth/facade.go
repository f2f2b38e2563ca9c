// Package auth translates session operations into user-facing outcomes. The
// interface the rest of the service sees is deliberately small: a login that
// returns a fixed user-facing message instead of an error chain, and role
// projections over a session.
package auth

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/galileomedialab/medialab/internal/crm/domain"
	"github.com/galileomedialab/medialab/internal/crm/session"
	"github.com/galileomedialab/medialab/pkg/cms"
)

// User-facing login messages. The UI shows these verbatim, so they are fixed
// strings rather than formatted error text.
const (
	MsgInvalidCredentials = "Credenciales incorrectas"
	MsgConnectionError    = "Error de conexión. Intenta nuevamente."
	MsgOffline            = "Sin conexión a internet"
	MsgTooManyAttempts    = "Demasiados intentos. Intenta de nuevo más tarde."
	MsgGenericLoginError  = "Error al iniciar sesión"
)

// LoginResult is what the login view renders. Error is empty on success.
// Status carries the HTTP status the transport should answer with; it is not
// part of the rendered payload.
type LoginResult struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
	Status  int    `json:"-"`
}

type Facade struct {
	manager *session.Manager
	logger  *slog.Logger
}

func NewFacade(manager *session.Manager, logger *slog.Logger) *Facade {
	return &Facade{manager: manager, logger: logger}
}

// Login runs the credential exchange and folds every failure into one of the
// fixed messages. Failures are reported once; there is no retry or backoff
// here.
func (f *Facade) Login(ctx context.Context, id, email, password string) LoginResult {
	err := f.manager.Login(ctx, id, email, password)
	if err == nil {
		return LoginResult{Success: true, Status: http.StatusOK}
	}

	f.logger.Info("login failed", "session_id", id, "error", err)
	message, status := loginOutcome(err)
	return LoginResult{Error: message, Status: status}
}

// Logout always succeeds.
func (f *Facade) Logout(ctx context.Context, id string) {
	f.manager.Logout(ctx, id)
}

// loginOutcome maps a login failure to its user-facing message and HTTP
// status. Offline is checked before general connectivity since an unreachable
// network is also a connectivity failure.
func loginOutcome(err error) (string, int) {
	switch {
	case errors.Is(err, cms.ErrUnauthorized):
		return MsgInvalidCredentials, http.StatusUnauthorized
	case errors.Is(err, cms.ErrRateLimited):
		return MsgTooManyAttempts, http.StatusTooManyRequests
	case cms.IsOffline(err):
		return MsgOffline, http.StatusBadGateway
	case cms.IsConnectivity(err):
		return MsgConnectionError, http.StatusBadGateway
	default:
		return MsgGenericLoginError, http.StatusInternalServerError
	}
}

// IsAdmin reports whether the session operates with the admin role.
func IsAdmin(sess *session.Session) bool {
	return sess.IsAuthenticated() && sess.Role() == domain.RoleAdmin
}

// IsCollaborator reports whether the session operates with the collaborator role.
func IsCollaborator(sess *session.Session) bool {
	return sess.IsAuthenticated() && sess.Role() == domain.RoleCollaborator
}

// IsClient reports whether the session operates with the client role.
func IsClient(sess *session.Session) bool {
	return sess.IsAuthenticated() && sess.Role() == domain.RoleClient
}
