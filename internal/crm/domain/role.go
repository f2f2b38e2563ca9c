package domain

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
)

// Role is the logical access level a signed-in user operates under. The
// backend stores roles as opaque UUIDs; RoleMap translates those into one of
// these three values.
type Role string

const (
	RoleAdmin        Role = "admin"
	RoleCollaborator Role = "collaborator"
	RoleClient       Role = "client"
)

// Valid reports whether r is one of the three known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleCollaborator, RoleClient:
		return true
	}
	return false
}

// name aliases accepted when the backend returns an expanded role object
// instead of a bare UUID. Matched case-insensitively.
var roleAliases = map[string]Role{
	"administrator": RoleAdmin,
	"admin":         RoleAdmin,
	"collaborator":  RoleCollaborator,
	"colaborador":   RoleCollaborator,
	"client":        RoleClient,
	"cliente":       RoleClient,
}

// RoleMap resolves backend role identifiers to logical roles. The UUID table
// comes from configuration since role IDs differ per backend deployment.
type RoleMap struct {
	byID   map[string]Role
	logger *slog.Logger
}

// NewRoleMap builds a RoleMap from configured role UUIDs. Every ID must be a
// well-formed UUID so a typo in configuration fails at startup instead of
// silently downgrading users.
func NewRoleMap(adminID, collaboratorID, clientID string, logger *slog.Logger) (*RoleMap, error) {
	ids := map[string]Role{
		adminID:        RoleAdmin,
		collaboratorID: RoleCollaborator,
		clientID:       RoleClient,
	}

	byID := make(map[string]Role, len(ids))
	for id, role := range ids {
		if id == "" {
			return nil, fmt.Errorf("missing role id for %q", role)
		}
		if _, err := uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("invalid role id %q for %q: %w", id, role, err)
		}
		byID[id] = role
	}
	if len(byID) != 3 {
		return nil, fmt.Errorf("role ids must be distinct")
	}

	return &RoleMap{byID: byID, logger: logger}, nil
}

// Map resolves a backend role identifier, either a UUID or a role name, to a
// logical Role. Unknown identifiers resolve to RoleClient so an unrecognized
// role never grants elevated access.
func (m *RoleMap) Map(backendRole string) Role {
	if role, ok := m.byID[backendRole]; ok {
		return role
	}
	if role, ok := roleAliases[strings.ToLower(strings.TrimSpace(backendRole))]; ok {
		return role
	}

	m.logger.Warn("unrecognized backend role, defaulting to client",
		"backend_role", backendRole,
	)
	return RoleClient
}
