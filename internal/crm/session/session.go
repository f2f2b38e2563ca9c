package session

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/galileomedialab/medialab/internal/crm/domain"
	"github.com/galileomedialab/medialab/pkg/cms"
)

// State is where a session sits in its lifecycle.
type State string

const (
	// StateUnauthenticated is the initial state and the state after logout.
	StateUnauthenticated State = "unauthenticated"

	// StateAuthenticating covers the window between submitting credentials
	// and the backend answering.
	StateAuthenticating State = "authenticating"

	// StateAuthenticated means a bearer token is armed and a profile loaded.
	StateAuthenticated State = "authenticated"
)

// Session is the per-browser authentication state. All mutation goes through
// Manager; handlers read it through the accessor methods.
//
// Invariant: IsAuthenticated() is true exactly when a bearer token is held.
type Session struct {
	id string

	mu           sync.RWMutex
	state        State
	user         *domain.User
	token        string
	refreshToken string
	role         domain.Role
	permissions  []string
	lastSeen     time.Time

	api *cms.Session
}

func newSession(id string, api *cms.Session) *Session {
	return &Session{
		id:       id,
		state:    StateUnauthenticated,
		lastSeen: time.Now(),
		api:      api,
	}
}

// ID returns the session identifier (the cookie value).
func (s *Session) ID() string { return s.id }

// API returns the backend handle carrying this session's bearer token.
func (s *Session) API() *cms.Session { return s.api }

func (s *Session) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// User returns the signed-in profile, or nil.
func (s *Session) User() *domain.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

func (s *Session) RefreshToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.refreshToken
}

// Role returns the resolved logical role, empty while unauthenticated.
func (s *Session) Role() domain.Role {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.role
}

// Permissions is currently always empty. Fine-grained permissions live in the
// backend; this slot exists so the snapshot format does not change when they
// arrive.
func (s *Session) Permissions() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.permissions
}

// IsAuthenticated reports whether a bearer token is held. This is derived
// from the token, never stored, so it cannot drift out of sync.
func (s *Session) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token != ""
}

// LastSeen returns when the session last served a request.
func (s *Session) LastSeen() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastSeen
}

func (s *Session) touch() {
	s.mu.Lock()
	s.lastSeen = time.Now()
	s.mu.Unlock()
}

// snapshot is the persisted subset of session state, enough to restore a
// signed-in session without a backend round trip.
type snapshot struct {
	User            *domain.User `json:"user"`
	Token           string       `json:"token"`
	Role            domain.Role  `json:"role"`
	Permissions     []string     `json:"permissions"`
	IsAuthenticated bool         `json:"isAuthenticated"`
}

func (s *Session) marshalSnapshot() ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return json.Marshal(snapshot{
		User:            s.user,
		Token:           s.token,
		Role:            s.role,
		Permissions:     s.permissions,
		IsAuthenticated: s.token != "",
	})
}

// parseSnapshot decodes and validates a persisted snapshot. A snapshot that
// parses but cannot describe a signed-in session is reported as corrupt so
// the caller purges it.
func parseSnapshot(raw []byte) (snapshot, error) {
	var snap snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return snapshot{}, fmt.Errorf("malformed snapshot: %w", err)
	}
	if !snap.IsAuthenticated || snap.Token == "" {
		return snapshot{}, fmt.Errorf("snapshot does not describe a signed-in session")
	}
	if snap.User == nil {
		return snapshot{}, fmt.Errorf("snapshot missing user profile")
	}
	if !snap.Role.Valid() {
		return snapshot{}, fmt.Errorf("snapshot carries unknown role %q", snap.Role)
	}
	return snap, nil
}
