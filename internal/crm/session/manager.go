package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/galileomedialab/medialab/internal/crm/domain"
	"github.com/galileomedialab/medialab/internal/crm/store"
	"github.com/galileomedialab/medialab/pkg/cms"
)

// Manager owns every live session. It restores sessions from the credential
// store, runs the login and logout transitions, and keeps the persisted token
// slots in step with in-memory state.
type Manager struct {
	client *cms.Client
	store  store.Store
	roles  *domain.RoleMap
	logger *slog.Logger
	ttl    time.Duration

	// OnLogout, when set, runs after a session is torn down. Used to drop
	// per-session caches.
	OnLogout func(id string)

	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewManager(
	client *cms.Client,
	st store.Store,
	roles *domain.RoleMap,
	logger *slog.Logger,
	ttl time.Duration,
) *Manager {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Manager{
		client:   client,
		store:    st,
		roles:    roles,
		logger:   logger,
		ttl:      ttl,
		sessions: make(map[string]*Session),
	}
}

// Initialize returns the live session for id, restoring it from the
// credential store on first sight. A persisted token with a well-formed
// snapshot restores a signed-in session without a backend round trip; a token
// whose snapshot is missing or corrupt is purged and the session starts
// unauthenticated. Calling Initialize again for a live id is a no-op.
func (m *Manager) Initialize(ctx context.Context, id string) *Session {
	m.mu.RLock()
	existing, ok := m.sessions[id]
	m.mu.RUnlock()
	if ok {
		existing.touch()
		return existing
	}

	sess := m.restore(ctx, id)

	m.mu.Lock()
	defer m.mu.Unlock()
	if raced, ok := m.sessions[id]; ok {
		return raced
	}
	m.sessions[id] = sess
	return sess
}

func (m *Manager) restore(ctx context.Context, id string) *Session {
	sess := newSession(id, m.client.NewSession(""))
	sess.api.SetOnUnauthorized(func() { m.Logout(context.Background(), id) })

	rec, err := m.store.Sessions().Get(ctx, id)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			m.logger.Error("failed to load persisted session", "session_id", id, "error", err)
		}
		return sess
	}
	if rec.AccessToken == "" {
		return sess
	}

	snap, err := parseSnapshot(rec.Snapshot)
	if err != nil {
		m.logger.Warn("purging session with unusable snapshot", "session_id", id, "error", err)
		m.purge(ctx, id)
		return sess
	}

	token := rec.AccessToken
	if m.tokenStale(token) && rec.RefreshToken != "" {
		pair, err := m.client.Refresh(ctx, rec.RefreshToken)
		if err != nil {
			m.logger.Warn("purging session with unrefreshable token", "session_id", id, "error", err)
			m.purge(ctx, id)
			return sess
		}
		token = pair.AccessToken
		if err := m.store.Sessions().SaveTokens(ctx, id, pair.AccessToken, pair.RefreshToken, time.Now().Add(m.ttl)); err != nil {
			m.logger.Error("failed to persist refreshed tokens", "session_id", id, "error", err)
		}
		rec.RefreshToken = pair.RefreshToken
	}

	sess.mu.Lock()
	sess.state = StateAuthenticated
	sess.user = snap.User
	sess.token = token
	sess.refreshToken = rec.RefreshToken
	sess.role = snap.Role
	sess.permissions = snap.Permissions
	sess.mu.Unlock()
	sess.api.SetToken(token)

	return sess
}

// tokenStale reports whether the bearer's embedded expiry has passed. Tokens
// this service cannot parse are treated as live since the backend is the
// authority on rejecting them.
func (m *Manager) tokenStale(token string) bool {
	exp, err := cms.TokenExpiry(token)
	if err != nil {
		return false
	}
	return time.Now().After(exp)
}

// Login exchanges credentials with the backend, loads the profile, resolves
// the role, and persists the session at the transition point. Any failure
// leaves the prior session state untouched and propagates the error.
// Overlapping logins on one session are last-write-wins.
func (m *Manager) Login(ctx context.Context, id, email, password string) error {
	sess := m.Initialize(ctx, id)

	sess.mu.Lock()
	prior := sess.state
	sess.state = StateAuthenticating
	sess.mu.Unlock()

	restore := func() {
		sess.mu.Lock()
		// The unauthorized hook may have torn the session down while a call
		// was in flight; only relabel a state this login still owns.
		if sess.state == StateAuthenticating {
			sess.state = prior
		}
		sess.mu.Unlock()
	}

	pair, err := m.client.Login(ctx, email, password)
	if err != nil {
		restore()
		return fmt.Errorf("credential exchange failed: %w", err)
	}

	if err := m.store.Sessions().SaveTokens(ctx, id, pair.AccessToken, pair.RefreshToken, time.Now().Add(m.ttl)); err != nil {
		restore()
		return fmt.Errorf("failed to persist tokens: %w", err)
	}

	api := sess.API()
	api.SetToken(pair.AccessToken)

	profile, err := api.Me(ctx)
	if err != nil {
		api.SetToken(sess.Token())
		restore()
		return fmt.Errorf("failed to load profile: %w", err)
	}

	user := &domain.User{
		ID:        profile.ID,
		FirstName: profile.FirstName,
		LastName:  profile.LastName,
		Email:     profile.Email,
		Role:      m.roles.Map(profile.Role),
	}

	sess.mu.Lock()
	sess.state = StateAuthenticated
	sess.user = user
	sess.token = pair.AccessToken
	sess.refreshToken = pair.RefreshToken
	sess.role = user.Role
	sess.permissions = nil
	sess.mu.Unlock()

	m.persistSnapshot(ctx, sess)

	m.logger.Info("session authenticated",
		"session_id", id,
		"user_id", user.ID,
		"role", string(user.Role),
	)
	return nil
}

// Logout tears the session down from any state: user, tokens, role, and
// permissions are cleared, persisted slots purged, the bearer disarmed, and
// the live entry evicted from memory. It never fails; storage errors are
// logged and swallowed.
func (m *Manager) Logout(ctx context.Context, id string) {
	m.mu.Lock()
	sess, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()

	if ok {
		sess.mu.Lock()
		sess.state = StateUnauthenticated
		sess.user = nil
		sess.token = ""
		sess.refreshToken = ""
		sess.role = ""
		sess.permissions = nil
		sess.mu.Unlock()
		sess.api.SetToken("")
	}

	m.purge(ctx, id)

	if m.OnLogout != nil {
		m.OnLogout(id)
	}

	m.logger.Info("session ended", "session_id", id)
}

// UpdateToken swaps the bearer token, re-arms the backend handle, and
// persists the new state. An empty token leaves the session unauthenticated.
func (m *Manager) UpdateToken(ctx context.Context, id, token string) {
	sess := m.Initialize(ctx, id)

	sess.mu.Lock()
	sess.token = token
	if token == "" {
		sess.state = StateUnauthenticated
	} else {
		sess.state = StateAuthenticated
	}
	refresh := sess.refreshToken
	sess.mu.Unlock()
	sess.api.SetToken(token)

	if err := m.store.Sessions().SaveTokens(ctx, id, token, refresh, time.Now().Add(m.ttl)); err != nil {
		m.logger.Error("failed to persist rotated token", "session_id", id, "error", err)
	}
	m.persistSnapshot(ctx, sess)
}

// SetUser replaces the profile and re-resolves the role from its backend
// role identifier, then persists the snapshot.
func (m *Manager) SetUser(ctx context.Context, id string, profile *cms.User) {
	sess := m.Initialize(ctx, id)

	user := &domain.User{
		ID:        profile.ID,
		FirstName: profile.FirstName,
		LastName:  profile.LastName,
		Email:     profile.Email,
		Role:      m.roles.Map(profile.Role),
	}

	sess.mu.Lock()
	sess.user = user
	sess.role = user.Role
	sess.mu.Unlock()

	m.persistSnapshot(ctx, sess)
}

// Len reports how many sessions are held in memory.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// PruneIdle evicts sessions that have not served a request for maxIdle from
// memory and reports how many went. Cookie-less visitors mint a session per
// request, so without this sweep the map grows with every crawler hit.
// Eviction never signs anyone out: an authenticated session restores from the
// credential store on its next request.
func (m *Manager) PruneIdle(maxIdle time.Duration) int {
	cutoff := time.Now().Add(-maxIdle)

	m.mu.Lock()
	defer m.mu.Unlock()

	pruned := 0
	for id, sess := range m.sessions {
		if sess.LastSeen().Before(cutoff) {
			delete(m.sessions, id)
			pruned++
		}
	}
	return pruned
}

func (m *Manager) persistSnapshot(ctx context.Context, sess *Session) {
	raw, err := sess.marshalSnapshot()
	if err != nil {
		m.logger.Error("failed to serialize session snapshot", "session_id", sess.ID(), "error", err)
		return
	}
	if err := m.store.Sessions().SaveSnapshot(ctx, sess.ID(), raw); err != nil && !errors.Is(err, store.ErrNotFound) {
		m.logger.Error("failed to persist session snapshot", "session_id", sess.ID(), "error", err)
	}
}

func (m *Manager) purge(ctx context.Context, id string) {
	if err := m.store.Sessions().Purge(ctx, id); err != nil {
		m.logger.Error("failed to purge persisted session", "session_id", id, "error", err)
	}
}
