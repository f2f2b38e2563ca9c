package http

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/galileomedialab/medialab/internal/crm/auth"
	"github.com/galileomedialab/medialab/internal/crm/data"
	"github.com/galileomedialab/medialab/internal/crm/domain"
	"github.com/galileomedialab/medialab/internal/crm/session"
	"github.com/galileomedialab/medialab/internal/crm/store/drivers/sqlite"
	"github.com/galileomedialab/medialab/pkg/cms"
	"github.com/galileomedialab/medialab/pkg/idx"
)

const (
	adminUUID        = "0b8f3f1e-9e8e-4c6b-9a3a-111111111111"
	collaboratorUUID = "0b8f3f1e-9e8e-4c6b-9a3a-222222222222"
	clientUUID       = "0b8f3f1e-9e8e-4c6b-9a3a-333333333333"
)

// fakeCMS is an in-process stand-in for the backend.
type fakeCMS struct {
	mu       sync.Mutex
	password string
	token    string
	userRole string
	items    map[string][]map[string]any
	nextID   int64
}

func newFakeCMS(t *testing.T, userRole string) *fakeCMS {
	return &fakeCMS{
		password: "hunter2",
		token:    testToken(t, time.Now().Add(15*time.Minute)),
		userRole: userRole,
		items:    make(map[string][]map[string]any),
		nextID:   100,
	}
}

func testToken(t *testing.T, exp time.Time) string {
	t.Helper()
	header := base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"none","typ":"JWT"}`))
	payload, err := json.Marshal(map[string]any{"exp": exp.Unix()})
	require.NoError(t, err)
	return fmt.Sprintf("%s.%s.", header, base64.RawURLEncoding.EncodeToString(payload))
}

func (f *fakeCMS) handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /auth/login", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()

		var req struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req.Password != f.password {
			f.writeError(w, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid user credentials.")
			return
		}
		f.writeData(w, map[string]any{
			"access_token":  f.token,
			"refresh_token": "rt-1",
			"expires":       900000,
		})
	})

	mux.HandleFunc("GET /users/me", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()

		if !f.authorized(r) {
			f.writeError(w, http.StatusUnauthorized, "INVALID_TOKEN", "Invalid token.")
			return
		}
		f.writeData(w, map[string]any{
			"id":         "user-1",
			"first_name": "Ana",
			"last_name":  "Pineda",
			"email":      "ana@example.edu",
			"role":       f.userRole,
		})
	})

	mux.HandleFunc("GET /items/{collection}", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()

		if !f.authorized(r) {
			f.writeError(w, http.StatusUnauthorized, "INVALID_TOKEN", "Invalid token.")
			return
		}
		f.writeData(w, f.items[r.PathValue("collection")])
	})

	mux.HandleFunc("POST /items/{collection}", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()

		if !f.authorized(r) {
			f.writeError(w, http.StatusUnauthorized, "INVALID_TOKEN", "Invalid token.")
			return
		}
		var payload map[string]any
		_ = json.NewDecoder(r.Body).Decode(&payload)
		f.nextID++
		payload["id"] = f.nextID
		coll := r.PathValue("collection")
		f.items[coll] = append(f.items[coll], payload)
		f.writeData(w, payload)
	})

	return mux
}

func (f *fakeCMS) authorized(r *http.Request) bool {
	return r.Header.Get("Authorization") == "Bearer "+f.token
}

func (f *fakeCMS) writeData(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"data": data})
}

func (f *fakeCMS) writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"errors": []map[string]any{{
			"message":    message,
			"extensions": map[string]any{"code": code},
		}},
	})
}

// testHarness wires a full router against a fake backend.
type testHarness struct {
	router  *Router
	manager *session.Manager
	backend *httptest.Server
}

func newTestHarness(t *testing.T, fake *fakeCMS) *testHarness {
	t.Helper()

	backend := httptest.NewServer(fake.handler())
	t.Cleanup(backend.Close)

	st, err := sqlite.NewStore(filepath.Join(t.TempDir(), "gateway.db"),
		"medialab_auth_token", "medialab_refresh_token")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	logger := slog.Default()
	roles, err := domain.NewRoleMap(adminUUID, collaboratorUUID, clientUUID, logger)
	require.NoError(t, err)

	client := cms.NewClient(backend.URL, 5*time.Second)
	manager := session.NewManager(client, st, roles, logger, time.Hour)
	registry := data.NewRegistry()
	manager.OnLogout = registry.Drop

	router := NewRouter(
		manager,
		auth.NewFacade(manager, logger),
		registry,
		st,
		logger,
		"medialab_session",
		time.Hour,
		"test",
	)
	router.ApplyRoutes()

	return &testHarness{router: router, manager: manager, backend: backend}
}

// signIn creates an authenticated session and returns its ID. Session IDs
// must be ULIDs since the cookie middleware rejects anything else.
func (h *testHarness) signIn(t *testing.T) string {
	t.Helper()
	id := idx.New().String()
	require.NoError(t, h.manager.Login(context.Background(), id, "ana@example.edu", "hunter2"))
	return id
}

func (h *testHarness) session(id string) *session.Session {
	return h.manager.Initialize(context.Background(), id)
}
