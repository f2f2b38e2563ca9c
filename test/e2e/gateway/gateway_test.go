package gateway_test

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/galileomedialab/medialab/internal/crm/auth"
	"github.com/galileomedialab/medialab/internal/crm/data"
	"github.com/galileomedialab/medialab/internal/crm/domain"
	crmhttp "github.com/galileomedialab/medialab/internal/crm/http"
	"github.com/galileomedialab/medialab/internal/crm/session"
	"github.com/galileomedialab/medialab/internal/crm/store/drivers/sqlite"
	"github.com/galileomedialab/medialab/pkg/cms"
)

const (
	adminRoleID        = "0b8f3f1e-9e8e-4c6b-9a3a-111111111111"
	collaboratorRoleID = "0b8f3f1e-9e8e-4c6b-9a3a-222222222222"
	clientRoleID       = "0b8f3f1e-9e8e-4c6b-9a3a-333333333333"
)

// fakeBackend is the in-process stand-in for the headless CMS.
type fakeBackend struct {
	accessToken  string
	refreshToken string
	userRole     string
}

func (f *fakeBackend) handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /auth/login", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)

		if req.Password != "hunter2" {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(map[string]any{
				"errors": []map[string]any{{
					"message":    "Invalid user credentials.",
					"extensions": map[string]any{"code": "INVALID_CREDENTIALS"},
				}},
			})
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"data": map[string]any{
				"access_token":  f.accessToken,
				"refresh_token": f.refreshToken,
				"expires":       900000,
			},
		})
	})

	mux.HandleFunc("GET /users/me", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"data": map[string]any{
				"id":         "user-1",
				"first_name": "Ana",
				"last_name":  "Pineda",
				"email":      "ana@example.edu",
				"role":       f.userRole,
			},
		})
	})

	return mux
}

func unsignedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	header := base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"none","typ":"JWT"}`))
	payload, err := json.Marshal(map[string]any{"exp": exp.Unix()})
	require.NoError(t, err)
	return fmt.Sprintf("%s.%s.", header, base64.RawURLEncoding.EncodeToString(payload))
}

// setupGateway boots a full gateway wired to the fake backend and returns its
// base URL plus a cookie-carrying client.
func setupGateway(t *testing.T, backend *fakeBackend) (string, *http.Client) {
	t.Helper()

	cmsServer := httptest.NewServer(backend.handler())
	t.Cleanup(cmsServer.Close)

	st, err := sqlite.NewStore(filepath.Join(t.TempDir(), "gateway.db"),
		"medialab_auth_token", "medialab_refresh_token")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	logger := slog.Default()
	roles, err := domain.NewRoleMap(adminRoleID, collaboratorRoleID, clientRoleID, logger)
	require.NoError(t, err)

	client := cms.NewClient(cmsServer.URL, 5*time.Second)
	manager := session.NewManager(client, st, roles, logger, time.Hour)
	registry := data.NewRegistry()
	manager.OnLogout = registry.Drop

	router := crmhttp.NewRouter(
		manager,
		auth.NewFacade(manager, logger),
		registry,
		st,
		logger,
		"medialab_session",
		time.Hour,
		"e2e",
	)
	router.ApplyRoutes()

	gateway := httptest.NewServer(router)
	t.Cleanup(gateway.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)

	httpClient := &http.Client{
		Jar: jar,
		// Redirects are asserted explicitly.
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
	return gateway.URL, httpClient
}

func postJSON(t *testing.T, client *http.Client, target, body string) *http.Response {
	t.Helper()
	resp, err := client.Post(target, "application/json", bytes.NewReader([]byte(body)))
	require.NoError(t, err)
	return resp
}

func mustParseURL(t *testing.T, raw string) *url.URL {
	t.Helper()
	u, err := url.Parse(raw)
	require.NoError(t, err)
	return u
}

// TestLoginFlow walks the happy path: sign in as an admin, read the profile,
// and follow the dashboard dispatcher to the admin view.
func TestLoginFlow(t *testing.T) {
	backend := &fakeBackend{
		accessToken:  unsignedToken(t, time.Now().Add(15*time.Minute)),
		refreshToken: "ref1",
		userRole:     adminRoleID,
	}
	baseURL, client := setupGateway(t, backend)

	// Sign in.
	resp := postJSON(t, client, baseURL+"/auth/login",
		`{"email":"ana@example.edu","password":"hunter2"}`)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var login struct {
		Success  bool   `json:"success"`
		Redirect string `json:"redirect"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&login))
	require.True(t, login.Success)
	require.Equal(t, "/dashboard/admin", login.Redirect)

	// The profile reflects the resolved role.
	meResp, err := client.Get(baseURL + "/api/me")
	require.NoError(t, err)
	defer meResp.Body.Close()
	require.Equal(t, http.StatusOK, meResp.StatusCode)

	var me struct {
		User struct {
			ID    string `json:"id"`
			Email string `json:"email"`
		} `json:"user"`
		Role string `json:"role"`
	}
	require.NoError(t, json.NewDecoder(meResp.Body).Decode(&me))
	require.Equal(t, "user-1", me.User.ID)
	require.Equal(t, "admin", me.Role)

	// The dispatcher lands the admin on their dashboard.
	dashResp, err := client.Get(baseURL + "/dashboard")
	require.NoError(t, err)
	defer dashResp.Body.Close()
	require.Equal(t, http.StatusSeeOther, dashResp.StatusCode)
	require.Equal(t, "/dashboard/admin", dashResp.Header.Get("Location"))

	adminResp, err := client.Get(baseURL + "/dashboard/admin")
	require.NoError(t, err)
	defer adminResp.Body.Close()
	require.Equal(t, http.StatusOK, adminResp.StatusCode)
}

// TestLoginRejected verifies a failed exchange reports the fixed message and
// leaves the visitor signed out.
func TestLoginRejected(t *testing.T) {
	backend := &fakeBackend{
		accessToken: unsignedToken(t, time.Now().Add(15*time.Minute)),
		userRole:    adminRoleID,
	}
	baseURL, client := setupGateway(t, backend)

	resp := postJSON(t, client, baseURL+"/auth/login",
		`{"email":"ana@example.edu","password":"wrong"}`)
	defer resp.Body.Close()
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	var login struct {
		Success bool   `json:"success"`
		Error   string `json:"error"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&login))
	require.False(t, login.Success)
	require.Equal(t, "Credenciales incorrectas", login.Error)

	// Still unauthenticated: protected routes bounce to login.
	meResp, err := client.Get(baseURL + "/api/me")
	require.NoError(t, err)
	defer meResp.Body.Close()
	require.Equal(t, http.StatusSeeOther, meResp.StatusCode)
	require.Equal(t, "/auth/login", meResp.Header.Get("Location"))
}

// TestSessionSurvivesRestart verifies a persisted session restores across a
// gateway restart sharing the same credential store.
func TestSessionSurvivesRestart(t *testing.T) {
	backend := &fakeBackend{
		accessToken:  unsignedToken(t, time.Now().Add(15*time.Minute)),
		refreshToken: "ref1",
		userRole:     collaboratorRoleID,
	}

	cmsServer := httptest.NewServer(backend.handler())
	t.Cleanup(cmsServer.Close)

	dbPath := filepath.Join(t.TempDir(), "gateway.db")
	logger := slog.Default()
	roles, err := domain.NewRoleMap(adminRoleID, collaboratorRoleID, clientRoleID, logger)
	require.NoError(t, err)

	boot := func() (*httptest.Server, func()) {
		st, err := sqlite.NewStore(dbPath, "medialab_auth_token", "medialab_refresh_token")
		require.NoError(t, err)
		require.NoError(t, st.ApplyMigrations())

		client := cms.NewClient(cmsServer.URL, 5*time.Second)
		manager := session.NewManager(client, st, roles, logger, time.Hour)
		registry := data.NewRegistry()
		manager.OnLogout = registry.Drop

		router := crmhttp.NewRouter(
			manager, auth.NewFacade(manager, logger), registry, st,
			logger, "medialab_session", time.Hour, "e2e",
		)
		router.ApplyRoutes()

		srv := httptest.NewServer(router)
		return srv, func() {
			srv.Close()
			_ = st.Close()
		}
	}

	first, stopFirst := boot()

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	client := &http.Client{Jar: jar}

	resp := postJSON(t, client, first.URL+"/auth/login",
		`{"email":"ana@example.edu","password":"hunter2"}`)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// Move the cookie over to the second instance's host.
	firstURL := first.URL
	stopFirst()

	second, stopSecond := boot()
	defer stopSecond()

	for _, c := range jar.Cookies(mustParseURL(t, firstURL)) {
		jar.SetCookies(mustParseURL(t, second.URL), []*http.Cookie{c})
	}

	meResp, err := client.Get(second.URL + "/api/me")
	require.NoError(t, err)
	defer meResp.Body.Close()
	require.Equal(t, http.StatusOK, meResp.StatusCode)

	var me struct {
		Role string `json:"role"`
	}
	require.NoError(t, json.NewDecoder(meResp.Body).Decode(&me))
	require.Equal(t, "collaborator", me.Role)
}
