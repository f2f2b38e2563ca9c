package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/galileomedialab/medialab/internal/crm/auth"
	"github.com/galileomedialab/medialab/internal/crm/data"
	"github.com/galileomedialab/medialab/internal/crm/domain"
	"github.com/galileomedialab/medialab/internal/crm/session"
	"github.com/galileomedialab/medialab/internal/crm/store"
	"github.com/galileomedialab/medialab/pkg/httpx"
	"github.com/galileomedialab/medialab/pkg/slogx"

	_ "github.com/galileomedialab/medialab/api/crm" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	manager  *session.Manager
	facade   *auth.Facade
	registry *data.Registry
	store    store.Store
	logger   *slog.Logger

	cookieName   string
	sessionTTL   time.Duration
	buildVersion string
	startTime    time.Time
}

func NewRouter(
	manager *session.Manager,
	facade *auth.Facade,
	registry *data.Registry,
	st store.Store,
	logger *slog.Logger,
	cookieName string,
	sessionTTL time.Duration,
	buildVersion string,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		manager:      manager,
		facade:       facade,
		registry:     registry,
		store:        st,
		logger:       logger,
		cookieName:   cookieName,
		sessionTTL:   sessionTTL,
		buildVersion: buildVersion,
		startTime:    time.Now(),
	}

	// Set default middleware chain
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
		r.SessionMiddleware(),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerAuth()
	r.registerDashboards()
	r.registerAPI()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			Medialab CRM Gateway API
//	@version		0.1.0
//	@description	Session gateway for the university media production CRM. It signs
//	@description	browser users in against the headless CMS backend, resolves their
//	@description	role, guards routes, and proxies entity reads and writes.
//
//	@contact.name	Galileo Medialab
//
//	@host		localhost:8080
//	@BasePath	/
//
//	@schemes	http https
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerAuth() {
	// POST /auth/login - strict rate limit by IP and account (authentication attempts)
	r.Mux.Handle("POST /auth/login",
		httpx.Chain(http.HandlerFunc(r.handleLogin),
			httpx.RateLimitByIPAndJSONField(httpx.StrictLimit, "email"),
		),
	)

	// GET /auth/login - public-only login view
	r.Mux.Handle("GET /auth/login", r.PublicOnly(http.HandlerFunc(r.handleLoginPage)))

	r.Mux.Handle("POST /auth/logout", http.HandlerFunc(r.handleLogout))
}

func (r *Router) registerDashboards() {
	dispatch := http.HandlerFunc(r.handleDashboardDispatch)
	r.Mux.Handle("GET /{$}", dispatch)
	r.Mux.Handle("GET /dashboard", dispatch)

	r.Mux.Handle("GET /dashboard/admin", r.Protect(Policy{
		AllowedRoles: []domain.Role{domain.RoleAdmin},
	}, r.dashboardView("admin")))

	r.Mux.Handle("GET /dashboard/collaborator", r.Protect(Policy{
		AllowedRoles: []domain.Role{domain.RoleAdmin, domain.RoleCollaborator},
	}, r.dashboardView("collaborator")))

	// The client portal renders an access-denied payload instead of bouncing
	// other roles, so clients never leak into staff dashboards and vice versa.
	r.Mux.Handle("GET /portal/client", r.Protect(Policy{
		AllowedRoles: []domain.Role{domain.RoleClient},
		Fallback:     http.HandlerFunc(r.handleAccessDenied),
	}, r.dashboardView("client")))
}

func (r *Router) registerAPI() {
	authed := Policy{}

	r.Mux.Handle("GET /api/me", r.Protect(authed, http.HandlerFunc(r.handleMe)))

	registerEntityRoutes(r, "requests", entityProxy[domain.Request]{
		collection: domain.CollectionRequests,
		cache:      func(c *data.Caches) *data.Collection[domain.Request] { return c.Requests },
		listFields: []string{"*", "department_name.*", "services.*"},
	})
	registerEntityRoutes(r, "projects", entityProxy[domain.Project]{
		collection: domain.CollectionProjects,
		cache:      func(c *data.Caches) *data.Collection[domain.Project] { return c.Projects },
		listFields: []string{"*", "faculty.id", "faculty.name", "faculty.short_name"},
	})
	registerEntityRoutes(r, "tasks", entityProxy[domain.Task]{
		collection: domain.CollectionTasks,
		cache:      func(c *data.Caches) *data.Collection[domain.Task] { return c.Tasks },
	})
	registerEntityRoutes(r, "deliverables", entityProxy[domain.TaskDeliverable]{
		collection: domain.CollectionTaskDeliverables,
		cache:      func(c *data.Caches) *data.Collection[domain.TaskDeliverable] { return c.Deliverables },
	})

	r.Mux.Handle("GET /api/catalogs",
		r.Protect(authed, httpx.Chain(http.HandlerFunc(r.handleCatalogs),
			httpx.RateLimitBySession(httpx.ModerateLimit),
		)),
	)
}

func (r *Router) registerSystem() {
	// Health check endpoints - lenient rate limits (monitoring systems may poll frequently)
	r.Mux.Handle("GET /livez",
		httpx.Chain(http.HandlerFunc(r.handleLivez),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(http.HandlerFunc(r.handleReadyz),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
}
