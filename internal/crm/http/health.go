package http

import (
	"net/http"
	"time"

	"github.com/galileomedialab/medialab/pkg/httpx"
)

type healthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime"`
	Version string        `json:"version"`
	Checks  *healthChecks `json:"checks,omitempty"`
}

type healthChecks struct {
	Database string `json:"database"`
}

// handleLivez godoc
//
//	@Summary		Health Check Endpoint
//	@Description	Liveness probe returning basic service health, uptime, and version
//	@Tags			Health
//	@Produce		json
//	@Success		200	{object}	healthResponse	"status, uptime, version"
//	@Router			/livez [get].
func (r *Router) handleLivez(w http.ResponseWriter, req *http.Request) {
	httpx.WriteJSON(w, http.StatusOK, healthResponse{
		Status:  "ok",
		Uptime:  time.Since(r.startTime).String(),
		Version: r.buildVersion,
	})
}

// handleReadyz godoc
//
//	@Summary		Readiness Check Endpoint
//	@Description	Readiness probe checking the credential store connection
//	@Tags			Health
//	@Produce		json
//	@Success		200	{object}	healthResponse	"status, uptime, version, checks"
//	@Failure		503	{object}	healthResponse	"service not ready"
//	@Router			/readyz [get].
func (r *Router) handleReadyz(w http.ResponseWriter, req *http.Request) {
	checks := &healthChecks{Database: "ok"}
	status := "ok"
	code := http.StatusOK

	if err := r.store.Ping(req.Context()); err != nil {
		checks.Database = "error: " + err.Error()
		status = "degraded"
		code = http.StatusServiceUnavailable
	}

	httpx.WriteJSON(w, code, healthResponse{
		Status:  status,
		Uptime:  time.Since(r.startTime).String(),
		Version: r.buildVersion,
		Checks:  checks,
	})
}
