// Package httpapi exposes the platform over HTTP.
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/ae2i-algerie/recrutement-api/internal/auth"
	"github.com/ae2i-algerie/recrutement-api/internal/linkedin"
	"github.com/ae2i-algerie/recrutement-api/internal/obs"
	"github.com/ae2i-algerie/recrutement-api/internal/recruit"
)

// Pinger reports backend connectivity for the readiness probe.
type Pinger interface {
	Ping(ctx context.Context) error
}

// ReadyProbe checks the data store before declaring the service ready.
type ReadyProbe struct {
	Pinger Pinger
}

func (rp ReadyProbe) Check(ctx context.Context) error {
	if rp.Pinger == nil {
		return nil
	}
	return rp.Pinger.Ping(ctx)
}

// Options carries the collaborators the API needs. Auth and Recruit are
// required; LinkedIn may be nil when social sign-on is not configured.
type Options struct {
	Auth     *auth.Service
	Recruit  *recruit.Service
	LinkedIn *linkedin.Provider
	Ready    ReadyProbe
	Logger   zerolog.Logger
	Version  string

	// FrontendOrigin is the postMessage target for the social sign-on popup.
	// Empty means any origin.
	FrontendOrigin string
}

// API is the HTTP layer.
type API struct {
	mux            *http.ServeMux
	auth           *auth.Service
	recruit        *recruit.Service
	linkedin       *linkedin.Provider
	ready          ReadyProbe
	logger         zerolog.Logger
	version        string
	frontendOrigin string
}

func New(opts Options) *API {
	a := &API{
		mux:            http.NewServeMux(),
		auth:           opts.Auth,
		recruit:        opts.Recruit,
		linkedin:       opts.LinkedIn,
		ready:          opts.Ready,
		logger:         opts.Logger,
		version:        opts.Version,
		frontendOrigin: opts.FrontendOrigin,
	}

	// health/ready
	a.mux.HandleFunc("/healthz", a.handleHealthz)
	a.mux.HandleFunc("/readyz", a.handleReadyz)

	// Prometheus metrics
	a.mux.Handle("/metrics", obs.Handler())

	// session lifecycle
	a.mux.HandleFunc("/auth/register", a.handleRegister)
	a.mux.HandleFunc("/auth/login", a.handleLogin)
	a.mux.HandleFunc("/auth/refresh", a.handleRefresh)
	a.mux.HandleFunc("/auth/logout", a.handleLogout)
	a.mux.HandleFunc("/auth/me", a.handleMe)

	// social sign-on
	a.mux.HandleFunc("/linkedin/login", a.handleLinkedInLogin)
	a.mux.HandleFunc("/linkedin/callback", a.handleLinkedInCallback)

	// recruitment
	a.mux.HandleFunc("/candidates", a.handleCandidatesCollection)
	a.mux.HandleFunc("/candidates/", a.handleCandidateResource)
	a.mux.HandleFunc("/jobs", a.handleJobsCollection)
	a.mux.HandleFunc("/jobs/", a.handleJobResource)

	// administration
	a.mux.HandleFunc("/admin/stats", a.handleAdminStats)
	a.mux.HandleFunc("/admin/logs", a.handleAdminLogs)
	a.mux.HandleFunc("/admin/export/candidates", a.handleExportCandidates)
	a.mux.HandleFunc("/admin/export/jobs", a.handleExportJobs)
	a.mux.HandleFunc("/admin/users", a.handleAdminUsers)
	a.mux.HandleFunc("/admin/users/", a.handleAdminUserResource)

	a.mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, http.StatusNotFound, "Route non trouvée")
	})

	return a
}

// Handler wraps the mux with authentication and metrics. The outer
// middleware chain (logging, CORS, limits) is assembled by the caller.
func (a *API) Handler() http.Handler {
	return obs.Instrument(a.withAuth(a.mux))
}

func (a *API) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"service": "recrutement-api",
		"version": a.version,
	})
}

func (a *API) handleReadyz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()
	if err := a.ready.Check(ctx); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]any{
			"status": "not_ready",
			"error":  err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "ready"})
}
