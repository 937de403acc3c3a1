package api

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/mockerhub/registry/pkg/authz"
	"github.com/mockerhub/registry/pkg/httputil"
	"github.com/mockerhub/registry/pkg/middleware"
	"github.com/mockerhub/registry/pkg/observability"
	"github.com/mockerhub/registry/pkg/orgs"
	"github.com/mockerhub/registry/pkg/registry"
	"github.com/mockerhub/registry/pkg/repos"
	"github.com/mockerhub/registry/pkg/teams"
	"github.com/mockerhub/registry/pkg/users"
)

// Config carries the dependencies of the API server.
type Config struct {
	Users   *users.Service
	Orgs    *orgs.Service
	Teams   *teams.Service
	Repos   *repos.Service
	Auth    *middleware.Authenticator
	Metrics *observability.Metrics
	Log     *logrus.Logger
}

// Server is the HTTP front of the registry.
type Server struct {
	router *mux.Router
	log    *logrus.Logger
}

// NewServer builds the router and mounts all routes under /api/v1.
func NewServer(cfg Config) *Server {
	s := &Server{
		router: mux.NewRouter(),
		log:    cfg.Log,
	}

	chain := []mux.MiddlewareFunc{
		httputil.RequestIDMiddleware,
		httputil.RecoveryMiddleware(cfg.Log),
		httputil.LoggingMiddleware(cfg.Log),
	}
	if cfg.Metrics != nil {
		chain = append(chain, httputil.MetricsMiddleware(cfg.Metrics))
	}
	s.router.Use(chain...)

	// Probes must stay reachable with a stale Authorization header, so the
	// token middleware applies to the API subrouter only.
	s.router.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)

	v1 := s.router.PathPrefix("/api/v1").Subrouter()
	v1.Use(cfg.Auth.Authenticate)
	NewUserHandlers(cfg.Users, cfg.Repos, cfg.Metrics, cfg.Log).RegisterRoutes(v1)
	NewOrgHandlers(cfg.Orgs, cfg.Teams, cfg.Metrics, cfg.Log).RegisterRoutes(v1)
	NewTeamHandlers(cfg.Teams, cfg.Metrics, cfg.Log).RegisterRoutes(v1)
	NewRepoHandlers(cfg.Repos, cfg.Metrics, cfg.Log).RegisterRoutes(v1)

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// principal authorizes the request's claims for an operation and records the
// decision.
func principal(r *http.Request, m *observability.Metrics, roles []registry.Role, allowPasswordChangePending bool) (authz.Principal, error) {
	p, err := authz.Authorize(middleware.ClaimsFromContext(r.Context()), roles, allowPasswordChangePending)
	m.ObserveAuthzDecision(err == nil)
	return p, err
}

// optionalRequester returns the authenticated user id, or nil for anonymous
// requests.
func optionalRequester(r *http.Request) *int64 {
	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil {
		return nil
	}
	return &claims.UserID
}
