package api

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/mockerhub/registry/pkg/httputil"
	"github.com/mockerhub/registry/pkg/observability"
	"github.com/mockerhub/registry/pkg/repos"
)

// RepoHandlers serves repository routes. Reads allow anonymous requests;
// visibility is resolved per repository.
type RepoHandlers struct {
	repos   *repos.Service
	metrics *observability.Metrics
	log     *logrus.Logger
}

// NewRepoHandlers creates the repository handler group.
func NewRepoHandlers(repos *repos.Service, metrics *observability.Metrics, log *logrus.Logger) *RepoHandlers {
	return &RepoHandlers{repos: repos, metrics: metrics, log: log}
}

// RegisterRoutes mounts the repository routes. The canonical-name pattern
// spans slashes so org and personal names resolve on one route.
func (h *RepoHandlers) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/repositories", h.create).Methods(http.MethodPost)
	router.HandleFunc("/repositories/{canonical:.+}", h.getByCanonicalName).Methods(http.MethodGet)
}

type createRepoRequest struct {
	Name           string `json:"name"`
	Description    string `json:"desc"`
	Public         bool   `json:"public"`
	OrganizationID *int64 `json:"organization_id,omitempty"`
}

func (h *RepoHandlers) create(w http.ResponseWriter, r *http.Request) {
	p, err := principal(r, h.metrics, nil, false)
	if err != nil {
		httputil.WriteDomainError(h.log, w, err)
		return
	}

	var req createRepoRequest
	if !httputil.ParseJSONOrError(w, r, &req) {
		return
	}

	repo, err := h.repos.Create(r.Context(), p.UserID, req.Name, req.Description, req.Public, req.OrganizationID)
	if err != nil {
		httputil.WriteDomainError(h.log, w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, repo)
}

func (h *RepoHandlers) getByCanonicalName(w http.ResponseWriter, r *http.Request) {
	canonical, ok := httputil.ParsePathStringOrError(w, r, "canonical")
	if !ok {
		return
	}

	repo, err := h.repos.GetVisibleByCanonicalName(r.Context(), canonical, optionalRequester(r))
	if err != nil {
		httputil.WriteDomainError(h.log, w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, repo)
}
