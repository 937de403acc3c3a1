package api

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/mockerhub/registry/pkg/authz"
	"github.com/mockerhub/registry/pkg/httputil"
	"github.com/mockerhub/registry/pkg/observability"
	"github.com/mockerhub/registry/pkg/orgs"
	"github.com/mockerhub/registry/pkg/registry"
	"github.com/mockerhub/registry/pkg/teams"
)

// OrgHandlers serves organization routes.
type OrgHandlers struct {
	orgs    *orgs.Service
	teams   *teams.Service
	metrics *observability.Metrics
	log     *logrus.Logger
}

// NewOrgHandlers creates the organization handler group.
func NewOrgHandlers(orgs *orgs.Service, teams *teams.Service, metrics *observability.Metrics, log *logrus.Logger) *OrgHandlers {
	return &OrgHandlers{orgs: orgs, teams: teams, metrics: metrics, log: log}
}

// RegisterRoutes mounts the organization routes.
func (h *OrgHandlers) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/organizations", h.create).Methods(http.MethodPost)
	router.HandleFunc("/organizations/{id}", h.getByID).Methods(http.MethodGet)
	router.HandleFunc("/organizations/{id}/members", h.addMember).Methods(http.MethodPost)
	router.HandleFunc("/organizations/{id}/teams", h.listTeams).Methods(http.MethodGet)
}

type createOrgRequest struct {
	Name        string `json:"name"`
	Description string `json:"desc"`
	Image       string `json:"image,omitempty"`
}

func (h *OrgHandlers) create(w http.ResponseWriter, r *http.Request) {
	p, err := principal(r, h.metrics, authz.Roles(registry.RoleUser, registry.RoleAdmin), false)
	if err != nil {
		httputil.WriteDomainError(h.log, w, err)
		return
	}

	var req createOrgRequest
	if !httputil.ParseJSONOrError(w, r, &req) {
		return
	}

	org, err := h.orgs.Create(r.Context(), p.UserID, req.Name, req.Description, req.Image)
	if err != nil {
		httputil.WriteDomainError(h.log, w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, org)
}

func (h *OrgHandlers) getByID(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParsePathInt64OrError(w, r, "id")
	if !ok {
		return
	}

	org, err := h.orgs.GetByID(r.Context(), id)
	if err != nil {
		httputil.WriteDomainError(h.log, w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, org)
}

type addOrgMemberRequest struct {
	UserID int64 `json:"user_id"`
}

func (h *OrgHandlers) addMember(w http.ResponseWriter, r *http.Request) {
	p, err := principal(r, h.metrics, nil, false)
	if err != nil {
		httputil.WriteDomainError(h.log, w, err)
		return
	}

	orgID, ok := httputil.ParsePathInt64OrError(w, r, "id")
	if !ok {
		return
	}

	var req addOrgMemberRequest
	if !httputil.ParseJSONOrError(w, r, &req) {
		return
	}

	member, err := h.orgs.AddMember(r.Context(), p.UserID, orgID, req.UserID)
	if err != nil {
		httputil.WriteDomainError(h.log, w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, member)
}

func (h *OrgHandlers) listTeams(w http.ResponseWriter, r *http.Request) {
	p, err := principal(r, h.metrics, nil, false)
	if err != nil {
		httputil.WriteDomainError(h.log, w, err)
		return
	}

	orgID, ok := httputil.ParsePathInt64OrError(w, r, "id")
	if !ok {
		return
	}

	list, err := h.teams.FindByOrg(r.Context(), p.UserID, orgID)
	if err != nil {
		httputil.WriteDomainError(h.log, w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, list)
}
