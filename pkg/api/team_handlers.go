package api

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/mockerhub/registry/pkg/httputil"
	"github.com/mockerhub/registry/pkg/observability"
	"github.com/mockerhub/registry/pkg/registry"
	"github.com/mockerhub/registry/pkg/teams"
)

// TeamHandlers serves team routes. All mutations are owner-gated in the
// service layer.
type TeamHandlers struct {
	teams   *teams.Service
	metrics *observability.Metrics
	log     *logrus.Logger
}

// NewTeamHandlers creates the team handler group.
func NewTeamHandlers(teams *teams.Service, metrics *observability.Metrics, log *logrus.Logger) *TeamHandlers {
	return &TeamHandlers{teams: teams, metrics: metrics, log: log}
}

// RegisterRoutes mounts the team routes.
func (h *TeamHandlers) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/teams", h.create).Methods(http.MethodPost)
	router.HandleFunc("/teams/members", h.addMember).Methods(http.MethodPost)
	router.HandleFunc("/teams/permissions", h.addPermission).Methods(http.MethodPost)
}

type createTeamRequest struct {
	OrganizationID int64  `json:"organization_id"`
	Name           string `json:"name"`
	Description    string `json:"desc"`
}

func (h *TeamHandlers) create(w http.ResponseWriter, r *http.Request) {
	p, err := principal(r, h.metrics, nil, false)
	if err != nil {
		httputil.WriteDomainError(h.log, w, err)
		return
	}

	var req createTeamRequest
	if !httputil.ParseJSONOrError(w, r, &req) {
		return
	}

	team, err := h.teams.Create(r.Context(), p.UserID, req.OrganizationID, req.Name, req.Description)
	if err != nil {
		httputil.WriteDomainError(h.log, w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, team)
}

type addTeamMemberRequest struct {
	TeamID int64 `json:"team_id"`
	UserID int64 `json:"user_id"`
}

func (h *TeamHandlers) addMember(w http.ResponseWriter, r *http.Request) {
	p, err := principal(r, h.metrics, nil, false)
	if err != nil {
		httputil.WriteDomainError(h.log, w, err)
		return
	}

	var req addTeamMemberRequest
	if !httputil.ParseJSONOrError(w, r, &req) {
		return
	}

	member, err := h.teams.AddMember(r.Context(), p.UserID, req.TeamID, req.UserID)
	if err != nil {
		httputil.WriteDomainError(h.log, w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, member)
}

type addTeamPermissionRequest struct {
	TeamID       int64                   `json:"team_id"`
	RepositoryID int64                   `json:"repo_id"`
	Kind         registry.PermissionKind `json:"kind"`
}

func (h *TeamHandlers) addPermission(w http.ResponseWriter, r *http.Request) {
	p, err := principal(r, h.metrics, nil, false)
	if err != nil {
		httputil.WriteDomainError(h.log, w, err)
		return
	}

	var req addTeamPermissionRequest
	if !httputil.ParseJSONOrError(w, r, &req) {
		return
	}

	perm, err := h.teams.AddPermission(r.Context(), p.UserID, req.TeamID, req.RepositoryID, req.Kind)
	if err != nil {
		httputil.WriteDomainError(h.log, w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, perm)
}
