package api

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/mockerhub/registry/pkg/authz"
	"github.com/mockerhub/registry/pkg/httputil"
	"github.com/mockerhub/registry/pkg/observability"
	"github.com/mockerhub/registry/pkg/registry"
	"github.com/mockerhub/registry/pkg/repos"
	"github.com/mockerhub/registry/pkg/users"
)

// UserHandlers serves account routes.
type UserHandlers struct {
	users   *users.Service
	repos   *repos.Service
	metrics *observability.Metrics
	log     *logrus.Logger
}

// NewUserHandlers creates the account handler group.
func NewUserHandlers(users *users.Service, repos *repos.Service, metrics *observability.Metrics, log *logrus.Logger) *UserHandlers {
	return &UserHandlers{users: users, repos: repos, metrics: metrics, log: log}
}

// RegisterRoutes mounts the account routes.
func (h *UserHandlers) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/users", h.register).Methods(http.MethodPost)
	router.HandleFunc("/users/login", h.login).Methods(http.MethodPost)
	router.HandleFunc("/users/password", h.changePassword).Methods(http.MethodPost)
	router.HandleFunc("/users/register-admin", h.registerAdmin).Methods(http.MethodPost)
	router.HandleFunc("/users/{username}", h.getByUsername).Methods(http.MethodGet)
	router.HandleFunc("/users/{username}/repositories", h.listRepositories).Methods(http.MethodGet)
}

type registerRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *UserHandlers) register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !httputil.ParseJSONOrError(w, r, &req) {
		return
	}

	user, err := h.users.Register(r.Context(), req.Email, req.Username, req.Password)
	if err != nil {
		httputil.WriteDomainError(h.log, w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, user)
}

func (h *UserHandlers) registerAdmin(w http.ResponseWriter, r *http.Request) {
	if _, err := principal(r, h.metrics, authz.Roles(registry.RoleSuperAdmin), false); err != nil {
		httputil.WriteDomainError(h.log, w, err)
		return
	}

	var req registerRequest
	if !httputil.ParseJSONOrError(w, r, &req) {
		return
	}

	user, err := h.users.RegisterAdmin(r.Context(), req.Email, req.Username, req.Password)
	if err != nil {
		httputil.WriteDomainError(h.log, w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, user)
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string         `json:"token"`
	User  *registry.User `json:"user"`
}

func (h *UserHandlers) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !httputil.ParseJSONOrError(w, r, &req) {
		return
	}

	token, user, err := h.users.Login(r.Context(), req.Username, req.Password)
	h.metrics.ObserveLogin(err == nil)
	if err != nil {
		httputil.WriteDomainError(h.log, w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, loginResponse{Token: token, User: user})
}

type changePasswordRequest struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

func (h *UserHandlers) changePassword(w http.ResponseWriter, r *http.Request) {
	// Password changes stay allowed while a change is pending; this is the
	// one route a provisional account can use.
	p, err := principal(r, h.metrics, nil, true)
	if err != nil {
		httputil.WriteDomainError(h.log, w, err)
		return
	}

	var req changePasswordRequest
	if !httputil.ParseJSONOrError(w, r, &req) {
		return
	}

	if err := h.users.ChangePassword(r.Context(), p.UserID, req.OldPassword, req.NewPassword); err != nil {
		httputil.WriteDomainError(h.log, w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *UserHandlers) getByUsername(w http.ResponseWriter, r *http.Request) {
	username, ok := httputil.ParsePathStringOrError(w, r, "username")
	if !ok {
		return
	}

	user, err := h.users.GetByUsername(r.Context(), username)
	if err != nil {
		httputil.WriteDomainError(h.log, w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, user)
}

func (h *UserHandlers) listRepositories(w http.ResponseWriter, r *http.Request) {
	username, ok := httputil.ParsePathStringOrError(w, r, "username")
	if !ok {
		return
	}

	user, err := h.users.GetByUsername(r.Context(), username)
	if err != nil {
		httputil.WriteDomainError(h.log, w, err)
		return
	}

	visible, err := h.repos.ListVisible(r.Context(), user.ID, optionalRequester(r))
	if err != nil {
		httputil.WriteDomainError(h.log, w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, visible)
}
