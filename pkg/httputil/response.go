package httputil

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/mockerhub/registry/pkg/registry"
)

// ErrorResponse is the JSON shape of every error payload.
type ErrorResponse struct {
	Error string `json:"error"`
}

// WriteJSON writes a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// WriteError writes a JSON error payload with the given status code.
func WriteError(w http.ResponseWriter, status int, message string) {
	WriteJSON(w, status, ErrorResponse{Error: message})
}

// WriteDomainError maps a domain error to its HTTP status code and writes
// the response. Unrecognized errors become an opaque 500; the real cause is
// logged, never sent to the client.
func WriteDomainError(log logrus.FieldLogger, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, registry.ErrUnauthenticated), errors.Is(err, registry.ErrInvalidToken):
		WriteError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, registry.ErrPasswordChangeRequired):
		WriteError(w, http.StatusForbidden, err.Error())
	default:
		var (
			denied    *registry.AccessDeniedError
			notFound  *registry.NotFoundError
			taken     *registry.FieldTakenError
			notInRel  *registry.NotInRelationshipError
			validated *registry.ValidationError
		)
		switch {
		case errors.As(err, &denied):
			WriteError(w, http.StatusForbidden, err.Error())
		case errors.As(err, &notFound):
			WriteError(w, http.StatusNotFound, err.Error())
		case errors.As(err, &taken):
			WriteError(w, http.StatusConflict, err.Error())
		case errors.As(err, &notInRel), errors.As(err, &validated):
			WriteError(w, http.StatusBadRequest, err.Error())
		default:
			log.WithError(err).Error("request failed")
			WriteError(w, http.StatusInternalServerError, "internal server error")
		}
	}
}
