package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/tinymagiq/podworks/internal/auth"
	"github.com/tinymagiq/podworks/internal/store"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// storeError maps store and auth sentinels to HTTP responses. This is the
// only place sentinel-to-status translation happens.
func storeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, store.ErrOrganizationNotFound),
		errors.Is(err, store.ErrBatchNotFound),
		errors.Is(err, store.ErrPodNotFound),
		errors.Is(err, store.ErrUserNotFound),
		errors.Is(err, store.ErrMentorNotFound),
		errors.Is(err, store.ErrConceptNotFound),
		errors.Is(err, store.ErrNotAssigned):
		writeError(w, http.StatusNotFound, err.Error())

	case errors.Is(err, store.ErrOrganizationAlreadyExists),
		errors.Is(err, store.ErrBatchAlreadyExists),
		errors.Is(err, store.ErrPodAlreadyExists),
		errors.Is(err, store.ErrUserAlreadyExists),
		errors.Is(err, store.ErrMentorAlreadyExists),
		errors.Is(err, store.ErrAlreadyAssigned),
		errors.Is(err, store.ErrAlreadyInBatch):
		writeError(w, http.StatusConflict, err.Error())

	case errors.Is(err, store.ErrPodCapacityExceeded),
		errors.Is(err, store.ErrBatchCapacityExceeded):
		writeError(w, http.StatusBadRequest, err.Error())

	case errors.Is(err, auth.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, err.Error())

	case errors.Is(err, auth.ErrAccountInactive):
		writeError(w, http.StatusForbidden, err.Error())

	default:
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("request failed")
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

// decodeJSON decodes the request body into v, rejecting unknown fields.
func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}
