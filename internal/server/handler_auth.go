package server

import (
	"net/http"

	"github.com/rs/zerolog"

	podhttp "github.com/tinymagiq/podworks/internal/http"
	"github.com/tinymagiq/podworks/internal/models"
)

type loginRequest struct {
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

type loginResponse struct {
	Message string       `json:"message"`
	Token   string       `json:"token"`
	User    *models.User `json:"user"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Identifier == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "identifier and password are required")
		return
	}

	user, token, err := s.authenticator.Login(r.Context(), req.Identifier, req.Password)
	if err != nil {
		zerolog.Ctx(r.Context()).Warn().
			Str("identifier", req.Identifier).
			Str("client_ip", podhttp.ClientIPFromContext(r.Context())).
			Err(err).
			Msg("login failed")
		storeError(w, r, err)
		return
	}

	zerolog.Ctx(r.Context()).Info().
		Str("user_id", user.UserID.String()).
		Str("client_ip", podhttp.ClientIPFromContext(r.Context())).
		Msg("login successful")

	writeJSON(w, http.StatusOK, loginResponse{
		Message: "Login successful",
		Token:   token,
		User:    user,
	})
}
