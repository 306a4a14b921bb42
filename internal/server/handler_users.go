package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/tinymagiq/podworks/internal/auth"
	"github.com/tinymagiq/podworks/internal/models"
)

type createAccountRequest struct {
	Email     string `json:"email"`
	Username  string `json:"username"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Orgname   string `json:"orgname"`
}

func (req *createAccountRequest) validate(needsOrg bool) string {
	if req.Email == "" || req.Username == "" || req.Password == "" {
		return "email, username, and password are required"
	}
	if !validEmail(req.Email) {
		return "invalid email address"
	}
	if !validPassword(req.Password) {
		return "password must be at least 8 characters"
	}
	if needsOrg && req.Orgname == "" {
		return "organization name is required"
	}
	return ""
}

// createAccount is the shared path for all three account creation
// endpoints. orgID is nil for superadmins.
func (s *Server) createAccount(w http.ResponseWriter, r *http.Request, role string, req *createAccountRequest, orgID *uuid.UUID) {
	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		storeError(w, r, err)
		return
	}

	now := time.Now()
	user := &models.User{
		UserID:       uuid.Must(uuid.NewV7()),
		Role:         role,
		OrgID:        orgID,
		Email:        req.Email,
		Username:     req.Username,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		PasswordHash: hash,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.stores.Users.Create(r.Context(), user); err != nil {
		storeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{"message": role + " created", "user": user})
}

func (s *Server) handleCreateSuperadmin(w http.ResponseWriter, r *http.Request) {
	var req createAccountRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if msg := req.validate(false); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	s.createAccount(w, r, models.RoleSuperadmin, &req, nil)
}

func (s *Server) handleCreateOrgadmin(w http.ResponseWriter, r *http.Request) {
	var req createAccountRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if msg := req.validate(true); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	org, err := s.stores.Organizations.GetByName(r.Context(), req.Orgname)
	if err != nil {
		storeError(w, r, err)
		return
	}

	s.createAccount(w, r, models.RoleOrgadmin, &req, &org.OrgID)
}

func (s *Server) handleCreateOrguser(w http.ResponseWriter, r *http.Request) {
	var req createAccountRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if msg := req.validate(true); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	org, err := s.stores.Organizations.GetByName(r.Context(), req.Orgname)
	if err != nil {
		storeError(w, r, err)
		return
	}

	// An orgadmin can only create orgusers inside its own organization.
	claims := auth.ClaimsFromContext(r.Context())
	if claims != nil && claims.Role == models.RoleOrgadmin && claims.OrgID != org.OrgID.String() {
		writeError(w, http.StatusForbidden, "cannot create users in another organization")
		return
	}

	s.createAccount(w, r, models.RoleOrguser, &req, &org.OrgID)
}

func (s *Server) handleGetUserProgram(w http.ResponseWriter, r *http.Request) {
	email := chi.URLParam(r, "email")
	if email == "" {
		writeError(w, http.StatusBadRequest, "email is required")
		return
	}

	// An orguser can only fetch its own program.
	claims := auth.ClaimsFromContext(r.Context())
	if claims != nil && claims.Role == models.RoleOrguser && claims.Email != email {
		writeError(w, http.StatusForbidden, "cannot view another user's program")
		return
	}

	program, err := s.stores.Assignments.GetUserProgram(r.Context(), email)
	if err != nil {
		storeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, program)
}
