package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/tinymagiq/podworks/internal/models"
	"github.com/tinymagiq/podworks/internal/store"
)

type createOrganizationRequest struct {
	Name             string `json:"name"`
	Description      string `json:"description"`
	MaxUsersPerBatch int    `json:"max_users_per_batch"`
	MaxUsersPerPod   int    `json:"max_users_per_pod"`
}

func (s *Server) handleCreateOrganization(w http.ResponseWriter, r *http.Request) {
	var req createOrganizationRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "organization name is required")
		return
	}
	if req.MaxUsersPerBatch <= 0 || req.MaxUsersPerPod <= 0 {
		writeError(w, http.StatusBadRequest, "capacity limits must be positive")
		return
	}
	if req.MaxUsersPerPod > req.MaxUsersPerBatch {
		writeError(w, http.StatusBadRequest, "max_users_per_pod cannot exceed max_users_per_batch")
		return
	}

	now := time.Now()
	org := &models.Organization{
		OrgID:            uuid.Must(uuid.NewV7()),
		Name:             req.Name,
		Description:      req.Description,
		MaxUsersPerBatch: req.MaxUsersPerBatch,
		MaxUsersPerPod:   req.MaxUsersPerPod,
		IsActive:         true,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if err := s.stores.Organizations.Create(r.Context(), org); err != nil {
		storeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, org)
}

func (s *Server) handleListOrganizations(w http.ResponseWriter, r *http.Request) {
	orgs, err := s.stores.Organizations.List(r.Context())
	if err != nil {
		storeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"organizations": orgs})
}

type updateOrganizationRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	IsActive    *bool   `json:"is_active"`
}

func (s *Server) handleUpdateOrganization(w http.ResponseWriter, r *http.Request) {
	orgID, err := uuid.Parse(chi.URLParam(r, "org_id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid organization id")
		return
	}

	var req updateOrganizationRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == nil && req.Description == nil && req.IsActive == nil {
		writeError(w, http.StatusBadRequest, "no fields to update")
		return
	}
	if req.Name != nil && *req.Name == "" {
		writeError(w, http.StatusBadRequest, "organization name cannot be empty")
		return
	}

	org, err := s.stores.Organizations.Update(r.Context(), orgID, &store.OrganizationUpdate{
		Name:        req.Name,
		Description: req.Description,
		IsActive:    req.IsActive,
	})
	if err != nil {
		storeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, org)
}
