package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/tinymagiq/podworks/internal/models"
	"github.com/tinymagiq/podworks/internal/store"
)

type createBatchRequest struct {
	BatchName        string `json:"batch_name"`
	OrganizationName string `json:"organization_name"`
	IsActive         *bool  `json:"is_active"`
}

func (s *Server) handleCreateBatch(w http.ResponseWriter, r *http.Request) {
	var req createBatchRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.BatchName == "" || req.OrganizationName == "" {
		writeError(w, http.StatusBadRequest, "batch name and organization name are required")
		return
	}

	org, err := s.stores.Organizations.GetByName(r.Context(), req.OrganizationName)
	if err != nil {
		storeError(w, r, err)
		return
	}

	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}

	now := time.Now()
	batch := &models.Batch{
		BatchID:   uuid.Must(uuid.NewV7()),
		OrgID:     org.OrgID,
		Name:      req.BatchName,
		IsActive:  active,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.stores.Batches.Create(r.Context(), batch); err != nil {
		storeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{"message": "Batch created", "batch": batch})
}

func (s *Server) handleListBatches(w http.ResponseWriter, r *http.Request) {
	var orgID *uuid.UUID
	if orgName := r.URL.Query().Get("organization_name"); orgName != "" {
		org, err := s.stores.Organizations.GetByName(r.Context(), orgName)
		if err != nil {
			storeError(w, r, err)
			return
		}
		orgID = &org.OrgID
	}

	batches, err := s.stores.Batches.List(r.Context(), orgID)
	if err != nil {
		storeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"batches": batches})
}

type updateBatchRequest struct {
	BatchName string `json:"batch_name"`
	IsActive  *bool  `json:"is_active"`
}

func (s *Server) handleUpdateBatch(w http.ResponseWriter, r *http.Request) {
	batchID, err := uuid.Parse(chi.URLParam(r, "batch_id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid batch id")
		return
	}

	var req updateBatchRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.BatchName == "" || req.IsActive == nil {
		writeError(w, http.StatusBadRequest, "batch name and active flag are required")
		return
	}

	batch := &models.Batch{
		BatchID:  batchID,
		Name:     req.BatchName,
		IsActive: *req.IsActive,
	}
	if err := s.stores.Batches.Update(r.Context(), batch); err != nil {
		storeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"message": "Batch updated", "batch": batch})
}

// resolveBatchByName looks up an organization and one of its batches by name.
func (s *Server) resolveBatchByName(ctx context.Context, orgName, batchName string) (*models.Batch, error) {
	org, err := s.stores.Organizations.GetByName(ctx, orgName)
	if err != nil {
		return nil, err
	}

	batches, err := s.stores.Batches.List(ctx, &org.OrgID)
	if err != nil {
		return nil, err
	}
	for _, b := range batches {
		if b.Name == batchName {
			return b, nil
		}
	}
	return nil, store.ErrBatchNotFound
}

type createPodRequest struct {
	PodName          string `json:"pod_name"`
	BatchName        string `json:"batch_name"`
	OrganizationName string `json:"organization_name"`
	IsActive         *bool  `json:"is_active"`
}

func (s *Server) handleCreatePod(w http.ResponseWriter, r *http.Request) {
	var req createPodRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.PodName == "" || req.BatchName == "" || req.OrganizationName == "" {
		writeError(w, http.StatusBadRequest, "pod name, batch name, and organization name are required")
		return
	}

	batch, err := s.resolveBatchByName(r.Context(), req.OrganizationName, req.BatchName)
	if err != nil {
		storeError(w, r, err)
		return
	}

	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}

	now := time.Now()
	pod := &models.Pod{
		PodID:     uuid.Must(uuid.NewV7()),
		BatchID:   batch.BatchID,
		Name:      req.PodName,
		IsActive:  active,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.stores.Pods.Create(r.Context(), pod); err != nil {
		storeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{"message": "Pod created", "pod": pod})
}

func (s *Server) handleListPods(w http.ResponseWriter, r *http.Request) {
	var batchID *uuid.UUID
	q := r.URL.Query()
	if batchName := q.Get("batch_name"); batchName != "" {
		orgName := q.Get("organization_name")
		if orgName == "" {
			writeError(w, http.StatusBadRequest, "organization_name is required when filtering by batch_name")
			return
		}
		batch, err := s.resolveBatchByName(r.Context(), orgName, batchName)
		if err != nil {
			storeError(w, r, err)
			return
		}
		batchID = &batch.BatchID
	}

	pods, err := s.stores.Pods.List(r.Context(), batchID)
	if err != nil {
		storeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"pods": pods})
}

type updatePodRequest struct {
	PodName  string `json:"pod_name"`
	IsActive *bool  `json:"is_active"`
}

func (s *Server) handleUpdatePod(w http.ResponseWriter, r *http.Request) {
	podID, err := uuid.Parse(chi.URLParam(r, "pod_id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid pod id")
		return
	}

	var req updatePodRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.PodName == "" || req.IsActive == nil {
		writeError(w, http.StatusBadRequest, "pod name and active flag are required")
		return
	}

	pod := &models.Pod{
		PodID:    podID,
		Name:     req.PodName,
		IsActive: *req.IsActive,
	}
	if err := s.stores.Pods.Update(r.Context(), pod); err != nil {
		storeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"message": "Pod updated", "pod": pod})
}
