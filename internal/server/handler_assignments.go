package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/tinymagiq/podworks/internal/models"
)

type podAssignmentRequest struct {
	PodName          string `json:"pod_name"`
	BatchName        string `json:"batch_name"`
	OrganizationName string `json:"organization_name"`
	MemberEmail      string `json:"member_email"`
}

func (s *Server) decodePodAssignment(w http.ResponseWriter, r *http.Request) (*models.PodAssignment, bool) {
	var req podAssignmentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return nil, false
	}
	if req.PodName == "" || req.BatchName == "" || req.OrganizationName == "" || req.MemberEmail == "" {
		writeError(w, http.StatusBadRequest, "pod name, batch name, organization name, and member email are required")
		return nil, false
	}

	return &models.PodAssignment{
		OrganizationName: req.OrganizationName,
		BatchName:        req.BatchName,
		PodName:          req.PodName,
		MemberEmail:      req.MemberEmail,
	}, true
}

func (s *Server) handleAssignUserToPod(w http.ResponseWriter, r *http.Request) {
	a, ok := s.decodePodAssignment(w, r)
	if !ok {
		return
	}

	if err := s.stores.Assignments.AssignUserToPod(r.Context(), a); err != nil {
		storeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{"message": "Orguser assigned to pod", "assignment": a})
}

func (s *Server) handleRemoveUserFromPod(w http.ResponseWriter, r *http.Request) {
	a, ok := s.decodePodAssignment(w, r)
	if !ok {
		return
	}

	if err := s.stores.Assignments.RemoveUserFromPod(r.Context(), a); err != nil {
		storeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"message": "Orguser removed from pod", "assignment": a})
}

func (s *Server) handleAssignMentorToPod(w http.ResponseWriter, r *http.Request) {
	a, ok := s.decodePodAssignment(w, r)
	if !ok {
		return
	}

	if err := s.stores.Assignments.AssignMentorToPod(r.Context(), a); err != nil {
		storeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{"message": "Mentor assigned to pod", "assignment": a})
}

func (s *Server) handleRemoveMentorFromPod(w http.ResponseWriter, r *http.Request) {
	a, ok := s.decodePodAssignment(w, r)
	if !ok {
		return
	}

	if err := s.stores.Assignments.RemoveMentorFromPod(r.Context(), a); err != nil {
		storeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"message": "Mentor removed from pod", "assignment": a})
}

type batchAssignmentRequest struct {
	BatchName        string `json:"batch_name"`
	OrganizationName string `json:"organization_name"`
	ConceptName      string `json:"concept_name"`
}

func (s *Server) decodeBatchAssignment(w http.ResponseWriter, r *http.Request) (*models.BatchAssignment, bool) {
	var req batchAssignmentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return nil, false
	}
	if req.BatchName == "" || req.OrganizationName == "" || req.ConceptName == "" {
		writeError(w, http.StatusBadRequest, "batch name, organization name, and concept name are required")
		return nil, false
	}

	return &models.BatchAssignment{
		OrganizationName: req.OrganizationName,
		BatchName:        req.BatchName,
		ConceptName:      req.ConceptName,
	}, true
}

func (s *Server) handleAssignConceptToBatch(w http.ResponseWriter, r *http.Request) {
	a, ok := s.decodeBatchAssignment(w, r)
	if !ok {
		return
	}

	if err := s.stores.Assignments.AssignConceptToBatch(r.Context(), a); err != nil {
		storeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{"message": "Concept assigned to batch", "assignment": a})
}

func (s *Server) handleRemoveConceptFromBatch(w http.ResponseWriter, r *http.Request) {
	a, ok := s.decodeBatchAssignment(w, r)
	if !ok {
		return
	}

	if err := s.stores.Assignments.RemoveConceptFromBatch(r.Context(), a); err != nil {
		storeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"message": "Concept removed from batch", "assignment": a})
}

func (s *Server) parsePodID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	podID, err := uuid.Parse(chi.URLParam(r, "pod_id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid pod id")
		return uuid.Nil, false
	}
	return podID, true
}

func (s *Server) handleListPodUsers(w http.ResponseWriter, r *http.Request) {
	podID, ok := s.parsePodID(w, r)
	if !ok {
		return
	}

	users, err := s.stores.Assignments.ListPodUsers(r.Context(), podID)
	if err != nil {
		storeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"users": users})
}

func (s *Server) handleListPodMentors(w http.ResponseWriter, r *http.Request) {
	podID, ok := s.parsePodID(w, r)
	if !ok {
		return
	}

	mentors, err := s.stores.Assignments.ListPodMentors(r.Context(), podID)
	if err != nil {
		storeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"mentors": mentors})
}

func (s *Server) handleListPodConcepts(w http.ResponseWriter, r *http.Request) {
	podID, ok := s.parsePodID(w, r)
	if !ok {
		return
	}

	concepts, err := s.stores.Assignments.ListPodConcepts(r.Context(), podID)
	if err != nil {
		storeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"concepts": concepts})
}
