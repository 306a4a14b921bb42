package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/tinymagiq/podworks/internal/models"
)

type createMentorRequest struct {
	MentorName  string `json:"mentor_name"`
	MentorEmail string `json:"mentor_email"`
}

func (s *Server) handleCreateMentor(w http.ResponseWriter, r *http.Request) {
	var req createMentorRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.MentorName == "" || req.MentorEmail == "" {
		writeError(w, http.StatusBadRequest, "mentor name and email are required")
		return
	}
	if !validEmail(req.MentorEmail) {
		writeError(w, http.StatusBadRequest, "invalid email address")
		return
	}

	now := time.Now()
	mentor := &models.Mentor{
		MentorID:  uuid.Must(uuid.NewV7()),
		Name:      req.MentorName,
		Email:     req.MentorEmail,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.stores.Mentors.Create(r.Context(), mentor); err != nil {
		storeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{"message": "Mentor created", "mentor": mentor})
}

func (s *Server) handleListMentors(w http.ResponseWriter, r *http.Request) {
	mentors, err := s.stores.Mentors.List(r.Context())
	if err != nil {
		storeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"mentors": mentors})
}

type updateMentorRequest struct {
	MentorName  string `json:"mentor_name"`
	MentorEmail string `json:"mentor_email"`
	IsActive    *bool  `json:"is_active"`
}

func (s *Server) handleUpdateMentor(w http.ResponseWriter, r *http.Request) {
	mentorID, err := uuid.Parse(chi.URLParam(r, "mentor_id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid mentor id")
		return
	}

	var req updateMentorRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.MentorName == "" || req.MentorEmail == "" || req.IsActive == nil {
		writeError(w, http.StatusBadRequest, "mentor name, email, and active flag are required")
		return
	}
	if !validEmail(req.MentorEmail) {
		writeError(w, http.StatusBadRequest, "invalid email address")
		return
	}

	mentor := &models.Mentor{
		MentorID: mentorID,
		Name:     req.MentorName,
		Email:    req.MentorEmail,
		IsActive: *req.IsActive,
	}
	if err := s.stores.Mentors.Update(r.Context(), mentor); err != nil {
		storeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"message": "Mentor updated", "mentor": mentor})
}

func (s *Server) handleDeleteMentor(w http.ResponseWriter, r *http.Request) {
	mentorID, err := uuid.Parse(chi.URLParam(r, "mentor_id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid mentor id")
		return
	}

	if err := s.stores.Mentors.Delete(r.Context(), mentorID); err != nil {
		storeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Mentor deleted"})
}

type createConceptRequest struct {
	ConceptName string `json:"concept_name"`
}

func (s *Server) handleCreateConcept(w http.ResponseWriter, r *http.Request) {
	var req createConceptRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.ConceptName == "" {
		writeError(w, http.StatusBadRequest, "concept name is required")
		return
	}

	now := time.Now()
	concept := &models.Concept{
		ConceptID: uuid.Must(uuid.NewV7()),
		Name:      req.ConceptName,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.stores.Concepts.Create(r.Context(), concept); err != nil {
		storeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{"message": "Concept created", "concept": concept})
}

func (s *Server) handleListConcepts(w http.ResponseWriter, r *http.Request) {
	concepts, err := s.stores.Concepts.List(r.Context())
	if err != nil {
		storeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"concepts": concepts})
}

type updateConceptRequest struct {
	ConceptName string `json:"concept_name"`
	IsActive    *bool  `json:"is_active"`
}

func (s *Server) handleUpdateConcept(w http.ResponseWriter, r *http.Request) {
	conceptID, err := uuid.Parse(chi.URLParam(r, "concept_id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid concept id")
		return
	}

	var req updateConceptRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.ConceptName == "" || req.IsActive == nil {
		writeError(w, http.StatusBadRequest, "concept name and active flag are required")
		return
	}

	concept := &models.Concept{
		ConceptID: conceptID,
		Name:      req.ConceptName,
		IsActive:  *req.IsActive,
	}
	if err := s.stores.Concepts.Update(r.Context(), concept); err != nil {
		storeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"message": "Concept updated", "concept": concept})
}
