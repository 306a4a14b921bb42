package memory

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/tinymagiq/podworks/internal/models"
	"github.com/tinymagiq/podworks/internal/store"
)

// MentorStore implements store.MentorStore using in-memory storage.
type MentorStore struct {
	db *DB
}

// NewMentorStore creates a new in-memory mentor store.
func NewMentorStore(db *DB) *MentorStore {
	return &MentorStore{db: db}
}

// Create creates a new mentor in memory.
func (s *MentorStore) Create(ctx context.Context, mentor *models.Mentor) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	for _, existing := range s.db.mentors {
		if existing.Email == mentor.Email {
			return store.ErrMentorAlreadyExists
		}
	}

	clone := *mentor
	s.db.mentors[mentor.MentorID] = &clone

	return nil
}

// List returns all mentors ordered by name.
func (s *MentorStore) List(ctx context.Context) ([]*models.Mentor, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	var mentors []*models.Mentor
	for _, m := range s.db.mentors {
		clone := *m
		mentors = append(mentors, &clone)
	}

	sort.Slice(mentors, func(i, j int) bool { return mentors[i].Name < mentors[j].Name })

	return mentors, nil
}

// Update replaces the mutable fields of a mentor.
func (s *MentorStore) Update(ctx context.Context, mentor *models.Mentor) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	existing, exists := s.db.mentors[mentor.MentorID]
	if !exists {
		return store.ErrMentorNotFound
	}

	for id, other := range s.db.mentors {
		if id != mentor.MentorID && other.Email == mentor.Email {
			return store.ErrMentorAlreadyExists
		}
	}

	existing.Name = mentor.Name
	existing.Email = mentor.Email
	existing.IsActive = mentor.IsActive
	existing.UpdatedAt = time.Now()
	mentor.UpdatedAt = existing.UpdatedAt

	return nil
}

// Delete removes a mentor by ID along with its pod assignments.
func (s *MentorStore) Delete(ctx context.Context, mentorID uuid.UUID) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	if _, exists := s.db.mentors[mentorID]; !exists {
		return store.ErrMentorNotFound
	}

	delete(s.db.mentors, mentorID)
	for _, set := range s.db.podMentors {
		delete(set, mentorID)
	}

	return nil
}

// ConceptStore implements store.ConceptStore using in-memory storage.
type ConceptStore struct {
	db *DB
}

// NewConceptStore creates a new in-memory concept store.
func NewConceptStore(db *DB) *ConceptStore {
	return &ConceptStore{db: db}
}

// Create creates a new concept in memory.
func (s *ConceptStore) Create(ctx context.Context, concept *models.Concept) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	clone := *concept
	s.db.concepts[concept.ConceptID] = &clone

	return nil
}

// List returns all concepts ordered by name.
func (s *ConceptStore) List(ctx context.Context) ([]*models.Concept, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	var concepts []*models.Concept
	for _, c := range s.db.concepts {
		clone := *c
		concepts = append(concepts, &clone)
	}

	sort.Slice(concepts, func(i, j int) bool { return concepts[i].Name < concepts[j].Name })

	return concepts, nil
}

// Update replaces the mutable fields of a concept.
func (s *ConceptStore) Update(ctx context.Context, concept *models.Concept) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	existing, exists := s.db.concepts[concept.ConceptID]
	if !exists {
		return store.ErrConceptNotFound
	}

	existing.Name = concept.Name
	existing.IsActive = concept.IsActive
	existing.UpdatedAt = time.Now()
	concept.UpdatedAt = existing.UpdatedAt

	return nil
}
