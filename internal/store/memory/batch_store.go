package memory

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/tinymagiq/podworks/internal/models"
	"github.com/tinymagiq/podworks/internal/store"
)

// BatchStore implements store.BatchStore using in-memory storage.
type BatchStore struct {
	db *DB
}

// NewBatchStore creates a new in-memory batch store.
func NewBatchStore(db *DB) *BatchStore {
	return &BatchStore{db: db}
}

// Create creates a new batch in memory.
func (s *BatchStore) Create(ctx context.Context, batch *models.Batch) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	if _, exists := s.db.organizations[batch.OrgID]; !exists {
		return store.ErrOrganizationNotFound
	}

	for _, existing := range s.db.batches {
		if existing.OrgID == batch.OrgID && existing.Name == batch.Name {
			return store.ErrBatchAlreadyExists
		}
	}

	clone := *batch
	s.db.batches[batch.BatchID] = &clone

	return nil
}

// List returns all batches, optionally filtered by organization ID.
func (s *BatchStore) List(ctx context.Context, orgID *uuid.UUID) ([]*models.Batch, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	var batches []*models.Batch
	for _, b := range s.db.batches {
		if orgID != nil && b.OrgID != *orgID {
			continue
		}
		clone := *b
		batches = append(batches, &clone)
	}

	sort.Slice(batches, func(i, j int) bool { return batches[i].Name < batches[j].Name })

	return batches, nil
}

// Update replaces the mutable fields of a batch.
func (s *BatchStore) Update(ctx context.Context, batch *models.Batch) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	existing, exists := s.db.batches[batch.BatchID]
	if !exists {
		return store.ErrBatchNotFound
	}

	for id, other := range s.db.batches {
		if id != batch.BatchID && other.OrgID == existing.OrgID && other.Name == batch.Name {
			return store.ErrBatchAlreadyExists
		}
	}

	existing.Name = batch.Name
	existing.IsActive = batch.IsActive
	existing.UpdatedAt = time.Now()
	batch.UpdatedAt = existing.UpdatedAt

	return nil
}

// PodStore implements store.PodStore using in-memory storage.
type PodStore struct {
	db *DB
}

// NewPodStore creates a new in-memory pod store.
func NewPodStore(db *DB) *PodStore {
	return &PodStore{db: db}
}

// Create creates a new pod in memory.
func (s *PodStore) Create(ctx context.Context, pod *models.Pod) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	if _, exists := s.db.batches[pod.BatchID]; !exists {
		return store.ErrBatchNotFound
	}

	for _, existing := range s.db.pods {
		if existing.BatchID == pod.BatchID && existing.Name == pod.Name {
			return store.ErrPodAlreadyExists
		}
	}

	clone := *pod
	s.db.pods[pod.PodID] = &clone

	return nil
}

// List returns all pods, optionally filtered by batch ID.
func (s *PodStore) List(ctx context.Context, batchID *uuid.UUID) ([]*models.Pod, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	var pods []*models.Pod
	for _, p := range s.db.pods {
		if batchID != nil && p.BatchID != *batchID {
			continue
		}
		clone := *p
		pods = append(pods, &clone)
	}

	sort.Slice(pods, func(i, j int) bool { return pods[i].Name < pods[j].Name })

	return pods, nil
}

// Update replaces the mutable fields of a pod.
func (s *PodStore) Update(ctx context.Context, pod *models.Pod) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	existing, exists := s.db.pods[pod.PodID]
	if !exists {
		return store.ErrPodNotFound
	}

	for id, other := range s.db.pods {
		if id != pod.PodID && other.BatchID == existing.BatchID && other.Name == pod.Name {
			return store.ErrPodAlreadyExists
		}
	}

	existing.Name = pod.Name
	existing.IsActive = pod.IsActive
	existing.UpdatedAt = time.Now()
	pod.UpdatedAt = existing.UpdatedAt

	return nil
}
