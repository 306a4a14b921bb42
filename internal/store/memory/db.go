// Package memory provides in-memory implementations of the store interfaces.
// These are for tests and local development only - data is lost on restart.
package memory

import (
	"sync"

	"github.com/google/uuid"
	"github.com/tinymagiq/podworks/internal/models"
	"github.com/tinymagiq/podworks/internal/store"
)

// DB holds the shared in-memory state. A single mutex covers all entities so
// multi-step assignment operations are atomic, mirroring the transactional
// guarantees of the PostgreSQL backend.
type DB struct {
	mu sync.RWMutex

	organizations map[uuid.UUID]*models.Organization
	batches       map[uuid.UUID]*models.Batch
	pods          map[uuid.UUID]*models.Pod
	users         map[uuid.UUID]*models.User
	mentors       map[uuid.UUID]*models.Mentor
	concepts      map[uuid.UUID]*models.Concept

	podUsers      map[uuid.UUID]map[uuid.UUID]bool // pod_id -> user_id set
	podMentors    map[uuid.UUID]map[uuid.UUID]bool // pod_id -> mentor_id set
	batchConcepts map[uuid.UUID]map[uuid.UUID]bool // batch_id -> concept_id set
}

// NewDB creates an empty in-memory database.
func NewDB() *DB {
	return &DB{
		organizations: make(map[uuid.UUID]*models.Organization),
		batches:       make(map[uuid.UUID]*models.Batch),
		pods:          make(map[uuid.UUID]*models.Pod),
		users:         make(map[uuid.UUID]*models.User),
		mentors:       make(map[uuid.UUID]*models.Mentor),
		concepts:      make(map[uuid.UUID]*models.Concept),
		podUsers:      make(map[uuid.UUID]map[uuid.UUID]bool),
		podMentors:    make(map[uuid.UUID]map[uuid.UUID]bool),
		batchConcepts: make(map[uuid.UUID]map[uuid.UUID]bool),
	}
}

// NewStores wires every in-memory store against one shared DB.
func NewStores(db *DB) *store.Stores {
	return &store.Stores{
		Organizations: NewOrganizationStore(db),
		Batches:       NewBatchStore(db),
		Pods:          NewPodStore(db),
		Users:         NewUserStore(db),
		Mentors:       NewMentorStore(db),
		Concepts:      NewConceptStore(db),
		Assignments:   NewAssignmentStore(db),
	}
}
