package postgres

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tinymagiq/podworks/internal/store"
)

// NewStores wires every PostgreSQL-backed store against one shared pool.
func NewStores(pool *pgxpool.Pool) *store.Stores {
	return &store.Stores{
		Organizations: NewOrganizationStore(pool),
		Batches:       NewBatchStore(pool),
		Pods:          NewPodStore(pool),
		Users:         NewUserStore(pool),
		Mentors:       NewMentorStore(pool),
		Concepts:      NewConceptStore(pool),
		Assignments:   NewAssignmentStore(pool),
	}
}
