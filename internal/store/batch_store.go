package store

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/tinymagiq/podworks/internal/models"
)

// Sentinel errors for batch and pod store operations
var (
	ErrBatchNotFound      = errors.New("active batch not found for this organization")
	ErrBatchAlreadyExists = errors.New("batch name already exists for this organization")
	ErrPodNotFound        = errors.New("active pod not found for this batch")
	ErrPodAlreadyExists   = errors.New("pod name already exists for this batch")
)

// BatchStore defines the interface for batch storage operations.
type BatchStore interface {
	// Create creates a new batch within an organization.
	// Returns ErrBatchAlreadyExists if the name is taken within the org.
	Create(ctx context.Context, batch *models.Batch) error

	// List returns all batches, optionally filtered by organization ID,
	// ordered by name.
	List(ctx context.Context, orgID *uuid.UUID) ([]*models.Batch, error)

	// Update replaces the mutable fields of a batch.
	// Returns ErrBatchNotFound if the batch doesn't exist.
	Update(ctx context.Context, batch *models.Batch) error
}

// PodStore defines the interface for pod storage operations.
type PodStore interface {
	// Create creates a new pod within a batch.
	// Returns ErrPodAlreadyExists if the name is taken within the batch.
	Create(ctx context.Context, pod *models.Pod) error

	// List returns all pods, optionally filtered by batch ID, ordered by name.
	List(ctx context.Context, batchID *uuid.UUID) ([]*models.Pod, error)

	// Update replaces the mutable fields of a pod.
	// Returns ErrPodNotFound if the pod doesn't exist.
	Update(ctx context.Context, pod *models.Pod) error
}
