package store

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/tinymagiq/podworks/internal/models"
)

// Sentinel errors for assignment operations. Resolution failures reuse the
// per-entity not-found sentinels; these cover admission and uniqueness.
var (
	ErrPodCapacityExceeded   = errors.New("pod has reached its maximum user limit")
	ErrBatchCapacityExceeded = errors.New("batch has reached its maximum user limit")
	ErrAlreadyAssigned       = errors.New("member already assigned")
	ErrNotAssigned           = errors.New("member not assigned")
	ErrAlreadyInBatch        = errors.New("orguser already assigned to a pod in this batch")
)

// AssignmentStore defines the many-to-many membership operations between
// pods, orgusers, mentors and batch concepts.
//
// The mutating operations resolve human-readable names to IDs, check
// admission (capacity ceilings for orgusers) and apply the mutation as one
// atomic unit: implementations must guarantee that two concurrent assignments
// against the same batch cannot jointly exceed a ceiling.
type AssignmentStore interface {
	// AssignUserToPod assigns an orguser to a pod.
	// Resolution failures return the entity not-found sentinels. Admission
	// failures return ErrPodCapacityExceeded, ErrBatchCapacityExceeded or
	// ErrAlreadyInBatch. A duplicate (pod, user) pair returns
	// ErrAlreadyAssigned; the unique index is the authoritative check.
	AssignUserToPod(ctx context.Context, a *models.PodAssignment) error

	// RemoveUserFromPod removes an orguser from a pod.
	// Returns ErrNotAssigned if no membership row exists.
	RemoveUserFromPod(ctx context.Context, a *models.PodAssignment) error

	// AssignMentorToPod assigns a mentor to a pod. Mentor assignments are
	// not subject to capacity ceilings.
	AssignMentorToPod(ctx context.Context, a *models.PodAssignment) error

	// RemoveMentorFromPod removes a mentor from a pod.
	// Returns ErrNotAssigned if no membership row exists.
	RemoveMentorFromPod(ctx context.Context, a *models.PodAssignment) error

	// AssignConceptToBatch assigns a concept to a batch.
	AssignConceptToBatch(ctx context.Context, a *models.BatchAssignment) error

	// RemoveConceptFromBatch removes a concept from a batch.
	// Returns ErrNotAssigned if no assignment row exists.
	RemoveConceptFromBatch(ctx context.Context, a *models.BatchAssignment) error

	// ListPodUsers returns the orgusers assigned to an active pod.
	// Returns ErrPodNotFound if the pod doesn't exist or is inactive.
	ListPodUsers(ctx context.Context, podID uuid.UUID) ([]*models.User, error)

	// ListPodMentors returns the mentors assigned to an active pod.
	// Returns ErrPodNotFound if the pod doesn't exist or is inactive.
	ListPodMentors(ctx context.Context, podID uuid.UUID) ([]*models.Mentor, error)

	// ListPodConcepts returns the active concepts assigned to the batch an
	// active pod belongs to.
	ListPodConcepts(ctx context.Context, podID uuid.UUID) ([]*models.Concept, error)

	// GetUserProgram returns an active orguser's pods together with each
	// pod's mentors and the concepts of its batch.
	// Returns ErrUserNotFound if no active orguser matches the email.
	GetUserProgram(ctx context.Context, email string) (*models.UserProgram, error)
}
