//go:build integration

package postgres

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/tinymagiq/podworks/internal/models"
	"github.com/tinymagiq/podworks/internal/store"
)

func setupPostgresStores(t *testing.T, ctx context.Context) (*store.Stores, func()) {
	// Start postgres container
	req := testcontainers.ContainerRequest{
		Image:        "postgres:18-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "test",
			"POSTGRES_PASSWORD": "test",
			"POSTGRES_DB":       "testdb",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").WithOccurrence(2),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)

	host, err := container.Host(ctx)
	require.NoError(t, err)

	port, err := container.MappedPort(ctx, "5432")
	require.NoError(t, err)

	connString := fmt.Sprintf("postgres://test:test@%s:%s/testdb?sslmode=disable", host, port.Port())

	pool, err := NewPool(ctx, &PoolConfig{
		ConnString:  connString,
		AutoMigrate: true,
	})
	require.NoError(t, err)

	cleanup := func() {
		pool.Close()
		_ = container.Terminate(ctx)
	}

	return NewStores(pool), cleanup
}

type programFixture struct {
	stores *store.Stores
	org    *models.Organization
	batch  *models.Batch
	podA   *models.Pod
	podB   *models.Pod
}

func seedProgram(t *testing.T, ctx context.Context, stores *store.Stores, orgName string, maxPerBatch, maxPerPod int) *programFixture {
	t.Helper()
	now := time.Now()

	org := &models.Organization{
		OrgID:            uuid.Must(uuid.NewV7()),
		Name:             orgName,
		MaxUsersPerBatch: maxPerBatch,
		MaxUsersPerPod:   maxPerPod,
		IsActive:         true,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	require.NoError(t, stores.Organizations.Create(ctx, org))

	batch := &models.Batch{
		BatchID:   uuid.Must(uuid.NewV7()),
		OrgID:     org.OrgID,
		Name:      "2026-spring",
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, stores.Batches.Create(ctx, batch))

	podA := &models.Pod{
		PodID:     uuid.Must(uuid.NewV7()),
		BatchID:   batch.BatchID,
		Name:      "pod-a",
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, stores.Pods.Create(ctx, podA))

	podB := &models.Pod{
		PodID:     uuid.Must(uuid.NewV7()),
		BatchID:   batch.BatchID,
		Name:      "pod-b",
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, stores.Pods.Create(ctx, podB))

	return &programFixture{stores: stores, org: org, batch: batch, podA: podA, podB: podB}
}

func (f *programFixture) addOrguser(t *testing.T, ctx context.Context, email string) *models.User {
	t.Helper()
	now := time.Now()
	user := &models.User{
		UserID:       uuid.Must(uuid.NewV7()),
		Role:         models.RoleOrguser,
		OrgID:        &f.org.OrgID,
		Email:        email,
		Username:     email,
		PasswordHash: "hash",
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	require.NoError(t, f.stores.Users.Create(ctx, user))
	return user
}

func (f *programFixture) podAssignment(pod *models.Pod, email string) *models.PodAssignment {
	return &models.PodAssignment{
		OrganizationName: f.org.Name,
		BatchName:        f.batch.Name,
		PodName:          pod.Name,
		MemberEmail:      email,
	}
}

func TestIntegration_AssignUserToPod(t *testing.T) {
	ctx := context.Background()
	stores, cleanup := setupPostgresStores(t, ctx)
	defer cleanup()

	f := seedProgram(t, ctx, stores, "acme", 3, 2)
	for i := range 4 {
		f.addOrguser(t, ctx, fmt.Sprintf("user%d@acme.test", i))
	}

	t.Run("assign", func(t *testing.T) {
		err := stores.Assignments.AssignUserToPod(ctx, f.podAssignment(f.podA, "user0@acme.test"))
		require.NoError(t, err)

		users, err := stores.Assignments.ListPodUsers(ctx, f.podA.PodID)
		require.NoError(t, err)
		require.Len(t, users, 1)
	})

	t.Run("duplicate", func(t *testing.T) {
		err := stores.Assignments.AssignUserToPod(ctx, f.podAssignment(f.podA, "user0@acme.test"))
		require.ErrorIs(t, err, store.ErrAlreadyAssigned)
	})

	t.Run("second pod in same batch", func(t *testing.T) {
		err := stores.Assignments.AssignUserToPod(ctx, f.podAssignment(f.podB, "user0@acme.test"))
		require.ErrorIs(t, err, store.ErrAlreadyInBatch)
	})

	t.Run("pod ceiling", func(t *testing.T) {
		require.NoError(t, stores.Assignments.AssignUserToPod(ctx, f.podAssignment(f.podA, "user1@acme.test")))

		err := stores.Assignments.AssignUserToPod(ctx, f.podAssignment(f.podA, "user2@acme.test"))
		require.ErrorIs(t, err, store.ErrPodCapacityExceeded)
	})

	t.Run("batch ceiling", func(t *testing.T) {
		require.NoError(t, stores.Assignments.AssignUserToPod(ctx, f.podAssignment(f.podB, "user2@acme.test")))

		err := stores.Assignments.AssignUserToPod(ctx, f.podAssignment(f.podB, "user3@acme.test"))
		require.ErrorIs(t, err, store.ErrBatchCapacityExceeded)
	})

	t.Run("remove and reassign", func(t *testing.T) {
		require.NoError(t, stores.Assignments.RemoveUserFromPod(ctx, f.podAssignment(f.podB, "user2@acme.test")))
		require.NoError(t, stores.Assignments.AssignUserToPod(ctx, f.podAssignment(f.podB, "user3@acme.test")))

		err := stores.Assignments.RemoveUserFromPod(ctx, f.podAssignment(f.podB, "user2@acme.test"))
		require.ErrorIs(t, err, store.ErrNotAssigned)
	})
}

func TestIntegration_ConcurrentAssignments(t *testing.T) {
	ctx := context.Background()
	stores, cleanup := setupPostgresStores(t, ctx)
	defer cleanup()

	const maxPerPod = 3
	f := seedProgram(t, ctx, stores, "acme", 10, maxPerPod)

	const candidates = 10
	for i := range candidates {
		f.addOrguser(t, ctx, fmt.Sprintf("user%d@acme.test", i))
	}

	// Race all candidates into the same pod. The batch row lock serializes
	// the admission checks, so exactly maxPerPod may win.
	var wg sync.WaitGroup
	errs := make([]error, candidates)
	for i := range candidates {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs[i] = stores.Assignments.AssignUserToPod(ctx, f.podAssignment(f.podA, fmt.Sprintf("user%d@acme.test", i)))
		}()
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
		} else {
			require.ErrorIs(t, err, store.ErrPodCapacityExceeded)
		}
	}
	require.Equal(t, maxPerPod, succeeded)

	users, err := stores.Assignments.ListPodUsers(ctx, f.podA.PodID)
	require.NoError(t, err)
	require.Len(t, users, maxPerPod)
}

func TestIntegration_MentorAndConceptAssignments(t *testing.T) {
	ctx := context.Background()
	stores, cleanup := setupPostgresStores(t, ctx)
	defer cleanup()

	f := seedProgram(t, ctx, stores, "acme", 5, 2)
	now := time.Now()

	mentor := &models.Mentor{
		MentorID:  uuid.Must(uuid.NewV7()),
		Name:      "Grace",
		Email:     "grace@mentors.test",
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, stores.Mentors.Create(ctx, mentor))

	concept := &models.Concept{
		ConceptID: uuid.Must(uuid.NewV7()),
		Name:      "recursion",
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, stores.Concepts.Create(ctx, concept))

	t.Run("mentor", func(t *testing.T) {
		a := f.podAssignment(f.podA, "grace@mentors.test")
		require.NoError(t, stores.Assignments.AssignMentorToPod(ctx, a))
		require.ErrorIs(t, stores.Assignments.AssignMentorToPod(ctx, a), store.ErrAlreadyAssigned)

		mentors, err := stores.Assignments.ListPodMentors(ctx, f.podA.PodID)
		require.NoError(t, err)
		require.Len(t, mentors, 1)

		require.NoError(t, stores.Assignments.RemoveMentorFromPod(ctx, a))
		require.ErrorIs(t, stores.Assignments.RemoveMentorFromPod(ctx, a), store.ErrNotAssigned)
	})

	t.Run("concept", func(t *testing.T) {
		a := &models.BatchAssignment{
			OrganizationName: f.org.Name,
			BatchName:        f.batch.Name,
			ConceptName:      "recursion",
		}
		require.NoError(t, stores.Assignments.AssignConceptToBatch(ctx, a))
		require.ErrorIs(t, stores.Assignments.AssignConceptToBatch(ctx, a), store.ErrAlreadyAssigned)

		concepts, err := stores.Assignments.ListPodConcepts(ctx, f.podA.PodID)
		require.NoError(t, err)
		require.Len(t, concepts, 1)
	})
}

func TestIntegration_UserProgram(t *testing.T) {
	ctx := context.Background()
	stores, cleanup := setupPostgresStores(t, ctx)
	defer cleanup()

	f := seedProgram(t, ctx, stores, "acme", 5, 2)
	f.addOrguser(t, ctx, "alice@acme.test")

	require.NoError(t, stores.Assignments.AssignUserToPod(ctx, f.podAssignment(f.podA, "alice@acme.test")))

	program, err := stores.Assignments.GetUserProgram(ctx, "alice@acme.test")
	require.NoError(t, err)
	require.Equal(t, "alice@acme.test", program.Email)
	require.Equal(t, "acme", program.OrganizationName)
	require.Len(t, program.Pods, 1)
	require.Equal(t, "pod-a", program.Pods[0].Pod.Name)
}
