package memory

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/tinymagiq/podworks/internal/models"
	"github.com/tinymagiq/podworks/internal/store"
)

func seedOrg(t *testing.T, db *DB) *models.Organization {
	t.Helper()
	org := newOrganization("acme")
	require.NoError(t, NewOrganizationStore(db).Create(context.Background(), org))
	return org
}

func newBatch(orgID uuid.UUID, name string) *models.Batch {
	return &models.Batch{
		BatchID:  uuid.Must(uuid.NewV7()),
		OrgID:    orgID,
		Name:     name,
		IsActive: true,
	}
}

func TestBatchStore_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("create new batch", func(t *testing.T) {
		db := NewDB()
		org := seedOrg(t, db)

		err := NewBatchStore(db).Create(ctx, newBatch(org.OrgID, "2026-spring"))
		require.NoError(t, err)
	})

	t.Run("missing organization", func(t *testing.T) {
		db := NewDB()

		err := NewBatchStore(db).Create(ctx, newBatch(uuid.Must(uuid.NewV7()), "2026-spring"))
		require.ErrorIs(t, err, store.ErrOrganizationNotFound)
	})

	t.Run("duplicate name within organization", func(t *testing.T) {
		db := NewDB()
		org := seedOrg(t, db)
		st := NewBatchStore(db)

		require.NoError(t, st.Create(ctx, newBatch(org.OrgID, "2026-spring")))

		err := st.Create(ctx, newBatch(org.OrgID, "2026-spring"))
		require.ErrorIs(t, err, store.ErrBatchAlreadyExists)
	})

	t.Run("same name in another organization", func(t *testing.T) {
		db := NewDB()
		org := seedOrg(t, db)
		other := newOrganization("globex")
		require.NoError(t, NewOrganizationStore(db).Create(ctx, other))
		st := NewBatchStore(db)

		require.NoError(t, st.Create(ctx, newBatch(org.OrgID, "2026-spring")))
		require.NoError(t, st.Create(ctx, newBatch(other.OrgID, "2026-spring")))
	})
}

func TestBatchStore_List(t *testing.T) {
	ctx := context.Background()
	db := NewDB()
	org := seedOrg(t, db)
	other := newOrganization("globex")
	require.NoError(t, NewOrganizationStore(db).Create(ctx, other))

	st := NewBatchStore(db)
	require.NoError(t, st.Create(ctx, newBatch(org.OrgID, "beta")))
	require.NoError(t, st.Create(ctx, newBatch(org.OrgID, "alpha")))
	require.NoError(t, st.Create(ctx, newBatch(other.OrgID, "gamma")))

	t.Run("all batches", func(t *testing.T) {
		batches, err := st.List(ctx, nil)
		require.NoError(t, err)
		require.Len(t, batches, 3)
	})

	t.Run("filtered by organization", func(t *testing.T) {
		batches, err := st.List(ctx, &org.OrgID)
		require.NoError(t, err)
		require.Len(t, batches, 2)
		require.Equal(t, "alpha", batches[0].Name)
		require.Equal(t, "beta", batches[1].Name)
	})
}

func TestBatchStore_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("rename and deactivate", func(t *testing.T) {
		db := NewDB()
		org := seedOrg(t, db)
		st := NewBatchStore(db)

		batch := newBatch(org.OrgID, "2026-spring")
		require.NoError(t, st.Create(ctx, batch))

		err := st.Update(ctx, &models.Batch{BatchID: batch.BatchID, Name: "2026-summer", IsActive: false})
		require.NoError(t, err)

		batches, err := st.List(ctx, &org.OrgID)
		require.NoError(t, err)
		require.Equal(t, "2026-summer", batches[0].Name)
		require.False(t, batches[0].IsActive)
	})

	t.Run("missing batch", func(t *testing.T) {
		db := NewDB()
		seedOrg(t, db)

		err := NewBatchStore(db).Update(ctx, &models.Batch{BatchID: uuid.Must(uuid.NewV7()), Name: "x"})
		require.ErrorIs(t, err, store.ErrBatchNotFound)
	})
}

func newPod(batchID uuid.UUID, name string) *models.Pod {
	return &models.Pod{
		PodID:    uuid.Must(uuid.NewV7()),
		BatchID:  batchID,
		Name:     name,
		IsActive: true,
	}
}

func TestPodStore(t *testing.T) {
	ctx := context.Background()

	t.Run("create requires batch", func(t *testing.T) {
		db := NewDB()

		err := NewPodStore(db).Create(ctx, newPod(uuid.Must(uuid.NewV7()), "pod-a"))
		require.ErrorIs(t, err, store.ErrBatchNotFound)
	})

	t.Run("duplicate name within batch", func(t *testing.T) {
		db := NewDB()
		org := seedOrg(t, db)
		batch := newBatch(org.OrgID, "2026-spring")
		require.NoError(t, NewBatchStore(db).Create(ctx, batch))
		st := NewPodStore(db)

		require.NoError(t, st.Create(ctx, newPod(batch.BatchID, "pod-a")))
		require.ErrorIs(t, st.Create(ctx, newPod(batch.BatchID, "pod-a")), store.ErrPodAlreadyExists)
	})

	t.Run("list filtered by batch", func(t *testing.T) {
		db := NewDB()
		org := seedOrg(t, db)
		bs := NewBatchStore(db)
		spring := newBatch(org.OrgID, "spring")
		fall := newBatch(org.OrgID, "fall")
		require.NoError(t, bs.Create(ctx, spring))
		require.NoError(t, bs.Create(ctx, fall))

		st := NewPodStore(db)
		require.NoError(t, st.Create(ctx, newPod(spring.BatchID, "pod-b")))
		require.NoError(t, st.Create(ctx, newPod(spring.BatchID, "pod-a")))
		require.NoError(t, st.Create(ctx, newPod(fall.BatchID, "pod-c")))

		pods, err := st.List(ctx, &spring.BatchID)
		require.NoError(t, err)
		require.Len(t, pods, 2)
		require.Equal(t, "pod-a", pods[0].Name)
	})

	t.Run("update missing pod", func(t *testing.T) {
		db := NewDB()

		err := NewPodStore(db).Update(ctx, &models.Pod{PodID: uuid.Must(uuid.NewV7()), Name: "x"})
		require.ErrorIs(t, err, store.ErrPodNotFound)
	})
}
