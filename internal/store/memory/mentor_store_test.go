package memory

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/tinymagiq/podworks/internal/models"
	"github.com/tinymagiq/podworks/internal/store"
)

func newMentor(name, email string) *models.Mentor {
	return &models.Mentor{
		MentorID: uuid.Must(uuid.NewV7()),
		Name:     name,
		Email:    email,
		IsActive: true,
	}
}

func TestMentorStore(t *testing.T) {
	ctx := context.Background()

	t.Run("duplicate email", func(t *testing.T) {
		st := NewMentorStore(NewDB())

		require.NoError(t, st.Create(ctx, newMentor("Grace", "grace@mentors.test")))
		require.ErrorIs(t,
			st.Create(ctx, newMentor("Other Grace", "grace@mentors.test")),
			store.ErrMentorAlreadyExists)
	})

	t.Run("list ordered by name", func(t *testing.T) {
		st := NewMentorStore(NewDB())

		require.NoError(t, st.Create(ctx, newMentor("Niklaus", "niklaus@mentors.test")))
		require.NoError(t, st.Create(ctx, newMentor("Grace", "grace@mentors.test")))

		mentors, err := st.List(ctx)
		require.NoError(t, err)
		require.Len(t, mentors, 2)
		require.Equal(t, "Grace", mentors[0].Name)
		require.Equal(t, "Niklaus", mentors[1].Name)
	})

	t.Run("update", func(t *testing.T) {
		st := NewMentorStore(NewDB())
		mentor := newMentor("Grace", "grace@mentors.test")
		require.NoError(t, st.Create(ctx, mentor))

		mentor.Name = "Grace H."
		mentor.IsActive = false
		require.NoError(t, st.Update(ctx, mentor))

		mentors, err := st.List(ctx)
		require.NoError(t, err)
		require.Equal(t, "Grace H.", mentors[0].Name)
		require.False(t, mentors[0].IsActive)
	})

	t.Run("update to taken email", func(t *testing.T) {
		st := NewMentorStore(NewDB())
		require.NoError(t, st.Create(ctx, newMentor("Grace", "grace@mentors.test")))
		mentor := newMentor("Niklaus", "niklaus@mentors.test")
		require.NoError(t, st.Create(ctx, mentor))

		mentor.Email = "grace@mentors.test"
		require.ErrorIs(t, st.Update(ctx, mentor), store.ErrMentorAlreadyExists)
	})

	t.Run("delete removes pod assignments", func(t *testing.T) {
		f := newFixture(t, 4, 2)
		mentor := f.addMentor(t, "Grace", "grace@mentors.test")

		require.NoError(t, f.stores.Assignments.AssignMentorToPod(ctx, f.podAssignment(f.podA, "grace@mentors.test")))
		require.NoError(t, f.stores.Mentors.Delete(ctx, mentor.MentorID))

		mentors, err := f.stores.Assignments.ListPodMentors(ctx, f.podA.PodID)
		require.NoError(t, err)
		require.Empty(t, mentors)
	})

	t.Run("delete missing mentor", func(t *testing.T) {
		st := NewMentorStore(NewDB())

		require.ErrorIs(t, st.Delete(ctx, uuid.Must(uuid.NewV7())), store.ErrMentorNotFound)
	})
}

func TestConceptStore(t *testing.T) {
	ctx := context.Background()

	newConcept := func(name string) *models.Concept {
		return &models.Concept{
			ConceptID: uuid.Must(uuid.NewV7()),
			Name:      name,
			IsActive:  true,
		}
	}

	t.Run("create and list ordered by name", func(t *testing.T) {
		st := NewConceptStore(NewDB())

		require.NoError(t, st.Create(ctx, newConcept("recursion")))
		require.NoError(t, st.Create(ctx, newConcept("closures")))

		concepts, err := st.List(ctx)
		require.NoError(t, err)
		require.Len(t, concepts, 2)
		require.Equal(t, "closures", concepts[0].Name)
	})

	t.Run("update", func(t *testing.T) {
		st := NewConceptStore(NewDB())
		concept := newConcept("recursion")
		require.NoError(t, st.Create(ctx, concept))

		concept.IsActive = false
		require.NoError(t, st.Update(ctx, concept))

		concepts, err := st.List(ctx)
		require.NoError(t, err)
		require.False(t, concepts[0].IsActive)
	})

	t.Run("update missing concept", func(t *testing.T) {
		st := NewConceptStore(NewDB())

		err := st.Update(ctx, newConcept("recursion"))
		require.ErrorIs(t, err, store.ErrConceptNotFound)
	})
}
