// Package storagetest holds the behavioural test suite every
// storage.Storage implementation must pass.
package storagetest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aanand-mishra/people-api/internal/storage"
	"github.com/aanand-mishra/people-api/internal/types"
)

// Run executes the suite. newStore must return an empty store on every call.
func Run(t *testing.T, newStore func(t *testing.T) storage.Storage) {
	t.Helper()

	ana := types.CreatePersonInput{Name: "Ana Silva", Email: "ana@example.com"}
	bob := types.CreatePersonInput{Name: "Bob Stone", Email: "bob@example.com", Age: intPtr(41)}

	t.Run("empty list is non-nil", func(t *testing.T) {
		s := newStore(t)

		people, err := s.ListPeople()
		require.NoError(t, err)
		assert.NotNil(t, people)
		assert.Empty(t, people)
	})

	t.Run("insert assigns increasing ids starting at 1", func(t *testing.T) {
		s := newStore(t)

		first, err := s.InsertPerson(ana)
		require.NoError(t, err)
		second, err := s.InsertPerson(bob)
		require.NoError(t, err)

		assert.Equal(t, int64(1), first.ID)
		assert.Equal(t, int64(2), second.ID)
		assert.Nil(t, first.Age)
		require.NotNil(t, second.Age)
		assert.Equal(t, 41, *second.Age)
	})

	t.Run("get returns the inserted record", func(t *testing.T) {
		s := newStore(t)

		created, err := s.InsertPerson(ana)
		require.NoError(t, err)

		got, err := s.GetPerson(created.ID)
		require.NoError(t, err)
		assert.Equal(t, created, got)
	})

	t.Run("get unknown id", func(t *testing.T) {
		s := newStore(t)

		_, err := s.GetPerson(42)
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("list keeps insertion order after removal", func(t *testing.T) {
		s := newStore(t)

		for _, in := range []types.CreatePersonInput{ana, bob, ana} {
			_, err := s.InsertPerson(in)
			require.NoError(t, err)
		}
		require.NoError(t, s.RemovePerson(2))

		people, err := s.ListPeople()
		require.NoError(t, err)
		require.Len(t, people, 2)
		assert.Equal(t, int64(1), people[0].ID)
		assert.Equal(t, int64(3), people[1].ID)
	})

	t.Run("duplicate name and email are allowed", func(t *testing.T) {
		s := newStore(t)

		_, err := s.InsertPerson(ana)
		require.NoError(t, err)
		_, err = s.InsertPerson(ana)
		require.NoError(t, err)

		people, err := s.ListPeople()
		require.NoError(t, err)
		assert.Len(t, people, 2)
	})

	t.Run("ids are never reused after removal", func(t *testing.T) {
		s := newStore(t)

		first, err := s.InsertPerson(ana)
		require.NoError(t, err)
		require.NoError(t, s.RemovePerson(first.ID))

		next, err := s.InsertPerson(bob)
		require.NoError(t, err)
		assert.Greater(t, next.ID, first.ID)
	})

	t.Run("replace keeps the id", func(t *testing.T) {
		s := newStore(t)

		created, err := s.InsertPerson(bob)
		require.NoError(t, err)

		replaced, err := s.ReplacePerson(created.ID, types.Person{ID: 99, Name: "Bobby", Email: "bobby@example.com"})
		require.NoError(t, err)
		assert.Equal(t, created.ID, replaced.ID)
		assert.Equal(t, "Bobby", replaced.Name)
		assert.Nil(t, replaced.Age)

		got, err := s.GetPerson(created.ID)
		require.NoError(t, err)
		assert.Equal(t, replaced, got)

		_, err = s.GetPerson(99)
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("replace unknown id", func(t *testing.T) {
		s := newStore(t)

		_, err := s.ReplacePerson(5, types.Person{Name: "Nobody", Email: "n@example.com"})
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("remove twice", func(t *testing.T) {
		s := newStore(t)

		created, err := s.InsertPerson(ana)
		require.NoError(t, err)

		require.NoError(t, s.RemovePerson(created.ID))
		assert.ErrorIs(t, s.RemovePerson(created.ID), storage.ErrNotFound)
	})

	t.Run("returned records are copies", func(t *testing.T) {
		s := newStore(t)

		created, err := s.InsertPerson(bob)
		require.NoError(t, err)
		*created.Age = 7

		got, err := s.GetPerson(created.ID)
		require.NoError(t, err)
		assert.Equal(t, 41, *got.Age)
	})
}

func intPtr(v int) *int { return &v }
