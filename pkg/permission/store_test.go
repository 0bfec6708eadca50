package permission

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// storeFactories returns a constructor per implementation so the contract
// tests run against both.
func storeFactories(t *testing.T) map[string]func(t *testing.T) Store {
	return map[string]func(t *testing.T) Store{
		"file": func(t *testing.T) Store {
			s, err := NewFileStore(filepath.Join(t.TempDir(), "permissions.json"))
			require.NoError(t, err)
			return s
		},
		"sqlite": func(t *testing.T) Store {
			s, err := NewSQLiteStore(":memory:")
			require.NoError(t, err)
			return s
		},
	}
}

func TestStoreContract(t *testing.T) {
	for name, newStore := range storeFactories(t) {
		t.Run(name, func(t *testing.T) {
			t.Run("UnknownNotPermitted", func(t *testing.T) {
				s := newStore(t)
				defer s.Close()

				id := uuid.New()
				assert.False(t, s.IsPermitted(id))
				// The read alone must not create a record
				assert.Empty(t, s.List())
			})

			t.Run("RecordSeenCreatesDeniedRecord", func(t *testing.T) {
				s := newStore(t)
				defer s.Close()

				id := uuid.New()
				require.NoError(t, s.RecordSeen(id, "Watchface"))

				assert.False(t, s.IsPermitted(id))
				name, ok := s.Name(id)
				require.True(t, ok)
				assert.Equal(t, "Watchface", name)
				assert.Equal(t, []uuid.UUID{id}, s.List())
			})

			t.Run("RecordSeenIdempotentListMembership", func(t *testing.T) {
				s := newStore(t)
				defer s.Close()

				id := uuid.New()
				for i := 0; i < 5; i++ {
					require.NoError(t, s.RecordSeen(id, "Watchface"))
				}
				assert.Len(t, s.List(), 1)
			})

			t.Run("NameUpdatedForKnownCaller", func(t *testing.T) {
				s := newStore(t)
				defer s.Close()

				id := uuid.New()
				require.NoError(t, s.RecordSeen(id, "Old Name"))
				require.NoError(t, s.SetPermitted(id, true))
				require.NoError(t, s.RecordSeen(id, "New Name"))

				name, _ := s.Name(id)
				assert.Equal(t, "New Name", name)
				// Name update must not clobber the permitted flag
				assert.True(t, s.IsPermitted(id))
			})

			t.Run("EmptyNameLeavesStoredName", func(t *testing.T) {
				s := newStore(t)
				defer s.Close()

				id := uuid.New()
				require.NoError(t, s.RecordSeen(id, "Watchface"))
				require.NoError(t, s.RecordSeen(id, ""))

				name, ok := s.Name(id)
				require.True(t, ok)
				assert.Equal(t, "Watchface", name)
			})

			t.Run("SetPermittedRoundTrip", func(t *testing.T) {
				s := newStore(t)
				defer s.Close()

				id := uuid.New()
				require.NoError(t, s.SetPermitted(id, true))
				assert.True(t, s.IsPermitted(id))

				require.NoError(t, s.SetPermitted(id, false))
				assert.False(t, s.IsPermitted(id))

				// SetPermitted on an unseen identity also registers it, once
				assert.Equal(t, []uuid.UUID{id}, s.List())
			})

			t.Run("ListInsertionOrder", func(t *testing.T) {
				s := newStore(t)
				defer s.Close()

				ids := []uuid.UUID{uuid.New(), uuid.New(), uuid.New()}
				for _, id := range ids {
					require.NoError(t, s.RecordSeen(id, ""))
				}
				// Touch the first again; order must not change
				require.NoError(t, s.SetPermitted(ids[0], true))

				assert.Equal(t, ids, s.List())
			})

			t.Run("ConcurrentFirstContact", func(t *testing.T) {
				s := newStore(t)
				defer s.Close()

				id := uuid.New()
				var wg sync.WaitGroup
				for i := 0; i < 16; i++ {
					wg.Add(1)
					go func() {
						defer wg.Done()
						_ = s.RecordSeen(id, "Racer")
						_ = s.SetPermitted(id, true)
					}()
				}
				wg.Wait()

				assert.Len(t, s.List(), 1)
				assert.True(t, s.IsPermitted(id))
			})
		})
	}
}

func TestFileStoreReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "permissions.json")

	s, err := NewFileStore(path)
	require.NoError(t, err)

	first := uuid.New()
	second := uuid.New()
	require.NoError(t, s.RecordSeen(first, "First App"))
	require.NoError(t, s.RecordSeen(second, "Second App"))
	require.NoError(t, s.SetPermitted(first, true))
	require.NoError(t, s.Close())

	reloaded, err := NewFileStore(path)
	require.NoError(t, err)
	defer reloaded.Close()

	assert.True(t, reloaded.IsPermitted(first))
	assert.False(t, reloaded.IsPermitted(second))
	name, ok := reloaded.Name(second)
	require.True(t, ok)
	assert.Equal(t, "Second App", name)
	assert.Equal(t, []uuid.UUID{first, second}, reloaded.List())
}

func TestFileStoreCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "permissions.json")
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0644))

	_, err := NewFileStore(path)
	assert.Error(t, err)
}

func TestSQLiteStoreReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "permissions.db")

	s, err := NewSQLiteStore(path)
	require.NoError(t, err)

	id := uuid.New()
	require.NoError(t, s.RecordSeen(id, "Durable App"))
	require.NoError(t, s.SetPermitted(id, true))
	require.NoError(t, s.Close())

	reloaded, err := NewSQLiteStore(path)
	require.NoError(t, err)
	defer reloaded.Close()

	assert.True(t, reloaded.IsPermitted(id))
	name, ok := reloaded.Name(id)
	require.True(t, ok)
	assert.Equal(t, "Durable App", name)
}
