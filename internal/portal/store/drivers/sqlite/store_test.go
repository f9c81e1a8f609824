package sqlite

import (
	"path/filepath"
	"testing"

	"github.com/aussiebroadwan/portal/internal/portal/store"
	"github.com/aussiebroadwan/portal/internal/portal/store/storetest"
	"github.com/stretchr/testify/require"
)

func newMemoryStore(t *testing.T) store.Store {
	t.Helper()

	s, err := NewStore(DSN(":memory:"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	require.NoError(t, s.ApplyMigrations())
	return s
}

func TestStore_Memory(t *testing.T) {
	storetest.Run(t, newMemoryStore)
}

func TestStore_File(t *testing.T) {
	storetest.Run(t, func(t *testing.T) store.Store {
		s, err := NewStore(DSN(filepath.Join(t.TempDir(), "portal.db")))
		require.NoError(t, err)
		t.Cleanup(func() { _ = s.Close() })

		require.NoError(t, s.ApplyMigrations())
		return s
	})
}

func TestApplyMigrations_Idempotent(t *testing.T) {
	s, err := NewStore(DSN(":memory:"))
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.ApplyMigrations())
	require.NoError(t, s.ApplyMigrations())
}

func TestDSN(t *testing.T) {
	require.Contains(t, DSN(""), "file::memory:?")
	require.Contains(t, DSN("portal.db"), "file:portal.db?")
	require.Contains(t, DSN("portal.db"), "_pragma=foreign_keys(1)")
	require.True(t, isMemoryDSN(DSN(":memory:")))
	require.False(t, isMemoryDSN(DSN("portal.db")))
}
