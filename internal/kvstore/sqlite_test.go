package kvstore

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := OpenSQLite(filepath.Join(t.TempDir(), "mochila", "cache.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSQLiteStore_ReadMissing(t *testing.T) {
	s := newTestStore(t)

	_, ok, err := s.Read("absent")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSQLiteStore_WriteReadOverwrite(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.Write("k", []byte("v1")))
	got, ok, err := s.Read("k")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []byte("v1"), got)

	require.NoError(t, s.Write("k", []byte("v2")))
	got, _, err = s.Read("k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v2"), got)
}

func TestSQLiteStore_Delete(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.Write("k", []byte("v")))
	require.NoError(t, s.Delete("k"))
	_, ok, err := s.Read("k")
	require.NoError(t, err)
	assert.False(t, ok)

	assert.NoError(t, s.Delete("k"), "deleting an absent key is fine")
}

func TestSQLiteStore_InMemory(t *testing.T) {
	s, err := OpenSQLite(":memory:")
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.Write("k", []byte("v")))
	got, ok, err := s.Read("k")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []byte("v"), got)
}
