package kv

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/atinyakov/ShopKeeper/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// exerciseStore runs the behaviour every Store must share.
func exerciseStore(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	_, ok, err := s.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok, "absent key must report ok=false")

	require.NoError(t, s.Set(ctx, "user", `{"id":"1"}`))
	v, ok, err := s.Get(ctx, "user")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `{"id":"1"}`, v)

	require.NoError(t, s.Set(ctx, "user", `{"id":"2"}`))
	v, _, err = s.Get(ctx, "user")
	require.NoError(t, err)
	assert.Equal(t, `{"id":"2"}`, v, "Set must overwrite")

	require.NoError(t, s.Remove(ctx, "user"))
	_, ok, err = s.Get(ctx, "user")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Remove(ctx, "user"), "removing an absent key is not an error")
}

func TestMemory(t *testing.T) {
	exerciseStore(t, NewMemory())
}

func TestMemory_ZeroValue(t *testing.T) {
	var m Memory
	require.NoError(t, m.Set(context.Background(), "k", "v"))
	assert.Equal(t, 1, m.Keys())
}

func TestFile(t *testing.T) {
	f, err := OpenFile(filepath.Join(t.TempDir(), "store.json"))
	require.NoError(t, err)
	exerciseStore(t, f)
}

func TestFile_PersistsAcrossOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "store.json")
	ctx := context.Background()

	f, err := OpenFile(path)
	require.NoError(t, err)
	require.NoError(t, f.Set(ctx, "registered_users", `[]`))
	assert.Equal(t, path, f.Path())

	reopened, err := OpenFile(path)
	require.NoError(t, err)
	v, ok, err := reopened.Get(ctx, "registered_users")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `[]`, v)
}

func TestFile_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	_, err := OpenFile(path)
	assert.Error(t, err)
}

func TestFile_EmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.json")
	require.NoError(t, os.WriteFile(path, nil, 0o600))

	f, err := OpenFile(path)
	require.NoError(t, err)
	exerciseStore(t, f)
}

func TestSQLite(t *testing.T) {
	conn, err := db.InitSQLite(filepath.Join(t.TempDir(), "kv.db"))
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	exerciseStore(t, NewSQLiteStore(conn))
}
