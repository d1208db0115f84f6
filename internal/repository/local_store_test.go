package repository

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStoreContract(t *testing.T) {
	s, err := NewLocalStore(filepath.Join(t.TempDir(), "nested", "data"))
	require.NoError(t, err)
	testStoreContract(t, s)
}

func TestLocalStoreLayout(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	s, err := NewLocalStore(dir)
	require.NoError(t, err)

	require.NoError(t, s.Put(ctx, "currentUser", []byte(`{"id":"u1"}`)))

	data, err := os.ReadFile(filepath.Join(dir, "currentUser.json"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"u1"}`, string(data))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary files must not be left behind")
}

func TestLocalStoreRejectsUnsafeKeys(t *testing.T) {
	ctx := context.Background()
	s, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)

	assert.Error(t, s.Put(ctx, "../escape", []byte(`1`)))
	_, err = s.Get(ctx, "a/b")
	assert.Error(t, err)
}
