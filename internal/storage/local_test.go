package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStoreSaveAndDelete(t *testing.T) {
	store := NewLocalStore(t.TempDir(), "/media/")
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "uploads/recipe/a.jpg", []byte("data")))

	got, err := os.ReadFile(store.Path("uploads/recipe/a.jpg"))
	require.NoError(t, err)
	assert.Equal(t, []byte("data"), got)

	require.NoError(t, store.Delete(ctx, "uploads/recipe/a.jpg"))
	_, err = os.Stat(store.Path("uploads/recipe/a.jpg"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLocalStoreDeleteMissing(t *testing.T) {
	store := NewLocalStore(t.TempDir(), "/media")

	assert.NoError(t, store.Delete(context.Background(), "uploads/recipe/missing.jpg"))
}

func TestLocalStoreURL(t *testing.T) {
	store := NewLocalStore(t.TempDir(), "/media/")

	assert.Equal(t, "/media/uploads/recipe/a.jpg", store.URL("uploads/recipe/a.jpg"))
}

func TestLocalStorePath(t *testing.T) {
	root := t.TempDir()
	store := NewLocalStore(root, "/media")

	assert.Equal(t, filepath.Join(root, "uploads", "recipe", "a.jpg"), store.Path("uploads/recipe/a.jpg"))
}
