package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"doc-scout/config"
)

func newLocal(t *testing.T) *LocalStore {
	t.Helper()
	store, err := NewLocalStore(&config.Config{
		UploadDir:     t.TempDir(),
		PublicBaseURL: "http://localhost:4242/",
	})
	require.NoError(t, err)
	return store
}

func TestLocalStore_Roundtrip(t *testing.T) {
	store := newLocal(t)
	ctx := context.Background()

	key, err := store.Save(ctx, "report.pdf", "application/pdf", []byte("%PDF-1.4"))
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(key, ".pdf"))

	data, err := os.ReadFile(filepath.Join(store.Dir, key))
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF-1.4"), data)

	objects, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, objects, 1)
	assert.Equal(t, key, objects[0].Key)
	assert.EqualValues(t, 8, objects[0].Size)

	require.NoError(t, store.Delete(ctx, key))
	objects, err = store.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, objects)
}

func TestLocalStore_URL(t *testing.T) {
	store := newLocal(t)
	// Trailing Slash der Basis-URL darf nicht doppelt auftauchen.
	assert.Equal(t, "http://localhost:4242/uploads/abc.pdf", store.URL("abc.pdf"))
}

func TestLocalStore_DeleteMissingIsNoError(t *testing.T) {
	store := newLocal(t)
	assert.NoError(t, store.Delete(context.Background(), "never-existed.pdf"))
}

func TestLocalStore_UniqueKeys(t *testing.T) {
	store := newLocal(t)
	ctx := context.Background()

	a, err := store.Save(ctx, "same.pdf", "application/pdf", []byte("a"))
	require.NoError(t, err)
	b, err := store.Save(ctx, "same.pdf", "application/pdf", []byte("b"))
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}
