package storage_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tocpharma/packing-be/internal/adapters/storage"
	"github.com/tocpharma/packing-be/test/helpers"
)

func TestLocalSlipStore_SaveLoadDelete(t *testing.T) {
	ctx := context.Background()
	store, err := storage.NewLocalSlipStore(t.TempDir(), helpers.TestLogger())
	require.NoError(t, err)

	data := []byte("%PDF-1.4 fake slip")
	path, err := store.Save(ctx, "packing_slip_IV6806-00042.pdf", data)
	require.NoError(t, err)
	assert.FileExists(t, path)

	exists, err := store.Exists(ctx, "packing_slip_IV6806-00042.pdf")
	require.NoError(t, err)
	assert.True(t, exists)

	loaded, err := store.Load(ctx, "packing_slip_IV6806-00042.pdf")
	require.NoError(t, err)
	assert.Equal(t, data, loaded)

	names, err := store.List(ctx, "packing_slip_")
	require.NoError(t, err)
	assert.Equal(t, []string{"packing_slip_IV6806-00042.pdf"}, names)

	require.NoError(t, store.Delete(ctx, "packing_slip_IV6806-00042.pdf"))
	exists, err = store.Exists(ctx, "packing_slip_IV6806-00042.pdf")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestLocalSlipStore_PathTraversalIsConfined(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	store, err := storage.NewLocalSlipStore(dir, helpers.TestLogger())
	require.NoError(t, err)

	path, err := store.Save(ctx, "../escape.pdf", []byte("x"))
	require.NoError(t, err)
	assert.Contains(t, path, dir)
}

func TestLocalSlipStore_DeleteMissingIsNoError(t *testing.T) {
	store, err := storage.NewLocalSlipStore(t.TempDir(), helpers.TestLogger())
	require.NoError(t, err)
	assert.NoError(t, store.Delete(context.Background(), "never-written.pdf"))
}
