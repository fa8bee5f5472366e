package storage

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMediaStore_SaveAndRemove(t *testing.T) {
	fs := afero.NewMemMapFs()
	store := NewMediaStoreOnFs(fs, "/media/")
	ctx := context.Background()

	stored, err := store.Save(ctx, "Cover.PNG", bytes.NewBufferString("image-bytes"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(stored, ImageDir+"/"))
	assert.True(t, strings.HasSuffix(stored, ".png"))

	data, err := afero.ReadFile(fs, stored)
	require.NoError(t, err)
	assert.Equal(t, "image-bytes", string(data))

	assert.Equal(t, "/media/"+stored, store.URL(stored))
	assert.Empty(t, store.URL(""))

	require.NoError(t, store.Remove(ctx, stored))
	exists, err := afero.Exists(fs, stored)
	require.NoError(t, err)
	assert.False(t, exists)

	assert.NoError(t, store.Remove(ctx, stored), "removing a missing file is not an error")
	assert.NoError(t, store.Remove(ctx, ""))
}

func TestMediaStore_UniqueNames(t *testing.T) {
	store := NewMediaStoreOnFs(afero.NewMemMapFs(), "/media")

	a, err := store.Save(context.Background(), "a.jpg", bytes.NewBufferString("1"))
	require.NoError(t, err)
	b, err := store.Save(context.Background(), "a.jpg", bytes.NewBufferString("2"))
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestMediaStore_CanceledContext(t *testing.T) {
	store := NewMediaStoreOnFs(afero.NewMemMapFs(), "/media")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := store.Save(ctx, "a.jpg", bytes.NewBufferString("1"))
	assert.ErrorIs(t, err, context.Canceled)
}
