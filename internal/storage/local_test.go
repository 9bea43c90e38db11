package storage

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorage_Lifecycle(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	store, err := NewLocalStorage(Config{BasePath: t.TempDir(), BaseURL: "/api/v1/files"})
	require.NoError(t, err)

	err = store.Save(ctx, "avatars/u1/photo.png", strings.NewReader("image-bytes"), "image/png")
	require.NoError(t, err)

	exists, err := store.Exists(ctx, "avatars/u1/photo.png")
	require.NoError(t, err)
	assert.True(t, exists)

	file, err := store.Get(ctx, "avatars/u1/photo.png")
	require.NoError(t, err)
	content, err := io.ReadAll(file)
	require.NoError(t, err)
	require.NoError(t, file.Close())
	assert.Equal(t, "image-bytes", string(content))

	url, err := store.GetURL(ctx, "avatars/u1/photo.png")
	require.NoError(t, err)
	assert.Equal(t, "/api/v1/files/avatars/u1/photo.png", url)

	require.NoError(t, store.Delete(ctx, "avatars/u1/photo.png"))
	exists, err = store.Exists(ctx, "avatars/u1/photo.png")
	require.NoError(t, err)
	assert.False(t, exists)

	// Повторное удаление не считается ошибкой
	assert.NoError(t, store.Delete(ctx, "avatars/u1/photo.png"))
}

func TestNewStorage_UnknownType(t *testing.T) {
	t.Parallel()

	_, err := NewStorage(Config{Type: "ftp"})
	assert.Error(t, err)
}

func TestNewStorage_DefaultsToLocal(t *testing.T) {
	t.Parallel()

	store, err := NewStorage(Config{Type: "local", BasePath: t.TempDir()})
	require.NoError(t, err)
	assert.IsType(t, &LocalStorage{}, store)
}
