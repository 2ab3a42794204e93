package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSource(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "source.jpg")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLocalListMissingBucket(t *testing.T) {
	s, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)

	objects, err := s.List(context.Background(), "nothing-here")
	require.NoError(t, err)
	assert.Empty(t, objects)
	assert.NotNil(t, objects)
}

func TestLocalPutAndList(t *testing.T) {
	ctx := context.Background()
	s, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)

	src := writeSource(t, "hello image")
	require.NoError(t, s.PutFile(ctx, "collage", "a.jpg", src))

	objects, err := s.List(ctx, "collage")
	require.NoError(t, err)
	assert.Equal(t, []Object{{Name: "a.jpg", Size: int64(len("hello image"))}}, objects)

	_, err = os.Stat(src)
	assert.NoError(t, err, "source file is copied, not moved")
}

func TestLocalListSkipsHiddenAndDirs(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	s, err := NewLocalStore(root)
	require.NoError(t, err)
	require.NoError(t, s.EnsureBucket(ctx, "collage"))

	dir := filepath.Join(root, "collage")
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".upload-123"), []byte("partial"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.png"), []byte("png"), 0o644))

	objects, err := s.List(ctx, "collage")
	require.NoError(t, err)
	assert.Equal(t, []Object{{Name: "b.png", Size: 3}}, objects)
}

func TestLocalDeleteAll(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	s, err := NewLocalStore(root)
	require.NoError(t, err)

	src := writeSource(t, "x")
	require.NoError(t, s.PutFile(ctx, "collage", "a.jpg", src))
	require.NoError(t, s.PutFile(ctx, "collage", "b.jpg", src))

	require.NoError(t, s.DeleteAll(ctx, "collage"))

	objects, err := s.List(ctx, "collage")
	require.NoError(t, err)
	assert.Empty(t, objects)

	info, err := os.Stat(filepath.Join(root, "collage"))
	require.NoError(t, err)
	assert.True(t, info.IsDir(), "bucket stays present after delete all")
}

func TestLocalPutMissingSource(t *testing.T) {
	s, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)

	err = s.PutFile(context.Background(), "collage", "a.jpg", filepath.Join(t.TempDir(), "gone.jpg"))
	assert.Error(t, err)
}

func TestLocalListUnreadableBucket(t *testing.T) {
	root := t.TempDir()
	s, err := NewLocalStore(root)
	require.NoError(t, err)

	// A plain file where the bucket directory should be cannot be read as a directory.
	require.NoError(t, os.WriteFile(filepath.Join(root, "collage"), []byte("x"), 0o644))

	objects, err := s.List(context.Background(), "collage")
	assert.ErrorIs(t, err, ErrListFailed)
	assert.Nil(t, objects)
}
