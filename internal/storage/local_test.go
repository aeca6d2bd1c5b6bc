package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveAndDelete(t *testing.T) {
	root := t.TempDir()
	s, err := NewLocalFileStorage(root)
	require.NoError(t, err)
	ctx := context.Background()

	saved, err := s.Save(ctx, "report.pdf", strings.NewReader("content"), "application/pdf")
	require.NoError(t, err)
	assert.EqualValues(t, 7, saved.Length)
	assert.Equal(t, "application/pdf", saved.ContentType)
	assert.True(t, strings.HasSuffix(saved.StoredRef, "_report.pdf"))

	data, err := os.ReadFile(filepath.Join(root, saved.StoredRef))
	require.NoError(t, err)
	assert.Equal(t, "content", string(data))

	require.NoError(t, s.Delete(ctx, saved.StoredRef))
	_, err = os.Stat(filepath.Join(root, saved.StoredRef))
	assert.True(t, os.IsNotExist(err))

	// Deleting again is a no-op, not an error.
	require.NoError(t, s.Delete(ctx, saved.StoredRef))
}

func TestSaveSameNameNeverCollides(t *testing.T) {
	s, err := NewLocalFileStorage(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	first, err := s.Save(ctx, "notes.txt", strings.NewReader("one"), "text/plain")
	require.NoError(t, err)
	second, err := s.Save(ctx, "notes.txt", strings.NewReader("two"), "text/plain")
	require.NoError(t, err)
	assert.NotEqual(t, first.StoredRef, second.StoredRef)
}

func TestSaveSanitizesFileName(t *testing.T) {
	root := t.TempDir()
	s, err := NewLocalFileStorage(root)
	require.NoError(t, err)

	saved, err := s.Save(context.Background(), "../../etc/passwd", strings.NewReader("x"), "")
	require.NoError(t, err)
	assert.Equal(t, saved.StoredRef, filepath.Base(saved.StoredRef))
	assert.Equal(t, "application/octet-stream", saved.ContentType)

	// The blob landed inside the root.
	_, err = os.Stat(filepath.Join(root, saved.StoredRef))
	require.NoError(t, err)
}

func TestDeleteRejectsEscapingRefs(t *testing.T) {
	s, err := NewLocalFileStorage(t.TempDir())
	require.NoError(t, err)

	assert.Error(t, s.Delete(context.Background(), "../outside"))
	assert.Error(t, s.Delete(context.Background(), ""))
}

func TestSaveHonorsCancelledContext(t *testing.T) {
	s, err := NewLocalFileStorage(t.TempDir())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = s.Save(ctx, "x.txt", strings.NewReader("x"), "")
	assert.Error(t, err)
}
