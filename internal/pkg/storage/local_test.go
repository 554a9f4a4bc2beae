package storage

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorageRoundTrip(t *testing.T) {
	s, err := NewLocalStorage(t.TempDir(), "http://localhost:8080/uploads/")
	require.NoError(t, err)
	ctx := context.Background()

	path, err := s.Upload(ctx, strings.NewReader("hello"), "documents/7/cv.pdf", "application/pdf")
	require.NoError(t, err)
	assert.Equal(t, "documents/7/cv.pdf", path)
	assert.Equal(t, "http://localhost:8080/uploads/documents/7/cv.pdf", s.PublicURL(path))

	exists, err := s.Exists(ctx, path)
	require.NoError(t, err)
	assert.True(t, exists)

	rc, err := s.Open(ctx, path)
	require.NoError(t, err)
	body, _ := io.ReadAll(rc)
	rc.Close()
	assert.Equal(t, "hello", string(body))

	require.NoError(t, s.Delete(ctx, path))
	require.NoError(t, s.Delete(ctx, path), "deleting twice is fine")

	_, err = s.Open(ctx, path)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestLocalStorageStaysInsideBase(t *testing.T) {
	s, err := NewLocalStorage(t.TempDir(), "http://x")
	require.NoError(t, err)

	path, err := s.Upload(context.Background(), strings.NewReader("x"), "../../etc/passwd", "text/plain")
	require.NoError(t, err)
	assert.Equal(t, "etc/passwd", path)

	_, err = s.Upload(context.Background(), strings.NewReader("x"), "", "text/plain")
	assert.ErrorIs(t, err, ErrInvalidPath)
}
