package storage

import (
	"context"
	"errors"
	"io"
)

var (
	ErrInvalidPath = errors.New("invalid file path")
	ErrNotFound    = errors.New("file not found")
)

// FileStorage is the blob store behind employee photos and documents.
type FileStorage interface {
	// Upload uploads a file and returns the file path/key
	Upload(ctx context.Context, file io.Reader, path string, contentType string) (string, error)

	// Open retrieves a file
	Open(ctx context.Context, path string) (io.ReadCloser, error)

	// Delete removes a file; deleting a missing file is not an error
	Delete(ctx context.Context, path string) error

	// PublicURL returns the URL clients fetch the file from
	PublicURL(path string) string

	// Exists checks if file exists
	Exists(ctx context.Context, path string) (bool, error)
}
