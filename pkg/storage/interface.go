package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"
)

// ErrNotFound is returned (wrapped) when the addressed object does not exist.
var ErrNotFound = errors.New("object not found")

// FileInfo represents metadata about a stored object.
type FileInfo struct {
	Bucket       string
	Key          string
	Size         int64
	LastModified time.Time
	ContentType  string
}

// Storage defines the object store operations used by the enhancement
// pipeline, the metadata indexer and the read API. Objects are addressed by
// bucket and key.
type Storage interface {
	// Head returns metadata for the object without reading its body.
	// It returns an error wrapping ErrNotFound when the object is absent.
	Head(ctx context.Context, bucket, key string) (*FileInfo, error)

	// Read retrieves content for the given object.
	// The caller is responsible for closing the returned ReadCloser.
	Read(ctx context.Context, bucket, key string) (io.ReadCloser, error)

	// Write stores content from the reader under the given object key.
	// The size parameter is the expected content size (-1 if unknown).
	// The contentType parameter specifies the MIME type of the content.
	Write(ctx context.Context, bucket, key string, r io.Reader, size int64, contentType string) error

	// GetURL returns a URL for accessing the content.
	// For local storage, this returns the path relative to the storage root.
	// For S3, this returns a presigned URL valid for the specified duration.
	GetURL(ctx context.Context, bucket, key string, expires time.Duration) (string, error)
}

func notFound(bucket, key string) error {
	return fmt.Errorf("%w: %s/%s", ErrNotFound, bucket, key)
}
