package storage

import (
	"context"
	"fmt"
	"io"
	"mime"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"
)

// LocalFilesRoute is the URL prefix under which a local storage root is served.
const LocalFilesRoute = "/files"

// LocalStorage implements Storage on the local filesystem. Each bucket is a
// directory under the base path.
type LocalStorage struct {
	basePath string
}

// LocalConfig holds configuration for local storage.
type LocalConfig struct {
	BasePath string `mapstructure:"base_path"`
}

// NewLocalStorage creates a new LocalStorage instance.
func NewLocalStorage(cfg LocalConfig) (*LocalStorage, error) {
	// Ensure base path exists
	if err := os.MkdirAll(cfg.BasePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create base path: %w", err)
	}

	absPath, err := filepath.Abs(cfg.BasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to get absolute path: %w", err)
	}

	return &LocalStorage{
		basePath: absPath,
	}, nil
}

// fullPath returns the filesystem path for an object, rejecting bucket or key
// values that would escape the base path.
func (s *LocalStorage) fullPath(bucket, key string) (string, error) {
	if bucket == "" || strings.ContainsAny(bucket, `/\`) || bucket == "." || bucket == ".." {
		return "", fmt.Errorf("invalid bucket name: %q", bucket)
	}
	cleanKey := path.Clean("/" + key)
	if key == "" || cleanKey == "/" {
		return "", fmt.Errorf("invalid object key: %q", key)
	}
	return filepath.Join(s.basePath, bucket, filepath.FromSlash(cleanKey)), nil
}

// Head returns object metadata; a missing object yields ErrNotFound.
func (s *LocalStorage) Head(ctx context.Context, bucket, key string) (*FileInfo, error) {
	p, err := s.fullPath(bucket, key)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(p)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, notFound(bucket, key)
		}
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}
	if info.IsDir() {
		return nil, notFound(bucket, key)
	}

	return &FileInfo{
		Bucket:       bucket,
		Key:          key,
		Size:         info.Size(),
		LastModified: info.ModTime(),
		ContentType:  mime.TypeByExtension(filepath.Ext(key)),
	}, nil
}

// Read retrieves content for the given object.
func (s *LocalStorage) Read(ctx context.Context, bucket, key string) (io.ReadCloser, error) {
	p, err := s.fullPath(bucket, key)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(p)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, notFound(bucket, key)
		}
		return nil, fmt.Errorf("failed to open file: %w", err)
	}

	return file, nil
}

// Write stores content from the reader under the given object key. The file
// is written to a temporary sibling and renamed into place.
func (s *LocalStorage) Write(ctx context.Context, bucket, key string, r io.Reader, size int64, contentType string) error {
	p, err := s.fullPath(bucket, key)
	if err != nil {
		return err
	}

	// Ensure parent directory exists
	dir := filepath.Dir(p)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	tmpFile, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	// Clean up temp file on error
	success := false
	defer func() {
		if !success {
			os.Remove(tmpPath)
		}
	}()

	if _, err := io.Copy(tmpFile, r); err != nil {
		tmpFile.Close()
		return fmt.Errorf("failed to write content: %w", err)
	}

	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	// Atomic rename
	if err := os.Rename(tmpPath, p); err != nil {
		return fmt.Errorf("failed to rename temp file: %w", err)
	}

	success = true
	return nil
}

// GetURL returns the object's path under LocalFilesRoute for a static file
// handler rooted at the base path.
func (s *LocalStorage) GetURL(ctx context.Context, bucket, key string, expires time.Duration) (string, error) {
	if _, err := s.Head(ctx, bucket, key); err != nil {
		return "", err
	}
	return LocalFilesRoute + "/" + bucket + "/" + strings.TrimPrefix(key, "/"), nil
}

// GetBasePath returns the base path for the storage.
func (s *LocalStorage) GetBasePath() string {
	return s.basePath
}
