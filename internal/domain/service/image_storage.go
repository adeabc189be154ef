package service

import (
	"context"
	"io"
)

// ImageStorage defines the interface for storing product images.
// This abstracts the underlying blob store (local filesystem, GCS, S3).
type ImageStorage interface {
	// Save writes the image content under the given key and returns the
	// public URL where the image can be retrieved.
	Save(ctx context.Context, key, contentType string, content io.Reader) (string, error)

	// Close releases any resources held by the storage backend.
	Close() error
}
