package storage

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocloud.dev/blob"
)

func newMemImageStorage(t *testing.T) *blobImageStorage {
	t.Helper()

	bucket, err := blob.OpenBucket(context.Background(), "mem://")
	require.NoError(t, err)
	t.Cleanup(func() { _ = bucket.Close() })

	return &blobImageStorage{
		bucket:        bucket,
		publicBaseURL: "http://localhost:8080/images",
		logger:        slog.Default(),
	}
}

func TestBlobImageStorage_Save(t *testing.T) {
	storage := newMemImageStorage(t)
	ctx := context.Background()

	url, err := storage.Save(ctx, "products/abc.png", "image/png", strings.NewReader("png-bytes"))
	assert.NoError(t, err)
	assert.Equal(t, "http://localhost:8080/images/products/abc.png", url)

	// The object must be readable back with the same content.
	reader, err := storage.bucket.NewReader(ctx, "products/abc.png", nil)
	require.NoError(t, err)
	defer reader.Close()

	content, err := io.ReadAll(reader)
	assert.NoError(t, err)
	assert.Equal(t, "png-bytes", string(content))
	assert.Equal(t, "image/png", reader.ContentType())
}

func TestBlobImageStorage_SaveOverwritesExistingKey(t *testing.T) {
	storage := newMemImageStorage(t)
	ctx := context.Background()

	_, err := storage.Save(ctx, "products/abc.png", "image/png", strings.NewReader("first"))
	require.NoError(t, err)

	_, err = storage.Save(ctx, "products/abc.png", "image/png", strings.NewReader("second"))
	require.NoError(t, err)

	reader, err := storage.bucket.NewReader(ctx, "products/abc.png", nil)
	require.NoError(t, err)
	defer reader.Close()

	content, err := io.ReadAll(reader)
	assert.NoError(t, err)
	assert.Equal(t, "second", string(content))
}
