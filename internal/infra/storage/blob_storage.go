// Package storage implements product image storage on top of gocloud.dev
// blob buckets, so the same code serves a local directory in development
// and a GCS bucket in production.
package storage

import (
	"context"
	"io"
	"log/slog"
	"strings"

	"storefront/config"
	"storefront/internal/domain/lifecycle"
	"storefront/internal/domain/service"

	"github.com/pkg/errors"
	"go.uber.org/fx"
	"gocloud.dev/blob"

	// Register the blob drivers used by the supported bucket URL schemes.
	_ "gocloud.dev/blob/fileblob"
	_ "gocloud.dev/blob/gcsblob"
	_ "gocloud.dev/blob/memblob"
)

// blobImageStorage implements service.ImageStorage using a gocloud.dev bucket.
type blobImageStorage struct {
	bucket        *blob.Bucket
	publicBaseURL string
	logger        *slog.Logger
}

// StorageParams holds dependencies for ImageStorage, injected by Fx
type StorageParams struct {
	fx.In

	Lc     fx.Lifecycle
	Config *config.Config
	Logger *slog.Logger
}

// NewBlobImageStorage opens the configured bucket and returns it as a
// service.ImageStorage. The bucket is closed on application shutdown.
func NewBlobImageStorage(params StorageParams) (service.ImageStorage, error) {
	cfg := params.Config.Storage
	if cfg == nil || cfg.BucketURL == "" {
		return nil, errors.New("storage.bucketUrl is required")
	}

	openCtx, cancel := context.WithTimeout(context.Background(), lifecycle.DefaultTimeout)
	defer cancel()

	bucket, err := blob.OpenBucket(openCtx, cfg.BucketURL)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open bucket %s", cfg.BucketURL)
	}

	params.Lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			params.Logger.Info("Closing image storage bucket")

			return bucket.Close()
		},
	})

	params.Logger.Info("Image storage initialized",
		slog.String("bucket_url", cfg.BucketURL),
	)

	return &blobImageStorage{
		bucket:        bucket,
		publicBaseURL: strings.TrimRight(cfg.PublicBaseURL, "/"),
		logger:        params.Logger,
	}, nil
}

// Save writes the image content under the given key and returns its public URL.
func (s *blobImageStorage) Save(ctx context.Context, key, contentType string, content io.Reader) (string, error) {
	writer, err := s.bucket.NewWriter(ctx, key, &blob.WriterOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", errors.Wrapf(err, "failed to open writer for %s", key)
	}

	if _, err := io.Copy(writer, content); err != nil {
		// Abort the write so no partial object is left behind.
		writer.Close()

		return "", errors.Wrapf(err, "failed to write image %s", key)
	}

	if err := writer.Close(); err != nil {
		return "", errors.Wrapf(err, "failed to finalize image %s", key)
	}

	return s.publicBaseURL + "/" + key, nil
}

// Close releases the underlying bucket. Normally handled by the Fx lifecycle;
// exposed for callers that construct the storage directly.
func (s *blobImageStorage) Close() error {
	return s.bucket.Close()
}

// Module provides the storage FX module
//
//nolint:gochecknoglobals
var Module = fx.Options(
	fx.Provide(NewBlobImageStorage),
)
