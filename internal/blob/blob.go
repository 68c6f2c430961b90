// Package blob stores product media binaries in S3-compatible object
// storage, keyed by generated object names.
package blob

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	coreconfig "bazarbot/core/config"
	"bazarbot/core/logger"
)

// Store is the upload/delete contract for media binaries.
type Store interface {
	// Put stores the stream and returns the generated object key.
	Put(ctx context.Context, prefix string, r io.Reader, size int64, filename, contentType string) (string, error)
	// RemovePrefix deletes every object under the given key prefix.
	RemovePrefix(ctx context.Context, prefix string) error
	// URL returns a stable address for a stored object key.
	URL(key string) string
}

// MinioStore implements Store over a MinIO/S3 bucket.
type MinioStore struct {
	mc       *minio.Client
	bucket   string
	endpoint string
	secure   bool
}

// NewMinio creates a media store client for the configured bucket.
func NewMinio(cfg coreconfig.MediaConfig) (*MinioStore, error) {
	mc, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("blob: minio client: %w", err)
	}

	bucket := cfg.Bucket
	if bucket == "" {
		bucket = "bazar-media"
	}
	return &MinioStore{mc: mc, bucket: bucket, endpoint: cfg.Endpoint, secure: cfg.UseSSL}, nil
}

var _ Store = (*MinioStore)(nil)

// Init creates the bucket if it does not exist yet.
func (s *MinioStore) Init(ctx context.Context) error {
	exists, err := s.mc.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("blob: check bucket %s: %w", s.bucket, err)
	}
	if !exists {
		if err := s.mc.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("blob: create bucket %s: %w", s.bucket, err)
		}
		logger.Info(ctx, "blob", "bucket.created", slog.String("bucket", s.bucket))
	}
	return nil
}

// Put uploads the stream under a generated key and returns that key.
func (s *MinioStore) Put(ctx context.Context, prefix string, r io.Reader, size int64, filename, contentType string) (string, error) {
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	key := path.Join(prefix, uuid.NewString()+path.Ext(filename))

	_, err := s.mc.PutObject(ctx, s.bucket, key, r, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("blob: upload %s: %w", key, err)
	}

	logger.Debug(ctx, "blob", "object.stored",
		slog.String("bucket", s.bucket),
		slog.String("key", key),
		slog.Int64("size", size),
	)
	return key, nil
}

// RemovePrefix deletes all objects stored under the given prefix.
func (s *MinioStore) RemovePrefix(ctx context.Context, prefix string) error {
	opts := minio.ListObjectsOptions{Prefix: prefix, Recursive: true}
	for obj := range s.mc.ListObjects(ctx, s.bucket, opts) {
		if obj.Err != nil {
			return fmt.Errorf("blob: list %s: %w", prefix, obj.Err)
		}
		if err := s.mc.RemoveObject(ctx, s.bucket, obj.Key, minio.RemoveObjectOptions{}); err != nil {
			return fmt.Errorf("blob: remove %s: %w", obj.Key, err)
		}
	}
	return nil
}

// URL returns the public address of an object key.
func (s *MinioStore) URL(key string) string {
	scheme := "http"
	if s.secure {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s/%s/%s", scheme, s.endpoint, s.bucket, key)
}
