package storage

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinioStorage implements Storage using a MinIO (or any S3-compatible) backend.
type MinioStorage struct {
	client *minio.Client
	logger *slog.Logger
}

// NewMinioStorage creates a MinIO client. Buckets are created lazily by EnsureBucket.
func NewMinioStorage(endpoint, accessKey, secretKey string, useSSL bool, logger *slog.Logger) (*MinioStorage, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &MinioStorage{client: client, logger: logger}, nil
}

// EnsureBucket creates bucket when it is missing.
func (s *MinioStorage) EnsureBucket(ctx context.Context, bucket string) error {
	exists, err := s.client.BucketExists(ctx, bucket)
	if err != nil {
		return fmt.Errorf("%w: check bucket %q: %w", ErrStorage, bucket, err)
	}
	if exists {
		return nil
	}

	if err := s.client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
		// Another instance may have created it between the check and the call.
		if resp := minio.ToErrorResponse(err); resp.Code == "BucketAlreadyOwnedByYou" {
			return nil
		}
		return fmt.Errorf("%w: create bucket %q: %w", ErrStorage, bucket, err)
	}
	s.logger.Info("storage: created bucket", "bucket", bucket)
	return nil
}

// Upload streams reader to MinIO under a generated name. size must be the exact
// byte count (pass -1 only if the size is genuinely unknown — MinIO will buffer it).
func (s *MinioStorage) Upload(ctx context.Context, reader io.Reader, size int64, extension, bucket string) (string, error) {
	if err := s.EnsureBucket(ctx, bucket); err != nil {
		return "", err
	}

	name, err := BuildFilename(extension, sha256.New)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrStorage, err)
	}

	_, err = s.client.PutObject(ctx, bucket, name, reader, size, minio.PutObjectOptions{
		ContentType: mime.TypeByExtension("." + extension),
	})
	if err != nil {
		return "", fmt.Errorf("%w: put object %q: %w", ErrStorage, name, err)
	}
	return name, nil
}

// Download returns the full content of objectName.
func (s *MinioStorage) Download(ctx context.Context, objectName, bucket string) ([]byte, error) {
	if err := s.requireBucket(ctx, bucket); err != nil {
		return nil, err
	}

	obj, err := s.client.GetObject(ctx, bucket, objectName, minio.GetObjectOptions{})
	if err != nil {
		return nil, s.objectError("get object", objectName, err)
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, s.objectError("read object", objectName, err)
	}
	return data, nil
}

// DeleteOne removes objectName from bucket.
func (s *MinioStorage) DeleteOne(ctx context.Context, objectName, bucket string) error {
	if err := s.client.RemoveObject(ctx, bucket, objectName, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("%w: remove object %q: %w", ErrStorage, objectName, err)
	}
	return nil
}

// DeleteMany removes each object independently and joins the failures.
func (s *MinioStorage) DeleteMany(ctx context.Context, objectNames []string, bucket string) error {
	if len(objectNames) == 0 {
		return nil
	}
	if err := s.requireBucket(ctx, bucket); err != nil {
		return err
	}

	var errs []error
	for _, name := range objectNames {
		s.logger.Debug("storage: removing object", "bucket", bucket, "object", name)
		if err := s.DeleteOne(ctx, name, bucket); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (s *MinioStorage) requireBucket(ctx context.Context, bucket string) error {
	exists, err := s.client.BucketExists(ctx, bucket)
	if err != nil {
		return fmt.Errorf("%w: check bucket %q: %w", ErrStorage, bucket, err)
	}
	if !exists {
		return fmt.Errorf("%w: bucket %q: %w", ErrStorage, bucket, ErrBucketNotFound)
	}
	return nil
}

func (s *MinioStorage) objectError(op, objectName string, err error) error {
	if minio.ToErrorResponse(err).Code == "NoSuchKey" {
		return fmt.Errorf("%w: %s %q: %w", ErrStorage, op, objectName, ErrObjectNotFound)
	}
	return fmt.Errorf("%w: %s %q: %w", ErrStorage, op, objectName, err)
}
