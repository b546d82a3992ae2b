// Package storage defines the interface for object storage operations.
// Swap implementations by changing the concrete type injected at startup —
// the MinIO implementation works with any S3-compatible provider (MinIO, AWS S3, Ceph).
package storage

import (
	"context"
	"errors"
	"io"
)

// ErrStorage wraps every failure reported by an object storage backend.
var ErrStorage = errors.New("object storage failure")

// ErrBucketNotFound is returned by Download and DeleteMany when the bucket does not exist.
var ErrBucketNotFound = errors.New("bucket not found")

// ErrObjectNotFound is returned by Download when no object exists under the name.
var ErrObjectNotFound = errors.New("object not found")

// Storage is the interface for uploading, downloading and removing image objects.
type Storage interface {
	// EnsureBucket creates the bucket if it does not exist yet.
	EnsureBucket(ctx context.Context, bucket string) error
	// Upload stores the payload under a freshly built name and returns that name.
	Upload(ctx context.Context, reader io.Reader, size int64, extension, bucket string) (string, error)
	// Download reads the whole object into memory.
	Download(ctx context.Context, objectName, bucket string) ([]byte, error)
	// DeleteOne removes a single object.
	DeleteOne(ctx context.Context, objectName, bucket string) error
	// DeleteMany removes every named object independently. A failure on one name
	// does not stop the others; all failures are joined in the returned error.
	DeleteMany(ctx context.Context, objectNames []string, bucket string) error
}
