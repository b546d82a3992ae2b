package storage

import (
	"bytes"
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"sync"
)

// MemoryStorage keeps objects in process memory. It is meant for tests and
// local runs without an object store.
type MemoryStorage struct {
	mu      sync.RWMutex
	buckets map[string]map[string][]byte
}

// NewMemoryStorage returns an empty MemoryStorage.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{buckets: make(map[string]map[string][]byte)}
}

func (m *MemoryStorage) EnsureBucket(ctx context.Context, bucket string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.buckets[bucket]; !ok {
		m.buckets[bucket] = make(map[string][]byte)
	}
	return nil
}

func (m *MemoryStorage) Upload(ctx context.Context, reader io.Reader, size int64, extension, bucket string) (string, error) {
	if err := m.EnsureBucket(ctx, bucket); err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if size >= 0 {
		buf.Grow(int(size))
	}
	if _, err := io.Copy(&buf, reader); err != nil {
		return "", fmt.Errorf("%w: read payload: %w", ErrStorage, err)
	}

	name, err := BuildFilename(extension, sha256.New)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrStorage, err)
	}

	m.mu.Lock()
	m.buckets[bucket][name] = buf.Bytes()
	m.mu.Unlock()
	return name, nil
}

func (m *MemoryStorage) Download(ctx context.Context, objectName, bucket string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	objects, ok := m.buckets[bucket]
	if !ok {
		return nil, fmt.Errorf("%w: bucket %q: %w", ErrStorage, bucket, ErrBucketNotFound)
	}
	data, ok := objects[objectName]
	if !ok {
		return nil, fmt.Errorf("%w: object %q: %w", ErrStorage, objectName, ErrObjectNotFound)
	}
	return bytes.Clone(data), nil
}

// DeleteOne removes objectName. Missing objects are ignored, like S3 does.
func (m *MemoryStorage) DeleteOne(ctx context.Context, objectName, bucket string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if objects, ok := m.buckets[bucket]; ok {
		delete(objects, objectName)
	}
	return nil
}

func (m *MemoryStorage) DeleteMany(ctx context.Context, objectNames []string, bucket string) error {
	if len(objectNames) == 0 {
		return nil
	}
	m.mu.RLock()
	_, ok := m.buckets[bucket]
	m.mu.RUnlock()
	if !ok {
		return fmt.Errorf("%w: bucket %q: %w", ErrStorage, bucket, ErrBucketNotFound)
	}

	var errs []error
	for _, name := range objectNames {
		if err := m.DeleteOne(ctx, name, bucket); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Has reports whether objectName is stored in bucket.
func (m *MemoryStorage) Has(objectName, bucket string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.buckets[bucket][objectName]
	return ok
}

// Len returns the number of objects stored in bucket.
func (m *MemoryStorage) Len(bucket string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.buckets[bucket])
}
