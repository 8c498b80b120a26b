package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/storefront/backend/internal/application/media"
	"github.com/storefront/backend/internal/domain/shared"
	infraconfig "github.com/storefront/backend/internal/infrastructure/config"
)

var _ media.ObjectStorage = (*MemoryObjectStorage)(nil)

// StoredObject is an object held by MemoryObjectStorage.
type StoredObject struct {
	ContentType string
	Data        []byte
}

// MemoryObjectStorage keeps uploads in process memory for development and
// tests. The HTTP router serves them under the public base URL.
type MemoryObjectStorage struct {
	mu            sync.RWMutex
	publicBaseURL string
	objects       map[string]StoredObject
}

// NewMemoryObjectStorage creates an empty in-memory store.
func NewMemoryObjectStorage(publicBaseURL string) *MemoryObjectStorage {
	return &MemoryObjectStorage{
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
		objects:       make(map[string]StoredObject),
	}
}

// Name returns "memory".
func (m *MemoryObjectStorage) Name() string {
	return infraconfig.StorageDriverMemory
}

// Upload reads the body fully and stores it.
func (m *MemoryObjectStorage) Upload(ctx context.Context, obj media.Object) (string, error) {
	if obj.Bucket == "" || obj.Key == "" {
		return "", errors.New("bucket and key are required")
	}
	if obj.Body == nil {
		return "", errors.New("body is required")
	}
	data, err := io.ReadAll(obj.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read upload: %w", err)
	}

	m.mu.Lock()
	m.objects[obj.Bucket+"/"+obj.Key] = StoredObject{ContentType: obj.ContentType, Data: data}
	m.mu.Unlock()

	return publicURL(m.publicBaseURL, obj.Bucket, obj.Key), nil
}

// Delete removes an object by public URL.
func (m *MemoryObjectStorage) Delete(ctx context.Context, rawURL string) error {
	bucket, key, err := splitPublicURL(m.publicBaseURL, rawURL)
	if err != nil {
		return err
	}
	m.mu.Lock()
	delete(m.objects, bucket+"/"+key)
	m.mu.Unlock()
	return nil
}

// Get returns a copy of a stored object.
func (m *MemoryObjectStorage) Get(bucket, key string) (StoredObject, error) {
	m.mu.RLock()
	obj, ok := m.objects[bucket+"/"+key]
	m.mu.RUnlock()
	if !ok {
		return StoredObject{}, shared.ErrNotFound
	}
	return StoredObject{ContentType: obj.ContentType, Data: bytes.Clone(obj.Data)}, nil
}

// Len returns the number of stored objects.
func (m *MemoryObjectStorage) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.objects)
}
