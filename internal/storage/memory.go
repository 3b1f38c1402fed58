package storage

import (
	"context"
	"fmt"
	"sync"
)

// MemoryDocuments is an in-process DocumentStore.
type MemoryDocuments struct {
	mu    sync.RWMutex
	data  map[string]string
	quota int64
	used  int64
}

// NewMemoryDocuments creates an empty store with the given quota in bytes.
func NewMemoryDocuments(quota int64) *MemoryDocuments {
	return &MemoryDocuments{data: make(map[string]string), quota: quota}
}

// Get returns the value stored under key.
func (m *MemoryDocuments) Get(_ context.Context, key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	v, ok := m.data[key]
	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}

// Set stores value under key within the quota.
func (m *MemoryDocuments) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	next := m.used + entrySize(key, value)
	if old, ok := m.data[key]; ok {
		next -= entrySize(key, old)
	}
	if next > m.quota {
		return fmt.Errorf("%w: writing %q needs %d of %d bytes", ErrQuotaExceeded, key, next, m.quota)
	}

	m.data[key] = value
	m.used = next
	return nil
}

// Delete removes key.
func (m *MemoryDocuments) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if old, ok := m.data[key]; ok {
		m.used -= entrySize(key, old)
		delete(m.data, key)
	}
	return nil
}

// Usage returns the bytes currently held.
func (m *MemoryDocuments) Usage(_ context.Context) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.used, nil
}

// MemoryBlobs is an in-process BlobStore.
type MemoryBlobs struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewMemoryBlobs creates an empty blob store.
func NewMemoryBlobs() *MemoryBlobs {
	return &MemoryBlobs{data: make(map[string][]byte)}
}

// Put stores a copy of data under a new key.
func (m *MemoryBlobs) Put(_ context.Context, data []byte) (string, error) {
	key := NewBlobKey()

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.data[key]; ok {
		return "", fmt.Errorf("%w: %s", ErrBlobExists, key)
	}
	m.data[key] = append([]byte(nil), data...)
	return key, nil
}

// Get returns a copy of the payload under key.
func (m *MemoryBlobs) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	v, ok := m.data[key]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), v...), nil
}

// Set stores a copy of data under key.
func (m *MemoryBlobs) Set(_ context.Context, key string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = append([]byte(nil), data...)
	return nil
}

// Delete removes key.
func (m *MemoryBlobs) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

// Len returns the number of stored blobs.
func (m *MemoryBlobs) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.data)
}
