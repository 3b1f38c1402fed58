package storage

import (
	"context"

	"github.com/google/uuid"
)

// Persisted document keys. These names are stable across versions.
const (
	KeyProperties  = "propertiesData"
	KeySubmissions = "contactSubmissions"
	KeySiteName    = "siteName"
	KeyDataVersion = "dataVersion"
	KeyCustomLogo  = "customLogo"
)

// DefaultQuotaBytes matches the 5 MiB per-origin budget of browser storage.
const DefaultQuotaBytes int64 = 5 << 20

// BlobKeyPrefix starts every generated blob key.
const BlobKeyPrefix = "img-"

// DocumentStore is a string key/value store with a size quota.
type DocumentStore interface {
	// Get returns the value stored under key, or ErrNotFound.
	Get(ctx context.Context, key string) (string, error)

	// Set stores value under key, replacing any previous value.
	// Returns ErrQuotaExceeded, with the store unchanged, when the new total
	// size of keys and values would exceed the quota.
	Set(ctx context.Context, key, value string) error

	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// Usage returns the current total size of keys and values in bytes.
	Usage(ctx context.Context) (int64, error)
}

// BlobStore holds binary payloads under opaque keys.
type BlobStore interface {
	// Put stores data under a newly generated key and returns the key.
	// It never overwrites an existing blob.
	Put(ctx context.Context, data []byte) (string, error)

	// Get returns the payload stored under key, or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores data under a caller-chosen key, overwriting any previous payload.
	Set(ctx context.Context, key string, data []byte) error

	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
}

// NewBlobKey generates a fresh blob key.
func NewBlobKey() string {
	return BlobKeyPrefix + uuid.NewString()
}

// entrySize is the quota cost of one document.
func entrySize(key, value string) int64 {
	return int64(len(key) + len(value))
}
