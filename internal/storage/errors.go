package storage

import "errors"

// Storage errors. Check with errors.Is.
var (
	// ErrNotFound is returned when a key has no stored value.
	ErrNotFound = errors.New("storage: not found")

	// ErrQuotaExceeded is returned when a document write would exceed the store quota.
	ErrQuotaExceeded = errors.New("storage: quota exceeded")

	// ErrBlobExists is returned when Put generates a key that is already taken.
	ErrBlobExists = errors.New("storage: blob already exists")

	// ErrInvalidDataURL is returned when a string is not a decodable data URL.
	ErrInvalidDataURL = errors.New("storage: invalid data url")
)
