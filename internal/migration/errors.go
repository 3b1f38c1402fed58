package migration

import (
	"errors"
	"fmt"
)

var (
	// ErrMigrationPersist is returned when the migrated collection could not be saved.
	ErrMigrationPersist = errors.New("migration: saving migrated properties failed")

	// ErrMarker is returned when the data version marker cannot be read or written.
	ErrMarker = errors.New("migration: data version marker")
)

// FieldError records a single field whose image could not be moved.
type FieldError struct {
	Path string
	Err  error
}

func (e FieldError) Error() string {
	return fmt.Sprintf("migrating %s: %v", e.Path, e.Err)
}

func (e FieldError) Unwrap() error {
	return e.Err
}
