package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/mattn/go-sqlite3"
)

// SQLiteDocuments implements DocumentStore on the documents table.
type SQLiteDocuments struct {
	db    *sql.DB
	quota int64
}

// NewSQLiteDocuments creates a document store on an open, migrated database.
func NewSQLiteDocuments(db *sql.DB, quota int64) *SQLiteDocuments {
	return &SQLiteDocuments{db: db, quota: quota}
}

// Get returns the value stored under key.
func (s *SQLiteDocuments) Get(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx, "SELECT value FROM documents WHERE key = ?", key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("querying document %q: %w", key, err)
	}
	return value, nil
}

// Set stores value under key, replacing any previous value.
//
// The write is checked against the quota inside one transaction:
//  1. Sums the byte size of every other entry
//  2. Adds the size of key and the new value (a replaced value does not count)
//  3. Rejects the write with ErrQuotaExceeded when the total passes the quota
//  4. Upserts the row and commits
//
// A rejected or failed write leaves the table untouched.
//
// Parameters:
//   - ctx: Context for cancellation
//   - key: Document key, one of the Key* constants in this package
//   - value: Serialised document
//
// Returns:
//   - error: ErrQuotaExceeded (wrapped) when the store is full, or the database error
func (s *SQLiteDocuments) Set(ctx context.Context, key, value string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // Rollback is no-op after commit

	var others int64
	if err := tx.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(length(CAST(key AS BLOB)) + length(CAST(value AS BLOB))), 0)
		FROM documents
		WHERE key <> ?`, key,
	).Scan(&others); err != nil {
		return fmt.Errorf("computing document usage: %w", err)
	}

	next := others + entrySize(key, value)
	if next > s.quota {
		return fmt.Errorf("%w: writing %q needs %d of %d bytes", ErrQuotaExceeded, key, next, s.quota)
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO documents (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, time.Now().UTC().Format(time.RFC3339),
	); err != nil {
		return fmt.Errorf("writing document %q: %w", key, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing document %q: %w", key, err)
	}
	return nil
}

// Delete removes key.
func (s *SQLiteDocuments) Delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM documents WHERE key = ?", key); err != nil {
		return fmt.Errorf("deleting document %q: %w", key, err)
	}
	return nil
}

// Usage returns the total bytes of all keys and values.
func (s *SQLiteDocuments) Usage(ctx context.Context) (int64, error) {
	var used int64
	if err := s.db.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(length(CAST(key AS BLOB)) + length(CAST(value AS BLOB))), 0)
		FROM documents`,
	).Scan(&used); err != nil {
		return 0, fmt.Errorf("computing document usage: %w", err)
	}
	return used, nil
}

// SQLiteBlobs implements BlobStore on the blobs table.
type SQLiteBlobs struct {
	db *sql.DB
}

// NewSQLiteBlobs creates a blob store on an open, migrated database.
func NewSQLiteBlobs(db *sql.DB) *SQLiteBlobs {
	return &SQLiteBlobs{db: db}
}

// Put inserts data under a new key. A key collision is reported as
// ErrBlobExists rather than replacing the stored payload.
func (s *SQLiteBlobs) Put(ctx context.Context, data []byte) (string, error) {
	key := NewBlobKey()
	if data == nil {
		data = []byte{}
	}

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO blobs (key, data, size, created_at) VALUES (?, ?, ?, ?)",
		key, data, len(data), time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.Code == sqlite3.ErrConstraint {
			return "", fmt.Errorf("%w: %s", ErrBlobExists, key)
		}
		return "", fmt.Errorf("inserting blob: %w", err)
	}
	return key, nil
}

// Get returns the payload stored under key.
func (s *SQLiteBlobs) Get(ctx context.Context, key string) ([]byte, error) {
	var data []byte
	err := s.db.QueryRowContext(ctx, "SELECT data FROM blobs WHERE key = ?", key).Scan(&data)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("querying blob %q: %w", key, err)
	}
	return data, nil
}

// Set stores data under key, replacing any previous payload.
func (s *SQLiteBlobs) Set(ctx context.Context, key string, data []byte) error {
	if data == nil {
		data = []byte{}
	}
	if _, err := s.db.ExecContext(ctx, `
		INSERT INTO blobs (key, data, size, created_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET data = excluded.data, size = excluded.size`,
		key, data, len(data), time.Now().UTC().Format(time.RFC3339),
	); err != nil {
		return fmt.Errorf("writing blob %q: %w", key, err)
	}
	return nil
}

// Delete removes key.
func (s *SQLiteBlobs) Delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM blobs WHERE key = ?", key); err != nil {
		return fmt.Errorf("deleting blob %q: %w", key, err)
	}
	return nil
}
