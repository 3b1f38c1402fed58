// Package database provides SQLite connectivity for the Vía Hogar core.
//
// The SQLite database holds two tables created by the embedded schema
// migrations: documents, the key/value Document Store, and blobs, the
// binary Blob Store. Both stores live in internal/storage and take a *DB.
//
// Security Considerations:
//   - All queries use parameterised statements
//   - Database file permissions are set to 0600 (owner read/write only)
//
// Usage:
//
//	db, err := database.Open(ctx, database.Config{Path: cfg.Database.Path, WALMode: true})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer db.Close()
//
//	if err := db.Migrate(ctx); err != nil {
//	    log.Fatal(err)
//	}
//
// Schema migrations are additive and live in the top-level migrations
// directory as YYYYMMDD_HHMMSS_name.up.sql / .down.sql pairs.
package database
