package migration

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/viahogar/viahogar-core/internal/infrastructure/logging"
	"github.com/viahogar/viahogar-core/internal/property"
	"github.com/viahogar/viahogar-core/internal/storage"
)

// DefaultTargetVersion is the marker written once images live in the Blob Store.
const DefaultTargetVersion = "2.0-indexeddb"

// Options tunes the engine. Zero values fall back to the defaults.
type Options struct {
	TargetVersion string
	Prefix        string
	Threshold     int

	// AdvanceOnPersistFailure writes the marker even when saving the migrated
	// collection failed. The images already moved stay reachable by key only
	// from the in-memory collection, so the next save must succeed for them
	// to be kept.
	AdvanceOnPersistFailure bool
}

// Recorder receives a summary of each run. Implementations must not block.
type Recorder interface {
	RecordMigration(converted, failed int, skipped bool, elapsed time.Duration)
}

// Report summarises a run.
type Report struct {
	Skipped        bool
	Converted      int
	Failed         []FieldError
	Persisted      bool
	MarkerAdvanced bool
}

// Engine runs the inline image migration.
type Engine struct {
	docs     storage.DocumentStore
	blobs    storage.BlobStore
	logger   *logging.Logger
	recorder Recorder
	opts     Options
}

// New creates an Engine. recorder may be nil.
func New(docs storage.DocumentStore, blobs storage.BlobStore, logger *logging.Logger, recorder Recorder, opts Options) *Engine {
	if opts.TargetVersion == "" {
		opts.TargetVersion = DefaultTargetVersion
	}
	if opts.Prefix == "" {
		opts.Prefix = storage.DefaultInlinePrefix
	}
	if opts.Threshold <= 0 {
		opts.Threshold = storage.DefaultInlineThreshold
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Engine{
		docs:     docs,
		blobs:    blobs,
		logger:   logger.Component("migration"),
		recorder: recorder,
		opts:     opts,
	}
}

// TargetVersion returns the marker value the engine migrates to.
func (e *Engine) TargetVersion() string {
	return e.opts.TargetVersion
}

// Run migrates props and returns the resulting collection.
//
// The run proceeds as follows:
//  1. Reads the version marker; when it equals the target version the input
//     is returned unchanged and the report is marked skipped
//  2. Visits every string of every property, including unknown section fields,
//     and moves inline images over the threshold to the Blob Store
//  3. Saves the rewritten collection when at least one field was converted
//  4. Writes the marker, unless the save failed and AdvanceOnPersistFailure is off
//
// A field whose blob write fails keeps its inline value and is listed in
// Report.Failed; the traversal continues.
//
// Parameters:
//   - ctx: Cancelling it stops the run before the marker is touched
//   - props: Collection as loaded; the slice and its properties are never modified
//
// Returns:
//   - []property.Property: The migrated collection, or props when skipped or cancelled
//   - Report: Conversion counts, failed fields and what was persisted
//   - error: ErrMigrationPersist when the save failed (the returned collection
//     should still be kept and saved again), ErrMarker, or the context error
func (e *Engine) Run(ctx context.Context, props []property.Property) ([]property.Property, Report, error) {
	start := time.Now()
	var report Report

	version, err := e.docs.Get(ctx, storage.KeyDataVersion)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return props, report, fmt.Errorf("%w: reading: %w", ErrMarker, err)
	}

	if version == e.opts.TargetVersion {
		report.Skipped = true
		e.record(report, start)
		return props, report, nil
	}

	e.logger.Info("running data migration", "from", version, "to", e.opts.TargetVersion, "properties", len(props))

	out := property.MapCollection(props, func(path, value string) string {
		if ctx.Err() != nil || !storage.IsInlineImage(value, e.opts.Prefix, e.opts.Threshold) {
			return value
		}

		key, err := e.blobs.Put(ctx, []byte(value))
		if err != nil {
			report.Failed = append(report.Failed, FieldError{Path: path, Err: err})
			e.logger.Error("migration failed for field", "path", path, "bytes", len(value), "error", err)
			return value
		}

		e.logger.Debug("migrated field", "path", path, "key", key, "bytes", len(value))
		report.Converted++
		return key
	})

	if err := ctx.Err(); err != nil {
		return props, report, fmt.Errorf("migration interrupted: %w", err)
	}

	var persistErr error
	if report.Converted > 0 {
		persistErr = e.persist(ctx, out)
		report.Persisted = persistErr == nil
		if persistErr != nil {
			e.logger.Error("saving migrated properties failed", "converted", report.Converted, "error", persistErr)
		}
	}

	if persistErr == nil || e.opts.AdvanceOnPersistFailure {
		if err := e.docs.Set(ctx, storage.KeyDataVersion, e.opts.TargetVersion); err != nil {
			markerErr := fmt.Errorf("%w: writing: %w", ErrMarker, err)
			e.record(report, start)
			return out, report, errors.Join(persistErr, markerErr)
		}
		report.MarkerAdvanced = true
	}

	e.logger.Info("data migration complete",
		"converted", report.Converted,
		"failed", len(report.Failed),
		"persisted", report.Persisted,
		"marker_advanced", report.MarkerAdvanced,
	)
	e.record(report, start)
	return out, report, persistErr
}

func (e *Engine) persist(ctx context.Context, props []property.Property) error {
	encoded, err := property.EncodeCollection(props)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrMigrationPersist, err)
	}
	if err := e.docs.Set(ctx, storage.KeyProperties, encoded); err != nil {
		return fmt.Errorf("%w: %w", ErrMigrationPersist, err)
	}
	return nil
}

func (e *Engine) record(r Report, start time.Time) {
	if e.recorder != nil {
		e.recorder.RecordMigration(r.Converted, len(r.Failed), r.Skipped, time.Since(start))
	}
}
