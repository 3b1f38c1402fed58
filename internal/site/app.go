package site

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/viahogar/viahogar-core/internal/contact"
	"github.com/viahogar/viahogar-core/internal/element"
	"github.com/viahogar/viahogar-core/internal/geo"
	"github.com/viahogar/viahogar-core/internal/infrastructure/logging"
	"github.com/viahogar/viahogar-core/internal/migration"
	"github.com/viahogar/viahogar-core/internal/property"
	"github.com/viahogar/viahogar-core/internal/storage"
)

// Defaults applied by New.
const (
	DefaultSiteName      = "Vía Hogar"
	DefaultAdminUsername = "Admin"
	DefaultAdminPassword = "Aguilar1"
)

// Property change kinds reported to the Notifier.
const (
	ChangeCreated = "created"
	ChangeUpdated = "updated"
	ChangeDeleted = "deleted"
)

// Migrator upgrades a freshly loaded collection. *migration.Engine implements it.
type Migrator interface {
	Run(ctx context.Context, props []property.Property) ([]property.Property, migration.Report, error)
}

// Notifier is told about events other systems may care about.
// Errors are logged and never fail the operation.
type Notifier interface {
	SubmissionReceived(ctx context.Context, sub contact.Submission) error
	PropertyChanged(ctx context.Context, propertyID, change string) error
}

// Recorder receives the outcome of every Document Store write.
// Implementations must not block.
type Recorder interface {
	RecordSave(key string, bytes int, err error)
}

// Deps are the collaborators of an App. Documents and Blobs are required.
type Deps struct {
	Documents storage.DocumentStore
	Blobs     storage.BlobStore
	Migrator  Migrator
	Geocoder  geo.Geocoder
	Places    geo.PlacesGenerator
	Notifier  Notifier
	Recorder  Recorder
	Logger    *logging.Logger

	AdminUsername   string
	AdminPassword   string
	DefaultSiteName string

	// InlinePrefix and InlineThreshold decide which uploaded images are
	// moved to the Blob Store.
	InlinePrefix    string
	InlineThreshold int

	// Now defaults to time.Now.
	Now func() time.Time
}

// App is the application controller.
type App struct {
	mu sync.Mutex

	docs     storage.DocumentStore
	blobs    storage.BlobStore
	migrator Migrator
	geocoder geo.Geocoder
	places   geo.PlacesGenerator
	notifier Notifier
	recorder Recorder
	logger   *logging.Logger

	adminUser       string
	adminPass       string
	defaultSiteName string
	inlinePrefix    string
	inlineThreshold int
	now             func() time.Time
	newSuffix       func() string

	loaded           bool
	properties       []property.Property
	submissions      []contact.Submission
	siteName         string
	logo             string
	admin            bool
	selectedProperty string
	selection        *element.Ref
	pendingDelete    string
}

// New creates an App. Call Load before serving requests.
func New(deps Deps) *App {
	a := &App{
		docs:            deps.Documents,
		blobs:           deps.Blobs,
		migrator:        deps.Migrator,
		geocoder:        deps.Geocoder,
		places:          deps.Places,
		notifier:        deps.Notifier,
		recorder:        deps.Recorder,
		logger:          deps.Logger,
		adminUser:       deps.AdminUsername,
		adminPass:       deps.AdminPassword,
		defaultSiteName: deps.DefaultSiteName,
		inlinePrefix:    deps.InlinePrefix,
		inlineThreshold: deps.InlineThreshold,
		now:             deps.Now,
	}
	if a.logger == nil {
		a.logger = logging.Default()
	}
	a.logger = a.logger.Component("site")
	a.newSuffix = func() string { return uuid.NewString()[:8] }
	if a.places == nil {
		a.places = geo.Disabled{}
	}
	if a.adminUser == "" {
		a.adminUser = DefaultAdminUsername
	}
	if a.adminPass == "" {
		a.adminPass = DefaultAdminPassword
	}
	if a.defaultSiteName == "" {
		a.defaultSiteName = DefaultSiteName
	}
	if a.inlinePrefix == "" {
		a.inlinePrefix = storage.DefaultInlinePrefix
	}
	if a.inlineThreshold <= 0 {
		a.inlineThreshold = storage.DefaultInlineThreshold
	}
	if a.now == nil {
		a.now = time.Now
	}
	a.siteName = a.defaultSiteName
	return a
}

// Load reads the persisted state and runs the data migration.
//
// It performs the following steps:
//  1. Reads submissions; missing or unreadable data falls back to an empty list
//  2. Reads the site name (default when absent) and the custom logo
//  3. Reads the property collection; a missing collection falls back to the seed
//  4. Runs the migrator over the collection and keeps its result
//  5. Marks the App loaded
//
// Parameters:
//   - ctx: Context for store reads and the migration
//
// Returns:
//   - error: nil on success; a decode error for stored properties that cannot be
//     read (the App stays unloaded); the context error if ctx was cancelled
//     during migration (unloaded); or the migrator's error, typically
//     migration.ErrMigrationPersist, with the state loaded so it can be reported
func (a *App) Load(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.submissions = a.loadSubmissions(ctx)

	a.siteName = a.defaultSiteName
	if name, err := a.docs.Get(ctx, storage.KeySiteName); err == nil && name != "" {
		a.siteName = name
	} else if err != nil && !errors.Is(err, storage.ErrNotFound) {
		a.logger.Warn("reading site name failed", "error", err)
	}

	a.logo = ""
	if logo, err := a.docs.Get(ctx, storage.KeyCustomLogo); err == nil {
		a.logo = logo
	} else if !errors.Is(err, storage.ErrNotFound) {
		a.logger.Warn("reading custom logo failed", "error", err)
	}

	props, err := a.loadProperties(ctx)
	if err != nil {
		return err
	}

	var migrateErr error
	if a.migrator != nil {
		props, _, migrateErr = a.migrator.Run(ctx, props)
		if ctxErr := ctx.Err(); ctxErr != nil {
			return fmt.Errorf("loading state: %w", ctxErr)
		}
	}

	a.properties = props
	a.loaded = true
	a.logger.Info("state loaded",
		"properties", len(a.properties),
		"submissions", len(a.submissions),
		"site_name", a.siteName,
	)
	return migrateErr
}

func (a *App) loadSubmissions(ctx context.Context) []contact.Submission {
	raw, err := a.docs.Get(ctx, storage.KeySubmissions)
	if errors.Is(err, storage.ErrNotFound) {
		return []contact.Submission{}
	}
	if err != nil {
		a.logger.Warn("reading contact submissions failed", "error", err)
		return []contact.Submission{}
	}
	subs, err := contact.DecodeList([]byte(raw))
	if err != nil {
		a.logger.Warn("stored contact submissions are corrupt, starting empty", "error", err)
		return []contact.Submission{}
	}
	return subs
}

func (a *App) loadProperties(ctx context.Context) ([]property.Property, error) {
	raw, err := a.docs.Get(ctx, storage.KeyProperties)
	if errors.Is(err, storage.ErrNotFound) {
		a.logger.Info("no stored properties, using seed data")
		return property.SeedProperties(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading properties: %w", err)
	}
	props, err := property.DecodeCollection([]byte(raw))
	if err != nil {
		return nil, fmt.Errorf("decoding stored properties: %w", err)
	}
	return props, nil
}

// Loaded reports whether Load has completed.
func (a *App) Loaded() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.loaded
}

// Login enters admin mode when user and pass match the configured pair.
func (a *App) Login(user, pass string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if user != a.adminUser || pass != a.adminPass {
		a.logger.Warn("admin login rejected", "user", user)
		return ErrInvalidCredentials
	}
	a.admin = true
	a.logger.Info("admin mode entered")
	return nil
}

// Logout leaves admin mode and drops the editor state.
func (a *App) Logout() {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.admin = false
	a.selectedProperty = ""
	a.selection = nil
	a.pendingDelete = ""
}

// IsAdmin reports whether admin mode is active.
func (a *App) IsAdmin() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.admin
}

// requireEditor must be called with mu held.
func (a *App) requireEditor() error {
	if !a.loaded {
		return ErrNotLoaded
	}
	if !a.admin {
		return ErrAdminRequired
	}
	return nil
}

// propertyIndex must be called with mu held.
func (a *App) propertyIndex(id string) int {
	for i, p := range a.properties {
		if p.ID == id {
			return i
		}
	}
	return -1
}

// save writes one document and classifies the failure. Must be called with mu held.
func (a *App) save(ctx context.Context, key, value string) error {
	err := a.docs.Set(ctx, key, value)
	if a.recorder != nil {
		a.recorder.RecordSave(key, len(value), err)
	}
	switch {
	case err == nil:
		return nil
	case errors.Is(err, storage.ErrQuotaExceeded):
		a.logger.Warn("storage quota exceeded, change kept in memory only", "key", key, "bytes", len(value))
		return fmt.Errorf("%w: %w", ErrStorageQuotaExceeded, err)
	default:
		a.logger.Error("saving document failed", "key", key, "error", err)
		return fmt.Errorf("%w: %s: %w", ErrSaveFailed, key, err)
	}
}

// saveProperties must be called with mu held.
func (a *App) saveProperties(ctx context.Context) error {
	encoded, err := property.EncodeCollection(a.properties)
	if err != nil {
		return fmt.Errorf("%w: encoding properties: %w", ErrSaveFailed, err)
	}
	return a.save(ctx, storage.KeyProperties, encoded)
}

// saveSubmissions must be called with mu held.
func (a *App) saveSubmissions(ctx context.Context) error {
	encoded, err := contact.EncodeList(a.submissions)
	if err != nil {
		return fmt.Errorf("%w: encoding submissions: %w", ErrSaveFailed, err)
	}
	return a.save(ctx, storage.KeySubmissions, encoded)
}

func (a *App) notifyProperty(ctx context.Context, id, change string) {
	if a.notifier == nil {
		return
	}
	if err := a.notifier.PropertyChanged(ctx, id, change); err != nil {
		a.logger.Warn("property event not published", "property_id", id, "change", change, "error", err)
	}
}

func (a *App) notifySubmission(ctx context.Context, sub contact.Submission) {
	if a.notifier == nil {
		return
	}
	if err := a.notifier.SubmissionReceived(ctx, sub); err != nil {
		a.logger.Warn("submission event not published", "submission_id", sub.ID, "error", err)
	}
}
