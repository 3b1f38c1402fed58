// Vía Hogar Core - real estate listing CMS
//
// This is the main entry point for the Vía Hogar core service. It loads the
// configuration, opens the Document and Blob stores, runs the inline image
// migration and serves the editing and public API until a shutdown signal
// arrives.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/viahogar/viahogar-core/migrations"

	"github.com/viahogar/viahogar-core/internal/api"
	"github.com/viahogar/viahogar-core/internal/geo"
	"github.com/viahogar/viahogar-core/internal/infrastructure/config"
	"github.com/viahogar/viahogar-core/internal/infrastructure/database"
	"github.com/viahogar/viahogar-core/internal/infrastructure/influxdb"
	"github.com/viahogar/viahogar-core/internal/infrastructure/logging"
	"github.com/viahogar/viahogar-core/internal/infrastructure/mqtt"
	"github.com/viahogar/viahogar-core/internal/migration"
	"github.com/viahogar/viahogar-core/internal/site"
	"github.com/viahogar/viahogar-core/internal/storage"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

const (
	defaultConfigPath = "configs/config.yaml"

	usageReportInterval = time.Minute
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run is the actual application logic, separated from main for testability.
func run(ctx context.Context) error {
	log := logging.Default()
	log.Info("starting Vía Hogar core",
		"version", version,
		"commit", commit,
		"build_date", date,
	)

	configPath := getConfigPath()
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	log.Info("configuration loaded", "path", configPath)

	log = logging.New(cfg.Logging, version)
	log.Info("logger initialised",
		"level", cfg.Logging.Level,
		"format", cfg.Logging.Format,
	)

	health := make(map[string]api.HealthChecker)

	// Open database (only when a store uses it)
	var db *database.DB
	if cfg.Documents.Backend == config.BackendSQLite || cfg.Blobs.Backend == config.BackendSQLite {
		db, err = database.Open(ctx, database.Config{
			Path:        cfg.Database.Path,
			WALMode:     cfg.Database.WALMode,
			BusyTimeout: cfg.Database.BusyTimeout,
		})
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}
		defer func() {
			log.Info("closing database")
			if closeErr := db.Close(); closeErr != nil {
				log.Error("error closing database", "error", closeErr)
			}
		}()
		log.Info("database connected", "path", cfg.Database.Path)

		if migrateErr := db.Migrate(ctx); migrateErr != nil {
			return fmt.Errorf("running migrations: %w", migrateErr)
		}
		log.Info("database migrations complete")
		health["database"] = db
	}

	docs, closeDocs, err := openDocuments(ctx, cfg, db, health)
	if err != nil {
		return fmt.Errorf("opening document store: %w", err)
	}
	defer closeDocs()
	log.Info("document store ready", "backend", cfg.Documents.Backend, "quota_bytes", cfg.Documents.QuotaBytes)

	blobs, err := openBlobs(ctx, cfg, db)
	if err != nil {
		return fmt.Errorf("opening blob store: %w", err)
	}
	log.Info("blob store ready", "backend", cfg.Blobs.Backend)

	// Connect to MQTT broker (optional)
	var notifier site.Notifier
	if cfg.MQTT.Enabled {
		mqttClient, connErr := mqtt.Connect(cfg.MQTT)
		if connErr != nil {
			return fmt.Errorf("connecting to MQTT: %w", connErr)
		}
		defer func() {
			log.Info("disconnecting from MQTT")
			if closeErr := mqttClient.Close(); closeErr != nil {
				log.Error("error closing MQTT", "error", closeErr)
			}
		}()
		mqttClient.SetOnDisconnect(func(err error) {
			log.Warn("MQTT disconnected", "error", err)
		})
		log.Info("MQTT connected",
			"broker", fmt.Sprintf("%s:%d", cfg.MQTT.Broker.Host, cfg.MQTT.Broker.Port),
			"client_id", cfg.MQTT.Broker.ClientID,
		)
		notifier = mqtt.NewNotifier(mqttClient, cfg.MQTT)
		health["mqtt"] = mqttClient
	} else {
		log.Info("MQTT disabled")
	}

	// Connect to InfluxDB (optional)
	var (
		saveRecorder      site.Recorder
		migrationRecorder migration.Recorder
	)
	if cfg.InfluxDB.Enabled {
		influxClient, connErr := influxdb.Connect(ctx, cfg.InfluxDB)
		if connErr != nil {
			return fmt.Errorf("connecting to InfluxDB: %w", connErr)
		}
		defer func() {
			log.Info("closing InfluxDB connection")
			if closeErr := influxClient.Close(); closeErr != nil {
				log.Error("error closing InfluxDB", "error", closeErr)
			}
		}()
		influxClient.SetOnError(func(err error) {
			log.Error("InfluxDB write error", "error", err)
		})
		log.Info("InfluxDB connected",
			"url", cfg.InfluxDB.URL,
			"org", cfg.InfluxDB.Org,
			"bucket", cfg.InfluxDB.Bucket,
		)
		saveRecorder = influxClient
		migrationRecorder = influxClient
		health["influxdb"] = influxClient

		go reportUsage(ctx, docs, influxClient, cfg.Documents.QuotaBytes, usageReportInterval, log)
	} else {
		log.Info("InfluxDB disabled")
	}

	var places geo.PlacesGenerator = geo.Disabled{}
	if cfg.Places.Enabled {
		places = geo.NewHTTPPlaces(cfg.Places.URL, cfg.Places.APIKey, seconds(cfg.Places.Timeout))
	}

	app := site.New(site.Deps{
		Documents: docs,
		Blobs:     blobs,
		Migrator: migration.New(docs, blobs, log, migrationRecorder, migration.Options{
			TargetVersion:           cfg.Migration.TargetVersion,
			Prefix:                  cfg.Migration.InlinePrefix,
			Threshold:               cfg.Migration.InlineThreshold,
			AdvanceOnPersistFailure: cfg.Migration.AdvanceOnPersistFailure,
		}),
		Geocoder:        geo.NewNominatimGeocoder(cfg.Geocoding.URL, cfg.Geocoding.UserAgent, seconds(cfg.Geocoding.Timeout)),
		Places:          places,
		Notifier:        notifier,
		Recorder:        saveRecorder,
		Logger:          log,
		AdminUsername:   cfg.Security.Admin.Username,
		AdminPassword:   cfg.Security.Admin.Password,
		DefaultSiteName: cfg.Site.DefaultName,
		InlinePrefix:    cfg.Migration.InlinePrefix,
		InlineThreshold: cfg.Migration.InlineThreshold,
	})

	if loadErr := app.Load(ctx); loadErr != nil {
		if !errors.Is(loadErr, migration.ErrMigrationPersist) {
			return fmt.Errorf("loading site: %w", loadErr)
		}
		log.Warn("migrated properties were not saved, continuing with the in-memory copy", "error", loadErr)
	}
	log.Info("site loaded", "name", app.SiteName(), "properties", len(app.Properties()))

	server, err := api.New(api.Deps{
		Config:   cfg.API,
		Security: cfg.Security,
		Logger:   log,
		App:      app,
		Health:   health,
		Version:  version,
	})
	if err != nil {
		return fmt.Errorf("creating API server: %w", err)
	}
	if startErr := server.Start(ctx); startErr != nil {
		return fmt.Errorf("starting API server: %w", startErr)
	}
	defer func() {
		if closeErr := server.Close(); closeErr != nil {
			log.Error("error closing API server", "error", closeErr)
		}
	}()

	log.Info("initialisation complete, waiting for shutdown signal")

	<-ctx.Done()

	log.Info("shutdown signal received, cleaning up")
	return nil
}

// getConfigPath returns the configuration file path.
// Uses VIAHOGAR_CONFIG environment variable if set, otherwise default.
func getConfigPath() string {
	if path := os.Getenv("VIAHOGAR_CONFIG"); path != "" {
		return path
	}
	return defaultConfigPath
}

// openDocuments builds the configured Document Store. The returned func
// releases its connection.
func openDocuments(ctx context.Context, cfg *config.Config, db *database.DB, health map[string]api.HealthChecker) (storage.DocumentStore, func(), error) {
	quota := cfg.Documents.QuotaBytes
	switch cfg.Documents.Backend {
	case config.BackendSQLite:
		return storage.NewSQLiteDocuments(db.DB, quota), func() {}, nil
	case config.BackendRedis:
		docs, err := storage.NewRedisDocuments(ctx, cfg.Documents.Redis.URL, cfg.Documents.Redis.Prefix, quota)
		if err != nil {
			return nil, nil, err
		}
		health["redis"] = healthFunc(docs.Ping)
		//nolint:errcheck // Best-effort close on shutdown
		return docs, func() { docs.Close() }, nil
	case config.BackendMemory:
		return storage.NewMemoryDocuments(quota), func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unknown backend %q", cfg.Documents.Backend)
	}
}

// openBlobs builds the configured Blob Store.
func openBlobs(ctx context.Context, cfg *config.Config, db *database.DB) (storage.BlobStore, error) {
	switch cfg.Blobs.Backend {
	case config.BackendSQLite:
		return storage.NewSQLiteBlobs(db.DB), nil
	case config.BackendMinIO:
		m := cfg.Blobs.MinIO
		return storage.NewMinIOBlobs(ctx, storage.MinIOConfig{
			Endpoint:  m.Endpoint,
			AccessKey: m.AccessKey,
			SecretKey: m.SecretKey,
			Bucket:    m.Bucket,
			UseSSL:    m.UseSSL,
		})
	case config.BackendMemory:
		return storage.NewMemoryBlobs(), nil
	default:
		return nil, fmt.Errorf("unknown backend %q", cfg.Blobs.Backend)
	}
}

// usageWriter receives Document Store usage samples.
type usageWriter interface {
	WriteUsage(used, quota int64)
}

// reportUsage samples the Document Store size until ctx is cancelled.
func reportUsage(ctx context.Context, docs storage.DocumentStore, w usageWriter, quota int64, interval time.Duration, log *logging.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		used, err := docs.Usage(ctx)
		if err != nil {
			log.Warn("reading document store usage failed", "error", err)
		} else {
			w.WriteUsage(used, quota)
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// healthFunc adapts a ping function to api.HealthChecker.
type healthFunc func(ctx context.Context) error

func (f healthFunc) HealthCheck(ctx context.Context) error { return f(ctx) }

func seconds(n int) time.Duration {
	return time.Duration(n) * time.Second
}
