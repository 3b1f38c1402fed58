package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Document and blob store backend names.
const (
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
	BackendMinIO  = "minio"
	BackendMemory = "memory"
)

// Config is the root configuration structure for the Vía Hogar core.
// All configuration is loaded from YAML and can be overridden by environment variables.
type Config struct {
	Site      SiteConfig      `yaml:"site"`
	Database  DatabaseConfig  `yaml:"database"`
	Documents DocumentsConfig `yaml:"documents"`
	Blobs     BlobsConfig     `yaml:"blobs"`
	Migration MigrationConfig `yaml:"migration"`
	API       APIConfig       `yaml:"api"`
	MQTT      MQTTConfig      `yaml:"mqtt"`
	InfluxDB  InfluxDBConfig  `yaml:"influxdb"`
	Logging   LoggingConfig   `yaml:"logging"`
	Security  SecurityConfig  `yaml:"security"`
	Geocoding GeocodingConfig `yaml:"geocoding"`
	Places    PlacesConfig    `yaml:"places"`
}

// SiteConfig contains the defaults shown before an administrator customises the site.
type SiteConfig struct {
	DefaultName string `yaml:"default_name"`
}

// DatabaseConfig contains SQLite database settings.
type DatabaseConfig struct {
	Path        string `yaml:"path"`
	WALMode     bool   `yaml:"wal_mode"`
	BusyTimeout int    `yaml:"busy_timeout"`
}

// DocumentsConfig selects and sizes the Document Store.
type DocumentsConfig struct {
	// Backend is one of "sqlite", "redis" or "memory".
	Backend string `yaml:"backend"`

	// QuotaBytes caps the total size of keys and values held by the store.
	// Writes that would exceed it fail with a quota error.
	QuotaBytes int64 `yaml:"quota_bytes"`

	Redis RedisConfig `yaml:"redis"`
}

// RedisConfig contains Redis connection settings for the Redis document backend.
type RedisConfig struct {
	URL    string `yaml:"url"`
	Prefix string `yaml:"prefix"`
}

// BlobsConfig selects the Blob Store backend.
type BlobsConfig struct {
	// Backend is one of "sqlite", "minio" or "memory".
	Backend string      `yaml:"backend"`
	MinIO   MinIOConfig `yaml:"minio"`
}

// MinIOConfig contains S3-compatible object storage settings.
type MinIOConfig struct {
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	Bucket    string `yaml:"bucket"`
	UseSSL    bool   `yaml:"use_ssl"`
}

// MigrationConfig controls the start-up inline image migration.
type MigrationConfig struct {
	TargetVersion string `yaml:"target_version"`

	// InlinePrefix is the prefix identifying an inline image encoding.
	InlinePrefix string `yaml:"inline_prefix"`

	// InlineThreshold is the length above which an inline image is moved to the blob store.
	InlineThreshold int `yaml:"inline_threshold"`

	// AdvanceOnPersistFailure records the target version
	// even when the rewritten documents could not be saved.
	AdvanceOnPersistFailure bool `yaml:"advance_on_persist_failure"`
}

// APIConfig contains HTTP API server settings.
type APIConfig struct {
	Host     string           `yaml:"host"`
	Port     int              `yaml:"port"`
	Timeouts APITimeoutConfig `yaml:"timeouts"`
	CORS     CORSConfig       `yaml:"cors"`
}

// APITimeoutConfig contains HTTP timeout settings in seconds.
type APITimeoutConfig struct {
	Read  int `yaml:"read"`
	Write int `yaml:"write"`
	Idle  int `yaml:"idle"`
}

// CORSConfig contains Cross-Origin Resource Sharing settings.
type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins"`
	AllowedMethods []string `yaml:"allowed_methods"`
	AllowedHeaders []string `yaml:"allowed_headers"`
}

// MQTTConfig contains MQTT broker settings for the event notifier.
type MQTTConfig struct {
	Enabled     bool             `yaml:"enabled"`
	Broker      MQTTBrokerConfig `yaml:"broker"`
	Auth        MQTTAuthConfig   `yaml:"auth"`
	QoS         int              `yaml:"qos"`
	TopicPrefix string           `yaml:"topic_prefix"`
}

// MQTTBrokerConfig contains MQTT broker connection details.
type MQTTBrokerConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	TLS      bool   `yaml:"tls"`
	ClientID string `yaml:"client_id"`
}

// MQTTAuthConfig contains MQTT authentication credentials.
type MQTTAuthConfig struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// InfluxDBConfig contains InfluxDB connection settings for storage metrics.
type InfluxDBConfig struct {
	Enabled       bool   `yaml:"enabled"`
	URL           string `yaml:"url"`
	Token         string `yaml:"token"`
	Org           string `yaml:"org"`
	Bucket        string `yaml:"bucket"`
	BatchSize     int    `yaml:"batch_size"`
	FlushInterval int    `yaml:"flush_interval"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// SecurityConfig contains admin session settings.
type SecurityConfig struct {
	JWT   JWTConfig   `yaml:"jwt"`
	Admin AdminConfig `yaml:"admin"`
}

// JWTConfig contains JWT token settings.
type JWTConfig struct {
	Secret         string `yaml:"secret"`
	AccessTokenTTL int    `yaml:"access_token_ttl"`
}

// AdminConfig holds the single administrator credential pair.
// It is a literal comparison, not an authentication system.
type AdminConfig struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// GeocodingConfig contains the address lookup endpoint.
type GeocodingConfig struct {
	URL       string `yaml:"url"`
	UserAgent string `yaml:"user_agent"`
	Timeout   int    `yaml:"timeout"`
}

// PlacesConfig contains the nearby-places generator endpoint.
type PlacesConfig struct {
	Enabled bool   `yaml:"enabled"`
	URL     string `yaml:"url"`
	APIKey  string `yaml:"api_key"`
	Timeout int    `yaml:"timeout"`
}

// Load reads configuration from a YAML file and applies environment variable overrides.
//
// The configuration loading order is:
//  1. Default values (hardcoded)
//  2. YAML file values (override defaults)
//  3. Environment variables (override file values)
//
// Environment variables follow the pattern: VIAHOGAR_SECTION_KEY
// For example: VIAHOGAR_DATABASE_PATH, VIAHOGAR_API_PORT
func Load(path string) (*Config, error) {
	cfg := defaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// defaultConfig returns a Config with source-compatible defaults.
func defaultConfig() *Config {
	return &Config{
		Site: SiteConfig{
			DefaultName: "Vía Hogar",
		},
		Database: DatabaseConfig{
			Path:        "./data/viahogar.db",
			WALMode:     true,
			BusyTimeout: 5,
		},
		Documents: DocumentsConfig{
			Backend:    BackendSQLite,
			QuotaBytes: 5 << 20,
			Redis: RedisConfig{
				URL:    "redis://localhost:6379/0",
				Prefix: "viahogar:",
			},
		},
		Blobs: BlobsConfig{
			Backend: BackendSQLite,
			MinIO: MinIOConfig{
				Endpoint: "localhost:9000",
				Bucket:   "viahogar-images",
			},
		},
		Migration: MigrationConfig{
			TargetVersion:           "2.0-indexeddb",
			InlinePrefix:            "data:image",
			InlineThreshold:         1024,
			AdvanceOnPersistFailure: true,
		},
		API: APIConfig{
			Host: "0.0.0.0",
			Port: 8080,
			Timeouts: APITimeoutConfig{
				Read:  30,
				Write: 30,
				Idle:  60,
			},
		},
		MQTT: MQTTConfig{
			Broker: MQTTBrokerConfig{
				Host:     "localhost",
				Port:     1883,
				ClientID: "viahogar-core",
			},
			QoS:         1,
			TopicPrefix: "viahogar",
		},
		InfluxDB: InfluxDBConfig{
			BatchSize:     100,
			FlushInterval: 10,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Output: "stdout",
		},
		Security: SecurityConfig{
			JWT: JWTConfig{
				AccessTokenTTL: 240,
			},
			Admin: AdminConfig{
				Username: "Admin",
				Password: "Aguilar1",
			},
		},
		Geocoding: GeocodingConfig{
			URL:       "https://nominatim.openstreetmap.org/search",
			UserAgent: "viahogar-core",
			Timeout:   10,
		},
		Places: PlacesConfig{
			Timeout: 20,
		},
	}
}

// applyEnvOverrides applies environment variable overrides to the configuration.
// Environment variables follow the pattern: VIAHOGAR_SECTION_KEY
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("VIAHOGAR_DATABASE_PATH"); v != "" {
		cfg.Database.Path = v
	}

	if v := os.Getenv("VIAHOGAR_DOCUMENTS_BACKEND"); v != "" {
		cfg.Documents.Backend = v
	}
	if v := os.Getenv("VIAHOGAR_DOCUMENTS_QUOTA_BYTES"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.Documents.QuotaBytes = n
		}
	}
	if v := os.Getenv("VIAHOGAR_REDIS_URL"); v != "" {
		cfg.Documents.Redis.URL = v
	}

	if v := os.Getenv("VIAHOGAR_BLOBS_BACKEND"); v != "" {
		cfg.Blobs.Backend = v
	}
	if v := os.Getenv("VIAHOGAR_MINIO_ACCESS_KEY"); v != "" {
		cfg.Blobs.MinIO.AccessKey = v
	}
	if v := os.Getenv("VIAHOGAR_MINIO_SECRET_KEY"); v != "" {
		cfg.Blobs.MinIO.SecretKey = v
	}

	if v := os.Getenv("VIAHOGAR_API_HOST"); v != "" {
		cfg.API.Host = v
	}
	if v := os.Getenv("VIAHOGAR_API_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.API.Port = n
		}
	}

	if v := os.Getenv("VIAHOGAR_MQTT_HOST"); v != "" {
		cfg.MQTT.Broker.Host = v
	}
	if v := os.Getenv("VIAHOGAR_MQTT_USERNAME"); v != "" {
		cfg.MQTT.Auth.Username = v
	}
	if v := os.Getenv("VIAHOGAR_MQTT_PASSWORD"); v != "" {
		cfg.MQTT.Auth.Password = v
	}

	if v := os.Getenv("VIAHOGAR_INFLUXDB_TOKEN"); v != "" {
		cfg.InfluxDB.Token = v
	}

	if v := os.Getenv("VIAHOGAR_PLACES_API_KEY"); v != "" {
		cfg.Places.APIKey = v
	}

	// Always override in production.
	if v := os.Getenv("VIAHOGAR_JWT_SECRET"); v != "" {
		cfg.Security.JWT.Secret = v
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	var errs []string

	if c.Database.Path == "" {
		errs = append(errs, "database.path is required")
	}

	switch c.Documents.Backend {
	case BackendSQLite, BackendMemory:
	case BackendRedis:
		if c.Documents.Redis.URL == "" {
			errs = append(errs, "documents.redis.url is required for the redis backend")
		}
	default:
		errs = append(errs, fmt.Sprintf("documents.backend %q is not one of sqlite, redis, memory", c.Documents.Backend))
	}
	if c.Documents.QuotaBytes <= 0 {
		errs = append(errs, "documents.quota_bytes must be positive")
	}

	switch c.Blobs.Backend {
	case BackendSQLite, BackendMemory:
	case BackendMinIO:
		if c.Blobs.MinIO.Endpoint == "" || c.Blobs.MinIO.Bucket == "" {
			errs = append(errs, "blobs.minio.endpoint and blobs.minio.bucket are required for the minio backend")
		}
	default:
		errs = append(errs, fmt.Sprintf("blobs.backend %q is not one of sqlite, minio, memory", c.Blobs.Backend))
	}

	if c.Migration.TargetVersion == "" {
		errs = append(errs, "migration.target_version is required")
	}
	if c.Migration.InlinePrefix == "" {
		errs = append(errs, "migration.inline_prefix is required")
	}
	if c.Migration.InlineThreshold <= 0 {
		errs = append(errs, "migration.inline_threshold must be positive")
	}

	if c.API.Port < 1 || c.API.Port > 65535 {
		errs = append(errs, "api.port must be between 1 and 65535")
	}

	if c.MQTT.QoS < 0 || c.MQTT.QoS > 2 {
		errs = append(errs, "mqtt.qos must be 0, 1, or 2")
	}

	const minJWTSecretLength = 32
	if c.Security.JWT.Secret == "" {
		errs = append(errs, "security.jwt.secret is required (set VIAHOGAR_JWT_SECRET environment variable)")
	} else if len(c.Security.JWT.Secret) < minJWTSecretLength {
		errs = append(errs, "security.jwt.secret must be at least 32 characters")
	}
	if c.Security.Admin.Username == "" || c.Security.Admin.Password == "" {
		errs = append(errs, "security.admin.username and security.admin.password are required")
	}

	if c.Places.Enabled && c.Places.URL == "" {
		errs = append(errs, "places.url is required when places are enabled")
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration errors: %s", strings.Join(errs, "; "))
	}

	return nil
}

// GetReadTimeout returns the API read timeout as a Duration.
func (c *Config) GetReadTimeout() time.Duration {
	return time.Duration(c.API.Timeouts.Read) * time.Second
}

// GetWriteTimeout returns the API write timeout as a Duration.
func (c *Config) GetWriteTimeout() time.Duration {
	return time.Duration(c.API.Timeouts.Write) * time.Second
}

// GetIdleTimeout returns the API idle timeout as a Duration.
func (c *Config) GetIdleTimeout() time.Duration {
	return time.Duration(c.API.Timeouts.Idle) * time.Second
}
