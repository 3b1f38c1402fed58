// Package logging provides structured logging for the Vía Hogar core.
//
// It wraps log/slog so every component logs through the same handler with
// the service and version attributes attached.
//
// # Configuration
//
//	logging:
//	  level: "info"      # debug, info, warn, error
//	  format: "json"     # json, text
//	  output: "stdout"   # stdout, stderr, discard
//
// # Usage
//
//	logger := logging.New(cfg.Logging, "1.0.0")
//	logger.Info("starting service", "port", 8080)
//	logger.Component("migration").Warn("blob write failed", "error", err)
//
// # Security
//
// Never log the admin password, JWT secret or storage credentials. Image
// payloads are logged by length only.
package logging
