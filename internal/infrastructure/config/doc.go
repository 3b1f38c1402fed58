// Package config handles loading and validating Vía Hogar core configuration.
//
// This package manages:
//   - Loading configuration from YAML files
//   - Overriding with environment variables
//   - Validation of required fields
//   - Default value handling
//
// The defaults match data written by earlier site versions: a 5 MiB document
// quota, the "data:image" inline prefix with a 1024 character threshold, the
// "2.0-indexeddb" migration version and the Admin/Aguilar1 credential pair.
//
// Security Considerations:
//   - Secrets (JWT secret, MinIO keys, InfluxDB token) should be set via environment variables
//   - The admin pair is a literal comparison and must not be treated as an auth boundary
//
// Usage:
//
//	cfg, err := config.Load("configs/config.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Site.DefaultName)
package config
