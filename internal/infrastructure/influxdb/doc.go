// Package influxdb records Vía Hogar storage metrics in InfluxDB.
//
// It wraps the official influxdb-client-go v2 library for connection
// management, non-blocking batched writes and health monitoring.
//
// # Measurements
//
//	storage_save   tags: key, result (ok|quota_exceeded|error)   fields: bytes
//	migration_run  tags: skipped                                 fields: converted, failed, duration_ms
//
// The client satisfies both site.Recorder and migration.Recorder, so one
// connection serves the controller and the migration engine.
//
// # Usage
//
//	client, err := influxdb.Connect(cfg.InfluxDB)
//	if errors.Is(err, influxdb.ErrDisabled) {
//	    // run without metrics
//	}
//	defer client.Close()
//
// # Thread Safety
//
// All methods are safe for concurrent use. Writes never block the caller;
// batches are flushed according to batch_size and flush_interval.
package influxdb
