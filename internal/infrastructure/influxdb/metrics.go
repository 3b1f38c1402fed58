package influxdb

import (
	"errors"
	"strconv"
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"

	"github.com/viahogar/viahogar-core/internal/storage"
)

// Measurement names.
const (
	measurementSave      = "storage_save"
	measurementMigration = "migration_run"
)

// Save results.
const (
	resultOK            = "ok"
	resultQuotaExceeded = "quota_exceeded"
	resultError         = "error"
)

// RecordSave records one Document Store write.
func (c *Client) RecordSave(key string, bytes int, err error) {
	if !c.IsConnected() {
		return
	}

	c.writeAPI.WritePoint(write.NewPoint(
		measurementSave,
		map[string]string{
			"key":    key,
			"result": saveResult(err),
		},
		map[string]interface{}{
			"bytes": bytes,
		},
		time.Now(),
	))
}

// RecordMigration records one migration run.
func (c *Client) RecordMigration(converted, failed int, skipped bool, elapsed time.Duration) {
	if !c.IsConnected() {
		return
	}

	c.writeAPI.WritePoint(write.NewPoint(
		measurementMigration,
		map[string]string{
			"skipped": strconv.FormatBool(skipped),
		},
		map[string]interface{}{
			"converted":   converted,
			"failed":      failed,
			"duration_ms": elapsed.Milliseconds(),
		},
		time.Now(),
	))
}

// WriteUsage records the bytes held by the Document Store against its quota.
func (c *Client) WriteUsage(used, quota int64) {
	if !c.IsConnected() {
		return
	}

	fields := map[string]interface{}{"used_bytes": used}
	if quota > 0 {
		fields["quota_bytes"] = quota
		fields["used_ratio"] = float64(used) / float64(quota)
	}
	c.writeAPI.WritePoint(write.NewPoint("storage_usage", nil, fields, time.Now()))
}

func saveResult(err error) string {
	switch {
	case err == nil:
		return resultOK
	case errors.Is(err, storage.ErrQuotaExceeded):
		return resultQuotaExceeded
	default:
		return resultError
	}
}
