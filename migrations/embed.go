// Package migrations embeds the SQLite schema migrations into the binary.
package migrations

import (
	"embed"

	"github.com/viahogar/viahogar-core/internal/infrastructure/database"
)

//go:embed *.sql
var migrationsFS embed.FS

func init() {
	database.MigrationsFS = migrationsFS
	database.MigrationsDir = "."
}
