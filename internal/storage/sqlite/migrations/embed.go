package migrations

import "embed"

// FS contains embedded SQLite migrations for exploration storage.
//
//go:embed *.sql
var FS embed.FS
