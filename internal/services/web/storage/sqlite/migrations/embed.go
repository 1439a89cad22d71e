package migrations

import "embed"

// FS contains embedded SQLite migrations for web-owned storage.
//
//go:embed *.sql
var FS embed.FS
