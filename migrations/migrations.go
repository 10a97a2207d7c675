// Package migrations embeds the PostgreSQL schema of the red-flags service.
package migrations

import "embed"

// FS holds the golang-migrate up/down files.
//
//go:embed *.sql
var FS embed.FS
