// Package migrations embeds the goose SQL migrations. Statements stay within
// the subset understood by both PostgreSQL and SQLite.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
