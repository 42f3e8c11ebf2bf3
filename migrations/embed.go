// Package migrations holds the goose SQL migrations for the pokedex database.
package migrations

import "embed"

// FS contains the embedded migration files.
//
//go:embed *.sql
var FS embed.FS
