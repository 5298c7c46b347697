// Package migrations embeds the PostgreSQL schema migrations for the quote store.
package migrations

import "embed"

// FS holds every *.sql migration in this directory
//
//go:embed *.sql
var FS embed.FS
