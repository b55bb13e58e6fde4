// Package migrations embeds the SQL schema migrations applied by cmd/migrate
// and the Postgres test helpers.
package migrations

import "embed"

// FS holds every *.sql migration in golang-migrate file naming.
//
//go:embed *.sql
var FS embed.FS
