// Package migrations embeds the SQL schema migrations that goose applies at
// startup.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
