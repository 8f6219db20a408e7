// Package migrations embeds the SQL schema migrations so they compile into
// both service binaries.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
