// Package migrations embeds the audit database schema.
package migrations

import "embed"

//go:embed *.sql
var Files embed.FS
