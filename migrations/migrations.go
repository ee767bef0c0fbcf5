// Package migrations embeds the database schema migrations so that the
// migrate tool and integration tests apply the same files.
package migrations

import "embed"

// FS holds the numbered *.up.sql and *.down.sql files.
//
//go:embed *.sql
var FS embed.FS
