// Package migrations holds the versioned SQL for the schema history,
// upload and audit tables. Files are named NNN_name.up.sql and applied in
// order; each records its version in schema_migrations.
package migrations

import "embed"

// FS holds the migration files.
//
//go:embed *.sql
var FS embed.FS
