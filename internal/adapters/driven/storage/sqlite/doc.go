// Package sqlite provides a unified SQLite-based implementation of driven port interfaces.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that requires
// no CGO, enabling easy cross-compilation. It implements multiple store interfaces
// through a single database connection:
//
//   - SchemaStore: append-only schema history per source
//   - RawStore: content-addressed upload bytes
//   - AuditSink: ingestion audit events
//
// # Schema
//
// The database schema is managed through versioned migrations stored in the
// migrations/ directory. Each migration is a pair of .up.sql and .down.sql files.
//
// # Data Location
//
// By default, the database is stored at ~/.dataverser/data/dataverser.db
//
// # Thread Safety
//
// All operations are thread-safe. Write transactions take the database lock
// immediately and (source_id, version) is unique, so two writers can never
// store the same version of a source.
package sqlite
