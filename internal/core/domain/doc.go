// Package domain defines the core business entities for DataVerser.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Fragment: A typed, rectangular unit extracted from raw bytes
//   - Field: An inferred column descriptor with type and confidence
//   - Schema: A canonical, immutable field-level schema
//   - SchemaVersion: One numbered snapshot of a source's schema
//   - SchemaDiff: Changes between two consecutive schemas
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
