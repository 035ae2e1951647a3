// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - FragmentExtractor: Splits raw bytes into typed fragments
//   - SchemaStore: Versioned schema history with compare-and-append
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - RawStore: Content-addressed storage of uploaded bytes
//   - AuditSink: Receives ingestion events; never required for correctness
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or driving package
package driven
