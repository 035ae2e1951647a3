package mcp

import (
	"github.com/Sandiven/DataVerser/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Ingest extracts, infers and ingests uploads.
	Ingest driving.IngestService

	// Schema reads schema history and renders migrations.
	Schema driving.SchemaService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Ingest == nil {
		return ErrMissingIngestService
	}
	if p.Schema == nil {
		return ErrMissingSchemaService
	}
	return nil
}
