// Package mcp provides an MCP (Model Context Protocol) server adapter for DataVerser.
// It lets AI assistants decompose documents, infer schemas and read schema
// history through the driving ports.
package mcp

import "errors"

var (
	// ErrMissingIngestService is returned when the ingest service is not provided.
	ErrMissingIngestService = errors.New("mcp: ingest service is required")

	// ErrMissingSchemaService is returned when the schema service is not provided.
	ErrMissingSchemaService = errors.New("mcp: schema service is required")
)
