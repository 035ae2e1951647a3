package mcp

import (
	"context"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/Sandiven/DataVerser/internal/core/domain"
	"github.com/Sandiven/DataVerser/internal/core/ports/driving"
)

// DocumentInput is the input schema for the extraction and inference tools.
type DocumentInput struct {
	Filename string `json:"filename,omitempty" jsonschema:"file name used as a file-type hint"`
	Content  string `json:"content" jsonschema:"the raw document text"`
}

// FragmentOutput describes one extracted fragment.
type FragmentOutput struct {
	Kind     string       `json:"kind"`
	Columns  []string     `json:"columns"`
	RowCount int          `json:"row_count"`
	Rows     [][]string   `json:"rows"`
	Spans    []SpanOutput `json:"spans"`
}

// SpanOutput is a byte range of the original document.
type SpanOutput struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// ExtractOutput is the output schema for the extract_fragments tool.
type ExtractOutput struct {
	Fragments []FragmentOutput       `json:"fragments"`
	Summary   domain.FragmentSummary `json:"summary"`
}

// FieldOutput describes one inferred field.
type FieldOutput struct {
	Name           string  `json:"name"`
	Type           string  `json:"type"`
	Nullable       bool    `json:"nullable"`
	Confidence     float64 `json:"confidence"`
	SuggestedIndex bool    `json:"suggested_index"`
	ExampleValue   string  `json:"example_value,omitempty"`
}

// SchemaOutput is the output schema for the infer_schema tool.
type SchemaOutput struct {
	SchemaID             string        `json:"schema_id"`
	Fields               []FieldOutput `json:"fields"`
	PrimaryKeyCandidates []string      `json:"primary_key_candidates"`
	RecordCount          int           `json:"record_count"`
}

// IngestInput is the input schema for the ingest tool.
type IngestInput struct {
	SourceID   string   `json:"source_id,omitempty" jsonschema:"logical source, defaults to the filename"`
	Filename   string   `json:"filename,omitempty" jsonschema:"file name used as a file-type hint"`
	Content    string   `json:"content" jsonschema:"the raw document text"`
	Required   []string `json:"required,omitempty" jsonschema:"columns that must be present"`
	KeyColumns []string `json:"key_columns,omitempty" jsonschema:"columns that must have no missing values"`
	Unique     []string `json:"unique,omitempty" jsonschema:"columns whose values must not repeat"`
}

// IngestOutput is the output schema for the ingest tool.
type IngestOutput struct {
	SourceID       string `json:"source_id"`
	Version        int    `json:"version"`
	Reused         bool   `json:"reused"`
	RecordCount    int    `json:"record_count"`
	MigrationNotes string `json:"migration_notes"`
	ContentHash    string `json:"content_hash,omitempty"`

	DuplicatesDropped   int `json:"duplicates_dropped"`
	EmptyRowsDropped    int `json:"empty_rows_dropped"`
	EmptyColumnsDropped int `json:"empty_columns_dropped"`
}

// HistoryInput is the input schema for the schema_history tool.
type HistoryInput struct {
	SourceID string `json:"source_id" jsonschema:"the source whose history to list"`
}

// VersionOutput summarises one schema version.
type VersionOutput struct {
	Version        int      `json:"version"`
	Fields         []string `json:"fields"`
	MigrationNotes string   `json:"migration_notes"`
	CreatedAt      string   `json:"created_at"`
}

// HistoryOutput is the output schema for the schema_history tool.
type HistoryOutput struct {
	SourceID string          `json:"source_id"`
	Versions []VersionOutput `json:"versions"`
}

// MigrationInput is the input schema for the generate_migration tool.
type MigrationInput struct {
	SourceID string `json:"source_id" jsonschema:"the source to migrate"`
	From     int    `json:"from" jsonschema:"version to migrate from, 0 to create from scratch"`
	To       int    `json:"to" jsonschema:"version to migrate to, 0 for the latest"`
	Target   string `json:"target" jsonschema:"postgresql or mongodb"`
}

// MigrationOutput is the output schema for the generate_migration tool.
type MigrationOutput struct {
	Target    string `json:"target"`
	Migration string `json:"migration"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "extract_fragments",
		Description: "Split a mixed-format document into JSON, HTML table, delimited, key/value and raw text fragments",
	}, s.handleExtract)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "infer_schema",
		Description: "Infer a field-level schema from a document without storing it",
	}, s.handleInfer)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "ingest",
		Description: "Ingest a document and store its schema as the next version of a source",
	}, s.handleIngest)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "schema_history",
		Description: "List the schema versions of a source",
	}, s.handleHistory)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "generate_migration",
		Description: "Render a PostgreSQL or MongoDB migration between two schema versions",
	}, s.handleMigration)
}

func (s *Server) handleExtract(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input DocumentInput,
) (*mcp.CallToolResult, ExtractOutput, error) {
	extraction, err := s.ports.Ingest.Extract(ctx, input.Filename, []byte(input.Content))
	if err != nil {
		return nil, ExtractOutput{}, err
	}

	output := ExtractOutput{
		Fragments: make([]FragmentOutput, len(extraction.Fragments)),
		Summary:   extraction.Summary,
	}
	for i, frag := range extraction.Fragments {
		out := FragmentOutput{
			Kind:     frag.Kind.String(),
			Columns:  frag.Columns,
			RowCount: len(frag.Rows),
			Rows:     make([][]string, len(frag.Rows)),
			Spans:    make([]SpanOutput, len(frag.Spans)),
		}
		for r, row := range frag.Rows {
			cells := make([]string, len(row))
			for c, v := range row {
				cells[c] = v.String()
			}
			out.Rows[r] = cells
		}
		for j, span := range frag.Spans {
			out.Spans[j] = SpanOutput{Start: span.Start, End: span.End}
		}
		output.Fragments[i] = out
	}

	return nil, output, nil
}

func (s *Server) handleInfer(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input DocumentInput,
) (*mcp.CallToolResult, SchemaOutput, error) {
	schema, err := s.ports.Ingest.Infer(ctx, input.Filename, []byte(input.Content))
	if err != nil {
		return nil, SchemaOutput{}, err
	}
	return nil, schemaOutput(schema), nil
}

func (s *Server) handleIngest(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input IngestInput,
) (*mcp.CallToolResult, IngestOutput, error) {
	req := driving.IngestRequest{
		SourceID: input.SourceID,
		Filename: input.Filename,
		Content:  []byte(input.Content),
	}
	if len(input.Required) > 0 || len(input.KeyColumns) > 0 || len(input.Unique) > 0 {
		req.Rules = &domain.ValidationRules{
			Required:   input.Required,
			KeyColumns: input.KeyColumns,
			Unique:     input.Unique,
		}
	}

	result, err := s.ports.Ingest.Ingest(ctx, req)
	if err != nil {
		return nil, IngestOutput{}, err
	}

	output := IngestOutput{
		SourceID:       result.SourceID,
		Version:        result.Version.Version,
		Reused:         result.Reused,
		RecordCount:    result.RecordCount,
		MigrationNotes: result.Version.MigrationNotes,

		DuplicatesDropped:   result.Cleaning.DuplicatesDropped,
		EmptyRowsDropped:    result.Cleaning.EmptyRowsDropped,
		EmptyColumnsDropped: result.Cleaning.EmptyColumnsDropped,
	}
	if result.Upload != nil {
		output.ContentHash = result.Upload.ContentHash
	}
	return nil, output, nil
}

func (s *Server) handleHistory(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input HistoryInput,
) (*mcp.CallToolResult, HistoryOutput, error) {
	versions, err := s.ports.Schema.History(ctx, input.SourceID)
	if err != nil {
		return nil, HistoryOutput{}, err
	}
	return nil, historyOutput(input.SourceID, versions), nil
}

func (s *Server) handleMigration(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input MigrationInput,
) (*mcp.CallToolResult, MigrationOutput, error) {
	target := domain.MigrationTarget(input.Target)
	migration, err := s.ports.Schema.GenerateMigration(ctx, input.SourceID, input.From, input.To, target)
	if err != nil {
		return nil, MigrationOutput{}, err
	}
	return nil, MigrationOutput{Target: target.String(), Migration: migration}, nil
}

func schemaOutput(schema *domain.Schema) SchemaOutput {
	out := SchemaOutput{
		SchemaID:             schema.ID,
		Fields:               make([]FieldOutput, len(schema.Fields)),
		PrimaryKeyCandidates: schema.PrimaryKeyCandidates,
		RecordCount:          schema.RecordCount,
	}
	for i, f := range schema.Fields {
		out.Fields[i] = FieldOutput{
			Name:           f.Name,
			Type:           f.Type.String(),
			Nullable:       f.Nullable,
			Confidence:     f.Confidence,
			SuggestedIndex: f.SuggestedIndex,
			ExampleValue:   f.ExampleValue,
		}
	}
	return out
}

func historyOutput(sourceID string, versions []domain.SchemaVersion) HistoryOutput {
	out := HistoryOutput{
		SourceID: sourceID,
		Versions: make([]VersionOutput, len(versions)),
	}
	for i := range versions {
		out.Versions[i] = VersionOutput{
			Version:        versions[i].Version,
			Fields:         versions[i].Schema.FieldNames(),
			MigrationNotes: versions[i].MigrationNotes,
			CreatedAt:      versions[i].CreatedAt.UTC().Format(time.RFC3339),
		}
	}
	return out
}
