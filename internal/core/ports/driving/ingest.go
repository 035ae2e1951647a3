package driving

import (
	"context"

	"github.com/Sandiven/DataVerser/internal/core/domain"
)

// IngestService runs raw bytes through extraction, inference and versioning.
type IngestService interface {
	// Ingest processes one upload end to end.
	// A structural rule violation returns a *domain.ValidationError and
	// persists no schema.
	Ingest(ctx context.Context, req IngestRequest) (*IngestResult, error)

	// Extract returns the fragments of the input without persisting anything.
	Extract(ctx context.Context, filename string, content []byte) (*Extraction, error)

	// Infer builds a candidate schema without persisting anything.
	Infer(ctx context.Context, filename string, content []byte) (*domain.Schema, error)

	// Logs returns recent audit events, newest first.
	Logs(ctx context.Context, sourceID string, limit int) ([]domain.AuditEvent, error)

	// Stats aggregates runs, records and active schema versions.
	// An empty sourceID covers every source.
	Stats(ctx context.Context, sourceID string) (*domain.IngestStats, error)
}

// IngestRequest is one upload.
type IngestRequest struct {
	// SourceID is the logical source. Defaults to Filename.
	SourceID string

	// Filename is a hint for file-type detection.
	Filename string

	// Content is the raw bytes.
	Content []byte

	// Rules are optional structural checks run before inference.
	Rules *domain.ValidationRules
}

// IngestResult describes the outcome of an ingestion.
type IngestResult struct {
	// SourceID is the resolved source.
	SourceID string

	// Version is the new or reused schema version.
	Version *domain.SchemaVersion

	// Reused is true when the schema matched the latest version.
	Reused bool

	// Upload is the raw-bytes record, nil without a RawStore.
	Upload *domain.Upload

	// RecordCount is the number of combined rows after cleaning.
	RecordCount int

	// Cleaning counts the rows and columns dropped before validation.
	Cleaning domain.CleaningStats

	// Summary counts fragments per pass.
	Summary domain.FragmentSummary
}

// Extraction is the decomposition of one input.
type Extraction struct {
	Fragments []domain.Fragment
	Summary   domain.FragmentSummary
}
