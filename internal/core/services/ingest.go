package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Sandiven/DataVerser/internal/core/domain"
	"github.com/Sandiven/DataVerser/internal/core/ports/driven"
	"github.com/Sandiven/DataVerser/internal/core/ports/driving"
	"github.com/Sandiven/DataVerser/internal/extract"
	"github.com/Sandiven/DataVerser/internal/inference"
	"github.com/Sandiven/DataVerser/internal/logger"
	"github.com/Sandiven/DataVerser/internal/validation"
)

// Ensure IngestService implements the interface.
var _ driving.IngestService = (*IngestService)(nil)

// Pipeline step names reported in domain.PipelineError.
const (
	stepExtract  = "extract"
	stepStore    = "store"
	stepValidate = "validate"
	stepInfer    = "infer"
	stepSubmit   = "submit"
)

// IngestService runs uploads through extraction, validation, inference and
// versioning. The raw store and audit sink are optional.
type IngestService struct {
	extractor driven.FragmentExtractor
	schemas   driving.SchemaService
	rawStore  driven.RawStore
	audit     driven.AuditSink
	builder   *inference.Builder
	validator *validation.Validator
	now       func() time.Time
}

// NewIngestService creates a new ingestion service.
func NewIngestService(
	extractor driven.FragmentExtractor,
	schemas driving.SchemaService,
	rawStore driven.RawStore,
	audit driven.AuditSink,
	settings domain.Settings,
) *IngestService {
	return &IngestService{
		extractor: extractor,
		schemas:   schemas,
		rawStore:  rawStore,
		audit:     audit,
		builder:   inference.NewBuilder(settings.Inference),
		validator: validation.New(),
		now:       time.Now,
	}
}

// Ingest processes one upload end to end.
func (s *IngestService) Ingest(ctx context.Context, req driving.IngestRequest) (*driving.IngestResult, error) {
	if s.extractor == nil || s.schemas == nil {
		return nil, domain.ErrNotImplemented
	}
	if req.SourceID == "" {
		req.SourceID = req.Filename
	}
	if req.SourceID == "" {
		return nil, fmt.Errorf("%w: source id or filename is required", domain.ErrInvalidInput)
	}
	if req.Rules != nil {
		if err := s.validator.CheckRules(*req.Rules); err != nil {
			return nil, err
		}
	}

	logger.Section("Ingest " + req.SourceID)
	result := &driving.IngestResult{SourceID: req.SourceID}
	event := domain.AuditEvent{SourceID: req.SourceID, Filename: req.Filename}

	fragments, summary, err := s.extractor.Extract(ctx, domain.RawInput{Filename: req.Filename, Content: req.Content})
	if err != nil {
		return nil, s.fail(ctx, event, stepExtract, err)
	}
	result.Summary = summary
	event.FragmentSummary = summary
	logger.Debug("extracted %d fragment(s) from %s", len(fragments), req.Filename)

	if s.rawStore != nil {
		upload, err := s.rawStore.Put(ctx, req.Filename, req.SourceID, req.Content)
		if err != nil {
			return nil, s.fail(ctx, event, stepStore, err)
		}
		result.Upload = upload
		event.ContentHash = upload.ContentHash
		if upload.AlreadyExists {
			logger.Debug("raw bytes already stored as %s", upload.ContentHash)
		}
	}

	combined, cleaning := extract.CleanRows(extract.CleanColumns(extract.Combine(fragments)))
	result.Cleaning = cleaning
	result.RecordCount = len(combined.Rows)
	event.CleaningStats = cleaning
	event.RecordCount = result.RecordCount
	if cleaning.Total() > 0 {
		logger.Debug("cleaning dropped %d empty column(s), %d duplicate row(s), %d empty row(s)",
			cleaning.EmptyColumnsDropped, cleaning.DuplicatesDropped, cleaning.EmptyRowsDropped)
	}

	if req.Rules != nil {
		res, err := s.validator.Validate(combined, *req.Rules)
		if err != nil {
			return nil, s.fail(ctx, event, stepValidate, err)
		}
		if !res.OK {
			event.Status = domain.AuditFailed
			event.Message = fmt.Sprintf("Validation failed for %s: %s", req.SourceID, res.Err.Error())
			s.record(ctx, event)
			return nil, res.Err
		}
	}

	schema := s.builder.Build(combined, summary)
	if len(schema.Fields) == 0 {
		return nil, s.fail(ctx, event, stepInfer, domain.ErrEmptySchema)
	}
	if result.Upload != nil {
		schema.RawRef = result.Upload.ContentHash
	}

	version, reused, err := s.schemas.Submit(ctx, req.SourceID, schema)
	if err != nil {
		return nil, s.fail(ctx, event, stepSubmit, err)
	}
	result.Version = version
	result.Reused = reused

	event.SchemaVersion = version.Version
	event.Status = domain.AuditSuccess
	event.Message = fmt.Sprintf("Ingested %s: %d record(s), schema version %d (%s)",
		req.SourceID, result.RecordCount, version.Version, version.MigrationNotes)
	if reused {
		event.Status = domain.AuditReused
		event.Message = fmt.Sprintf("Ingested %s: %d record(s), schema unchanged at version %d",
			req.SourceID, result.RecordCount, version.Version)
	}
	s.record(ctx, event)

	return result, nil
}

// fail records a failed audit event and wraps err with the step name.
// Cancellation is returned unwrapped.
func (s *IngestService) fail(ctx context.Context, event domain.AuditEvent, step string, err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	event.Status = domain.AuditFailed
	event.Message = fmt.Sprintf("Ingestion of %s failed at %s: %v", event.SourceID, step, err)
	s.record(ctx, event)
	return &domain.PipelineError{Step: step, Err: err}
}

// record sends an event to the audit sink. Failures are logged only.
func (s *IngestService) record(ctx context.Context, event domain.AuditEvent) {
	if s.audit == nil {
		return
	}
	event.ID = uuid.NewString()
	event.Timestamp = s.now().UTC()
	if err := s.audit.Record(ctx, event); err != nil {
		logger.Warn("audit event for %s not recorded: %v", event.SourceID, err)
	}
}

// Extract returns the fragments of the input without persisting anything.
func (s *IngestService) Extract(ctx context.Context, filename string, content []byte) (*driving.Extraction, error) {
	if s.extractor == nil {
		return nil, domain.ErrNotImplemented
	}
	fragments, summary, err := s.extractor.Extract(ctx, domain.RawInput{Filename: filename, Content: content})
	if err != nil {
		return nil, err
	}
	return &driving.Extraction{Fragments: fragments, Summary: summary}, nil
}

// Infer builds a candidate schema without persisting anything.
func (s *IngestService) Infer(ctx context.Context, filename string, content []byte) (*domain.Schema, error) {
	extraction, err := s.Extract(ctx, filename, content)
	if err != nil {
		return nil, err
	}
	combined, _ := extract.CleanRows(extract.CleanColumns(extract.Combine(extraction.Fragments)))
	schema := s.builder.Build(combined, extraction.Summary)
	return &schema, nil
}

// Logs returns recent audit events, newest first.
func (s *IngestService) Logs(ctx context.Context, sourceID string, limit int) ([]domain.AuditEvent, error) {
	if s.audit == nil {
		return nil, domain.ErrNotImplemented
	}
	return s.audit.List(ctx, sourceID, limit)
}
