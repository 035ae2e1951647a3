package mcp

import (
	"context"

	"github.com/Sandiven/DataVerser/internal/core/domain"
	"github.com/Sandiven/DataVerser/internal/core/ports/driving"
)

// mockIngestService is a mock implementation of driving.IngestService.
type mockIngestService struct {
	extraction *driving.Extraction
	schema     *domain.Schema
	result     *driving.IngestResult
	events     []domain.AuditEvent
	stats      *domain.IngestStats
	err        error

	lastRequest     driving.IngestRequest
	lastStatsSource string
}

func (m *mockIngestService) Ingest(_ context.Context, req driving.IngestRequest) (*driving.IngestResult, error) {
	m.lastRequest = req
	return m.result, m.err
}

func (m *mockIngestService) Extract(_ context.Context, _ string, _ []byte) (*driving.Extraction, error) {
	return m.extraction, m.err
}

func (m *mockIngestService) Infer(_ context.Context, _ string, _ []byte) (*domain.Schema, error) {
	return m.schema, m.err
}

func (m *mockIngestService) Logs(_ context.Context, _ string, _ int) ([]domain.AuditEvent, error) {
	return m.events, m.err
}

func (m *mockIngestService) Stats(_ context.Context, sourceID string) (*domain.IngestStats, error) {
	m.lastStatsSource = sourceID
	return m.stats, m.err
}

// mockSchemaService is a mock implementation of driving.SchemaService.
type mockSchemaService struct {
	versions  []domain.SchemaVersion
	sources   []string
	migration string
	err       error

	lastTarget domain.MigrationTarget
}

func (m *mockSchemaService) Submit(
	_ context.Context,
	_ string,
	_ domain.Schema,
) (*domain.SchemaVersion, bool, error) {
	if len(m.versions) == 0 {
		return nil, false, m.err
	}
	return &m.versions[len(m.versions)-1], false, m.err
}

func (m *mockSchemaService) History(_ context.Context, _ string) ([]domain.SchemaVersion, error) {
	return m.versions, m.err
}

func (m *mockSchemaService) Latest(_ context.Context, _ string) (*domain.SchemaVersion, error) {
	if len(m.versions) == 0 {
		return nil, domain.ErrNotFound
	}
	return &m.versions[len(m.versions)-1], m.err
}

func (m *mockSchemaService) Version(_ context.Context, _ string, version int) (*domain.SchemaVersion, error) {
	for i := range m.versions {
		if m.versions[i].Version == version {
			return &m.versions[i], nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockSchemaService) Sources(_ context.Context) ([]string, error) {
	return m.sources, m.err
}

func (m *mockSchemaService) GenerateMigration(
	_ context.Context,
	_ string,
	_, _ int,
	target domain.MigrationTarget,
) (string, error) {
	m.lastTarget = target
	return m.migration, m.err
}

func newTestPorts() (*Ports, *mockIngestService, *mockSchemaService) {
	ingest := &mockIngestService{}
	schema := &mockSchemaService{}
	return &Ports{Ingest: ingest, Schema: schema}, ingest, schema
}
