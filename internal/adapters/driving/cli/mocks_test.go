package cli

import (
	"context"
	"strings"
	"time"

	"github.com/Sandiven/DataVerser/internal/core/domain"
	"github.com/Sandiven/DataVerser/internal/core/ports/driving"
)

var testTime = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

// mockIngestService implements driving.IngestService for testing.
type mockIngestService struct {
	lastRequest  driving.IngestRequest
	lastFilename string
	lastSource   string
	lastLimit    int
	err          error
}

func (m *mockIngestService) Ingest(_ context.Context, req driving.IngestRequest) (*driving.IngestResult, error) {
	m.lastRequest = req
	if m.err != nil {
		return nil, m.err
	}
	sourceID := req.SourceID
	if sourceID == "" {
		sourceID = req.Filename
	}
	return &driving.IngestResult{
		SourceID: sourceID,
		Version: &domain.SchemaVersion{
			SourceID:       sourceID,
			Version:        2,
			MigrationNotes: "Added field 'total' (decimal)",
		},
		RecordCount: 3,
		Cleaning:    domain.CleaningStats{DuplicatesDropped: 1},
		Upload:      &domain.Upload{ContentHash: "deadbeef"},
		Summary:     domain.FragmentSummary{CSVFragments: 1},
	}, nil
}

func (m *mockIngestService) Extract(_ context.Context, filename string, _ []byte) (*driving.Extraction, error) {
	m.lastFilename = filename
	if m.err != nil {
		return nil, m.err
	}
	return &driving.Extraction{
		Fragments: []domain.Fragment{{
			Kind:    domain.KindDelimited,
			Columns: []string{"id", "name"},
			Rows: [][]domain.Value{
				{domain.Int(1), domain.Text("alice")},
				{domain.Int(2), domain.Missing()},
			},
		}},
		Summary: domain.FragmentSummary{CSVFragments: 1},
	}, nil
}

func (m *mockIngestService) Infer(_ context.Context, filename string, _ []byte) (*domain.Schema, error) {
	m.lastFilename = filename
	if m.err != nil {
		return nil, m.err
	}
	return testSchema(), nil
}

func (m *mockIngestService) Logs(_ context.Context, sourceID string, limit int) ([]domain.AuditEvent, error) {
	m.lastSource = sourceID
	m.lastLimit = limit
	if m.err != nil {
		return nil, m.err
	}
	return []domain.AuditEvent{{
		ID:            "evt-1",
		SourceID:      "orders",
		Message:       "Ingested orders.csv: schema v2",
		Status:        domain.AuditSuccess,
		SchemaVersion: 2,
		Timestamp:     testTime,
	}}, nil
}

func (m *mockIngestService) Stats(_ context.Context, sourceID string) (*domain.IngestStats, error) {
	m.lastSource = sourceID
	if m.err != nil {
		return nil, m.err
	}
	return &domain.IngestStats{
		SourceID:       sourceID,
		TotalRuns:      3,
		SuccessfulRuns: 2,
		FailedRuns:     1,
		TotalRecords:   7,
		SuccessRate:    66.7,
		ActiveVersions: map[string]int{"orders": 2, "invoices": 1},
		LastRun:        testTime,
	}, nil
}

// mockSchemaService implements driving.SchemaService for testing.
type mockSchemaService struct {
	versions []domain.SchemaVersion
	sources  []string
	err      error

	lastFrom   int
	lastTo     int
	lastTarget domain.MigrationTarget
}

func (m *mockSchemaService) Submit(_ context.Context, _ string, _ domain.Schema) (*domain.SchemaVersion, bool, error) {
	return nil, false, domain.ErrNotImplemented
}

func (m *mockSchemaService) History(_ context.Context, _ string) ([]domain.SchemaVersion, error) {
	return m.versions, m.err
}

func (m *mockSchemaService) Latest(_ context.Context, _ string) (*domain.SchemaVersion, error) {
	if m.err != nil {
		return nil, m.err
	}
	if len(m.versions) == 0 {
		return nil, domain.ErrNotFound
	}
	return &m.versions[len(m.versions)-1], nil
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
	from, to int,
	target domain.MigrationTarget,
) (string, error) {
	m.lastFrom, m.lastTo, m.lastTarget = from, to, target
	if m.err != nil {
		return "", m.err
	}
	return "ALTER TABLE data_table RENAME COLUMN price TO price_usd;", nil
}

// mockSettingsService implements driving.SettingsService for testing.
type mockSettingsService struct {
	settings domain.Settings
	set      map[string]string
	err      error
}

func (m *mockSettingsService) Get() (*domain.Settings, error) {
	if m.err != nil {
		return nil, m.err
	}
	s := m.settings
	return &s, nil
}

func (m *mockSettingsService) Set(key, value string) error {
	if m.err != nil {
		return m.err
	}
	m.set[key] = value
	return nil
}

func (m *mockSettingsService) Keys() []string {
	return []string{"evolution.rename_threshold", "storage.backend"}
}

func (m *mockSettingsService) GetDefaults() domain.Settings {
	return domain.DefaultSettings()
}

func testSchema() *domain.Schema {
	return &domain.Schema{
		ID: "schema-1",
		Fields: []domain.Field{
			{Name: "id", Type: domain.TypeInteger, Confidence: 1, SuggestedIndex: true},
			{Name: "price_usd", Type: domain.TypeDecimal, Nullable: true, Confidence: 0.95},
		},
		PrimaryKeyCandidates: []string{"id"},
		RecordCount:          3,
	}
}

type testServices struct {
	ingest   *mockIngestService
	schema   *mockSchemaService
	settings *mockSettingsService
	rules    *domain.ValidationRules
}

// setupTestServices installs mock services and resets flag state.
// The returned function restores the previous services.
func setupTestServices() (*testServices, func()) {
	oldIngest, oldSchema, oldSettings, oldRules := ingestService, schemaService, settingsService, rulesLoader

	ts := &testServices{
		ingest: &mockIngestService{},
		schema: &mockSchemaService{
			versions: []domain.SchemaVersion{
				{SourceID: "orders", Version: 1, Schema: *testSchema(), MigrationNotes: "Initial schema", CreatedAt: testTime},
				{SourceID: "orders", Version: 2, Schema: *testSchema(), MigrationNotes: "Renamed 'price' to 'price_usd'", CreatedAt: testTime},
			},
			sources: []string{"invoices", "orders"},
		},
		settings: &mockSettingsService{settings: domain.DefaultSettings(), set: map[string]string{}},
	}

	SetServices(Services{
		Ingest:   ts.ingest,
		Schema:   ts.schema,
		Settings: ts.settings,
		Rules: func(string) (*domain.ValidationRules, error) {
			if ts.rules == nil {
				return nil, domain.ErrInvalidInput
			}
			r := *ts.rules
			return &r, nil
		},
	})
	resetFlags()

	return ts, func() {
		ingestService, schemaService, settingsService, rulesLoader = oldIngest, oldSchema, oldSettings, oldRules
		resetFlags()
	}
}

func resetFlags() {
	ingestSource, ingestRules = "", ""
	ingestRequired, ingestKeys, ingestUnique = nil, nil, nil
	ingestMinRows = 0
	ingestJSON, extractJSON, inferJSON, schemaJSON, logsJSON = false, false, false, false, false
	schemaVersion, migrateFrom, migrateTo = 0, 0, 0
	migrateTarget = string(domain.TargetPostgreSQL)
	logsLimit = 20
	statsJSON = false
	watchSource = ""
	verbose = false
	versionShort = false
}

func stringsReader(s string) *strings.Reader {
	return strings.NewReader(s)
}
