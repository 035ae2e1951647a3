package domain

import "time"

// Upload is the record of raw bytes kept in a content-addressed store.
type Upload struct {
	// ContentHash is the hex SHA-256 of the bytes and the store key.
	ContentHash string `json:"content_hash"`

	// Filename is the name the bytes were first uploaded under.
	Filename string `json:"filename"`

	// SourceID is the source the bytes were first uploaded for.
	SourceID string `json:"source_id"`

	// Size is the byte length.
	Size int `json:"size"`

	// AlreadyExists is true when the bytes were deduplicated.
	AlreadyExists bool `json:"already_exists"`

	// UploadedAt is when the bytes were first stored.
	UploadedAt time.Time `json:"uploaded_at"`
}

// AuditStatus is the outcome of an ingestion.
type AuditStatus string

// Available audit statuses.
const (
	AuditSuccess AuditStatus = "success"
	AuditFailed  AuditStatus = "failed"
	AuditReused  AuditStatus = "reused"
)

// AuditEvent is a human-readable ingestion event.
type AuditEvent struct {
	ID              string          `json:"id"`
	SourceID        string          `json:"source_id"`
	Message         string          `json:"message"`
	Filename        string          `json:"filename,omitempty"`
	ContentHash     string          `json:"content_hash,omitempty"`
	SchemaVersion   int             `json:"schema_version,omitempty"`
	RecordCount     int             `json:"record_count"`
	FragmentSummary FragmentSummary `json:"fragment_summary"`
	CleaningStats   CleaningStats   `json:"cleaning_stats"`
	Status          AuditStatus     `json:"status"`
	Timestamp       time.Time       `json:"timestamp"`
}

// IngestStats aggregates audit events, for one source or for all of them.
type IngestStats struct {
	SourceID       string `json:"source_id,omitempty"`
	TotalRuns      int    `json:"total_runs"`
	SuccessfulRuns int    `json:"successful_runs"`
	FailedRuns     int    `json:"failed_runs"`

	// TotalRecords sums the record counts of successful runs.
	TotalRecords int `json:"total_records"`

	// SuccessRate is the share of successful runs as a percentage rounded
	// to one decimal, 0 when there are no runs.
	SuccessRate float64 `json:"success_rate"`

	// ActiveVersions maps each source to its latest schema version.
	ActiveVersions map[string]int `json:"active_versions"`

	// LastRun is the time of the newest event, zero when there are none.
	LastRun time.Time `json:"last_run"`
}

// Succeeded reports whether the event ended with a stored or reused schema.
func (e AuditEvent) Succeeded() bool {
	return e.Status == AuditSuccess || e.Status == AuditReused
}
