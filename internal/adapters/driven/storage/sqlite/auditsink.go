package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/Sandiven/DataVerser/internal/core/domain"
	"github.com/Sandiven/DataVerser/internal/core/ports/driven"
)

// auditSink implements driven.AuditSink over the audit_events table.
type auditSink struct {
	store *Store
}

var _ driven.AuditSink = (*auditSink)(nil)

// Record stores an event.
func (s *auditSink) Record(ctx context.Context, event domain.AuditEvent) error {
	summaryJSON, err := json.Marshal(event.FragmentSummary)
	if err != nil {
		return fmt.Errorf("marshalling fragment summary: %w", err)
	}
	cleaningJSON, err := json.Marshal(event.CleaningStats)
	if err != nil {
		return fmt.Errorf("marshalling cleaning stats: %w", err)
	}

	_, err = s.store.db.ExecContext(ctx, `
		INSERT INTO audit_events (id, source_id, message, filename, content_hash,
			schema_version, record_count, fragment_summary, cleaning_stats, status, timestamp)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, event.ID, event.SourceID, event.Message, event.Filename, event.ContentHash,
		event.SchemaVersion, event.RecordCount, string(summaryJSON), string(cleaningJSON), string(event.Status),
		event.Timestamp.UTC())
	if err != nil {
		return fmt.Errorf("saving audit event: %w", err)
	}
	return nil
}

// List returns the newest events first, optionally for one source.
func (s *auditSink) List(ctx context.Context, sourceID string, limit int) ([]domain.AuditEvent, error) {
	query := `
		SELECT id, source_id, message, filename, content_hash, schema_version,
			record_count, fragment_summary, cleaning_stats, status, timestamp
		FROM audit_events
		WHERE (? = '' OR source_id = ?)
		ORDER BY rowid DESC`
	args := []any{sourceID, sourceID}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.store.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying audit events: %w", err)
	}
	defer rows.Close()

	events := []domain.AuditEvent{}
	for rows.Next() {
		var e domain.AuditEvent
		var summaryJSON, cleaningJSON, status string
		var timestamp sql.NullTime
		if err := rows.Scan(&e.ID, &e.SourceID, &e.Message, &e.Filename, &e.ContentHash,
			&e.SchemaVersion, &e.RecordCount, &summaryJSON, &cleaningJSON, &status, &timestamp); err != nil {
			return nil, fmt.Errorf("scanning audit event: %w", err)
		}
		if err := json.Unmarshal([]byte(summaryJSON), &e.FragmentSummary); err != nil {
			return nil, fmt.Errorf("unmarshaling fragment summary: %w", err)
		}
		if err := json.Unmarshal([]byte(cleaningJSON), &e.CleaningStats); err != nil {
			return nil, fmt.Errorf("unmarshaling cleaning stats: %w", err)
		}
		e.Status = domain.AuditStatus(status)
		if timestamp.Valid {
			e.Timestamp = timestamp.Time
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating audit events: %w", err)
	}
	return events, nil
}
