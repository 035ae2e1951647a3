package driven

import (
	"context"

	"github.com/Sandiven/DataVerser/internal/core/domain"
)

// AuditSink receives ingestion events.
// Sink failures must never fail an ingestion.
type AuditSink interface {
	// Record stores an event.
	Record(ctx context.Context, event domain.AuditEvent) error

	// List returns the newest events first, optionally for one source.
	// An empty sourceID lists all sources; limit <= 0 means no limit.
	List(ctx context.Context, sourceID string, limit int) ([]domain.AuditEvent, error)
}
