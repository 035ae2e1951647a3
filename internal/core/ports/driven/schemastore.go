package driven

import (
	"context"

	"github.com/Sandiven/DataVerser/internal/core/domain"
)

// SchemaStore persists the append-only schema history of each source.
// It is the system of record; in-memory state elsewhere is a cache.
type SchemaStore interface {
	// GetLatest returns the highest version for a source.
	// Returns domain.ErrNotFound if the source has no history.
	GetLatest(ctx context.Context, sourceID string) (*domain.SchemaVersion, error)

	// AppendIfLatestIs appends v only if the current latest version equals
	// expectedVersion (0 for an empty history) and v.Version is
	// expectedVersion+1. Returns domain.ErrVersionConflict otherwise.
	AppendIfLatestIs(ctx context.Context, sourceID string, expectedVersion int, v domain.SchemaVersion) error

	// ListHistory returns all versions for a source in ascending order.
	ListHistory(ctx context.Context, sourceID string) ([]domain.SchemaVersion, error)

	// GetVersion returns one version.
	// Returns domain.ErrNotFound if it does not exist.
	GetVersion(ctx context.Context, sourceID string, version int) (*domain.SchemaVersion, error)

	// ListSources returns every source with at least one version, sorted.
	ListSources(ctx context.Context) ([]string, error)
}
