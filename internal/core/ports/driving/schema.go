package driving

import (
	"context"

	"github.com/Sandiven/DataVerser/internal/core/domain"
)

// SchemaService manages versioned schema history per source.
type SchemaService interface {
	// Submit stores a candidate schema as the next version of a source.
	// If the latest version has the same signature it is returned unchanged
	// with reused set to true.
	Submit(ctx context.Context, sourceID string, candidate domain.Schema) (version *domain.SchemaVersion, reused bool, err error)

	// History returns every version of a source in ascending order.
	History(ctx context.Context, sourceID string) ([]domain.SchemaVersion, error)

	// Latest returns the newest version of a source.
	Latest(ctx context.Context, sourceID string) (*domain.SchemaVersion, error)

	// Version returns one version of a source.
	Version(ctx context.Context, sourceID string, version int) (*domain.SchemaVersion, error)

	// Sources lists all sources with history.
	Sources(ctx context.Context) ([]string, error)

	// GenerateMigration renders migration text between two versions.
	// from == 0 renders creation; to == 0 means the latest version.
	GenerateMigration(ctx context.Context, sourceID string, from, to int, target domain.MigrationTarget) (string, error)
}
