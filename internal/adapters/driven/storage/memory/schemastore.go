package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/Sandiven/DataVerser/internal/core/domain"
	"github.com/Sandiven/DataVerser/internal/core/ports/driven"
)

// Ensure SchemaStore implements the interface.
var _ driven.SchemaStore = (*SchemaStore)(nil)

// SchemaStore is an in-memory implementation of driven.SchemaStore.
// A single mutex serialises compare-and-append across all sources. Versions
// are deep-copied in and out, so stored history never changes.
type SchemaStore struct {
	mu      sync.RWMutex
	history map[string][]domain.SchemaVersion
}

// NewSchemaStore creates a new in-memory schema store.
func NewSchemaStore() *SchemaStore {
	return &SchemaStore{
		history: make(map[string][]domain.SchemaVersion),
	}
}

// GetLatest returns the highest version for a source.
func (s *SchemaStore) GetLatest(_ context.Context, sourceID string) (*domain.SchemaVersion, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	versions := s.history[sourceID]
	if len(versions) == 0 {
		return nil, domain.ErrNotFound
	}
	v := versions[len(versions)-1].Clone()
	return &v, nil
}

// AppendIfLatestIs appends v when the latest version equals expectedVersion.
func (s *SchemaStore) AppendIfLatestIs(
	_ context.Context, sourceID string, expectedVersion int, v domain.SchemaVersion,
) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	versions := s.history[sourceID]
	if len(versions) != expectedVersion || v.Version != expectedVersion+1 {
		return domain.ErrVersionConflict
	}
	v = v.Clone()
	v.SourceID = sourceID
	s.history[sourceID] = append(versions, v)
	return nil
}

// ListHistory returns all versions for a source in ascending order.
func (s *SchemaStore) ListHistory(_ context.Context, sourceID string) ([]domain.SchemaVersion, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	versions := s.history[sourceID]
	out := make([]domain.SchemaVersion, len(versions))
	for i := range versions {
		out[i] = versions[i].Clone()
	}
	return out, nil
}

// GetVersion returns one version.
func (s *SchemaStore) GetVersion(_ context.Context, sourceID string, version int) (*domain.SchemaVersion, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	versions := s.history[sourceID]
	if version < 1 || version > len(versions) {
		return nil, domain.ErrNotFound
	}
	v := versions[version-1].Clone()
	return &v, nil
}

// ListSources returns every source with at least one version, sorted.
func (s *SchemaStore) ListSources(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sources := make([]string, 0, len(s.history))
	for id, versions := range s.history {
		if len(versions) > 0 {
			sources = append(sources, id)
		}
	}
	slices.Sort(sources)
	return sources, nil
}
