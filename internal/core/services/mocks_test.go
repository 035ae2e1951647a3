package services

import (
	"context"
	"errors"
	"sync"

	"github.com/Sandiven/DataVerser/internal/adapters/driven/storage/memory"
	"github.com/Sandiven/DataVerser/internal/core/domain"
)

var errStoreDown = errors.New("store down")

// racingSchemaStore loses the next `conflicts` appends as if another writer
// appended first.
type racingSchemaStore struct {
	*memory.SchemaStore
	mu        sync.Mutex
	conflicts int
	appends   int
}

func newRacingSchemaStore(conflicts int) *racingSchemaStore {
	return &racingSchemaStore{SchemaStore: memory.NewSchemaStore(), conflicts: conflicts}
}

func (s *racingSchemaStore) AppendIfLatestIs(
	ctx context.Context, sourceID string, expectedVersion int, v domain.SchemaVersion,
) error {
	s.mu.Lock()
	s.appends++
	lose := s.conflicts > 0
	if lose {
		s.conflicts--
	}
	s.mu.Unlock()
	if lose {
		return domain.ErrVersionConflict
	}
	return s.SchemaStore.AppendIfLatestIs(ctx, sourceID, expectedVersion, v)
}

// brokenSchemaStore fails every read.
type brokenSchemaStore struct {
	*memory.SchemaStore
}

func (s *brokenSchemaStore) GetLatest(context.Context, string) (*domain.SchemaVersion, error) {
	return nil, errStoreDown
}

// brokenAuditSink fails every write.
type brokenAuditSink struct{}

func (brokenAuditSink) Record(context.Context, domain.AuditEvent) error {
	return errStoreDown
}

func (brokenAuditSink) List(context.Context, string, int) ([]domain.AuditEvent, error) {
	return nil, errStoreDown
}

// failingExtractor fails every extraction.
type failingExtractor struct {
	err error
}

func (e failingExtractor) Extract(context.Context, domain.RawInput) ([]domain.Fragment, domain.FragmentSummary, error) {
	return nil, domain.FragmentSummary{}, e.err
}
