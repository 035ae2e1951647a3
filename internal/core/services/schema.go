package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Sandiven/DataVerser/internal/core/domain"
	"github.com/Sandiven/DataVerser/internal/core/ports/driven"
	"github.com/Sandiven/DataVerser/internal/core/ports/driving"
	"github.com/Sandiven/DataVerser/internal/evolution"
	"github.com/Sandiven/DataVerser/internal/logger"
)

// Ensure SchemaService implements the interface.
var _ driving.SchemaService = (*SchemaService)(nil)

// SchemaService assigns versions to candidate schemas and renders
// migrations between them. The store is the only shared state.
type SchemaService struct {
	store     driven.SchemaStore
	evolution domain.EvolutionSettings
	migration domain.MigrationSettings
	now       func() time.Time
}

// NewSchemaService creates a new schema service.
func NewSchemaService(store driven.SchemaStore, settings domain.Settings) *SchemaService {
	return &SchemaService{
		store:     store,
		evolution: settings.Evolution,
		migration: settings.Migration,
		now:       time.Now,
	}
}

// Submit stores candidate as the next version of sourceID. A candidate with
// the latest version's signature is not stored again.
func (s *SchemaService) Submit(
	ctx context.Context, sourceID string, candidate domain.Schema,
) (*domain.SchemaVersion, bool, error) {
	if s.store == nil {
		return nil, false, domain.ErrNotImplemented
	}
	if sourceID == "" {
		return nil, false, fmt.Errorf("%w: source id is required", domain.ErrInvalidInput)
	}
	if len(candidate.Fields) == 0 {
		return nil, false, domain.ErrEmptySchema
	}

	attempts := max(s.evolution.MaxSubmitRetries, 0) + 1
	for attempt := 1; attempt <= attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, false, err
		}

		prev, err := s.store.GetLatest(ctx, sourceID)
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			return nil, false, fmt.Errorf("get latest schema: %w", err)
		}
		if prev != nil && prev.Schema.Signature() == candidate.Signature() {
			logger.Debug("schema for %s unchanged at version %d", sourceID, prev.Version)
			return prev, true, nil
		}

		v := s.nextVersion(sourceID, prev, candidate)
		err = s.store.AppendIfLatestIs(ctx, sourceID, v.Version-1, v)
		if err == nil {
			logger.Info("stored schema %s version %d (%s)", sourceID, v.Version, v.MigrationNotes)
			return &v, false, nil
		}
		if !errors.Is(err, domain.ErrVersionConflict) {
			return nil, false, fmt.Errorf("append schema version: %w", err)
		}
		logger.Warn("version conflict for %s at version %d (attempt %d/%d)", sourceID, v.Version, attempt, attempts)
	}

	return nil, false, fmt.Errorf("submit schema for %q after %d attempts: %w",
		sourceID, attempts, domain.ErrVersionConflict)
}

func (s *SchemaService) nextVersion(
	sourceID string, prev *domain.SchemaVersion, candidate domain.Schema,
) domain.SchemaVersion {
	var old *domain.Schema
	expected := 0
	if prev != nil {
		old = &prev.Schema
		expected = prev.Version
	}

	diff := evolution.DetectChanges(old, candidate, s.evolution)
	notes := evolution.InitialNotes
	if prev != nil {
		notes = evolution.MigrationNotes(diff)
	}

	return domain.SchemaVersion{
		SourceID:       sourceID,
		Version:        expected + 1,
		Schema:         candidate,
		Diff:           &diff,
		MigrationNotes: notes,
		CreatedAt:      s.now().UTC(),
	}
}

// History returns every version of a source in ascending order.
func (s *SchemaService) History(ctx context.Context, sourceID string) ([]domain.SchemaVersion, error) {
	if s.store == nil {
		return nil, domain.ErrNotImplemented
	}
	return s.store.ListHistory(ctx, sourceID)
}

// Latest returns the newest version of a source.
func (s *SchemaService) Latest(ctx context.Context, sourceID string) (*domain.SchemaVersion, error) {
	if s.store == nil {
		return nil, domain.ErrNotImplemented
	}
	return s.store.GetLatest(ctx, sourceID)
}

// Version returns one version of a source.
func (s *SchemaService) Version(ctx context.Context, sourceID string, version int) (*domain.SchemaVersion, error) {
	if s.store == nil {
		return nil, domain.ErrNotImplemented
	}
	return s.store.GetVersion(ctx, sourceID, version)
}

// Sources lists all sources with history.
func (s *SchemaService) Sources(ctx context.Context) ([]string, error) {
	if s.store == nil {
		return nil, domain.ErrNotImplemented
	}
	return s.store.ListSources(ctx)
}

// GenerateMigration renders the migration from version from to version to.
// from == 0 renders the creation of version to; to == 0 means the latest
// version.
func (s *SchemaService) GenerateMigration(
	ctx context.Context, sourceID string, from, to int, target domain.MigrationTarget,
) (string, error) {
	if s.store == nil {
		return "", domain.ErrNotImplemented
	}
	if !target.IsValid() {
		return "", fmt.Errorf("migration target %q: %w", target, domain.ErrUnsupportedType)
	}
	if to == 0 {
		latest, err := s.store.GetLatest(ctx, sourceID)
		if err != nil {
			return "", fmt.Errorf("get latest version: %w", err)
		}
		to = latest.Version
	}
	if from < 0 || from >= to {
		return "", fmt.Errorf("%w: from version %d must precede to version %d", domain.ErrInvalidInput, from, to)
	}

	newer, err := s.store.GetVersion(ctx, sourceID, to)
	if err != nil {
		return "", fmt.Errorf("get version %d: %w", to, err)
	}

	if from == 0 {
		if target.IsRelational() {
			return evolution.CreateTableDDL(newer.Schema, s.migration.Table), nil
		}
		return evolution.CreateCollection(newer.Schema, s.migration.Collection)
	}

	older, err := s.store.GetVersion(ctx, sourceID, from)
	if err != nil {
		return "", fmt.Errorf("get version %d: %w", from, err)
	}

	// Adjacent versions keep the diff recorded at submit time.
	diff := evolution.DetectChanges(&older.Schema, newer.Schema, s.evolution)
	if to == from+1 && newer.Diff != nil {
		diff = *newer.Diff
	}

	artifact, err := evolution.GenerateArtifacts(diff, target, s.migration)
	if err != nil {
		return "", err
	}
	return artifact.String(), nil
}
