package services

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/Sandiven/DataVerser/internal/core/domain"
)

// Stats aggregates the audit trail and the latest schema version of each
// source. An empty sourceID covers every source.
func (s *IngestService) Stats(ctx context.Context, sourceID string) (*domain.IngestStats, error) {
	if s.audit == nil || s.schemas == nil {
		return nil, domain.ErrNotImplemented
	}

	events, err := s.audit.List(ctx, sourceID, 0)
	if err != nil {
		return nil, fmt.Errorf("listing audit events: %w", err)
	}

	stats := &domain.IngestStats{SourceID: sourceID, ActiveVersions: map[string]int{}}
	for _, e := range events {
		stats.TotalRuns++
		if e.Succeeded() {
			stats.SuccessfulRuns++
			stats.TotalRecords += e.RecordCount
		} else {
			stats.FailedRuns++
		}
		if e.Timestamp.After(stats.LastRun) {
			stats.LastRun = e.Timestamp
		}
	}
	if stats.TotalRuns > 0 {
		rate := float64(stats.SuccessfulRuns) / float64(stats.TotalRuns) * 100
		stats.SuccessRate = math.Round(rate*10) / 10
	}

	sources := []string{sourceID}
	if sourceID == "" {
		if sources, err = s.schemas.Sources(ctx); err != nil {
			return nil, fmt.Errorf("listing sources: %w", err)
		}
	}
	for _, src := range sources {
		latest, err := s.schemas.Latest(ctx, src)
		if errors.Is(err, domain.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("reading latest version of %q: %w", src, err)
		}
		stats.ActiveVersions[src] = latest.Version
	}

	return stats, nil
}
