package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sandiven/DataVerser/internal/core/domain"
	"github.com/Sandiven/DataVerser/internal/core/ports/driving"
)

func TestIngestService_Stats(t *testing.T) {
	f := newIngestFixture()
	ctx := context.Background()
	clock := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	f.service.now = func() time.Time {
		clock = clock.Add(time.Minute)
		return clock
	}

	_, err := f.service.Ingest(ctx, driving.IngestRequest{SourceID: "people", Content: []byte(peopleCSV)})
	require.NoError(t, err)
	_, err = f.service.Ingest(ctx, driving.IngestRequest{SourceID: "people", Content: []byte("id,name,email\n3,Linus,l@example.com\n")})
	require.NoError(t, err)
	_, err = f.service.Ingest(ctx, driving.IngestRequest{
		SourceID: "orders",
		Content:  []byte("id,total\n1,2.5\n"),
		Rules:    &domain.ValidationRules{Required: []string{"customer"}},
	})
	require.Error(t, err)

	stats, err := f.service.Stats(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, 3, stats.TotalRuns)
	assert.Equal(t, 2, stats.SuccessfulRuns)
	assert.Equal(t, 1, stats.FailedRuns)
	assert.Equal(t, 3, stats.TotalRecords)
	assert.InDelta(t, 66.7, stats.SuccessRate, 1e-9)
	assert.Equal(t, map[string]int{"people": 2}, stats.ActiveVersions)
	assert.True(t, clock.Equal(stats.LastRun))

	people, err := f.service.Stats(ctx, "people")
	require.NoError(t, err)
	assert.Equal(t, "people", people.SourceID)
	assert.Equal(t, 2, people.TotalRuns)
	assert.InDelta(t, 100.0, people.SuccessRate, 1e-9)
	assert.Equal(t, map[string]int{"people": 2}, people.ActiveVersions)

	orders, err := f.service.Stats(ctx, "orders")
	require.NoError(t, err)
	assert.Equal(t, 1, orders.FailedRuns)
	assert.Zero(t, orders.SuccessRate)
	assert.Empty(t, orders.ActiveVersions)
}

func TestIngestService_Stats_NoRuns(t *testing.T) {
	f := newIngestFixture()

	stats, err := f.service.Stats(context.Background(), "")

	require.NoError(t, err)
	assert.Zero(t, stats.TotalRuns)
	assert.Zero(t, stats.SuccessRate)
	assert.True(t, stats.LastRun.IsZero())
	assert.Empty(t, stats.ActiveVersions)
}

func TestIngestService_Stats_NotConfigured(t *testing.T) {
	service := NewIngestService(nil, nil, nil, nil, domain.DefaultSettings())

	_, err := service.Stats(context.Background(), "")

	assert.ErrorIs(t, err, domain.ErrNotImplemented)
}
