package memory

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sandiven/DataVerser/internal/core/domain"
)

func version(n int, fields ...string) domain.SchemaVersion {
	schema := domain.Schema{ID: fmt.Sprintf("schema-%d", n)}
	for _, f := range fields {
		schema.Fields = append(schema.Fields, domain.Field{Name: f, Type: domain.TypeString})
	}
	return domain.SchemaVersion{Version: n, Schema: schema}
}

func TestSchemaStore_EmptyHistory(t *testing.T) {
	store := NewSchemaStore()
	ctx := context.Background()

	_, err := store.GetLatest(ctx, "orders")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	history, err := store.ListHistory(ctx, "orders")
	require.NoError(t, err)
	assert.Empty(t, history)

	sources, err := store.ListSources(ctx)
	require.NoError(t, err)
	assert.Empty(t, sources)
}

func TestSchemaStore_AppendIfLatestIs(t *testing.T) {
	store := NewSchemaStore()
	ctx := context.Background()

	require.NoError(t, store.AppendIfLatestIs(ctx, "orders", 0, version(1, "id")))
	require.NoError(t, store.AppendIfLatestIs(ctx, "orders", 1, version(2, "id", "total")))

	latest, err := store.GetLatest(ctx, "orders")
	require.NoError(t, err)
	assert.Equal(t, 2, latest.Version)
	assert.Equal(t, "orders", latest.SourceID)

	v1, err := store.GetVersion(ctx, "orders", 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"id"}, v1.Schema.FieldNames())

	_, err = store.GetVersion(ctx, "orders", 3)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = store.GetVersion(ctx, "orders", 0)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSchemaStore_AppendConflicts(t *testing.T) {
	store := NewSchemaStore()
	ctx := context.Background()
	require.NoError(t, store.AppendIfLatestIs(ctx, "orders", 0, version(1, "id")))

	tests := []struct {
		name     string
		expected int
		v        domain.SchemaVersion
	}{
		{"stale expected version", 0, version(1, "id")},
		{"ahead of history", 2, version(3, "id")},
		{"version not next", 1, version(5, "id")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := store.AppendIfLatestIs(ctx, "orders", tt.expected, tt.v)
			assert.ErrorIs(t, err, domain.ErrVersionConflict)
		})
	}

	history, err := store.ListHistory(ctx, "orders")
	require.NoError(t, err)
	assert.Len(t, history, 1)
}

func TestSchemaStore_ConcurrentAppendSingleWinner(t *testing.T) {
	store := NewSchemaStore()
	ctx := context.Background()
	var wins atomic.Int32
	var wg sync.WaitGroup

	for range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if store.AppendIfLatestIs(ctx, "orders", 0, version(1, "id")) == nil {
				wins.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), wins.Load())
}

func TestSchemaStore_ListSources_Sorted(t *testing.T) {
	store := NewSchemaStore()
	ctx := context.Background()
	for _, id := range []string{"zeta", "alpha", "mid"} {
		require.NoError(t, store.AppendIfLatestIs(ctx, id, 0, version(1, "id")))
	}

	sources, err := store.ListSources(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha", "mid", "zeta"}, sources)
}

func TestSchemaStore_HistoryIsCopy(t *testing.T) {
	store := NewSchemaStore()
	ctx := context.Background()
	require.NoError(t, store.AppendIfLatestIs(ctx, "orders", 0, version(1, "id")))

	history, err := store.ListHistory(ctx, "orders")
	require.NoError(t, err)
	history[0].Version = 99

	latest, err := store.GetLatest(ctx, "orders")
	require.NoError(t, err)
	assert.Equal(t, 1, latest.Version)
}

func TestSchemaStore_ReturnedVersionsShareNothing(t *testing.T) {
	store := NewSchemaStore()
	ctx := context.Background()

	v1 := version(1, "id", "name")
	v1.Schema.PrimaryKeyCandidates = []string{"id"}
	require.NoError(t, store.AppendIfLatestIs(ctx, "orders", 0, v1))

	v2 := version(2, "id", "name", "total")
	v2.Diff = &domain.SchemaDiff{Added: []domain.Field{{Name: "total", Type: domain.TypeDecimal}}}
	require.NoError(t, store.AppendIfLatestIs(ctx, "orders", 1, v2))

	// Mutating the appended value must not reach the store.
	v1.Schema.Fields[0].Name = "appended"
	v1.Schema.PrimaryKeyCandidates[0] = "appended"
	v2.Diff.Added[0].Name = "appended"

	latest, err := store.GetLatest(ctx, "orders")
	require.NoError(t, err)
	latest.Schema.Fields[0].Name = "latest"
	latest.Diff.Added[0].Name = "latest"
	latest.Diff.Removed = append(latest.Diff.Removed, domain.Field{Name: "ghost"})

	first, err := store.GetVersion(ctx, "orders", 1)
	require.NoError(t, err)
	first.Schema.PrimaryKeyCandidates[0] = "version"

	history, err := store.ListHistory(ctx, "orders")
	require.NoError(t, err)
	history[0].Schema.Fields[1].Name = "history"
	history[1].Diff.Added[0].Type = domain.TypeString

	stored, err := store.ListHistory(ctx, "orders")
	require.NoError(t, err)
	require.Len(t, stored, 2)
	assert.Equal(t, []string{"id", "name"}, stored[0].Schema.FieldNames())
	assert.Equal(t, []string{"id"}, stored[0].Schema.PrimaryKeyCandidates)
	assert.Equal(t, []string{"id", "name", "total"}, stored[1].Schema.FieldNames())
	require.NotNil(t, stored[1].Diff)
	assert.Equal(t, []domain.Field{{Name: "total", Type: domain.TypeDecimal}}, stored[1].Diff.Added)
	assert.Empty(t, stored[1].Diff.Removed)
}
