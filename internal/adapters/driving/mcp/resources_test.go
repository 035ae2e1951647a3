package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sandiven/DataVerser/internal/core/domain"
)

func makeReadResourceRequest(uri string) *mcp.ReadResourceRequest {
	return &mcp.ReadResourceRequest{
		Params: &mcp.ReadResourceParams{URI: uri},
	}
}

func TestServer_handleSourcesResource(t *testing.T) {
	ctx := context.Background()

	t.Run("returns source list", func(t *testing.T) {
		ports, _, schema := newTestPorts()
		schema.sources = []string{"invoices", "orders"}
		server, err := NewServer(ports)
		require.NoError(t, err)

		result, err := server.handleSourcesResource(ctx, makeReadResourceRequest("dataverser://sources"))

		require.NoError(t, err)
		require.Len(t, result.Contents, 1)
		assert.Equal(t, "application/json", result.Contents[0].MIMEType)

		var sources []string
		require.NoError(t, json.Unmarshal([]byte(result.Contents[0].Text), &sources))
		assert.Equal(t, []string{"invoices", "orders"}, sources)
	})

	t.Run("returns error on failure", func(t *testing.T) {
		ports, _, schema := newTestPorts()
		schema.err = errors.New("db down")
		server, err := NewServer(ports)
		require.NoError(t, err)

		_, err = server.handleSourcesResource(ctx, makeReadResourceRequest("dataverser://sources"))
		assert.Error(t, err)
	})
}

func TestServer_handleHistoryResource(t *testing.T) {
	ctx := context.Background()

	t.Run("returns history", func(t *testing.T) {
		ports, _, schema := newTestPorts()
		schema.versions = []domain.SchemaVersion{
			{SourceID: "orders", Version: 1, MigrationNotes: "Initial schema"},
			{SourceID: "orders", Version: 2, MigrationNotes: "Added field 'total' (float)"},
		}
		server, err := NewServer(ports)
		require.NoError(t, err)

		uri := "dataverser://sources/orders/history"
		result, err := server.handleHistoryResource(ctx, makeReadResourceRequest(uri))

		require.NoError(t, err)
		require.Len(t, result.Contents, 1)
		assert.Equal(t, uri, result.Contents[0].URI)

		var history HistoryOutput
		require.NoError(t, json.Unmarshal([]byte(result.Contents[0].Text), &history))
		assert.Equal(t, "orders", history.SourceID)
		assert.Len(t, history.Versions, 2)
	})

	t.Run("unknown source is not found", func(t *testing.T) {
		ports, _, _ := newTestPorts()
		server, err := NewServer(ports)
		require.NoError(t, err)

		_, err = server.handleHistoryResource(ctx, makeReadResourceRequest("dataverser://sources/missing/history"))
		assert.Error(t, err)
	})

	t.Run("malformed uri is not found", func(t *testing.T) {
		ports, _, _ := newTestPorts()
		server, err := NewServer(ports)
		require.NoError(t, err)

		_, err = server.handleHistoryResource(ctx, makeReadResourceRequest("dataverser://other"))
		assert.Error(t, err)
	})
}

func TestServer_handleStatsResource(t *testing.T) {
	ctx := context.Background()

	t.Run("all sources", func(t *testing.T) {
		ports, ingest, _ := newTestPorts()
		ingest.stats = &domain.IngestStats{
			TotalRuns:      4,
			SuccessfulRuns: 3,
			FailedRuns:     1,
			TotalRecords:   12,
			SuccessRate:    75,
			ActiveVersions: map[string]int{"orders": 2},
		}
		server, err := NewServer(ports)
		require.NoError(t, err)

		result, err := server.handleStatsResource(ctx, makeReadResourceRequest("dataverser://stats"))

		require.NoError(t, err)
		require.Len(t, result.Contents, 1)
		var got domain.IngestStats
		require.NoError(t, json.Unmarshal([]byte(result.Contents[0].Text), &got))
		assert.Equal(t, 12, got.TotalRecords)
		assert.InDelta(t, 75.0, got.SuccessRate, 1e-9)
		assert.Equal(t, map[string]int{"orders": 2}, got.ActiveVersions)
		assert.Empty(t, ingest.lastStatsSource)
	})

	t.Run("one source", func(t *testing.T) {
		ports, ingest, _ := newTestPorts()
		ingest.stats = &domain.IngestStats{SourceID: "orders"}
		server, err := NewServer(ports)
		require.NoError(t, err)

		_, err = server.handleStatsResource(ctx, makeReadResourceRequest("dataverser://sources/orders/stats"))

		require.NoError(t, err)
		assert.Equal(t, "orders", ingest.lastStatsSource)
	})

	t.Run("bad uri", func(t *testing.T) {
		ports, _, _ := newTestPorts()
		server, err := NewServer(ports)
		require.NoError(t, err)

		_, err = server.handleStatsResource(ctx, makeReadResourceRequest("dataverser://sources/orders"))
		assert.Error(t, err)
	})

	t.Run("service failure", func(t *testing.T) {
		ports, ingest, _ := newTestPorts()
		ingest.err = errors.New("db down")
		server, err := NewServer(ports)
		require.NoError(t, err)

		_, err = server.handleStatsResource(ctx, makeReadResourceRequest("dataverser://stats"))
		assert.ErrorContains(t, err, "db down")
	})
}

func TestExtractSourceID(t *testing.T) {
	tests := []struct {
		uri    string
		suffix string
		want   string
	}{
		{uri: "dataverser://sources/orders/history", suffix: "/history", want: "orders"},
		{uri: "dataverser://sources/a-b_c/history", suffix: "/history", want: "a-b_c"},
		{uri: "dataverser://sources/orders/stats", suffix: "/stats", want: "orders"},
		{uri: "dataverser://sources/orders/stats", suffix: "/history", want: ""},
		{uri: "dataverser://sources/orders", suffix: "/history", want: ""},
		{uri: "other://sources/orders/history", suffix: "/history", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.uri+tt.suffix, func(t *testing.T) {
			assert.Equal(t, tt.want, extractSourceID(tt.uri, tt.suffix))
		})
	}
}
