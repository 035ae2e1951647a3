package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	// uriScheme is the custom URI scheme for DataVerser resources.
	uriScheme = "dataverser://"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "sources",
		Name:        "sources",
		Description: "Sources with stored schema history",
		MIMEType:    "application/json",
	}, s.handleSourcesResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "sources/{sourceId}/history",
		Name:        "source-history",
		Description: "Schema versions of a specific source",
		MIMEType:    "application/json",
	}, s.handleHistoryResource)

	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "stats",
		Name:        "stats",
		Description: "Ingestion runs, records, success rate and active schema versions",
		MIMEType:    "application/json",
	}, s.handleStatsResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "sources/{sourceId}/stats",
		Name:        "source-stats",
		Description: "Ingestion statistics of a specific source",
		MIMEType:    "application/json",
	}, s.handleStatsResource)
}

// handleSourcesResource returns the IDs of all sources with history.
func (s *Server) handleSourcesResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	sources, err := s.ports.Schema.Sources(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing sources: %w", err)
	}
	return jsonResource(req.Params.URI, sources)
}

// handleHistoryResource returns the history of one source.
func (s *Server) handleHistoryResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	sourceID := extractSourceID(req.Params.URI, "/history")
	if sourceID == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	versions, err := s.ports.Schema.History(ctx, sourceID)
	if err != nil {
		return nil, fmt.Errorf("listing history: %w", err)
	}
	if len(versions) == 0 {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}
	return jsonResource(req.Params.URI, historyOutput(sourceID, versions))
}

// handleStatsResource aggregates ingestion statistics, for every source on
// dataverser://stats and for one source on its stats template.
func (s *Server) handleStatsResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	sourceID := ""
	if req.Params.URI != uriScheme+"stats" {
		if sourceID = extractSourceID(req.Params.URI, "/stats"); sourceID == "" {
			return nil, mcp.ResourceNotFoundError(req.Params.URI)
		}
	}

	stats, err := s.ports.Ingest.Stats(ctx, sourceID)
	if err != nil {
		return nil, fmt.Errorf("computing stats: %w", err)
	}
	return jsonResource(req.Params.URI, stats)
}

func jsonResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling resource: %w", err)
	}
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// extractSourceID extracts the source ID from a URI like
// dataverser://sources/{sourceId}/history, given the trailing segment.
func extractSourceID(uri, suffix string) string {
	const prefix = uriScheme + "sources/"

	if !strings.HasPrefix(uri, prefix) || !strings.HasSuffix(uri, suffix) {
		return ""
	}
	return strings.TrimSuffix(strings.TrimPrefix(uri, prefix), suffix)
}
