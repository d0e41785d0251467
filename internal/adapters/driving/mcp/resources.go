package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	// uriScheme is the custom URI scheme for cadbook resources.
	uriScheme = "cadbook://"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "runs",
		Name:        "runs",
		Description: "Recent batch runs",
		MIMEType:    "application/json",
	}, s.handleRunsResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "runs/{runId}",
		Name:        "run",
		Description: "Per-file outcomes of one batch run",
		MIMEType:    "application/json",
	}, s.handleRunResource)
}

// handleRunsResource returns recent run summaries.
func (s *Server) handleRunsResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.History == nil {
		return jsonResource(req.Params.URI, "[]"), nil
	}

	runs, err := s.ports.History.List(ctx, defaultHistoryLimit)
	if err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}

	data, err := json.MarshalIndent(runs, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling runs: %w", err)
	}
	return jsonResource(req.Params.URI, string(data)), nil
}

// handleRunResource returns one run with its outcomes.
func (s *Server) handleRunResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.History == nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	runID := extractRunID(req.Params.URI)
	if runID == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	run, err := s.ports.History.Get(ctx, runID)
	if err != nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	type outcomeInfo struct {
		Source    string `json:"source"`
		Succeeded bool   `json:"succeeded"`
		Stage     string `json:"stage"`
		Kind      string `json:"failure_kind,omitempty"`
		Error     string `json:"error,omitempty"`
	}
	infos := make([]outcomeInfo, len(run.Outcomes))
	for i, o := range run.Outcomes {
		infos[i] = outcomeInfo{
			Source:    o.Source,
			Succeeded: o.Succeeded,
			Stage:     string(o.Stage),
			Kind:      string(o.Kind),
			Error:     o.Error,
		}
	}

	data, err := json.MarshalIndent(map[string]any{
		"run_id":     run.RunID,
		"root":       run.Root,
		"started_at": run.StartedAt,
		"ended_at":   run.EndedAt,
		"outcomes":   infos,
	}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling run: %w", err)
	}
	return jsonResource(req.Params.URI, string(data)), nil
}

func jsonResource(uri, text string) *mcp.ReadResourceResult {
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     text,
		}},
	}
}

// extractRunID extracts the run ID from a URI like cadbook://runs/{runId}.
func extractRunID(uri string) string {
	const prefix = uriScheme + "runs/"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}
	return strings.Trim(strings.TrimPrefix(uri, prefix), "/")
}
