package mcp

import (
	"context"
	"errors"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/vibecraft/cadbook/internal/core/ports/driving"
)

// defaultHistoryLimit caps the history tool when no limit is given.
const defaultHistoryLimit = 10

var (
	errNoConsolidation = errors.New("consolidation service not configured")
	errNoHistory       = errors.New("history service not configured")
)

// DiscoverInput is the input schema for the discover tool.
type DiscoverInput struct {
	Root   string `json:"root" jsonschema:"project directory to scan for CAD assemblies"`
	Sorted bool   `json:"sorted,omitempty" jsonschema:"sort results by path instead of traversal order"`
}

// DiscoverOutput is the output schema for the discover tool.
type DiscoverOutput struct {
	Assemblies []AssemblyOutput `json:"assemblies"`
	Count      int              `json:"count"`
}

// AssemblyOutput is one discovered CAD assembly.
type AssemblyOutput struct {
	Path     string `json:"path"`
	BaseName string `json:"base_name"`
}

// PlanInput is the input schema for the plan tool.
type PlanInput struct {
	InputDir string `json:"input_dir" jsonschema:"directory holding the per-assembly instruction files"`
}

// PlanOutput lists instruction files in handbook order.
type PlanOutput struct {
	Documents []PlannedDocument `json:"documents"`
	Count     int               `json:"count"`
}

// PlannedDocument is one instruction file in handbook order.
type PlannedDocument struct {
	Name   string `json:"name"`
	Title  string `json:"title"`
	Anchor string `json:"anchor"`
}

// ConsolidateInput is the input schema for the consolidate tool.
type ConsolidateInput struct {
	InputDir   string `json:"input_dir" jsonschema:"directory holding the per-assembly instruction files"`
	OutputPath string `json:"output_path,omitempty" jsonschema:"handbook file to write (default: configured name in the working directory)"`
	Title      string `json:"title,omitempty" jsonschema:"handbook title override"`
	Subtitle   string `json:"subtitle,omitempty" jsonschema:"handbook subtitle override"`
}

// ConsolidateOutput describes the written handbook.
type ConsolidateOutput struct {
	OutputPath string   `json:"output_path"`
	Count      int      `json:"count"`
	Sections   []string `json:"sections"`
	Bytes      int      `json:"bytes"`
}

// HistoryInput is the input schema for the history tool.
type HistoryInput struct {
	Limit int `json:"limit,omitempty" jsonschema:"maximum number of runs to return (default 10)"`
}

// HistoryOutput lists recent batch runs.
type HistoryOutput struct {
	Runs  []RunOutput `json:"runs"`
	Count int         `json:"count"`
}

// RunOutput is the headline of one batch run.
type RunOutput struct {
	RunID     string `json:"run_id"`
	Root      string `json:"root"`
	OutputDir string `json:"output_dir,omitempty"`
	StartedAt string `json:"started_at"`
	EndedAt   string `json:"ended_at"`
	Succeeded int    `json:"succeeded"`
	Failed    int    `json:"failed"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "discover",
		Description: "List the CAD assemblies a batch run would process",
	}, s.handleDiscover)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "plan",
		Description: "Show instruction files in the order they would be merged into the handbook",
	}, s.handlePlan)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "consolidate",
		Description: "Merge instruction files into a single construction handbook",
	}, s.handleConsolidate)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "history",
		Description: "List recent batch runs with success and failure counts",
	}, s.handleHistory)
}

func (s *Server) handleDiscover(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input DiscoverInput,
) (*mcp.CallToolResult, DiscoverOutput, error) {
	docs, err := s.ports.Discovery.Discover(ctx, input.Root, input.Sorted)
	if err != nil {
		return nil, DiscoverOutput{}, err
	}

	output := DiscoverOutput{
		Assemblies: make([]AssemblyOutput, len(docs)),
		Count:      len(docs),
	}
	for i, doc := range docs {
		output.Assemblies[i] = AssemblyOutput{Path: doc.Path, BaseName: doc.BaseName}
	}
	return nil, output, nil
}

func (s *Server) handlePlan(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input PlanInput,
) (*mcp.CallToolResult, PlanOutput, error) {
	if s.ports.Consolidation == nil {
		return nil, PlanOutput{}, errNoConsolidation
	}

	docs, err := s.ports.Consolidation.Plan(ctx, input.InputDir)
	if err != nil {
		return nil, PlanOutput{}, err
	}

	output := PlanOutput{
		Documents: make([]PlannedDocument, len(docs)),
		Count:     len(docs),
	}
	for i, doc := range docs {
		output.Documents[i] = PlannedDocument{Name: doc.Name, Title: doc.Title, Anchor: doc.Anchor}
	}
	return nil, output, nil
}

func (s *Server) handleConsolidate(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ConsolidateInput,
) (*mcp.CallToolResult, ConsolidateOutput, error) {
	if s.ports.Consolidation == nil {
		return nil, ConsolidateOutput{}, errNoConsolidation
	}

	result, err := s.ports.Consolidation.Consolidate(ctx, driving.ConsolidateRequest{
		InputDir:   input.InputDir,
		OutputPath: input.OutputPath,
		Title:      input.Title,
		Subtitle:   input.Subtitle,
	})
	if err != nil {
		return nil, ConsolidateOutput{}, err
	}

	output := ConsolidateOutput{
		OutputPath: result.OutputPath,
		Count:      result.Count(),
		Bytes:      result.Bytes,
		Sections:   []string{},
	}
	if result.Handbook != nil {
		for _, section := range result.Handbook.Sections {
			output.Sections = append(output.Sections, section.Title)
		}
	}
	return nil, output, nil
}

func (s *Server) handleHistory(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input HistoryInput,
) (*mcp.CallToolResult, HistoryOutput, error) {
	if s.ports.History == nil {
		return nil, HistoryOutput{}, errNoHistory
	}

	limit := input.Limit
	if limit <= 0 {
		limit = defaultHistoryLimit
	}

	runs, err := s.ports.History.List(ctx, limit)
	if err != nil {
		return nil, HistoryOutput{}, err
	}

	output := HistoryOutput{
		Runs:  make([]RunOutput, len(runs)),
		Count: len(runs),
	}
	for i, run := range runs {
		output.Runs[i] = RunOutput{
			RunID:     run.RunID,
			Root:      run.Root,
			OutputDir: run.OutputDir,
			StartedAt: run.StartedAt.Format(time.RFC3339),
			EndedAt:   run.EndedAt.Format(time.RFC3339),
			Succeeded: run.Succeeded,
			Failed:    run.Failed,
		}
	}
	return nil, output, nil
}
