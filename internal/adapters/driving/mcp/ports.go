package mcp

import (
	"github.com/vibecraft/cadbook/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Discovery lists CAD assemblies under a project root.
	Discovery driving.DiscoveryService

	// Consolidation builds handbooks from instruction files.
	Consolidation driving.ConsolidationService

	// History exposes past batch runs.
	History driving.HistoryService
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Discovery == nil {
		return ErrMissingDiscoveryService
	}
	// Consolidation and History are optional; their tools report an error when unset.
	return nil
}
