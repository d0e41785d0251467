// Package tui provides a terminal progress display for batch runs.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/vibecraft/cadbook/internal/core/ports/driving"
)

// Ports aggregates the driving port interfaces required by the TUI.
type Ports struct {
	// Batch runs the extract-then-generate pipeline.
	Batch driving.BatchService
}

// NewPorts creates a new Ports aggregate with the given services.
func NewPorts(batch driving.BatchService) *Ports {
	return &Ports{Batch: batch}
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p == nil {
		return ErrInvalidPorts
	}
	if p.Batch == nil {
		return ErrMissingBatchService
	}
	return nil
}
