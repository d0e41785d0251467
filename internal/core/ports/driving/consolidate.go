package driving

import (
	"context"

	"github.com/vibecraft/cadbook/internal/core/domain"
)

// ConsolidateRequest configures one handbook build.
type ConsolidateRequest struct {
	// InputDir holds the per-assembly instruction files.
	InputDir string

	// OutputPath is the handbook file. Empty means the configured default,
	// relative to the working directory.
	OutputPath string

	// Title and Subtitle override the configured title block when set.
	Title    string
	Subtitle string
}

// ConsolidateResult describes a written handbook.
type ConsolidateResult struct {
	OutputPath string
	Handbook   *domain.Handbook
	Bytes      int
}

// Count returns the number of manuals merged into the handbook.
func (r *ConsolidateResult) Count() int {
	if r == nil || r.Handbook == nil {
		return 0
	}
	return len(r.Handbook.Sections)
}

// ConsolidationService merges instruction files into one handbook.
type ConsolidationService interface {
	// Consolidate builds and writes the handbook. Returns
	// domain.ErrInputDirMissing when the input directory does not exist
	// and an error wrapping domain.ErrWriteFailed when the output cannot
	// be written.
	Consolidate(ctx context.Context, req ConsolidateRequest) (*ConsolidateResult, error)

	// Plan returns the documents that would be merged, in handbook order,
	// without writing anything.
	Plan(ctx context.Context, inputDir string) ([]domain.InstructionDocument, error)

	// Watch consolidates once, then again after every burst of changes to
	// instruction files, until ctx is cancelled. onBuild is called after
	// each attempt.
	Watch(ctx context.Context, req ConsolidateRequest, onBuild func(*ConsolidateResult, error)) error
}
