package driven

import (
	"context"

	"github.com/vibecraft/cadbook/internal/core/domain"
)

// InstructionContent is the parsed content of one instruction file.
type InstructionContent struct {
	// Title overrides the filename-derived title when non-empty.
	// It comes from a leading YAML front matter block.
	Title string

	// Body is the file content with any front matter removed.
	Body string
}

// InstructionStore reads per-assembly Markdown instruction files.
type InstructionStore interface {
	// List returns the instruction files directly inside dir whose names
	// end with suffix. Order is unspecified. Returns
	// domain.ErrInputDirMissing when dir does not exist.
	List(ctx context.Context, dir, suffix string) ([]domain.InstructionDocument, error)

	// Read loads one instruction file.
	Read(ctx context.Context, path string) (*InstructionContent, error)
}

// HandbookWriter persists the rendered handbook.
type HandbookWriter interface {
	// WriteHandbook replaces path with content. A reader never observes a
	// partially written file. Failures wrap domain.ErrWriteFailed.
	WriteHandbook(ctx context.Context, path string, content []byte) error
}
