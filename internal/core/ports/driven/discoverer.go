package driven

import (
	"context"

	"github.com/vibecraft/cadbook/internal/core/domain"
)

// Discoverer finds CAD source documents beneath a root directory.
type Discoverer interface {
	// Discover walks root and returns matching source documents in
	// filesystem traversal order. An unreadable root is fatal; unreadable
	// subdirectories are skipped.
	Discover(ctx context.Context, root string) ([]domain.SourceDocument, error)
}
