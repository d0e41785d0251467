package driving

import (
	"context"

	"github.com/vibecraft/cadbook/internal/core/domain"
)

// DiscoveryService lists CAD assemblies without processing them.
type DiscoveryService interface {
	// Discover returns the assemblies under root in traversal order,
	// or lexicographically by path when sorted is true.
	Discover(ctx context.Context, root string, sorted bool) ([]domain.SourceDocument, error)
}
