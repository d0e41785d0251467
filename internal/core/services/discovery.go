package services

import (
	"context"
	"fmt"
	"sort"

	"github.com/vibecraft/cadbook/internal/core/domain"
	"github.com/vibecraft/cadbook/internal/core/ports/driven"
	"github.com/vibecraft/cadbook/internal/core/ports/driving"
	"github.com/vibecraft/cadbook/internal/logger"
)

// Ensure DiscoveryService implements the interface.
var _ driving.DiscoveryService = (*DiscoveryService)(nil)

// DiscoveryService lists candidate source documents under a root.
type DiscoveryService struct {
	discoverer driven.Discoverer
}

// NewDiscoveryService creates a discovery service.
func NewDiscoveryService(discoverer driven.Discoverer) *DiscoveryService {
	return &DiscoveryService{discoverer: discoverer}
}

// Discover returns candidates in traversal order, or sorted by path when
// sorted is true.
func (s *DiscoveryService) Discover(
	ctx context.Context,
	root string,
	sorted bool,
) ([]domain.SourceDocument, error) {
	if root == "" {
		return nil, fmt.Errorf("%w: root directory is required", domain.ErrInvalidInput)
	}
	if s.discoverer == nil {
		return nil, fmt.Errorf("discover: discoverer not configured")
	}

	docs, err := s.discoverer.Discover(ctx, root)
	if err != nil {
		return nil, err
	}
	logger.Debug("discovered %d source documents under %s", len(docs), root)

	if sorted {
		sort.SliceStable(docs, func(i, j int) bool {
			return docs[i].Path < docs[j].Path
		})
	}
	return docs, nil
}
