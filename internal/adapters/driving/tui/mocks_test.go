package tui

import (
	"context"

	"github.com/vibecraft/cadbook/internal/core/domain"
	"github.com/vibecraft/cadbook/internal/core/ports/driving"
)

// MockBatchService implements driving.BatchService for testing.
type MockBatchService struct {
	RunFunc func(ctx context.Context, req driving.BatchRequest) (*domain.BatchResult, error)
}

func (m *MockBatchService) Run(ctx context.Context, req driving.BatchRequest) (*domain.BatchResult, error) {
	if m.RunFunc != nil {
		return m.RunFunc(ctx, req)
	}
	return &domain.BatchResult{Root: req.Root}, nil
}

func (m *MockBatchService) Extract(_ context.Context, _, _ string) (*driving.ExtractResult, error) {
	return nil, nil
}
