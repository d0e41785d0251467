package mcp

import (
	"context"

	"github.com/vibecraft/cadbook/internal/core/domain"
	"github.com/vibecraft/cadbook/internal/core/ports/driving"
)

// mockDiscoveryService is a mock implementation of driving.DiscoveryService.
type mockDiscoveryService struct {
	docs       []domain.SourceDocument
	err        error
	lastRoot   string
	lastSorted bool
}

func (m *mockDiscoveryService) Discover(_ context.Context, root string, sorted bool) ([]domain.SourceDocument, error) {
	m.lastRoot = root
	m.lastSorted = sorted
	return m.docs, m.err
}

// mockConsolidationService is a mock implementation of driving.ConsolidationService.
type mockConsolidationService struct {
	result  *driving.ConsolidateResult
	plan    []domain.InstructionDocument
	err     error
	lastReq driving.ConsolidateRequest
}

func (m *mockConsolidationService) Consolidate(
	_ context.Context,
	req driving.ConsolidateRequest,
) (*driving.ConsolidateResult, error) {
	m.lastReq = req
	return m.result, m.err
}

func (m *mockConsolidationService) Plan(_ context.Context, _ string) ([]domain.InstructionDocument, error) {
	return m.plan, m.err
}

func (m *mockConsolidationService) Watch(
	_ context.Context,
	_ driving.ConsolidateRequest,
	_ func(*driving.ConsolidateResult, error),
) error {
	return m.err
}

// mockHistoryService is a mock implementation of driving.HistoryService.
type mockHistoryService struct {
	runs      []domain.BatchRunSummary
	run       *domain.BatchResult
	err       error
	lastLimit int
}

func (m *mockHistoryService) List(_ context.Context, limit int) ([]domain.BatchRunSummary, error) {
	m.lastLimit = limit
	return m.runs, m.err
}

func (m *mockHistoryService) Get(_ context.Context, _ string) (*domain.BatchResult, error) {
	return m.run, m.err
}
