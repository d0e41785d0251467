package services

import (
	"context"
	"fmt"

	"github.com/vibecraft/cadbook/internal/core/domain"
	"github.com/vibecraft/cadbook/internal/core/ports/driven"
	"github.com/vibecraft/cadbook/internal/core/ports/driving"
)

// Ensure HistoryService implements the interface.
var _ driving.HistoryService = (*HistoryService)(nil)

// DefaultHistoryLimit is used when List is called without a positive limit.
const DefaultHistoryLimit = 20

// HistoryService reads past batch runs.
type HistoryService struct {
	runStore driven.RunStore
}

// NewHistoryService creates a new history service.
func NewHistoryService(runStore driven.RunStore) *HistoryService {
	return &HistoryService{runStore: runStore}
}

// List returns recent runs, newest first.
func (s *HistoryService) List(ctx context.Context, limit int) ([]domain.BatchRunSummary, error) {
	if s.runStore == nil {
		return nil, fmt.Errorf("history: run store not configured")
	}
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	runs, err := s.runStore.ListRuns(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	return runs, nil
}

// Get returns one run with its per-file outcomes.
func (s *HistoryService) Get(ctx context.Context, runID string) (*domain.BatchResult, error) {
	if runID == "" {
		return nil, fmt.Errorf("%w: run id is required", domain.ErrInvalidInput)
	}
	if s.runStore == nil {
		return nil, fmt.Errorf("history: run store not configured")
	}
	run, err := s.runStore.GetRun(ctx, runID)
	if err != nil {
		return nil, fmt.Errorf("get run %s: %w", runID, err)
	}
	return run, nil
}
