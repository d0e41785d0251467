package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/vibecraft/cadbook/internal/core/domain"
	"github.com/vibecraft/cadbook/internal/core/ports/driven"
)

// Ensure RunStore implements the interface.
var _ driven.RunStore = (*RunStore)(nil)

// RunStore is an in-memory implementation of driven.RunStore.
type RunStore struct {
	mu   sync.RWMutex
	runs map[string]domain.BatchResult
}

// NewRunStore creates a new in-memory run store.
func NewRunStore() *RunStore {
	return &RunStore{
		runs: make(map[string]domain.BatchResult),
	}
}

// SaveRun stores or replaces a run.
func (s *RunStore) SaveRun(_ context.Context, result *domain.BatchResult) error {
	if result == nil || result.RunID == "" {
		return domain.ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runs[result.RunID] = cloneResult(result)
	return nil
}

// ListRuns returns run summaries, newest first.
func (s *RunStore) ListRuns(_ context.Context, limit int) ([]domain.BatchRunSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.BatchRunSummary, 0, len(s.runs))
	for _, run := range s.runs {
		result = append(result, run.Summary())
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].StartedAt.Equal(result[j].StartedAt) {
			return result[i].RunID < result[j].RunID
		}
		return result[i].StartedAt.After(result[j].StartedAt)
	})
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

// GetRun returns a copy of one run.
func (s *RunStore) GetRun(_ context.Context, runID string) (*domain.BatchResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	run, ok := s.runs[runID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cloned := cloneResult(&run)
	return &cloned, nil
}

func cloneResult(r *domain.BatchResult) domain.BatchResult {
	c := *r
	c.Successes = append([]string(nil), r.Successes...)
	c.Failures = append([]string(nil), r.Failures...)
	c.Outcomes = append([]domain.FileOutcome(nil), r.Outcomes...)
	return c
}
