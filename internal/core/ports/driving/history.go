package driving

import (
	"context"

	"github.com/vibecraft/cadbook/internal/core/domain"
)

// HistoryService exposes past batch runs.
type HistoryService interface {
	// List returns recent run summaries, newest first.
	List(ctx context.Context, limit int) ([]domain.BatchRunSummary, error)

	// Get returns one run with its per-file outcomes.
	Get(ctx context.Context, runID string) (*domain.BatchResult, error)
}
