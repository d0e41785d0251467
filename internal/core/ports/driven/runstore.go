package driven

import (
	"context"

	"github.com/vibecraft/cadbook/internal/core/domain"
)

// RunStore persists batch run history.
type RunStore interface {
	// SaveRun stores a finished batch run with all its file outcomes.
	SaveRun(ctx context.Context, result *domain.BatchResult) error

	// ListRuns returns run summaries, newest first. limit <= 0 means all.
	ListRuns(ctx context.Context, limit int) ([]domain.BatchRunSummary, error)

	// GetRun returns one run with its outcomes.
	// Returns domain.ErrNotFound if the run does not exist.
	GetRun(ctx context.Context, runID string) (*domain.BatchResult, error)
}
