package driving

import (
	"context"

	"github.com/vibecraft/cadbook/internal/core/domain"
)

// BatchRequest configures one batch run.
type BatchRequest struct {
	// Root is the project tree to scan for CAD assemblies.
	Root string

	// OutputDir receives JSON and Markdown artifacts. It is created if missing.
	OutputDir string

	// Observer receives progress callbacks. May be nil.
	Observer BatchObserver

	// SkipHistory disables persisting this run even when history is enabled.
	SkipHistory bool
}

// BatchObserver receives progress notifications during a batch run.
// Callbacks may arrive from multiple goroutines when workers > 1.
type BatchObserver interface {
	// BatchStarted is called once discovery has finished.
	BatchStarted(root string, total int)

	// FileStarted is called before a file enters the pipeline.
	FileStarted(index, total int, source domain.SourceDocument)

	// FileFinished is called when a file leaves the pipeline.
	FileFinished(outcome domain.FileOutcome, total int)

	// BatchFinished is called once with the final result.
	BatchFinished(result *domain.BatchResult)
}

// ExtractResult is the outcome of extracting a single assembly.
type ExtractResult struct {
	Outcome domain.FileOutcome

	// Record is the decoded extraction record when the JSON artifact exists
	// and parses. It is nil otherwise.
	Record *domain.ExtractionRecord
}

// BatchService runs the extract-then-generate pipeline.
type BatchService interface {
	// Run discovers every assembly under req.Root and processes each one
	// in turn. Per-file failures are recorded in the result and never
	// abort the run. An error is returned only for fatal conditions such
	// as an unreadable root or an output directory that cannot be created.
	Run(ctx context.Context, req BatchRequest) (*domain.BatchResult, error)

	// Extract runs only the extraction stage for one assembly.
	Extract(ctx context.Context, sourcePath, outputDir string) (*ExtractResult, error)
}
