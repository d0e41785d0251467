// Package messages defines Bubbletea message types for the TUI.
// Batch progress callbacks are turned into these messages and fed to the
// program from the batch goroutine.
package messages

import (
	"github.com/vibecraft/cadbook/internal/core/domain"
)

// BatchStarted is sent once discovery has finished.
type BatchStarted struct {
	Root  string
	Total int
}

// FileStarted is sent when a file enters the pipeline.
type FileStarted struct {
	Index  int
	Total  int
	Source domain.SourceDocument
}

// FileFinished is sent when a file leaves the pipeline.
type FileFinished struct {
	Outcome domain.FileOutcome
	Total   int
}

// BatchCompleted carries the final result, or the fatal error.
type BatchCompleted struct {
	Result *domain.BatchResult
	Err    error
}
