package domain

import (
	"errors"
	"time"
)

// Stage identifies the step of per-file processing.
type Stage string

const (
	// StageExtract runs the CAD engine to produce the ExtractionRecord.
	StageExtract Stage = "extract"

	// StageGenerate runs the generator to produce the InstructionDocument.
	StageGenerate Stage = "generate"

	// StageDone marks a file that completed both stages.
	StageDone Stage = "done"
)

// FailureKind records why a file failed.
type FailureKind string

const (
	FailureNone            FailureKind = ""
	FailureTimeout         FailureKind = "timeout"
	FailureCrash           FailureKind = "crash"
	FailureMissingArtifact FailureKind = "missing_artifact"
	FailureWrite           FailureKind = "write"
)

// ClassifyFailure maps an adapter error to its failure kind.
// Unrecognised errors count as crashes.
func ClassifyFailure(err error) FailureKind {
	switch {
	case err == nil:
		return FailureNone
	case errors.Is(err, ErrAdapterTimeout):
		return FailureTimeout
	case errors.Is(err, ErrMissingArtifact):
		return FailureMissingArtifact
	case errors.Is(err, ErrWriteFailed):
		return FailureWrite
	default:
		return FailureCrash
	}
}

// FileOutcome is the result of processing one SourceDocument.
type FileOutcome struct {
	// Source is the processed file path.
	Source string

	// Index is the encounter position within the batch (zero-based).
	Index int

	// Succeeded is true when the InstructionDocument exists after generation.
	Succeeded bool

	// Stage is the last stage reached. StageDone on success.
	Stage Stage

	// Kind is why the file failed. Empty on success.
	Kind FailureKind

	// Error is the failure message. Empty on success.
	Error string

	// JSONPath and MarkdownPath are the derived artifact locations.
	JSONPath     string
	MarkdownPath string

	// Duration is the wall-clock time spent on this file.
	Duration time.Duration
}

// BatchResult is the outcome of one batch run.
type BatchResult struct {
	// RunID uniquely identifies the run.
	RunID string

	// Root is the directory that was scanned.
	Root string

	// OutputDir is the artifact directory override. Empty means alongside sources.
	OutputDir string

	// StartedAt and EndedAt bound the run.
	StartedAt time.Time
	EndedAt   time.Time

	// Successes and Failures hold source paths in encounter order.
	Successes []string
	Failures  []string

	// Outcomes holds one entry per processed file, in encounter order.
	Outcomes []FileOutcome
}

// Total returns the number of files processed.
func (r *BatchResult) Total() int {
	return len(r.Successes) + len(r.Failures)
}

// Record appends an outcome and updates the success/failure lists.
// Callers must serialise access.
func (r *BatchResult) Record(o FileOutcome) {
	r.Outcomes = append(r.Outcomes, o)
	if o.Succeeded {
		r.Successes = append(r.Successes, o.Source)
	} else {
		r.Failures = append(r.Failures, o.Source)
	}
}

// FailedOutcomes returns the outcomes of failed files, in encounter order.
func (r *BatchResult) FailedOutcomes() []FileOutcome {
	var failed []FileOutcome
	for _, o := range r.Outcomes {
		if !o.Succeeded {
			failed = append(failed, o)
		}
	}
	return failed
}

// BatchRunSummary is the stored headline of a past batch run.
type BatchRunSummary struct {
	RunID     string
	Root      string
	OutputDir string
	StartedAt time.Time
	EndedAt   time.Time
	Succeeded int
	Failed    int
}

// Summary returns the headline of the result.
func (r *BatchResult) Summary() BatchRunSummary {
	return BatchRunSummary{
		RunID:     r.RunID,
		Root:      r.Root,
		OutputDir: r.OutputDir,
		StartedAt: r.StartedAt,
		EndedAt:   r.EndedAt,
		Succeeded: len(r.Successes),
		Failed:    len(r.Failures),
	}
}
