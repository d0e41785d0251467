package driven

import (
	"context"
	"time"

	"github.com/vibecraft/cadbook/internal/core/domain"
)

// AdapterRun reports how a single extractor or generator invocation went.
// The orchestrator judges success by artifact presence, so Reported is
// advisory only.
type AdapterRun struct {
	// Reported is true when the tool signalled success on its own terms,
	// e.g. printing its success marker.
	Reported bool

	// ExitCode of the underlying process.
	ExitCode int

	// Output is the combined diagnostic output, trimmed for logging.
	Output string

	// Duration of the invocation.
	Duration time.Duration
}

// Extractor converts one CAD assembly into a JSON extraction record.
type Extractor interface {
	// Extract runs the CAD engine against src and asks it to write jsonPath.
	// Returns domain.ErrAdapterTimeout or domain.ErrAdapterCrash on failure
	// to run. It does not verify that jsonPath was written.
	Extract(ctx context.Context, src domain.SourceDocument, jsonPath string) (*AdapterRun, error)
}

// Generator converts a JSON extraction record into Markdown instructions.
type Generator interface {
	// Generate runs the document generator and asks it to write mdPath.
	// It does not verify that mdPath was written.
	Generate(ctx context.Context, jsonPath, mdPath string) (*AdapterRun, error)
}

// RecordReader is an optional interface for extractors that can decode
// the records they produce.
type RecordReader interface {
	// ReadRecord decodes the extraction record at path.
	// Returns domain.ErrMissingArtifact when the file does not exist.
	ReadRecord(path string) (*domain.ExtractionRecord, error)
}
