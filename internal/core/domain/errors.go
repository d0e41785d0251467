package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// Fatal errors. These abort the run and propagate to the caller.

	// ErrDiscovery indicates the discovery root could not be read.
	ErrDiscovery = errors.New("discovery failed")

	// ErrInputDirMissing indicates the consolidation input directory does not exist.
	ErrInputDirMissing = errors.New("input directory missing")

	// Adapter errors. The batch orchestrator downgrades these to a
	// per-file failure; none of them stops a batch.

	// ErrAdapterTimeout indicates an adapter process exceeded its wall-clock budget.
	ErrAdapterTimeout = errors.New("adapter timed out")

	// ErrAdapterCrash indicates an adapter process could not be launched
	// or terminated abnormally.
	ErrAdapterCrash = errors.New("adapter crashed")

	// ErrMissingArtifact indicates an adapter exited but its expected
	// output file is absent.
	ErrMissingArtifact = errors.New("missing artifact")

	// ErrWriteFailed indicates an artifact could not be persisted.
	ErrWriteFailed = errors.New("write failed")
)
