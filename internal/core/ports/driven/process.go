package driven

import (
	"context"
	"time"
)

// ProcessSpec describes one external program invocation.
type ProcessSpec struct {
	// Name is the executable to run.
	Name string

	// Args are passed to the executable verbatim.
	Args []string

	// Env entries are appended to the current process environment.
	Env []string

	// Dir is the working directory. Empty means the current directory.
	Dir string

	// Timeout bounds the run. Zero means no limit.
	Timeout time.Duration
}

// ProcessResult captures what an external program produced.
type ProcessResult struct {
	Stdout   string
	Stderr   string
	ExitCode int
	TimedOut bool
	Duration time.Duration
}

// ProcessRunner executes external programs with a hard timeout.
type ProcessRunner interface {
	// Run starts the program and waits for it to exit.
	// A non-zero exit code is reported in the result, not as an error.
	// Timeouts return domain.ErrAdapterTimeout and launch failures return
	// domain.ErrAdapterCrash, both alongside a partial result.
	Run(ctx context.Context, spec ProcessSpec) (*ProcessResult, error)
}
