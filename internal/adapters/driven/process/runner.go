// Package process runs external tools as isolated child processes with a
// hard wall-clock timeout.
package process

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/vibecraft/cadbook/internal/core/domain"
	"github.com/vibecraft/cadbook/internal/core/ports/driven"
	"github.com/vibecraft/cadbook/internal/logger"
)

// Verify interface compliance.
var _ driven.ProcessRunner = (*Runner)(nil)

// DefaultWaitDelay bounds how long Run waits for output pipes to close after
// the child has been killed. Grandchildren that inherit the pipes would
// otherwise keep Run blocked past its timeout.
const DefaultWaitDelay = 2 * time.Second

// Runner implements driven.ProcessRunner using os/exec.
type Runner struct {
	waitDelay time.Duration
}

// NewRunner creates a Runner.
func NewRunner() *Runner {
	return &Runner{waitDelay: DefaultWaitDelay}
}

// Run executes spec and waits for the child to exit or time out.
func (r *Runner) Run(ctx context.Context, spec driven.ProcessSpec) (*driven.ProcessResult, error) {
	if spec.Name == "" {
		return nil, fmt.Errorf("%w: empty command", domain.ErrInvalidInput)
	}

	runCtx := ctx
	if spec.Timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, spec.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(runCtx, spec.Name, spec.Args...)
	cmd.Dir = spec.Dir
	cmd.WaitDelay = r.waitDelay
	if len(spec.Env) > 0 {
		cmd.Env = append(os.Environ(), spec.Env...)
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	logger.Debug("exec %s %v (timeout %s)", spec.Name, spec.Args, spec.Timeout)
	start := time.Now()
	err := cmd.Run()
	result := &driven.ProcessResult{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		ExitCode: -1,
		Duration: time.Since(start),
	}
	if cmd.ProcessState != nil {
		result.ExitCode = cmd.ProcessState.ExitCode()
	}

	if runCtx.Err() != nil && ctx.Err() == nil {
		result.TimedOut = true
		return result, fmt.Errorf("%w: %s after %s", domain.ErrAdapterTimeout, spec.Name, spec.Timeout)
	}
	if ctx.Err() != nil {
		return result, ctx.Err()
	}

	if err != nil && !errors.Is(err, exec.ErrWaitDelay) {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			// The child ran and exited on its own; callers judge by artifacts.
			return result, nil
		}
		return result, fmt.Errorf("%w: %s: %v", domain.ErrAdapterCrash, spec.Name, err)
	}
	return result, nil
}

// Truncate trims s and keeps at most its first n bytes, never splitting a
// multi-byte character.
func Truncate(s string, n int) string {
	s = strings.TrimSpace(s)
	if n <= 0 || len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n] + "..."
}
