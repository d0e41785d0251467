// Package weave runs the external instruction generator that turns an
// extraction record into Markdown.
package weave

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/vibecraft/cadbook/internal/adapters/driven/process"
	"github.com/vibecraft/cadbook/internal/core/domain"
	"github.com/vibecraft/cadbook/internal/core/ports/driven"
	"github.com/vibecraft/cadbook/internal/logger"
)

// Verify interface compliance.
var _ driven.Generator = (*Generator)(nil)

const diagnosticLimit = 200

// Config configures the generator.
type Config struct {
	// Command is the interpreter or executable, e.g. "python3".
	Command string

	// Script is passed before the JSON and Markdown paths. May be empty.
	Script string

	// Timeout bounds one generation.
	Timeout time.Duration
}

// ConfigFromSettings builds a Config from application settings.
func ConfigFromSettings(s *domain.Settings) Config {
	return Config{
		Command: s.Generator.Command,
		Script:  s.Generator.Script,
		Timeout: s.Generator.Timeout,
	}
}

// Generator implements driven.Generator on top of a ProcessRunner.
type Generator struct {
	cfg    Config
	runner driven.ProcessRunner
}

// New creates a Generator.
func New(cfg Config, runner driven.ProcessRunner) *Generator {
	return &Generator{cfg: cfg, runner: runner}
}

// Args returns the argument list for one invocation.
func (g *Generator) Args(jsonPath, mdPath string) []string {
	if g.cfg.Script == "" {
		return []string{jsonPath, mdPath}
	}
	return []string{g.cfg.Script, jsonPath, mdPath}
}

// Generate runs the generator. Its exit status is reported but not
// trusted; the caller checks for mdPath.
func (g *Generator) Generate(ctx context.Context, jsonPath, mdPath string) (*driven.AdapterRun, error) {
	spec := driven.ProcessSpec{
		Name:    g.cfg.Command,
		Args:    g.Args(jsonPath, mdPath),
		Timeout: g.cfg.Timeout,
	}

	result, err := g.runner.Run(ctx, spec)
	run := &driven.AdapterRun{ExitCode: -1}
	if result != nil {
		output := result.Stderr
		if strings.TrimSpace(output) == "" {
			output = result.Stdout
		}
		run = &driven.AdapterRun{
			Reported: result.ExitCode == 0,
			ExitCode: result.ExitCode,
			Output:   process.Truncate(output, diagnosticLimit),
			Duration: result.Duration,
		}
	}
	if err != nil {
		return run, fmt.Errorf("generate %s: %w", filepath.Base(mdPath), err)
	}
	logger.Debug("generator exited %d for %s", run.ExitCode, filepath.Base(jsonPath))
	return run, nil
}
