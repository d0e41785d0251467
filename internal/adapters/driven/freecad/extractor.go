// Package freecad runs the headless FreeCAD engine to extract part data
// from CAD assemblies.
package freecad

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/vibecraft/cadbook/internal/adapters/driven/process"
	"github.com/vibecraft/cadbook/internal/core/domain"
	"github.com/vibecraft/cadbook/internal/core/ports/driven"
	"github.com/vibecraft/cadbook/internal/logger"
)

// Verify interface compliance.
var (
	_ driven.Extractor        = (*Extractor)(nil)
	_ driven.ScriptStoreAware = (*Extractor)(nil)
	_ driven.RecordReader     = (*Extractor)(nil)
)

//go:embed extract_cad_data.py
var extractScript []byte

// Script returns the built-in engine script.
func Script() []byte {
	return append([]byte(nil), extractScript...)
}

// DefaultScripts returns the built-in scripts keyed by name, for seeding a
// driven.ScriptStore.
func DefaultScripts() map[string][]byte {
	return map[string][]byte{driven.ScriptExtract: Script()}
}

// Environment variables understood by the engine script.
const (
	EnvSourceFile = "CAD_FILE"
	EnvJSONOutput = "CAD_JSON_OUT"
)

const diagnosticLimit = 200

// Config configures the extractor.
type Config struct {
	// EnginePath is the FreeCAD executable.
	EnginePath string

	// EngineArgs come before the script path, e.g. "--console".
	EngineArgs []string

	// Timeout bounds one extraction.
	Timeout time.Duration

	// SuccessMarker is looked for on stdout. Advisory only.
	SuccessMarker string

	// ScriptDir holds the per-run script files. Empty means os.TempDir.
	ScriptDir string
}

// ConfigFromSettings builds a Config from application settings.
func ConfigFromSettings(s *domain.Settings) Config {
	return Config{
		EnginePath:    s.Engine.Path,
		EngineArgs:    append([]string(nil), s.Engine.Args...),
		Timeout:       s.Extract.Timeout,
		SuccessMarker: s.Extract.SuccessMarker,
	}
}

// Extractor implements driven.Extractor on top of a ProcessRunner.
type Extractor struct {
	cfg     Config
	runner  driven.ProcessRunner
	scripts driven.ScriptStore
}

// New creates an Extractor.
func New(cfg Config, runner driven.ProcessRunner) *Extractor {
	return &Extractor{cfg: cfg, runner: runner}
}

// SetScriptStore makes the extractor load its script from store.
func (e *Extractor) SetScriptStore(store driven.ScriptStore) {
	e.scripts = store
}

// Extract writes the engine script to a private temp file and runs the
// engine against src, asking it to write jsonPath.
func (e *Extractor) Extract(ctx context.Context, src domain.SourceDocument, jsonPath string) (*driven.AdapterRun, error) {
	script, err := e.writeScript()
	if err != nil {
		return nil, err
	}
	defer os.Remove(script)

	args := append(append([]string(nil), e.cfg.EngineArgs...), script)
	spec := driven.ProcessSpec{
		Name: e.cfg.EnginePath,
		Args: args,
		Env: []string{
			EnvSourceFile + "=" + src.Path,
			EnvJSONOutput + "=" + jsonPath,
		},
		Timeout: e.cfg.Timeout,
	}

	result, err := e.runner.Run(ctx, spec)
	run := adapterRun(result, e.cfg.SuccessMarker)
	if err != nil {
		return run, fmt.Errorf("extract %s: %w", src.Filename(), err)
	}
	logger.Debug("engine exited %d for %s in %s", run.ExitCode, src.Filename(), run.Duration.Round(time.Millisecond))
	return run, nil
}

func (e *Extractor) script() []byte {
	if e.scripts == nil {
		return extractScript
	}
	script, err := e.scripts.Load(driven.ScriptExtract)
	if err != nil {
		logger.Warn("using built-in extractor script: %v", err)
		return extractScript
	}
	return script
}

func (e *Extractor) writeScript() (string, error) {
	f, err := os.CreateTemp(e.cfg.ScriptDir, "cadbook-extract-*.py")
	if err != nil {
		return "", fmt.Errorf("%w: extractor script: %v", domain.ErrAdapterCrash, err)
	}
	if _, err := f.Write(e.script()); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", fmt.Errorf("%w: extractor script: %v", domain.ErrAdapterCrash, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("%w: extractor script: %v", domain.ErrAdapterCrash, err)
	}
	return f.Name(), nil
}

func adapterRun(result *driven.ProcessResult, marker string) *driven.AdapterRun {
	if result == nil {
		return &driven.AdapterRun{ExitCode: -1}
	}
	output := result.Stderr
	if strings.TrimSpace(output) == "" {
		output = result.Stdout
	}
	return &driven.AdapterRun{
		Reported: marker != "" && strings.Contains(result.Stdout, marker),
		ExitCode: result.ExitCode,
		Output:   process.Truncate(output, diagnosticLimit),
		Duration: result.Duration,
	}
}

// ReadRecord decodes a record written by this extractor.
func (e *Extractor) ReadRecord(path string) (*domain.ExtractionRecord, error) {
	return ReadRecord(path)
}

// ReadRecord decodes an extraction record written by the engine script.
func ReadRecord(path string) (*domain.ExtractionRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", domain.ErrMissingArtifact, path)
		}
		return nil, err
	}
	var record domain.ExtractionRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return &record, nil
}
