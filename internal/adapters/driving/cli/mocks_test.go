package cli

import (
	"bytes"
	"context"
	"errors"
	"time"

	"github.com/vibecraft/cadbook/internal/core/domain"
	"github.com/vibecraft/cadbook/internal/core/ports/driving"
)

// mockBatchService implements driving.BatchService for testing.
type mockBatchService struct {
	runFunc     func(ctx context.Context, req driving.BatchRequest) (*domain.BatchResult, error)
	extractFunc func(ctx context.Context, sourcePath, outputDir string) (*driving.ExtractResult, error)
	lastRequest driving.BatchRequest
}

func (m *mockBatchService) Run(ctx context.Context, req driving.BatchRequest) (*domain.BatchResult, error) {
	m.lastRequest = req
	if m.runFunc != nil {
		return m.runFunc(ctx, req)
	}
	return &domain.BatchResult{Root: req.Root}, nil
}

func (m *mockBatchService) Extract(ctx context.Context, sourcePath, outputDir string) (*driving.ExtractResult, error) {
	if m.extractFunc != nil {
		return m.extractFunc(ctx, sourcePath, outputDir)
	}
	return nil, errors.New("not implemented")
}

// mockDiscoveryService implements driving.DiscoveryService for testing.
type mockDiscoveryService struct {
	docs       []domain.SourceDocument
	err        error
	lastSorted bool
}

func (m *mockDiscoveryService) Discover(_ context.Context, _ string, sorted bool) ([]domain.SourceDocument, error) {
	m.lastSorted = sorted
	if m.err != nil {
		return nil, m.err
	}
	return m.docs, nil
}

// mockConsolidationService implements driving.ConsolidationService for testing.
type mockConsolidationService struct {
	result      *driving.ConsolidateResult
	err         error
	plan        []domain.InstructionDocument
	lastRequest driving.ConsolidateRequest
	watched     bool
}

func (m *mockConsolidationService) Consolidate(
	_ context.Context,
	req driving.ConsolidateRequest,
) (*driving.ConsolidateResult, error) {
	m.lastRequest = req
	if m.err != nil {
		return nil, m.err
	}
	return m.result, nil
}

func (m *mockConsolidationService) Plan(_ context.Context, inputDir string) ([]domain.InstructionDocument, error) {
	m.lastRequest = driving.ConsolidateRequest{InputDir: inputDir}
	if m.err != nil {
		return nil, m.err
	}
	return m.plan, nil
}

func (m *mockConsolidationService) Watch(
	_ context.Context,
	req driving.ConsolidateRequest,
	onBuild func(*driving.ConsolidateResult, error),
) error {
	m.lastRequest = req
	m.watched = true
	onBuild(m.result, nil)
	onBuild(nil, errors.New("write failed"))
	onBuild(m.result, nil)
	return nil
}

// mockHistoryService implements driving.HistoryService for testing.
type mockHistoryService struct {
	runs      []domain.BatchRunSummary
	run       *domain.BatchResult
	err       error
	lastLimit int
}

func (m *mockHistoryService) List(_ context.Context, limit int) ([]domain.BatchRunSummary, error) {
	m.lastLimit = limit
	if m.err != nil {
		return nil, m.err
	}
	return m.runs, nil
}

func (m *mockHistoryService) Get(_ context.Context, runID string) (*domain.BatchResult, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.run == nil || m.run.RunID != runID {
		return nil, domain.ErrNotFound
	}
	return m.run, nil
}

// mockSettingsService implements driving.SettingsService for testing.
type mockSettingsService struct {
	keys   []string
	values map[string]string
	setErr error
	resets []string
}

func newMockSettingsService() *mockSettingsService {
	return &mockSettingsService{
		keys: []string{"engine.path", "batch.workers", "handbook.subtitle"},
		values: map[string]string{
			"engine.path":   "freecadcmd",
			"batch.workers": "1",
		},
	}
}

func (m *mockSettingsService) Get() (*domain.Settings, error) {
	s := domain.DefaultSettings()
	return &s, nil
}

func (m *mockSettingsService) Set(key, value string) error {
	if m.setErr != nil {
		return m.setErr
	}
	m.values[key] = value
	return nil
}

func (m *mockSettingsService) Reset(key string) error {
	m.resets = append(m.resets, key)
	delete(m.values, key)
	return nil
}

func (m *mockSettingsService) Keys() []string {
	return m.keys
}

func (m *mockSettingsService) Value(key string) (string, error) {
	return m.values[key], nil
}

func (m *mockSettingsService) GetDefaults() domain.Settings {
	return domain.DefaultSettings()
}

func (m *mockSettingsService) Path() string {
	return "/home/user/.cadbook/config.toml"
}

// execute runs the root command with args and returns its output.
func execute(args ...string) (string, error) {
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	defer func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
	}()

	err := rootCmd.Execute()
	return buf.String(), err
}

// sampleResult returns a finished run with one success and one failure.
func sampleResult() *domain.BatchResult {
	start := time.Date(2026, 3, 4, 10, 0, 0, 0, time.UTC)
	result := &domain.BatchResult{
		RunID:     "run-1",
		Root:      "/proj",
		StartedAt: start,
		EndedAt:   start.Add(90 * time.Second),
	}
	result.Record(domain.FileOutcome{
		Source:       "/proj/Floor.fcstd",
		Succeeded:    true,
		Stage:        domain.StageDone,
		MarkdownPath: "/proj/Floor_Instructions.md",
	})
	result.Record(domain.FileOutcome{
		Source: "/proj/Roof.fcstd",
		Index:  1,
		Stage:  domain.StageExtract,
		Kind:   domain.FailureTimeout,
		Error:  "timed out",
	})
	return result
}
