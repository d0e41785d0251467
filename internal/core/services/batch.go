package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/vibecraft/cadbook/internal/core/domain"
	"github.com/vibecraft/cadbook/internal/core/ports/driven"
	"github.com/vibecraft/cadbook/internal/core/ports/driving"
	"github.com/vibecraft/cadbook/internal/logger"
)

// Ensure BatchOrchestrator implements the interface.
var _ driving.BatchService = (*BatchOrchestrator)(nil)

// BatchOrchestrator runs every discovered assembly through the extractor
// and then the generator. A file's failure is recorded and the run moves on.
type BatchOrchestrator struct {
	discoverer driven.Discoverer
	extractor  driven.Extractor
	generator  driven.Generator
	runStore   driven.RunStore
	settings   domain.Settings

	// now is replaceable for tests.
	now func() time.Time
}

// NewBatchOrchestrator creates a new batch orchestrator.
// runStore is optional - if nil, runs are not persisted.
func NewBatchOrchestrator(
	discoverer driven.Discoverer,
	extractor driven.Extractor,
	generator driven.Generator,
	runStore driven.RunStore,
	settings domain.Settings,
) *BatchOrchestrator {
	return &BatchOrchestrator{
		discoverer: discoverer,
		extractor:  extractor,
		generator:  generator,
		runStore:   runStore,
		settings:   settings,
		now:        time.Now,
	}
}

// Run processes every assembly under req.Root.
func (o *BatchOrchestrator) Run(ctx context.Context, req driving.BatchRequest) (*domain.BatchResult, error) {
	if req.Root == "" {
		return nil, fmt.Errorf("%w: root directory is required", domain.ErrInvalidInput)
	}
	if o.discoverer == nil || o.extractor == nil || o.generator == nil {
		return nil, fmt.Errorf("batch: pipeline not configured")
	}

	if err := ensureDir(req.OutputDir); err != nil {
		return nil, err
	}

	docs, err := o.discoverer.Discover(ctx, req.Root)
	if err != nil {
		return nil, err
	}

	result := &domain.BatchResult{
		RunID:     uuid.NewString(),
		Root:      req.Root,
		OutputDir: req.OutputDir,
		StartedAt: o.now(),
	}
	total := len(docs)

	logger.Section("Batch " + result.RunID)
	logger.Info("found %d assemblies under %s", total, req.Root)
	if req.Observer != nil {
		req.Observer.BatchStarted(req.Root, total)
	}

	outcomes := o.processAll(ctx, docs, req)

	// Outcomes are recorded in encounter order whatever order workers finished in.
	for _, outcome := range outcomes {
		if outcome != nil {
			result.Record(*outcome)
		}
	}
	result.EndedAt = o.now()

	o.logSummary(result)
	o.saveRun(ctx, req, result)

	if req.Observer != nil {
		req.Observer.BatchFinished(result)
	}

	if err := ctx.Err(); err != nil {
		return result, fmt.Errorf("batch interrupted after %d of %d files: %w", result.Total(), total, err)
	}
	return result, nil
}

// processAll fans files out to the configured number of workers.
// The returned slice is indexed by encounter order; entries for files that
// were never started because ctx ended are nil.
func (o *BatchOrchestrator) processAll(
	ctx context.Context,
	docs []domain.SourceDocument,
	req driving.BatchRequest,
) []*domain.FileOutcome {
	total := len(docs)
	outcomes := make([]*domain.FileOutcome, total)
	limiter := o.newLimiter()

	workers := o.settings.Batch.Workers
	if workers < 1 {
		workers = 1
	}
	if workers > total {
		workers = total
	}

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				outcome := o.processFile(ctx, limiter, i, total, docs[i], req)
				outcomes[i] = &outcome
			}
		}()
	}

dispatch:
	for i := range docs {
		if ctx.Err() != nil {
			break
		}
		select {
		case <-ctx.Done():
			break dispatch
		case jobs <- i:
		}
	}
	close(jobs)
	wg.Wait()

	return outcomes
}

func (o *BatchOrchestrator) newLimiter() *rate.Limiter {
	if o.settings.Batch.LaunchRate <= 0 {
		return nil
	}
	return rate.NewLimiter(rate.Limit(o.settings.Batch.LaunchRate), 1)
}

// processFile runs both stages for one file and never returns an error:
// every failure becomes part of the outcome.
func (o *BatchOrchestrator) processFile(
	ctx context.Context,
	limiter *rate.Limiter,
	index, total int,
	doc domain.SourceDocument,
	req driving.BatchRequest,
) domain.FileOutcome {
	start := time.Now()
	paths := doc.Artifacts(req.OutputDir, o.settings.Handbook.Suffix)
	outcome := domain.FileOutcome{
		Source:       doc.Path,
		Index:        index,
		Stage:        domain.StageExtract,
		JSONPath:     paths.JSON,
		MarkdownPath: paths.Markdown,
	}

	if req.Observer != nil {
		req.Observer.FileStarted(index, total, doc)
	}
	logger.Info("[%d/%d] processing %s", index+1, total, doc.Filename())

	finish := func(err error) domain.FileOutcome {
		outcome.Duration = time.Since(start)
		if err != nil {
			outcome.Kind = domain.ClassifyFailure(err)
			outcome.Error = err.Error()
			logger.Warn("%s failed at %s (%s): %v", doc.Filename(), outcome.Stage, outcome.Kind, err)
		} else {
			outcome.Succeeded = true
			outcome.Stage = domain.StageDone
		}
		if req.Observer != nil {
			req.Observer.FileFinished(outcome, total)
		}
		return outcome
	}

	if limiter != nil {
		if err := limiter.Wait(ctx); err != nil {
			return finish(fmt.Errorf("%w: wait for launch slot: %v", domain.ErrAdapterCrash, err))
		}
	}

	if err := o.extract(ctx, doc, paths.JSON); err != nil {
		return finish(err)
	}

	outcome.Stage = domain.StageGenerate
	return finish(o.generate(ctx, paths.JSON, paths.Markdown))
}

// extract runs the extractor. An adapter error (timeout, failed launch,
// cancellation) fails the file whatever is on disk, since a record from an
// earlier run may still be there. When the engine ran to exit, the JSON
// artifact on disk decides: a reported success without it is a failure.
func (o *BatchOrchestrator) extract(ctx context.Context, doc domain.SourceDocument, jsonPath string) error {
	run, err := o.extractor.Extract(ctx, doc, jsonPath)
	if err != nil {
		return err
	}
	if fileExists(jsonPath) {
		return nil
	}
	if run != nil && run.Reported {
		logger.Warn("extractor reported success for %s but wrote no record", doc.Filename())
	}
	return missingArtifact(jsonPath, run)
}

// generate runs the generator. Adapter errors fail the file; otherwise only
// the Markdown artifact decides success, whatever the exit code.
func (o *BatchOrchestrator) generate(ctx context.Context, jsonPath, mdPath string) error {
	run, err := o.generator.Generate(ctx, jsonPath, mdPath)
	if err != nil {
		return err
	}
	if fileExists(mdPath) {
		return nil
	}
	return missingArtifact(mdPath, run)
}

// Extract runs only the extraction stage for one assembly.
func (o *BatchOrchestrator) Extract(
	ctx context.Context,
	sourcePath, outputDir string,
) (*driving.ExtractResult, error) {
	if sourcePath == "" {
		return nil, fmt.Errorf("%w: source file is required", domain.ErrInvalidInput)
	}
	if o.extractor == nil {
		return nil, fmt.Errorf("extract: extractor not configured")
	}

	info, err := os.Stat(sourcePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", domain.ErrNotFound, sourcePath)
		}
		return nil, fmt.Errorf("stat %s: %w", sourcePath, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", domain.ErrInvalidInput, sourcePath)
	}
	if err := ensureDir(outputDir); err != nil {
		return nil, err
	}

	start := time.Now()
	doc := domain.NewSourceDocument(sourcePath)
	paths := doc.Artifacts(outputDir, o.settings.Handbook.Suffix)
	outcome := domain.FileOutcome{
		Source:       doc.Path,
		Stage:        domain.StageExtract,
		JSONPath:     paths.JSON,
		MarkdownPath: paths.Markdown,
	}

	if err := o.extract(ctx, doc, paths.JSON); err != nil {
		outcome.Kind = domain.ClassifyFailure(err)
		outcome.Error = err.Error()
		outcome.Duration = time.Since(start)
		return &driving.ExtractResult{Outcome: outcome}, nil
	}

	outcome.Succeeded = true
	outcome.Stage = domain.StageDone
	outcome.Duration = time.Since(start)
	result := &driving.ExtractResult{Outcome: outcome}

	if reader, ok := o.extractor.(driven.RecordReader); ok {
		record, err := reader.ReadRecord(paths.JSON)
		if err != nil {
			logger.Warn("read extraction record %s: %v", paths.JSON, err)
		} else {
			result.Record = record
		}
	}
	return result, nil
}

func (o *BatchOrchestrator) logSummary(result *domain.BatchResult) {
	logger.Section("Batch complete")
	logger.Info("succeeded: %d", len(result.Successes))
	logger.Info("failed: %d", len(result.Failures))
	for _, failed := range result.FailedOutcomes() {
		logger.Info("  - %s (%s)", failed.Source, failed.Kind)
	}
	logger.Debug("batch took %s", result.EndedAt.Sub(result.StartedAt))
}

// saveRun persists the run. History is best effort and never fails a batch.
func (o *BatchOrchestrator) saveRun(ctx context.Context, req driving.BatchRequest, result *domain.BatchResult) {
	if o.runStore == nil || req.SkipHistory || !o.settings.History.Enabled {
		return
	}
	// The run is saved even if ctx was cancelled part way.
	if err := o.runStore.SaveRun(context.WithoutCancel(ctx), result); err != nil {
		logger.Warn("save run %s: %v", result.RunID, err)
	}
}

func ensureDir(dir string) error {
	if dir == "" {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("%w: create output directory %s: %v", domain.ErrWriteFailed, dir, err)
	}
	return nil
}

func missingArtifact(path string, run *driven.AdapterRun) error {
	if run != nil && run.Output != "" {
		return fmt.Errorf("%w: %s (exit %d: %s)", domain.ErrMissingArtifact, path, run.ExitCode, run.Output)
	}
	if run != nil {
		return fmt.Errorf("%w: %s (exit %d)", domain.ErrMissingArtifact, path, run.ExitCode)
	}
	return fmt.Errorf("%w: %s", domain.ErrMissingArtifact, path)
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
