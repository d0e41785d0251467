package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/vibecraft/cadbook/internal/core/domain"
	"github.com/vibecraft/cadbook/internal/core/ports/driven"
)

// runStore implements driven.RunStore.
type runStore struct {
	store *Store
}

var _ driven.RunStore = (*runStore)(nil)

// SaveRun stores a run and replaces any outcomes previously saved for it.
func (s *runStore) SaveRun(ctx context.Context, result *domain.BatchResult) error {
	if result == nil || result.RunID == "" {
		return domain.ErrInvalidInput
	}

	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO batch_runs (id, root, output_dir, started_at, ended_at, succeeded, failed)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			root = excluded.root,
			output_dir = excluded.output_dir,
			started_at = excluded.started_at,
			ended_at = excluded.ended_at,
			succeeded = excluded.succeeded,
			failed = excluded.failed
	`, result.RunID, result.Root, result.OutputDir, result.StartedAt.UTC(), nullTime(result.EndedAt),
		len(result.Successes), len(result.Failures))
	if err != nil {
		return fmt.Errorf("saving run: %w", err)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM batch_files WHERE run_id = ?", result.RunID); err != nil {
		return fmt.Errorf("clearing run files: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO batch_files (run_id, position, source, succeeded, stage, failure_kind, error,
			json_path, markdown_path, duration_ms)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing file insert: %w", err)
	}
	defer stmt.Close()

	for i, o := range result.Outcomes {
		_, err := stmt.ExecContext(ctx, result.RunID, i, o.Source, o.Succeeded, string(o.Stage),
			string(o.Kind), o.Error, o.JSONPath, o.MarkdownPath, o.Duration.Milliseconds())
		if err != nil {
			return fmt.Errorf("saving outcome for %s: %w", o.Source, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing run: %w", err)
	}
	return nil
}

// ListRuns returns run summaries, newest first.
func (s *runStore) ListRuns(ctx context.Context, limit int) ([]domain.BatchRunSummary, error) {
	query := `
		SELECT id, root, output_dir, started_at, ended_at, succeeded, failed
		FROM batch_runs
		ORDER BY started_at DESC, id
	`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.store.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []domain.BatchRunSummary //nolint:prealloc // size unknown from query
	for rows.Next() {
		run, err := scanRunSummary(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating runs: %w", err)
	}
	return runs, nil
}

// GetRun returns one run with its outcomes in encounter order.
func (s *runStore) GetRun(ctx context.Context, runID string) (*domain.BatchResult, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT id, root, output_dir, started_at, ended_at, succeeded, failed
		FROM batch_runs WHERE id = ?
	`, runID)
	summary, err := scanRunSummary(row)
	if err != nil {
		return nil, err
	}

	rows, err := s.store.db.QueryContext(ctx, `
		SELECT position, source, succeeded, stage, failure_kind, error, json_path, markdown_path, duration_ms
		FROM batch_files WHERE run_id = ?
		ORDER BY position
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("querying run files: %w", err)
	}
	defer rows.Close()

	result := &domain.BatchResult{
		RunID:     summary.RunID,
		Root:      summary.Root,
		OutputDir: summary.OutputDir,
		StartedAt: summary.StartedAt,
		EndedAt:   summary.EndedAt,
	}
	for rows.Next() {
		var (
			o          domain.FileOutcome
			stage      string
			kind       string
			durationMS int64
		)
		if err := rows.Scan(&o.Index, &o.Source, &o.Succeeded, &stage, &kind, &o.Error,
			&o.JSONPath, &o.MarkdownPath, &durationMS); err != nil {
			return nil, fmt.Errorf("scanning run file: %w", err)
		}
		o.Stage = domain.Stage(stage)
		o.Kind = domain.FailureKind(kind)
		o.Duration = time.Duration(durationMS) * time.Millisecond
		result.Record(o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating run files: %w", err)
	}
	return result, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRunSummary(row rowScanner) (*domain.BatchRunSummary, error) {
	var (
		run     domain.BatchRunSummary
		started sql.NullTime
		ended   sql.NullTime
	)
	if err := row.Scan(&run.RunID, &run.Root, &run.OutputDir, &started, &ended,
		&run.Succeeded, &run.Failed); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning run: %w", err)
	}
	if started.Valid {
		run.StartedAt = started.Time
	}
	if ended.Valid {
		run.EndedAt = ended.Time
	}
	return &run, nil
}

func nullTime(t time.Time) sql.NullTime {
	if t.IsZero() {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t.UTC(), Valid: true}
}
