package sqlite

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vibecraft/cadbook/internal/core/domain"
	"github.com/vibecraft/cadbook/internal/core/ports/driven"
)

// setupTestStore creates a temporary SQLite store for testing.
func setupTestStore(t *testing.T) (*Store, func()) {
	t.Helper()

	tempDir, err := os.MkdirTemp("", "cadbook-test-*")
	require.NoError(t, err)

	store, err := NewStore(tempDir)
	require.NoError(t, err)
	require.NotNil(t, store)

	cleanup := func() {
		assert.NoError(t, store.Close())
		assert.NoError(t, os.RemoveAll(tempDir))
	}

	return store, cleanup
}

func testRun(id string, started time.Time) *domain.BatchResult {
	result := &domain.BatchResult{
		RunID:     id,
		Root:      "/projects/seed-home",
		OutputDir: "/projects/out",
		StartedAt: started,
		EndedAt:   started.Add(90 * time.Second),
	}
	result.Record(domain.FileOutcome{
		Source:       "/projects/seed-home/Floor.fcstd",
		Succeeded:    true,
		Stage:        domain.StageDone,
		JSONPath:     "/projects/out/Floor.json",
		MarkdownPath: "/projects/out/Floor_Instructions.md",
		Duration:     1500 * time.Millisecond,
	})
	result.Record(domain.FileOutcome{
		Source:   "/projects/seed-home/Roof.fcstd",
		Index:    1,
		Stage:    domain.StageExtract,
		Kind:     domain.FailureTimeout,
		Error:    "adapter timed out",
		JSONPath: "/projects/out/Roof.json",
		Duration: 120 * time.Second,
	})
	return result
}

func TestNewStore(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	assert.NotNil(t, store.db)
	assert.Equal(t, DatabaseFile, filepath.Base(store.Path()))

	_, err := os.Stat(store.Path())
	assert.NoError(t, err, "database file should exist")
}

func TestNewStore_Migrations(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	var version int
	require.NoError(t, store.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations").Scan(&version))
	assert.Equal(t, 1, version)

	for _, table := range []string{"batch_runs", "batch_files"} {
		var tableExists int
		err := store.db.QueryRow(
			"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?",
			table,
		).Scan(&tableExists)
		require.NoError(t, err)
		assert.Equal(t, 1, tableExists, "table %s should exist", table)
	}
}

func TestNewStore_ReopenKeepsData(t *testing.T) {
	dir := t.TempDir()

	store, err := NewStore(dir)
	require.NoError(t, err)
	require.NoError(t, store.RunStore().SaveRun(context.Background(), testRun("run-1", time.Now())))
	require.NoError(t, store.Close())

	reopened, err := NewStore(dir)
	require.NoError(t, err)
	defer reopened.Close()

	runs, err := reopened.RunStore().ListRuns(context.Background(), 0)
	require.NoError(t, err)
	assert.Len(t, runs, 1)
}

func TestNewStore_ForeignKeysEnabled(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	var fkEnabled int
	err := store.db.QueryRow("PRAGMA foreign_keys").Scan(&fkEnabled)
	require.NoError(t, err)
	assert.Equal(t, 1, fkEnabled, "foreign keys should be enabled")
}

func TestNewStore_InvalidDataDir(t *testing.T) {
	file := filepath.Join(t.TempDir(), "not-a-dir")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0600))

	_, err := NewStore(file)
	assert.Error(t, err)
}

func TestStore_Migrate_SkipsApplied(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	fsys := fstest.MapFS{
		"001_initial.up.sql": {Data: []byte("CREATE TABLE should_not_exist (id INTEGER);")},
		"002_extra.up.sql":   {Data: []byte("CREATE TABLE extra (id INTEGER);")},
		"README.md":          {Data: []byte("ignored")},
	}
	require.NoError(t, store.migrate(fsys))

	var count int
	require.NoError(t, store.db.QueryRow(
		"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name IN ('should_not_exist', 'extra')",
	).Scan(&count))
	assert.Equal(t, 1, count)

	var version int
	require.NoError(t, store.db.QueryRow("SELECT MAX(version) FROM schema_migrations").Scan(&version))
	assert.Equal(t, 2, version)
}

func TestStore_Close(t *testing.T) {
	store, _ := setupTestStore(t)

	err := store.Close()
	assert.NoError(t, err)

	err = store.db.Ping()
	assert.Error(t, err)
}

func TestRunStore_Interface(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	var _ driven.RunStore = store.RunStore()
}

func TestRunStore_SaveAndGet(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()
	runs := store.RunStore()

	started := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	require.NoError(t, runs.SaveRun(ctx, testRun("run-1", started)))

	got, err := runs.GetRun(ctx, "run-1")
	require.NoError(t, err)

	assert.Equal(t, "run-1", got.RunID)
	assert.Equal(t, "/projects/seed-home", got.Root)
	assert.Equal(t, "/projects/out", got.OutputDir)
	assert.WithinDuration(t, started, got.StartedAt, time.Second)
	assert.WithinDuration(t, started.Add(90*time.Second), got.EndedAt, time.Second)
	assert.Equal(t, []string{"/projects/seed-home/Floor.fcstd"}, got.Successes)
	assert.Equal(t, []string{"/projects/seed-home/Roof.fcstd"}, got.Failures)

	require.Len(t, got.Outcomes, 2)
	assert.Equal(t, domain.StageDone, got.Outcomes[0].Stage)
	assert.Equal(t, 1500*time.Millisecond, got.Outcomes[0].Duration)
	assert.Equal(t, "/projects/out/Floor_Instructions.md", got.Outcomes[0].MarkdownPath)

	assert.Equal(t, 1, got.Outcomes[1].Index)
	assert.Equal(t, domain.FailureTimeout, got.Outcomes[1].Kind)
	assert.Equal(t, domain.StageExtract, got.Outcomes[1].Stage)
	assert.Equal(t, "adapter timed out", got.Outcomes[1].Error)
}

func TestRunStore_SaveReplacesOutcomes(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()
	runs := store.RunStore()

	result := testRun("run-1", time.Now())
	require.NoError(t, runs.SaveRun(ctx, result))

	result.Outcomes = result.Outcomes[:1]
	result.Successes = result.Successes[:1]
	result.Failures = nil
	require.NoError(t, runs.SaveRun(ctx, result))

	got, err := runs.GetRun(ctx, "run-1")
	require.NoError(t, err)
	assert.Len(t, got.Outcomes, 1)

	list, err := runs.ListRuns(ctx, 0)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, 0, list[0].Failed)
}

func TestRunStore_SaveInvalid(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	assert.ErrorIs(t, store.RunStore().SaveRun(context.Background(), nil), domain.ErrInvalidInput)
	assert.ErrorIs(t, store.RunStore().SaveRun(context.Background(), &domain.BatchResult{}), domain.ErrInvalidInput)
}

func TestRunStore_GetMissing(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	_, err := store.RunStore().GetRun(context.Background(), "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRunStore_ListRuns(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()
	runs := store.RunStore()

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, runs.SaveRun(ctx, testRun("oldest", base)))
	require.NoError(t, runs.SaveRun(ctx, testRun("newest", base.Add(2*time.Hour))))
	require.NoError(t, runs.SaveRun(ctx, testRun("middle", base.Add(time.Hour))))

	t.Run("newest first", func(t *testing.T) {
		list, err := runs.ListRuns(ctx, 0)
		require.NoError(t, err)
		require.Len(t, list, 3)
		assert.Equal(t, "newest", list[0].RunID)
		assert.Equal(t, "middle", list[1].RunID)
		assert.Equal(t, "oldest", list[2].RunID)
		assert.Equal(t, 1, list[0].Succeeded)
		assert.Equal(t, 1, list[0].Failed)
	})

	t.Run("limit", func(t *testing.T) {
		list, err := runs.ListRuns(ctx, 2)
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, "newest", list[0].RunID)
	})

	t.Run("empty store", func(t *testing.T) {
		empty, cleanupEmpty := setupTestStore(t)
		defer cleanupEmpty()

		list, err := empty.RunStore().ListRuns(ctx, 0)
		require.NoError(t, err)
		assert.Empty(t, list)
	})
}

func TestRunStore_RunWithoutEnd(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	result := &domain.BatchResult{RunID: "partial", Root: "/r", StartedAt: time.Now()}
	require.NoError(t, store.RunStore().SaveRun(ctx, result))

	got, err := store.RunStore().GetRun(ctx, "partial")
	require.NoError(t, err)
	assert.True(t, got.EndedAt.IsZero())
	assert.Empty(t, got.Outcomes)
}
