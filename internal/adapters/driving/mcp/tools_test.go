package mcp

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vibecraft/cadbook/internal/core/domain"
	"github.com/vibecraft/cadbook/internal/core/ports/driving"
)

func TestServer_handleDiscover(t *testing.T) {
	ctx := context.Background()

	t.Run("returns assemblies", func(t *testing.T) {
		disc := &mockDiscoveryService{docs: []domain.SourceDocument{
			{Path: "/proj/Floor.fcstd", BaseName: "Floor"},
			{Path: "/proj/walls/Wall.fcstd", BaseName: "Wall"},
		}}
		server, err := NewServer(&Ports{Discovery: disc})
		require.NoError(t, err)

		_, output, err := server.handleDiscover(ctx, nil, DiscoverInput{Root: "/proj", Sorted: true})

		require.NoError(t, err)
		assert.Equal(t, 2, output.Count)
		assert.Equal(t, "/proj/walls/Wall.fcstd", output.Assemblies[1].Path)
		assert.Equal(t, "Floor", output.Assemblies[0].BaseName)
		assert.Equal(t, "/proj", disc.lastRoot)
		assert.True(t, disc.lastSorted)
	})

	t.Run("returns error from service", func(t *testing.T) {
		server, err := NewServer(&Ports{Discovery: &mockDiscoveryService{err: domain.ErrDiscovery}})
		require.NoError(t, err)

		_, _, err = server.handleDiscover(ctx, nil, DiscoverInput{Root: "/nope"})

		assert.ErrorIs(t, err, domain.ErrDiscovery)
	})
}

func TestServer_handlePlan(t *testing.T) {
	ctx := context.Background()

	t.Run("returns ordered documents", func(t *testing.T) {
		cons := &mockConsolidationService{plan: []domain.InstructionDocument{
			{Name: "Floor_Instructions.md", Title: "Floor", Anchor: "floor"},
			{Name: "Roof_Instructions.md", Title: "Roof", Anchor: "roof"},
		}}
		server, err := NewServer(&Ports{Discovery: &mockDiscoveryService{}, Consolidation: cons})
		require.NoError(t, err)

		_, output, err := server.handlePlan(ctx, nil, PlanInput{InputDir: "/docs"})

		require.NoError(t, err)
		assert.Equal(t, 2, output.Count)
		assert.Equal(t, "roof", output.Documents[1].Anchor)
	})

	t.Run("missing service", func(t *testing.T) {
		server, err := NewServer(&Ports{Discovery: &mockDiscoveryService{}})
		require.NoError(t, err)

		_, _, err = server.handlePlan(ctx, nil, PlanInput{InputDir: "/docs"})

		assert.ErrorIs(t, err, errNoConsolidation)
	})
}

func TestServer_handleConsolidate(t *testing.T) {
	ctx := context.Background()

	t.Run("writes handbook", func(t *testing.T) {
		cons := &mockConsolidationService{result: &driving.ConsolidateResult{
			OutputPath: "/docs/Handbook.md",
			Bytes:      512,
			Handbook: &domain.Handbook{Sections: []domain.HandbookSection{
				{Title: "Floor"}, {Title: "Wall"},
			}},
		}}
		server, err := NewServer(&Ports{Discovery: &mockDiscoveryService{}, Consolidation: cons})
		require.NoError(t, err)

		_, output, err := server.handleConsolidate(ctx, nil, ConsolidateInput{
			InputDir:   "/docs",
			OutputPath: "/docs/Handbook.md",
			Title:      "Seed Home",
		})

		require.NoError(t, err)
		assert.Equal(t, "/docs/Handbook.md", output.OutputPath)
		assert.Equal(t, 2, output.Count)
		assert.Equal(t, []string{"Floor", "Wall"}, output.Sections)
		assert.Equal(t, 512, output.Bytes)
		assert.Equal(t, "Seed Home", cons.lastReq.Title)
		assert.Equal(t, "/docs", cons.lastReq.InputDir)
	})

	t.Run("propagates errors", func(t *testing.T) {
		cons := &mockConsolidationService{err: domain.ErrInputDirMissing}
		server, err := NewServer(&Ports{Discovery: &mockDiscoveryService{}, Consolidation: cons})
		require.NoError(t, err)

		_, _, err = server.handleConsolidate(ctx, nil, ConsolidateInput{InputDir: "/missing"})

		assert.ErrorIs(t, err, domain.ErrInputDirMissing)
	})

	t.Run("missing service", func(t *testing.T) {
		server, err := NewServer(&Ports{Discovery: &mockDiscoveryService{}})
		require.NoError(t, err)

		_, _, err = server.handleConsolidate(ctx, nil, ConsolidateInput{InputDir: "/docs"})

		assert.ErrorIs(t, err, errNoConsolidation)
	})
}

func TestServer_handleHistory(t *testing.T) {
	ctx := context.Background()
	started := time.Date(2026, time.May, 1, 10, 0, 0, 0, time.UTC)

	t.Run("returns runs", func(t *testing.T) {
		hist := &mockHistoryService{runs: []domain.BatchRunSummary{
			{RunID: "r1", Root: "/proj", StartedAt: started, Succeeded: 3, Failed: 1},
		}}
		server, err := NewServer(&Ports{Discovery: &mockDiscoveryService{}, History: hist})
		require.NoError(t, err)

		_, output, err := server.handleHistory(ctx, nil, HistoryInput{Limit: 5})

		require.NoError(t, err)
		require.Equal(t, 1, output.Count)
		assert.Equal(t, "r1", output.Runs[0].RunID)
		assert.Equal(t, 3, output.Runs[0].Succeeded)
		assert.Equal(t, 1, output.Runs[0].Failed)
		assert.Equal(t, "2026-05-01T10:00:00Z", output.Runs[0].StartedAt)
		assert.Equal(t, 5, hist.lastLimit)
	})

	t.Run("default limit is 10", func(t *testing.T) {
		hist := &mockHistoryService{}
		server, err := NewServer(&Ports{Discovery: &mockDiscoveryService{}, History: hist})
		require.NoError(t, err)

		_, output, err := server.handleHistory(ctx, nil, HistoryInput{})

		require.NoError(t, err)
		assert.Equal(t, 0, output.Count)
		assert.Equal(t, 10, hist.lastLimit)
	})

	t.Run("returns error from service", func(t *testing.T) {
		hist := &mockHistoryService{err: errors.New("database is locked")}
		server, err := NewServer(&Ports{Discovery: &mockDiscoveryService{}, History: hist})
		require.NoError(t, err)

		_, _, err = server.handleHistory(ctx, nil, HistoryInput{})

		assert.ErrorContains(t, err, "database is locked")
	})

	t.Run("missing service", func(t *testing.T) {
		server, err := NewServer(&Ports{Discovery: &mockDiscoveryService{}})
		require.NoError(t, err)

		_, _, err = server.handleHistory(ctx, nil, HistoryInput{})

		assert.ErrorIs(t, err, errNoHistory)
	})
}
