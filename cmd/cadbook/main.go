// Command cadbook turns a tree of CAD assemblies into an assembly handbook.
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	configfile "github.com/vibecraft/cadbook/internal/adapters/driven/config/file"
	"github.com/vibecraft/cadbook/internal/adapters/driven/freecad"
	"github.com/vibecraft/cadbook/internal/adapters/driven/process"
	"github.com/vibecraft/cadbook/internal/adapters/driven/storage/file"
	"github.com/vibecraft/cadbook/internal/adapters/driven/storage/memory"
	"github.com/vibecraft/cadbook/internal/adapters/driven/storage/sqlite"
	"github.com/vibecraft/cadbook/internal/adapters/driven/watcher"
	"github.com/vibecraft/cadbook/internal/adapters/driven/weave"
	"github.com/vibecraft/cadbook/internal/adapters/driving/cli"
	"github.com/vibecraft/cadbook/internal/connectors/filesystem"
	"github.com/vibecraft/cadbook/internal/core/ports/driven"
	"github.com/vibecraft/cadbook/internal/core/services"
	"github.com/vibecraft/cadbook/internal/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cli.SetBootstrap(bootstrap)
	if err := cli.Execute(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

// bootstrap builds every adapter and service for one command invocation.
func bootstrap(configDir string) (*cli.Services, func(), error) {
	if configDir == "" {
		dir, err := configfile.DefaultConfigDir()
		if err != nil {
			return nil, nil, err
		}
		configDir = dir
	}

	configStore, err := configfile.NewConfigStore(configDir)
	if err != nil {
		return nil, nil, err
	}
	settingsService := services.NewSettingsService(configStore)

	settings, err := settingsService.Get()
	if err != nil {
		// Settings alone let the user repair the file.
		return &cli.Services{Settings: settingsService}, nil, err
	}

	runner := process.NewRunner()

	scripts, err := configfile.NewScriptStore(filepath.Join(configDir, "scripts"), freecad.DefaultScripts())
	if err != nil {
		return nil, nil, err
	}
	extractor := freecad.New(freecad.ConfigFromSettings(settings), runner)
	extractor.SetScriptStore(scripts)
	generator := weave.New(weave.ConfigFromSettings(settings), runner)
	discoverer := filesystem.New(filesystem.OptionsFromSettings(settings.Discovery))

	var (
		runStore driven.RunStore
		closers  []func() error
	)
	if settings.History.Enabled {
		store, err := sqlite.NewStore(filepath.Join(configDir, "data"))
		if err != nil {
			logger.Warn("run history unavailable, keeping it in memory: %v", err)
			runStore = memory.NewRunStore()
		} else {
			logger.Debug("run history at %s", store.Path())
			runStore = store.RunStore()
			closers = append(closers, store.Close)
		}
	} else {
		runStore = memory.NewRunStore()
	}

	svc := &cli.Services{
		Batch:     services.NewBatchOrchestrator(discoverer, extractor, generator, runStore, *settings),
		Discovery: services.NewDiscoveryService(discoverer),
		Consolidation: services.NewConsolidator(
			file.NewInstructionStore(),
			file.NewHandbookWriter(),
			watcher.New(),
			settings.Handbook,
		),
		History:  services.NewHistoryService(runStore),
		Settings: settingsService,
	}

	cleanup := func() {
		var errs []error
		for _, closeFn := range closers {
			errs = append(errs, closeFn())
		}
		if err := errors.Join(errs...); err != nil {
			logger.Warn("shutdown: %v", err)
		}
	}
	return svc, cleanup, nil
}
