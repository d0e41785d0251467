// Package cli provides the cobra command tree for cadbook.
package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/vibecraft/cadbook/internal/core/ports/driving"
	"github.com/vibecraft/cadbook/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

// Services consumed by the commands. Set by Bootstrap or SetServices.
var (
	batchService         driving.BatchService
	discoveryService     driving.DiscoveryService
	consolidationService driving.ConsolidationService
	historyService       driving.HistoryService
	settingsService      driving.SettingsService
)

var (
	verbose   bool
	configDir string
)

// Services groups the driving ports used by the commands.
type Services struct {
	Batch         driving.BatchService
	Discovery     driving.DiscoveryService
	Consolidation driving.ConsolidationService
	History       driving.HistoryService
	Settings      driving.SettingsService
}

// BootstrapFunc builds the services for a configuration directory. An empty
// configDir means the default location. The cleanup func, if non-nil, is
// called once the command has finished.
//
// When the configuration is invalid it should return the error together with
// Services carrying at least Settings, so the settings commands can repair it.
type BootstrapFunc func(configDir string) (*Services, func(), error)

var (
	bootstrap BootstrapFunc
	cleanup   func()
)

var rootCmd = &cobra.Command{
	Use:   "cadbook",
	Short: "Turn CAD assemblies into an assembly handbook",
	Long: `cadbook walks a project tree of CAD assemblies, extracts part data from
each one with a headless CAD engine, generates per-assembly build instructions
and merges them into a single ordered handbook.

Typical workflow:
  cadbook batch ./project ./out
  cadbook consolidate ./out`,
	SilenceUsage:      true,
	PersistentPreRunE: prepare,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "configuration directory (default ~/.cadbook)")
}

// SetBootstrap installs the function that builds services before a command runs.
func SetBootstrap(fn BootstrapFunc) {
	bootstrap = fn
}

// SetServices installs services directly, bypassing Bootstrap.
func SetServices(s *Services) {
	if s == nil {
		s = &Services{}
	}
	batchService = s.Batch
	discoveryService = s.Discovery
	consolidationService = s.Consolidation
	historyService = s.History
	settingsService = s.Settings
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	defer runCleanup()
	return rootCmd.ExecuteContext(ctx)
}

func prepare(cmd *cobra.Command, _ []string) error {
	logger.SetVerbose(verbose)

	if bootstrap == nil || !needsServices(cmd) {
		return nil
	}

	services, done, err := bootstrap(configDir)
	cleanup = done
	if err != nil {
		if services == nil || services.Settings == nil || !isSettingsCommand(cmd) {
			return err
		}
		cmd.PrintErrf("warning: %v\n", err)
		settingsService = services.Settings
		return nil
	}
	SetServices(services)
	return nil
}

func runCleanup() {
	if cleanup != nil {
		cleanup()
		cleanup = nil
	}
}

// needsServices reports whether cmd touches the pipeline or configuration.
func needsServices(cmd *cobra.Command) bool {
	switch cmd.Name() {
	case "version", "help", cobra.ShellCompRequestCmd, cobra.ShellCompNoDescRequestCmd:
		return false
	}
	for c := cmd; c != nil; c = c.Parent() {
		if c.Name() == "completion" {
			return false
		}
	}
	return true
}

func isSettingsCommand(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c == settingsCmd {
			return true
		}
	}
	return false
}

func notConfigured(name string) error {
	return errors.New(name + " service not configured")
}
