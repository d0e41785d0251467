package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/vibecraft/cadbook/internal/core/domain"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history [run-id]",
	Short: "Show past batch runs",
	Long: `Lists recent batch runs, newest first. Pass a run ID to see the
outcome of every file in that run.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "maximum number of runs")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	if historyService == nil {
		return notConfigured("history")
	}

	if len(args) == 1 {
		run, err := historyService.Get(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("failed to get run: %w", err)
		}
		printRun(cmd, run)
		return nil
	}

	runs, err := historyService.List(cmd.Context(), historyLimit)
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}
	if len(runs) == 0 {
		cmd.Println("No batch runs recorded.")
		return nil
	}

	for _, r := range runs {
		cmd.Printf("%s  %s  ok=%d failed=%d  %s\n",
			r.RunID, r.StartedAt.Format(time.DateTime), r.Succeeded, r.Failed, r.Root)
	}
	return nil
}

func printRun(cmd *cobra.Command, run *domain.BatchResult) {
	cmd.Printf("Run:      %s\n", run.RunID)
	cmd.Printf("Root:     %s\n", run.Root)
	if run.OutputDir != "" {
		cmd.Printf("Output:   %s\n", run.OutputDir)
	}
	cmd.Printf("Started:  %s\n", run.StartedAt.Format(time.DateTime))
	cmd.Printf("Duration: %s\n", run.EndedAt.Sub(run.StartedAt).Round(time.Millisecond))
	cmd.Printf("Success:  %d\n", len(run.Successes))
	cmd.Printf("Failed:   %d\n", len(run.Failures))
	cmd.Println()

	for _, o := range run.Outcomes {
		if o.Succeeded {
			cmd.Printf("  ok    %s\n", o.Source)
			continue
		}
		cmd.Printf("  FAIL  %s (%s at %s)\n", o.Source, o.Kind, o.Stage)
	}
}
