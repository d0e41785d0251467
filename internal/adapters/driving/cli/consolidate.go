package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vibecraft/cadbook/internal/core/ports/driving"
	"github.com/vibecraft/cadbook/internal/logger"
)

var (
	consolidateWatch    bool
	consolidateTitle    string
	consolidateSubtitle string
	consolidatePlan     bool
)

var consolidateCmd = &cobra.Command{
	Use:   "consolidate [input_dir] [output_file]",
	Short: "Merge instruction files into one handbook",
	Long: `Collects every instruction file in input_dir (default ".") and merges
them into one handbook with a table of contents.

Sections follow the construction sequence (Floor, Wall, Roof, Veranda by
default), then everything else alphabetically. The handbook is rewritten
from scratch on every run.

Use --watch to rebuild whenever an instruction file changes.`,
	Args: cobra.MaximumNArgs(2),
	RunE: runConsolidate,
}

func init() {
	consolidateCmd.Flags().BoolVarP(&consolidateWatch, "watch", "w", false, "rebuild when instruction files change")
	consolidateCmd.Flags().StringVar(&consolidateTitle, "title", "", "handbook title (default from settings)")
	consolidateCmd.Flags().StringVar(&consolidateSubtitle, "subtitle", "", "handbook subtitle (default from settings)")
	consolidateCmd.Flags().BoolVar(&consolidatePlan, "plan", false, "print the merge order without writing")
	rootCmd.AddCommand(consolidateCmd)
}

func runConsolidate(cmd *cobra.Command, args []string) error {
	if consolidationService == nil {
		return notConfigured("consolidation")
	}

	req := driving.ConsolidateRequest{
		InputDir: ".",
		Title:    consolidateTitle,
		Subtitle: consolidateSubtitle,
	}
	if len(args) > 0 {
		req.InputDir = args[0]
	}
	if len(args) > 1 {
		req.OutputPath = args[1]
	}

	if consolidatePlan {
		return printPlan(cmd, req.InputDir)
	}

	cmd.Printf("Consolidating instructions from %s...\n", req.InputDir)

	if consolidateWatch {
		err := consolidationService.Watch(cmd.Context(), req, func(result *driving.ConsolidateResult, err error) {
			if err != nil {
				logger.Error("consolidate: %v", err)
				return
			}
			cmd.Printf("Consolidated %d manuals into %s\n", result.Count(), result.OutputPath)
		})
		if err != nil {
			return fmt.Errorf("watch failed: %w", err)
		}
		return nil
	}

	result, err := consolidationService.Consolidate(cmd.Context(), req)
	if err != nil {
		return fmt.Errorf("consolidate failed: %w", err)
	}

	cmd.Printf("Consolidated %d manuals into %s\n", result.Count(), result.OutputPath)
	return nil
}

func printPlan(cmd *cobra.Command, inputDir string) error {
	docs, err := consolidationService.Plan(cmd.Context(), inputDir)
	if err != nil {
		return fmt.Errorf("plan failed: %w", err)
	}
	if len(docs) == 0 {
		cmd.Println("No instruction files found.")
		return nil
	}
	for i, doc := range docs {
		cmd.Printf("%2d. %s (%s)\n", i+1, doc.Title, doc.Name)
	}
	return nil
}
