package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var extractCmd = &cobra.Command{
	Use:   "extract <file> [output_dir]",
	Short: "Extract part data from a single assembly",
	Long: `Runs only the extraction stage for one CAD assembly and writes its
JSON record next to the file, or into output_dir when given.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runExtract,
}

func init() {
	rootCmd.AddCommand(extractCmd)
}

func runExtract(cmd *cobra.Command, args []string) error {
	if batchService == nil {
		return notConfigured("batch")
	}

	outputDir := ""
	if len(args) > 1 {
		outputDir = args[1]
	}

	result, err := batchService.Extract(cmd.Context(), args[0], outputDir)
	if err != nil {
		return fmt.Errorf("extract failed: %w", err)
	}

	outcome := result.Outcome
	if !outcome.Succeeded {
		return fmt.Errorf("extract %s: %s (%s)", outcome.Source, outcome.Error, outcome.Kind)
	}

	if result.Record != nil {
		cmd.Printf("Extracted %d parts to %s\n", len(result.Record.Parts), outcome.JSONPath)
	} else {
		cmd.Printf("Extracted %s\n", outcome.JSONPath)
	}
	return nil
}
