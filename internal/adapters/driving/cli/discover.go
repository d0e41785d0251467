package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	discoverSorted bool
	discoverJSON   bool
)

var discoverCmd = &cobra.Command{
	Use:   "discover <root_dir>",
	Short: "List the assemblies a batch would process",
	Long: `Walks root_dir and prints every CAD assembly a batch run would pick up,
in traversal order. Archived paths and hidden files are skipped.`,
	Args: cobra.ExactArgs(1),
	RunE: runDiscover,
}

func init() {
	discoverCmd.Flags().BoolVar(&discoverSorted, "sorted", false, "sort by path")
	discoverCmd.Flags().BoolVar(&discoverJSON, "json", false, "output as JSON")
	rootCmd.AddCommand(discoverCmd)
}

func runDiscover(cmd *cobra.Command, args []string) error {
	if discoveryService == nil {
		return notConfigured("discovery")
	}

	docs, err := discoveryService.Discover(cmd.Context(), args[0], discoverSorted)
	if err != nil {
		return fmt.Errorf("discover failed: %w", err)
	}

	if discoverJSON {
		paths := make([]string, 0, len(docs))
		for _, d := range docs {
			paths = append(paths, d.Path)
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(paths)
	}

	for _, d := range docs {
		cmd.Println(d.Path)
	}
	cmd.Printf("\nFound %d assemblies\n", len(docs))
	return nil
}
