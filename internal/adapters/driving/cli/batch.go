package cli

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vibecraft/cadbook/internal/adapters/driving/tui"
	"github.com/vibecraft/cadbook/internal/core/domain"
	"github.com/vibecraft/cadbook/internal/core/ports/driving"
)

var (
	batchTUI       bool
	batchNoHistory bool
)

// isTerminal is replaceable for tests.
var isTerminal = func(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

var batchCmd = &cobra.Command{
	Use:   "batch <root_dir> [output_dir]",
	Short: "Extract and generate instructions for every assembly",
	Long: `Walks root_dir for CAD assemblies and runs each one through the
extractor and then the instruction generator.

A file that fails is recorded and the batch moves on; the summary lists
every failed file with the reason. Artifacts are written next to each
assembly unless output_dir is given.

Use --tui for a live progress view when running in a terminal.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runBatch,
}

func init() {
	batchCmd.Flags().BoolVar(&batchTUI, "tui", false, "show a live progress view")
	batchCmd.Flags().BoolVar(&batchNoHistory, "no-history", false, "do not record this run in history")
	rootCmd.AddCommand(batchCmd)
}

func runBatch(cmd *cobra.Command, args []string) error {
	if batchService == nil {
		return notConfigured("batch")
	}

	req := driving.BatchRequest{
		Root:        args[0],
		SkipHistory: batchNoHistory,
	}
	if len(args) > 1 {
		req.OutputDir = args[1]
	}

	var (
		result *domain.BatchResult
		err    error
	)
	if batchTUI && isTerminal(cmd.OutOrStdout()) {
		result, err = tui.Run(cmd.Context(), tui.NewPorts(batchService), req)
	} else {
		req.Observer = newProgressPrinter(cmd.OutOrStdout())
		result, err = batchService.Run(cmd.Context(), req)
	}

	if result != nil {
		printBatchSummary(cmd, result)
	}
	if err != nil {
		return fmt.Errorf("batch failed: %w", err)
	}
	return nil
}

var banner = strings.Repeat("#", 60)

// progressPrinter writes the plain progress log. Workers call it
// concurrently, so writes are serialised.
type progressPrinter struct {
	mu  sync.Mutex
	out io.Writer
}

// Ensure progressPrinter implements the observer port.
var _ driving.BatchObserver = (*progressPrinter)(nil)

func newProgressPrinter(out io.Writer) *progressPrinter {
	return &progressPrinter{out: out}
}

func (p *progressPrinter) BatchStarted(root string, total int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintln(p.out, banner)
	fmt.Fprintln(p.out, "# cadbook batch")
	fmt.Fprintf(p.out, "# Root: %s\n", root)
	fmt.Fprintf(p.out, "# Started: %s\n", time.Now().Format(time.RFC3339))
	fmt.Fprintln(p.out, banner)
	fmt.Fprintf(p.out, "\nFound %d assemblies to process\n", total)
}

func (p *progressPrinter) FileStarted(index, total int, source domain.SourceDocument) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintf(p.out, "\n[%d/%d] Processing: %s\n", index+1, total, source.Filename())
}

func (p *progressPrinter) FileFinished(outcome domain.FileOutcome, _ int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if outcome.Succeeded {
		fmt.Fprintf(p.out, "  ok  %s\n", outcome.MarkdownPath)
		return
	}
	fmt.Fprintf(p.out, "  FAIL %s at %s (%s): %s\n",
		outcome.Source, outcome.Stage, outcome.Kind, firstLine(outcome.Error))
}

func (p *progressPrinter) BatchFinished(*domain.BatchResult) {}

func printBatchSummary(cmd *cobra.Command, result *domain.BatchResult) {
	cmd.Println()
	cmd.Println(banner)
	cmd.Println("# BATCH COMPLETE")
	cmd.Printf("# Success: %d\n", len(result.Successes))
	cmd.Printf("# Failed: %d\n", len(result.Failures))
	cmd.Println(banner)

	failed := result.FailedOutcomes()
	if len(failed) == 0 {
		return
	}
	cmd.Println()
	cmd.Println("Failed files:")
	for _, f := range failed {
		cmd.Printf("  - %s (%s)\n", f.Source, f.Kind)
	}
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	return line
}
