package cli

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/ppiankov/triage/internal/worker"
	"github.com/spf13/cobra"
)

var (
	concurrency  int
	batchTimeout time.Duration
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <list-file|workbook.xlsx...>",
	Short: "Classify multiple workbooks in parallel",
	Long: `Batch processes multiple workbooks concurrently:
- Arguments ending in .xlsx are workbook paths; anything else is read as
  a list file (one path per line, # comments allowed)
- Process workbooks in parallel with a configurable worker count
- Each workbook run classifies its sheets' rows concurrently
- Write per-category output workbooks for every input

Example:
  triage batch workbooks.txt
  triage batch q1.xlsx q2.xlsx q3.xlsx
  triage batch workbooks.txt extra.xlsx --concurrency 8 --output-dir ./out
  triage batch workbooks.txt --strategy model --model model.json`,
	Args: cobra.MinimumNArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().IntVar(&concurrency, "concurrency", runtime.NumCPU(), "number of concurrent workbooks")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 30*time.Minute, "total timeout for batch processing")

	// Shared run flags
	batchCmd.Flags().StringVar(&targetColumn, "column", "Delegate Comments", "free-text column name (case-insensitive)")
	batchCmd.Flags().StringVar(&strategyName, "strategy", "rules", "classification strategy (rules, model)")
	batchCmd.Flags().StringVar(&modelPath, "model", "", "trained model artifact path (required for --strategy model)")
	batchCmd.Flags().StringVar(&outputDir, "output-dir", ".", "output directory for category workbooks")
	batchCmd.Flags().IntVar(&classifyWorkers, "workers", 0, "concurrent classification workers per workbook (0 = default)")
	batchCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the model artifact cache")
}

func runBatch(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), batchTimeout)
	defer cancel()

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  Triage Batch Processing\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Inputs:       %s\n", strings.Join(args, ", "))
	fmt.Fprintf(os.Stderr, "  Workers:      %d\n", concurrency)
	fmt.Fprintf(os.Stderr, "  Output dir:   %s\n", outputDir)
	fmt.Fprintf(os.Stderr, "  Timeout:      %v\n", batchTimeout)
	fmt.Fprintf(os.Stderr, "\n")

	cfg, err := buildConfig()
	if err != nil {
		return err
	}
	cfg.Concurrency.BatchWorkers = concurrency

	if err := os.MkdirAll(cfg.Output.Dir, 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	fmt.Fprintf(os.Stderr, "⚙️  Collecting workbook paths...\n")
	paths, err := worker.CollectPaths(args)
	if err != nil {
		return fmt.Errorf("collect paths: %w", err)
	}
	fmt.Fprintf(os.Stderr, "✓ Loaded %d workbooks\n", len(paths))
	fmt.Fprintf(os.Stderr, "\n")

	// One pipeline serves the whole batch: the classifier context (and any
	// loaded model) is shared read-only across workbook workers.
	p := newPipeline(cfg)
	processor := worker.NewBatchProcessor(p, cfg.Concurrency.BatchWorkers)

	results := processor.ProcessPaths(ctx, paths)

	successCount := 0
	failureCount := 0
	totalRows := 0

	for _, result := range results {
		if result.Error != nil {
			failureCount++
			fmt.Fprintf(os.Stderr, "✗ %s: %v\n", result.Path, result.Error)
			continue
		}

		successCount++
		totalRows += result.Report.TotalRows
		fmt.Fprintf(os.Stderr, "✓ %s (%d rows, %d tables)\n", result.Path, result.Report.TotalRows, len(result.Report.Tables))

		for _, warning := range result.Report.Warnings {
			fmt.Fprintf(os.Stderr, "  ⚠ [%s] %s\n", warning.Code, warning.Message)
		}
	}

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  Batch Complete\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Total:     %d workbooks\n", len(results))
	fmt.Fprintf(os.Stderr, "  Success:   %d\n", successCount)
	fmt.Fprintf(os.Stderr, "  Failures:  %d\n", failureCount)
	fmt.Fprintf(os.Stderr, "  Rows:      %d\n", totalRows)
	fmt.Fprintf(os.Stderr, "  Output:    %s\n", outputDir)
	fmt.Fprintf(os.Stderr, "\n")

	if failureCount > 0 {
		return fmt.Errorf("%d of %d workbooks failed", failureCount, len(results))
	}
	return nil
}
