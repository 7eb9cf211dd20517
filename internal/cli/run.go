package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ppiankov/triage/internal/cache"
	"github.com/ppiankov/triage/internal/classify"
	"github.com/ppiankov/triage/internal/model"
	"github.com/ppiankov/triage/internal/pipeline"
	"github.com/ppiankov/triage/internal/xlsx"
	"github.com/spf13/cobra"
)

var (
	targetColumn    string
	strategyName    string
	modelPath       string
	outputDir       string
	outJSON         string
	runTimeout      time.Duration
	classifyWorkers int
	noCache         bool
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run <workbook.xlsx>",
	Short: "Classify one workbook and write per-category output workbooks",
	Long: `Run reads every sheet of a workbook, classifies each row's note from
the configured free-text column, and writes one output workbook per
category. Each output keeps the original sheet grouping and column
layout, with a "Predicted Category" column appended.

Sheets without the free-text column and rows with blank notes take the
default category (Add).

Example:
  triage run requests.xlsx
  triage run requests.xlsx --column "Delegate Comments" --output-dir ./out
  triage run requests.xlsx --strategy model --model model.json`,
	Args: cobra.ExactArgs(1),
	RunE: runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVar(&targetColumn, "column", "Delegate Comments", "free-text column name (case-insensitive)")
	runCmd.Flags().StringVar(&strategyName, "strategy", "rules", "classification strategy (rules, model)")
	runCmd.Flags().StringVar(&modelPath, "model", "", "trained model artifact path (required for --strategy model)")
	runCmd.Flags().StringVar(&outputDir, "output-dir", ".", "output directory for category workbooks")
	runCmd.Flags().StringVar(&outJSON, "json", "", "run report JSON path (optional)")
	runCmd.Flags().DurationVar(&runTimeout, "timeout", 5*time.Minute, "overall run timeout")
	runCmd.Flags().IntVar(&classifyWorkers, "workers", 0, "concurrent classification workers (0 = default)")
	runCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the model artifact cache")
}

func runRun(cmd *cobra.Command, args []string) error {
	workbook := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
	defer cancel()

	cfg, err := buildConfig()
	if err != nil {
		return err
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "Workbook: %s\n", workbook)
		fmt.Fprintf(os.Stderr, "Strategy: %s\n", cfg.Classify.Strategy)
		fmt.Fprintf(os.Stderr, "Column:   %s\n", cfg.Classify.TargetColumn)
		fmt.Fprintln(os.Stderr)
	}

	if err := os.MkdirAll(cfg.Output.Dir, 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	p := newPipeline(cfg)

	report, err := p.Run(ctx, workbook)
	if err != nil {
		return fmt.Errorf("run failed: %w", err)
	}

	renderer := pipeline.NewRenderer(os.Stderr)
	if outJSON != "" {
		if err := renderer.RenderJSON(report, outJSON); err != nil {
			return fmt.Errorf("render report: %w", err)
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "✓ Wrote report: %s\n", outJSON)
		}
	}
	renderer.RenderSummary(report)

	return nil
}

// buildConfig assembles the run configuration from defaults and flags.
func buildConfig() (*model.Config, error) {
	cfg := model.DefaultConfig()

	strategy, err := model.ParseStrategy(strategyName)
	if err != nil {
		return nil, err
	}

	cfg.Classify.Strategy = strategy
	cfg.Classify.TargetColumn = targetColumn
	cfg.Classify.ModelPath = modelPath
	cfg.Output.Dir = outputDir
	cfg.Output.Verbose = verbose
	cfg.Cache.Enabled = !noCache
	if classifyWorkers > 0 {
		cfg.Concurrency.ClassifyWorkers = classifyWorkers
	}

	if strategy == model.StrategyModel && modelPath == "" {
		fmt.Fprintf(os.Stderr, "Warning: model strategy selected without --model; rows will default to %s\n", model.DefaultCategory)
	}

	return cfg, nil
}

// newPipeline wires the classifier context, source, and sink for a config.
// A model that fails to load is surfaced as a warning, not an abort: the
// run still completes with affected rows on the default category.
func newPipeline(cfg *model.Config) *pipeline.Pipeline {
	var artifactCache cache.Cache
	if cfg.Cache.Enabled {
		artifactCache = cache.NewMemoryCache(cfg.Cache.TTL, cfg.Cache.TTL)
	}
	store := classify.NewStore(artifactCache, cfg.Cache.TTL)

	classifier, err := classify.NewContext(cfg.Classify, store)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v (rows will default to %s)\n", err, model.DefaultCategory)
	}

	sinks := func(workbook string) pipeline.Sink {
		return xlsx.NewWriter(cfg.Output.Dir, workbookStem(workbook))
	}

	return pipeline.New(cfg, classifier, xlsx.Source{}, sinks)
}

// workbookStem strips the directory and extension from a workbook path.
func workbookStem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
