package worker

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ppiankov/triage/internal/model"
)

// Runner runs the classification pipeline over a single workbook.
type Runner interface {
	Run(ctx context.Context, path string) (*model.RunReport, error)
}

// RunJob is one workbook to process.
type RunJob struct {
	Path   string
	Runner Runner
}

// Execute runs the pipeline for the job's workbook.
func (j *RunJob) Execute(ctx context.Context) Result {
	report, err := j.Runner.Run(ctx, j.Path)
	return &RunResult{
		Path:   j.Path,
		Report: report,
		Error:  err,
	}
}

// RunResult is the outcome of processing one workbook.
type RunResult struct {
	Path   string
	Report *model.RunReport
	Error  error
}

// GetError returns the error from the run result.
func (r *RunResult) GetError() error {
	return r.Error
}

// BatchProcessor processes multiple workbooks concurrently. Workbooks are
// independent units of work; a failed workbook never affects the others.
type BatchProcessor struct {
	runner      Runner
	concurrency int
}

// NewBatchProcessor creates a batch processor.
func NewBatchProcessor(runner Runner, concurrency int) *BatchProcessor {
	return &BatchProcessor{
		runner:      runner,
		concurrency: concurrency,
	}
}

// ProcessPaths runs the pipeline over every workbook path concurrently.
// Results drain while submission is still in flight, so the path list may
// exceed the pool's buffers by any amount. Cancelling ctx aborts in-flight
// runs.
func (b *BatchProcessor) ProcessPaths(ctx context.Context, paths []string) []*RunResult {
	if len(paths) == 0 {
		return []*RunResult{}
	}

	pool := NewPool(ctx, b.concurrency)
	pool.Start()

	go func() {
		for _, path := range paths {
			pool.Submit(&RunJob{
				Path:   path,
				Runner: b.runner,
			})
		}
		pool.Close()
	}()

	results := pool.Wait()

	runResults := make([]*RunResult, len(results))
	for i, result := range results {
		runResults[i] = result.(*RunResult)
	}

	return runResults
}

// CollectPaths expands batch arguments into workbook paths. Arguments with
// an .xlsx extension are workbook paths; anything else is read as a list
// file. Duplicates are dropped, keeping first-occurrence order.
func CollectPaths(args []string) ([]string, error) {
	var paths []string
	seen := make(map[string]bool)

	add := func(path string) {
		if !seen[path] {
			seen[path] = true
			paths = append(paths, path)
		}
	}

	for _, arg := range args {
		if strings.EqualFold(filepath.Ext(arg), ".xlsx") {
			add(arg)
			continue
		}

		listed, err := ReadPathsFromFile(arg)
		if err != nil {
			return nil, err
		}
		for _, path := range listed {
			add(path)
		}
	}

	return paths, nil
}

// ReadPathsFromFile reads workbook paths from a file (one per line).
// Blank lines and # comments are skipped; duplicates are dropped.
func ReadPathsFromFile(listPath string) ([]string, error) {
	file, err := os.Open(listPath)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var paths []string
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if !seen[line] {
			seen[line] = true
			paths = append(paths, line)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}

	return paths, nil
}
