package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ppiankov/triage/internal/classify"
	"github.com/ppiankov/triage/internal/model"
	"github.com/ppiankov/triage/internal/partition"
	"github.com/ppiankov/triage/internal/resolve"
)

// Source reads a workbook into sheets. The xlsx reader is the production
// implementation; tests substitute fakes.
type Source interface {
	Read(path string) ([]model.Sheet, error)
}

// Sink persists one category's output tables and returns the artifact path.
type Sink interface {
	WriteCategory(category model.Category, tables []*model.OutputTable) (string, error)
}

// SinkFactory builds the sink for one workbook run.
type SinkFactory func(workbook string) Sink

// Pipeline orchestrates one run: read sheets, resolve the free-text column
// per sheet, classify rows, partition, and hand the tables to the sink.
type Pipeline struct {
	cfg        *model.Config
	classifier *classify.Context
	source     Source
	sinks      SinkFactory
}

// New creates a pipeline. The classifier context is constructed once per run
// and shared; it must be safe for concurrent reads.
func New(cfg *model.Config, classifier *classify.Context, source Source, sinks SinkFactory) *Pipeline {
	return &Pipeline{
		cfg:        cfg,
		classifier: classifier,
		source:     source,
		sinks:      sinks,
	}
}

// Run processes a single workbook and returns its run report. Row-level
// conditions (blank text, unavailable classifier) are recovered locally and
// surfaced as warnings; read failures and cancellation abort the run.
func (p *Pipeline) Run(ctx context.Context, path string) (*model.RunReport, error) {
	report := &model.RunReport{
		Workbook:   path,
		StartedAt:  time.Now().UTC(),
		Strategy:   p.cfg.Classify.Strategy,
		Categories: make(map[model.Category]int),
	}

	sheets, err := p.source.Read(path)
	if err != nil {
		return nil, fmt.Errorf("read workbook: %w", err)
	}

	var rows []model.Row
	unavailable := false

	for i := range sheets {
		// Cancellation is checked between sheets: a sheet is either
		// classified completely or abandoned, never half-done.
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		sheet := &sheets[i]
		summary := model.SheetSummary{Name: sheet.Name, Rows: len(sheet.Rows)}

		if len(sheet.Header) == 0 {
			report.Warnings = append(report.Warnings, model.Warning{
				Code:    model.WarnEmptySheet,
				Sheet:   sheet.Name,
				Message: "sheet has no header row, skipped",
			})
			report.Sheets = append(report.Sheets, summary)
			continue
		}

		if len(sheet.Rows) == 0 {
			report.Warnings = append(report.Warnings, model.Warning{
				Code:    model.WarnEmptySheet,
				Sheet:   sheet.Name,
				Message: "sheet has a header but no data rows",
			})
			report.Sheets = append(report.Sheets, summary)
			continue
		}

		col := resolve.Column(sheet.Header, p.cfg.Classify.TargetColumn)
		summary.ColumnFound = col != resolve.NotFound

		if col == resolve.NotFound {
			// Non-fatal: the whole sheet takes the default category.
			report.Warnings = append(report.Warnings, model.Warning{
				Code:    model.WarnMissingColumn,
				Sheet:   sheet.Name,
				Message: fmt.Sprintf("column %q not found; defaulting %d rows to %s", p.cfg.Classify.TargetColumn, len(sheet.Rows), model.DefaultCategory),
			})
			for j := range sheet.Rows {
				sheet.Rows[j].Category = model.DefaultCategory
			}
		} else {
			sawUnavailable, err := p.classifySheet(ctx, sheet, col)
			if err != nil {
				return nil, fmt.Errorf("classify sheet %q: %w", sheet.Name, err)
			}
			unavailable = unavailable || sawUnavailable
		}

		rows = append(rows, sheet.Rows...)
		report.Sheets = append(report.Sheets, summary)
	}

	if unavailable {
		report.Warnings = append(report.Warnings, model.Warning{
			Code:    model.WarnClassifierUnavailable,
			Message: "model strategy selected but no artifact loaded; affected rows defaulted to " + string(model.DefaultCategory),
		})
	}

	report.TotalRows = len(rows)
	for _, row := range rows {
		report.Categories[row.Category]++
	}

	partitioner := partition.New(sheets)
	tables := partitioner.Partition(rows)
	keys := partitioner.Keys(tables)

	err = p.write(report, tables, keys)
	report.FinishedAt = time.Now().UTC()
	if err != nil {
		return report, err
	}
	return report, nil
}

// classifySheet classifies one sheet's rows with bounded concurrency. Each
// row depends only on its own text, so rows never block each other. Returns
// whether any row hit an unavailable trainable model.
func (p *Pipeline) classifySheet(ctx context.Context, sheet *model.Sheet, col int) (bool, error) {
	workers := p.cfg.Concurrency.ClassifyWorkers
	if workers <= 0 {
		workers = 8
	}

	for i := range sheet.Rows {
		if col < len(sheet.Rows[i].Cells) {
			sheet.Rows[i].FreeText = sheet.Rows[i].Cells[col]
		}
	}

	categories := make([]model.Category, len(sheet.Rows))
	var unavailable atomic.Bool
	var wg sync.WaitGroup
	semaphore := make(chan struct{}, workers)

	for i := range sheet.Rows {
		wg.Add(1)
		go func(idx int, text string) {
			defer wg.Done()

			select {
			case <-ctx.Done():
				return
			case semaphore <- struct{}{}:
			}
			defer func() { <-semaphore }()

			category, err := p.classifier.Categorize(text)
			if errors.Is(err, classify.ErrUnavailable) {
				unavailable.Store(true)
			}
			categories[idx] = category
		}(i, sheet.Rows[i].FreeText)
	}

	wg.Wait()

	// All-or-nothing: a cancelled sheet contributes no rows at all.
	if err := ctx.Err(); err != nil {
		return false, err
	}

	for i := range sheet.Rows {
		sheet.Rows[i].Category = categories[i]
	}
	return unavailable.Load(), nil
}

// write hands every category's tables to the sink. Categories are written
// independently so one failed workbook never corrupts another's output;
// failures carry category and sheet context.
func (p *Pipeline) write(report *model.RunReport, tables map[model.TableKey]*model.OutputTable, keys []model.TableKey) error {
	sink := p.sinks(report.Workbook)

	byCategory := make(map[model.Category][]*model.OutputTable)
	for _, key := range keys {
		byCategory[key.Category] = append(byCategory[key.Category], tables[key])
	}

	var writeErrs []error
	for _, category := range model.Categories {
		group := byCategory[category]
		if len(group) == 0 {
			continue
		}

		path, err := sink.WriteCategory(category, group)
		if err != nil {
			writeErrs = append(writeErrs, err)
			continue
		}

		for _, table := range group {
			report.Tables = append(report.Tables, model.TableSummary{
				Category: category,
				Sheet:    table.Key.Sheet,
				Rows:     len(table.Rows),
				Path:     path,
			})
		}
	}

	return errors.Join(writeErrs...)
}
