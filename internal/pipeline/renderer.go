package pipeline

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/ppiankov/triage/internal/model"
)

// Renderer writes run reports to files and the terminal.
type Renderer struct {
	out io.Writer
}

// NewRenderer creates a renderer. Summaries go to out (normally stderr).
func NewRenderer(out io.Writer) *Renderer {
	if out == nil {
		out = os.Stderr
	}
	return &Renderer{out: out}
}

// RenderJSON writes the run report as pretty-printed JSON.
func (r *Renderer) RenderJSON(report *model.RunReport, path string) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

// RenderSummary prints a human-readable run summary.
func (r *Renderer) RenderSummary(report *model.RunReport) {
	fmt.Fprintf(r.out, "\n")
	fmt.Fprintf(r.out, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(r.out, "  Triage Run Summary\n")
	fmt.Fprintf(r.out, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(r.out, "\n")
	fmt.Fprintf(r.out, "  Workbook:   %s\n", report.Workbook)
	fmt.Fprintf(r.out, "  Strategy:   %s\n", report.Strategy)
	fmt.Fprintf(r.out, "  Sheets:     %d\n", len(report.Sheets))
	fmt.Fprintf(r.out, "  Rows:       %d\n", report.TotalRows)
	fmt.Fprintf(r.out, "\n")

	for _, category := range model.Categories {
		if count := report.Categories[category]; count > 0 {
			fmt.Fprintf(r.out, "  %-8s %d\n", category.String()+":", count)
		}
	}

	if len(report.Tables) > 0 {
		fmt.Fprintf(r.out, "\n")
		for _, table := range report.Tables {
			fmt.Fprintf(r.out, "  ✓ %s / %s (%d rows) → %s\n", table.Category, table.Sheet, table.Rows, table.Path)
		}
	}

	for _, warning := range report.Warnings {
		if warning.Sheet != "" {
			fmt.Fprintf(r.out, "  ⚠ [%s] %s: %s\n", warning.Code, warning.Sheet, warning.Message)
		} else {
			fmt.Fprintf(r.out, "  ⚠ [%s] %s\n", warning.Code, warning.Message)
		}
	}

	fmt.Fprintf(r.out, "\n")
}
