package model

import "time"

// RunReport summarizes one pipeline run over a single workbook.
type RunReport struct {
	Workbook   string    `json:"workbook"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	Strategy   Strategy  `json:"strategy"`
	TotalRows  int       `json:"total_rows"`

	Sheets     []SheetSummary   `json:"sheets"`
	Categories map[Category]int `json:"categories"`
	Tables     []TableSummary   `json:"tables"`

	Warnings []Warning `json:"warnings,omitempty"`
}

// SheetSummary records how one input sheet was processed.
type SheetSummary struct {
	Name        string `json:"name"`
	Rows        int    `json:"rows"`
	ColumnFound bool   `json:"column_found"` // whether the free-text column resolved
}

// TableSummary records one emitted output table.
type TableSummary struct {
	Category Category `json:"category"`
	Sheet    string   `json:"sheet"`
	Rows     int      `json:"rows"`
	Path     string   `json:"path,omitempty"` // output workbook holding the table
}

// WarningCode classifies a recoverable, run-level condition.
type WarningCode string

const (
	WarnMissingColumn         WarningCode = "missing_column"
	WarnClassifierUnavailable WarningCode = "classifier_unavailable"
	WarnEmptySheet            WarningCode = "empty_sheet"
)

// Warning is a non-fatal condition surfaced on the run report.
type Warning struct {
	Code    WarningCode `json:"code"`
	Sheet   string      `json:"sheet,omitempty"`
	Message string      `json:"message"`
}
