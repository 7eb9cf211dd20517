package xlsx

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ppiankov/triage/internal/model"
	"github.com/xuri/excelize/v2"
)

// WriteError reports a failed output workbook with enough context to
// diagnose which category and sheet were affected.
type WriteError struct {
	Category model.Category
	Sheet    string
	Err      error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("write category %s sheet %q: %v", e.Category, e.Sheet, e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}

// Writer persists output tables as one workbook per category. Each workbook
// is written independently: a failure in one category never touches the
// files already written for the others.
type Writer struct {
	dir  string
	stem string
}

// NewWriter creates a writer rooted at dir. The stem (normally the input
// workbook's base name) prefixes every output filename.
func NewWriter(dir, stem string) *Writer {
	return &Writer{dir: dir, stem: stem}
}

// Path returns the output workbook path for a category.
func (w *Writer) Path(category model.Category) string {
	name := fmt.Sprintf("%s_%s.xlsx", w.stem, strings.ToLower(string(category)))
	return filepath.Join(w.dir, name)
}

// WriteCategory writes all of one category's tables into a single workbook,
// one sheet per source sheet, in the given order.
func (w *Writer) WriteCategory(category model.Category, tables []*model.OutputTable) (string, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	for i, table := range tables {
		name := table.Key.Sheet
		if i == 0 {
			if err := f.SetSheetName(f.GetSheetName(0), name); err != nil {
				return "", &WriteError{Category: category, Sheet: name, Err: err}
			}
		} else {
			if _, err := f.NewSheet(name); err != nil {
				return "", &WriteError{Category: category, Sheet: name, Err: err}
			}
		}

		if err := writeTable(f, name, table); err != nil {
			return "", &WriteError{Category: category, Sheet: name, Err: err}
		}
	}

	path := w.Path(category)
	if err := f.SaveAs(path); err != nil {
		return "", &WriteError{Category: category, Err: err}
	}
	return path, nil
}

// writeTable writes the header and data rows of one table into a sheet.
func writeTable(f *excelize.File, sheet string, table *model.OutputTable) error {
	if err := f.SetSheetRow(sheet, "A1", rowValues(table.Header)); err != nil {
		return fmt.Errorf("header: %w", err)
	}

	for i, row := range table.Rows {
		cells := make([]string, 0, len(table.Header))
		cells = append(cells, row.Cells...)
		cells = append(cells, string(row.Category))

		anchor, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("row %d: %w", row.Index, err)
		}
		if err := f.SetSheetRow(sheet, anchor, rowValues(cells)); err != nil {
			return fmt.Errorf("row %d: %w", row.Index, err)
		}
	}
	return nil
}

// rowValues converts a string row to the interface slice excelize expects.
func rowValues(cells []string) *[]interface{} {
	values := make([]interface{}, len(cells))
	for i, c := range cells {
		values[i] = c
	}
	return &values
}
