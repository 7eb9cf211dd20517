package xlsx

import (
	"fmt"

	"github.com/ppiankov/triage/internal/model"
	"github.com/xuri/excelize/v2"
)

// Source is the workbook-reading adapter handed to the pipeline.
type Source struct{}

// Read implements the pipeline's source contract.
func (Source) Read(path string) ([]model.Sheet, error) {
	return Read(path)
}

// Read loads every sheet of the workbook at path. The first row of each
// sheet is its header; data rows are aligned to the header width so cells
// stay under their columns. Sheets without a header row come back with an
// empty header so the pipeline can report them.
func Read(path string) ([]model.Sheet, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	var sheets []model.Sheet
	for _, name := range f.GetSheetList() {
		rows, err := f.GetRows(name)
		if err != nil {
			return nil, fmt.Errorf("read sheet %q: %w", name, err)
		}
		if len(rows) == 0 {
			sheets = append(sheets, model.Sheet{Name: name})
			continue
		}

		sheet := model.Sheet{
			Name:   name,
			Header: rows[0],
		}
		for i, cells := range rows[1:] {
			sheet.Rows = append(sheet.Rows, model.Row{
				Sheet: name,
				Index: i,
				Cells: pad(cells, len(sheet.Header)),
			})
		}
		sheets = append(sheets, sheet)
	}

	return sheets, nil
}

// pad aligns a row to the header width. Excelize drops trailing empty
// cells, so short rows are right-filled; stray cells past the header are
// clamped so an appended column always lands under its own header.
func pad(cells []string, width int) []string {
	if len(cells) > width {
		return cells[:width]
	}
	if len(cells) == width {
		return cells
	}
	padded := make([]string, width)
	copy(padded, cells)
	return padded
}
