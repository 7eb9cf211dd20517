package xlsx

import (
	"path/filepath"
	"testing"

	"github.com/ppiankov/triage/internal/model"
	"github.com/xuri/excelize/v2"
)

func writeFixture(t *testing.T, path string) {
	t.Helper()

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName(f.GetSheetName(0), "Requests"); err != nil {
		t.Fatalf("rename sheet: %v", err)
	}
	rows := [][]interface{}{
		{"ID", "Name", "Delegate Comments"},
		{"1", "Ada", "new hire starting monday"},
		{"2", "Ben", "employee is leaving"},
		{"3", "Cae", ""}, // trailing blank cell gets trimmed by excelize
	}
	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow("Requests", cell, &row); err != nil {
			t.Fatalf("set row %d: %v", i, err)
		}
	}

	if _, err := f.NewSheet("Archive"); err != nil {
		t.Fatalf("new sheet: %v", err)
	}
	header := []interface{}{"ID", "Notes"}
	if err := f.SetSheetRow("Archive", "A1", &header); err != nil {
		t.Fatalf("set archive header: %v", err)
	}

	if err := f.SaveAs(path); err != nil {
		t.Fatalf("save fixture: %v", err)
	}
}

func TestRead(t *testing.T) {
	path := filepath.Join(t.TempDir(), "input.xlsx")
	writeFixture(t, path)

	sheets, err := Read(path)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}

	if len(sheets) != 2 {
		t.Fatalf("expected 2 sheets, got %d", len(sheets))
	}

	requests := sheets[0]
	if requests.Name != "Requests" {
		t.Errorf("sheet name = %q, want Requests", requests.Name)
	}
	if len(requests.Header) != 3 {
		t.Errorf("header has %d columns, want 3", len(requests.Header))
	}
	if len(requests.Rows) != 3 {
		t.Fatalf("expected 3 data rows, got %d", len(requests.Rows))
	}

	for i, row := range requests.Rows {
		if row.Sheet != "Requests" {
			t.Errorf("row %d sheet = %q", i, row.Sheet)
		}
		if row.Index != i {
			t.Errorf("row %d index = %d", i, row.Index)
		}
		if len(row.Cells) != len(requests.Header) {
			t.Errorf("row %d has %d cells, want %d (padded)", i, len(row.Cells), len(requests.Header))
		}
	}

	if requests.Rows[1].Cells[2] != "employee is leaving" {
		t.Errorf("cell = %q, want note text", requests.Rows[1].Cells[2])
	}
	if requests.Rows[2].Cells[2] != "" {
		t.Errorf("trimmed cell = %q, want empty", requests.Rows[2].Cells[2])
	}

	archive := sheets[1]
	if len(archive.Rows) != 0 {
		t.Errorf("header-only sheet has %d rows, want 0", len(archive.Rows))
	}
}

func TestRead_ClampsStrayCells(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "stray.xlsx")

	f := excelize.NewFile()
	if err := f.SetSheetName(f.GetSheetName(0), "Requests"); err != nil {
		t.Fatalf("rename sheet: %v", err)
	}
	rows := [][]interface{}{
		{"ID", "Delegate Comments"},
		{"1", "employee is leaving", "stray extra cell"},
	}
	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow("Requests", cell, &row); err != nil {
			t.Fatalf("set row %d: %v", i, err)
		}
	}
	if err := f.SaveAs(input); err != nil {
		t.Fatalf("save fixture: %v", err)
	}
	_ = f.Close()

	sheets, err := Read(input)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(sheets[0].Rows[0].Cells) != 2 {
		t.Fatalf("row has %d cells, want clamped to header width 2", len(sheets[0].Rows[0].Cells))
	}

	// The appended category must sit under its own header even for a row
	// that carried a cell past the header.
	row := sheets[0].Rows[0]
	row.Category = model.CategoryTerm
	table := &model.OutputTable{
		Key:    model.TableKey{Category: model.CategoryTerm, Sheet: "Requests"},
		Header: []string{"ID", "Delegate Comments", model.PredictedColumn},
		Rows:   []model.Row{row},
	}

	w := NewWriter(dir, "stray")
	path, err := w.WriteCategory(model.CategoryTerm, []*model.OutputTable{table})
	if err != nil {
		t.Fatalf("WriteCategory: %v", err)
	}

	out, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("reopen output: %v", err)
	}
	defer func() { _ = out.Close() }()

	written, err := out.GetRows("Requests")
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if written[0][2] != model.PredictedColumn {
		t.Errorf("header[2] = %q, want %q", written[0][2], model.PredictedColumn)
	}
	if written[1][2] != "Term" {
		t.Errorf("cell under %s = %q, want Term", model.PredictedColumn, written[1][2])
	}
}

func TestRead_HeaderlessSheet(t *testing.T) {
	input := filepath.Join(t.TempDir(), "headerless.xlsx")

	f := excelize.NewFile()
	if err := f.SetSheetName(f.GetSheetName(0), "Requests"); err != nil {
		t.Fatalf("rename sheet: %v", err)
	}
	header := []interface{}{"ID", "Delegate Comments"}
	if err := f.SetSheetRow("Requests", "A1", &header); err != nil {
		t.Fatalf("set header: %v", err)
	}
	if _, err := f.NewSheet("Void"); err != nil {
		t.Fatalf("new sheet: %v", err)
	}
	if err := f.SaveAs(input); err != nil {
		t.Fatalf("save fixture: %v", err)
	}
	_ = f.Close()

	sheets, err := Read(input)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(sheets) != 2 {
		t.Fatalf("expected 2 sheets, got %d", len(sheets))
	}
	if sheets[1].Name != "Void" {
		t.Errorf("sheet name = %q, want Void", sheets[1].Name)
	}
	if len(sheets[1].Header) != 0 || len(sheets[1].Rows) != 0 {
		t.Errorf("headerless sheet must come back empty, got header %v rows %d", sheets[1].Header, len(sheets[1].Rows))
	}
}

func TestRead_MissingFile(t *testing.T) {
	if _, err := Read(filepath.Join(t.TempDir(), "absent.xlsx")); err == nil {
		t.Error("expected error for missing workbook")
	}
}

func TestWriter_WriteCategory(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(dir, "requests")

	tables := []*model.OutputTable{
		{
			Key:    model.TableKey{Category: model.CategoryTerm, Sheet: "Requests"},
			Header: []string{"ID", "Name", "Delegate Comments", model.PredictedColumn},
			Rows: []model.Row{
				{Sheet: "Requests", Index: 1, Cells: []string{"2", "Ben", "employee is leaving"}, Category: model.CategoryTerm},
			},
		},
		{
			Key:    model.TableKey{Category: model.CategoryTerm, Sheet: "Archive"},
			Header: []string{"ID", "Notes", model.PredictedColumn},
			Rows: []model.Row{
				{Sheet: "Archive", Index: 0, Cells: []string{"9", "resigned"}, Category: model.CategoryTerm},
			},
		},
	}

	path, err := w.WriteCategory(model.CategoryTerm, tables)
	if err != nil {
		t.Fatalf("WriteCategory: %v", err)
	}

	want := filepath.Join(dir, "requests_term.xlsx")
	if path != want {
		t.Errorf("path = %q, want %q", path, want)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("reopen output: %v", err)
	}
	defer func() { _ = f.Close() }()

	names := f.GetSheetList()
	if len(names) != 2 || names[0] != "Requests" || names[1] != "Archive" {
		t.Fatalf("sheet list = %v, want [Requests Archive]", names)
	}

	rows, err := f.GetRows("Requests")
	if err != nil {
		t.Fatalf("read back Requests: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("Requests has %d rows, want header + 1", len(rows))
	}
	if rows[0][3] != model.PredictedColumn {
		t.Errorf("appended header = %q, want %q", rows[0][3], model.PredictedColumn)
	}
	if rows[1][3] != "Term" {
		t.Errorf("predicted cell = %q, want Term", rows[1][3])
	}
	if rows[1][2] != "employee is leaving" {
		t.Errorf("original cell = %q, want note text", rows[1][2])
	}
}

func TestWriter_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "input.xlsx")
	writeFixture(t, input)

	sheets, err := Read(input)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}

	// Classify everything Add and write it back out through the sink.
	requests := sheets[0]
	table := &model.OutputTable{
		Key:    model.TableKey{Category: model.CategoryAdd, Sheet: requests.Name},
		Header: append(append([]string{}, requests.Header...), model.PredictedColumn),
	}
	for i := range requests.Rows {
		requests.Rows[i].Category = model.CategoryAdd
		table.Rows = append(table.Rows, requests.Rows[i])
	}

	w := NewWriter(dir, "input")
	path, err := w.WriteCategory(model.CategoryAdd, []*model.OutputTable{table})
	if err != nil {
		t.Fatalf("WriteCategory: %v", err)
	}

	out, err := Read(path)
	if err != nil {
		t.Fatalf("Read output: %v", err)
	}
	if len(out) != 1 {
		t.Fatalf("output has %d sheets, want 1", len(out))
	}
	if len(out[0].Rows) != len(requests.Rows) {
		t.Errorf("output has %d rows, want %d", len(out[0].Rows), len(requests.Rows))
	}
	if len(out[0].Header) != len(requests.Header)+1 {
		t.Errorf("output header has %d columns, want %d", len(out[0].Header), len(requests.Header)+1)
	}
}
