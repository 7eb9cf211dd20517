package model

// Sheet is a named table of rows sharing one header within a source workbook.
type Sheet struct {
	Name   string   `json:"name"`
	Header []string `json:"header"` // original column order, duplicates allowed
	Rows   []Row    `json:"rows"`
}

// Row holds a data row's original cells plus the fields derived while the
// pipeline processes it. Category is assigned exactly once and never
// reassigned; every row carries a category before partitioning begins.
type Row struct {
	Sheet    string   `json:"sheet"` // originating sheet name
	Index    int      `json:"index"` // 0-based position within the sheet
	Cells    []string `json:"cells"` // aligned to the sheet header
	FreeText string   `json:"free_text,omitempty"`
	Category Category `json:"category,omitempty"`
}

// PredictedColumn is the single column appended to every output table.
const PredictedColumn = "Predicted Category"

// TableKey identifies one output table.
type TableKey struct {
	Category Category
	Sheet    string
}

// OutputTable is the subset of one sheet's rows assigned to one category,
// in original row order, with the predicted-category column appended.
type OutputTable struct {
	Key    TableKey
	Header []string // original header + PredictedColumn
	Rows   []Row
}
