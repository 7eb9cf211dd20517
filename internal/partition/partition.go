package partition

import (
	"github.com/ppiankov/triage/internal/model"
)

// Partitioner regroups classified rows into per-(category, sheet) output
// tables that preserve the source sheets' column layout and row order.
type Partitioner struct {
	headers    map[string][]string
	sheetOrder []string
}

// New creates a partitioner for the given source sheets.
func New(sheets []model.Sheet) *Partitioner {
	p := &Partitioner{
		headers:    make(map[string][]string, len(sheets)),
		sheetOrder: make([]string, 0, len(sheets)),
	}
	for _, sheet := range sheets {
		p.headers[sheet.Name] = sheet.Header
		p.sheetOrder = append(p.sheetOrder, sheet.Name)
	}
	return p
}

// Partition groups rows by category, then by originating sheet within each
// category. Only (category, sheet) pairs with at least one row produce a
// table; row order within a table matches the input order, and every table's
// header is the source header with the predicted-category column appended.
//
// Every input row lands in exactly one table, so emitted row counts always
// sum to len(rows).
func (p *Partitioner) Partition(rows []model.Row) map[model.TableKey]*model.OutputTable {
	tables := make(map[model.TableKey]*model.OutputTable)

	for _, row := range rows {
		key := model.TableKey{Category: row.Category, Sheet: row.Sheet}
		table, ok := tables[key]
		if !ok {
			table = &model.OutputTable{
				Key:    key,
				Header: p.outputHeader(row.Sheet),
			}
			tables[key] = table
		}
		table.Rows = append(table.Rows, row)
	}

	return tables
}

// Keys returns the table keys in deterministic output order: canonical
// category order first, then source sheet order within each category.
func (p *Partitioner) Keys(tables map[model.TableKey]*model.OutputTable) []model.TableKey {
	keys := make([]model.TableKey, 0, len(tables))
	for _, category := range model.Categories {
		for _, sheet := range p.sheetOrder {
			key := model.TableKey{Category: category, Sheet: sheet}
			if _, ok := tables[key]; ok {
				keys = append(keys, key)
			}
		}
	}
	return keys
}

// outputHeader copies the sheet header and appends the predicted column.
func (p *Partitioner) outputHeader(sheet string) []string {
	original := p.headers[sheet]
	header := make([]string, 0, len(original)+1)
	header = append(header, original...)
	header = append(header, model.PredictedColumn)
	return header
}
