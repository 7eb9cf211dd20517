package resolve

import "strings"

// NotFound is returned when the target column is absent from a header.
const NotFound = -1

// ColumnMap maps lowercased column names to their first ordinal in a sheet
// header. Built once per sheet and read-only afterward. When a name repeats
// in the header the first occurrence wins.
type ColumnMap map[string]int

// NewColumnMap builds a ColumnMap from a header row.
func NewColumnMap(header []string) ColumnMap {
	m := make(ColumnMap, len(header))
	for i, name := range header {
		key := strings.ToLower(strings.TrimSpace(name))
		if _, exists := m[key]; !exists {
			m[key] = i
		}
	}
	return m
}

// Lookup returns the ordinal of the named column, or NotFound.
// Matching is case-insensitive and exact (no substring or fuzzy matching).
func (m ColumnMap) Lookup(name string) int {
	if idx, ok := m[strings.ToLower(strings.TrimSpace(name))]; ok {
		return idx
	}
	return NotFound
}

// Column locates the named column in a header row without building a
// reusable map. First match wins if the name repeats.
func Column(header []string, name string) int {
	target := strings.ToLower(strings.TrimSpace(name))
	for i, h := range header {
		if strings.ToLower(strings.TrimSpace(h)) == target {
			return i
		}
	}
	return NotFound
}
