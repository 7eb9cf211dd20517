package model

import (
	"fmt"
	"strings"
)

// Category is one of the four fixed labels assigned to a row.
type Category string

const (
	CategoryAdd    Category = "Add"
	CategoryUpdate Category = "Update"
	CategoryTerm   Category = "Term"
	CategoryOther  Category = "Other"
)

// DefaultCategory is applied whenever classification cannot or should not run
// (missing column, blank text, unavailable classifier).
const DefaultCategory = CategoryAdd

// Categories lists the closed category set in canonical order.
// Output files and tie-breaking both follow this order.
var Categories = []Category{CategoryAdd, CategoryUpdate, CategoryTerm, CategoryOther}

// ParseCategory converts a label string to a Category, case-insensitively.
func ParseCategory(s string) (Category, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "add":
		return CategoryAdd, nil
	case "update":
		return CategoryUpdate, nil
	case "term":
		return CategoryTerm, nil
	case "other":
		return CategoryOther, nil
	default:
		return "", fmt.Errorf("unknown category %q", s)
	}
}

// String returns the canonical output spelling of the category.
func (c Category) String() string {
	return string(c)
}
