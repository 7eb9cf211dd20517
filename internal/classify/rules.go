package classify

import (
	"strings"

	"github.com/ppiankov/triage/internal/model"
)

// Precedence is the fixed order in which keyword groups are checked.
// The first group with any matching keyword wins and evaluation stops there,
// so a note mentioning both a termination and an update classifies as Term.
var Precedence = []model.Category{
	model.CategoryTerm,
	model.CategoryUpdate,
	model.CategoryAdd,
	model.CategoryOther,
}

// keywords maps each category to its case-insensitive substring set.
var keywords = map[model.Category][]string{
	model.CategoryTerm: {
		"leaving", "termination", "terminated", "end of contract",
		"resignation", "resigned", "layoff", "conclusion",
	},
	model.CategoryUpdate: {
		"update", "updating", "change", "modify",
		"correction", "adjust", "revise", "revised",
	},
	model.CategoryAdd: {
		"new employee", "new hire", "starting", "hiring",
		"onboard", "additional resource", "new team member",
		"recruit", "joining", "fresh", "expand team", "adding",
	},
	model.CategoryOther: {
		"inquiry", "review", "investigation", "miscellaneous",
		"administrative", "special case", "pending", "follow-up",
		"exception", "non-standard",
	},
}

// RuleBased is the deterministic keyword classifier. It needs no training
// data and no state, so one instance serves any number of goroutines.
type RuleBased struct{}

// NewRuleBased creates a rule-based classifier.
func NewRuleBased() *RuleBased {
	return &RuleBased{}
}

// Classify matches the lowercased note against each keyword group in
// Precedence order. No match yields the default category.
func (r *RuleBased) Classify(text string) (model.Category, error) {
	lower := strings.ToLower(text)

	for _, category := range Precedence {
		for _, keyword := range keywords[category] {
			if strings.Contains(lower, keyword) {
				return category, nil
			}
		}
	}

	return model.DefaultCategory, nil
}
