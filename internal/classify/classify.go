package classify

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ppiankov/triage/internal/model"
)

// ErrUnavailable indicates the trainable strategy was selected but no model
// artifact is loaded. Rows hit by it fall back to the default category; the
// pipeline surfaces it once as a run-level warning.
var ErrUnavailable = errors.New("trainable classifier unavailable: no model loaded")

// Classifier assigns a category to a free-text note.
type Classifier interface {
	Classify(text string) (model.Category, error)
}

// Context holds the classifier selected for one run. It is constructed once,
// passed by reference into the pipeline, and safe for concurrent reads: the
// rule set and any loaded model are read-only after construction.
type Context struct {
	strategy  model.Strategy
	rules     *RuleBased
	trainable *Trainable // nil when no artifact is loaded
}

// NewContext builds a classifier context for the configured strategy.
// A missing or unloadable model is not fatal here: the context is still
// returned and Categorize reports ErrUnavailable per row, so a run can
// complete on defaults while the misconfiguration is surfaced.
func NewContext(cfg model.ClassifyConfig, store *Store) (*Context, error) {
	ctx := &Context{
		strategy: cfg.Strategy,
		rules:    NewRuleBased(),
	}

	if cfg.Strategy == model.StrategyModel && cfg.ModelPath != "" {
		art, err := store.Load(cfg.ModelPath)
		if err != nil {
			return ctx, fmt.Errorf("load model %s: %w", cfg.ModelPath, err)
		}
		ctx.trainable = NewTrainable(art)
	}

	return ctx, nil
}

// Strategy returns the configured strategy.
func (c *Context) Strategy() model.Strategy {
	return c.strategy
}

// Categorize classifies one note. Blank or whitespace-only text skips
// classification entirely and takes the default category, for both variants.
func (c *Context) Categorize(text string) (model.Category, error) {
	if strings.TrimSpace(text) == "" {
		return model.DefaultCategory, nil
	}

	switch c.strategy {
	case model.StrategyModel:
		if c.trainable == nil {
			return model.DefaultCategory, ErrUnavailable
		}
		return c.trainable.Classify(text)
	default:
		return c.rules.Classify(text)
	}
}
