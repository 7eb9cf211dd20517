package classify

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/ppiankov/triage/internal/model"
)

func TestContext_BlankTextSkipsClassifier(t *testing.T) {
	// Both strategies must return the default for blank text without
	// consulting a classifier — including a model context with no model,
	// which would otherwise report ErrUnavailable.
	contexts := map[string]*Context{
		"rules": {strategy: model.StrategyRules, rules: NewRuleBased()},
		"model": {strategy: model.StrategyModel, rules: NewRuleBased()},
	}

	for name, ctx := range contexts {
		for _, text := range []string{"", "   ", "\t\n", "  \t "} {
			got, err := ctx.Categorize(text)
			if err != nil {
				t.Errorf("%s: Categorize(%q) returned error: %v", name, text, err)
			}
			if got != model.DefaultCategory {
				t.Errorf("%s: Categorize(%q) = %s, want %s", name, text, got, model.DefaultCategory)
			}
		}
	}
}

func TestContext_RulesStrategy(t *testing.T) {
	ctx, err := NewContext(model.ClassifyConfig{Strategy: model.StrategyRules}, NewStore(nil, 0))
	if err != nil {
		t.Fatalf("NewContext: %v", err)
	}

	got, err := ctx.Categorize("employee is leaving")
	if err != nil {
		t.Fatalf("Categorize: %v", err)
	}
	if got != model.CategoryTerm {
		t.Errorf("Categorize = %s, want %s", got, model.CategoryTerm)
	}
}

func TestContext_ModelStrategyWithoutModel(t *testing.T) {
	ctx, err := NewContext(model.ClassifyConfig{Strategy: model.StrategyModel}, NewStore(nil, 0))
	if err != nil {
		t.Fatalf("NewContext without model path should not error, got %v", err)
	}

	got, err := ctx.Categorize("employee is leaving")
	if !errors.Is(err, ErrUnavailable) {
		t.Errorf("expected ErrUnavailable, got %v", err)
	}
	if got != model.DefaultCategory {
		t.Errorf("Categorize = %s, want default %s", got, model.DefaultCategory)
	}
}

func TestContext_ModelStrategyLoadFailure(t *testing.T) {
	cfg := model.ClassifyConfig{
		Strategy:  model.StrategyModel,
		ModelPath: filepath.Join(t.TempDir(), "absent.json"),
	}

	ctx, err := NewContext(cfg, NewStore(nil, 0))
	if err == nil {
		t.Fatal("expected load error for missing artifact")
	}
	if ctx == nil {
		t.Fatal("context must still be usable after a load failure")
	}

	// The degraded context defaults rows instead of aborting the run.
	got, err := ctx.Categorize("employee is leaving")
	if !errors.Is(err, ErrUnavailable) {
		t.Errorf("expected ErrUnavailable, got %v", err)
	}
	if got != model.DefaultCategory {
		t.Errorf("Categorize = %s, want default %s", got, model.DefaultCategory)
	}
}

func TestContext_ModelStrategyWithTrainedModel(t *testing.T) {
	art, err := Train(trainingExamples(), TrainOptions{Epochs: 200, LearningRate: 0.5})
	if err != nil {
		t.Fatalf("Train: %v", err)
	}
	path := filepath.Join(t.TempDir(), "model.json")
	if err := SaveArtifact(art, path); err != nil {
		t.Fatalf("SaveArtifact: %v", err)
	}

	cfg := model.ClassifyConfig{Strategy: model.StrategyModel, ModelPath: path}
	ctx, err := NewContext(cfg, NewStore(nil, 0))
	if err != nil {
		t.Fatalf("NewContext: %v", err)
	}

	got, err := ctx.Categorize("employee resigned effective friday")
	if err != nil {
		t.Fatalf("Categorize: %v", err)
	}
	if got != model.CategoryTerm {
		t.Errorf("Categorize = %s, want %s", got, model.CategoryTerm)
	}
}
