package model

import (
	"fmt"
	"strings"
	"time"
)

// Strategy names the classifier variant the pipeline uses. Selection is an
// explicit configuration choice; nothing overrides it silently.
type Strategy string

const (
	StrategyRules Strategy = "rules"
	StrategyModel Strategy = "model"
)

// ParseStrategy converts a strategy string, case-insensitively.
func ParseStrategy(s string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "rules":
		return StrategyRules, nil
	case "model":
		return StrategyModel, nil
	default:
		return "", fmt.Errorf("unknown strategy %q (must be rules or model)", s)
	}
}

// Config is the complete runtime configuration.
type Config struct {
	Classify    ClassifyConfig    `yaml:"classify" json:"classify"`
	Concurrency ConcurrencyConfig `yaml:"concurrency" json:"concurrency"`
	Cache       CacheConfig       `yaml:"cache" json:"cache"`
	Output      OutputConfig      `yaml:"output" json:"output"`
	Training    TrainingConfig    `yaml:"training" json:"training"`
}

// ClassifyConfig controls column resolution and classifier selection.
type ClassifyConfig struct {
	Strategy     Strategy `yaml:"strategy" json:"strategy"`
	TargetColumn string   `yaml:"target_column" json:"target_column"`
	ModelPath    string   `yaml:"model_path" json:"model_path"`
}

// ConcurrencyConfig controls worker counts.
type ConcurrencyConfig struct {
	ClassifyWorkers int `yaml:"classify_workers" json:"classify_workers"` // per-sheet row classification
	BatchWorkers    int `yaml:"batch_workers" json:"batch_workers"`       // concurrent workbooks in batch mode
}

// CacheConfig controls the in-memory model artifact cache.
type CacheConfig struct {
	Enabled bool          `yaml:"enabled" json:"enabled"`
	TTL     time.Duration `yaml:"ttl" json:"ttl"`
}

// OutputConfig controls where and how results are written.
type OutputConfig struct {
	Dir     string `yaml:"dir" json:"dir"`
	Verbose bool   `yaml:"verbose" json:"verbose"`
}

// TrainingConfig holds trainable-classifier fitting parameters.
type TrainingConfig struct {
	TextColumn   string  `yaml:"text_column" json:"text_column"`
	LabelColumn  string  `yaml:"label_column" json:"label_column"`
	Epochs       int     `yaml:"epochs" json:"epochs"`
	LearningRate float64 `yaml:"learning_rate" json:"learning_rate"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Classify: ClassifyConfig{
			Strategy:     StrategyRules,
			TargetColumn: "Delegate Comments",
		},
		Concurrency: ConcurrencyConfig{
			ClassifyWorkers: 8,
			BatchWorkers:    4,
		},
		Cache: CacheConfig{
			Enabled: true,
			TTL:     10 * time.Minute,
		},
		Output: OutputConfig{
			Dir: ".",
		},
		Training: TrainingConfig{
			TextColumn:   "text",
			LabelColumn:  "label",
			Epochs:       50,
			LearningRate: 0.1,
		},
	}
}
