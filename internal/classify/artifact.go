package classify

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/ppiankov/triage/internal/cache"
	"github.com/ppiankov/triage/internal/model"
)

// ArtifactVersion tags the on-disk artifact format.
const ArtifactVersion = 1

// Artifact is the opaque trained-model artifact: the fitted vocabulary and
// weights persisted together so a saved model predicts exactly as it did
// when trained.
type Artifact struct {
	Version    int              `json:"version"`
	Classes    []model.Category `json:"classes"`
	Vocabulary map[string]int   `json:"vocabulary"`
	Weights    [][]float64      `json:"weights"` // [class][feature]
	Bias       []float64        `json:"bias"`
}

// Validate checks internal consistency of a decoded artifact.
func (a *Artifact) Validate() error {
	if a.Version != ArtifactVersion {
		return fmt.Errorf("unsupported artifact version %d", a.Version)
	}
	if len(a.Classes) == 0 {
		return fmt.Errorf("artifact has no classes")
	}
	if len(a.Weights) != len(a.Classes) || len(a.Bias) != len(a.Classes) {
		return fmt.Errorf("artifact weights/bias do not match %d classes", len(a.Classes))
	}
	for c, row := range a.Weights {
		if len(row) != len(a.Vocabulary) {
			return fmt.Errorf("class %d: %d weights for %d vocabulary terms", c, len(row), len(a.Vocabulary))
		}
	}
	return nil
}

// SaveArtifact writes the artifact as JSON.
func SaveArtifact(a *Artifact, path string) error {
	data, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("encode artifact: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write artifact: %w", err)
	}
	return nil
}

// Store loads model artifacts from disk through an optional memory cache,
// so every workbook in a batch run shares one load.
type Store struct {
	cache cache.Cache // nil disables caching
	ttl   time.Duration
}

// NewStore creates an artifact store. A nil cache disables caching.
func NewStore(c cache.Cache, ttl time.Duration) *Store {
	return &Store{cache: c, ttl: ttl}
}

// Load reads and validates the artifact at path.
func (s *Store) Load(path string) (*Artifact, error) {
	key := cache.Key(path)

	var data []byte
	if s.cache != nil {
		if cached, found := s.cache.Get(key); found {
			data = cached
		}
	}

	if data == nil {
		read, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read artifact: %w", err)
		}
		data = read
		if s.cache != nil {
			_ = s.cache.Set(key, data, s.ttl)
		}
	}

	var art Artifact
	if err := json.Unmarshal(data, &art); err != nil {
		return nil, fmt.Errorf("decode artifact: %w", err)
	}
	if err := art.Validate(); err != nil {
		return nil, err
	}
	return &art, nil
}
