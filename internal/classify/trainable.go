package classify

import (
	"fmt"
	"math"
	"math/rand"
	"strings"
	"unicode"

	"github.com/ppiankov/triage/internal/model"
)

// Trainable is a multiclass linear classifier over bag-of-n-gram counts,
// fitted by minimizing multinomial log-loss. The artifact (vocabulary plus
// weights) is read-only after loading, so one instance serves any number of
// goroutines.
type Trainable struct {
	art *Artifact
}

// NewTrainable wraps a loaded model artifact.
func NewTrainable(art *Artifact) *Trainable {
	return &Trainable{art: art}
}

// Classify returns the predicted category for the note.
func (t *Trainable) Classify(text string) (model.Category, error) {
	category, _, err := t.Predict(text)
	return category, err
}

// Predict returns the predicted category along with per-class probabilities.
// Ties break toward the earlier class in the artifact's class order.
func (t *Trainable) Predict(text string) (model.Category, map[model.Category]float64, error) {
	if t == nil || t.art == nil {
		return "", nil, ErrUnavailable
	}

	features := vectorize(t.art.Vocabulary, text)
	logits := make([]float64, len(t.art.Classes))
	for c := range t.art.Classes {
		logits[c] = t.art.Bias[c]
		for j, count := range features {
			logits[c] += t.art.Weights[c][j] * count
		}
	}

	probs := softmax(logits)

	best := 0
	for c := 1; c < len(probs); c++ {
		if probs[c] > probs[best] {
			best = c
		}
	}

	scores := make(map[model.Category]float64, len(probs))
	for c, class := range t.art.Classes {
		scores[class] = probs[c]
	}

	return t.art.Classes[best], scores, nil
}

// Example is one labeled training pair.
type Example struct {
	Text  string
	Label model.Category
}

// TrainOptions holds fitting parameters.
type TrainOptions struct {
	Epochs       int
	LearningRate float64
	L2           float64
}

// trainSeed fixes the shuffle order so fitting the same table always yields
// the same artifact.
const trainSeed = 1

// Train fits a multinomial logistic regression over n-gram counts of the
// given examples and returns the resulting artifact. The class space is
// always the full closed category set, regardless of which labels appear
// in the training data.
func Train(examples []Example, opts TrainOptions) (*Artifact, error) {
	if len(examples) == 0 {
		return nil, fmt.Errorf("no training examples")
	}
	if opts.Epochs <= 0 {
		opts.Epochs = 50
	}
	if opts.LearningRate <= 0 {
		opts.LearningRate = 0.1
	}

	classes := make([]model.Category, len(model.Categories))
	copy(classes, model.Categories)
	classIndex := make(map[model.Category]int, len(classes))
	for i, c := range classes {
		classIndex[c] = i
	}
	for i, ex := range examples {
		if _, ok := classIndex[ex.Label]; !ok {
			return nil, fmt.Errorf("example %d: unknown label %q", i, ex.Label)
		}
	}

	vocab := buildVocabulary(examples)
	if len(vocab) == 0 {
		return nil, fmt.Errorf("training examples contain no tokens")
	}

	art := &Artifact{
		Version:    ArtifactVersion,
		Classes:    classes,
		Vocabulary: vocab,
		Weights:    make([][]float64, len(classes)),
		Bias:       make([]float64, len(classes)),
	}
	for c := range art.Weights {
		art.Weights[c] = make([]float64, len(vocab))
	}

	// Precompute sparse feature vectors once.
	vectors := make([]map[int]float64, len(examples))
	for i, ex := range examples {
		vectors[i] = vectorize(vocab, ex.Text)
	}

	rng := rand.New(rand.NewSource(trainSeed))
	order := make([]int, len(examples))
	for i := range order {
		order[i] = i
	}

	logits := make([]float64, len(classes))
	for epoch := 0; epoch < opts.Epochs; epoch++ {
		rng.Shuffle(len(order), func(i, j int) {
			order[i], order[j] = order[j], order[i]
		})

		for _, idx := range order {
			features := vectors[idx]
			target := classIndex[examples[idx].Label]

			for c := range classes {
				logits[c] = art.Bias[c]
				for j, count := range features {
					logits[c] += art.Weights[c][j] * count
				}
			}
			probs := softmax(logits)

			for c := range classes {
				grad := probs[c]
				if c == target {
					grad -= 1
				}
				art.Bias[c] -= opts.LearningRate * grad
				for j, count := range features {
					update := grad * count
					if opts.L2 > 0 {
						update += opts.L2 * art.Weights[c][j]
					}
					art.Weights[c][j] -= opts.LearningRate * update
				}
			}
		}
	}

	return art, nil
}

// buildVocabulary assigns a stable index to every unigram and bigram seen in
// the training texts, in first-seen order.
func buildVocabulary(examples []Example) map[string]int {
	vocab := make(map[string]int)
	for _, ex := range examples {
		for _, gram := range ngrams(ex.Text) {
			if _, ok := vocab[gram]; !ok {
				vocab[gram] = len(vocab)
			}
		}
	}
	return vocab
}

// vectorize counts the note's n-grams that exist in the vocabulary.
func vectorize(vocab map[string]int, text string) map[int]float64 {
	features := make(map[int]float64)
	for _, gram := range ngrams(text) {
		if j, ok := vocab[gram]; ok {
			features[j]++
		}
	}
	return features
}

// ngrams produces lowercase word unigrams and bigrams.
func ngrams(text string) []string {
	tokens := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	grams := make([]string, 0, len(tokens)*2)
	grams = append(grams, tokens...)
	for i := 0; i+1 < len(tokens); i++ {
		grams = append(grams, tokens[i]+" "+tokens[i+1])
	}
	return grams
}

// softmax converts logits to probabilities, shifting by the max for
// numerical stability.
func softmax(logits []float64) []float64 {
	max := logits[0]
	for _, v := range logits[1:] {
		if v > max {
			max = v
		}
	}

	probs := make([]float64, len(logits))
	var sum float64
	for i, v := range logits {
		probs[i] = math.Exp(v - max)
		sum += probs[i]
	}
	for i := range probs {
		probs[i] /= sum
	}
	return probs
}
