package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/ppiankov/triage/internal/classify"
	"github.com/ppiankov/triage/internal/model"
	"github.com/ppiankov/triage/internal/resolve"
	"github.com/ppiankov/triage/internal/xlsx"
	"github.com/spf13/cobra"
)

var (
	trainOut    string
	textColumn  string
	labelColumn string
	epochs      int
	learnRate   float64
)

// trainCmd represents the train command
var trainCmd = &cobra.Command{
	Use:   "train <training.xlsx>",
	Short: "Fit the trainable classifier from a labeled two-column table",
	Long: `Train fits a multiclass text model from labeled examples and saves the
model artifact for later runs with --strategy model.

The training workbook's first sheet must hold a text column and a label
column; labels are the four category names (Add, Update, Term, Other),
matched case-insensitively. Rows with blank text are skipped.

Example:
  triage train examples.xlsx --out model.json
  triage train examples.xlsx --text-column note --label-column category`,
	Args: cobra.ExactArgs(1),
	RunE: runTrain,
}

func init() {
	rootCmd.AddCommand(trainCmd)

	trainCmd.Flags().StringVar(&trainOut, "out", "model.json", "output model artifact path")
	trainCmd.Flags().StringVar(&textColumn, "text-column", "text", "training text column name")
	trainCmd.Flags().StringVar(&labelColumn, "label-column", "label", "training label column name")
	trainCmd.Flags().IntVar(&epochs, "epochs", 50, "training epochs")
	trainCmd.Flags().Float64Var(&learnRate, "rate", 0.1, "learning rate")
}

func runTrain(cmd *cobra.Command, args []string) error {
	examples, skipped, err := readExamples(args[0])
	if err != nil {
		return err
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "Examples: %d (skipped %d blank)\n", len(examples), skipped)
		fmt.Fprintf(os.Stderr, "Epochs:   %d\n", epochs)
		fmt.Fprintln(os.Stderr)
	}

	art, err := classify.Train(examples, classify.TrainOptions{
		Epochs:       epochs,
		LearningRate: learnRate,
	})
	if err != nil {
		return fmt.Errorf("train: %w", err)
	}

	if err := classify.SaveArtifact(art, trainOut); err != nil {
		return err
	}

	// Training-set accuracy is an optimistic ceiling, reported for a quick
	// sanity check on the data rather than as an evaluation.
	trained := classify.NewTrainable(art)
	correct := 0
	perClass := make(map[model.Category]int)
	for _, ex := range examples {
		predicted, err := trained.Classify(ex.Text)
		if err != nil {
			return fmt.Errorf("verify model: %w", err)
		}
		if predicted == ex.Label {
			correct++
		}
		perClass[ex.Label]++
	}

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "✓ Trained on %d examples (accuracy %.1f%% on training set)\n",
		len(examples), 100*float64(correct)/float64(len(examples)))
	for _, category := range model.Categories {
		if count := perClass[category]; count > 0 {
			fmt.Fprintf(os.Stderr, "  %-8s %d examples\n", category.String()+":", count)
		}
	}
	fmt.Fprintf(os.Stderr, "✓ Saved model: %s\n", trainOut)
	fmt.Fprintf(os.Stderr, "\n")

	return nil
}

// readExamples loads labeled pairs from the first sheet of a workbook.
// Unknown labels are rejected with row context; blank texts are skipped.
func readExamples(path string) ([]classify.Example, int, error) {
	sheets, err := xlsx.Read(path)
	if err != nil {
		return nil, 0, err
	}
	if len(sheets) == 0 {
		return nil, 0, fmt.Errorf("%s: no sheets with data", path)
	}

	sheet := sheets[0]
	textCol := resolve.Column(sheet.Header, textColumn)
	if textCol == resolve.NotFound {
		return nil, 0, fmt.Errorf("sheet %q: text column %q not found", sheet.Name, textColumn)
	}
	labelCol := resolve.Column(sheet.Header, labelColumn)
	if labelCol == resolve.NotFound {
		return nil, 0, fmt.Errorf("sheet %q: label column %q not found", sheet.Name, labelColumn)
	}

	var examples []classify.Example
	skipped := 0
	for _, row := range sheet.Rows {
		text := row.Cells[textCol]
		if strings.TrimSpace(text) == "" {
			skipped++
			continue
		}

		label, err := model.ParseCategory(row.Cells[labelCol])
		if err != nil {
			return nil, 0, fmt.Errorf("sheet %q row %d: %w", sheet.Name, row.Index+2, err)
		}

		examples = append(examples, classify.Example{Text: text, Label: label})
	}

	return examples, skipped, nil
}
