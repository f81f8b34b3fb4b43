package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/mikey/nb-spam-filter/internal/core"
	"github.com/mikey/nb-spam-filter/internal/evaluation"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

// Output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

var title = cases.Title(language.English)

// RenderRun writes a training report in format.
func RenderRun(w io.Writer, run *core.TrainingRun, format string) error {
	switch normalizeFormat(format) {
	case FormatText:
		return renderRunText(w, run)
	case FormatJSON:
		return renderJSON(w, run)
	case FormatYAML:
		return renderYAML(w, run)
	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}
}

// RenderPredictions writes predictions in format. The text format prints
// one line per prediction.
func RenderPredictions(w io.Writer, preds []*core.Prediction, format string) error {
	switch normalizeFormat(format) {
	case FormatText:
		for _, p := range preds {
			if _, err := fmt.Fprintln(w, p.String()); err != nil {
				return err
			}
			if p.Review != nil {
				fmt.Fprintf(w, "  reviewed by %s: %s (score %.2f) %s\n",
					p.Review.Model, strings.ToUpper(string(p.Review.Label)), p.Review.Score, p.Review.Explanation)
			}
		}
		return nil
	case FormatJSON:
		return renderJSON(w, preds)
	case FormatYAML:
		return renderYAML(w, preds)
	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}
}

func normalizeFormat(format string) string {
	f := strings.ToLower(strings.TrimSpace(format))
	if f == "" {
		return FormatText
	}
	return f
}

func renderJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func renderYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}

func renderRunText(w io.Writer, run *core.TrainingRun) error {
	var b strings.Builder

	source := run.Source
	if run.Builtin {
		source += " (built-in demonstration dataset)"
	}
	fmt.Fprintf(&b, "Run: %s\n", run.RunID)
	fmt.Fprintf(&b, "Dataset: %s\n", source)
	fmt.Fprintf(&b, "Records: %d (dropped %d with invalid labels)\n", run.Records, run.Dropped)

	b.WriteString("\nLabel Distribution:\n")
	for _, l := range core.Labels {
		fmt.Fprintf(&b, "%-6s %d\n", l, run.LabelCounts[l])
	}

	fmt.Fprintf(&b, "\nTraining set size: %d samples\n", run.TrainSize)
	fmt.Fprintf(&b, "Testing set size: %d samples\n", run.TestSize)
	fmt.Fprintf(&b, "Vocabulary size: %d terms\n", run.VocabularySize)
	fmt.Fprintf(&b, "Model fingerprint: %s\n", run.Fingerprint)

	if r := run.Evaluation; r != nil {
		b.WriteString("\nModel Evaluation:\n")
		fmt.Fprintf(&b, "Accuracy: %.4f\n", r.Accuracy)
		fmt.Fprintf(&b, "Precision: %.4f\n", r.Precision)
		fmt.Fprintf(&b, "Recall: %.4f\n", r.Recall)
		fmt.Fprintf(&b, "F1-Score: %.4f\n", r.F1)

		b.WriteString("\nConfusion Matrix (rows actual, columns predicted):\n")
		writeConfusion(&b, r)

		b.WriteString("\nClassification Report:\n")
		writeClassification(&b, r)
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func writeConfusion(b *strings.Builder, r *evaluation.Report) {
	fmt.Fprintf(b, "%8s", "")
	for _, c := range r.Classes {
		fmt.Fprintf(b, "%8s", title.String(c))
	}
	b.WriteString("\n")
	for i, row := range r.Confusion {
		fmt.Fprintf(b, "%8s", title.String(r.Classes[i]))
		for _, n := range row {
			fmt.Fprintf(b, "%8d", n)
		}
		b.WriteString("\n")
	}
}

func writeClassification(b *strings.Builder, r *evaluation.Report) {
	fmt.Fprintf(b, "%12s %10s %10s %10s %10s\n\n", "", "precision", "recall", "f1-score", "support")
	row := func(m evaluation.ClassMetrics, name string) {
		fmt.Fprintf(b, "%12s %10.2f %10.2f %10.2f %10d\n", name, m.Precision, m.Recall, m.F1, m.Support)
	}
	for _, m := range r.PerClass {
		row(m, title.String(m.Class))
	}
	b.WriteString("\n")
	fmt.Fprintf(b, "%12s %10s %10s %10.2f %10d\n", "accuracy", "", "", r.Accuracy, r.Total)
	for _, m := range []evaluation.ClassMetrics{r.MacroAvg, r.WeightedAvg} {
		row(m, m.Class)
	}
}
