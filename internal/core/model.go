package core

import (
	"fmt"
	"strings"
	"time"

	"github.com/mikey/nb-spam-filter/internal/evaluation"
)

// Label is the class of a message.
type Label string

const (
	// Ham is a legitimate message.
	Ham Label = "ham"
	// Spam is an unwanted message.
	Spam Label = "spam"
)

// Labels lists every label in class order. Ham comes first so that ties
// resolve to ham.
var Labels = []Label{Ham, Spam}

// ParseLabel normalizes s and reports whether it names a label.
func ParseLabel(s string) (Label, bool) {
	switch Label(strings.ToLower(strings.TrimSpace(s))) {
	case Ham:
		return Ham, true
	case Spam:
		return Spam, true
	default:
		return "", false
	}
}

// Index returns the class index of l.
func (l Label) Index() int {
	for i, known := range Labels {
		if known == l {
			return i
		}
	}
	return -1
}

// LabelAt returns the label with class index i.
func LabelAt(i int) Label {
	return Labels[i]
}

// LabelNames returns the labels as strings in class order.
func LabelNames() []string {
	names := make([]string, len(Labels))
	for i, l := range Labels {
		names[i] = string(l)
	}
	return names
}

// Record is one labeled message.
type Record struct {
	Text  string
	Label Label
}

// Dataset is the outcome of loading records from a source.
type Dataset struct {
	Records []Record
	// Dropped counts rows discarded for an invalid label or a missing column.
	Dropped int
	// Source names where the records came from.
	Source string
	// Builtin is set when the built-in demonstration dataset was used.
	Builtin bool
}

// LabelCounts returns the number of records per label.
func (d *Dataset) LabelCounts() map[Label]int {
	counts := make(map[Label]int, len(Labels))
	for _, r := range d.Records {
		counts[r.Label]++
	}
	return counts
}

// Probabilities is a distribution over {ham, spam}.
type Probabilities struct {
	Ham  float64 `json:"ham" yaml:"ham"`
	Spam float64 `json:"spam" yaml:"spam"`
}

// Of returns the probability of l.
func (p Probabilities) Of(l Label) float64 {
	if l == Spam {
		return p.Spam
	}
	return p.Ham
}

// Review is a second opinion from an external reviewer.
type Review struct {
	Label       Label     `json:"label" yaml:"label"`
	Score       float64   `json:"score" yaml:"score"`
	Confidence  float64   `json:"confidence" yaml:"confidence"`
	Explanation string    `json:"explanation" yaml:"explanation"`
	Model       string    `json:"model" yaml:"model"`
	ReviewedAt  time.Time `json:"reviewed_at" yaml:"reviewed_at"`
}

// Prediction is the classification of one message.
type Prediction struct {
	ID         string `json:"id" yaml:"id"`
	Text       string `json:"text" yaml:"text"`
	Normalized string `json:"normalized" yaml:"normalized"`
	// ModelLabel is what the fitted model decided.
	ModelLabel Label `json:"model_label" yaml:"model_label"`
	// Label is the final decision. It differs from ModelLabel only when a
	// review overrides it.
	Label         Label         `json:"label" yaml:"label"`
	Probabilities Probabilities `json:"probabilities" yaml:"probabilities"`
	Source        string        `json:"source" yaml:"source"`
	Review        *Review       `json:"review,omitempty" yaml:"review,omitempty"`
	PredictedAt   time.Time     `json:"predicted_at" yaml:"predicted_at"`
}

// Probability returns the probability of the final label as estimated by
// the model.
func (p *Prediction) Probability() float64 {
	return p.Probabilities.Of(p.Label)
}

// String renders the prediction the way the CLI prints it.
func (p *Prediction) String() string {
	upper := strings.ToUpper(string(p.Label))
	title := strings.ToUpper(string(p.Label[:1])) + string(p.Label[1:])
	return fmt.Sprintf("'%s' is predicted as: %s (Probability of %s: %.2f)", p.Text, upper, title, p.Probability())
}

// Prediction sources.
const (
	SourceModel = "model"
	SourceCache = "cache"
)

// CacheEntry is a cached model prediction.
type CacheEntry struct {
	Key             string
	Label           Label
	SpamProbability float64
	CreatedAt       time.Time
	ExpiresAt       time.Time
}

// Expired reports whether the entry is no longer valid at now.
func (e *CacheEntry) Expired(now time.Time) bool {
	return !e.ExpiresAt.IsZero() && !now.Before(e.ExpiresAt)
}

// TrainingRun summarizes one load, split, fit and evaluate cycle.
type TrainingRun struct {
	RunID          string             `json:"run_id" yaml:"run_id"`
	StartedAt      time.Time          `json:"started_at" yaml:"started_at"`
	Duration       time.Duration      `json:"duration" yaml:"duration"`
	Source         string             `json:"source" yaml:"source"`
	Builtin        bool               `json:"builtin" yaml:"builtin"`
	Records        int                `json:"records" yaml:"records"`
	Dropped        int                `json:"dropped" yaml:"dropped"`
	LabelCounts    map[Label]int      `json:"label_counts" yaml:"label_counts"`
	TrainSize      int                `json:"train_size" yaml:"train_size"`
	TestSize       int                `json:"test_size" yaml:"test_size"`
	VocabularySize int                `json:"vocabulary_size" yaml:"vocabulary_size"`
	Fingerprint    string             `json:"fingerprint" yaml:"fingerprint"`
	Evaluation     *evaluation.Report `json:"evaluation,omitempty" yaml:"evaluation,omitempty"`
}
