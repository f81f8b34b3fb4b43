// Package evaluation scores predicted labels against true labels. It is
// used for reporting only and never feeds back into a decision.
package evaluation

import (
	"errors"
	"fmt"
)

var (
	// ErrLengthMismatch is returned when the label sequences differ in length.
	ErrLengthMismatch = errors.New("evaluation: actual and predicted differ in length")
	// ErrUnknownClass is returned for a class index outside the class list.
	ErrUnknownClass = errors.New("evaluation: class index out of range")
)

// ClassMetrics holds per-class scores as in a classification report.
type ClassMetrics struct {
	Class     string  `json:"class" yaml:"class"`
	Precision float64 `json:"precision" yaml:"precision"`
	Recall    float64 `json:"recall" yaml:"recall"`
	F1        float64 `json:"f1" yaml:"f1"`
	Support   int     `json:"support" yaml:"support"`
}

// Report is the outcome of comparing two label sequences. Precision,
// Recall and F1 are those of the positive class. Confusion is indexed
// [actual][predicted] in class order.
type Report struct {
	Classes     []string       `json:"classes" yaml:"classes"`
	Positive    string         `json:"positive" yaml:"positive"`
	Total       int            `json:"total" yaml:"total"`
	Accuracy    float64        `json:"accuracy" yaml:"accuracy"`
	Precision   float64        `json:"precision" yaml:"precision"`
	Recall      float64        `json:"recall" yaml:"recall"`
	F1          float64        `json:"f1" yaml:"f1"`
	Confusion   [][]int        `json:"confusion_matrix" yaml:"confusion_matrix"`
	PerClass    []ClassMetrics `json:"per_class" yaml:"per_class"`
	MacroAvg    ClassMetrics   `json:"macro_avg" yaml:"macro_avg"`
	WeightedAvg ClassMetrics   `json:"weighted_avg" yaml:"weighted_avg"`
}

// Evaluate compares actual with predicted. Both hold indices into classes;
// positive selects the class whose precision/recall/F1 are reported at the
// top level. Ratios with a zero denominator are reported as 0.
func Evaluate(actual, predicted []int, classes []string, positive int) (*Report, error) {
	if len(actual) != len(predicted) {
		return nil, fmt.Errorf("%w: %d and %d", ErrLengthMismatch, len(actual), len(predicted))
	}
	if positive < 0 || positive >= len(classes) {
		return nil, fmt.Errorf("%w: positive %d", ErrUnknownClass, positive)
	}

	k := len(classes)
	confusion := make([][]int, k)
	for i := range confusion {
		confusion[i] = make([]int, k)
	}

	correct := 0
	for i := range actual {
		a, p := actual[i], predicted[i]
		if a < 0 || a >= k || p < 0 || p >= k {
			return nil, fmt.Errorf("%w: row %d", ErrUnknownClass, i)
		}
		confusion[a][p]++
		if a == p {
			correct++
		}
	}

	r := &Report{
		Classes:   append([]string(nil), classes...),
		Positive:  classes[positive],
		Total:     len(actual),
		Accuracy:  ratio(correct, len(actual)),
		Confusion: confusion,
		PerClass:  make([]ClassMetrics, k),
	}

	for c := 0; c < k; c++ {
		tp := confusion[c][c]
		predictedC, support := 0, 0
		for o := 0; o < k; o++ {
			predictedC += confusion[o][c]
			support += confusion[c][o]
		}
		precision := ratio(tp, predictedC)
		recall := ratio(tp, support)
		r.PerClass[c] = ClassMetrics{
			Class:     classes[c],
			Precision: precision,
			Recall:    recall,
			F1:        f1(precision, recall),
			Support:   support,
		}
	}

	pos := r.PerClass[positive]
	r.Precision, r.Recall, r.F1 = pos.Precision, pos.Recall, pos.F1
	r.MacroAvg, r.WeightedAvg = averages(r.PerClass, r.Total)
	return r, nil
}

// ConfusionTotal returns the sum of all confusion matrix cells.
func (r *Report) ConfusionTotal() int {
	total := 0
	for _, row := range r.Confusion {
		for _, n := range row {
			total += n
		}
	}
	return total
}

func averages(per []ClassMetrics, total int) (ClassMetrics, ClassMetrics) {
	macro := ClassMetrics{Class: "macro avg", Support: total}
	weighted := ClassMetrics{Class: "weighted avg", Support: total}
	if len(per) == 0 {
		return macro, weighted
	}

	for _, m := range per {
		macro.Precision += m.Precision
		macro.Recall += m.Recall
		macro.F1 += m.F1
		if total > 0 {
			w := float64(m.Support) / float64(total)
			weighted.Precision += w * m.Precision
			weighted.Recall += w * m.Recall
			weighted.F1 += w * m.F1
		}
	}
	n := float64(len(per))
	macro.Precision /= n
	macro.Recall /= n
	macro.F1 /= n
	return macro, weighted
}

func ratio(num, den int) float64 {
	if den == 0 {
		return 0
	}
	return float64(num) / float64(den)
}

func f1(precision, recall float64) float64 {
	if precision+recall == 0 {
		return 0
	}
	return 2 * precision * recall / (precision + recall)
}
