package evaluation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var classes = []string{"ham", "spam"}

func TestEvaluate_KnownValues(t *testing.T) {
	// 0 = ham, 1 = spam
	actual := []int{0, 0, 0, 0, 1, 1, 1, 0}
	predicted := []int{0, 0, 1, 0, 1, 0, 1, 0}

	r, err := Evaluate(actual, predicted, classes, 1)
	require.NoError(t, err)

	assert.Equal(t, 8, r.Total)
	assert.Equal(t, [][]int{{4, 1}, {1, 2}}, r.Confusion)
	assert.InDelta(t, 6.0/8.0, r.Accuracy, 1e-12)
	assert.InDelta(t, 2.0/3.0, r.Precision, 1e-12)
	assert.InDelta(t, 2.0/3.0, r.Recall, 1e-12)
	assert.InDelta(t, 2.0/3.0, r.F1, 1e-12)
	assert.Equal(t, "spam", r.Positive)

	ham := r.PerClass[0]
	assert.Equal(t, "ham", ham.Class)
	assert.Equal(t, 5, ham.Support)
	assert.InDelta(t, 0.8, ham.Precision, 1e-12)
	assert.InDelta(t, 0.8, ham.Recall, 1e-12)

	assert.InDelta(t, (0.8+2.0/3.0)/2, r.MacroAvg.F1, 1e-12)
	assert.InDelta(t, 5.0/8.0*0.8+3.0/8.0*2.0/3.0, r.WeightedAvg.F1, 1e-12)
	assert.Equal(t, 8, r.WeightedAvg.Support)
}

func TestEvaluate_ConfusionSumsToTestSize(t *testing.T) {
	actual := []int{1, 0, 1, 1, 0, 0, 0, 1, 0, 1, 1}
	predicted := []int{1, 1, 1, 0, 0, 0, 1, 1, 0, 0, 1}

	r, err := Evaluate(actual, predicted, classes, 1)
	require.NoError(t, err)
	assert.Equal(t, len(actual), r.ConfusionTotal())
}

func TestEvaluate_ZeroDivision(t *testing.T) {
	// No spam predicted and none present.
	r, err := Evaluate([]int{0, 0}, []int{0, 0}, classes, 1)
	require.NoError(t, err)

	assert.Equal(t, 1.0, r.Accuracy)
	assert.Equal(t, 0.0, r.Precision)
	assert.Equal(t, 0.0, r.Recall)
	assert.Equal(t, 0.0, r.F1)

	r, err = Evaluate(nil, nil, classes, 1)
	require.NoError(t, err)
	assert.Equal(t, 0, r.Total)
	assert.Equal(t, 0.0, r.Accuracy)
	assert.Equal(t, 0, r.ConfusionTotal())
}

func TestEvaluate_Errors(t *testing.T) {
	_, err := Evaluate([]int{0}, []int{0, 1}, classes, 1)
	assert.ErrorIs(t, err, ErrLengthMismatch)

	_, err = Evaluate([]int{0}, []int{2}, classes, 1)
	assert.ErrorIs(t, err, ErrUnknownClass)

	_, err = Evaluate([]int{0}, []int{0}, classes, 5)
	assert.ErrorIs(t, err, ErrUnknownClass)
}
