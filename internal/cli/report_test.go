package cli

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/mikey/nb-spam-filter/internal/core"
	"github.com/mikey/nb-spam-filter/internal/evaluation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func sampleRun(t *testing.T) *core.TrainingRun {
	t.Helper()
	report, err := evaluation.Evaluate([]int{0, 0, 1, 1}, []int{0, 1, 1, 1}, core.LabelNames(), core.Spam.Index())
	require.NoError(t, err)
	return &core.TrainingRun{
		RunID:          "01HZX",
		Source:         "builtin",
		Builtin:        true,
		Records:        5,
		LabelCounts:    map[core.Label]int{core.Ham: 3, core.Spam: 2},
		TrainSize:      4,
		TestSize:       1,
		VocabularySize: 30,
		Fingerprint:    "00ff",
		Evaluation:     report,
	}
}

func TestRenderRun_Text(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderRun(&buf, sampleRun(t), ""))

	out := buf.String()
	assert.Contains(t, out, "Dataset: builtin (built-in demonstration dataset)")
	assert.Contains(t, out, "Training set size: 4 samples")
	assert.Contains(t, out, "Accuracy: 0.7500")
	assert.Contains(t, out, "Precision: 0.6667")
	assert.Contains(t, out, "Recall: 1.0000")
	assert.Contains(t, out, "     Ham       1       1\n")
	assert.Contains(t, out, "    Spam       0       2\n")
	assert.Contains(t, out, "macro avg")
	assert.Contains(t, out, "weighted avg")
}

func TestRenderRun_Structured(t *testing.T) {
	run := sampleRun(t)

	var buf bytes.Buffer
	require.NoError(t, RenderRun(&buf, run, "json"))
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "01HZX", decoded["run_id"])
	assert.Contains(t, decoded, "evaluation")

	buf.Reset()
	require.NoError(t, RenderRun(&buf, run, "YAML"))
	var y map[string]any
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &y))
	assert.Equal(t, 30, y["vocabulary_size"])

	assert.Error(t, RenderRun(&buf, run, "xml"))
}

func TestRenderPredictions(t *testing.T) {
	preds := []*core.Prediction{
		{Text: "win now", Label: core.Spam, ModelLabel: core.Spam, Probabilities: core.Probabilities{Ham: 0.13, Spam: 0.87}},
		{Text: "lunch?", Label: core.Ham, ModelLabel: core.Ham, Probabilities: core.Probabilities{Ham: 0.6, Spam: 0.4},
			Review: &core.Review{Label: core.Ham, Score: 0.1, Model: "gpt-4", Explanation: "casual"}},
	}

	var buf bytes.Buffer
	require.NoError(t, RenderPredictions(&buf, preds, "text"))
	assert.Equal(t,
		"'win now' is predicted as: SPAM (Probability of Spam: 0.87)\n"+
			"'lunch?' is predicted as: HAM (Probability of Ham: 0.60)\n"+
			"  reviewed by gpt-4: HAM (score 0.10) casual\n",
		buf.String())

	buf.Reset()
	require.NoError(t, RenderPredictions(&buf, preds, "json"))
	var decoded []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded, 2)
	assert.Equal(t, "spam", decoded[0]["label"])
}
