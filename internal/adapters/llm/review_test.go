package llm

import (
	"testing"

	"github.com/mikey/nb-spam-filter/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseReview(t *testing.T) {
	tests := []struct {
		name  string
		reply string
		label core.Label
		score float64
	}{
		{"plain", `{"is_spam": true, "score": 0.9, "confidence": 0.8, "explanation": "prize"}`, core.Spam, 0.9},
		{"prose", "Sure! Here it is:\n{\"is_spam\": false, \"score\": 0.1, \"confidence\": 0.7, \"explanation\": \"meeting\"}\nThanks.", core.Ham, 0.1},
		{"fenced", "```json\n{\"is_spam\": true, \"score\": 1.4}\n```", core.Spam, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := ParseReview(tt.reply, "model-x")
			require.NoError(t, err)
			assert.Equal(t, tt.label, r.Label)
			assert.InDelta(t, tt.score, r.Score, 1e-12)
			assert.Equal(t, "model-x", r.Model)
			assert.False(t, r.ReviewedAt.IsZero())
		})
	}
}

func TestParseReview_Errors(t *testing.T) {
	_, err := ParseReview("I cannot decide", "m")
	assert.ErrorIs(t, err, ErrNoJSON)

	_, err = ParseReview("{not json}", "m")
	assert.Error(t, err)
}

func TestPrompt(t *testing.T) {
	p := Prompt("win a prize")
	assert.Contains(t, p, "Message:\nwin a prize\n")
	assert.Contains(t, p, "is_spam")
}
