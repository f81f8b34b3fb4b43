// Package llm holds the prompt and response handling shared by the LLM
// reviewers.
package llm

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mikey/nb-spam-filter/internal/core"
)

// ErrNoJSON is returned when a model reply holds no JSON object.
var ErrNoJSON = errors.New("llm: no JSON object in response")

// SystemPrompt is sent as the system message where providers support one.
const SystemPrompt = "You are a spam detection system. Respond only with JSON."

const promptFormat = `You are a spam detection system. A statistical filter was unsure about the following message. Determine if it's spam.
Respond with a JSON object containing:
- is_spam: boolean (true if spam, false if not)
- score: number between 0 and 1 (higher means more likely to be spam)
- confidence: number between 0 and 1 (how confident you are in your assessment)
- explanation: string (brief explanation of why you think it's spam or not)

Message:
%s

Respond only with the JSON object and nothing else.`

// Response is the structured reply requested from the model.
type Response struct {
	IsSpam      bool    `json:"is_spam"`
	Score       float64 `json:"score"`
	Confidence  float64 `json:"confidence"`
	Explanation string  `json:"explanation"`
}

// Prompt renders the review prompt for an already clipped message.
func Prompt(text string) string {
	return fmt.Sprintf(promptFormat, text)
}

// ParseReview decodes a model reply. Replies wrapping the JSON object in
// prose or code fences are accepted.
func ParseReview(reply, model string) (*core.Review, error) {
	var resp Response
	if err := json.Unmarshal([]byte(reply), &resp); err != nil {
		start := strings.IndexByte(reply, '{')
		end := strings.LastIndexByte(reply, '}')
		if start < 0 || end < start {
			return nil, fmt.Errorf("%w: %w", ErrNoJSON, err)
		}
		if err := json.Unmarshal([]byte(reply[start:end+1]), &resp); err != nil {
			return nil, fmt.Errorf("failed to parse LLM response as JSON: %w", err)
		}
	}

	label := core.Ham
	if resp.IsSpam {
		label = core.Spam
	}
	return &core.Review{
		Label:       label,
		Score:       clamp01(resp.Score),
		Confidence:  clamp01(resp.Confidence),
		Explanation: resp.Explanation,
		Model:       model,
		ReviewedAt:  time.Now(),
	}, nil
}

func clamp01(f float64) float64 {
	return min(max(f, 0), 1)
}
