package bedrock

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/mikey/nb-spam-filter/internal/adapters/llm"
	"github.com/mikey/nb-spam-filter/internal/config"
	"github.com/mikey/nb-spam-filter/internal/core"
	"github.com/mikey/nb-spam-filter/internal/textproc"
	"go.uber.org/zap"
)

// InvokeAPI is the subset of the Bedrock runtime client used here.
type InvokeAPI interface {
	InvokeModel(ctx context.Context, params *bedrockruntime.InvokeModelInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.InvokeModelOutput, error)
}

// Reviewer implements core.Reviewer using Amazon Bedrock
type Reviewer struct {
	client  InvokeAPI
	cfg     config.BedrockConfig
	clipper *textproc.Clipper
	logger  *zap.Logger
}

// NewReviewer creates a new Bedrock reviewer
func NewReviewer(client InvokeAPI, cfg config.BedrockConfig, clipper *textproc.Clipper, logger *zap.Logger) *Reviewer {
	return &Reviewer{
		client:  client,
		cfg:     cfg,
		clipper: clipper,
		logger:  logger,
	}
}

// Review asks the configured model for a second opinion on text
func (r *Reviewer) Review(ctx context.Context, text string) (*core.Review, error) {
	prompt := llm.Prompt(r.clipper.Clip(text, r.cfg.MaxBodySize))

	payload, err := r.payload(prompt)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request payload: %w", err)
	}

	resp, err := r.client.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
		ModelId:     aws.String(r.cfg.ModelID),
		Body:        payload,
		Accept:      aws.String("application/json"),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to invoke Bedrock model: %w", err)
	}

	reply, err := r.replyText(resp.Body)
	if err != nil {
		return nil, err
	}

	r.logger.Debug("Bedrock review received", zap.String("model", r.cfg.ModelID), zap.Int("reply_size", len(reply)))
	return llm.ParseReview(reply, r.cfg.ModelID)
}

func (r *Reviewer) payload(prompt string) ([]byte, error) {
	switch {
	case r.isAnthropicModel():
		return json.Marshal(map[string]any{
			"prompt":               "\n\nHuman: " + prompt + "\n\nAssistant:",
			"max_tokens_to_sample": r.cfg.MaxTokens,
			"temperature":          r.cfg.Temperature,
			"top_p":                r.cfg.TopP,
		})
	case r.isAmazonTitanModel():
		return json.Marshal(map[string]any{
			"inputText": prompt,
			"textGenerationConfig": map[string]any{
				"maxTokenCount": r.cfg.MaxTokens,
				"temperature":   r.cfg.Temperature,
				"topP":          r.cfg.TopP,
			},
		})
	default:
		return json.Marshal(map[string]any{
			"prompt":      prompt,
			"max_tokens":  r.cfg.MaxTokens,
			"temperature": r.cfg.Temperature,
			"top_p":       r.cfg.TopP,
		})
	}
}

func (r *Reviewer) replyText(body []byte) (string, error) {
	switch {
	case r.isAnthropicModel():
		var claudeResp struct {
			Completion string `json:"completion"`
		}
		if err := json.Unmarshal(body, &claudeResp); err != nil {
			return "", fmt.Errorf("failed to unmarshal Claude response: %w", err)
		}
		return claudeResp.Completion, nil
	case r.isAmazonTitanModel():
		var titanResp struct {
			Results []struct {
				OutputText string `json:"outputText"`
			} `json:"results"`
		}
		if err := json.Unmarshal(body, &titanResp); err != nil {
			return "", fmt.Errorf("failed to unmarshal Titan response: %w", err)
		}
		if len(titanResp.Results) == 0 {
			return "", errors.New("empty response from Titan model")
		}
		return titanResp.Results[0].OutputText, nil
	default:
		var genericResp struct {
			Output   string `json:"output"`
			Text     string `json:"text"`
			Response string `json:"response"`
		}
		if err := json.Unmarshal(body, &genericResp); err != nil {
			return string(body), nil
		}
		for _, s := range []string{genericResp.Output, genericResp.Text, genericResp.Response} {
			if s != "" {
				return s, nil
			}
		}
		return string(body), nil
	}
}

// isAnthropicModel checks if the model is an Anthropic Claude model
func (r *Reviewer) isAnthropicModel() bool {
	return strings.HasPrefix(r.cfg.ModelID, "anthropic.claude")
}

// isAmazonTitanModel checks if the model is an Amazon Titan model
func (r *Reviewer) isAmazonTitanModel() bool {
	return strings.HasPrefix(r.cfg.ModelID, "amazon.titan")
}
