package openai

import (
	"context"
	"errors"
	"fmt"

	"github.com/mikey/nb-spam-filter/internal/adapters/llm"
	"github.com/mikey/nb-spam-filter/internal/config"
	"github.com/mikey/nb-spam-filter/internal/core"
	"github.com/mikey/nb-spam-filter/internal/textproc"
	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// ChatAPI is the subset of the OpenAI client used here.
type ChatAPI interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// Reviewer implements core.Reviewer using OpenAI chat completions
type Reviewer struct {
	client  ChatAPI
	cfg     config.OpenAIConfig
	clipper *textproc.Clipper
	logger  *zap.Logger
}

// NewReviewer creates a new OpenAI reviewer. A nil client is built from
// cfg.APIKey.
func NewReviewer(client ChatAPI, cfg config.OpenAIConfig, clipper *textproc.Clipper, logger *zap.Logger) (*Reviewer, error) {
	if client == nil {
		if cfg.APIKey == "" {
			return nil, errors.New("openai.api_key is required")
		}
		client = openai.NewClient(cfg.APIKey)
	}
	return &Reviewer{
		client:  client,
		cfg:     cfg,
		clipper: clipper,
		logger:  logger,
	}, nil
}

// Review asks OpenAI for a second opinion on text
func (r *Reviewer) Review(ctx context.Context, text string) (*core.Review, error) {
	prompt := llm.Prompt(r.clipper.Clip(text, r.cfg.MaxBodySize))

	req := openai.ChatCompletionRequest{
		Model: r.cfg.ModelName,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: llm.SystemPrompt,
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
		MaxTokens:   r.cfg.MaxTokens,
		Temperature: r.cfg.Temperature,
		TopP:        r.cfg.TopP,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	}

	resp, err := r.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to create chat completion with OpenAI: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, errors.New("empty response from OpenAI")
	}

	reply := resp.Choices[0].Message.Content
	r.logger.Debug("OpenAI review received", zap.String("model", r.cfg.ModelName), zap.Int("reply_size", len(reply)))
	return llm.ParseReview(reply, r.cfg.ModelName)
}
