package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/mikey/nb-spam-filter/internal/adapters/llm"
	"github.com/mikey/nb-spam-filter/internal/config"
	"github.com/mikey/nb-spam-filter/internal/core"
	"github.com/mikey/nb-spam-filter/internal/textproc"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

// ContentGenerator is the subset of genai.GenerativeModel used here.
type ContentGenerator interface {
	GenerateContent(ctx context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error)
}

// Reviewer implements core.Reviewer using Google Gemini
type Reviewer struct {
	client  *genai.Client
	model   ContentGenerator
	cfg     config.GeminiConfig
	clipper *textproc.Clipper
	logger  *zap.Logger
}

// NewReviewer creates a Gemini client for cfg and wraps it in a Reviewer.
func NewReviewer(ctx context.Context, cfg config.GeminiConfig, clipper *textproc.Clipper, logger *zap.Logger) (*Reviewer, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("gemini.api_key is required")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := client.GenerativeModel(cfg.ModelName)
	model.SetTemperature(cfg.Temperature)
	model.SetTopP(cfg.TopP)
	model.SetMaxOutputTokens(int32(cfg.MaxTokens))

	r := NewReviewerWithModel(model, cfg, clipper, logger)
	r.client = client
	return r, nil
}

// NewReviewerWithModel wraps an existing content generator.
func NewReviewerWithModel(model ContentGenerator, cfg config.GeminiConfig, clipper *textproc.Clipper, logger *zap.Logger) *Reviewer {
	return &Reviewer{
		model:   model,
		cfg:     cfg,
		clipper: clipper,
		logger:  logger,
	}
}

// Review asks Gemini for a second opinion on text
func (r *Reviewer) Review(ctx context.Context, text string) (*core.Review, error) {
	prompt := llm.Prompt(r.clipper.Clip(text, r.cfg.MaxBodySize))

	resp, err := r.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return nil, fmt.Errorf("failed to generate content with Gemini: %w", err)
	}

	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return nil, errors.New("empty response from Gemini")
	}

	var reply strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if t, ok := part.(genai.Text); ok {
			reply.WriteString(string(t))
		}
	}

	r.logger.Debug("Gemini review received", zap.String("model", r.cfg.ModelName), zap.Int("reply_size", reply.Len()))
	return llm.ParseReview(reply.String(), r.cfg.ModelName)
}

// Close closes the Gemini client
func (r *Reviewer) Close() error {
	if r.client != nil {
		return r.client.Close()
	}
	return nil
}
