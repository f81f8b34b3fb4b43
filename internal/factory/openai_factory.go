package factory

import (
	"context"

	"github.com/mikey/nb-spam-filter/internal/adapters/openai"
	"github.com/mikey/nb-spam-filter/internal/config"
	"github.com/mikey/nb-spam-filter/internal/core"
	"github.com/mikey/nb-spam-filter/internal/textproc"
	"go.uber.org/zap"
)

// OpenAIFactory creates OpenAI reviewers
type OpenAIFactory struct {
	cfg     *config.Config
	logger  *zap.Logger
	clipper *textproc.Clipper
}

// NewOpenAIFactory creates a new OpenAI factory
func NewOpenAIFactory(cfg *config.Config, logger *zap.Logger, clipper *textproc.Clipper) *OpenAIFactory {
	return &OpenAIFactory{
		cfg:     cfg,
		logger:  logger,
		clipper: clipper,
	}
}

// CreateReviewer creates an OpenAI reviewer
func (f *OpenAIFactory) CreateReviewer(_ context.Context) (core.Reviewer, error) {
	return openai.NewReviewer(nil, f.cfg.GetOpenAI(), f.clipper, f.logger)
}
