package factory

import (
	"context"

	"github.com/mikey/nb-spam-filter/internal/adapters/gemini"
	"github.com/mikey/nb-spam-filter/internal/config"
	"github.com/mikey/nb-spam-filter/internal/core"
	"github.com/mikey/nb-spam-filter/internal/textproc"
	"go.uber.org/zap"
)

// GeminiFactory creates Gemini reviewers
type GeminiFactory struct {
	cfg     *config.Config
	logger  *zap.Logger
	clipper *textproc.Clipper
}

// NewGeminiFactory creates a new Gemini factory
func NewGeminiFactory(cfg *config.Config, logger *zap.Logger, clipper *textproc.Clipper) *GeminiFactory {
	return &GeminiFactory{
		cfg:     cfg,
		logger:  logger,
		clipper: clipper,
	}
}

// CreateReviewer creates a Gemini reviewer
func (f *GeminiFactory) CreateReviewer(ctx context.Context) (core.Reviewer, error) {
	return gemini.NewReviewer(ctx, f.cfg.GetGemini(), f.clipper, f.logger)
}
