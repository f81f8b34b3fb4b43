package factory

import (
	"context"
	"fmt"

	"github.com/mikey/nb-spam-filter/internal/config"
	"github.com/mikey/nb-spam-filter/internal/core"
	"github.com/mikey/nb-spam-filter/internal/textproc"
	"go.uber.org/zap"
)

// ReviewerFactory creates the configured LLM reviewer
type ReviewerFactory struct {
	cfg     *config.Config
	logger  *zap.Logger
	clipper *textproc.Clipper
}

// NewReviewerFactory creates a new reviewer factory
func NewReviewerFactory(cfg *config.Config, logger *zap.Logger, clipper *textproc.Clipper) *ReviewerFactory {
	return &ReviewerFactory{
		cfg:     cfg,
		logger:  logger,
		clipper: clipper,
	}
}

// CreateReviewer creates a reviewer for review.provider. It returns nil
// when review is disabled.
func (f *ReviewerFactory) CreateReviewer(ctx context.Context) (core.Reviewer, error) {
	rc, err := f.cfg.GetReview()
	if err != nil {
		return nil, err
	}
	if !rc.Enabled {
		return nil, nil
	}

	switch rc.Provider {
	case "bedrock":
		return NewBedrockFactory(f.cfg, f.logger, f.clipper).CreateReviewer(ctx)
	case "gemini":
		return NewGeminiFactory(f.cfg, f.logger, f.clipper).CreateReviewer(ctx)
	case "openai":
		return NewOpenAIFactory(f.cfg, f.logger, f.clipper).CreateReviewer(ctx)
	default:
		return nil, fmt.Errorf("unsupported review provider: %s", rc.Provider)
	}
}
