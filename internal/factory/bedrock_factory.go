package factory

import (
	"context"
	"fmt"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/mikey/nb-spam-filter/internal/adapters/bedrock"
	"github.com/mikey/nb-spam-filter/internal/config"
	"github.com/mikey/nb-spam-filter/internal/core"
	"github.com/mikey/nb-spam-filter/internal/textproc"
	"go.uber.org/zap"
)

// BedrockFactory creates Bedrock reviewers
type BedrockFactory struct {
	cfg     *config.Config
	logger  *zap.Logger
	clipper *textproc.Clipper
}

// NewBedrockFactory creates a new Bedrock factory
func NewBedrockFactory(cfg *config.Config, logger *zap.Logger, clipper *textproc.Clipper) *BedrockFactory {
	return &BedrockFactory{
		cfg:     cfg,
		logger:  logger,
		clipper: clipper,
	}
}

// CreateReviewer creates a Bedrock reviewer
func (f *BedrockFactory) CreateReviewer(ctx context.Context) (core.Reviewer, error) {
	bedrockCfg := f.cfg.GetBedrock()

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(bedrockCfg.Region),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}

	client := bedrockruntime.NewFromConfig(awsCfg)
	return bedrock.NewReviewer(client, bedrockCfg, f.clipper, f.logger), nil
}
