package di

import (
	"context"

	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/mikey/nb-spam-filter/internal/classifier"
	"github.com/mikey/nb-spam-filter/internal/config"
	"github.com/mikey/nb-spam-filter/internal/core"
	"github.com/mikey/nb-spam-filter/internal/factory"
	"github.com/mikey/nb-spam-filter/internal/textproc"
	"github.com/mikey/nb-spam-filter/internal/vectorizer"
)

// BuildContainer creates and configures a dependency injection container
func BuildContainer(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*dig.Container, error) {
	container := dig.New()

	// Register context, configuration and logger
	if err := container.Provide(func() context.Context { return ctx }); err != nil {
		return nil, err
	}
	if err := container.Provide(func() *config.Config { return cfg }); err != nil {
		return nil, err
	}
	if err := container.Provide(func() *zap.Logger { return logger }); err != nil {
		return nil, err
	}

	// Register text clipper
	if err := container.Provide(textproc.NewClipper); err != nil {
		return nil, err
	}

	// Register factories
	if err := container.Provide(factory.NewDatasetFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(factory.NewCacheFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(factory.NewReviewerFactory); err != nil {
		return nil, err
	}

	// Register dataset source
	if err := container.Provide(func(ctx context.Context, f *factory.DatasetFactory) (core.DatasetSource, error) {
		return f.CreateSource(ctx)
	}); err != nil {
		return nil, err
	}

	// Register prediction cache
	if err := container.Provide(func(ctx context.Context, f *factory.CacheFactory) (core.PredictionCache, error) {
		return f.CreatePredictionCache(ctx)
	}); err != nil {
		return nil, err
	}

	// Register reviewer
	if err := container.Provide(func(ctx context.Context, f *factory.ReviewerFactory) (core.Reviewer, error) {
		return f.CreateReviewer(ctx)
	}); err != nil {
		return nil, err
	}

	// Register service options
	if err := container.Provide(ServiceOptions); err != nil {
		return nil, err
	}

	// Register detector service
	if err := container.Provide(core.NewDetectorService); err != nil {
		return nil, err
	}

	return container, nil
}

// ServiceOptions maps the configuration onto core.ServiceOptions
func ServiceOptions(cfg *config.Config) (core.ServiceOptions, error) {
	split, err := cfg.GetSplit()
	if err != nil {
		return core.ServiceOptions{}, err
	}
	cc, err := cfg.GetCache()
	if err != nil {
		return core.ServiceOptions{}, err
	}
	rc, err := cfg.GetReview()
	if err != nil {
		return core.ServiceOptions{}, err
	}
	vc := cfg.GetVectorizer()

	return core.ServiceOptions{
		Split: core.SplitOptions{
			TestSize: split.TestSize,
			Seed:     split.Seed,
			Stratify: split.Stratify,
		},
		Pipeline: core.PipelineOptions{
			Vectorizer: vectorizer.Options{
				MaxFeatures:    vc.MaxFeatures,
				MinTokenLength: vc.MinTokenLength,
				Normalize:      vc.Normalize,
			},
			Classifier: classifier.Options{Alpha: cfg.GetClassifier().Alpha},
		},
		CacheEnabled: cc.Enabled,
		CacheTTL:     cc.TTL,
		Workers:      cfg.GetPipeline().Workers,
		Review: core.ReviewPolicy{
			Enabled:       rc.Enabled,
			Lower:         rc.Lower,
			Upper:         rc.Upper,
			Override:      rc.Override,
			RatePerSecond: rc.RatePerSecond,
			Burst:         rc.Burst,
		},
	}, nil
}
