package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mikey/nb-spam-filter/internal/evaluation"
	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// ErrEmptyDataset is returned by Train when the source yields no records.
var ErrEmptyDataset = errors.New("dataset has no usable records")

// ReviewPolicy decides when a prediction is sent to the Reviewer.
type ReviewPolicy struct {
	Enabled bool
	// Lower and Upper bound the spam probability band considered uncertain.
	Lower float64
	Upper float64
	// Override lets the review decide the final label.
	Override      bool
	RatePerSecond float64
	Burst         int
}

// Applies reports whether a model spam probability falls in the band.
func (p ReviewPolicy) Applies(spamProbability float64) bool {
	return p.Enabled && spamProbability >= p.Lower && spamProbability <= p.Upper
}

// ServiceOptions configures the DetectorService.
type ServiceOptions struct {
	Split        SplitOptions
	Pipeline     PipelineOptions
	CacheEnabled bool
	// CacheTTL of zero keeps entries until they are deleted.
	CacheTTL time.Duration
	// Workers bounds concurrent predictions in PredictBatch.
	Workers int
	Review  ReviewPolicy
}

// DetectorService trains the classification pipeline and serves
// predictions against an explicitly passed, fitted Pipeline.
type DetectorService struct {
	source   DatasetSource
	cache    PredictionCache
	reviewer Reviewer
	limiter  *rate.Limiter
	logger   *zap.Logger
	opts     ServiceOptions
}

// NewDetectorService creates a new detector service. cache and reviewer may
// be nil.
func NewDetectorService(
	source DatasetSource,
	cache PredictionCache,
	reviewer Reviewer,
	logger *zap.Logger,
	opts ServiceOptions,
) *DetectorService {
	if opts.Workers <= 0 {
		opts.Workers = 1
	}

	var limiter *rate.Limiter
	if opts.Review.RatePerSecond > 0 {
		burst := opts.Review.Burst
		if burst <= 0 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(opts.Review.RatePerSecond), burst)
	}

	return &DetectorService{
		source:   source,
		cache:    cache,
		reviewer: reviewer,
		limiter:  limiter,
		logger:   logger,
		opts:     opts,
	}
}

// Train loads the dataset, splits it, fits a pipeline on the training split
// only and evaluates it on the held-out split.
func (s *DetectorService) Train(ctx context.Context) (*TrainingRun, *Pipeline, error) {
	started := time.Now()
	run := &TrainingRun{
		RunID:     ulid.Make().String(),
		StartedAt: started,
	}

	ds, err := s.source.Load(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load dataset: %w", err)
	}
	if len(ds.Records) == 0 {
		return nil, nil, ErrEmptyDataset
	}

	run.Source = ds.Source
	run.Builtin = ds.Builtin
	run.Records = len(ds.Records)
	run.Dropped = ds.Dropped
	run.LabelCounts = ds.LabelCounts()

	train, test := SplitRecords(ds.Records, s.opts.Split)
	run.TrainSize = len(train)
	run.TestSize = len(test)

	s.logger.Info("Fitting pipeline",
		zap.String("run_id", run.RunID),
		zap.Int("train_size", len(train)),
		zap.Int("test_size", len(test)))

	pipeline, err := FitPipeline(train, s.opts.Pipeline)
	if err != nil {
		return nil, nil, err
	}
	run.VocabularySize = pipeline.VocabularySize()
	run.Fingerprint = pipeline.Fingerprint()

	report, err := s.evaluate(ctx, pipeline, test)
	if err != nil {
		return nil, nil, err
	}
	run.Evaluation = report
	run.Duration = time.Since(started)

	s.logger.Info("Training complete",
		zap.String("run_id", run.RunID),
		zap.Int("vocabulary_size", run.VocabularySize),
		zap.Float64("accuracy", report.Accuracy),
		zap.Float64("f1", report.F1),
		zap.Duration("duration", run.Duration))

	return run, pipeline, nil
}

func (s *DetectorService) evaluate(ctx context.Context, pipeline *Pipeline, test []Record) (*evaluation.Report, error) {
	actual := make([]int, len(test))
	predicted := make([]int, len(test))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.opts.Workers)
	for i, r := range test {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			actual[i] = r.Label.Index()
			predicted[i] = pipeline.Classify(r.Text).Label.Index()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	report, err := evaluation.Evaluate(actual, predicted, LabelNames(), Spam.Index())
	if err != nil {
		return nil, fmt.Errorf("failed to evaluate pipeline: %w", err)
	}
	return report, nil
}

// Predict classifies text with pipeline. Cache and reviewer failures are
// logged and never fail the prediction.
func (s *DetectorService) Predict(ctx context.Context, pipeline *Pipeline, text string) (*Prediction, error) {
	if pipeline == nil {
		return nil, ErrNotFitted
	}

	normalized := pipeline.Normalize(text)
	key := pipeline.CacheKey(normalized)

	result, source := s.lookup(ctx, key)
	if result == nil {
		c := pipeline.classifyNormalized(normalized)
		result, source = &c, SourceModel
		s.store(ctx, key, c)
	}

	prediction := &Prediction{
		ID:            ulid.Make().String(),
		Text:          text,
		Normalized:    normalized,
		ModelLabel:    result.Label,
		Label:         result.Label,
		Probabilities: result.Probabilities,
		Source:        source,
		PredictedAt:   time.Now(),
	}

	if err := s.review(ctx, prediction); err != nil {
		return nil, err
	}
	return prediction, nil
}

// PredictBatch classifies texts concurrently, at most Workers at a time.
// Results keep the order of texts.
func (s *DetectorService) PredictBatch(ctx context.Context, pipeline *Pipeline, texts []string) ([]*Prediction, error) {
	if pipeline == nil {
		return nil, ErrNotFitted
	}

	results := make([]*Prediction, len(texts))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.opts.Workers)
	for i, text := range texts {
		g.Go(func() error {
			p, err := s.Predict(ctx, pipeline, text)
			if err != nil {
				return err
			}
			results[i] = p
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func (s *DetectorService) lookup(ctx context.Context, key string) (*Classification, string) {
	if !s.opts.CacheEnabled || s.cache == nil {
		return nil, ""
	}

	entry, err := s.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, ErrCacheMiss) {
			s.logger.Warn("Failed to read prediction cache", zap.Error(err), zap.String("key", key))
		}
		return nil, ""
	}

	s.logger.Debug("Cache hit", zap.String("key", key))
	return &Classification{
		Label: entry.Label,
		Probabilities: Probabilities{
			Ham:  1 - entry.SpamProbability,
			Spam: entry.SpamProbability,
		},
	}, SourceCache
}

func (s *DetectorService) store(ctx context.Context, key string, c Classification) {
	if !s.opts.CacheEnabled || s.cache == nil {
		return
	}

	now := time.Now()
	entry := &CacheEntry{
		Key:             key,
		Label:           c.Label,
		SpamProbability: c.Probabilities.Spam,
		CreatedAt:       now,
	}
	if s.opts.CacheTTL > 0 {
		entry.ExpiresAt = now.Add(s.opts.CacheTTL)
	}
	if err := s.cache.Set(ctx, entry); err != nil {
		s.logger.Error("Failed to update prediction cache", zap.Error(err), zap.String("key", key))
	}
}

// review consults the reviewer for uncertain predictions. Only context
// cancellation is returned as an error.
func (s *DetectorService) review(ctx context.Context, p *Prediction) error {
	if s.reviewer == nil || !s.opts.Review.Applies(p.Probabilities.Spam) {
		return nil
	}

	if s.limiter != nil {
		if err := s.limiter.Wait(ctx); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			s.logger.Warn("Skipping review", zap.Error(err))
			return nil
		}
	}

	review, err := s.reviewer.Review(ctx, p.Text)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		s.logger.Warn("Reviewer failed, keeping model label",
			zap.Error(err),
			zap.String("prediction_id", p.ID))
		return nil
	}

	p.Review = review
	if s.opts.Review.Override && review.Label.Index() >= 0 && review.Label != p.Label {
		s.logger.Info("Review overrides model label",
			zap.String("prediction_id", p.ID),
			zap.String("model_label", string(p.ModelLabel)),
			zap.String("review_label", string(review.Label)),
			zap.String("reviewer", review.Model))
		p.Label = review.Label
	}
	return nil
}
