package core

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestService(cache PredictionCache, reviewer Reviewer, opts ServiceOptions) *DetectorService {
	source := &staticSource{ds: &Dataset{Records: toyRecords(), Source: "toy"}}
	if opts.Pipeline == (PipelineOptions{}) {
		opts.Pipeline = toyOptions()
	}
	return NewDetectorService(source, cache, reviewer, zap.NewNop(), opts)
}

func fitToy(t *testing.T) *Pipeline {
	t.Helper()
	p, err := FitPipeline(toyRecords(), toyOptions())
	require.NoError(t, err)
	return p
}

func TestDetectorService_Train(t *testing.T) {
	svc := newTestService(nil, nil, ServiceOptions{
		Split: SplitOptions{TestSize: 0.2, Seed: 42, Stratify: true},
	})

	run, pipeline, err := svc.Train(context.Background())
	require.NoError(t, err)
	require.NotNil(t, pipeline)

	assert.NotEmpty(t, run.RunID)
	assert.Equal(t, "toy", run.Source)
	assert.Equal(t, 5, run.Records)
	assert.Equal(t, 4, run.TrainSize)
	assert.Equal(t, 1, run.TestSize)
	assert.Equal(t, map[Label]int{Ham: 3, Spam: 2}, run.LabelCounts)
	assert.Equal(t, pipeline.VocabularySize(), run.VocabularySize)
	assert.Equal(t, pipeline.Fingerprint(), run.Fingerprint)

	require.NotNil(t, run.Evaluation)
	assert.Equal(t, run.TestSize, run.Evaluation.ConfusionTotal())
	assert.Equal(t, []string{"ham", "spam"}, run.Evaluation.Classes)
}

func TestDetectorService_TrainWithoutHoldout(t *testing.T) {
	svc := newTestService(nil, nil, ServiceOptions{})

	run, _, err := svc.Train(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 5, run.TrainSize)
	assert.Equal(t, 0, run.TestSize)
	assert.Equal(t, 0, run.Evaluation.Total)
	assert.Zero(t, run.Evaluation.Accuracy)
}

func TestDetectorService_TrainErrors(t *testing.T) {
	loadErr := errors.New("boom")
	svc := NewDetectorService(&staticSource{err: loadErr}, nil, nil, zap.NewNop(), ServiceOptions{})
	_, _, err := svc.Train(context.Background())
	assert.ErrorIs(t, err, loadErr)

	svc = NewDetectorService(&staticSource{ds: &Dataset{}}, nil, nil, zap.NewNop(), ServiceOptions{})
	_, _, err = svc.Train(context.Background())
	assert.ErrorIs(t, err, ErrEmptyDataset)
}

func TestDetectorService_PredictNotFitted(t *testing.T) {
	svc := newTestService(nil, nil, ServiceOptions{})

	_, err := svc.Predict(context.Background(), nil, "hello")
	assert.ErrorIs(t, err, ErrNotFitted)

	_, err = svc.PredictBatch(context.Background(), nil, []string{"hello"})
	assert.ErrorIs(t, err, ErrNotFitted)
}

func TestDetectorService_PredictUsesCache(t *testing.T) {
	cache := newMapCache()
	svc := newTestService(cache, nil, ServiceOptions{CacheEnabled: true, CacheTTL: time.Hour})
	pipeline := fitToy(t)
	text := "Congratulations! You've won a FREE iPhone!"

	first, err := svc.Predict(context.Background(), pipeline, text)
	require.NoError(t, err)
	assert.Equal(t, SourceModel, first.Source)
	assert.Equal(t, Spam, first.Label)
	assert.Equal(t, 1, cache.sets)

	second, err := svc.Predict(context.Background(), pipeline, text)
	require.NoError(t, err)
	assert.Equal(t, SourceCache, second.Source)
	assert.Equal(t, first.Label, second.Label)
	assert.InDelta(t, first.Probabilities.Spam, second.Probabilities.Spam, 1e-12)
	assert.InDelta(t, first.Probabilities.Ham, second.Probabilities.Ham, 1e-9)
	assert.Equal(t, 1, cache.sets)
	assert.NotEqual(t, first.ID, second.ID)
}

func TestDetectorService_PredictCacheDisabled(t *testing.T) {
	cache := newMapCache()
	svc := newTestService(cache, nil, ServiceOptions{CacheEnabled: false})
	pipeline := fitToy(t)

	for i := 0; i < 2; i++ {
		p, err := svc.Predict(context.Background(), pipeline, "free prize")
		require.NoError(t, err)
		assert.Equal(t, SourceModel, p.Source)
	}
	assert.Zero(t, cache.sets)
}

func TestDetectorService_PredictMatchesPipeline(t *testing.T) {
	svc := newTestService(nil, nil, ServiceOptions{})
	pipeline := fitToy(t)
	text := "Hey, can we meet tomorrow to discuss the project?"

	p, err := svc.Predict(context.Background(), pipeline, text)
	require.NoError(t, err)

	c := pipeline.Classify(text)
	assert.Equal(t, c.Label, p.Label)
	assert.Equal(t, c.Label, p.ModelLabel)
	assert.Equal(t, c.Probabilities, p.Probabilities)
	assert.Equal(t, c.Normalized, p.Normalized)
	assert.Equal(t, text, p.Text)
	assert.Nil(t, p.Review)
}

func TestDetectorService_ReviewOverride(t *testing.T) {
	reviewer := &mockReviewer{}
	text := "Hey, can we meet tomorrow to discuss the project?"
	reviewer.On("Review", mock.Anything, text).
		Return(&Review{Label: Spam, Score: 9, Confidence: 0.9, Model: "test"}, nil).Once()

	svc := newTestService(nil, reviewer, ServiceOptions{
		Review: ReviewPolicy{Enabled: true, Lower: 0, Upper: 1, Override: true},
	})

	p, err := svc.Predict(context.Background(), fitToy(t), text)
	require.NoError(t, err)
	assert.Equal(t, Ham, p.ModelLabel)
	assert.Equal(t, Spam, p.Label)
	require.NotNil(t, p.Review)
	assert.Equal(t, "test", p.Review.Model)
	reviewer.AssertExpectations(t)
}

func TestDetectorService_ReviewWithoutOverride(t *testing.T) {
	reviewer := &mockReviewer{}
	reviewer.On("Review", mock.Anything, mock.Anything).
		Return(&Review{Label: Spam, Model: "test"}, nil)

	svc := newTestService(nil, reviewer, ServiceOptions{
		Review: ReviewPolicy{Enabled: true, Lower: 0, Upper: 1},
	})

	p, err := svc.Predict(context.Background(), fitToy(t), "Hey, can we meet tomorrow to discuss the project?")
	require.NoError(t, err)
	assert.Equal(t, Ham, p.Label)
	assert.NotNil(t, p.Review)
}

func TestDetectorService_ReviewOutsideBand(t *testing.T) {
	reviewer := &mockReviewer{}
	svc := newTestService(nil, reviewer, ServiceOptions{
		Review: ReviewPolicy{Enabled: true, Lower: 2, Upper: 3, Override: true},
	})

	p, err := svc.Predict(context.Background(), fitToy(t), "free prize")
	require.NoError(t, err)
	assert.Nil(t, p.Review)
	reviewer.AssertNotCalled(t, "Review", mock.Anything, mock.Anything)
}

func TestDetectorService_ReviewerFailureKeepsModelLabel(t *testing.T) {
	reviewer := &mockReviewer{}
	reviewer.On("Review", mock.Anything, mock.Anything).Return(nil, errors.New("unavailable"))

	svc := newTestService(nil, reviewer, ServiceOptions{
		Review: ReviewPolicy{Enabled: true, Lower: 0, Upper: 1, Override: true, RatePerSecond: 100, Burst: 5},
	})

	pipeline := fitToy(t)
	text := "Congratulations! You've won a FREE iPhone!"
	p, err := svc.Predict(context.Background(), pipeline, text)
	require.NoError(t, err)
	assert.Equal(t, pipeline.Classify(text).Label, p.Label)
	assert.Nil(t, p.Review)
}

func TestDetectorService_ReviewCancelled(t *testing.T) {
	reviewer := &mockReviewer{}
	svc := newTestService(nil, reviewer, ServiceOptions{
		Review: ReviewPolicy{Enabled: true, Lower: 0, Upper: 1, RatePerSecond: 0.001, Burst: 1},
	})
	pipeline := fitToy(t)

	reviewer.On("Review", mock.Anything, mock.Anything).Return(&Review{Label: Ham}, nil).Once()
	_, err := svc.Predict(context.Background(), pipeline, "free prize")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = svc.Predict(ctx, pipeline, "free prize")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDetectorService_PredictBatchKeepsOrder(t *testing.T) {
	svc := newTestService(newMapCache(), nil, ServiceOptions{CacheEnabled: true, CacheTTL: time.Minute, Workers: 4})
	pipeline := fitToy(t)

	texts := []string{
		"Congratulations! You've won a FREE iPhone!",
		"Hey, can we meet tomorrow to discuss the project?",
		"",
		"Claim your free prize now",
		"Please send me the project report",
	}
	preds, err := svc.PredictBatch(context.Background(), pipeline, texts)
	require.NoError(t, err)
	require.Len(t, preds, len(texts))
	for i, p := range preds {
		assert.Equal(t, texts[i], p.Text)
		assert.Equal(t, pipeline.Classify(texts[i]).Label, p.Label)
	}
}
