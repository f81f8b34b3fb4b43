package openai

import (
	"context"
	"testing"

	"github.com/mikey/nb-spam-filter/internal/config"
	"github.com/mikey/nb-spam-filter/internal/core"
	"github.com/mikey/nb-spam-filter/internal/textproc"
	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockChat struct {
	mock.Mock
}

func (m *mockChat) CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(openai.ChatCompletionResponse), args.Error(1)
}

func TestReviewer_Review(t *testing.T) {
	client := &mockChat{}
	client.On("CreateChatCompletion", mock.Anything, mock.MatchedBy(func(req openai.ChatCompletionRequest) bool {
		return req.Model == "gpt-4" && len(req.Messages) == 2 && req.Messages[0].Role == openai.ChatMessageRoleSystem
	})).Return(openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{
			{Message: openai.ChatCompletionMessage{Content: `{"is_spam": false, "score": 0.05, "confidence": 0.9, "explanation": "colleague"}`}},
		},
	}, nil).Once()

	r, err := NewReviewer(client, config.OpenAIConfig{ModelName: "gpt-4"}, textproc.NewClipper(nil), zap.NewNop())
	require.NoError(t, err)

	review, err := r.Review(context.Background(), "Hi there, how are you doing?")
	require.NoError(t, err)
	assert.Equal(t, core.Ham, review.Label)
	assert.InDelta(t, 0.9, review.Confidence, 1e-12)
	client.AssertExpectations(t)
}

func TestReviewer_NoChoices(t *testing.T) {
	client := &mockChat{}
	client.On("CreateChatCompletion", mock.Anything, mock.Anything).Return(openai.ChatCompletionResponse{}, nil).Once()

	r, err := NewReviewer(client, config.OpenAIConfig{ModelName: "gpt-4"}, textproc.NewClipper(nil), zap.NewNop())
	require.NoError(t, err)
	_, err = r.Review(context.Background(), "hi")
	assert.Error(t, err)
}

func TestNewReviewer_RequiresAPIKey(t *testing.T) {
	_, err := NewReviewer(nil, config.OpenAIConfig{}, textproc.NewClipper(nil), zap.NewNop())
	assert.Error(t, err)

	r, err := NewReviewer(nil, config.OpenAIConfig{APIKey: "sk-test"}, textproc.NewClipper(nil), zap.NewNop())
	require.NoError(t, err)
	assert.NotNil(t, r)
}
