package llm

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/llms"
)

// MockModel is a mock type for the llms.Model interface
type MockModel struct {
	mock.Mock
}

func (m *MockModel) GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
	args := m.Called(ctx, messages, options)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*llms.ContentResponse), args.Error(1)
}

func (m *MockModel) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	args := m.Called(ctx, prompt, options)
	return args.String(0), args.Error(1)
}

func singleChoice(text string) *llms.ContentResponse {
	return &llms.ContentResponse{Choices: []*llms.ContentChoice{{Content: text}}}
}

func TestLangchainGenerator_GenerateText(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		model := new(MockModel)
		model.On("GenerateContent", mock.Anything, mock.MatchedBy(func(msgs []llms.MessageContent) bool {
			if len(msgs) != 1 || len(msgs[0].Parts) != 1 {
				return false
			}
			part, ok := msgs[0].Parts[0].(llms.TextContent)
			return ok && part.Text == "make a quiz"
		}), mock.Anything).Return(singleChoice(`{"questions":[]}`), nil).Once()

		g := NewLangchainGenerator("ollama", model, Options{Temperature: 0.2, MaxTokens: 100}, nil)
		text, err := g.GenerateText(ctx, "make a quiz")
		require.NoError(t, err)
		assert.Equal(t, `{"questions":[]}`, text)
		model.AssertExpectations(t)
	})

	t.Run("upstream error is wrapped", func(t *testing.T) {
		model := new(MockModel)
		cause := errors.New("connection refused")
		model.On("GenerateContent", mock.Anything, mock.Anything, mock.Anything).Return(nil, cause).Once()

		g := NewLangchainGenerator("ollama", model, Options{}, nil)
		_, err := g.GenerateText(ctx, "p")
		var unavailable *ErrProviderUnavailable
		require.ErrorAs(t, err, &unavailable)
		assert.Equal(t, "ollama", unavailable.Provider)
		assert.ErrorIs(t, err, cause)
	})

	t.Run("blank response", func(t *testing.T) {
		model := new(MockModel)
		model.On("GenerateContent", mock.Anything, mock.Anything, mock.Anything).Return(singleChoice("  \n"), nil).Once()

		g := NewLangchainGenerator("openai", model, Options{}, nil)
		_, err := g.GenerateText(ctx, "p")
		assert.ErrorIs(t, err, ErrEmptyResponse)
	})

	t.Run("timeout applies to the call", func(t *testing.T) {
		model := new(MockModel)
		model.On("GenerateContent", mock.Anything, mock.Anything, mock.Anything).
			Run(func(args mock.Arguments) {
				callCtx := args.Get(0).(context.Context)
				_, hasDeadline := callCtx.Deadline()
				assert.True(t, hasDeadline)
			}).
			Return(singleChoice("{}"), nil).Once()

		g := NewLangchainGenerator("ollama", model, Options{Timeout: time.Minute}, nil)
		_, err := g.GenerateText(ctx, "p")
		require.NoError(t, err)
		model.AssertExpectations(t)
	})
}

func TestNewOllamaGenerator_Validation(t *testing.T) {
	_, err := NewOllamaGenerator("", Options{Model: "llama3"}, nil)
	assert.ErrorContains(t, err, "ollama server URL cannot be empty")

	_, err = NewOllamaGenerator("http://localhost:11434", Options{}, nil)
	assert.ErrorContains(t, err, "ollama model name cannot be empty")

	g, err := NewOllamaGenerator("http://localhost:11434", Options{Model: "llama3"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "ollama", g.provider)
}

func TestNewOpenAIGenerator_Validation(t *testing.T) {
	_, err := NewOpenAIGenerator("", "", Options{}, nil)
	assert.ErrorContains(t, err, "openai API key cannot be empty")

	g, err := NewOpenAIGenerator("sk-test", "http://localhost:9999/v1", Options{}, nil)
	require.NoError(t, err)
	assert.Equal(t, "gpt-4o-mini", g.opts.Model)
}
