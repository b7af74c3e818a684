package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"quizforge/internal/logger"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

const defaultOpenRouterBaseURL = "https://openrouter.ai/api/v1"

// OpenRouterGenerator implements domain.TextGenerator against the
// OpenAI-compatible OpenRouter API.
type OpenRouterGenerator struct {
	client *openai.Client
	model  string
	opts   Options
	logger *zap.Logger
}

// NewOpenRouterGenerator creates a generator targeting OpenRouter, or any
// other OpenAI-compatible endpoint when baseURL is set.
func NewOpenRouterGenerator(apiKey, baseURL string, opts Options, log *zap.Logger) (*OpenRouterGenerator, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("openrouter API key is required")
	}
	if opts.Model == "" {
		return nil, fmt.Errorf("openrouter model name is required")
	}

	config := openai.DefaultConfig(apiKey)
	config.BaseURL = defaultOpenRouterBaseURL
	if baseURL != "" {
		config.BaseURL = baseURL
	}

	return &OpenRouterGenerator{
		client: openai.NewClientWithConfig(config),
		model:  opts.Model,
		opts:   opts,
		logger: logger.OrNop(log),
	}, nil
}

// GenerateText implements domain.TextGenerator.
func (g *OpenRouterGenerator) GenerateText(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := g.opts.withTimeout(ctx)
	defer cancel()

	req := openai.ChatCompletionRequest{
		Model: g.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		MaxTokens:   g.opts.MaxTokens,
		Temperature: float32(g.opts.Temperature),
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	}

	resp, err := g.client.CreateChatCompletion(ctx, req)
	if err != nil {
		g.logger.Error("OpenRouter call failed", zap.String("model", g.model), zap.Error(err))
		return "", mapOpenAIError(err)
	}
	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		return "", &ErrProviderUnavailable{Provider: "openrouter", Err: ErrEmptyResponse}
	}
	return resp.Choices[0].Message.Content, nil
}

func mapOpenAIError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return classifyStatus("openrouter", apiErr.HTTPStatusCode, err)
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return classifyStatus("openrouter", reqErr.HTTPStatusCode, err)
	}
	return &ErrProviderUnavailable{Provider: "openrouter", Err: err}
}
