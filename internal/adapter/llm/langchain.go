package llm

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"quizforge/internal/logger"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"
	"go.uber.org/zap"
)

// LangchainGenerator implements domain.TextGenerator on top of any
// langchaingo model.
type LangchainGenerator struct {
	provider string
	model    llms.Model
	opts     Options
	logger   *zap.Logger
}

// NewLangchainGenerator wraps an already constructed langchaingo model.
func NewLangchainGenerator(provider string, model llms.Model, opts Options, log *zap.Logger) *LangchainGenerator {
	return &LangchainGenerator{
		provider: provider,
		model:    model,
		opts:     opts,
		logger:   logger.OrNop(log),
	}
}

// NewOllamaGenerator creates a generator backed by a local Ollama server.
// The server is asked for JSON-formatted output.
func NewOllamaGenerator(serverURL string, opts Options, log *zap.Logger) (*LangchainGenerator, error) {
	if serverURL == "" {
		return nil, fmt.Errorf("ollama server URL cannot be empty")
	}
	if opts.Model == "" {
		return nil, fmt.Errorf("ollama model name cannot be empty")
	}
	model, err := ollama.New(
		ollama.WithServerURL(serverURL),
		ollama.WithModel(opts.Model),
		ollama.WithFormat("json"),
		ollama.WithHTTPClient(&http.Client{Timeout: opts.Timeout}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create LangchainGo Ollama client: %w", err)
	}
	return NewLangchainGenerator("ollama", model, opts, log), nil
}

// NewOpenAIGenerator creates a generator backed by the OpenAI API or a
// compatible endpoint when baseURL is set.
func NewOpenAIGenerator(apiKey, baseURL string, opts Options, log *zap.Logger) (*LangchainGenerator, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("openai API key cannot be empty")
	}
	if opts.Model == "" {
		opts.Model = "gpt-4o-mini"
	}
	clientOpts := []openai.Option{
		openai.WithToken(apiKey),
		openai.WithModel(opts.Model),
	}
	if baseURL != "" {
		clientOpts = append(clientOpts, openai.WithBaseURL(baseURL))
	}
	model, err := openai.New(clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create LangchainGo OpenAI client: %w", err)
	}
	return NewLangchainGenerator("openai", model, opts, log), nil
}

// GenerateText implements domain.TextGenerator.
func (g *LangchainGenerator) GenerateText(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := g.opts.withTimeout(ctx)
	defer cancel()

	callOpts := []llms.CallOption{}
	if g.opts.Temperature > 0 {
		callOpts = append(callOpts, llms.WithTemperature(g.opts.Temperature))
	}
	if g.opts.MaxTokens > 0 {
		callOpts = append(callOpts, llms.WithMaxTokens(g.opts.MaxTokens))
	}

	text, err := llms.GenerateFromSinglePrompt(ctx, g.model, prompt, callOpts...)
	if err != nil {
		g.logger.Error("LLM call failed", zap.String("provider", g.provider), zap.Error(err))
		return "", &ErrProviderUnavailable{Provider: g.provider, Err: err}
	}
	if strings.TrimSpace(text) == "" {
		return "", &ErrProviderUnavailable{Provider: g.provider, Err: ErrEmptyResponse}
	}
	return text, nil
}
