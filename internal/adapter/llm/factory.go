package llm

import (
	"context"
	"fmt"

	"quizforge/internal/config"
	"quizforge/internal/domain"

	"go.uber.org/zap"
)

// NewTextGenerator constructs the text generator selected by cfg.Provider.
// It is called once at process startup and the result is passed to the
// quiz pipeline.
func NewTextGenerator(ctx context.Context, cfg config.LLMConfig, log *zap.Logger) (domain.TextGenerator, error) {
	opts := Options{
		Model:       cfg.Model,
		Temperature: cfg.Temperature,
		MaxTokens:   cfg.MaxTokens,
		Timeout:     cfg.Timeout,
	}

	switch cfg.Provider {
	case "gemini":
		return asGenerator(NewGeminiGenerator(ctx, cfg.APIKey, cfg.BaseURL, opts, log))
	case "anthropic":
		return asGenerator(NewAnthropicGenerator(cfg.APIKey, cfg.BaseURL, opts, log))
	case "openrouter":
		return asGenerator(NewOpenRouterGenerator(cfg.APIKey, cfg.BaseURL, opts, log))
	case "openai":
		return asGenerator(NewOpenAIGenerator(cfg.APIKey, cfg.BaseURL, opts, log))
	case "ollama":
		return asGenerator(NewOllamaGenerator(cfg.ServerURL, opts, log))
	default:
		return nil, fmt.Errorf("unknown LLM provider: %q", cfg.Provider)
	}
}

// asGenerator drops the typed nil a failed constructor returns.
func asGenerator[T domain.TextGenerator](g T, err error) (domain.TextGenerator, error) {
	if err != nil {
		return nil, err
	}
	return g, nil
}
