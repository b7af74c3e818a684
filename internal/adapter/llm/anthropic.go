package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"quizforge/internal/logger"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"go.uber.org/zap"
)

// anthropicModels maps friendly names to Anthropic model IDs.
var anthropicModels = map[string]string{
	"claude-sonnet": "claude-sonnet-4-20250514",
	"claude-haiku":  "claude-haiku-4-5-20251001",
}

const defaultAnthropicMaxTokens = 8192

// AnthropicGenerator implements domain.TextGenerator using the Anthropic SDK.
type AnthropicGenerator struct {
	client *anthropic.Client
	model  string
	opts   Options
	logger *zap.Logger
}

// NewAnthropicGenerator creates an Anthropic generator. baseURL overrides
// the API endpoint and is empty in production.
func NewAnthropicGenerator(apiKey, baseURL string, opts Options, log *zap.Logger) (*AnthropicGenerator, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("anthropic API key is required")
	}

	reqOpts := []option.RequestOption{
		option.WithAPIKey(apiKey),
	}
	if baseURL != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(baseURL))
	}
	client := anthropic.NewClient(reqOpts...)

	model := resolveModel(opts.Model, anthropicModels)
	if model == "" {
		model = anthropicModels["claude-sonnet"]
	}

	return &AnthropicGenerator{
		client: &client,
		model:  model,
		opts:   opts,
		logger: logger.OrNop(log),
	}, nil
}

// GenerateText implements domain.TextGenerator.
func (g *AnthropicGenerator) GenerateText(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := g.opts.withTimeout(ctx)
	defer cancel()

	maxTokens := int64(g.opts.MaxTokens)
	if maxTokens <= 0 {
		maxTokens = defaultAnthropicMaxTokens
	}
	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(g.model),
		MaxTokens: maxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	}
	if g.opts.Temperature > 0 {
		params.Temperature = anthropic.Float(g.opts.Temperature)
	}

	msg, err := g.client.Messages.New(ctx, params)
	if err != nil {
		g.logger.Error("Anthropic call failed", zap.String("model", g.model), zap.Error(err))
		return "", mapAnthropicError(err)
	}

	var b strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			b.WriteString(block.Text)
		}
	}
	if strings.TrimSpace(b.String()) == "" {
		return "", &ErrProviderUnavailable{Provider: "anthropic", Err: ErrEmptyResponse}
	}
	return b.String(), nil
}

func mapAnthropicError(err error) error {
	var apiErr *anthropic.Error
	if errors.As(err, &apiErr) {
		return classifyStatus("anthropic", apiErr.StatusCode, err)
	}
	return &ErrProviderUnavailable{Provider: "anthropic", Err: err}
}
