package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"quizforge/internal/logger"

	"go.uber.org/zap"
	"google.golang.org/genai"
)

// geminiModels maps friendly names to Gemini model IDs.
var geminiModels = map[string]string{
	"gemini-flash": "gemini-2.0-flash",
	"gemini-pro":   "gemini-2.5-pro",
}

// GeminiGenerator implements domain.TextGenerator using the Google Gemini SDK.
type GeminiGenerator struct {
	client *genai.Client
	model  string
	opts   Options
	logger *zap.Logger
}

// NewGeminiGenerator creates a Gemini generator. baseURL overrides the API
// endpoint and is empty in production.
func NewGeminiGenerator(ctx context.Context, apiKey, baseURL string, opts Options, log *zap.Logger) (*GeminiGenerator, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}

	cfg := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	if baseURL != "" {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: baseURL}
	}
	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create Gemini client: %w", err)
	}

	model := resolveModel(opts.Model, geminiModels)
	if model == "" {
		model = geminiModels["gemini-flash"]
	}
	l := logger.OrNop(log)
	l.Info("Initializing Gemini text generator", zap.String("model", model))

	return &GeminiGenerator{client: client, model: model, opts: opts, logger: l}, nil
}

// GenerateText implements domain.TextGenerator.
func (g *GeminiGenerator) GenerateText(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := g.opts.withTimeout(ctx)
	defer cancel()

	config := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
	}
	if g.opts.MaxTokens > 0 {
		config.MaxOutputTokens = int32(g.opts.MaxTokens)
	}
	if g.opts.Temperature > 0 {
		temp := float32(g.opts.Temperature)
		config.Temperature = &temp
	}

	result, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), config)
	if err != nil {
		g.logger.Error("Gemini call failed", zap.String("model", g.model), zap.Error(err))
		return "", mapGeminiError(err)
	}

	text := result.Text()
	if strings.TrimSpace(text) == "" {
		return "", &ErrProviderUnavailable{Provider: "gemini", Err: ErrEmptyResponse}
	}
	return text, nil
}

func mapGeminiError(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return classifyStatus("gemini", apiErr.Code, err)
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) {
		return classifyStatus("gemini", apiErrPtr.Code, err)
	}
	return &ErrProviderUnavailable{Provider: "gemini", Err: err}
}
