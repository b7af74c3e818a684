package quizgen

import (
	"context"
	"errors"
	"time"

	"quizforge/internal/domain"
	"quizforge/internal/logger"
	"quizforge/internal/util"

	"go.uber.org/zap"
)

// Result is a validated quiz plus the per-question recovery warnings
// collected while building it.
type Result struct {
	Quiz     *domain.Quiz `json:"quiz"`
	Warnings []Warning    `json:"warnings,omitempty"`
}

// ResponseForgetter is implemented by text generators that memoize
// responses. Forget is called when a response could not be turned into a
// quiz, so a retry reaches the model again.
type ResponseForgetter interface {
	Forget(ctx context.Context, prompt string) error
}

// Generator runs the generation pipeline: prompt, model call, normalize,
// parse, recover. It holds no per-call state and is safe for concurrent use.
type Generator struct {
	textGen domain.TextGenerator
	logger  *zap.Logger
	now     func() time.Time
	newID   func() string
}

// Option configures a Generator.
type Option func(*Generator)

// WithClock overrides the time source used for Quiz.Created.
func WithClock(now func() time.Time) Option {
	return func(g *Generator) { g.now = now }
}

// WithIDGenerator overrides the quiz id source.
func WithIDGenerator(newID func() string) Option {
	return func(g *Generator) { g.newID = newID }
}

// NewGenerator creates a Generator around an explicitly constructed text
// generator.
func NewGenerator(textGen domain.TextGenerator, log *zap.Logger, opts ...Option) *Generator {
	g := &Generator{
		textGen: textGen,
		logger:  logger.OrNop(log),
		now:     time.Now,
		newID:   util.NewQuizID,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate produces a validated quiz for req. Errors are DomainErrors with
// codes INVALID_INPUT, GENERATION_FAILED, EXTRACTION_FAILED, PARSE_FAILED or
// INVALID_QUIZ_DATA.
func (g *Generator) Generate(ctx context.Context, req Request) (*Result, error) {
	req = req.withDefaults()
	if err := req.validate(); err != nil {
		return nil, err
	}

	log := g.logger.With(
		zap.String("topic", req.subject()),
		zap.String("difficulty", req.Difficulty.String()),
		zap.Int("question_count", req.QuestionCount),
	)

	prompt := BuildPrompt(req)
	raw, err := g.textGen.GenerateText(ctx, prompt)
	if err == nil {
		err = ctx.Err()
	}
	if err != nil {
		log.Error("Text generation failed", zap.Error(err))
		return nil, domain.NewGenerationError(err)
	}
	log.Debug("Raw model response", zap.String("excerpt", Excerpt(raw)), zap.Int("bytes", len(raw)))

	result, err := g.process(log, raw, req.Fallbacks())
	if err != nil {
		log.Error("Quiz generation failed", zap.Error(err))
		if f, ok := g.textGen.(ResponseForgetter); ok {
			if ferr := f.Forget(context.WithoutCancel(ctx), prompt); ferr != nil {
				log.Warn("Failed to forget unusable response", zap.Error(ferr))
			}
		}
		return nil, err
	}
	log.Info("Quiz generated",
		zap.String("quiz_id", result.Quiz.ID),
		zap.Int("questions", len(result.Quiz.Questions)),
		zap.Int("warnings", len(result.Warnings)),
	)
	return result, nil
}

func (g *Generator) process(log *zap.Logger, raw string, fb Fallbacks) (*Result, error) {
	cleaned, err := Normalize(raw)
	if err != nil {
		if errors.Is(err, ErrNoJSONContent) {
			return nil, domain.NewExtractionError(err).WithDetail("excerpt", Excerpt(raw))
		}
		return nil, domain.NewInternalError("normalize response", err)
	}
	log.Debug("Cleaned model response", zap.String("excerpt", Excerpt(cleaned)))

	root, usedFallback, err := ParseRepaired(cleaned)
	if err != nil {
		return nil, err
	}
	if usedFallback {
		log.Info("Parsed response with balanced-object fallback")
	}

	return g.build(log, root, fb)
}

func (g *Generator) build(log *zap.Logger, root JSONValue, fb Fallbacks) (*Result, error) {
	quiz, warnings, err := BuildQuiz(root, fb, g.now, g.newID)
	for _, w := range warnings {
		log.Warn("Recovered malformed question", zap.Int("question_index", w.QuestionIndex), zap.String("reason", w.Reason))
	}
	if err != nil {
		return nil, err
	}
	return &Result{Quiz: quiz, Warnings: warnings}, nil
}
