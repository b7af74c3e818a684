// Package app wires the configured components into the services used by
// the api and quizgen binaries.
package app

import (
	"context"
	"fmt"

	"quizforge/internal/adapter"
	"quizforge/internal/adapter/llm"
	"quizforge/internal/cache"
	"quizforge/internal/config"
	"quizforge/internal/database"
	"quizforge/internal/domain"
	"quizforge/internal/quizgen"
	"quizforge/internal/repository"
	"quizforge/internal/service"
	"quizforge/internal/validation"

	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Container holds the process-wide components.
type Container struct {
	Config      *config.Config
	DB          *sqlx.DB
	Redis       *redis.Client // nil when redis is not configured
	Cache       domain.Cache  // nil when redis is not configured
	Generator   *quizgen.Generator
	QuizService service.QuizService
	Batch       service.BatchService
	Validator   *validation.Validator
}

// TextGeneratorFactory builds the model backend. Tests replace it.
type TextGeneratorFactory func(ctx context.Context, cfg config.LLMConfig, log *zap.Logger) (domain.TextGenerator, error)

// Build connects to the database (running pending migrations), optionally
// to redis, and constructs the generation pipeline and services.
func Build(ctx context.Context, cfg *config.Config, log *zap.Logger, newTextGen TextGeneratorFactory) (*Container, error) {
	if newTextGen == nil {
		newTextGen = llm.NewTextGenerator
	}
	c := &Container{Config: cfg, Validator: validation.NewValidator(cfg.Generation.MaxQuestionCount)}

	db, err := database.Open(ctx, cfg.DB)
	if err != nil {
		return nil, err
	}
	c.DB = db
	if err := database.RunMigrations(ctx, db, database.Up); err != nil {
		c.Close()
		return nil, err
	}
	log.Info("Database ready", zap.String("driver", cfg.DB.Driver))

	textGen, err := newTextGen(ctx, cfg.LLM, log)
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("failed to create text generator: %w", err)
	}
	log.Info("Text generator initialized", zap.String("provider", cfg.LLM.Provider), zap.String("model", cfg.LLM.Model))

	if cfg.Redis.Enabled() {
		client, err := cache.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			c.Close()
			return nil, err
		}
		c.Redis = client
		c.Cache = adapter.NewRedisCacheAdapter(client)
		log.Info("Connected to redis", zap.String("address", client.Options().Addr))

		if cfg.Generation.CacheTTL > 0 {
			textGen = llm.NewCachedTextGenerator(textGen, c.Cache, cfg.Generation.CacheTTL, cfg.LLM.Provider+":"+cfg.LLM.Model, log)
			log.Info("LLM response cache enabled", zap.Duration("ttl", cfg.Generation.CacheTTL))
		}
	}

	c.Generator = quizgen.NewGenerator(textGen, log)
	c.QuizService = service.NewQuizService(
		c.Generator,
		repository.NewQuizDatabaseAdapter(db),
		repository.NewResultDatabaseAdapter(db),
		repository.NewTransactionManagerAdapter(db),
		cfg.Generation,
	)
	c.Batch = service.NewBatchService(c.QuizService, cfg.Generation.BatchConcurrency, log)
	return c, nil
}

// Close releases the redis client and the database.
func (c *Container) Close() {
	if c.Redis != nil {
		_ = c.Redis.Close()
	}
	if c.DB != nil {
		_ = c.DB.Close()
	}
}
