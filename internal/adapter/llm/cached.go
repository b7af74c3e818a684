package llm

import (
	"context"
	"errors"
	"time"

	"quizforge/internal/cache"
	"quizforge/internal/domain"
	"quizforge/internal/logger"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// CachedTextGenerator memoizes raw model responses by prompt. Identical
// concurrent prompts share one upstream call, and a caller that cancels
// leaves the shared call running for the others. Cache failures are logged
// and never fail the call.
type CachedTextGenerator struct {
	next    domain.TextGenerator
	cache   domain.Cache
	ttl     time.Duration
	model   string
	sfGroup singleflight.Group
	logger  *zap.Logger
}

// NewCachedTextGenerator wraps next. model namespaces the cache keys so a
// provider switch does not serve stale responses.
func NewCachedTextGenerator(next domain.TextGenerator, c domain.Cache, ttl time.Duration, model string, log *zap.Logger) *CachedTextGenerator {
	return &CachedTextGenerator{
		next:   next,
		cache:  c,
		ttl:    ttl,
		model:  model,
		logger: logger.OrNop(log),
	}
}

func (c *CachedTextGenerator) cacheKey(prompt string) string {
	return cache.ResponseKey(c.model, prompt)
}

// GenerateText implements domain.TextGenerator.
func (c *CachedTextGenerator) GenerateText(ctx context.Context, prompt string) (string, error) {
	key := c.cacheKey(prompt)

	cached, err := c.cache.Get(ctx, key)
	if err == nil {
		c.logger.Debug("LLM response cache hit", zap.String("key", key))
		return cached, nil
	}
	if !errors.Is(err, domain.ErrCacheMiss) {
		c.logger.Warn("LLM response cache read failed", zap.String("key", key), zap.Error(err))
	}

	// The flight outlives any single caller; upstream calls are bounded by
	// the provider timeout.
	flight := c.sfGroup.DoChan(key, func() (interface{}, error) {
		text, err := c.next.GenerateText(context.WithoutCancel(ctx), prompt)
		if err != nil {
			return "", err
		}
		if setErr := c.cache.Set(context.WithoutCancel(ctx), key, text, c.ttl); setErr != nil {
			c.logger.Warn("LLM response cache write failed", zap.String("key", key), zap.Error(setErr))
		}
		return text, nil
	})

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-flight:
		if res.Err != nil {
			return "", res.Err
		}
		if res.Shared {
			c.logger.Debug("LLM response shared with concurrent caller", zap.String("key", key))
		}
		return res.Val.(string), nil
	}
}

// Forget drops the cached response for prompt. The pipeline calls it when a
// cached response could not be turned into a quiz.
func (c *CachedTextGenerator) Forget(ctx context.Context, prompt string) error {
	return c.cache.Delete(ctx, c.cacheKey(prompt))
}
