package llm

import (
	"context"
	"time"
)

// Options holds the generation parameters shared by every provider.
type Options struct {
	Model       string
	Temperature float64
	MaxTokens   int
	// Timeout bounds a single call. Zero leaves the caller's deadline alone.
	Timeout time.Duration
}

func (o Options) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if o.Timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, o.Timeout)
}

// resolveModel maps a friendly model name to a provider model ID.
func resolveModel(name string, models map[string]string) string {
	if id, ok := models[name]; ok {
		return id
	}
	return name
}
