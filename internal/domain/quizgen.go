package domain

import "context"

// TextGenerator acquires a free-form model response for a prompt.
// Implementations live in internal/adapter/llm. The returned text is not
// guaranteed to be valid JSON or free of prose.
type TextGenerator interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}
