package cache

import (
	"path"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKey(t *testing.T) {
	tests := []struct {
		name     string
		segments []string
		want     string
	}{
		{"namespace only", nil, "quizforge"},
		{"segments", []string{"response", "v1", "abc"}, "quizforge:response:v1:abc"},
		{"empty segments skipped", []string{"response", "", "abc"}, "quizforge:response:abc"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Key(tt.segments...))
		})
	}
}

func TestResponseKey(t *testing.T) {
	key := ResponseKey("gemini:gemini-2.0-flash", "Generate a quiz")
	assert.True(t, strings.HasPrefix(key, "quizforge:response:v1:"))
	assert.Len(t, strings.TrimPrefix(key, "quizforge:response:v1:"), 64)
	assert.NotContains(t, key, "Generate a quiz")

	assert.Equal(t, key, ResponseKey("gemini:gemini-2.0-flash", "Generate a quiz"))
	assert.NotEqual(t, key, ResponseKey("openai:gpt-4o", "Generate a quiz"))

	matched, err := path.Match(ResponsePattern(), key)
	assert.NoError(t, err)
	assert.True(t, matched)
}

func TestHashKey(t *testing.T) {
	a := HashKey("gemini-2.0-flash", "prompt")
	assert.Len(t, a, 64)
	assert.Equal(t, a, HashKey("gemini-2.0-flash", "prompt"))
	assert.NotEqual(t, a, HashKey("gemini-2.0-flashprompt"))
	assert.NotEqual(t, a, HashKey("gpt-4o", "prompt"))
}
