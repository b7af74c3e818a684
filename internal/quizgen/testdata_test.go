package quizgen

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// mockTextGenerator is a mock implementation of domain.TextGenerator
type mockTextGenerator struct {
	GenerateTextFunc func(ctx context.Context, prompt string) (string, error)
	calls            int
	lastPrompt       string
}

func (m *mockTextGenerator) GenerateText(ctx context.Context, prompt string) (string, error) {
	m.calls++
	m.lastPrompt = prompt
	if m.GenerateTextFunc != nil {
		return m.GenerateTextFunc(ctx, prompt)
	}
	return "", fmt.Errorf("GenerateTextFunc not implemented")
}

func respondWith(text string) *mockTextGenerator {
	return &mockTextGenerator{
		GenerateTextFunc: func(ctx context.Context, prompt string) (string, error) { return text, nil },
	}
}

var fixedNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

func fixedID() string { return "01HQZTESTQUIZ" }

// questionJSON renders a well-formed question. n only varies the text.
func questionJSON(n int) string {
	return fmt.Sprintf(`{"id":"model-%d","text":"Question %d?","options":[{"id":"a","text":"A%d"},{"id":"b","text":"B%d"},{"id":"c","text":"C%d"},{"id":"d","text":"D%d"}],"correctAnswer":"b","explanation":"Because %d."}`,
		n, n, n, n, n, n, n)
}

// quizJSON renders a quiz document whose questions array holds the given
// raw question fragments.
func quizJSON(questions ...string) string {
	return `{"title":"Go Concurrency","description":"Channels and goroutines","category":"Go","difficulty":"advanced","questions":[` +
		strings.Join(questions, ",") + `]}`
}

func wellFormedQuiz(n int) string {
	qs := make([]string, n)
	for i := range qs {
		qs[i] = questionJSON(i + 1)
	}
	return quizJSON(qs...)
}
