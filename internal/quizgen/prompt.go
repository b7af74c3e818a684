package quizgen

import (
	"fmt"
	"strings"

	"quizforge/internal/domain"
)

const (
	// DefaultQuestionCount is used when a request does not ask for a count.
	DefaultQuestionCount = 10

	codeSubject = "the provided code snippet"
)

// Request describes one quiz generation.
type Request struct {
	Topic         string
	CodeSnippet   string
	Difficulty    domain.Difficulty
	QuestionCount int
}

// withDefaults fills in the default difficulty and question count.
func (r Request) withDefaults() Request {
	r.Topic = strings.TrimSpace(r.Topic)
	if r.Difficulty == "" {
		r.Difficulty = domain.DefaultDifficulty
	}
	if r.QuestionCount <= 0 {
		r.QuestionCount = DefaultQuestionCount
	}
	return r
}

// validate checks caller preconditions. It runs before any model call.
func (r Request) validate() error {
	if r.Topic == "" && strings.TrimSpace(r.CodeSnippet) == "" {
		return domain.NewInputError("either a topic or a code snippet is required")
	}
	if !r.Difficulty.Valid() {
		return domain.NewInputError(fmt.Sprintf("unknown difficulty %q", r.Difficulty))
	}
	return nil
}

// subject names what the quiz is about in prompts and fallbacks.
func (r Request) subject() string {
	if r.Topic != "" {
		return r.Topic
	}
	return codeSubject
}

// Fallbacks returns the metadata used when the model omits it.
func (r Request) Fallbacks() Fallbacks {
	r = r.withDefaults()
	return Fallbacks{Topic: r.subject(), Difficulty: r.Difficulty}
}

// BuildPrompt assembles the generation instruction for r. It has no side
// effects; defaults are applied to zero fields.
func BuildPrompt(r Request) string {
	r = r.withDefaults()

	var b strings.Builder
	fmt.Fprintf(&b, "Generate a %s level coding quiz about %s with %d multiple-choice questions.",
		r.Difficulty, r.subject(), r.QuestionCount)

	if strings.TrimSpace(r.CodeSnippet) != "" {
		b.WriteString("\n\nAnalyze the following code snippet to create relevant questions:\n```\n")
		b.WriteString(r.CodeSnippet)
		b.WriteString("\n```")
	}

	b.WriteString(`

Each question must include:
  1. A clear question text
  2. Exactly 4 options with ids "a", "b", "c" and "d"
  3. The correct answer, which is one of the option ids
  4. A brief explanation of why the answer is correct

IMPORTANT: Return ONLY a single valid JSON object. Do not add any text before or after it and do not wrap it in markdown code fences.
- Use standard double quotes (") for every key and string
- Escape double quotes and backslashes inside strings
- Do not put line breaks inside strings
- No trailing commas, no missing commas, no missing or extra brackets

The JSON object must have exactly this shape:
{
  "title": "Quiz title",
  "description": "Brief description of the quiz",
  "category": "Programming category (e.g. Go, JavaScript, React)",
  "difficulty": "`)
	b.WriteString(string(r.Difficulty))
	b.WriteString(`",
  "questions": [
    {
      "text": "Question text goes here?",
      "options": [
        {"id": "a", "text": "First option"},
        {"id": "b", "text": "Second option"},
        {"id": "c", "text": "Third option"},
        {"id": "d", "text": "Fourth option"}
      ],
      "correctAnswer": "a",
      "explanation": "Explanation of why the answer is correct"
    }
  ]
}`)
	return b.String()
}
