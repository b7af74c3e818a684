package quizgen

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"quizforge/internal/domain"

	"github.com/cucumber/godog"
)

// TestPipelineFeatures executes the pipeline feature scenarios via godog.
func TestPipelineFeatures(t *testing.T) {
	suite := godog.TestSuite{
		Name:                "quiz-pipeline",
		ScenarioInitializer: initializePipelineScenario,
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"features"},
			Strict:   true,
			TestingT: t,
		},
	}
	if suite.Run() != 0 {
		t.Fatalf("non-zero godog status")
	}
}

type pipelineState struct {
	req       Request
	model     *mockTextGenerator
	malformed string
	started   time.Time
	result    *Result
	err       error
}

func initializePipelineScenario(ctx *godog.ScenarioContext) {
	state := &pipelineState{}
	ctx.Before(func(ctx context.Context, _ *godog.Scenario) (context.Context, error) {
		*state = pipelineState{}
		return ctx, nil
	})

	ctx.Step(`^a request for (\d+) questions about "([^"]*)"$`, state.givenRequest)
	ctx.Step(`^the model responds with (\d+) well-formed questions$`, state.modelRespondsWellFormed)
	ctx.Step(`^the model responds with (\d+) questions where question (\d+) has no explanation$`, state.modelRespondsWithMalformed)
	ctx.Step(`^the model responds with:$`, state.modelRespondsWith)
	ctx.Step(`^the model call fails with "([^"]*)"$`, state.modelFails)
	ctx.Step(`^the quiz is generated$`, state.generate)
	ctx.Step(`^the quiz has (\d+) questions with ids q1 through q(\d+)$`, state.quizHasQuestions)
	ctx.Step(`^the quiz was created at or after the call started$`, state.createdAfterStart)
	ctx.Step(`^the quiz title is "([^"]*)"$`, state.titleIs)
	ctx.Step(`^no question has the text of the malformed one$`, state.malformedDropped)
	ctx.Step(`^(\d+) warning is recorded$`, state.warningCount)
	ctx.Step(`^question (\d+) text is "([^"]*)"$`, state.questionTextIs)
	ctx.Step(`^generation fails with "([^"]*)"$`, state.failsWith)
	ctx.Step(`^the model was not called$`, state.modelNotCalled)
}

func (s *pipelineState) givenRequest(count int, topic string) error {
	s.req = Request{Topic: topic, QuestionCount: count}
	return nil
}

func (s *pipelineState) modelRespondsWellFormed(count int) error {
	s.model = respondWith(wellFormedQuiz(count))
	return nil
}

func (s *pipelineState) modelRespondsWithMalformed(count, bad int) error {
	s.malformed = "This one is broken?"
	qs := make([]string, count)
	for i := range qs {
		qs[i] = questionJSON(i + 1)
	}
	qs[bad-1] = fmt.Sprintf(`{"text":%q,"options":["a","b","c","d"],"correctAnswer":"a"}`, s.malformed)
	s.model = respondWith(quizJSON(qs...))
	return nil
}

func (s *pipelineState) modelRespondsWith(doc *godog.DocString) error {
	s.model = respondWith(doc.Content)
	return nil
}

func (s *pipelineState) modelFails(msg string) error {
	s.model = &mockTextGenerator{GenerateTextFunc: func(ctx context.Context, prompt string) (string, error) {
		return "", errors.New(msg)
	}}
	return nil
}

func (s *pipelineState) generate() error {
	s.started = time.Now()
	s.result, s.err = NewGenerator(s.model, nil).Generate(context.Background(), s.req)
	return nil
}

func (s *pipelineState) quizHasQuestions(count, last int) error {
	if s.err != nil {
		return fmt.Errorf("unexpected error: %w", s.err)
	}
	qs := s.result.Quiz.Questions
	if len(qs) != count || count != last {
		return fmt.Errorf("expected %d questions, got %d", count, len(qs))
	}
	for i, q := range qs {
		if want := fmt.Sprintf("q%d", i+1); q.ID != want {
			return fmt.Errorf("question %d has id %q, want %q", i, q.ID, want)
		}
	}
	return nil
}

func (s *pipelineState) createdAfterStart() error {
	if s.result.Quiz.Created.Before(s.started) {
		return fmt.Errorf("created %v is before call start %v", s.result.Quiz.Created, s.started)
	}
	return nil
}

func (s *pipelineState) titleIs(title string) error {
	if s.err != nil {
		return fmt.Errorf("unexpected error: %w", s.err)
	}
	if s.result.Quiz.Title != title {
		return fmt.Errorf("title %q, want %q", s.result.Quiz.Title, title)
	}
	return nil
}

func (s *pipelineState) malformedDropped() error {
	for _, q := range s.result.Quiz.Questions {
		if q.Text == s.malformed {
			return fmt.Errorf("malformed question %q was kept", q.Text)
		}
	}
	return nil
}

func (s *pipelineState) warningCount(n int) error {
	if len(s.result.Warnings) != n {
		return fmt.Errorf("expected %d warnings, got %v", n, s.result.Warnings)
	}
	return nil
}

func (s *pipelineState) questionTextIs(n int, text string) error {
	if s.err != nil {
		return fmt.Errorf("unexpected error: %w", s.err)
	}
	if got := s.result.Quiz.Questions[n-1].Text; got != text {
		return fmt.Errorf("question %d text %q, want %q", n, got, text)
	}
	return nil
}

func (s *pipelineState) failsWith(code string) error {
	if s.err == nil {
		return fmt.Errorf("expected %s, got a quiz", code)
	}
	if s.result != nil {
		return fmt.Errorf("partial result returned alongside error")
	}
	if !domain.HasCode(s.err, domain.ErrorCode(code)) {
		return fmt.Errorf("expected %s, got %v", code, s.err)
	}
	if strings.TrimSpace(s.err.Error()) == "" {
		return fmt.Errorf("error message is empty")
	}
	return nil
}

func (s *pipelineState) modelNotCalled() error {
	if s.model.calls != 0 {
		return fmt.Errorf("model called %d times", s.model.calls)
	}
	return nil
}
