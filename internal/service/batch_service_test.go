package service

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"quizforge/internal/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// stubQuizService implements QuizService for batch tests; only GenerateQuiz is used.
type stubQuizService struct {
	QuizService
	generate func(ctx context.Context, req *dto.GenerateQuizRequest) (*dto.GeneratedQuizResponse, error)
}

func (s *stubQuizService) GenerateQuiz(ctx context.Context, req *dto.GenerateQuizRequest) (*dto.GeneratedQuizResponse, error) {
	return s.generate(ctx, req)
}

func TestParseBatchFile(t *testing.T) {
	data := []byte(`
defaults:
  difficulty: beginner
  question_count: 5
topics:
  - topic: Go channels
  - topic: SQL joins
    difficulty: advanced
    question_count: 3
  - code_snippet: |
      x := []int{1, 2, 3}
`)
	reqs, err := ParseBatchFile(data)
	require.NoError(t, err)
	require.Len(t, reqs, 3)
	assert.Equal(t, dto.GenerateQuizRequest{Topic: "Go channels", Difficulty: "beginner", QuestionCount: 5}, reqs[0])
	assert.Equal(t, dto.GenerateQuizRequest{Topic: "SQL joins", Difficulty: "advanced", QuestionCount: 3}, reqs[1])
	assert.Equal(t, "x := []int{1, 2, 3}\n", reqs[2].CodeSnippet)

	_, err = ParseBatchFile([]byte("topics: []"))
	assert.ErrorContains(t, err, "no topics")

	_, err = ParseBatchFile([]byte("topics: [unclosed"))
	assert.ErrorContains(t, err, "failed to parse batch file")
}

func TestGenerateBatch_IndependentItems(t *testing.T) {
	svc := &stubQuizService{generate: func(ctx context.Context, req *dto.GenerateQuizRequest) (*dto.GeneratedQuizResponse, error) {
		if req.Topic == "bad" {
			return nil, errors.New("quiz generation failed: upstream 500")
		}
		return &dto.GeneratedQuizResponse{Quiz: dto.QuizResponse{ID: "id-" + req.Topic}}, nil
	}}
	batch := NewBatchService(svc, 2, zap.NewNop())

	results := batch.GenerateBatch(context.Background(), []dto.GenerateQuizRequest{
		{Topic: "go"}, {Topic: "bad"}, {CodeSnippet: "x := 1"},
	})
	require.Len(t, results, 3)
	assert.Equal(t, "id-go", results[0].QuizID)
	assert.Equal(t, "bad", results[1].Topic)
	assert.Contains(t, results[1].Error, "upstream 500")
	assert.Equal(t, "code snippet", results[2].Topic)
	assert.Empty(t, results[2].Error)
}

func TestGenerateBatch_BoundsConcurrency(t *testing.T) {
	var inFlight, peak atomic.Int32
	var mu sync.Mutex
	svc := &stubQuizService{generate: func(ctx context.Context, req *dto.GenerateQuizRequest) (*dto.GeneratedQuizResponse, error) {
		n := inFlight.Add(1)
		mu.Lock()
		if n > peak.Load() {
			peak.Store(n)
		}
		mu.Unlock()
		time.Sleep(20 * time.Millisecond)
		inFlight.Add(-1)
		return &dto.GeneratedQuizResponse{}, nil
	}}
	batch := NewBatchService(svc, 2, nil)

	reqs := make([]dto.GenerateQuizRequest, 8)
	for i := range reqs {
		reqs[i] = dto.GenerateQuizRequest{Topic: "t"}
	}
	batch.GenerateBatch(context.Background(), reqs)
	assert.LessOrEqual(t, peak.Load(), int32(2))
}

func TestGenerateBatch_CancelledContext(t *testing.T) {
	var calls atomic.Int32
	svc := &stubQuizService{generate: func(ctx context.Context, req *dto.GenerateQuizRequest) (*dto.GeneratedQuizResponse, error) {
		calls.Add(1)
		return &dto.GeneratedQuizResponse{}, nil
	}}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results := NewBatchService(svc, 1, nil).GenerateBatch(ctx, []dto.GenerateQuizRequest{{Topic: "go"}})
	require.Len(t, results, 1)
	assert.Contains(t, results[0].Error, "context canceled")
	assert.Zero(t, calls.Load())
}
