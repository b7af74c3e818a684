package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"quizforge/internal/dto"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"
)

// BatchFile is the YAML document listing topics to generate.
//
//	defaults:
//	  difficulty: beginner
//	  question_count: 5
//	topics:
//	  - topic: Go channels
//	  - topic: SQL joins
//	    difficulty: advanced
type BatchFile struct {
	Defaults dto.GenerateQuizRequest   `yaml:"defaults"`
	Topics   []dto.GenerateQuizRequest `yaml:"topics"`
}

// ParseBatchFile decodes a batch file and applies its defaults to every
// topic entry.
func ParseBatchFile(data []byte) ([]dto.GenerateQuizRequest, error) {
	var file BatchFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse batch file: %w", err)
	}
	if len(file.Topics) == 0 {
		return nil, fmt.Errorf("batch file lists no topics")
	}

	reqs := make([]dto.GenerateQuizRequest, 0, len(file.Topics))
	for _, t := range file.Topics {
		if t.Difficulty == "" {
			t.Difficulty = file.Defaults.Difficulty
		}
		if t.QuestionCount == 0 {
			t.QuestionCount = file.Defaults.QuestionCount
		}
		reqs = append(reqs, t)
	}
	return reqs, nil
}

// BatchService generates several quizzes at once.
type BatchService interface {
	GenerateBatch(ctx context.Context, reqs []dto.GenerateQuizRequest) []dto.BatchItemResult
}

type batchService struct {
	quizService QuizService
	concurrency int
	logger      *zap.Logger
}

// NewBatchService creates a new instance of batchService. At most
// concurrency generations run at the same time.
func NewBatchService(quizService QuizService, concurrency int, logger *zap.Logger) BatchService {
	if concurrency <= 0 {
		concurrency = 1
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &batchService{quizService: quizService, concurrency: concurrency, logger: logger}
}

// GenerateBatch implements BatchService. Each topic is independent: a
// failure is reported in its own item and does not stop the others.
// Results keep the order of reqs.
func (s *batchService) GenerateBatch(ctx context.Context, reqs []dto.GenerateQuizRequest) []dto.BatchItemResult {
	start := time.Now()
	s.logger.Info("Starting batch quiz generation", zap.Int("topics", len(reqs)), zap.Int("concurrency", s.concurrency))

	results := make([]dto.BatchItemResult, len(reqs))
	var g errgroup.Group
	g.SetLimit(s.concurrency)

	for i := range reqs {
		req := reqs[i]
		g.Go(func() error {
			item := dto.BatchItemResult{Topic: batchLabel(&req)}
			if err := ctx.Err(); err != nil {
				item.Error = err.Error()
				results[i] = item
				return nil
			}

			generated, err := s.quizService.GenerateQuiz(ctx, &req)
			if err != nil {
				s.logger.Warn("Batch topic failed", zap.String("topic", item.Topic), zap.Error(err))
				item.Error = err.Error()
			} else {
				item.QuizID = generated.Quiz.ID
				item.Warnings = generated.Warnings
			}
			results[i] = item
			return nil
		})
	}
	_ = g.Wait()

	failed := 0
	for _, r := range results {
		if r.Error != "" {
			failed++
		}
	}
	s.logger.Info("Batch quiz generation finished",
		zap.Int("succeeded", len(results)-failed),
		zap.Int("failed", failed),
		zap.Duration("elapsed", time.Since(start)),
	)
	return results
}

func batchLabel(req *dto.GenerateQuizRequest) string {
	if t := strings.TrimSpace(req.Topic); t != "" {
		return t
	}
	return "code snippet"
}
