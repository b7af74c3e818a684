package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"quizforge/internal/config"
	"quizforge/internal/domain"
	"quizforge/internal/dto"
	"quizforge/internal/logger"
	"quizforge/internal/quizgen"
	"quizforge/internal/util"

	"go.uber.org/zap"
)

// QuizPipeline is the generation pipeline the service drives.
// *quizgen.Generator implements it.
type QuizPipeline interface {
	Generate(ctx context.Context, req quizgen.Request) (*quizgen.Result, error)
	Import(data []byte, fb quizgen.Fallbacks) (*quizgen.Result, error)
}

// QuizService defines the interface for quiz-related operations
type QuizService interface {
	GenerateQuiz(ctx context.Context, req *dto.GenerateQuizRequest) (*dto.GeneratedQuizResponse, error)
	ImportQuiz(ctx context.Context, data []byte) (*dto.GeneratedQuizResponse, error)
	ListQuizzes(ctx context.Context, search string, limit, offset int) ([]dto.QuizSummary, error)
	GetQuiz(ctx context.Context, id string) (*dto.QuizResponse, error)
	UpdateQuiz(ctx context.Context, id string, data []byte) (*dto.GeneratedQuizResponse, error)
	DeleteQuiz(ctx context.Context, id string) error
	ExportQuiz(ctx context.Context, id string) ([]byte, error)
	SubmitResult(ctx context.Context, quizID string, req *dto.SubmitResultRequest) (*dto.ResultResponse, error)
	ListResults(ctx context.Context, quizID string) ([]dto.ResultResponse, error)
}

// quizService implements QuizService
type quizService struct {
	pipeline   QuizPipeline
	quizRepo   domain.QuizRepository
	resultRepo domain.ResultRepository
	txManager  domain.TransactionManager
	cfg        config.GenerationConfig
	now        func() time.Time
	newID      func() string
}

// NewQuizService creates a new instance of quizService
func NewQuizService(
	pipeline QuizPipeline,
	quizRepo domain.QuizRepository,
	resultRepo domain.ResultRepository,
	txManager domain.TransactionManager,
	cfg config.GenerationConfig,
) QuizService {
	return &quizService{
		pipeline:   pipeline,
		quizRepo:   quizRepo,
		resultRepo: resultRepo,
		txManager:  txManager,
		cfg:        cfg,
		now:        time.Now,
		newID:      util.NewResultID,
	}
}

// importedTopic is the fallback subject for documents that carry no category.
const importedTopic = "imported quiz"

// toPipelineRequest applies configured defaults. The question count limit is
// enforced here so the CLI and batch paths share it with the HTTP API.
func (s *quizService) toPipelineRequest(req *dto.GenerateQuizRequest) (quizgen.Request, error) {
	if limit := s.cfg.MaxQuestionCount; req.QuestionCount < 0 || (limit > 0 && req.QuestionCount > limit) {
		var errs domain.FieldErrors
		errs.Add("question_count", domain.CodeOutOfRange, fmt.Sprintf("must be between 1 and %d", limit))
		return quizgen.Request{}, errs.AsError()
	}
	out := quizgen.Request{
		Topic:         req.Topic,
		CodeSnippet:   req.CodeSnippet,
		QuestionCount: req.QuestionCount,
	}
	if d, ok := domain.ParseDifficulty(req.Difficulty); ok {
		out.Difficulty = d
	} else if req.Difficulty != "" {
		// Leave it for the pipeline to reject as INVALID_INPUT.
		out.Difficulty = domain.Difficulty(req.Difficulty)
	} else if d, ok := domain.ParseDifficulty(s.cfg.DefaultDifficulty); ok {
		out.Difficulty = d
	}
	if out.QuestionCount == 0 {
		out.QuestionCount = s.cfg.DefaultQuestionCount
	}
	return out, nil
}

func toGeneratedResponse(result *quizgen.Result) *dto.GeneratedQuizResponse {
	warnings := make([]dto.RecoveryWarning, 0, len(result.Warnings))
	for _, w := range result.Warnings {
		warnings = append(warnings, dto.RecoveryWarning{QuestionIndex: w.QuestionIndex, Reason: w.Reason})
	}
	return &dto.GeneratedQuizResponse{Quiz: dto.NewQuizResponse(result.Quiz), Warnings: warnings}
}

// GenerateQuiz implements QuizService
func (s *quizService) GenerateQuiz(ctx context.Context, req *dto.GenerateQuizRequest) (*dto.GeneratedQuizResponse, error) {
	pipelineReq, err := s.toPipelineRequest(req)
	if err != nil {
		return nil, err
	}
	result, err := s.pipeline.Generate(ctx, pipelineReq)
	if err != nil {
		return nil, err
	}
	if err := s.quizRepo.SaveQuiz(ctx, result.Quiz); err != nil {
		logger.Get().Error("Failed to save generated quiz", zap.String("quiz_id", result.Quiz.ID), zap.Error(err))
		return nil, domain.NewInternalError("failed to save quiz", err)
	}
	return toGeneratedResponse(result), nil
}

// ImportQuiz implements QuizService
func (s *quizService) ImportQuiz(ctx context.Context, data []byte) (*dto.GeneratedQuizResponse, error) {
	fb := quizgen.Fallbacks{Topic: importedTopic}
	if d, ok := domain.ParseDifficulty(s.cfg.DefaultDifficulty); ok {
		fb.Difficulty = d
	}
	result, err := s.pipeline.Import(data, fb)
	if err != nil {
		return nil, domain.MarkDocumentError(err)
	}
	if err := s.quizRepo.SaveQuiz(ctx, result.Quiz); err != nil {
		return nil, domain.NewInternalError("failed to save quiz", err)
	}
	logger.Get().Info("Quiz imported",
		zap.String("quiz_id", result.Quiz.ID),
		zap.Int("questions", len(result.Quiz.Questions)),
		zap.Int("warnings", len(result.Warnings)),
	)
	return toGeneratedResponse(result), nil
}

// ListQuizzes implements QuizService
func (s *quizService) ListQuizzes(ctx context.Context, search string, limit, offset int) ([]dto.QuizSummary, error) {
	quizzes, err := s.quizRepo.ListQuizzes(ctx, search, limit, offset)
	if err != nil {
		return nil, domain.NewInternalError("failed to list quizzes", err)
	}
	summaries := make([]dto.QuizSummary, 0, len(quizzes))
	for _, q := range quizzes {
		summaries = append(summaries, dto.NewQuizSummary(q))
	}
	return summaries, nil
}

func (s *quizService) getStored(ctx context.Context, id string) (*domain.StoredQuiz, error) {
	if strings.TrimSpace(id) == "" {
		return nil, domain.NewInputError("quiz id is required")
	}
	stored, err := s.quizRepo.GetQuizByID(ctx, id)
	if err != nil {
		if domain.HasCode(err, domain.CodeNotFound) {
			return nil, err
		}
		return nil, domain.NewInternalError("failed to get quiz", err)
	}
	return stored, nil
}

// GetQuiz implements QuizService
func (s *quizService) GetQuiz(ctx context.Context, id string) (*dto.QuizResponse, error) {
	stored, err := s.getStored(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := dto.NewStoredQuizResponse(stored)
	return &resp, nil
}

// UpdateQuiz implements QuizService. The document goes through the same
// recovery as generated output; id, creation time and stats are kept.
func (s *quizService) UpdateQuiz(ctx context.Context, id string, data []byte) (*dto.GeneratedQuizResponse, error) {
	existing, err := s.getStored(ctx, id)
	if err != nil {
		return nil, err
	}

	fb := quizgen.Fallbacks{Topic: existing.Category, Difficulty: existing.Difficulty}
	if fb.Topic == "" {
		fb.Topic = existing.Title
	}
	result, err := s.pipeline.Import(data, fb)
	if err != nil {
		return nil, domain.MarkDocumentError(err)
	}
	result.Quiz.ID = existing.ID
	result.Quiz.Created = existing.Created

	if err := s.quizRepo.UpdateQuiz(ctx, result.Quiz); err != nil {
		if domain.HasCode(err, domain.CodeNotFound) {
			return nil, err
		}
		return nil, domain.NewInternalError("failed to update quiz", err)
	}
	return toGeneratedResponse(result), nil
}

// DeleteQuiz implements QuizService
func (s *quizService) DeleteQuiz(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return domain.NewInputError("quiz id is required")
	}
	err := s.txManager.WithTransaction(ctx, func(ctx context.Context) error {
		return s.quizRepo.DeleteQuiz(ctx, id)
	})
	if err != nil {
		if domain.HasCode(err, domain.CodeNotFound) {
			return err
		}
		return domain.NewInternalError("failed to delete quiz", err)
	}
	return nil
}

// ExportQuiz implements QuizService
func (s *quizService) ExportQuiz(ctx context.Context, id string) ([]byte, error) {
	stored, err := s.getStored(ctx, id)
	if err != nil {
		return nil, err
	}
	return quizgen.ExportDocument(&stored.Quiz)
}

// SubmitResult implements QuizService. Answers are scored against the
// stored quiz; the result and the updated stats are written together.
func (s *quizService) SubmitResult(ctx context.Context, quizID string, req *dto.SubmitResultRequest) (*dto.ResultResponse, error) {
	var result *domain.QuizResult
	err := s.txManager.WithTransaction(ctx, func(ctx context.Context) error {
		stored, err := s.getStored(ctx, quizID)
		if err != nil {
			return err
		}

		answers, score, err := scoreAnswers(&stored.Quiz, req.Answers)
		if err != nil {
			return err
		}
		result = &domain.QuizResult{
			ID:             s.newID(),
			QuizID:         stored.ID,
			TakenAt:        s.now().UTC(),
			Score:          score,
			TotalQuestions: len(stored.Questions),
			TimeSpent:      time.Duration(req.TimeSpentSeconds) * time.Second,
			Answers:        answers,
		}

		if err := s.resultRepo.SaveResult(ctx, result); err != nil {
			return domain.NewInternalError("failed to save result", err)
		}
		stats := stored.Stats.ApplyResult(result)
		if err := s.quizRepo.UpdateStats(ctx, stored.ID, stats, result.TakenAt); err != nil {
			return domain.NewInternalError("failed to update quiz stats", err)
		}
		return nil
	})
	if err != nil {
		if _, ok := domain.CodeOf(err); ok {
			return nil, err
		}
		return nil, domain.NewInternalError("failed to record result", err)
	}

	logger.Get().Info("Quiz result recorded",
		zap.String("quiz_id", quizID),
		zap.Int("score", result.Score),
		zap.Int("total", result.TotalQuestions),
	)
	resp := dto.NewResultResponse(result)
	return &resp, nil
}

// scoreAnswers marks each submission against the quiz. Every answer must
// name a distinct question of the quiz.
func scoreAnswers(quiz *domain.Quiz, submitted []dto.AnswerSubmission) ([]domain.AnswerRecord, int, error) {
	seen := make(map[string]bool, len(submitted))
	records := make([]domain.AnswerRecord, 0, len(submitted))
	score := 0
	for _, a := range submitted {
		q := quiz.QuestionByID(a.QuestionID)
		if q == nil {
			return nil, 0, domain.NewInputError(fmt.Sprintf("quiz has no question %q", a.QuestionID))
		}
		if seen[a.QuestionID] {
			return nil, 0, domain.NewInputError(fmt.Sprintf("question %q answered more than once", a.QuestionID))
		}
		seen[a.QuestionID] = true

		correct := a.SelectedAnswer == q.CorrectAnswer
		if correct {
			score++
		}
		records = append(records, domain.AnswerRecord{
			QuestionID:     a.QuestionID,
			SelectedAnswer: a.SelectedAnswer,
			IsCorrect:      correct,
		})
	}
	return records, score, nil
}

// ListResults implements QuizService
func (s *quizService) ListResults(ctx context.Context, quizID string) ([]dto.ResultResponse, error) {
	if _, err := s.getStored(ctx, quizID); err != nil {
		return nil, err
	}
	results, err := s.resultRepo.ListResultsByQuiz(ctx, quizID)
	if err != nil {
		return nil, domain.NewInternalError("failed to list results", err)
	}
	out := make([]dto.ResultResponse, 0, len(results))
	for _, r := range results {
		out = append(out, dto.NewResultResponse(r))
	}
	return out, nil
}
