package repository

import (
	"context"
	"fmt"
	"time"

	"quizforge/internal/domain"
	"quizforge/internal/repository/models"
	"quizforge/internal/util"

	"github.com/jmoiron/sqlx"
)

// ResultDatabaseAdapter implements domain.ResultRepository using sqlx.
type ResultDatabaseAdapter struct {
	db DBTX
}

// NewResultDatabaseAdapter creates a new instance of ResultDatabaseAdapter.
func NewResultDatabaseAdapter(db *sqlx.DB) *ResultDatabaseAdapter {
	return &ResultDatabaseAdapter{db: db}
}

var _ domain.ResultRepository = (*ResultDatabaseAdapter)(nil)

func toModelResult(r *domain.QuizResult) *models.QuizResult {
	return &models.QuizResult{
		ID:             r.ID,
		QuizID:         r.QuizID,
		Score:          r.Score,
		TotalQuestions: r.TotalQuestions,
		TimeSpentMs:    r.TimeSpent.Milliseconds(),
		Answers:        models.JSONList[domain.AnswerRecord](r.Answers),
		TakenAt:        util.TimeToMillis(r.TakenAt),
	}
}

func toDomainResult(m *models.QuizResult) *domain.QuizResult {
	return &domain.QuizResult{
		ID:             m.ID,
		QuizID:         m.QuizID,
		TakenAt:        util.MillisToTime(m.TakenAt),
		Score:          m.Score,
		TotalQuestions: m.TotalQuestions,
		TimeSpent:      time.Duration(m.TimeSpentMs) * time.Millisecond,
		Answers:        []domain.AnswerRecord(m.Answers),
	}
}

// SaveResult implements domain.ResultRepository
func (a *ResultDatabaseAdapter) SaveResult(ctx context.Context, result *domain.QuizResult) error {
	if result == nil {
		return fmt.Errorf("cannot save nil result")
	}
	query := `INSERT INTO quiz_results (
		id, quiz_id, score, total_questions, time_spent_ms, answers_json, taken_at
	) VALUES (
		:id, :quiz_id, :score, :total_questions, :time_spent_ms, :answers_json, :taken_at
	)`
	if _, err := GetExecutor(ctx, a.db).NamedExecContext(ctx, query, toModelResult(result)); err != nil {
		return fmt.Errorf("failed to save quiz result: %w", err)
	}
	return nil
}

// ListResultsByQuiz implements domain.ResultRepository. Newest results come first.
func (a *ResultDatabaseAdapter) ListResultsByQuiz(ctx context.Context, quizID string) ([]*domain.QuizResult, error) {
	exec := GetExecutor(ctx, a.db)
	query := `SELECT
		id "id",
		quiz_id "quiz_id",
		score "score",
		total_questions "total_questions",
		time_spent_ms "time_spent_ms",
		answers_json "answers_json",
		taken_at "taken_at"
	FROM quiz_results
	WHERE quiz_id = ?
	ORDER BY taken_at DESC, id DESC`

	var rows []models.QuizResult
	if err := exec.SelectContext(ctx, &rows, exec.Rebind(query), quizID); err != nil {
		return nil, fmt.Errorf("failed to list results of quiz %s: %w", quizID, err)
	}
	results := make([]*domain.QuizResult, 0, len(rows))
	for i := range rows {
		results = append(results, toDomainResult(&rows[i]))
	}
	return results, nil
}
