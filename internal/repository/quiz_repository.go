package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"quizforge/internal/domain"
	"quizforge/internal/repository/models"
	"quizforge/internal/util"

	"github.com/jmoiron/sqlx"
)

const quizColumns = `
	id "id",
	title "title",
	description "description",
	category "category",
	difficulty "difficulty",
	questions_json "questions_json",
	created_at "created_at",
	updated_at "updated_at",
	last_played_at "last_played_at",
	best_score "best_score",
	times_played "times_played"`

// QuizDatabaseAdapter implements domain.QuizRepository using sqlx.
type QuizDatabaseAdapter struct {
	db         DBTX
	driverName string
	now        func() time.Time
}

// NewQuizDatabaseAdapter creates a new instance of QuizDatabaseAdapter.
func NewQuizDatabaseAdapter(db *sqlx.DB) *QuizDatabaseAdapter {
	return &QuizDatabaseAdapter{db: db, driverName: db.DriverName(), now: time.Now}
}

var _ domain.QuizRepository = (*QuizDatabaseAdapter)(nil)

func toModelQuiz(quiz *domain.Quiz) *models.Quiz {
	if quiz == nil {
		return nil
	}
	return &models.Quiz{
		ID:          quiz.ID,
		Title:       quiz.Title,
		Description: sql.NullString{String: quiz.Description, Valid: quiz.Description != ""},
		Category:    sql.NullString{String: quiz.Category, Valid: quiz.Category != ""},
		Difficulty:  quiz.Difficulty.String(),
		Questions:   models.JSONList[domain.Question](quiz.Questions),
		CreatedAt:   util.TimeToMillis(quiz.Created),
	}
}

func toDomainStoredQuiz(m *models.Quiz) (*domain.StoredQuiz, error) {
	if m == nil {
		return nil, nil
	}
	difficulty, ok := domain.ParseDifficulty(m.Difficulty)
	if !ok {
		return nil, fmt.Errorf("quiz %s has unknown difficulty %q", m.ID, m.Difficulty)
	}
	return &domain.StoredQuiz{
		Quiz: domain.Quiz{
			ID:          m.ID,
			Title:       m.Title,
			Description: m.Description.String,
			Category:    m.Category.String,
			Difficulty:  difficulty,
			Questions:   []domain.Question(m.Questions),
			Created:     util.MillisToTime(m.CreatedAt),
		},
		Stats: domain.QuizStats{
			LastPlayed:  util.NullMillisToTimePtr(m.LastPlayedAt),
			BestScore:   util.NullInt64ToIntPtr(m.BestScore),
			TimesPlayed: m.TimesPlayed,
		},
		UpdatedAt: util.MillisToTime(m.UpdatedAt),
	}, nil
}

// SaveQuiz implements domain.QuizRepository
func (a *QuizDatabaseAdapter) SaveQuiz(ctx context.Context, quiz *domain.Quiz) error {
	modelQuiz := toModelQuiz(quiz)
	if modelQuiz == nil {
		return fmt.Errorf("cannot save nil quiz")
	}
	if modelQuiz.ID == "" {
		return fmt.Errorf("cannot save quiz with empty ID")
	}
	modelQuiz.UpdatedAt = util.TimeToMillis(a.now())

	query := `INSERT INTO quizzes (
		id, title, description, category, difficulty,
		questions_json, created_at, updated_at, times_played
	) VALUES (
		:id, :title, :description, :category, :difficulty,
		:questions_json, :created_at, :updated_at, 0
	)`

	if _, err := GetExecutor(ctx, a.db).NamedExecContext(ctx, query, modelQuiz); err != nil {
		return fmt.Errorf("failed to save quiz: %w", err)
	}
	return nil
}

// UpdateQuiz implements domain.QuizRepository. Stats are left untouched.
func (a *QuizDatabaseAdapter) UpdateQuiz(ctx context.Context, quiz *domain.Quiz) error {
	modelQuiz := toModelQuiz(quiz)
	if modelQuiz == nil {
		return fmt.Errorf("cannot update nil quiz")
	}
	if modelQuiz.ID == "" {
		return fmt.Errorf("cannot update quiz with empty ID")
	}
	modelQuiz.UpdatedAt = util.TimeToMillis(a.now())

	query := `UPDATE quizzes SET
		title = :title,
		description = :description,
		category = :category,
		difficulty = :difficulty,
		questions_json = :questions_json,
		updated_at = :updated_at
	WHERE id = :id`

	result, err := GetExecutor(ctx, a.db).NamedExecContext(ctx, query, modelQuiz)
	if err != nil {
		return fmt.Errorf("failed to update quiz: %w", err)
	}
	return requireAffected(result, quiz.ID)
}

// DeleteQuiz implements domain.QuizRepository. The quiz's results go with it.
func (a *QuizDatabaseAdapter) DeleteQuiz(ctx context.Context, id string) error {
	exec := GetExecutor(ctx, a.db)
	if _, err := exec.ExecContext(ctx, exec.Rebind(`DELETE FROM quiz_results WHERE quiz_id = ?`), id); err != nil {
		return fmt.Errorf("failed to delete results of quiz %s: %w", id, err)
	}
	result, err := exec.ExecContext(ctx, exec.Rebind(`DELETE FROM quizzes WHERE id = ?`), id)
	if err != nil {
		return fmt.Errorf("failed to delete quiz %s: %w", id, err)
	}
	return requireAffected(result, id)
}

// GetQuizByID implements domain.QuizRepository
func (a *QuizDatabaseAdapter) GetQuizByID(ctx context.Context, id string) (*domain.StoredQuiz, error) {
	exec := GetExecutor(ctx, a.db)
	var modelQuiz models.Quiz
	query := `SELECT` + quizColumns + ` FROM quizzes WHERE id = ?`

	if err := exec.GetContext(ctx, &modelQuiz, exec.Rebind(query), id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NewQuizNotFoundError(id)
		}
		return nil, fmt.Errorf("failed to get quiz by ID %s: %w", id, err)
	}
	return toDomainStoredQuiz(&modelQuiz)
}

// ListQuizzes implements domain.QuizRepository. Newest quizzes come first;
// search matches title or category case-insensitively.
func (a *QuizDatabaseAdapter) ListQuizzes(ctx context.Context, search string, limit, offset int) ([]*domain.StoredQuiz, error) {
	exec := GetExecutor(ctx, a.db)
	query := `SELECT` + quizColumns + ` FROM quizzes`
	var args []interface{}
	if search = strings.TrimSpace(search); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		query += ` WHERE LOWER(title) LIKE ? OR LOWER(category) LIKE ?`
		args = append(args, pattern, pattern)
	}
	query += ` ORDER BY created_at DESC, id DESC`
	query, args = paginate(a.driverName, query, limit, offset, args)

	var rows []models.Quiz
	if err := exec.SelectContext(ctx, &rows, exec.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("failed to list quizzes: %w", err)
	}

	quizzes := make([]*domain.StoredQuiz, 0, len(rows))
	for i := range rows {
		q, err := toDomainStoredQuiz(&rows[i])
		if err != nil {
			return nil, err
		}
		quizzes = append(quizzes, q)
	}
	return quizzes, nil
}

// UpdateStats implements domain.QuizRepository
func (a *QuizDatabaseAdapter) UpdateStats(ctx context.Context, quizID string, stats domain.QuizStats, updatedAt time.Time) error {
	exec := GetExecutor(ctx, a.db)
	query := `UPDATE quizzes SET
		last_played_at = ?,
		best_score = ?,
		times_played = ?,
		updated_at = ?
	WHERE id = ?`

	result, err := exec.ExecContext(ctx, exec.Rebind(query),
		util.TimePtrToNullMillis(stats.LastPlayed),
		util.IntPtrToNullInt64(stats.BestScore),
		stats.TimesPlayed,
		util.TimeToMillis(updatedAt),
		quizID,
	)
	if err != nil {
		return fmt.Errorf("failed to update stats of quiz %s: %w", quizID, err)
	}
	return requireAffected(result, quizID)
}

func requireAffected(result sql.Result, id string) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return domain.NewQuizNotFoundError(id)
	}
	return nil
}
