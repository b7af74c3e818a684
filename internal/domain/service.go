package domain

import (
	"context"
	"time"
)

// QuizRepository defines the interface for quiz persistence
type QuizRepository interface {
	// SaveQuiz persists a new quiz with empty stats
	SaveQuiz(ctx context.Context, quiz *Quiz) error

	// UpdateQuiz replaces the content of an existing quiz, keeping its stats
	UpdateQuiz(ctx context.Context, quiz *Quiz) error

	// DeleteQuiz removes a quiz and its results
	DeleteQuiz(ctx context.Context, id string) error

	// GetQuizByID retrieves a stored quiz. It returns a NOT_FOUND DomainError
	// when the quiz does not exist.
	GetQuizByID(ctx context.Context, id string) (*StoredQuiz, error)

	// ListQuizzes returns stored quizzes newest first. A non-empty search
	// matches title or category case-insensitively.
	ListQuizzes(ctx context.Context, search string, limit, offset int) ([]*StoredQuiz, error)

	// UpdateStats overwrites the play statistics of a quiz
	UpdateStats(ctx context.Context, quizID string, stats QuizStats, updatedAt time.Time) error
}

// ResultRepository defines the interface for play result persistence
type ResultRepository interface {
	SaveResult(ctx context.Context, result *QuizResult) error
	ListResultsByQuiz(ctx context.Context, quizID string) ([]*QuizResult, error)
}

// TransactionManager runs fn inside a single database transaction. The ctx
// passed to fn carries the transaction so repositories join it.
type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
