package dto

import (
	"time"

	"quizforge/internal/domain"
)

// GenerateQuizRequest is the request body for quiz generation
// @Description Request body for generating a quiz
type GenerateQuizRequest struct {
	Topic         string `json:"topic" yaml:"topic"`
	CodeSnippet   string `json:"code_snippet,omitempty" yaml:"code_snippet"`
	Difficulty    string `json:"difficulty,omitempty" yaml:"difficulty"`
	QuestionCount int    `json:"question_count,omitempty" yaml:"question_count"`
}

// RecoveryWarning describes a question that was dropped or repaired
type RecoveryWarning struct {
	QuestionIndex int    `json:"question_index"`
	Reason        string `json:"reason"`
}

// QuizResponse is a quiz as returned by the API
// @Description Generated or stored quiz
type QuizResponse struct {
	ID          string            `json:"id"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Category    string            `json:"category"`
	Difficulty  string            `json:"difficulty"`
	Questions   []domain.Question `json:"questions"`
	Created     time.Time         `json:"created"`
	Stats       *QuizStats        `json:"stats,omitempty"`
	UpdatedAt   *time.Time        `json:"updated_at,omitempty"`
}

// QuizStats is the play summary of a stored quiz
type QuizStats struct {
	LastPlayed  *time.Time `json:"last_played,omitempty"`
	BestScore   *int       `json:"best_score,omitempty"`
	TimesPlayed int        `json:"times_played"`
}

// GeneratedQuizResponse wraps a newly stored quiz with its recovery warnings
type GeneratedQuizResponse struct {
	Quiz     QuizResponse      `json:"quiz"`
	Warnings []RecoveryWarning `json:"warnings"`
}

// QuizSummary is a list entry without the questions
type QuizSummary struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	Category      string    `json:"category"`
	Difficulty    string    `json:"difficulty"`
	QuestionCount int       `json:"question_count"`
	Created       time.Time `json:"created"`
	Stats         QuizStats `json:"stats"`
}

// AnswerSubmission is one answered question of a play-through
type AnswerSubmission struct {
	QuestionID     string `json:"question_id"`
	SelectedAnswer string `json:"selected_answer"`
}

// SubmitResultRequest is the request body for recording a play-through
// @Description Answers chosen during one play-through
type SubmitResultRequest struct {
	Answers          []AnswerSubmission `json:"answers"`
	TimeSpentSeconds int                `json:"time_spent_seconds"`
}

// AnswerResult is one scored answer
type AnswerResult struct {
	QuestionID     string `json:"question_id"`
	SelectedAnswer string `json:"selected_answer"`
	IsCorrect      bool   `json:"is_correct"`
}

// ResultResponse is a recorded play-through
type ResultResponse struct {
	ID               string         `json:"id"`
	QuizID           string         `json:"quiz_id"`
	Date             time.Time      `json:"date"`
	Score            int            `json:"score"`
	TotalQuestions   int            `json:"total_questions"`
	Percentage       int            `json:"percentage"`
	TimeSpentSeconds int            `json:"time_spent_seconds"`
	Answers          []AnswerResult `json:"answers"`
}

// BatchItemResult is the outcome of one topic in a batch generation
type BatchItemResult struct {
	Topic    string            `json:"topic"`
	QuizID   string            `json:"quiz_id,omitempty"`
	Warnings []RecoveryWarning `json:"warnings,omitempty"`
	Error    string            `json:"error,omitempty"`
}

// HealthResponse is the health check payload
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// NewQuizResponse converts a domain quiz.
func NewQuizResponse(q *domain.Quiz) QuizResponse {
	return QuizResponse{
		ID:          q.ID,
		Title:       q.Title,
		Description: q.Description,
		Category:    q.Category,
		Difficulty:  q.Difficulty.String(),
		Questions:   q.Questions,
		Created:     q.Created,
	}
}

// NewStoredQuizResponse converts a stored quiz including its stats.
func NewStoredQuizResponse(sq *domain.StoredQuiz) QuizResponse {
	resp := NewQuizResponse(&sq.Quiz)
	stats := newQuizStats(sq.Stats)
	updated := sq.UpdatedAt
	resp.Stats = &stats
	resp.UpdatedAt = &updated
	return resp
}

// NewQuizSummary converts a stored quiz to a list entry.
func NewQuizSummary(sq *domain.StoredQuiz) QuizSummary {
	return QuizSummary{
		ID:            sq.ID,
		Title:         sq.Title,
		Description:   sq.Description,
		Category:      sq.Category,
		Difficulty:    sq.Difficulty.String(),
		QuestionCount: len(sq.Questions),
		Created:       sq.Created,
		Stats:         newQuizStats(sq.Stats),
	}
}

func newQuizStats(s domain.QuizStats) QuizStats {
	return QuizStats{LastPlayed: s.LastPlayed, BestScore: s.BestScore, TimesPlayed: s.TimesPlayed}
}

// NewResultResponse converts a domain result.
func NewResultResponse(r *domain.QuizResult) ResultResponse {
	answers := make([]AnswerResult, 0, len(r.Answers))
	for _, a := range r.Answers {
		answers = append(answers, AnswerResult{QuestionID: a.QuestionID, SelectedAnswer: a.SelectedAnswer, IsCorrect: a.IsCorrect})
	}
	return ResultResponse{
		ID:               r.ID,
		QuizID:           r.QuizID,
		Date:             r.TakenAt,
		Score:            r.Score,
		TotalQuestions:   r.TotalQuestions,
		Percentage:       r.Percentage(),
		TimeSpentSeconds: int(r.TimeSpent.Seconds()),
		Answers:          answers,
	}
}
