package domain

import (
	"fmt"
	"strings"
	"time"
)

// Difficulty is the closed set of quiz difficulty levels.
type Difficulty string

const (
	DifficultyBeginner     Difficulty = "beginner"
	DifficultyIntermediate Difficulty = "intermediate"
	DifficultyAdvanced     Difficulty = "advanced"
)

// DefaultDifficulty is used when the caller does not pick one.
const DefaultDifficulty = DifficultyIntermediate

// ParseDifficulty converts a free-form string into a Difficulty.
// Matching is case-insensitive and ignores surrounding whitespace.
func ParseDifficulty(s string) (Difficulty, bool) {
	switch Difficulty(strings.ToLower(strings.TrimSpace(s))) {
	case DifficultyBeginner:
		return DifficultyBeginner, true
	case DifficultyIntermediate:
		return DifficultyIntermediate, true
	case DifficultyAdvanced:
		return DifficultyAdvanced, true
	default:
		return "", false
	}
}

// Valid reports whether d is one of the known levels.
func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyBeginner, DifficultyIntermediate, DifficultyAdvanced:
		return true
	}
	return false
}

func (d Difficulty) String() string {
	return string(d)
}

// OptionsPerQuestion is the fixed number of choices every question carries.
const OptionsPerQuestion = 4

// QuestionOption is one labeled choice of a question.
type QuestionOption struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// Question is a single multiple-choice question.
type Question struct {
	ID            string           `json:"id"`
	Text          string           `json:"text"`
	Options       []QuestionOption `json:"options"`
	CorrectAnswer string           `json:"correctAnswer"`
	Explanation   string           `json:"explanation"`
}

// HasOption reports whether id names one of the question's options.
func (q *Question) HasOption(id string) bool {
	for _, opt := range q.Options {
		if opt.ID == id {
			return true
		}
	}
	return false
}

// Quiz is a fully validated quiz. It is built once by the generation
// pipeline (or the import path) and owned by the caller afterwards.
type Quiz struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Category    string     `json:"category"`
	Difficulty  Difficulty `json:"difficulty"`
	Questions   []Question `json:"questions"`
	Created     time.Time  `json:"created"`
}

// Validate checks the structural invariants of a quiz.
func (q *Quiz) Validate() error {
	if q.ID == "" {
		return NewValidationError("quiz ID is required")
	}
	if strings.TrimSpace(q.Title) == "" {
		return NewValidationError("title is required")
	}
	if !q.Difficulty.Valid() {
		return NewValidationError(fmt.Sprintf("unknown difficulty %q", q.Difficulty))
	}
	if len(q.Questions) == 0 {
		return NewValidationError("at least one question is required")
	}
	for i := range q.Questions {
		question := &q.Questions[i]
		if question.Text == "" || question.CorrectAnswer == "" || question.Explanation == "" {
			return NewValidationError(fmt.Sprintf("question %d is missing required fields", i+1))
		}
		if len(question.Options) != OptionsPerQuestion {
			return NewValidationError(fmt.Sprintf("question %d must have exactly %d options", i+1, OptionsPerQuestion))
		}
	}
	return nil
}

// QuestionByID returns the question with the given id, or nil.
func (q *Quiz) QuestionByID(id string) *Question {
	for i := range q.Questions {
		if q.Questions[i].ID == id {
			return &q.Questions[i]
		}
	}
	return nil
}

// QuizStats tracks how a stored quiz has been played.
type QuizStats struct {
	LastPlayed  *time.Time `json:"lastPlayed,omitempty"`
	BestScore   *int       `json:"bestScore,omitempty"` // percentage 0-100
	TimesPlayed int        `json:"timesPlayed"`
}

// StoredQuiz is a persisted quiz together with its play statistics.
type StoredQuiz struct {
	Quiz
	Stats     QuizStats `json:"stats"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// AnswerRecord is one answered question inside a result.
type AnswerRecord struct {
	QuestionID     string `json:"questionId"`
	SelectedAnswer string `json:"selectedAnswer"`
	IsCorrect      bool   `json:"isCorrect"`
}

// QuizResult records a single play-through of a quiz.
type QuizResult struct {
	ID             string         `json:"id"`
	QuizID         string         `json:"quizId"`
	TakenAt        time.Time      `json:"date"`
	Score          int            `json:"score"`
	TotalQuestions int            `json:"totalQuestions"`
	TimeSpent      time.Duration  `json:"timeSpent"`
	Answers        []AnswerRecord `json:"answers"`
}

// Percentage returns the score as a rounded percentage of the question count.
func (r *QuizResult) Percentage() int {
	if r.TotalQuestions == 0 {
		return 0
	}
	return int(float64(r.Score)/float64(r.TotalQuestions)*100 + 0.5)
}

// ApplyResult folds a finished play-through into the stats.
func (s QuizStats) ApplyResult(r *QuizResult) QuizStats {
	pct := r.Percentage()
	if s.BestScore != nil && *s.BestScore > pct {
		pct = *s.BestScore
	}
	taken := r.TakenAt
	return QuizStats{
		LastPlayed:  &taken,
		BestScore:   &pct,
		TimesPlayed: s.TimesPlayed + 1,
	}
}
