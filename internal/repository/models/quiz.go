package models

import (
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"

	"quizforge/internal/domain"
)

// JSONList stores a slice as a JSON array in a single text column.
type JSONList[T any] []T

// Value implements the driver.Valuer interface
func (l JSONList[T]) Value() (driver.Value, error) {
	if l == nil {
		// nil slices are stored as an empty JSON array, never NULL
		return "[]", nil
	}
	jsonData, err := json.Marshal([]T(l))
	if err != nil {
		return nil, err
	}
	return string(jsonData), nil
}

// Scan implements the sql.Scanner interface
func (l *JSONList[T]) Scan(value interface{}) error {
	if value == nil {
		*l = JSONList[T]{}
		return nil
	}

	var bytesToParse []byte
	switch v := value.(type) {
	case []byte:
		bytesToParse = v
	case string:
		bytesToParse = []byte(v)
	default:
		return errors.New("JSONList Scan: unsupported type " + fmt.Sprintf("%T", value))
	}

	if len(bytesToParse) == 0 || string(bytesToParse) == "null" {
		*l = JSONList[T]{}
		return nil
	}
	return json.Unmarshal(bytesToParse, (*[]T)(l))
}

// Quiz is the row shape of the quizzes table. Timestamps are Unix millis.
type Quiz struct {
	ID           string                    `db:"id"`
	Title        string                    `db:"title"`
	Description  sql.NullString            `db:"description"`
	Category     sql.NullString            `db:"category"`
	Difficulty   string                    `db:"difficulty"`
	Questions    JSONList[domain.Question] `db:"questions_json"`
	CreatedAt    int64                     `db:"created_at"`
	UpdatedAt    int64                     `db:"updated_at"`
	LastPlayedAt sql.NullInt64             `db:"last_played_at"`
	BestScore    sql.NullInt64             `db:"best_score"`
	TimesPlayed  int                       `db:"times_played"`
}

// QuizResult is the row shape of the quiz_results table.
type QuizResult struct {
	ID             string                        `db:"id"`
	QuizID         string                        `db:"quiz_id"`
	Score          int                           `db:"score"`
	TotalQuestions int                           `db:"total_questions"`
	TimeSpentMs    int64                         `db:"time_spent_ms"`
	Answers        JSONList[domain.AnswerRecord] `db:"answers_json"`
	TakenAt        int64                         `db:"taken_at"`
}
