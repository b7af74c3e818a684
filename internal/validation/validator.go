package validation

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"quizforge/internal/domain"
	"quizforge/internal/dto"
)

const (
	MaxTopicLength       = 200
	MaxCodeSnippetLength = 20000
	MaxAnswers           = 200
)

// Validator provides request validation functionality
type Validator struct {
	maxQuestionCount int
}

// NewValidator creates a new validator instance. maxQuestionCount bounds
// question_count on generation requests.
func NewValidator(maxQuestionCount int) *Validator {
	return &Validator{maxQuestionCount: maxQuestionCount}
}

// ValidateGenerateRequest validates a quiz generation request
func (v *Validator) ValidateGenerateRequest(req *dto.GenerateQuizRequest) error {
	var errs domain.FieldErrors

	topic := strings.TrimSpace(req.Topic)
	if topic == "" && strings.TrimSpace(req.CodeSnippet) == "" {
		errs.Add("topic", domain.CodeMissingField, "either topic or code_snippet is required")
	}
	if n := utf8.RuneCountInString(topic); n > MaxTopicLength {
		errs.Add("topic", domain.CodeOutOfRange, fmt.Sprintf("must be at most %d characters (got %d)", MaxTopicLength, n))
	}
	if n := utf8.RuneCountInString(req.CodeSnippet); n > MaxCodeSnippetLength {
		errs.Add("code_snippet", domain.CodeOutOfRange, fmt.Sprintf("must be at most %d characters (got %d)", MaxCodeSnippetLength, n))
	}
	if req.Difficulty != "" {
		if _, ok := domain.ParseDifficulty(req.Difficulty); !ok {
			errs.Add("difficulty", domain.CodeInvalidValue, "must be one of beginner, intermediate, advanced")
		}
	}
	if req.QuestionCount < 0 || req.QuestionCount > v.maxQuestionCount {
		errs.Add("question_count", domain.CodeOutOfRange, fmt.Sprintf("must be between 1 and %d", v.maxQuestionCount))
	}

	return errs.AsError()
}

// ValidateSubmitResultRequest validates a play-through submission
func (v *Validator) ValidateSubmitResultRequest(req *dto.SubmitResultRequest) error {
	var errs domain.FieldErrors

	if len(req.Answers) == 0 {
		errs.Add("answers", domain.CodeMissingField, "at least one answer is required")
	} else if len(req.Answers) > MaxAnswers {
		errs.Add("answers", domain.CodeOutOfRange, fmt.Sprintf("must contain at most %d answers", MaxAnswers))
	}
	for i, a := range req.Answers {
		if strings.TrimSpace(a.QuestionID) == "" {
			errs.Add(fmt.Sprintf("answers[%d].question_id", i), domain.CodeMissingField, "question_id is required")
		}
		if strings.TrimSpace(a.SelectedAnswer) == "" {
			errs.Add(fmt.Sprintf("answers[%d].selected_answer", i), domain.CodeMissingField, "selected_answer is required")
		}
	}
	if req.TimeSpentSeconds < 0 {
		errs.Add("time_spent_seconds", domain.CodeOutOfRange, "must not be negative")
	}

	return errs.AsError()
}

// ValidatePagination validates list paging parameters
func (v *Validator) ValidatePagination(limit, offset int) error {
	var errs domain.FieldErrors
	if limit < 0 || limit > 100 {
		errs.Add("limit", domain.CodeOutOfRange, "must be between 0 and 100")
	}
	if offset < 0 {
		errs.Add("offset", domain.CodeOutOfRange, "must not be negative")
	}
	return errs.AsError()
}
