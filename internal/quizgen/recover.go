package quizgen

import (
	"fmt"
	"strings"
	"time"

	"quizforge/internal/domain"
	"quizforge/internal/util"
)

// UnknownOptionID is assigned to options that arrive without an id.
const UnknownOptionID = "unknown"

// Fallbacks supplies quiz metadata the model (or an imported document)
// left out.
type Fallbacks struct {
	Topic      string
	Difficulty domain.Difficulty
}

func (f Fallbacks) difficulty() domain.Difficulty {
	if f.Difficulty.Valid() {
		return f.Difficulty
	}
	return domain.DefaultDifficulty
}

func (f Fallbacks) title() string {
	return "Quiz on " + f.Topic
}

func (f Fallbacks) description() string {
	return fmt.Sprintf("A %s level quiz about %s", f.difficulty(), f.Topic)
}

func (f Fallbacks) category() string {
	return f.Topic
}

// Warning records a recovered or dropped question. QuestionIndex is the
// zero-based position in the source document.
type Warning struct {
	QuestionIndex int    `json:"questionIndex"`
	Reason        string `json:"reason"`
}

func (w Warning) String() string {
	return fmt.Sprintf("question %d: %s", w.QuestionIndex+1, w.Reason)
}

const (
	reasonNotObject       = "question is not an object; dropped"
	reasonMissingFields   = "question is missing text, options, correctAnswer or explanation; dropped"
	reasonBadOption       = "option is neither a string nor an object with text; dropped"
	reasonWrappedOption   = "bare string option wrapped with id \"unknown\""
	reasonPlaceholders    = "options replaced with placeholders a-d (had %d)"
	reasonAnswerMismatch  = "correctAnswer %q matches no option id"
	reasonDuplicateOption = "duplicate option id %q"
)

var placeholderOptions = []domain.QuestionOption{
	{ID: "a", Text: "Option A"},
	{ID: "b", Text: "Option B"},
	{ID: "c", Text: "Option C"},
	{ID: "d", Text: "Option D"},
}

// BuildQuiz narrows an unvalidated JSON value into a Quiz. Malformed
// questions are dropped or repaired and reported as warnings; the call
// fails only when no usable question remains. now and newID default to
// time.Now and util.NewQuizID.
func BuildQuiz(root JSONValue, fb Fallbacks, now func() time.Time, newID func() string) (*domain.Quiz, []Warning, error) {
	if now == nil {
		now = time.Now
	}
	if newID == nil {
		newID = util.NewQuizID
	}

	if root.Kind != JSONObject {
		return nil, nil, domain.NewValidationError("invalid quiz data format").WithDetail("root", root.Kind.String())
	}
	rawQuestions, ok := root.Field("questions")
	if !ok {
		return nil, nil, domain.NewValidationError("invalid quiz data format").WithDetail("reason", "missing questions")
	}
	items, ok := rawQuestions.ArrayValue()
	if !ok {
		return nil, nil, domain.NewValidationError("invalid quiz data format").WithDetail("reason", "questions is not an array")
	}
	if len(items) == 0 {
		return nil, nil, domain.NewValidationError("invalid quiz data format").WithDetail("reason", "questions is empty")
	}

	var warnings []Warning
	questions := make([]domain.Question, 0, len(items))
	for i, item := range items {
		q, ws, ok := buildQuestion(i, item)
		warnings = append(warnings, ws...)
		if !ok {
			continue
		}
		q.ID = fmt.Sprintf("q%d", len(questions)+1)
		questions = append(questions, q)
	}
	if len(questions) == 0 {
		return nil, warnings, domain.NewValidationError("no valid questions in quiz data").WithDetail("dropped", len(items))
	}

	quiz := &domain.Quiz{
		ID:          newID(),
		Title:       stringOr(root, "title", fb.title()),
		Description: stringOr(root, "description", fb.description()),
		Category:    stringOr(root, "category", fb.category()),
		Difficulty:  fb.difficulty(),
		Questions:   questions,
		Created:     now(),
	}
	if s, ok := root.NonBlankString("difficulty"); ok {
		if d, ok := domain.ParseDifficulty(s); ok {
			quiz.Difficulty = d
		}
	}

	if err := quiz.Validate(); err != nil {
		return nil, warnings, err
	}
	return quiz, warnings, nil
}

func buildQuestion(index int, item JSONValue) (domain.Question, []Warning, bool) {
	var warnings []Warning
	warn := func(reason string) {
		warnings = append(warnings, Warning{QuestionIndex: index, Reason: reason})
	}

	if item.Kind != JSONObject {
		warn(reasonNotObject)
		return domain.Question{}, warnings, false
	}

	text, okText := item.NonBlankString("text")
	answer, okAnswer := item.NonBlankString("correctAnswer")
	explanation, okExplanation := item.NonBlankString("explanation")
	rawOptions, _ := item.Field("options")
	optionItems, okOptions := rawOptions.ArrayValue()
	if !okText || !okAnswer || !okExplanation || !okOptions {
		warn(reasonMissingFields)
		return domain.Question{}, warnings, false
	}

	options := make([]domain.QuestionOption, 0, len(optionItems))
	wrapped := false
	for _, raw := range optionItems {
		switch raw.Kind {
		case JSONString:
			options = append(options, domain.QuestionOption{ID: UnknownOptionID, Text: raw.String})
			wrapped = true
		case JSONObject:
			optText, ok := raw.Field("text")
			if !ok || optText.Kind != JSONString {
				warn(reasonBadOption)
				return domain.Question{}, warnings, false
			}
			id, ok := raw.NonBlankString("id")
			if !ok {
				id = UnknownOptionID
				wrapped = true
			}
			options = append(options, domain.QuestionOption{ID: strings.TrimSpace(id), Text: optText.String})
		default:
			warn(reasonBadOption)
			return domain.Question{}, warnings, false
		}
	}
	if wrapped {
		warn(reasonWrappedOption)
	}

	if len(options) != domain.OptionsPerQuestion {
		warn(fmt.Sprintf(reasonPlaceholders, len(options)))
		options = append([]domain.QuestionOption(nil), placeholderOptions...)
	} else if id, dup := duplicateOptionID(options); dup && id != UnknownOptionID {
		warn(fmt.Sprintf(reasonDuplicateOption, id))
	}

	q := domain.Question{
		Text:          text,
		Options:       options,
		CorrectAnswer: strings.TrimSpace(answer),
		Explanation:   explanation,
	}
	if !q.HasOption(q.CorrectAnswer) {
		warn(fmt.Sprintf(reasonAnswerMismatch, q.CorrectAnswer))
	}
	return q, warnings, true
}

func duplicateOptionID(options []domain.QuestionOption) (string, bool) {
	seen := make(map[string]struct{}, len(options))
	for _, o := range options {
		if _, ok := seen[o.ID]; ok {
			return o.ID, true
		}
		seen[o.ID] = struct{}{}
	}
	return "", false
}

func stringOr(v JSONValue, field, fallback string) string {
	if s, ok := v.NonBlankString(field); ok {
		return s
	}
	return fallback
}
