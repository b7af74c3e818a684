package handler_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"quizforge/internal/config"
	"quizforge/internal/database"
	"quizforge/internal/dto"
	"quizforge/internal/handler"
	"quizforge/internal/middleware"
	"quizforge/internal/quizgen"
	"quizforge/internal/repository"
	"quizforge/internal/service"
	"quizforge/internal/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type scriptedModel struct {
	response string
}

func (m *scriptedModel) GenerateText(ctx context.Context, prompt string) (string, error) {
	return m.response, nil
}

func messyQuiz(n int) string {
	qs := make([]string, n)
	for i := range qs {
		qs[i] = fmt.Sprintf(`{"text": "Question %d?", "options": [{"id":"a","text":"A"},{"id":"b","text":"B"},{"id":"c","text":"C"},{"id":"d","text":"D"}], "correctAnswer": "c", "explanation": "C is right.",}`, i+1)
	}
	return "Here you go!\n```json\n{\"title\": “Channels”, \"category\": \"Go\", \"difficulty\": \"advanced\", \"questions\": [" +
		strings.Join(qs, ",") + ",],}\n```"
}

func setupStack(t *testing.T, model *scriptedModel) *fiber.App {
	t.Helper()
	ctx := context.Background()
	db, err := database.Open(ctx, config.DBConfig{Driver: database.DriverSQLite, DSN: "file::memory:?_pragma=foreign_keys(1)"})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, database.RunMigrations(ctx, db, database.Up))

	gen := quizgen.NewGenerator(model, zap.NewNop())
	svc := service.NewQuizService(gen,
		repository.NewQuizDatabaseAdapter(db),
		repository.NewResultDatabaseAdapter(db),
		repository.NewTransactionManagerAdapter(db),
		config.GenerationConfig{DefaultDifficulty: "intermediate", DefaultQuestionCount: 10, MaxQuestionCount: 30, BatchConcurrency: 1},
	)
	validator := validation.NewValidator(30)

	app := fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler()})
	api := app.Group("/api")
	api.Get("/health", handler.NewHealthHandler(map[string]handler.HealthCheck{"database": db.PingContext}).Health)
	handler.NewQuizHandler(svc, validator).Register(api, middleware.NewValidationMiddleware(validator).ValidateListParams())
	return app
}

func decodeJSON[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func TestAPI_QuizLifecycle(t *testing.T) {
	model := &scriptedModel{response: messyQuiz(3)}
	app := setupStack(t, model)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/health", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// Generate from a messy model response.
	resp, err = app.Test(jsonRequest(http.MethodPost, "/api/quizzes/generate", dto.GenerateQuizRequest{Topic: "Go channels", QuestionCount: 3}), -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	generated := decodeJSON[dto.GeneratedQuizResponse](t, resp)
	quizID := generated.Quiz.ID
	assert.Equal(t, "Channels", generated.Quiz.Title)
	assert.Equal(t, "advanced", generated.Quiz.Difficulty)
	require.Len(t, generated.Quiz.Questions, 3)

	// Play it: two right, one wrong.
	submit := dto.SubmitResultRequest{Answers: []dto.AnswerSubmission{
		{QuestionID: "q1", SelectedAnswer: "c"},
		{QuestionID: "q2", SelectedAnswer: "c"},
		{QuestionID: "q3", SelectedAnswer: "a"},
	}, TimeSpentSeconds: 75}
	resp, err = app.Test(jsonRequest(http.MethodPost, "/api/quizzes/"+quizID+"/results", submit), -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	result := decodeJSON[dto.ResultResponse](t, resp)
	assert.Equal(t, 2, result.Score)
	assert.Equal(t, 67, result.Percentage)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/api/quizzes/"+quizID, nil), -1)
	require.NoError(t, err)
	stored := decodeJSON[dto.QuizResponse](t, resp)
	require.NotNil(t, stored.Stats)
	assert.Equal(t, 1, stored.Stats.TimesPlayed)
	assert.Equal(t, 67, *stored.Stats.BestScore)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/api/quizzes/"+quizID+"/results", nil), -1)
	require.NoError(t, err)
	assert.Len(t, decodeJSON[[]dto.ResultResponse](t, resp), 1)

	// Export, then import the exported document as a new quiz.
	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/api/quizzes/"+quizID+"/export", nil), -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	exported, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, quizgen.ValidateDocument(exported))

	resp, err = app.Test(jsonRequest(http.MethodPost, "/api/quizzes/import", string(exported)), -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	imported := decodeJSON[dto.GeneratedQuizResponse](t, resp)
	assert.NotEqual(t, quizID, imported.Quiz.ID)
	assert.Equal(t, generated.Quiz.Questions, imported.Quiz.Questions)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/api/quizzes?search=chan", nil), -1)
	require.NoError(t, err)
	assert.Len(t, decodeJSON[[]dto.QuizSummary](t, resp), 2)

	// Delete removes the quiz and its results.
	resp, err = app.Test(httptest.NewRequest(http.MethodDelete, "/api/quizzes/"+quizID, nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/api/quizzes/"+quizID+"/results", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestAPI_UnusableModelOutput(t *testing.T) {
	app := setupStack(t, &scriptedModel{response: "Sorry, I cannot help with that."})

	resp, err := app.Test(jsonRequest(http.MethodPost, "/api/quizzes/generate", dto.GenerateQuizRequest{Topic: "Go"}), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
	body := decodeJSON[middleware.ErrorResponse](t, resp)
	assert.Equal(t, "EXTRACTION_FAILED", body.Code)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/api/quizzes", nil), -1)
	require.NoError(t, err)
	assert.Empty(t, decodeJSON[[]dto.QuizSummary](t, resp), "nothing is stored on failure")
}

func TestAPI_UpdateKeepsIdentity(t *testing.T) {
	app := setupStack(t, &scriptedModel{response: messyQuiz(2)})

	resp, err := app.Test(jsonRequest(http.MethodPost, "/api/quizzes/generate", dto.GenerateQuizRequest{Topic: "Go"}), -1)
	require.NoError(t, err)
	created := decodeJSON[dto.GeneratedQuizResponse](t, resp)

	doc := strings.Replace(messyQuiz(1), "“Channels”", "“Renamed”", 1)
	resp, err = app.Test(jsonRequest(http.MethodPut, "/api/quizzes/"+created.Quiz.ID, doc), -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	updated := decodeJSON[dto.GeneratedQuizResponse](t, resp)
	assert.Equal(t, created.Quiz.ID, updated.Quiz.ID)
	assert.WithinDuration(t, created.Quiz.Created, updated.Quiz.Created, time.Millisecond)
	assert.Equal(t, "Renamed", updated.Quiz.Title)
	assert.Len(t, updated.Quiz.Questions, 1)

	resp, err = app.Test(jsonRequest(http.MethodPut, "/api/quizzes/"+created.Quiz.ID, `{"title":"empty","questions":[]}`), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}
