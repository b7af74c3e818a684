package handler

import (
	"fmt"
	"net/http"
	"strings"

	"quizforge/internal/domain"
	"quizforge/internal/dto"
	"quizforge/internal/middleware"
	"quizforge/internal/service"
	"quizforge/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// QuizHandler handles quiz-related HTTP requests
type QuizHandler struct {
	service   service.QuizService
	validator *validation.Validator
}

// NewQuizHandler creates a new QuizHandler instance
func NewQuizHandler(service service.QuizService, validator *validation.Validator) *QuizHandler {
	return &QuizHandler{
		service:   service,
		validator: validator,
	}
}

// Register mounts the quiz routes on router. listParams validates the
// query of the list endpoint.
func (h *QuizHandler) Register(router fiber.Router, listParams fiber.Handler) {
	quizzes := router.Group("/quizzes")
	quizzes.Post("/generate", h.GenerateQuiz)
	quizzes.Post("/import", h.ImportQuiz)
	quizzes.Get("/", listParams, h.ListQuizzes)
	quizzes.Get("/:id", h.GetQuiz)
	quizzes.Put("/:id", h.UpdateQuiz)
	quizzes.Delete("/:id", h.DeleteQuiz)
	quizzes.Get("/:id/export", h.ExportQuiz)
	quizzes.Post("/:id/results", h.SubmitResult)
	quizzes.Get("/:id/results", h.ListResults)
}

// GenerateQuiz godoc
// @Summary Generate a quiz
// @Description Generates a quiz about a topic or code snippet with the configured model and stores it
// @Tags quizzes
// @Accept json
// @Produce json
// @Param request body dto.GenerateQuizRequest true "Generation request"
// @Success 201 {object} dto.GeneratedQuizResponse
// @Failure 400 {object} middleware.ErrorResponse
// @Failure 502 {object} middleware.ErrorResponse
// @Failure 503 {object} middleware.ErrorResponse
// @Router /quizzes/generate [post]
func (h *QuizHandler) GenerateQuiz(c *fiber.Ctx) error {
	var req dto.GenerateQuizRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewInputError("invalid request body")
	}
	if err := h.validator.ValidateGenerateRequest(&req); err != nil {
		return err
	}

	resp, err := h.service.GenerateQuiz(c.UserContext(), &req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// ImportQuiz godoc
// @Summary Import a quiz document
// @Description Imports a quiz JSON document, repairing it the same way as model output
// @Tags quizzes
// @Accept json
// @Produce json
// @Success 201 {object} dto.GeneratedQuizResponse
// @Failure 400 {object} middleware.ErrorResponse
// @Failure 422 {object} middleware.ErrorResponse
// @Router /quizzes/import [post]
func (h *QuizHandler) ImportQuiz(c *fiber.Ctx) error {
	resp, err := h.service.ImportQuiz(c.UserContext(), c.Body())
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// ListQuizzes godoc
// @Summary List quizzes
// @Description Lists stored quizzes, newest first, optionally filtered by title or category
// @Tags quizzes
// @Produce json
// @Param search query string false "Search over title and category"
// @Param limit query int false "Page size (0 for all)"
// @Param offset query int false "Page offset"
// @Success 200 {array} dto.QuizSummary
// @Failure 400 {object} middleware.ErrorResponse
// @Router /quizzes [get]
func (h *QuizHandler) ListQuizzes(c *fiber.Ctx) error {
	search, _ := c.Locals(middleware.SearchKey).(string)
	limit, _ := c.Locals(middleware.LimitKey).(int)
	offset, _ := c.Locals(middleware.OffsetKey).(int)

	summaries, err := h.service.ListQuizzes(c.UserContext(), strings.TrimSpace(search), limit, offset)
	if err != nil {
		return err
	}
	return c.JSON(summaries)
}

// GetQuiz godoc
// @Summary Get a quiz
// @Tags quizzes
// @Produce json
// @Param id path string true "Quiz ID"
// @Success 200 {object} dto.QuizResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /quizzes/{id} [get]
func (h *QuizHandler) GetQuiz(c *fiber.Ctx) error {
	resp, err := h.service.GetQuiz(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// UpdateQuiz godoc
// @Summary Replace a quiz
// @Description Replaces a stored quiz with a quiz document; id, creation time and stats are kept
// @Tags quizzes
// @Accept json
// @Produce json
// @Param id path string true "Quiz ID"
// @Success 200 {object} dto.GeneratedQuizResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Failure 422 {object} middleware.ErrorResponse
// @Router /quizzes/{id} [put]
func (h *QuizHandler) UpdateQuiz(c *fiber.Ctx) error {
	resp, err := h.service.UpdateQuiz(c.UserContext(), c.Params("id"), c.Body())
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// DeleteQuiz godoc
// @Summary Delete a quiz
// @Tags quizzes
// @Param id path string true "Quiz ID"
// @Success 204
// @Failure 404 {object} middleware.ErrorResponse
// @Router /quizzes/{id} [delete]
func (h *QuizHandler) DeleteQuiz(c *fiber.Ctx) error {
	if err := h.service.DeleteQuiz(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ExportQuiz godoc
// @Summary Export a quiz
// @Description Downloads the quiz as a JSON document that can be imported again
// @Tags quizzes
// @Produce json
// @Param id path string true "Quiz ID"
// @Success 200 {file} file
// @Failure 404 {object} middleware.ErrorResponse
// @Router /quizzes/{id}/export [get]
func (h *QuizHandler) ExportQuiz(c *fiber.Ctx) error {
	id := c.Params("id")
	data, err := h.service.ExportQuiz(c.UserContext(), id)
	if err != nil {
		return err
	}
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSONCharsetUTF8)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="quiz-%s.json"`, id))
	return c.Status(http.StatusOK).Send(data)
}

// SubmitResult godoc
// @Summary Submit a play result
// @Description Scores the answers against the stored quiz and updates its stats
// @Tags results
// @Accept json
// @Produce json
// @Param id path string true "Quiz ID"
// @Param request body dto.SubmitResultRequest true "Answers"
// @Success 201 {object} dto.ResultResponse
// @Failure 400 {object} middleware.ErrorResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /quizzes/{id}/results [post]
func (h *QuizHandler) SubmitResult(c *fiber.Ctx) error {
	var req dto.SubmitResultRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewInputError("invalid request body")
	}
	if err := h.validator.ValidateSubmitResultRequest(&req); err != nil {
		return err
	}

	resp, err := h.service.SubmitResult(c.UserContext(), c.Params("id"), &req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// ListResults godoc
// @Summary List play results
// @Tags results
// @Produce json
// @Param id path string true "Quiz ID"
// @Success 200 {array} dto.ResultResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /quizzes/{id}/results [get]
func (h *QuizHandler) ListResults(c *fiber.Ctx) error {
	results, err := h.service.ListResults(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(results)
}
