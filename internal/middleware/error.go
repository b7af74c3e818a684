package middleware

import (
	"errors"
	"net/http"

	"quizforge/internal/domain"
	"quizforge/internal/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ErrorResponse is the body of every non-2xx API response.
type ErrorResponse struct {
	Code      string         `json:"code"`
	Message   string         `json:"message"`
	Status    int            `json:"status"`
	Details   map[string]any `json:"details,omitempty"`
	RequestID string         `json:"request_id,omitempty"`
}

// ErrorHandler renders handler errors as ErrorResponse. Messages of errors
// that are not DomainErrors, FieldErrors or fiber errors are never exposed.
func ErrorHandler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		resp, level := classify(err)
		resp.RequestID = requestID(c)

		fields := []zap.Field{
			zap.String("code", resp.Code),
			zap.Int("status", resp.Status),
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.String("request_id", resp.RequestID),
			zap.Error(err),
		}
		if ce := logger.Get().Check(level, "Request failed"); ce != nil {
			ce.Write(fields...)
		}
		return c.Status(resp.Status).JSON(resp)
	}
}

func classify(err error) (ErrorResponse, zapcore.Level) {
	var domainErr *domain.DomainError
	if errors.As(err, &domainErr) {
		status := mapDomainErrorToHTTPStatus(domainErr)
		resp := ErrorResponse{
			Code:    string(domainErr.Code),
			Message: domainErr.Message,
			Status:  status,
		}
		if len(domainErr.Details) > 0 {
			resp.Details = domainErr.Details
		}
		return resp, levelFor(status)
	}

	var fieldErrs domain.FieldErrors
	if errors.As(err, &fieldErrs) {
		return ErrorResponse{
			Code:    string(domain.CodeValidation),
			Message: "request validation failed",
			Status:  http.StatusBadRequest,
			Details: map[string]any{"fields": []domain.FieldError(fieldErrs)},
		}, zapcore.WarnLevel
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return ErrorResponse{
			Code:    "HTTP_ERROR",
			Message: fiberErr.Message,
			Status:  fiberErr.Code,
		}, levelFor(fiberErr.Code)
	}

	return ErrorResponse{
		Code:    string(domain.CodeInternal),
		Message: "Internal server error",
		Status:  http.StatusInternalServerError,
	}, zapcore.ErrorLevel
}

func levelFor(status int) zapcore.Level {
	if status >= http.StatusInternalServerError {
		return zapcore.ErrorLevel
	}
	return zapcore.WarnLevel
}

// mapDomainErrorToHTTPStatus maps error codes to HTTP statuses. Content
// errors are 502 when a model produced them and 422 when the caller's own
// document did.
func mapDomainErrorToHTTPStatus(err *domain.DomainError) int {
	switch err.Code {
	case domain.CodeNotFound:
		return http.StatusNotFound
	case domain.CodeInvalidInput, domain.CodeValidation, domain.CodeMissingField,
		domain.CodeInvalidValue, domain.CodeOutOfRange:
		return http.StatusBadRequest
	case domain.CodeUnauthorized:
		return http.StatusUnauthorized
	case domain.CodeGenerationFailed:
		return http.StatusServiceUnavailable
	case domain.CodeExtractionFailed, domain.CodeParseFailed, domain.CodeInvalidQuizData:
		if domain.IsDocumentError(err) {
			return http.StatusUnprocessableEntity
		}
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
