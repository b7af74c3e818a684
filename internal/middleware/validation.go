package middleware

import (
	"strconv"

	"quizforge/internal/domain"
	"quizforge/internal/validation"

	"github.com/gofiber/fiber/v2"
)

const (
	DefaultPageLimit = 50

	SearchKey = "validated_search"
	LimitKey  = "validated_limit"
	OffsetKey = "validated_offset"
)

// ValidationMiddleware provides request validation middleware
type ValidationMiddleware struct {
	validator *validation.Validator
}

// NewValidationMiddleware creates a new validation middleware instance
func NewValidationMiddleware(validator *validation.Validator) *ValidationMiddleware {
	return &ValidationMiddleware{validator: validator}
}

// ValidateListParams validates the search, limit and offset query
// parameters of list endpoints and stores them in locals.
func (vm *ValidationMiddleware) ValidateListParams() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var errs domain.FieldErrors
		limit := parseIntQuery(c, "limit", DefaultPageLimit, &errs)
		offset := parseIntQuery(c, "offset", 0, &errs)
		if err := errs.AsError(); err != nil {
			return err
		}
		if err := vm.validator.ValidatePagination(limit, offset); err != nil {
			return err
		}

		c.Locals(SearchKey, c.Query("search"))
		c.Locals(LimitKey, limit)
		c.Locals(OffsetKey, offset)
		return c.Next()
	}
}

func parseIntQuery(c *fiber.Ctx, key string, def int, errs *domain.FieldErrors) int {
	raw := c.Query(key)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		errs.Add(key, domain.CodeInvalidValue, key+" must be a number")
		return def
	}
	return n
}
