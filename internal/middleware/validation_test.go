package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"quizforge/internal/middleware"
	"quizforge/internal/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateListParams(t *testing.T) {
	vm := middleware.NewValidationMiddleware(validation.NewValidator(30))

	tests := []struct {
		name       string
		query      string
		wantStatus int
		wantSearch string
		wantLimit  int
		wantOffset int
	}{
		{"defaults", "", http.StatusOK, "", middleware.DefaultPageLimit, 0},
		{"explicit", "?search=go&limit=10&offset=20", http.StatusOK, "go", 10, 20},
		{"not a number", "?limit=ten", http.StatusBadRequest, "", 0, 0},
		{"too large", "?limit=500", http.StatusBadRequest, "", 0, 0},
		{"negative offset", "?offset=-1", http.StatusBadRequest, "", 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler()})
			var search string
			var limit, offset int
			app.Get("/list", vm.ValidateListParams(), func(c *fiber.Ctx) error {
				search = c.Locals(middleware.SearchKey).(string)
				limit = c.Locals(middleware.LimitKey).(int)
				offset = c.Locals(middleware.OffsetKey).(int)
				return c.SendStatus(http.StatusOK)
			})

			resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/list"+tt.query, nil), -1)
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			if tt.wantStatus == http.StatusOK {
				assert.Equal(t, tt.wantSearch, search)
				assert.Equal(t, tt.wantLimit, limit)
				assert.Equal(t, tt.wantOffset, offset)
			}
		})
	}
}
