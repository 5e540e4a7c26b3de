package errors

import (
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRaiseFor(t *testing.T) {
	tests := []struct {
		description  string
		err          error
		expectedCode int
	}{
		{"not found", fmt.Errorf("booking 1: %w", ErrNotFound), fiber.StatusNotFound},
		{"conflict", fmt.Errorf("staff busy: %w", ErrConflict), fiber.StatusConflict},
		{"transition", fmt.Errorf("completed -> pending: %w", ErrInvalidTransition), fiber.StatusUnprocessableEntity},
		{"role", ErrRoleMismatch, fiber.StatusUnprocessableEntity},
		{"dates", ErrInvalidDates, fiber.StatusUnprocessableEntity},
		{"validation", fmt.Errorf("%w: guest_name: required", ErrValidation), fiber.StatusBadRequest},
		{"unknown", fmt.Errorf("socket closed"), fiber.StatusInternalServerError},
	}

	for _, test := range tests {
		app := fiber.New()
		err := test.err
		app.Get("/", func(c *fiber.Ctx) error { return RaiseFor(c, err) })

		res, testErr := app.Test(httptest.NewRequest("GET", "/", nil), -1)
		require.NoError(t, testErr)
		assert.Equalf(t, test.expectedCode, res.StatusCode, test.description)

		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(res.Body).Decode(&body))
		assert.Equalf(t, "error", body["status"], test.description)
		assert.Equalf(t, err.Error(), body["data"], test.description)
	}
}
