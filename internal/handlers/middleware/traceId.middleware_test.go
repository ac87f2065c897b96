package middleware

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTraceID(t *testing.T) {
	m := New()
	app := fiber.New()
	app.Use(m.TraceID())
	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString(GetTraceID(c))
	})

	t.Run("generates trace id", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
		require.NoError(t, err)
		assert.NotEmpty(t, resp.Header.Get(TraceIDHeader))
	})

	t.Run("keeps incoming trace id", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/", nil)
		req.Header.Set(TraceIDHeader, "trace-123")

		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, "trace-123", resp.Header.Get(TraceIDHeader))
	})
}
