package middleware

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/seu-repo/dreamweaver/pkg/config"
)

func newApp() *fiber.App {
	log := zap.NewNop()
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler(log)})
	app.Use(RequestLogger(log))
	return app
}

func decode(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &body), string(raw))
	return body
}

func TestErrorHandler_FailureEnvelope(t *testing.T) {
	app := newApp()
	app.Get("/teapot", func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusTeapot, "short and stout")
	})
	app.Get("/boom", func(c *fiber.Ctx) error {
		return assert.AnError
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/teapot", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusTeapot, resp.StatusCode)
	assert.Equal(t, map[string]interface{}{"success": false, "error": "short and stout"}, decode(t, resp))

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/boom", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, false, decode(t, resp)["success"])
}

func TestRequestLogger_RequestID(t *testing.T) {
	app := newApp()
	app.Get("/id", func(c *fiber.Ctx) error {
		return c.SendString(RequestID(c))
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/id", nil), -1)
	require.NoError(t, err)
	generated := resp.Header.Get(RequestIDHeader)
	assert.Len(t, generated, 36)
	raw, _ := io.ReadAll(resp.Body)
	assert.Equal(t, generated, string(raw))

	req := httptest.NewRequest(http.MethodGet, "/id", nil)
	req.Header.Set(RequestIDHeader, "caller-supplied")
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, "caller-supplied", resp.Header.Get(RequestIDHeader))
}

func TestNewCORS_Preflight(t *testing.T) {
	app := fiber.New()
	app.Use(NewCORS(config.CORSConfig{Enabled: true, AllowedOrigins: []string{"*"}}))
	app.Post("/ask_claude", func(c *fiber.Ctx) error { return c.SendStatus(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/ask_claude", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
	assert.Contains(t, resp.Header.Get("Access-Control-Allow-Methods"), "POST")
}
