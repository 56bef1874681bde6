package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/seu-repo/dreamweaver/internal/adapter/http/fiber/middleware"
	"github.com/seu-repo/dreamweaver/internal/adapter/storage/filesystem"
	"github.com/seu-repo/dreamweaver/internal/domain"
	"github.com/seu-repo/dreamweaver/internal/mocks"
	"github.com/seu-repo/dreamweaver/internal/service/assistant"
	"github.com/seu-repo/dreamweaver/pkg/config"
)

type testEnv struct {
	app       *fiber.App
	llm       *mocks.MockCompletionClient
	speech    *mocks.MockSpeechClient
	staticDir string
}

func setupApp(t *testing.T, llm *mocks.MockCompletionClient, speech *mocks.MockSpeechClient) *testEnv {
	t.Helper()

	log := zap.NewNop()
	staticDir := t.TempDir()
	store, err := filesystem.NewAudioStore(staticDir, "/static", log)
	require.NoError(t, err)

	svc := assistant.NewService(llm, speech, store, config.AssistantConfig{}, log)

	templatesDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(templatesDir, "index.html"), []byte("<h1>Dreamweaver</h1>"), 0o644))

	app := fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler(log)})
	app.Use(middleware.RequestLogger(log))
	app.Static("/static", staticDir)
	app.Get("/", NewPageHandler(templatesDir).Index)
	NewAssistantHandler(svc, log).RegisterRoutes(app)

	return &testEnv{app: app, llm: llm, speech: speech, staticDir: staticDir}
}

func do(t *testing.T, app *fiber.App, method, path, body string) (int, map[string]interface{}) {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env map[string]interface{}
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, &env), string(raw))
	return resp.StatusCode, env
}

func textLLM(text string) *mocks.MockCompletionClient {
	return &mocks.MockCompletionClient{
		CompleteFunc: func(ctx context.Context, req domain.CompletionRequest) (string, error) {
			return text, nil
		},
	}
}

func TestAskClaude(t *testing.T) {
	env := setupApp(t, textLLM("Sleep is good."), nil)

	status, body := do(t, env.app, http.MethodPost, "/ask_claude", `{"prompt":"Why sleep?"}`)

	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, map[string]interface{}{"success": true, "response": "Sleep is good."}, body)
	assert.Equal(t, "Why sleep?", env.llm.Calls()[0].Messages[0].Content)
}

func TestAskClaude_LenientBody(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"missing body", ""},
		{"malformed json", "{not json"},
		{"non object", "[1,2,3]"},
		{"non string prompt", `{"prompt":42}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := setupApp(t, textLLM("ok"), nil)

			status, body := do(t, env.app, http.MethodPost, "/ask_claude", tt.body)

			assert.Equal(t, http.StatusOK, status)
			assert.Equal(t, true, body["success"])
			require.Equal(t, 1, env.llm.CallCount())
			assert.Equal(t, "", env.llm.Calls()[0].Messages[0].Content)
		})
	}
}

func TestAskClaude_UpstreamFailure(t *testing.T) {
	llm := &mocks.MockCompletionClient{
		CompleteFunc: func(ctx context.Context, req domain.CompletionRequest) (string, error) {
			return "", errors.New("anthropic: API error status 401: invalid x-api-key")
		},
	}
	env := setupApp(t, llm, nil)

	status, body := do(t, env.app, http.MethodPost, "/ask_claude", `{"prompt":"hi"}`)

	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, map[string]interface{}{
		"success": false,
		"error":   "anthropic: API error status 401: invalid x-api-key",
	}, body)
}

func TestDreamAnalysis(t *testing.T) {
	t.Run("missing dream", func(t *testing.T) {
		env := setupApp(t, textLLM("never"), nil)

		status, body := do(t, env.app, http.MethodPost, "/dream_analysis", `{}`)

		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, map[string]interface{}{"success": false, "error": "No dream provided"}, body)
		assert.Zero(t, env.llm.CallCount())
	})

	t.Run("analysis", func(t *testing.T) {
		env := setupApp(t, textLLM("A wish for freedom."), nil)

		status, body := do(t, env.app, http.MethodPost, "/dream_analysis", `{"dream":"I was flying"}`)

		assert.Equal(t, http.StatusOK, status)
		assert.Equal(t, map[string]interface{}{"success": true, "analysis": "A wish for freedom."}, body)
	})
}

func TestSleepTips_IgnoresBody(t *testing.T) {
	env := setupApp(t, textLLM("Avoid screens before bed."), nil)

	status, body := do(t, env.app, http.MethodPost, "/sleep_tips", `{"anything":"goes"}`)

	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, map[string]interface{}{"success": true, "tips": "Avoid screens before bed."}, body)
}

func TestGenerateBedtimeStory_SavesAudio(t *testing.T) {
	audio := []byte("ID3-audio-bytes")
	speech := &mocks.MockSpeechClient{
		SynthesizeFunc: func(ctx context.Context, req domain.SpeechRequest) (*domain.SpeechResponse, error) {
			return &domain.SpeechResponse{StatusCode: http.StatusOK, ContentType: "audio/mpeg", Body: audio}, nil
		},
	}
	env := setupApp(t, textLLM("The moon sang softly."), speech)

	status, body := do(t, env.app, http.MethodPost, "/generate_bedtime_story", `{"theme":"moon"}`)

	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "The moon sang softly.", body["story"])

	url, ok := body["audio_url"].(string)
	require.True(t, ok)
	require.True(t, strings.HasPrefix(url, "/static/"))

	written, err := os.ReadFile(filepath.Join(env.staticDir, strings.TrimPrefix(url, "/static/")))
	require.NoError(t, err)
	assert.Equal(t, audio, written)

	// the saved file is reachable under the public prefix
	resp, err := env.app.Test(httptest.NewRequest(http.MethodGet, url, nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	served, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, audio, served)
}

func TestGenerateBedtimeStory_Degraded(t *testing.T) {
	speech := &mocks.MockSpeechClient{
		SynthesizeFunc: func(ctx context.Context, req domain.SpeechRequest) (*domain.SpeechResponse, error) {
			return &domain.SpeechResponse{StatusCode: http.StatusForbidden, ContentType: "application/json"}, nil
		},
	}
	env := setupApp(t, textLLM("The moon sang softly."), speech)

	status, body := do(t, env.app, http.MethodPost, "/generate_bedtime_story", `{}`)

	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "The moon sang softly.", body["story"])
	assert.Contains(t, body, "audio_url")
	assert.Nil(t, body["audio_url"])
	assert.NotEmpty(t, body["message"])
	assert.Contains(t, env.llm.Calls()[0].Messages[0].Content, "peaceful night sky")
}

func TestIndex(t *testing.T) {
	env := setupApp(t, textLLM("ok"), nil)

	resp, err := env.app.Test(httptest.NewRequest(http.MethodGet, "/", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(raw), "Dreamweaver")
	assert.NotEmpty(t, resp.Header.Get(middleware.RequestIDHeader))
}

func TestUnknownRoute(t *testing.T) {
	env := setupApp(t, textLLM("ok"), nil)

	status, body := do(t, env.app, http.MethodGet, "/nope", "")

	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, false, body["success"])
	assert.NotEmpty(t, body["error"])
}

func TestStringField(t *testing.T) {
	body := map[string]interface{}{"s": "value", "n": 3.0, "b": true, "nil": nil}

	assert.Equal(t, "value", stringField(body, "s"))
	assert.Equal(t, "", stringField(body, "n"))
	assert.Equal(t, "", stringField(body, "b"))
	assert.Equal(t, "", stringField(body, "nil"))
	assert.Equal(t, "", stringField(body, "missing"))
}
