package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newViper(dir string) *viper.Viper {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(dir)
	return v
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := load(newViper(t.TempDir()))
	require.NoError(t, err)

	assert.Equal(t, 5000, cfg.HTTP.Port)
	assert.Equal(t, "https://api.anthropic.com", cfg.Anthropic.BaseURL)
	assert.Equal(t, "2023-06-01", cfg.Anthropic.APIVersion)
	assert.Equal(t, "xi-api-key", cfg.TTS.APIKeyHeader)

	assert.Equal(t, "claude-sonnet-4-5", cfg.Assistant.Model)
	assert.Equal(t, 60*time.Second, cfg.Assistant.LLMTimeout)
	assert.Equal(t, 30*time.Second, cfg.Assistant.SpeechTimeout)
	assert.Equal(t, 500, cfg.Assistant.AskMaxTokens)
	assert.Equal(t, 1000, cfg.Assistant.DreamMaxTokens)
	assert.Equal(t, 200, cfg.Assistant.TipMaxTokens)
	assert.Equal(t, 500, cfg.Assistant.StoryMaxTokens)
	assert.Equal(t, "peaceful night sky", cfg.Assistant.DefaultTheme)

	assert.Equal(t, "./static", cfg.Storage.StaticDir)
	assert.Equal(t, "/static", cfg.Storage.PublicPrefix)

	assert.True(t, cfg.CircuitBreaker.Enabled)
	assert.Equal(t, uint32(3), cfg.CircuitBreaker.MinRequests)
	assert.InDelta(t, 0.6, cfg.CircuitBreaker.FailureThreshold, 1e-9)
	assert.Equal(t, []string{"*"}, cfg.CORS.AllowedOrigins)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("ANTHROPIC_API_KEY", "sk-ant-env")
	t.Setenv("ELEVENLABS_API_KEY", "xi-env")
	t.Setenv("APP_ASSISTANT_MODEL", "claude-haiku-4-5")
	t.Setenv("APP_LOGGING_FORMAT", "console")

	cfg, err := load(newViper(t.TempDir()))
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.HTTP.Port)
	assert.Equal(t, "sk-ant-env", cfg.Anthropic.APIKey)
	assert.Equal(t, "xi-env", cfg.TTS.APIKey)
	assert.Equal(t, "claude-haiku-4-5", cfg.Assistant.Model)
	assert.Equal(t, "console", cfg.Logging.Format)
}

func TestLoad_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	yaml := []byte(`
assistant:
  default_theme: "quiet forest"
  story_max_tokens: 700
tts:
  endpoint: "https://tts.internal/speak"
  api_key_header: "Authorization"
circuit_breaker:
  enabled: false
`)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), yaml, 0o644))

	cfg, err := load(newViper(dir))
	require.NoError(t, err)

	assert.Equal(t, "quiet forest", cfg.Assistant.DefaultTheme)
	assert.Equal(t, 700, cfg.Assistant.StoryMaxTokens)
	assert.Equal(t, 200, cfg.Assistant.TipMaxTokens)
	assert.Equal(t, "https://tts.internal/speak", cfg.TTS.Endpoint)
	assert.Equal(t, "Authorization", cfg.TTS.APIKeyHeader)
	assert.False(t, cfg.CircuitBreaker.Enabled)
}

func TestLoad_InvalidConfigFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("assistant: [unclosed"), 0o644))

	_, err := load(newViper(dir))
	assert.Error(t, err)
}
