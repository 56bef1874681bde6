package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Load reads .env (if present), config.yaml (if present) and the environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs")
	v.AddConfigPath(".")

	return load(v)
}

func load(v *viper.Viper) (*Config, error) {
	setDefaults(v)

	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Vendor env vars without APP_ prefix
	v.BindEnv("http.port", "PORT", "APP_HTTP_PORT")
	v.BindEnv("anthropic.api_key", "ANTHROPIC_API_KEY", "APP_ANTHROPIC_API_KEY")
	v.BindEnv("tts.api_key", "TTS_API_KEY", "ELEVENLABS_API_KEY", "APP_TTS_API_KEY")
	v.BindEnv("tts.endpoint", "TTS_ENDPOINT", "APP_TTS_ENDPOINT")
	v.BindEnv("vault.address", "VAULT_ADDR", "APP_VAULT_ADDRESS")
	v.BindEnv("vault.token", "VAULT_TOKEN", "APP_VAULT_TOKEN")
	v.BindEnv("logging.level", "LOG_LEVEL", "APP_LOGGING_LEVEL")
	v.BindEnv("app.environment", "APP_ENVIRONMENT")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "dreamweaver")
	v.SetDefault("app.version", "v1.0.0")
	v.SetDefault("app.environment", "development")

	v.SetDefault("http.port", 5000)
	v.SetDefault("http.read_timeout", 15*time.Second)
	v.SetDefault("http.write_timeout", 120*time.Second)
	v.SetDefault("http.idle_timeout", 60*time.Second)
	v.SetDefault("http.body_limit", 1<<20)

	v.SetDefault("anthropic.base_url", "https://api.anthropic.com")
	v.SetDefault("anthropic.api_version", "2023-06-01")

	v.SetDefault("tts.endpoint", "https://api.elevenlabs.io/v1/text-to-speech/21m00Tcm4TlvDq8ikWAM")
	v.SetDefault("tts.api_key_header", "xi-api-key")
	v.SetDefault("tts.model_id", "eleven_multilingual_v2")
	v.SetDefault("tts.accept", "audio/mpeg")

	v.SetDefault("assistant.model", "claude-sonnet-4-5")
	v.SetDefault("assistant.llm_timeout", 60*time.Second)
	v.SetDefault("assistant.speech_timeout", 30*time.Second)
	v.SetDefault("assistant.ask_max_tokens", 500)
	v.SetDefault("assistant.dream_max_tokens", 1000)
	v.SetDefault("assistant.tip_max_tokens", 200)
	v.SetDefault("assistant.story_max_tokens", 500)
	v.SetDefault("assistant.default_theme", "peaceful night sky")

	v.SetDefault("storage.static_dir", "./static")
	v.SetDefault("storage.public_prefix", "/static")
	v.SetDefault("storage.templates_dir", "./templates")

	v.SetDefault("vault.enabled", false)
	v.SetDefault("vault.anthropic_path", "secret/data/anthropic")
	v.SetDefault("vault.tts_path", "secret/data/tts")

	v.SetDefault("opentelemetry.enabled", false)
	v.SetDefault("opentelemetry.service_name", "dreamweaver")
	v.SetDefault("opentelemetry.jaeger.endpoint", "http://jaeger:14268/api/traces")
	v.SetDefault("opentelemetry.jaeger.sampler_param", 1.0)

	v.SetDefault("prometheus.enabled", true)
	v.SetDefault("prometheus.path", "/metrics")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	v.SetDefault("circuit_breaker.enabled", true)
	v.SetDefault("circuit_breaker.max_requests", 3)
	v.SetDefault("circuit_breaker.interval", time.Minute)
	v.SetDefault("circuit_breaker.timeout", 30*time.Second)
	v.SetDefault("circuit_breaker.min_requests", 3)
	v.SetDefault("circuit_breaker.failure_threshold", 0.6)

	v.SetDefault("cors.enabled", true)
	v.SetDefault("cors.allowed_origins", []string{"*"})
}
