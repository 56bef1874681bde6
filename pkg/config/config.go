package config

import "time"

type Config struct {
	App            AppConfig            `mapstructure:"app"`
	HTTP           HTTPConfig           `mapstructure:"http"`
	Anthropic      AnthropicConfig      `mapstructure:"anthropic"`
	TTS            TTSConfig            `mapstructure:"tts"`
	Assistant      AssistantConfig      `mapstructure:"assistant"`
	Storage        StorageConfig        `mapstructure:"storage"`
	Vault          VaultConfig          `mapstructure:"vault"`
	OpenTelemetry  OpenTelemetryConfig  `mapstructure:"opentelemetry"`
	Prometheus     PrometheusConfig     `mapstructure:"prometheus"`
	Logging        LoggingConfig        `mapstructure:"logging"`
	CircuitBreaker CircuitBreakerConfig `mapstructure:"circuit_breaker"`
	CORS           CORSConfig           `mapstructure:"cors"`
}

type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type HTTPConfig struct {
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
	BodyLimit    int           `mapstructure:"body_limit"`
}

// AnthropicConfig points at the Messages API.
type AnthropicConfig struct {
	APIKey     string `mapstructure:"api_key"`
	BaseURL    string `mapstructure:"base_url"`
	APIVersion string `mapstructure:"api_version"`
}

// TTSConfig describes the text-to-speech REST endpoint. The endpoint either
// answers with a JSON body carrying an audio URL or with raw audio bytes.
type TTSConfig struct {
	Endpoint     string `mapstructure:"endpoint"`
	APIKey       string `mapstructure:"api_key"`
	APIKeyHeader string `mapstructure:"api_key_header"`
	VoiceID      string `mapstructure:"voice_id"`
	ModelID      string `mapstructure:"model_id"`
	Accept       string `mapstructure:"accept"`
}

// AssistantConfig holds the per-intent call parameters.
type AssistantConfig struct {
	Model          string        `mapstructure:"model"`
	LLMTimeout     time.Duration `mapstructure:"llm_timeout"`
	SpeechTimeout  time.Duration `mapstructure:"speech_timeout"`
	AskMaxTokens   int           `mapstructure:"ask_max_tokens"`
	DreamMaxTokens int           `mapstructure:"dream_max_tokens"`
	TipMaxTokens   int           `mapstructure:"tip_max_tokens"`
	StoryMaxTokens int           `mapstructure:"story_max_tokens"`
	DefaultTheme   string        `mapstructure:"default_theme"`
}

type StorageConfig struct {
	StaticDir    string `mapstructure:"static_dir"`
	PublicPrefix string `mapstructure:"public_prefix"`
	TemplatesDir string `mapstructure:"templates_dir"`
}

type VaultConfig struct {
	Enabled       bool   `mapstructure:"enabled"`
	Address       string `mapstructure:"address"`
	Token         string `mapstructure:"token"`
	AnthropicPath string `mapstructure:"anthropic_path"`
	TTSPath       string `mapstructure:"tts_path"`
}

type OpenTelemetryConfig struct {
	Enabled     bool         `mapstructure:"enabled"`
	Jaeger      JaegerConfig `mapstructure:"jaeger"`
	ServiceName string       `mapstructure:"service_name"`
}

type JaegerConfig struct {
	Endpoint     string  `mapstructure:"endpoint"`
	SamplerParam float64 `mapstructure:"sampler_param"`
}

type PrometheusConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type CircuitBreakerConfig struct {
	Enabled          bool          `mapstructure:"enabled"`
	MaxRequests      uint32        `mapstructure:"max_requests"`
	Interval         time.Duration `mapstructure:"interval"`
	Timeout          time.Duration `mapstructure:"timeout"`
	MinRequests      uint32        `mapstructure:"min_requests"`
	FailureThreshold float64       `mapstructure:"failure_threshold"`
}

type CORSConfig struct {
	Enabled        bool     `mapstructure:"enabled"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	AllowedMethods []string `mapstructure:"allowed_methods"`
	AllowedHeaders []string `mapstructure:"allowed_headers"`
	ExposeHeaders  []string `mapstructure:"expose_headers"`
	MaxAge         int      `mapstructure:"max_age"`
	Credentials    bool     `mapstructure:"credentials"`
}
