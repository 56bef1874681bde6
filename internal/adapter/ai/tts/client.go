package tts

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/seu-repo/dreamweaver/internal/domain"
	"github.com/seu-repo/dreamweaver/internal/infrastructure/circuitbreaker"
	"github.com/seu-repo/dreamweaver/internal/observability/telemetry"
	"github.com/seu-repo/dreamweaver/pkg/config"
)

var (
	ErrMissingAPIKey   = errors.New("tts: API key not configured")
	ErrMissingEndpoint = errors.New("tts: endpoint not configured")
)

// Client posts text to a text-to-speech REST endpoint and hands back the raw
// answer; whether it holds a URL or audio bytes is decided by the caller.
type Client struct {
	endpoint     string
	apiKey       string
	apiKeyHeader string
	voiceID      string
	modelID      string
	accept       string
	httpClient   *circuitbreaker.HTTPClient
	log          *zap.Logger
}

func NewClient(cfg config.TTSConfig, httpClient *circuitbreaker.HTTPClient, log *zap.Logger) *Client {
	if httpClient == nil {
		httpClient = circuitbreaker.NewHTTPClient(nil, nil, log)
	}
	header := cfg.APIKeyHeader
	if header == "" {
		header = "xi-api-key"
	}
	return &Client{
		endpoint:     cfg.Endpoint,
		apiKey:       cfg.APIKey,
		apiKeyHeader: header,
		voiceID:      cfg.VoiceID,
		modelID:      cfg.ModelID,
		accept:       cfg.Accept,
		httpClient:   httpClient,
		log:          log,
	}
}

type synthesizeRequest struct {
	Text    string `json:"text"`
	VoiceID string `json:"voice_id,omitempty"`
	ModelID string `json:"model_id,omitempty"`
}

// Synthesize sends req.Text to the provider. Any HTTP answer below 500 is
// returned as-is; transport failures, 5xx and an open breaker are errors.
func (c *Client) Synthesize(ctx context.Context, req domain.SpeechRequest) (*domain.SpeechResponse, error) {
	if c.endpoint == "" {
		return nil, ErrMissingEndpoint
	}
	if c.apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	if req.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, req.Timeout)
		defer cancel()
	}

	payload, err := json.Marshal(synthesizeRequest{
		Text:    req.Text,
		VoiceID: c.voiceID,
		ModelID: c.modelID,
	})
	if err != nil {
		return nil, fmt.Errorf("tts: marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("tts: create request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	if c.accept != "" {
		httpReq.Header.Set("Accept", c.accept)
	}
	if c.apiKeyHeader == "Authorization" {
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	} else {
		httpReq.Header.Set(c.apiKeyHeader, c.apiKey)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	telemetry.ObserveUpstream("tts", start, err)
	if err != nil {
		return nil, fmt.Errorf("tts: send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("tts: read response: %w", err)
	}

	c.log.Debug("Speech synthesis answered",
		zap.Int("status", resp.StatusCode),
		zap.String("content_type", resp.Header.Get("Content-Type")),
		zap.Int("bytes", len(body)),
	)

	return &domain.SpeechResponse{
		StatusCode:  resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
		Body:        body,
	}, nil
}
