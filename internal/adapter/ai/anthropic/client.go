package anthropic

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/seu-repo/dreamweaver/internal/domain"
	"github.com/seu-repo/dreamweaver/internal/infrastructure/circuitbreaker"
	"github.com/seu-repo/dreamweaver/internal/observability/telemetry"
	"github.com/seu-repo/dreamweaver/pkg/config"
)

var (
	ErrMissingAPIKey = errors.New("anthropic: API key not configured")
	ErrEmptyContent  = errors.New("anthropic: no content returned")
)

// Client calls the Anthropic Messages API.
type Client struct {
	apiKey     string
	baseURL    string
	apiVersion string
	httpClient *circuitbreaker.HTTPClient
	log        *zap.Logger
}

// NewClient creates a Messages API client. httpClient may be nil.
func NewClient(cfg config.AnthropicConfig, httpClient *circuitbreaker.HTTPClient, log *zap.Logger) *Client {
	if httpClient == nil {
		httpClient = circuitbreaker.NewHTTPClient(nil, nil, log)
	}
	return &Client{
		apiKey:     cfg.APIKey,
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiVersion: cfg.APIVersion,
		httpClient: httpClient,
		log:        log,
	}
}

type messagesRequest struct {
	Model     string           `json:"model"`
	MaxTokens int              `json:"max_tokens"`
	Messages  []domain.Message `json:"messages"`
}

type messagesResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Usage struct {
		InputTokens  int `json:"input_tokens"`
		OutputTokens int `json:"output_tokens"`
	} `json:"usage"`
}

type errorResponse struct {
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// Complete sends req and returns the text of the first content block.
func (c *Client) Complete(ctx context.Context, req domain.CompletionRequest) (string, error) {
	if c.apiKey == "" {
		return "", ErrMissingAPIKey
	}

	if req.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, req.Timeout)
		defer cancel()
	}

	payload, err := json.Marshal(messagesRequest{
		Model:     req.Model,
		MaxTokens: req.MaxTokens,
		Messages:  req.Messages,
	})
	if err != nil {
		return "", fmt.Errorf("anthropic: marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/messages", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("anthropic: create request: %w", err)
	}

	httpReq.Header.Set("x-api-key", c.apiKey)
	httpReq.Header.Set("anthropic-version", c.apiVersion)
	httpReq.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	telemetry.ObserveUpstream("anthropic", start, err)
	if err != nil {
		return "", fmt.Errorf("anthropic: send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("anthropic: read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr errorResponse
		if json.Unmarshal(body, &apiErr) == nil && apiErr.Error.Message != "" {
			return "", fmt.Errorf("anthropic: API error status %d: %s", resp.StatusCode, apiErr.Error.Message)
		}
		return "", fmt.Errorf("anthropic: API error status %d: %s", resp.StatusCode, string(body))
	}

	var result messagesResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("anthropic: decode response: %w", err)
	}

	if len(result.Content) == 0 {
		return "", ErrEmptyContent
	}

	c.log.Debug("Anthropic message completed",
		zap.String("model", req.Model),
		zap.Int("input_tokens", result.Usage.InputTokens),
		zap.Int("output_tokens", result.Usage.OutputTokens),
	)

	return result.Content[0].Text, nil
}
