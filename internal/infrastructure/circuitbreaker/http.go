package circuitbreaker

import (
	"fmt"
	"io"
	"net/http"

	"go.uber.org/zap"
)

// maxErrorBody bounds how much of a 5xx body ends up in the error message.
const maxErrorBody = 512

// HTTPClient wraps an HTTP client with circuit breaker protection
type HTTPClient struct {
	client  *http.Client
	breaker *Breaker
	log     *zap.Logger
}

// NewHTTPClient creates a new HTTP client with circuit breaker. Timeouts are
// expected to come from the request context.
func NewHTTPClient(client *http.Client, breaker *Breaker, log *zap.Logger) *HTTPClient {
	if client == nil {
		client = &http.Client{}
	}
	return &HTTPClient{
		client:  client,
		breaker: breaker,
		log:     log,
	}
}

// Do executes an HTTP request with circuit breaker protection. 5xx answers
// count as failures and are returned as errors with the body closed.
func (c *HTTPClient) Do(req *http.Request) (*http.Response, error) {
	result, err := c.breaker.Execute(func() (interface{}, error) {
		resp, err := c.client.Do(req)
		if err != nil {
			return nil, err
		}

		if resp.StatusCode >= http.StatusInternalServerError {
			defer resp.Body.Close()
			body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
			return nil, fmt.Errorf("server error status %d: %s", resp.StatusCode, string(body))
		}

		return resp, nil
	})

	if err != nil {
		if IsOpen(err) {
			c.log.Warn("Circuit breaker open, request blocked",
				zap.String("url", req.URL.String()),
				zap.String("breaker", c.breaker.Name()),
			)
		}
		return nil, err
	}

	return result.(*http.Response), nil
}
