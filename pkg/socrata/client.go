// Package socrata provides the client for the Socrata open-data platform
// API: domain allowlisting, authenticated REST calls, read-modify-write
// merges for asset metadata and permissions, and schedule resolution.
package socrata

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/opencivic-io/socrata-engine/pkg/apperrors"
	"github.com/opencivic-io/socrata-engine/pkg/config"
	"github.com/opencivic-io/socrata-engine/pkg/logging"
	"github.com/opencivic-io/socrata-engine/pkg/metrics"
)

// DefaultTimeout is the maximum time to wait for Socrata API responses
// when no timeout is configured. A hung call is bounded by this alone;
// there is no retry.
const DefaultTimeout = 30 * time.Second

// Client provides access to the Socrata API. Each call is a single
// attempt: failures are never retried and responses are never cached.
type Client struct {
	httpClient *http.Client
	appID      string
	appSecret  string
	logger     *zap.Logger
	metrics    *metrics.Metrics
}

// NewClient creates a Socrata API client. The Basic credential pair is
// attached to every request only when both halves are configured.
// The metrics parameter may be nil.
func NewClient(cfg config.SocrataConfig, logger *zap.Logger, m *metrics.Metrics) *Client {
	timeout := DefaultTimeout
	if cfg.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		appID:      cfg.AppID,
		appSecret:  cfg.AppSecret,
		logger:     logger.Named("socrata"),
		metrics:    m,
	}
}

// SetTransport overrides the underlying HTTP transport. Intended for tests
// that point the client at a fake API server.
func (c *Client) SetTransport(rt http.RoundTripper) {
	c.httpClient.Transport = rt
}

// Get issues a GET request and returns the raw JSON response.
func (c *Client) Get(ctx context.Context, url string) (json.RawMessage, error) {
	return c.do(ctx, http.MethodGet, url, nil)
}

// Put issues a PUT request with a JSON body and returns the raw JSON response.
func (c *Client) Put(ctx context.Context, url string, body any) (json.RawMessage, error) {
	return c.do(ctx, http.MethodPut, url, body)
}

// Post issues a POST request with a JSON body and returns the raw JSON
// response. Unused by the current tool set but part of the adapter contract.
func (c *Client) Post(ctx context.Context, url string, body any) (json.RawMessage, error) {
	return c.do(ctx, http.MethodPost, url, body)
}

func (c *Client) do(ctx context.Context, method, url string, body any) (json.RawMessage, error) {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	if c.appID != "" && c.appSecret != "" {
		req.SetBasicAuth(c.appID, c.appSecret)
	}

	c.logger.Debug("Calling Socrata API",
		zap.String("method", method),
		zap.String("url", logging.SanitizeURL(url)))

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if c.metrics != nil {
		c.metrics.RemoteCallDuration.WithLabelValues(method).Observe(time.Since(start).Seconds())
	}
	if err != nil {
		return nil, fmt.Errorf("failed to call Socrata API: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Warn("Socrata API returned error",
			zap.String("method", method),
			zap.String("url", logging.SanitizeURL(url)),
			zap.Int("status", resp.StatusCode),
			zap.String("body", logging.TruncateString(string(data), 500)))
		return nil, &apperrors.RemoteError{
			Status:     resp.StatusCode,
			StatusText: http.StatusText(resp.StatusCode),
			Body:       string(data),
		}
	}

	if len(data) == 0 {
		return json.RawMessage("null"), nil
	}
	return json.RawMessage(data), nil
}
