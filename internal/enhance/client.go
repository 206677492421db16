// Package enhance talks to the remote rephrase service.
package enhance

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

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	// Path is appended to the base URL for every request.
	Path = "/api/rephrase"
	// DefaultOrigin is used when no base URL is configured.
	DefaultOrigin = "http://localhost:8080"
	// DefaultTimeout bounds a single request.
	DefaultTimeout = 30 * time.Second
)

// ErrEmptyText is returned when Enhance is called with nothing to send.
var ErrEmptyText = errors.New("enhance: text must not be empty")

// Client performs rephrase requests.
type Client struct {
	endpoint string
	client   *http.Client
	timeout  time.Duration
	logger   *zap.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.client = hc }
}

// WithTimeout bounds each request. It is applied through the request context,
// so an *http.Client passed to WithHTTPClient is never modified.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithLogger attaches a logger. The default is a no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// New returns a Client targeting baseURL + Path. An empty baseURL falls back
// to DefaultOrigin.
func New(baseURL string, opts ...Option) *Client {
	base := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if base == "" {
		base = DefaultOrigin
	}
	c := &Client{
		endpoint: base + Path,
		client:   &http.Client{},
		timeout:  DefaultTimeout,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Endpoint returns the full URL requests are posted to.
func (c *Client) Endpoint() string { return c.endpoint }

type rephraseRequest struct {
	Text string `json:"text"`
}

// Enhance posts text to the service and returns the rephrased result.
// Every failure is returned as a *RequestError.
func (c *Client) Enhance(ctx context.Context, text string) (string, error) {
	if text == "" {
		return "", ErrEmptyText
	}
	id := RequestIDFromContext(ctx)
	if id == "" {
		id = uuid.New().String()
	}
	log := c.logger.With(zap.String("request_id", id))

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	body, err := json.Marshal(rephraseRequest{Text: text})
	if err != nil {
		return "", &RequestError{Kind: KindRequest, Err: fmt.Errorf("failed to marshal request: %w", err)}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", &RequestError{Kind: KindRequest, Err: fmt.Errorf("failed to create request: %w", err)}
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("X-Request-ID", id)

	start := time.Now()
	log.Debug("Sending rephrase request", zap.String("url", c.endpoint), zap.Int("chars", len(text)))

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return "", &RequestError{Kind: KindNetwork, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", &RequestError{
			Kind:       KindStatus,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("service returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet))),
		}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &RequestError{Kind: KindNetwork, Err: fmt.Errorf("failed to read response: %w", err)}
	}

	result, err := ExtractResult(data)
	if err != nil {
		return "", &RequestError{Kind: KindShape, Err: err}
	}

	log.Debug("Rephrase request succeeded",
		zap.Duration("elapsed", time.Since(start)),
		zap.Int("chars", len(result)))
	return result, nil
}
