// Package gateway is a focused client for an OpenAI-compatible
// chat-completions gateway, covering the single-shot and streamed call
// shapes the feature handlers need.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"lingobuddy/internal/domain"
)

const defaultBaseURL = "https://ai.gateway.lovable.dev"

// requestTimeout bounds the single-shot completion call. Streamed calls are
// bounded by the request context instead, since a healthy stream can
// legitimately outlive any fixed body deadline.
const requestTimeout = 30 * time.Second

// chatRequest is the minimal request shape for the chat-completions endpoint.
type chatRequest struct {
	Model    string               `json:"model"`
	Messages []domain.ChatMessage `json:"messages"`
	Stream   bool                 `json:"stream,omitempty"`
}

// chatResponse is the minimal non-streamed response shape.
type chatResponse struct {
	Choices []struct {
		Index   int                `json:"index"`
		Message domain.ChatMessage `json:"message"`
	} `json:"choices"`
}

// keyPayload is the JSON shape stored in the parameter store for the
// gateway API key.
type keyPayload struct {
	Token string `json:"token"`
}

type Getter interface {
	GetParameter(ctx context.Context, name string) (string, error)
}

// HTTPStatusError captures non-2xx upstream responses with status-aware
// context. Its body is for server-side logs only and must never reach a
// client response.
type HTTPStatusError struct {
	StatusCode int
	URL        string
	Body       string
}

func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("gateway: unexpected status %d from %s: %s", e.StatusCode, e.URL, e.Body)
}

func (e *HTTPStatusError) HTTPStatusCode() int {
	return e.StatusCode
}

// Client issues chat-completion requests against the gateway.
type Client struct {
	baseURL      string
	httpClient   *http.Client
	streamClient *http.Client
	getter       Getter
	paramPrefix  string

	keyOnce sync.Once
	apiKey  string
	keyErr  error
}

type Option func(*Client)

func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimSpace(baseURL)
	}
}

// WithHTTPClient overrides both the buffered and the streaming HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
		c.streamClient = httpClient
	}
}

// NewClient creates a Client backed by the given parameter getter for API
// key retrieval. The key is fetched on the first call and reused for the
// lifetime of the process.
func NewClient(ps Getter, paramPrefix string, opts ...Option) (*Client, error) {
	if ps == nil {
		return nil, errors.New("gateway: paramstore getter must not be nil")
	}
	paramPrefix = strings.TrimRight(strings.TrimSpace(paramPrefix), "/")
	if paramPrefix == "" {
		return nil, errors.New("gateway: parameter prefix must not be empty")
	}
	c := &Client{
		baseURL:      defaultBaseURL,
		httpClient:   &http.Client{Timeout: requestTimeout},
		streamClient: &http.Client{},
		getter:       ps,
		paramPrefix:  paramPrefix,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func (c *Client) resolveAPIKey(ctx context.Context) (string, error) {
	c.keyOnce.Do(func() {
		c.apiKey, c.keyErr = fetchAPIKey(ctx, c.getter, c.paramPrefix+"/gateway-api-key")
	})
	return c.apiKey, c.keyErr
}

func chatURL(baseURL string) string {
	base := strings.TrimRight(baseURL, "/")
	if base == "" {
		base = defaultBaseURL
	}
	if strings.HasSuffix(base, "/v1") {
		return base + "/chat/completions"
	}
	return base + "/v1/chat/completions"
}

// Chat issues a non-streamed completion and returns the first choice's
// message content.
func (c *Client) Chat(ctx context.Context, model string, messages []domain.ChatMessage) (string, error) {
	res, err := c.do(ctx, c.httpClient, chatRequest{Model: model, Messages: messages})
	if err != nil {
		return "", err
	}
	defer func() { _ = res.Body.Close() }()

	raw, err := io.ReadAll(io.LimitReader(res.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("gateway: read response body: %w", err)
	}
	var payload chatResponse
	if decErr := json.Unmarshal(raw, &payload); decErr != nil {
		return "", fmt.Errorf("gateway: decode response: %w", decErr)
	}
	if len(payload.Choices) == 0 {
		return "", errors.New("gateway: no choices in response")
	}
	return payload.Choices[0].Message.Content, nil
}

// ChatStream issues a streamed completion and returns the raw SSE body.
// The caller owns the returned reader and must close it; cancelling ctx
// aborts the stream.
func (c *Client) ChatStream(ctx context.Context, model string, messages []domain.ChatMessage) (io.ReadCloser, error) {
	res, err := c.do(ctx, c.streamClient, chatRequest{Model: model, Messages: messages, Stream: true})
	if err != nil {
		return nil, err
	}
	return res.Body, nil
}

// do sends the request and returns the response with a 2xx status; any
// other status is drained into an HTTPStatusError.
func (c *Client) do(ctx context.Context, httpClient *http.Client, payload chatRequest) (*http.Response, error) {
	if payload.Model == "" {
		return nil, errors.New("gateway: model must not be empty")
	}

	apiKey, err := c.resolveAPIKey(ctx)
	if err != nil {
		return nil, err
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("gateway: marshal request: %w", err)
	}

	url := chatURL(c.baseURL)
	req, reqErr := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if reqErr != nil {
		return nil, fmt.Errorf("gateway: create request: %w", reqErr)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+apiKey)

	res, doErr := httpClient.Do(req)
	if doErr != nil {
		return nil, fmt.Errorf("gateway: request failed: %w", doErr)
	}
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		buf, _ := io.ReadAll(io.LimitReader(res.Body, 4096))
		_ = res.Body.Close()
		return nil, &HTTPStatusError{
			StatusCode: res.StatusCode,
			URL:        url,
			Body:       string(buf),
		}
	}
	return res, nil
}

func fetchAPIKey(ctx context.Context, getter Getter, name string) (string, error) {
	raw, err := getter.GetParameter(ctx, name)
	if err != nil {
		return "", fmt.Errorf("gateway: fetch API key from paramstore: %w", err)
	}
	var kp keyPayload
	if err := json.Unmarshal([]byte(raw), &kp); err != nil {
		return "", fmt.Errorf("gateway: unmarshal paramstore key value as JSON: %w", err)
	}
	if kp.Token == "" {
		return "", errors.New("gateway: API key is empty")
	}
	return kp.Token, nil
}
