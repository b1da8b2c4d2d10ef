// Package ai talks to an OpenAI-compatible chat completion endpoint to
// generate fortune text. Every failure here is recoverable: callers fall
// through to the curated database or the static fallback.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	defaultTimeout = 10 * time.Second
	initialBackoff = 500 * time.Millisecond
)

// Client produces a single completion for a prompt.
type Client interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Options configures the HTTP completion client.
type Options struct {
	BaseURL     string
	APIKey      string
	Model       string
	Timeout     time.Duration
	MaxRetries  int
	Temperature float64
	MaxTokens   int
}

// HTTPClient is an OpenAI-compatible chat completions client with bounded
// timeout and retry on transient failures.
type HTTPClient struct {
	opts       Options
	httpClient *http.Client
}

func NewHTTPClient(opts Options) *HTTPClient {
	if opts.Timeout == 0 {
		opts.Timeout = defaultTimeout
	}
	if opts.Temperature == 0 {
		opts.Temperature = 0.9
	}
	if opts.MaxTokens == 0 {
		opts.MaxTokens = 256
	}
	return &HTTPClient{
		opts:       opts,
		httpClient: &http.Client{Timeout: opts.Timeout},
	}
}

const systemPrompt = "You write fortune cookie messages: one short, original, uplifting sentence. Reply with the message only, no quotes and no commentary."

// Complete requests a completion and returns the message text. Empty or
// malformed completions are errors so the caller can fall through.
func (c *HTTPClient) Complete(ctx context.Context, prompt string) (string, error) {
	var lastErr error
	backoff := initialBackoff

	for attempt := 0; attempt <= c.opts.MaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(backoff):
			}
			backoff *= 2
		}

		msg, err := c.doRequest(ctx, prompt)
		if err == nil {
			return msg, nil
		}
		lastErr = err
		if !isRetryable(err) {
			return "", err
		}
	}
	return "", fmt.Errorf("completion failed after %d retries: %w", c.opts.MaxRetries, lastErr)
}

func (c *HTTPClient) doRequest(ctx context.Context, prompt string) (string, error) {
	body := chatRequest{
		Model: c.opts.Model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: prompt},
		},
		Temperature: c.opts.Temperature,
		MaxTokens:   c.opts.MaxTokens,
	}

	data, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("marshal completion request: %w", err)
	}

	url := strings.TrimSuffix(c.opts.BaseURL, "/") + "/chat/completions"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("create completion request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.opts.APIKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("completion request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read completion response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", &APIError{StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	var chatResp chatResponse
	if err := json.Unmarshal(respBody, &chatResp); err != nil {
		return "", fmt.Errorf("unmarshal completion response: %w", err)
	}
	if len(chatResp.Choices) == 0 {
		return "", fmt.Errorf("completion response has no choices")
	}
	msg := strings.TrimSpace(chatResp.Choices[0].Message.Content)
	if msg == "" {
		return "", fmt.Errorf("completion response is empty")
	}
	return msg, nil
}

// APIError is a non-2xx reply from the completion endpoint.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("completion endpoint returned status %d: %s", e.StatusCode, e.Body)
}

func isRetryable(err error) bool {
	if apiErr, ok := err.(*APIError); ok {
		return apiErr.StatusCode == http.StatusTooManyRequests || apiErr.StatusCode >= 500
	}
	return false
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatResponse struct {
	ID      string `json:"id"`
	Model   string `json:"model"`
	Choices []struct {
		Index        int         `json:"index"`
		Message      chatMessage `json:"message"`
		FinishReason string      `json:"finish_reason"`
	} `json:"choices"`
}
