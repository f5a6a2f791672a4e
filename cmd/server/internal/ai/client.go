// Package ai talks to the OpenRouter Chat Completions API (OpenAI-compatible)
// and turns free-form model output into the structured payloads the rest of
// the service consumes.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/zhaoqin88/roadgen/cmd/server/internal/apperr"
	"github.com/zhaoqin88/roadgen/cmd/server/internal/models"
	"github.com/zhaoqin88/roadgen/pkg/logger"
)

const (
	// retryDelay is the pause before the single retry on a failed call.
	retryDelay = 2 * time.Second
	maxErrBody = 2048
)

// Client calls the OpenRouter chat completions endpoint.
type Client struct {
	http    *http.Client
	apiKey  string
	model   string
	baseURL string
}

// NewClient creates an OpenRouter client. Long-running generation calls
// get a generous timeout; callers can still cancel earlier via ctx.
func NewClient(apiKey, model, baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	return &Client{
		http:    &http.Client{Timeout: timeout},
		apiKey:  apiKey,
		model:   model,
		baseURL: baseURL,
	}
}

// Name identifies the upstream for health reporting.
func (c *Client) Name() string { return "OpenRouter:" + c.model }

type chatRequest struct {
	Model          string               `json:"model"`
	Messages       []models.ChatMessage `json:"messages"`
	Temperature    float32              `json:"temperature"`
	MaxTokens      int                  `json:"max_tokens,omitempty"`
	ResponseFormat map[string]string    `json:"response_format,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// ChatOptions tune a single completion call.
type ChatOptions struct {
	Temperature float32
	MaxTokens   int
	JSONMode    bool
}

// Chat sends the messages and returns the first choice's content.
// A timeout or transport failure is retried once after a short pause;
// generation calls run 5-20s upstream and transient failures are common.
func (c *Client) Chat(ctx context.Context, messages []models.ChatMessage, opts ChatOptions) (string, error) {
	content, err := c.chatOnce(ctx, messages, opts)
	if err == nil {
		return content, nil
	}
	if ctx.Err() != nil {
		return "", err
	}
	logger.L().Warn("ai call failed, retrying once", "error", err)

	select {
	case <-time.After(retryDelay):
	case <-ctx.Done():
		return "", apperr.UpstreamTimeout("AI request cancelled while waiting to retry", ctx.Err())
	}
	return c.chatOnce(ctx, messages, opts)
}

func (c *Client) chatOnce(ctx context.Context, messages []models.ChatMessage, opts ChatOptions) (string, error) {
	body := chatRequest{
		Model:       c.model,
		Messages:    messages,
		Temperature: opts.Temperature,
		MaxTokens:   opts.MaxTokens,
	}
	if opts.JSONMode {
		body.ResponseFormat = map[string]string{"type": "json_object"}
	}
	b, err := json.Marshal(body)
	if err != nil {
		return "", apperr.Upstream("encode AI request", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(b))
	if err != nil {
		return "", apperr.Upstream("build AI request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if isTimeout(err) {
			return "", apperr.UpstreamTimeout("AI request timed out, please retry", err)
		}
		return "", apperr.Upstream("AI request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrBody))
		return "", apperr.Upstream(
			fmt.Sprintf("AI service returned %s: %s", resp.Status, string(raw)), nil)
	}

	var out chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", apperr.Upstream("decode AI response", err)
	}
	if len(out.Choices) == 0 || out.Choices[0].Message.Content == "" {
		return "", apperr.Upstream("AI response contained no choices", nil)
	}
	return out.Choices[0].Message.Content, nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne interface{ Timeout() bool }
	return errors.As(err, &ne) && ne.Timeout()
}
