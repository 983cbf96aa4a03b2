// Package inference wraps the external text-generation endpoint behind a
// single time-bounded call. Failures are surfaced to the caller with no
// retries: the endpoint rate-limits aggressively and transparent retry
// loops would make that worse.
package inference

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/focusapp/focus-server/internal/config"
)

// Sentinel errors mapped from upstream responses.
var (
	ErrAuth        = errors.New("inference: authentication failed")
	ErrRateLimited = errors.New("inference: rate limited")
	ErrUnavailable = errors.New("inference: service unavailable")
	ErrTimeout     = errors.New("inference: request timed out")
	ErrEmptyReply  = errors.New("inference: empty reply")
)

const systemPrompt = "You are a supportive progress coach. Analyze the user's goal progress and reply with the requested sections."

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// Client calls an OpenAI-compatible chat-completions endpoint.
type Client struct {
	url    string
	apiKey string
	model  string
	http   *http.Client
}

// NewClient builds a client with the configured request budget.
func NewClient(cfg *config.Config) *Client {
	return &Client{
		url:    cfg.InferenceURL,
		apiKey: cfg.InferenceAPIKey,
		model:  cfg.InferenceModel,
		http:   &http.Client{Timeout: cfg.InferenceTimeout},
	}
}

// Complete sends one prompt and returns the raw reply text.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: prompt},
		},
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || isTimeout(err) {
			return "", ErrTimeout
		}
		return "", ErrUnavailable
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", mapStatus(resp.StatusCode, string(raw))
	}

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", ErrEmptyReply
	}
	if len(parsed.Choices) == 0 || parsed.Choices[0].Message.Content == "" {
		return "", ErrEmptyReply
	}
	return parsed.Choices[0].Message.Content, nil
}

// URL exposes the configured endpoint for health-check probes.
func (c *Client) URL() string {
	return c.url
}

func mapStatus(status int, body string) error {
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return ErrAuth
	case http.StatusTooManyRequests:
		return ErrRateLimited
	case http.StatusServiceUnavailable:
		return ErrUnavailable
	}
	// Some hosts report a model still loading as a 5xx with a loading hint.
	if status >= 500 && strings.Contains(strings.ToLower(body), "loading") {
		return ErrUnavailable
	}
	return ErrUnavailable
}

func isTimeout(err error) bool {
	var t interface{ Timeout() bool }
	return errors.As(err, &t) && t.Timeout()
}
