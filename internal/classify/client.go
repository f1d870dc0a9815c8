package classify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"leadminer-engine/internal/config"
)

// Completer is the external classification capability: one blocking
// round-trip that turns a system+user prompt into raw model text.
type Completer interface {
	Available() bool
	Complete(ctx context.Context, system, user string) (string, error)
}

// Client talks to an OpenAI-compatible chat-completions endpoint. Built once
// at startup and passed by reference; it holds no state besides credentials
// and the HTTP client.
type Client struct {
	endpoint string
	model    string
	apiKey   string
	hc       *http.Client
	delay    time.Duration
}

var _ Completer = (*Client)(nil)

func NewClient(cfg config.Config, apiKey string) *Client {
	return &Client{
		endpoint: cfg.Classifier.Endpoint,
		model:    cfg.Classifier.Model,
		apiKey:   apiKey,
		hc: &http.Client{
			Timeout: time.Duration(cfg.Classifier.TimeoutSeconds) * time.Second,
		},
		delay: time.Duration(cfg.Classifier.RequestDelayMS) * time.Millisecond,
	}
}

// Available reports whether the client is configured well enough to call.
func (c *Client) Available() bool {
	return c != nil && c.endpoint != "" && c.model != "" && c.apiKey != ""
}

// Delay is the configured pause between sequential batch calls.
func (c *Client) Delay() time.Duration {
	if c == nil {
		return 0
	}
	return c.delay
}

// Complete posts one chat request and returns the assistant message content.
// Temperature 0 and JSON response format keep the output parseable and
// deterministic for identical inputs.
func (c *Client) Complete(ctx context.Context, system, user string) (string, error) {
	if !c.Available() {
		return "", fmt.Errorf("classifier client misconfigured")
	}

	body, err := json.Marshal(map[string]any{
		"model": c.model,
		"messages": []map[string]string{
			{"role": "system", "content": system},
			{"role": "user", "content": user},
		},
		"response_format": map[string]string{"type": "json_object"},
		"temperature":     0,
	})
	if err != nil {
		return "", fmt.Errorf("marshal chat payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.hc.Do(req)
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", fmt.Errorf("chat error %s: %s", resp.Status, strings.TrimSpace(string(payload)))
	}

	var out struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode chat response: %w", err)
	}
	if len(out.Choices) == 0 {
		return "", fmt.Errorf("chat response has no choices")
	}
	return out.Choices[0].Message.Content, nil
}
