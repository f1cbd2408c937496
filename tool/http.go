package tool

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"
)

const maxResponseSizeBytes = 2 << 20

// ClientConfig configures the commerce backend client.
type ClientConfig struct {
	BaseURL string        `envconfig:"BASE_URL" split_words:"true"`
	Timeout time.Duration `envconfig:"TIMEOUT" split_words:"true" default:"15s"`
}

// Client invokes concrete tools over the normalized POST contract: the
// request body is the tool's argument mapping as JSON, the response is
// normalized to {success: bool, data?: ..., error?: string}. Transport and
// decoding failures are mapped to failure payloads rather than raised.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// ClientOption customizes a Client.
type ClientOption func(*Client)

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// NewClient creates a backend client. An empty base URL is tolerated at
// construction; calls then return a configuration failure payload so agents
// can surface a sensible apology instead of crashing.
func NewClient(cfg ClientConfig, opts ...ClientOption) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	c := &Client{
		baseURL:    strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// PostJSON posts the payload to path and returns the normalized contract
// map. It never returns an error: every failure mode yields
// {"success": false, "error": ...}.
func (c *Client) PostJSON(ctx context.Context, path string, payload map[string]any) map[string]any {
	if c.baseURL == "" {
		return failure("backend base URL is not configured")
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return failure("failed to encode request payload: " + err.Error())
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return failure("failed to build request: " + err.Error())
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return failure("network error when calling backend: " + err.Error())
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSizeBytes))
	if err != nil {
		return failure("failed to read backend response: " + err.Error())
	}

	var parsed map[string]any
	if err := json.Unmarshal(raw, &parsed); err != nil {
		out := failure("invalid JSON response from backend")
		out["body"] = string(raw)
		return out
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		out := failure("backend returned HTTP " + resp.Status)
		out["body"] = parsed
		return out
	}

	// The backend is expected to already follow the {success, data?, error?}
	// contract.
	if _, ok := parsed["success"]; ok {
		return parsed
	}

	out := failure("unexpected response format from backend")
	out["body"] = parsed
	return out
}

func failure(message string) map[string]any {
	return map[string]any{"success": false, "error": message}
}
