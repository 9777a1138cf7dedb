// Package client talks to the remote analysis service over HTTP.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/mithrel/aicode/pkg/api"
)

const (
	DefaultBaseURL = "http://127.0.0.1:8000/api/v2/"
	analyzePath    = "aicode/"
	maxErrorBody   = 4 << 10
)

// StatusError reports a non-2xx response from the service.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("analysis service returned %d", e.Code)
	}
	return fmt.Sprintf("analysis service returned %d: %s", e.Code, e.Body)
}

// Client posts queries to the analysis endpoint.
type Client struct {
	BaseURL string
	Token   string
	HTTP    *http.Client

	// TokenFunc, when set, supplies Token on the first request. It runs at
	// most once.
	TokenFunc func() string
	tokenOnce sync.Once
}

// New builds a client; timeout <= 0 means no client-side timeout.
func New(baseURL, token string, timeout time.Duration) *Client {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		BaseURL: baseURL,
		Token:   token,
		HTTP:    &http.Client{Timeout: timeout},
	}
}

// Endpoint returns the full analysis URL.
func (c *Client) Endpoint() string {
	base := c.BaseURL
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}
	return base + analyzePath
}

func (c *Client) bearer() string {
	if c.TokenFunc != nil {
		c.tokenOnce.Do(func() { c.Token = c.TokenFunc() })
	}
	return strings.TrimSpace(c.Token)
}

// Analyze submits a free-text question or code snippet and decodes the envelope.
func (c *Client) Analyze(ctx context.Context, query string) (api.Result, error) {
	body, err := json.Marshal(api.Query{Query: query})
	if err != nil {
		return api.Result{}, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint(), bytes.NewReader(body))
	if err != nil {
		return api.Result{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if tok := c.bearer(); tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	hc := c.HTTP
	if hc == nil {
		hc = http.DefaultClient
	}
	resp, err := hc.Do(req)
	if err != nil {
		return api.Result{}, fmt.Errorf("analyze request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return api.Result{}, &StatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(b))}
	}

	var out api.Result
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return api.Result{}, fmt.Errorf("decode analysis response: %w", err)
	}
	return out, nil
}
