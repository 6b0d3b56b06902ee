package tornamcp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const defaultTimeout = 60 * time.Second

// Client calls the torna-mcp HTTP API. It is safe for concurrent use.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
	obs     *observer
}

// New creates a Client for the server at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	cfg := &clientConfig{}
	for _, o := range opts {
		o.apply(cfg)
	}

	base := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if base == "" {
		return nil, errors.New("tornamcp: base URL required")
	}
	u, err := url.Parse(base)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("tornamcp: invalid base URL %q", baseURL)
	}

	hc := cfg.httpClient
	if hc == nil {
		hc = &http.Client{Timeout: defaultTimeout}
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, err
	}

	return &Client{baseURL: base, apiKey: cfg.apiKey, http: hc, obs: obs}, nil
}

// Tools returns the tool definitions served by GET /mcp/tools.
func (c *Client) Tools(ctx context.Context) (tools []Tool, err error) {
	start := time.Now()
	defer func() { c.obs.observe("tools", start, err) }()

	var out struct {
		Tools []Tool `json:"tools"`
	}
	if err = c.do(ctx, http.MethodGet, "/mcp/tools", nil, &out); err != nil {
		return nil, fmt.Errorf("list tools: %w", err)
	}
	return out.Tools, nil
}

// SearchAPIs finds the API documents whose name contains apiName.
// An empty projectID uses the server's default project.
func (c *Client) SearchAPIs(ctx context.Context, apiName, projectID string) (res SearchResult, err error) {
	start := time.Now()
	defer func() { c.obs.observe("search", start, err) }()

	args := map[string]any{"apiName": apiName}
	if projectID != "" {
		args["projectId"] = projectID
	}

	var out struct {
		Result SearchResult `json:"result"`
	}
	if err = c.invoke(ctx, ToolSearchDocs, args, &out); err != nil {
		return SearchResult{}, fmt.Errorf("search apis: %w", err)
	}
	return out.Result, nil
}

// ListAPIs lists up to limit APIs of a project. A non-positive limit uses the server default.
func (c *Client) ListAPIs(ctx context.Context, projectID string, limit int) (list []Summary, err error) {
	start := time.Now()
	defer func() { c.obs.observe("list", start, err) }()

	args := map[string]any{}
	if projectID != "" {
		args["projectId"] = projectID
	}
	if limit > 0 {
		args["limit"] = limit
	}

	var out struct {
		Result []Summary `json:"result"`
	}
	if err = c.invoke(ctx, ToolListAPIs, args, &out); err != nil {
		return nil, fmt.Errorf("list apis: %w", err)
	}
	return out.Result, nil
}

// APIDetail fetches the full document of one API.
func (c *Client) APIDetail(ctx context.Context, apiID string) (doc Document, err error) {
	start := time.Now()
	defer func() { c.obs.observe("detail", start, err) }()

	var out struct {
		Result Document `json:"result"`
	}
	if err = c.invoke(ctx, ToolAPIDetail, map[string]any{"apiId": apiID}, &out); err != nil {
		return Document{}, fmt.Errorf("api detail: %w", err)
	}
	return out.Result, nil
}

func (c *Client) invoke(ctx context.Context, tool string, args map[string]any, out any) error {
	return c.do(ctx, http.MethodPost, "/mcp/invoke/"+tool, args, out)
}

// do sends one request and decodes a 2xx JSON body into out.
// Non-2xx responses become *APIError.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader = http.NoBody
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return newAPIError(resp.StatusCode, data)
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
