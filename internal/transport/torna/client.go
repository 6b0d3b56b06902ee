// Package torna is the outbound client of the Torna documentation platform.
package torna

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/torna-mcp/internal/domain"
	"github.com/kailas-cloud/torna-mcp/internal/domain/doctree"
	"github.com/kailas-cloud/torna-mcp/internal/domain/module"
	logpkg "github.com/kailas-cloud/torna-mcp/internal/logger"
	"github.com/kailas-cloud/torna-mcp/internal/metrics"
)

// Browser-like defaults required by the upstream access policy.
const (
	DefaultUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 " +
		"(KHTML, like Gecko) Chrome/134.0.0.0 Safari/537.36"
	DefaultOrigin  = "https://torna.hewa.cn"
	DefaultReferer = "https://torna.hewa.cn/"
	DefaultTimeout = 30 * time.Second

	successCode = "0"
)

const (
	endpointModules = "module/list"
	endpointDocs    = "doc/list"
	endpointDetail  = "doc/view/detail"
	endpointProject = "doc/view"
)

var schemeRe = regexp.MustCompile(`(?i)^https?://`)

// Config holds the upstream client settings.
type Config struct {
	BaseURL    string
	Token      string
	Origin     string
	Referer    string
	UserAgent  string
	Timeout    time.Duration
	HTTPClient *http.Client
	Logger     *zap.Logger
}

// Client talks to the Torna open API. It holds no mutable state and is safe for concurrent use.
type Client struct {
	baseURL string
	headers http.Header
	http    *http.Client
	logger  *zap.Logger
}

// New validates the configuration and builds a client bound to the normalized base URL.
func New(cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, fmt.Errorf("torna API URL is not configured: %w", domain.ErrConfig)
	}
	if strings.TrimSpace(cfg.Token) == "" {
		return nil, fmt.Errorf("torna API token is not configured: %w", domain.ErrConfig)
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	baseURL, err := NormalizeBaseURL(cfg.BaseURL)
	if err != nil {
		logger.Error("invalid torna API URL", zap.String("url", cfg.BaseURL), zap.Error(err))
		return nil, err
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	h := make(http.Header)
	h.Set("Content-Type", "application/json")
	h.Set("Accept", "application/json, text/plain, */*")
	h.Set("Authorization", "Bearer "+cfg.Token)
	h.Set("User-Agent", orDefault(cfg.UserAgent, DefaultUserAgent))
	h.Set("Origin", orDefault(cfg.Origin, DefaultOrigin))
	h.Set("Referer", orDefault(cfg.Referer, DefaultReferer))

	logger.Info("torna client created", zap.String("base_url", baseURL))

	return &Client{
		baseURL: baseURL,
		headers: h,
		http:    httpClient,
		logger:  logger,
	}, nil
}

// NormalizeBaseURL prefixes a missing scheme with https://, validates the result
// and guarantees a trailing slash.
func NormalizeBaseURL(raw string) (string, error) {
	base := strings.TrimSpace(raw)
	if !schemeRe.MatchString(base) {
		base = "https://" + base
	}

	u, err := url.Parse(base)
	if err != nil || u.Host == "" {
		return "", fmt.Errorf("invalid torna API URL %q: %w", base, domain.ErrConfig)
	}

	if !strings.HasSuffix(base, "/") {
		base += "/"
	}
	return base, nil
}

// BaseURL returns the normalized base URL.
func (c *Client) BaseURL() string { return c.baseURL }

// ListModules returns the modules of a project. A non-array payload yields no
// modules; null and malformed elements are skipped.
func (c *Client) ListModules(ctx context.Context, projectID string) ([]module.Module, error) {
	var raw json.RawMessage
	if err := c.get(ctx, endpointModules, url.Values{"projectId": {projectID}}, &raw); err != nil {
		return nil, fmt.Errorf("list modules of project %s: %w", projectID, err)
	}

	dtos, skipped := decodeArray[moduleDTO](raw)
	c.logSkipped(ctx, endpointModules, skipped)

	modules := make([]module.Module, 0, len(dtos))
	for _, d := range dtos {
		modules = append(modules, d.toDomain())
	}
	return modules, nil
}

// ListDocs returns the flat document tree of a module. A non-array payload
// yields no nodes; null and malformed elements are skipped.
func (c *Client) ListDocs(ctx context.Context, moduleID string) ([]doctree.Node, error) {
	var raw json.RawMessage
	if err := c.get(ctx, endpointDocs, url.Values{"moduleId": {moduleID}}, &raw); err != nil {
		return nil, fmt.Errorf("list docs of module %s: %w", moduleID, err)
	}

	dtos, skipped := decodeArray[nodeDTO](raw)
	c.logSkipped(ctx, endpointDocs, skipped)

	nodes := make([]doctree.Node, 0, len(dtos))
	for _, d := range dtos {
		nodes = append(nodes, d.toDomain())
	}
	return nodes, nil
}

// DocDetail returns one document with its parameters. A null payload yields nil.
func (c *Client) DocDetail(ctx context.Context, id string) (*doctree.Node, error) {
	var dto *nodeDTO
	if err := c.get(ctx, endpointDetail, url.Values{"id": {id}}, &dto); err != nil {
		return nil, fmt.Errorf("get doc detail %s: %w", id, err)
	}
	if dto == nil {
		return nil, nil
	}
	node := dto.toDomain()
	return &node, nil
}

// ProjectInfo returns the raw project document.
func (c *Client) ProjectInfo(ctx context.Context, projectID string) (json.RawMessage, error) {
	var raw json.RawMessage
	if err := c.get(ctx, endpointProject, url.Values{"id": {projectID}}, &raw); err != nil {
		return nil, fmt.Errorf("get project info %s: %w", projectID, err)
	}
	return raw, nil
}

func (c *Client) logSkipped(ctx context.Context, endpoint string, skipped []error) {
	for _, err := range skipped {
		logpkg.Scoped(ctx, c.logger).Warn("skipping malformed torna element", zap.String("url", endpoint), zap.Error(err))
	}
}

// get sends one GET request, checks the envelope and decodes its payload into out.
func (c *Client) get(ctx context.Context, path string, query url.Values, out any) (err error) {
	endpoint := strings.TrimPrefix(path, "/")
	target := c.baseURL + endpoint
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	log := logpkg.Scoped(ctx, c.logger)
	start := time.Now()
	status := "ok"
	defer func() {
		switch {
		case errors.Is(err, domain.ErrUpstream):
			status = "upstream_error"
		case err != nil:
			status = "transport_error"
		}
		metrics.UpstreamRequestsTotal.WithLabelValues(endpoint, status).Inc()
		metrics.UpstreamRequestDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, http.NoBody)
	if err != nil {
		log.Error("invalid torna request URL", zap.String("url", target), zap.Error(err))
		return fmt.Errorf("build request %s: %v: %w", target, err, domain.ErrTransport)
	}
	req.Header = c.headers.Clone()
	if id := logpkg.RequestID(ctx); id != "" {
		req.Header.Set("X-Request-ID", id)
	}

	log.Info("sending request to torna", zap.String("url", endpoint))

	resp, err := c.http.Do(req)
	if err != nil {
		var urlErr *url.Error
		if errors.As(err, &urlErr) {
			log.Error("torna request failed", zap.String("url", urlErr.URL), zap.Error(err))
		} else {
			log.Error("torna request failed", zap.Error(err))
		}
		return fmt.Errorf("request %s: %v: %w", endpoint, err, domain.ErrTransport)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Error("read torna response", zap.String("url", endpoint), zap.Error(err))
		return fmt.Errorf("read response %s: %v: %w", endpoint, err, domain.ErrTransport)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		log.Error("torna responded with non-2xx status",
			zap.String("url", endpoint), zap.Int("status", resp.StatusCode))
		return fmt.Errorf("request %s: unexpected status %d: %w", endpoint, resp.StatusCode, domain.ErrTransport)
	}

	data, err := decodeEnvelope(body)
	if err != nil {
		log.Error("torna response error", zap.String("url", endpoint), zap.Error(err))
		return err
	}

	if len(data) == 0 {
		data = json.RawMessage("null")
	}
	if err := json.Unmarshal(data, out); err != nil {
		log.Error("decode torna payload", zap.String("url", endpoint), zap.Error(err))
		return fmt.Errorf("decode payload %s: %v: %w", endpoint, err, domain.ErrTransport)
	}
	return nil
}

// decodeEnvelope unwraps {code, message|msg, data}. Success only for the JSON string "0".
func decodeEnvelope(body []byte) (json.RawMessage, error) {
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("unrecognized envelope: %v: %w", err, domain.ErrTransport)
	}
	if env.Code == nil {
		return nil, fmt.Errorf("unrecognized envelope: missing code: %w", domain.ErrTransport)
	}

	var code string
	if json.Unmarshal(*env.Code, &code) == nil && code == successCode {
		return env.Data, nil
	}
	if code == "" {
		code = strings.Trim(string(*env.Code), `"`)
	}

	msg := string(env.Message)
	if msg == "" {
		msg = string(env.Msg)
	}
	if msg == "" {
		msg = "unknown error"
	}
	return nil, domain.NewUpstreamError(code, msg)
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}
