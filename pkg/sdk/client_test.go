package tornamcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

// --- Helpers ---

type recorded struct {
	method string
	path   string
	auth   string
	args   map[string]any
}

func newTestServer(t *testing.T, status int, body string, rec *recorded) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if rec != nil {
			rec.method, rec.path, rec.auth = r.Method, r.URL.Path, r.Header.Get("Authorization")
			data, _ := io.ReadAll(r.Body)
			if len(data) > 0 {
				_ = json.Unmarshal(data, &rec.args)
			}
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newTestClient(t *testing.T, srv *httptest.Server, opts ...Option) *Client {
	t.Helper()
	c, err := New(srv.URL+"/", opts...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return c
}

// --- Tests ---

func TestNew_InvalidBaseURL(t *testing.T) {
	for _, raw := range []string{"", "   ", "localhost:3000", "://bad"} {
		if _, err := New(raw); err == nil {
			t.Errorf("New(%q): expected error", raw)
		}
	}
}

func TestClientOptions(t *testing.T) {
	cfg := &clientConfig{}

	hc := &http.Client{}
	WithHTTPClient(hc).apply(cfg)
	if cfg.httpClient != hc {
		t.Error("expected http client to be set")
	}

	WithAPIKey("secret").apply(cfg)
	if cfg.apiKey != "secret" {
		t.Errorf("apiKey = %q", cfg.apiKey)
	}

	logger := slog.Default()
	WithLogger(logger).apply(cfg)
	if cfg.logger != logger {
		t.Error("expected logger to be set")
	}

	reg := prometheus.NewRegistry()
	WithPrometheus(reg).apply(cfg)
	if cfg.metricsReg != reg {
		t.Error("expected metricsReg to be set")
	}
}

func TestTools(t *testing.T) {
	var rec recorded
	srv := newTestServer(t, http.StatusOK, `{"tools":[{"name":"get_torna_api_docs","description":"d",
		"parameters":{"properties":{"apiName":{"type":"string","description":"API name"}},"required":["apiName"]}}]}`, &rec)

	tools, err := newTestClient(t, srv, WithAPIKey("k1")).Tools(context.Background())
	if err != nil {
		t.Fatalf("Tools: %v", err)
	}
	if rec.method != http.MethodGet || rec.path != "/mcp/tools" {
		t.Errorf("request = %s %s", rec.method, rec.path)
	}
	if rec.auth != "Bearer k1" {
		t.Errorf("auth = %q", rec.auth)
	}
	if len(tools) != 1 || tools[0].Name != ToolSearchDocs || tools[0].Parameters.Required[0] != "apiName" {
		t.Errorf("unexpected tools: %+v", tools)
	}
}

func TestSearchAPIs_Single(t *testing.T) {
	var rec recorded
	srv := newTestServer(t, http.StatusOK,
		`{"result":{"name":"UserLogin","method":"POST","url":"/login","request":{"headers":[],"params":[]},"response":{"params":[]}}}`, &rec)

	res, err := newTestClient(t, srv).SearchAPIs(context.Background(), "login", "p1")
	if err != nil {
		t.Fatalf("SearchAPIs: %v", err)
	}
	if rec.path != "/mcp/invoke/get_torna_api_docs" || rec.args["apiName"] != "login" || rec.args["projectId"] != "p1" {
		t.Errorf("unexpected request: %+v", rec)
	}
	if rec.auth != "" {
		t.Errorf("auth should be empty, got %q", rec.auth)
	}
	if res.Document == nil || res.Document.Name != "UserLogin" || res.APIs != nil {
		t.Errorf("unexpected result: %+v", res)
	}
}

func TestSearchAPIs_List(t *testing.T) {
	var rec recorded
	srv := newTestServer(t, http.StatusOK,
		`{"result":{"message":"found 2 matching APIs","apis":[{"name":"A"},{"name":"B"}]}}`, &rec)

	res, err := newTestClient(t, srv).SearchAPIs(context.Background(), "", "")
	if err != nil {
		t.Fatalf("SearchAPIs: %v", err)
	}
	if _, ok := rec.args["projectId"]; ok {
		t.Error("projectId should be omitted when empty")
	}
	if res.Document != nil || len(res.APIs) != 2 || res.Message != "found 2 matching APIs" {
		t.Errorf("unexpected result: %+v", res)
	}
}

func TestSearchAPIs_NoMatch(t *testing.T) {
	srv := newTestServer(t, http.StatusOK, `{"result":{"message":"no matching API documents found","apis":[]}}`, nil)

	res, err := newTestClient(t, srv).SearchAPIs(context.Background(), "zzz", "")
	if err != nil {
		t.Fatalf("SearchAPIs: %v", err)
	}
	if res.Document != nil || res.APIs == nil || len(res.APIs) != 0 {
		t.Errorf("unexpected result: %+v", res)
	}
}

func TestSearchResult_EmptyDocumentMessage(t *testing.T) {
	var res SearchResult
	if err := json.Unmarshal([]byte(`{"message":"API data is empty","name":"","method":"GET"}`), &res); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if res.Document == nil || res.Document.Message != "API data is empty" {
		t.Errorf("expected single document variant, got %+v", res)
	}
}

func TestListAPIs(t *testing.T) {
	tests := []struct {
		name      string
		limit     int
		wantLimit any
	}{
		{"positive limit sent", 5, float64(5)},
		{"zero limit omitted", 0, nil},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var rec recorded
			srv := newTestServer(t, http.StatusOK,
				`{"result":[{"id":"d1","name":"UserLogin","httpMethod":"POST","deprecated":true,"moduleName":"Users"}]}`, &rec)

			list, err := newTestClient(t, srv).ListAPIs(context.Background(), "", tc.limit)
			if err != nil {
				t.Fatalf("ListAPIs: %v", err)
			}
			if rec.path != "/mcp/invoke/list_all_torna_apis" {
				t.Errorf("path = %s", rec.path)
			}
			if rec.args["limit"] != tc.wantLimit {
				t.Errorf("limit = %v, want %v", rec.args["limit"], tc.wantLimit)
			}
			if len(list) != 1 || !list[0].Deprecated || list[0].ModuleName != "Users" {
				t.Errorf("unexpected list: %+v", list)
			}
		})
	}
}

func TestAPIDetail(t *testing.T) {
	var rec recorded
	srv := newTestServer(t, http.StatusOK, `{"result":{"name":"CreateOrder","method":"POST",
		"request":{"headers":[],"params":[{"name":"sku","type":"string","required":true,"description":"","example":"A1"}]},
		"response":{"params":[{"name":"data","type":"object","description":"","example":"","children":[{"name":"id","type":"string","description":"","example":""}]}]}}}`, &rec)

	doc, err := newTestClient(t, srv).APIDetail(context.Background(), "d3")
	if err != nil {
		t.Fatalf("APIDetail: %v", err)
	}
	if rec.path != "/mcp/invoke/get_api_detail" || rec.args["apiId"] != "d3" {
		t.Errorf("unexpected request: %+v", rec)
	}
	if !doc.Request.Params[0].Required || doc.Response.Params[0].Children[0].Name != "id" {
		t.Errorf("unexpected document: %+v", doc)
	}
}

func TestAPIError(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		sentinel error
		wantCode string
		wantMsg  string
	}{
		{"bad request", 400, `{"error":"apiId is required"}`, ErrBadRequest, "apiId is required", ""},
		{"unauthorized", 401, `{"error":"missing or invalid API key"}`, ErrUnauthorized, "missing or invalid API key", ""},
		{"server", 500, `{"error":"get API detail failed","message":"upstream error 404: doc not found"}`,
			ErrServer, "get API detail failed", "upstream error 404: doc not found"},
		{"non-json", 502, `bad gateway`, ErrServer, "bad gateway", ""},
		{"empty", 404, ``, ErrNotFound, "Not Found", ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			srv := newTestServer(t, tc.status, tc.body, nil)

			_, err := newTestClient(t, srv).APIDetail(context.Background(), "d1")
			if !errors.Is(err, tc.sentinel) {
				t.Fatalf("expected %v, got %v", tc.sentinel, err)
			}
			var apiErr *APIError
			if !errors.As(err, &apiErr) {
				t.Fatalf("expected *APIError, got %T", err)
			}
			if apiErr.StatusCode != tc.status || apiErr.Code != tc.wantCode || apiErr.Message != tc.wantMsg {
				t.Errorf("unexpected APIError: %+v", apiErr)
			}
		})
	}
}

func TestHealth(t *testing.T) {
	t.Run("ok", func(t *testing.T) {
		var rec recorded
		srv := newTestServer(t, http.StatusOK, `{"status":"ok","checks":{"torna":"ok"}}`, &rec)

		h, err := newTestClient(t, srv).Health(context.Background())
		if err != nil {
			t.Fatalf("Health: %v", err)
		}
		if rec.path != "/ready" || h.Status != "ok" || h.Checks["torna"] != "ok" {
			t.Errorf("unexpected health %+v (path %s)", h, rec.path)
		}
	})

	t.Run("degraded is not an error", func(t *testing.T) {
		srv := newTestServer(t, http.StatusServiceUnavailable, `{"status":"degraded","checks":{"torna":"error"}}`, nil)

		h, err := newTestClient(t, srv).Health(context.Background())
		if err != nil {
			t.Fatalf("Health: %v", err)
		}
		if h.Status != "degraded" || h.Checks["torna"] != "error" {
			t.Errorf("unexpected health %+v", h)
		}
	})

	t.Run("unauthorized", func(t *testing.T) {
		srv := newTestServer(t, http.StatusUnauthorized, `{"error":"missing or invalid API key"}`, nil)

		if _, err := newTestClient(t, srv).Health(context.Background()); !errors.Is(err, ErrUnauthorized) {
			t.Errorf("expected ErrUnauthorized, got %v", err)
		}
	})
}

func TestClient_RecordsMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	srv := newTestServer(t, http.StatusOK, `{"tools":[]}`, nil)

	c := newTestClient(t, srv, WithPrometheus(reg))
	if _, err := c.Tools(context.Background()); err != nil {
		t.Fatalf("Tools: %v", err)
	}

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	found := false
	for _, f := range families {
		if f.GetName() == "torna_mcp_sdk_operations_total" {
			found = true
		}
	}
	if !found {
		t.Error("torna_mcp_sdk_operations_total not found")
	}
}

func TestObserver_NilSafe(t *testing.T) {
	var obs *observer
	obs.observe("test", time.Now(), nil)
	obs.observe("test", time.Now(), errors.New("err"))
}

func TestObserver_WithPrometheus(t *testing.T) {
	reg := prometheus.NewRegistry()
	obs, err := newObserver(nil, reg)
	if err != nil {
		t.Fatalf("newObserver: %v", err)
	}

	obs.observe("detail", time.Now().Add(-10*time.Millisecond), nil)
	obs.observe("detail", time.Now(), errors.New("fail"))

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	for _, f := range families {
		if f.GetName() == "torna_mcp_sdk_operations_total" && len(f.GetMetric()) != 2 {
			t.Errorf("expected 2 metric samples, got %d", len(f.GetMetric()))
		}
	}
}

func TestObserver_ReusesRegisteredMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	if _, err := newObserver(nil, reg); err != nil {
		t.Fatalf("first newObserver: %v", err)
	}
	if _, err := newObserver(slog.Default(), reg); err != nil {
		t.Fatalf("second newObserver should reuse collectors: %v", err)
	}
}

func TestObserver_StatusLabels(t *testing.T) {
	obs, err := newObserver(nil, prometheus.NewRegistry())
	if err != nil {
		t.Fatalf("newObserver: %v", err)
	}

	obs.observe("detail", time.Now(), nil)
	obs.observe("detail", time.Now(), fmt.Errorf("api detail: %w", &APIError{StatusCode: 500}))
	obs.observe("detail", time.Now(), errors.New("connection refused"))

	for _, status := range []string{"ok", "api_error", "transport_error"} {
		if got := testutil.ToFloat64(obs.metrics.operations.WithLabelValues("detail", status)); got != 1 {
			t.Errorf("%s count = %v, want 1", status, got)
		}
	}
}
