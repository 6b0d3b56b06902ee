package chi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/torna-mcp/internal/domain"
	"github.com/kailas-cloud/torna-mcp/internal/domain/catalog"
	logpkg "github.com/kailas-cloud/torna-mcp/internal/logger"
	"github.com/kailas-cloud/torna-mcp/internal/metrics"
	healthuc "github.com/kailas-cloud/torna-mcp/internal/usecase/health"
)

const maxBodyBytes = 1 << 20

// ServiceInfo is rendered at GET /.
type ServiceInfo struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Version     string   `json:"version"`
	Endpoints   []string `json:"endpoints"`
}

// Server is the HTTP facade over the API documentation pipeline.
type Server struct {
	docs    APIDocs
	health  HealthChecker
	logger  *zap.Logger
	version string
}

// NewServer creates an HTTP API server. health may be nil.
func NewServer(docs APIDocs, health HealthChecker, logger *zap.Logger, version string) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{docs: docs, health: health, logger: logger, version: version}
}

// Handler builds the router with the full middleware chain.
func (s *Server) Handler(apiKeys []string) http.Handler {
	r := chi.NewRouter()
	r.Use(jsonRecoverer(s.logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(s.logger))
	r.Use(newKeyring(apiKeys, s.logger).Middleware)
	r.Use(metrics.Middleware())

	r.Get("/", s.Info)
	r.Get("/health", s.Liveness)
	r.Get("/ready", s.Readiness)
	r.Get("/metrics", promhttp.Handler().ServeHTTP)

	r.Route("/mcp", func(r chi.Router) {
		r.Get("/tools", s.ListTools)
		r.Post("/invoke/"+ToolSearchDocs, s.SearchDocs)
		r.Post("/invoke/"+ToolListAPIs, s.ListAPIs)
		r.Post("/invoke/"+ToolAPIDetail, s.APIDetail)
	})

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	})
	return r
}

// Info handles GET /.
func (s *Server) Info(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, ServiceInfo{
		Name:        "Torna MCP",
		Description: "Adapter serving Torna API documentation over HTTP and MCP",
		Version:     s.version,
		Endpoints: []string{
			"/mcp/tools - list available tool definitions",
			"/mcp/invoke/" + ToolSearchDocs + " - search API documents by name",
			"/mcp/invoke/" + ToolListAPIs + " - list all APIs",
			"/mcp/invoke/" + ToolAPIDetail + " - get API details by ID",
		},
	})
}

// ListTools handles GET /mcp/tools.
func (s *Server) ListTools(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"tools": Tools()})
}

// SearchDocs handles POST /mcp/invoke/get_torna_api_docs.
func (s *Server) SearchDocs(w http.ResponseWriter, r *http.Request) {
	args, ok := readArgs(w, r)
	if !ok {
		return
	}

	apiName, isString := args["apiName"].(string)
	if !isString || (apiName != "" && strings.TrimSpace(apiName) == "") {
		writeError(w, http.StatusBadRequest, "invalid apiName parameter")
		return
	}
	projectID, ok := optionalString(args, "projectId")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid projectId parameter")
		return
	}

	s.log(r).Info("search api docs", zap.String("api_name", apiName))

	res, err := s.docs.Search(r.Context(), apiName, projectID)
	if err != nil {
		s.handleError(w, r, "query Torna API docs failed", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"result": res})
}

// ListAPIs handles POST /mcp/invoke/list_all_torna_apis.
func (s *Server) ListAPIs(w http.ResponseWriter, r *http.Request) {
	args, ok := readArgs(w, r)
	if !ok {
		return
	}

	projectID, ok := optionalString(args, "projectId")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid projectId parameter")
		return
	}
	// Absent limit defers to the configured default.
	limit := 0
	if v, present := args["limit"]; present && v != nil {
		limit = catalog.ParseLimit(v)
	}

	res, err := s.docs.ListAll(r.Context(), projectID, limit)
	if err != nil {
		s.handleError(w, r, "list Torna APIs failed", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"result": res})
}

// APIDetail handles POST /mcp/invoke/get_api_detail.
func (s *Server) APIDetail(w http.ResponseWriter, r *http.Request) {
	args, ok := readArgs(w, r)
	if !ok {
		return
	}

	var id string
	switch v := args["apiId"].(type) {
	case string:
		id = v
	case json.Number:
		id = v.String()
	}
	if id == "" {
		writeError(w, http.StatusBadRequest, "apiId is required")
		return
	}

	s.log(r).Info("get api detail", zap.String("api_id", id))

	doc, err := s.docs.Detail(r.Context(), id)
	if err != nil {
		s.handleError(w, r, "get API detail failed", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"result": doc})
}

// Liveness handles GET /health.
func (s *Server) Liveness(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Readiness handles GET /ready.
func (s *Server) Readiness(w http.ResponseWriter, r *http.Request) {
	if s.health == nil {
		writeJSON(w, http.StatusOK, map[string]any{"status": healthuc.Healthy, "checks": map[string]string{}})
		return
	}

	report := s.health.Check(r.Context())
	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}
	writeJSON(w, httpStatus, map[string]any{"status": report.Status, "checks": report.Checks})
}

// readArgs decodes the JSON object body. An empty body is an empty object.
func readArgs(w http.ResponseWriter, r *http.Request) (map[string]any, bool) {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.UseNumber()

	var args map[string]any
	if err := dec.Decode(&args); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return nil, false
	}
	if args == nil {
		args = map[string]any{}
	}
	return args, true
}

// optionalString returns the string at key. Absent and null are "".
func optionalString(args map[string]any, key string) (string, bool) {
	switch v := args[key].(type) {
	case nil:
		return "", true
	case string:
		return v, true
	default:
		return "", false
	}
}

func (s *Server) handleError(w http.ResponseWriter, r *http.Request, op string, err error) {
	if errors.Is(err, domain.ErrValidation) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.log(r).Error(op, zap.Error(err))
	writeJSON(w, http.StatusInternalServerError, errorResponse{Error: op, Message: err.Error()})
}

// log prefers the request-scoped logger set by wideEventMiddleware.
func (s *Server) log(r *http.Request) *zap.Logger {
	return logpkg.Scoped(r.Context(), s.logger)
}

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}
