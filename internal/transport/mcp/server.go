// Package mcp serves the documentation pipeline as Model Context Protocol tools over stdio.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/torna-mcp/internal/domain/catalog"
)

// Tool names.
const (
	ToolSearchDocs = "get_torna_api_docs"
	ToolListAPIs   = "list_all_torna_apis"
	ToolAPIDetail  = "get_torna_api_detail"
)

// SearchArgs are the arguments of get_torna_api_docs.
type SearchArgs struct {
	APIName   string `json:"apiName" jsonschema:"API name or keyword"`
	ProjectID string `json:"projectId,omitempty" jsonschema:"Optional Torna project ID"`
}

// ListArgs are the arguments of list_all_torna_apis. Limit is left untyped so
// strings and numbers both reach the handler instead of failing schema validation.
type ListArgs struct {
	ProjectID string `json:"projectId,omitempty" jsonschema:"Optional Torna project ID"`
	Limit     any    `json:"limit,omitempty" jsonschema:"Optional maximum number of APIs to return"`
}

// DetailArgs are the arguments of get_torna_api_detail. APIID accepts a string or a number.
type DetailArgs struct {
	APIID     any    `json:"apiId,omitempty" jsonschema:"Unique API identifier"`
	ProjectID string `json:"projectId,omitempty" jsonschema:"Optional Torna project ID"`
}

// Server exposes the documentation pipeline as MCP tools.
type Server struct {
	docs   APIDocs
	server *mcp.Server
	logger *zap.Logger
}

// NewServer creates the tool server and registers its tools. logger may be nil.
func NewServer(docs APIDocs, name, version string, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Server{
		docs:   docs,
		server: mcp.NewServer(&mcp.Implementation{Name: name, Version: version}, nil),
		logger: logger,
	}

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        ToolSearchDocs,
		Description: "Get API documentation from Torna by API name or keyword",
	}, s.searchDocs)
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        ToolListAPIs,
		Description: "List all available Torna APIs",
	}, s.listAPIs)
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        ToolAPIDetail,
		Description: "Get the full details of one Torna API",
	}, s.apiDetail)

	return s
}

// Serve runs the server over stdin/stdout until the client disconnects or ctx is done.
func (s *Server) Serve(ctx context.Context) error {
	s.logger.Info("torna MCP server started on stdio")
	if err := s.server.Run(ctx, &mcp.StdioTransport{}); err != nil {
		return fmt.Errorf("run mcp server: %w", err)
	}
	return nil
}

// Connect attaches the server to an arbitrary transport.
func (s *Server) Connect(ctx context.Context, t mcp.Transport) (*mcp.ServerSession, error) {
	session, err := s.server.Connect(ctx, t, nil)
	if err != nil {
		return nil, fmt.Errorf("connect mcp server: %w", err)
	}
	return session, nil
}

func (s *Server) searchDocs(ctx context.Context, _ *mcp.CallToolRequest, in SearchArgs) (*mcp.CallToolResult, any, error) {
	res, err := s.docs.Search(ctx, in.APIName, in.ProjectID)
	return s.toolResult(ToolSearchDocs, res, err), nil, nil
}

func (s *Server) listAPIs(ctx context.Context, _ *mcp.CallToolRequest, in ListArgs) (*mcp.CallToolResult, any, error) {
	// Absent defers to the configured default.
	limit := 0
	if in.Limit != nil {
		limit = catalog.ParseLimit(in.Limit)
	}
	res, err := s.docs.ListAll(ctx, in.ProjectID, limit)
	return s.toolResult(ToolListAPIs, res, err), nil, nil
}

func (s *Server) apiDetail(ctx context.Context, _ *mcp.CallToolRequest, in DetailArgs) (*mcp.CallToolResult, any, error) {
	res, err := s.docs.Detail(ctx, apiID(in.APIID))
	return s.toolResult(ToolAPIDetail, res, err), nil, nil
}

// apiID stringifies a string or numeric id. Other kinds yield "", which the
// pipeline rejects as a validation error.
func apiID(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	default:
		return ""
	}
}

// toolResult renders v as indented JSON text, or err as an error-flagged text.
func (s *Server) toolResult(tool string, v any, err error) *mcp.CallToolResult {
	if err == nil {
		var data []byte
		data, err = json.MarshalIndent(v, "", "  ")
		if err == nil {
			return &mcp.CallToolResult{Content: []mcp.Content{&mcp.TextContent{Text: string(data)}}}
		}
	}

	s.logger.Error("tool call failed", zap.String("tool", tool), zap.Error(err))
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{&mcp.TextContent{Text: "error: " + err.Error()}},
	}
}
