package mcp

import (
	"context"

	"github.com/kailas-cloud/torna-mcp/internal/domain/apidoc"
	"github.com/kailas-cloud/torna-mcp/internal/domain/catalog"
)

// APIDocs is the documentation pipeline exposed as tools.
type APIDocs interface {
	Search(ctx context.Context, apiName, projectID string) (apidoc.SearchResult, error)
	ListAll(ctx context.Context, projectID string, limit int) ([]catalog.Summary, error)
	Detail(ctx context.Context, id string) (apidoc.Document, error)
}
