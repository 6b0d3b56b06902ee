package apidocs

import (
	"context"
	"encoding/json"

	"github.com/kailas-cloud/torna-mcp/internal/domain/doctree"
	"github.com/kailas-cloud/torna-mcp/internal/domain/module"
)

// Upstream is the documentation platform the pipeline reads from.
type Upstream interface {
	ListModules(ctx context.Context, projectID string) ([]module.Module, error)
	ListDocs(ctx context.Context, moduleID string) ([]doctree.Node, error)
	DocDetail(ctx context.Context, id string) (*doctree.Node, error)
	ProjectInfo(ctx context.Context, projectID string) (json.RawMessage, error)
}
