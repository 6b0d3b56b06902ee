package chi

import (
	"context"

	"github.com/kailas-cloud/torna-mcp/internal/domain/apidoc"
	"github.com/kailas-cloud/torna-mcp/internal/domain/catalog"
	healthuc "github.com/kailas-cloud/torna-mcp/internal/usecase/health"
)

// APIDocs is the documentation pipeline served by the HTTP facade.
type APIDocs interface {
	Search(ctx context.Context, apiName, projectID string) (apidoc.SearchResult, error)
	ListAll(ctx context.Context, projectID string, limit int) ([]catalog.Summary, error)
	Detail(ctx context.Context, id string) (apidoc.Document, error)
}

// HealthChecker reports upstream readiness.
type HealthChecker interface {
	Check(ctx context.Context) healthuc.Report
}
