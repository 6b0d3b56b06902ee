package health

import (
	"context"

	"github.com/kailas-cloud/torna-mcp/internal/domain/module"
)

// ModuleLister lists project modules; a successful call proves the upstream is reachable
// and the credential is accepted.
type ModuleLister interface {
	ListModules(ctx context.Context, projectID string) ([]module.Module, error)
}
