package apidocs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/kailas-cloud/torna-mcp/internal/domain"
	"github.com/kailas-cloud/torna-mcp/internal/domain/apidoc"
	"github.com/kailas-cloud/torna-mcp/internal/domain/catalog"
	"github.com/kailas-cloud/torna-mcp/internal/domain/doctree"
	"github.com/kailas-cloud/torna-mcp/internal/domain/keyword"
	"github.com/kailas-cloud/torna-mcp/internal/domain/module"
	"github.com/kailas-cloud/torna-mcp/internal/logger"
	"github.com/kailas-cloud/torna-mcp/internal/metrics"
)

// Config holds pipeline defaults resolved once at startup.
type Config struct {
	DefaultProjectID string
	DefaultLimit     int
}

// Service aggregates API documents across the modules of a project.
type Service struct {
	upstream Upstream
	cfg      Config
	logger   *zap.Logger
}

// New creates an API documentation service. logger may be nil.
func New(upstream Upstream, cfg Config, logger *zap.Logger) *Service {
	if cfg.DefaultLimit <= 0 {
		cfg.DefaultLimit = catalog.DefaultLimit
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{upstream: upstream, cfg: cfg, logger: logger}
}

// DefaultProjectID returns the project used when a caller omits one.
func (s *Service) DefaultProjectID() string { return s.cfg.DefaultProjectID }

// Search returns the API documents whose name contains apiName, case-insensitively.
// A blank apiName matches every document.
func (s *Service) Search(ctx context.Context, apiName, projectID string) (apidoc.SearchResult, error) {
	projectID, err := s.resolveProject(projectID)
	if err != nil {
		return apidoc.SearchResult{}, err
	}

	matcher := keyword.New(apiName)
	log := s.log(ctx).With(zap.String("project_id", projectID), zap.String("keyword", matcher.Keyword()))

	var matched []doctree.Node
	mods, err := s.walk(ctx, log, projectID, func(_ module.Module, leaves []doctree.Node) {
		for i := range leaves {
			if !matcher.Active() || matcher.Match(leaves[i].Name) {
				matched = append(matched, leaves[i])
			}
		}
	})
	if err != nil {
		return apidoc.SearchResult{}, fmt.Errorf("search api docs: %w", err)
	}
	if len(mods) == 0 {
		return apidoc.Matches(apidoc.NoModulesMessage, nil), nil
	}

	log.Debug("api docs matched", zap.Int("count", len(matched)))
	return apidoc.NormalizeAll(matched), nil
}

// ListAll returns up to limit API summaries across all modules of the project.
// A non-positive limit falls back to the configured default.
func (s *Service) ListAll(ctx context.Context, projectID string, limit int) ([]catalog.Summary, error) {
	projectID, err := s.resolveProject(projectID)
	if err != nil {
		return nil, err
	}
	limit = catalog.Resolve(limit, s.cfg.DefaultLimit)
	log := s.log(ctx).With(zap.String("project_id", projectID), zap.Int("limit", limit))

	type tagged struct {
		node     doctree.Node
		moduleID string
	}

	var all []tagged
	mods, err := s.walk(ctx, log, projectID, func(m module.Module, leaves []doctree.Node) {
		for i := range leaves {
			id := leaves[i].ModuleID
			if id == "" {
				id = m.ID()
			}
			all = append(all, tagged{node: leaves[i], moduleID: id})
		}
	})
	if err != nil {
		return nil, fmt.Errorf("list all api docs: %w", err)
	}
	if len(mods) == 0 {
		return []catalog.Summary{}, nil
	}

	if len(all) > limit {
		log.Debug("api list truncated", zap.Int("total", len(all)))
		all = all[:limit]
	}

	names := module.IndexNames(mods)
	out := make([]catalog.Summary, len(all))
	for i := range all {
		out[i] = catalog.FromNode(&all[i].node, names.Lookup(all[i].moduleID))
	}
	return out, nil
}

// Detail fetches one API document by id and normalizes it.
func (s *Service) Detail(ctx context.Context, id string) (apidoc.Document, error) {
	if strings.TrimSpace(id) == "" {
		return apidoc.Document{}, fmt.Errorf("api id is required: %w", domain.ErrValidation)
	}

	node, err := s.upstream.DocDetail(ctx, id)
	if err != nil {
		s.log(ctx).Error("fetch api detail failed", zap.String("api_id", id), zap.Error(err))
		return apidoc.Document{}, fmt.Errorf("get api detail: %w", err)
	}
	return apidoc.Normalize(node), nil
}

// ProjectInfo returns the raw upstream project document.
func (s *Service) ProjectInfo(ctx context.Context, projectID string) (json.RawMessage, error) {
	projectID, err := s.resolveProject(projectID)
	if err != nil {
		return nil, err
	}

	info, err := s.upstream.ProjectInfo(ctx, projectID)
	if err != nil {
		s.log(ctx).Error("fetch project info failed", zap.String("project_id", projectID), zap.Error(err))
		return nil, fmt.Errorf("get project info: %w", err)
	}
	return info, nil
}

// Modules returns the modules of a project.
func (s *Service) Modules(ctx context.Context, projectID string) ([]module.Module, error) {
	projectID, err := s.resolveProject(projectID)
	if err != nil {
		return nil, err
	}

	mods, err := s.upstream.ListModules(ctx, projectID)
	if err != nil {
		s.log(ctx).Error("fetch modules failed", zap.String("project_id", projectID), zap.Error(err))
		return nil, fmt.Errorf("fetch modules: %w", err)
	}
	return mods, nil
}

// walk lists the project's modules and visits the flattened API nodes of each one,
// sequentially. Modules without an id or whose fetch fails are logged and skipped.
// When every attempted module fails, the joined causes are returned.
func (s *Service) walk(
	ctx context.Context, log *zap.Logger, projectID string,
	visit func(m module.Module, leaves []doctree.Node),
) ([]module.Module, error) {
	mods, err := s.upstream.ListModules(ctx, projectID)
	if err != nil {
		log.Error("fetch modules failed", zap.Error(err))
		return nil, fmt.Errorf("fetch modules: %w", err)
	}
	if len(mods) == 0 {
		log.Info("project has no modules")
		return nil, nil
	}

	var (
		attempted int
		failures  []error
	)
	for _, m := range mods {
		if m.ID() == "" {
			log.Warn("skipping module without id", zap.String("module", m.Name()))
			continue
		}

		attempted++
		nodes, err := s.upstream.ListDocs(ctx, m.ID())
		if err != nil {
			metrics.ModuleFetchFailuresTotal.Inc()
			log.Error("fetch module docs failed, skipping",
				zap.String("module_id", m.ID()), zap.String("module", m.Label()), zap.Error(err))
			failures = append(failures, fmt.Errorf("module %s: %w", m.ID(), err))
			continue
		}

		visit(m, doctree.Flatten(nodes))
	}

	if attempted > 0 && len(failures) == attempted {
		return nil, fmt.Errorf("all %d module fetches failed: %w: %w",
			attempted, domain.ErrUpstream, errors.Join(failures...))
	}
	return mods, nil
}

func (s *Service) resolveProject(projectID string) (string, error) {
	if strings.TrimSpace(projectID) != "" {
		return projectID, nil
	}
	if s.cfg.DefaultProjectID != "" {
		return s.cfg.DefaultProjectID, nil
	}
	return "", fmt.Errorf("project id is required: %w", domain.ErrValidation)
}

// log prefers the request-scoped logger.
func (s *Service) log(ctx context.Context) *zap.Logger {
	return logger.Scoped(ctx, s.logger)
}
