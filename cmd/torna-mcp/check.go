package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/kailas-cloud/torna-mcp/internal/domain/apidoc"
	"github.com/kailas-cloud/torna-mcp/internal/domain/catalog"
	"github.com/kailas-cloud/torna-mcp/internal/domain/module"
)

// checkTarget is the slice of the documentation pipeline the check command walks through.
type checkTarget interface {
	ProjectInfo(ctx context.Context, projectID string) (json.RawMessage, error)
	Modules(ctx context.Context, projectID string) ([]module.Module, error)
	ListAll(ctx context.Context, projectID string, limit int) ([]catalog.Summary, error)
	Search(ctx context.Context, apiName, projectID string) (apidoc.SearchResult, error)
}

// runCheck exercises project info, modules, a short listing and a keyword search,
// reporting each step to out. The listing and search are skipped for a project without modules.
func runCheck(ctx context.Context, p checkTarget, out io.Writer, projectID, keyword string) error {
	fmt.Fprintln(out, "1. project info")
	info, err := p.ProjectInfo(ctx, projectID)
	if err != nil {
		return fmt.Errorf("check project info: %w", err)
	}
	fmt.Fprintf(out, "   %s\n", info)

	fmt.Fprintln(out, "2. modules")
	mods, err := p.Modules(ctx, projectID)
	if err != nil {
		return fmt.Errorf("check modules: %w", err)
	}
	fmt.Fprintf(out, "   %d module(s)\n", len(mods))
	for i, m := range mods {
		fmt.Fprintf(out, "   %d. %s (id: %s)\n", i+1, m.Name(), m.ID())
	}

	if len(mods) > 0 {
		fmt.Fprintf(out, "3. first %d APIs\n", checkListLimit)
		apis, err := p.ListAll(ctx, projectID, checkListLimit)
		if err != nil {
			return fmt.Errorf("check api listing: %w", err)
		}
		for i, api := range apis {
			fmt.Fprintf(out, "   %d. %s - %s %s\n", i+1, api.Name, api.HTTPMethod, api.URL)
		}

		fmt.Fprintf(out, "4. search %q\n", keyword)
		res, err := p.Search(ctx, keyword, projectID)
		if err != nil {
			return fmt.Errorf("check search: %w", err)
		}
		if doc, ok := res.Document(); ok {
			fmt.Fprintf(out, "   1 match: %s - %s %s\n", doc.Name, doc.Method, doc.URL)
		} else {
			fmt.Fprintf(out, "   %s\n", res.Message())
			for i, doc := range res.APIs() {
				fmt.Fprintf(out, "   %d. %s - %s %s\n", i+1, doc.Name, doc.Method, doc.URL)
			}
		}
	}

	fmt.Fprintln(out, "OK: torna is reachable")
	return nil
}
