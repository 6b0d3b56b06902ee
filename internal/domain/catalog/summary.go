// Package catalog holds the simplified API listing record and its parameters.
package catalog

import "github.com/kailas-cloud/torna-mcp/internal/domain/doctree"

// DeprecatedSentinel is the only upstream value that marks a document deprecated.
const DeprecatedSentinel = "$true$"

// Summary is one row of the "list all" operation.
type Summary struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	URL         string `json:"url"`
	HTTPMethod  string `json:"httpMethod"`
	Description string `json:"description"`
	Deprecated  bool   `json:"deprecated"`
	ModuleName  string `json:"moduleName"`
}

// FromNode maps an API node and its module display name into a Summary.
func FromNode(n *doctree.Node, moduleName string) Summary {
	method := n.HTTPMethod
	if method == "" {
		method = "GET"
	}
	return Summary{
		ID:          n.ID,
		Name:        n.Name,
		URL:         n.URL,
		HTTPMethod:  method,
		Description: n.Description,
		Deprecated:  IsDeprecated(n.Deprecated),
		ModuleName:  moduleName,
	}
}

// IsDeprecated reports whether the upstream sentinel marks a document deprecated.
func IsDeprecated(sentinel string) bool {
	return sentinel == DeprecatedSentinel
}
