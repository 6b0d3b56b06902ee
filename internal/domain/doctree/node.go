// Package doctree models a module's document tree as delivered by the upstream
// service: a flat list of folder and API nodes linked only by parent identifiers.
package doctree

// Param is one documented header, request or response field.
// ParentID is empty for root-level fields.
type Param struct {
	ID          string
	ParentID    string
	Name        string
	Type        string
	Required    bool
	Description string
	Example     string
}

// Node is one entry of a module's document tree, either a folder or an API document.
type Node struct {
	ID          string
	Name        string
	ParentID    string
	IsFolder    bool
	ModuleID    string
	HTTPMethod  string
	URL         string
	Description string
	ContentType string
	// Deprecated holds the upstream sentinel string verbatim.
	Deprecated string

	HeaderParams   []Param
	RequestParams  []Param
	ResponseParams []Param
}
