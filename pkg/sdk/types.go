package tornamcp

import (
	"encoding/json"
	"fmt"
)

// Tool names served under /mcp/invoke.
const (
	ToolSearchDocs = "get_torna_api_docs"
	ToolListAPIs   = "list_all_torna_apis"
	ToolAPIDetail  = "get_api_detail"
)

// Tool is a tool definition from GET /mcp/tools.
type Tool struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Parameters  struct {
		Properties map[string]ToolParameter `json:"properties"`
		Required   []string                 `json:"required"`
	} `json:"parameters"`
}

// ToolParameter describes one tool argument.
type ToolParameter struct {
	Type        string `json:"type"`
	Description string `json:"description"`
}

// Document is a normalized API document.
type Document struct {
	Message     string `json:"message,omitempty"`
	Name        string `json:"name"`
	Method      string `json:"method"`
	URL         string `json:"url"`
	Description string `json:"description"`
	ContentType string `json:"contentType"`
	Request     struct {
		Headers []RequestParam `json:"headers"`
		Params  []RequestParam `json:"params"`
	} `json:"request"`
	Response struct {
		Params []ResponseParam `json:"params"`
	} `json:"response"`
}

// RequestParam is a request header or parameter.
type RequestParam struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Required    bool   `json:"required"`
	Description string `json:"description"`
	Example     string `json:"example"`
}

// ResponseParam is a response parameter with its nested children.
type ResponseParam struct {
	Name        string          `json:"name"`
	Type        string          `json:"type"`
	Description string          `json:"description"`
	Example     string          `json:"example"`
	Children    []ResponseParam `json:"children,omitempty"`
}

// Summary is one row of the API listing.
type Summary struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	URL         string `json:"url"`
	HTTPMethod  string `json:"httpMethod"`
	Description string `json:"description"`
	Deprecated  bool   `json:"deprecated"`
	ModuleName  string `json:"moduleName"`
}

// SearchResult is the outcome of SearchAPIs. Document is set when exactly one
// API matched; otherwise Message and APIs describe zero or several matches.
type SearchResult struct {
	Document *Document
	Message  string
	APIs     []Document
}

// UnmarshalJSON accepts both the bare single-document shape and {message, apis}.
func (r *SearchResult) UnmarshalJSON(data []byte) error {
	var list struct {
		Message string      `json:"message"`
		APIs    *[]Document `json:"apis"`
	}
	if err := json.Unmarshal(data, &list); err != nil {
		return fmt.Errorf("decode search result: %w", err)
	}
	if list.APIs != nil {
		*r = SearchResult{Message: list.Message, APIs: *list.APIs}
		return nil
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("decode search result: %w", err)
	}
	*r = SearchResult{Document: &doc}
	return nil
}
