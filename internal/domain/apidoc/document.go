// Package apidoc holds the adapter's normalized API document shape and the
// mapping from upstream document nodes into it.
package apidoc

// Defaults applied when the upstream record leaves a field empty.
const (
	DefaultMethod      = "GET"
	DefaultContentType = "application/json"
	DefaultParamType   = "string"
)

// EmptyDocumentMessage is attached to documents normalized from a missing record.
const EmptyDocumentMessage = "API data is empty"

// Document is the normalized, fully populated representation of one API document.
type Document struct {
	Message     string   `json:"message,omitempty"`
	Name        string   `json:"name"`
	Method      string   `json:"method"`
	URL         string   `json:"url"`
	Description string   `json:"description"`
	ContentType string   `json:"contentType"`
	Request     Request  `json:"request"`
	Response    Response `json:"response"`
}

// Request groups the documented request headers and parameters.
type Request struct {
	Headers []RequestParam `json:"headers"`
	Params  []RequestParam `json:"params"`
}

// Response groups the documented response parameters.
type Response struct {
	Params []ResponseParam `json:"params"`
}

// RequestParam is a flat header or request parameter.
type RequestParam struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Required    bool   `json:"required"`
	Description string `json:"description"`
	Example     string `json:"example"`
}

// ResponseParam is a response parameter; Children is omitted when empty.
type ResponseParam struct {
	Name        string          `json:"name"`
	Type        string          `json:"type"`
	Description string          `json:"description"`
	Example     string          `json:"example"`
	Children    []ResponseParam `json:"children,omitempty"`
}
