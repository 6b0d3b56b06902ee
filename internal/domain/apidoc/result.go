package apidoc

import (
	"encoding/json"
	"fmt"

	"github.com/kailas-cloud/torna-mcp/internal/domain/doctree"
)

// Messages used by the collection-level result.
const (
	NoMatchMessage   = "no matching API documents found"
	NoModulesMessage = "no modules found"
)

// SearchResult is the outcome of a keyword search.
//
// It holds exactly one of two variants: a single matched Document, serialized
// unwrapped, or a message with a (possibly empty) list of Documents.
type SearchResult struct {
	single  *Document
	message string
	apis    []Document
}

// Single creates the exactly-one-match variant.
func Single(doc Document) SearchResult {
	return SearchResult{single: &doc}
}

// Matches creates the zero-or-many variant. A nil apis slice is stored as empty.
func Matches(message string, apis []Document) SearchResult {
	if apis == nil {
		apis = []Document{}
	}
	return SearchResult{message: message, apis: apis}
}

// NormalizeAll maps a list of matched nodes into a SearchResult.
func NormalizeAll(nodes []doctree.Node) SearchResult {
	switch len(nodes) {
	case 0:
		return Matches(NoMatchMessage, nil)
	case 1:
		return Single(Normalize(&nodes[0]))
	}

	docs := make([]Document, len(nodes))
	for i := range nodes {
		docs[i] = Normalize(&nodes[i])
	}
	return Matches(fmt.Sprintf("found %d matching APIs", len(nodes)), docs)
}

// Document returns the single matched document, if this is the single variant.
func (r SearchResult) Document() (Document, bool) {
	if r.single == nil {
		return Document{}, false
	}
	return *r.single, true
}

// Message returns the list variant's message ("" for the single variant).
func (r SearchResult) Message() string { return r.message }

// APIs returns the list variant's documents (nil for the single variant).
func (r SearchResult) APIs() []Document { return r.apis }

// MarshalJSON renders the single variant as the bare document and the list
// variant as {"message": ..., "apis": [...]}.
func (r SearchResult) MarshalJSON() ([]byte, error) {
	if r.single != nil {
		return json.Marshal(r.single)
	}
	apis := r.apis
	if apis == nil {
		apis = []Document{}
	}
	return json.Marshal(struct {
		Message string     `json:"message"`
		APIs    []Document `json:"apis"`
	}{Message: r.message, APIs: apis})
}
