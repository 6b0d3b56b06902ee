package apidoc

import (
	"github.com/kailas-cloud/torna-mcp/internal/domain/doctree"
	"github.com/kailas-cloud/torna-mcp/internal/domain/params"
)

// Normalize maps one upstream document node into a Document.
// A nil node yields a defaulted Document carrying EmptyDocumentMessage.
func Normalize(n *doctree.Node) Document {
	doc := Document{
		Method:      DefaultMethod,
		ContentType: DefaultContentType,
		Request: Request{
			Headers: []RequestParam{},
			Params:  []RequestParam{},
		},
		Response: Response{Params: []ResponseParam{}},
	}
	if n == nil {
		doc.Message = EmptyDocumentMessage
		return doc
	}

	doc.Name = n.Name
	doc.URL = n.URL
	doc.Description = n.Description
	if n.HTTPMethod != "" {
		doc.Method = n.HTTPMethod
	}
	if n.ContentType != "" {
		doc.ContentType = n.ContentType
	}

	doc.Request.Headers = flatParams(n.HeaderParams)
	doc.Request.Params = flatParams(n.RequestParams)
	if rp := params.Reconstruct(n.ResponseParams, "", buildResponseParam); rp != nil {
		doc.Response.Params = rp
	}
	return doc
}

func flatParams(ps []doctree.Param) []RequestParam {
	out := make([]RequestParam, 0, len(ps))
	for _, p := range ps {
		if p.Name == "" {
			continue
		}
		out = append(out, RequestParam{
			Name:        p.Name,
			Type:        paramType(p.Type),
			Required:    p.Required,
			Description: p.Description,
			Example:     p.Example,
		})
	}
	return out
}

func buildResponseParam(p doctree.Param, children []ResponseParam) ResponseParam {
	return ResponseParam{
		Name:        p.Name,
		Type:        paramType(p.Type),
		Description: p.Description,
		Example:     p.Example,
		Children:    children,
	}
}

func paramType(t string) string {
	if t == "" {
		return DefaultParamType
	}
	return t
}
