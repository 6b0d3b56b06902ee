package torna

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/kailas-cloud/torna-mcp/internal/domain/doctree"
	"github.com/kailas-cloud/torna-mcp/internal/domain/module"
)

// envelope is the upstream response wrapper.
type envelope struct {
	Code    *json.RawMessage `json:"code"`
	Message text             `json:"message"`
	Msg     text             `json:"msg"`
	Data    json.RawMessage  `json:"data"`
}

// text accepts a JSON string or number. Numbers are canonicalized, so 1.0 and 1
// both decode to "1". null and other kinds decode to "".
type text string

func (t *text) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*t = ""
		return nil
	}
	switch b[0] {
	case '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*t = text(s)
	case '-', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		f, err := strconv.ParseFloat(string(b), 64)
		if err != nil {
			*t = text(b)
			return nil
		}
		*t = text(strconv.FormatFloat(f, 'f', -1, 64))
	default:
		*t = ""
	}
	return nil
}

// truthy mirrors loose truthiness: true, non-zero numbers and non-empty strings.
type truthy bool

func (v *truthy) UnmarshalJSON(b []byte) error {
	var raw any
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	switch x := raw.(type) {
	case bool:
		*v = truthy(x)
	case float64:
		*v = x != 0
	case string:
		*v = x != ""
	default:
		*v = false
	}
	return nil
}

// requiredFlag is true only for the number 1.
type requiredFlag bool

func (v *requiredFlag) UnmarshalJSON(b []byte) error {
	n, err := strconv.ParseFloat(string(bytes.TrimSpace(b)), 64)
	*v = err == nil && n == 1
	return nil
}

// rawString keeps a JSON string verbatim; any other kind is "".
type rawString string

func (v *rawString) UnmarshalJSON(b []byte) error {
	var s string
	if json.Unmarshal(b, &s) != nil {
		*v = ""
		return nil
	}
	*v = rawString(s)
	return nil
}

// decodeArray decodes a JSON array element by element. A non-array payload
// yields nothing, null elements are dropped and every element that fails to
// decode is reported in skipped while the rest survive.
func decodeArray[D any](raw []byte) (items []D, skipped []error) {
	var elems []json.RawMessage
	if json.Unmarshal(raw, &elems) != nil {
		return nil, nil
	}

	items = make([]D, 0, len(elems))
	for i, elem := range elems {
		if bytes.Equal(bytes.TrimSpace(elem), []byte("null")) {
			continue
		}
		var d D
		if err := json.Unmarshal(elem, &d); err != nil {
			skipped = append(skipped, fmt.Errorf("element %d: %w", i, err))
			continue
		}
		items = append(items, d)
	}
	return items, skipped
}

type moduleDTO struct {
	ID   text `json:"id"`
	Name text `json:"name"`
}

func (d moduleDTO) toDomain() module.Module {
	return module.New(string(d.ID), string(d.Name))
}

type paramDTO struct {
	ID          text         `json:"id"`
	ParentID    text         `json:"parentId"`
	Name        text         `json:"name"`
	Type        text         `json:"type"`
	Required    requiredFlag `json:"required"`
	Description text         `json:"description"`
	Example     text         `json:"example"`
}

func (d paramDTO) toDomain() doctree.Param {
	return doctree.Param{
		ID:          string(d.ID),
		ParentID:    string(d.ParentID),
		Name:        string(d.Name),
		Type:        string(d.Type),
		Required:    bool(d.Required),
		Description: string(d.Description),
		Example:     string(d.Example),
	}
}

type nodeDTO struct {
	ID             text       `json:"id"`
	Name           text       `json:"name"`
	ParentID       text       `json:"parentId"`
	IsFolder       truthy     `json:"isFolder"`
	ModuleID       text       `json:"moduleId"`
	HTTPMethod     text       `json:"httpMethod"`
	URL            text       `json:"url"`
	Description    text       `json:"description"`
	ContentType    text       `json:"contentType"`
	Deprecated     rawString  `json:"deprecated"`
	HeaderParams   paramList  `json:"headerParams"`
	RequestParams  paramList  `json:"requestParams"`
	ResponseParams paramList  `json:"responseParams"`
}

func (d nodeDTO) toDomain() doctree.Node {
	return doctree.Node{
		ID:             string(d.ID),
		Name:           string(d.Name),
		ParentID:       string(d.ParentID),
		IsFolder:       bool(d.IsFolder),
		ModuleID:       string(d.ModuleID),
		HTTPMethod:     string(d.HTTPMethod),
		URL:            string(d.URL),
		Description:    string(d.Description),
		ContentType:    string(d.ContentType),
		Deprecated:     string(d.Deprecated),
		HeaderParams:   paramsToDomain(d.HeaderParams),
		RequestParams:  paramsToDomain(d.RequestParams),
		ResponseParams: paramsToDomain(d.ResponseParams),
	}
}

// paramList is a parameter array that never fails its document: a non-array
// value decodes empty and unusable elements are dropped.
type paramList []paramDTO

func (l *paramList) UnmarshalJSON(b []byte) error {
	items, _ := decodeArray[paramDTO](b)
	*l = items
	return nil
}

func paramsToDomain(in paramList) []doctree.Param {
	if len(in) == 0 {
		return nil
	}
	out := make([]doctree.Param, len(in))
	for i := range in {
		out[i] = in[i].toDomain()
	}
	return out
}
