package tornamcp

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Sentinel errors matched by *APIError. Use errors.Is() to check.
var (
	ErrBadRequest   = errors.New("bad request")
	ErrUnauthorized = errors.New("unauthorized")
	ErrNotFound     = errors.New("not found")
	ErrServer       = errors.New("server error")
)

// APIError is a non-2xx response of the torna-mcp API.
type APIError struct {
	StatusCode int
	Code       string // the response's "error" label
	Message    string // underlying cause, when the server reports one

	body []byte
}

func newAPIError(status int, body []byte) *APIError {
	e := &APIError{StatusCode: status, body: body}
	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if json.Unmarshal(body, &payload) == nil {
		e.Code, e.Message = payload.Error, payload.Message
	}
	if e.Code == "" {
		e.Code = strings.TrimSpace(string(body))
	}
	if e.Code == "" {
		e.Code = http.StatusText(status)
	}
	return e
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("tornamcp: %d %s: %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("tornamcp: %d %s", e.StatusCode, e.Code)
}

// Is maps the status code onto the package sentinels.
func (e *APIError) Is(target error) bool {
	switch target {
	case ErrBadRequest:
		return e.StatusCode == http.StatusBadRequest
	case ErrUnauthorized:
		return e.StatusCode == http.StatusUnauthorized
	case ErrNotFound:
		return e.StatusCode == http.StatusNotFound
	case ErrServer:
		return e.StatusCode >= http.StatusInternalServerError
	}
	return false
}
