package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrConfig signals a missing or malformed upstream configuration value.
	ErrConfig = errors.New("configuration error")
	// ErrValidation signals a missing or invalid caller argument.
	ErrValidation = errors.New("validation error")
	// ErrUpstream signals a non-success envelope returned by the upstream service.
	ErrUpstream = errors.New("upstream error")
	// ErrTransport signals a network failure or an unreadable upstream response.
	ErrTransport = errors.New("transport error")
)

// UpstreamError wraps ErrUpstream with the envelope's own code and message.
type UpstreamError struct {
	Code    string
	Message string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s: torna API error (code %s): %s", ErrUpstream.Error(), e.Code, e.Message)
}

func (e *UpstreamError) Unwrap() error { return ErrUpstream }

// NewUpstreamError creates an upstream envelope error.
func NewUpstreamError(code, message string) error {
	return &UpstreamError{Code: code, Message: message}
}
