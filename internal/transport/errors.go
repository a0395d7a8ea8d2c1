package transport

import (
	"errors"
	"fmt"
)

// ErrEmptyResponse is returned when the server answers 2xx with no body
var ErrEmptyResponse = errors.New("received empty file from server")

// ValidationError is returned before any request is made
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

// TransportError wraps a network-level failure
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// ServerError is returned for any non-2xx response
type ServerError struct {
	StatusCode int
	Status     string
	Body       string // Response text, when it could be read
}

func (e *ServerError) Error() string {
	msg := fmt.Sprintf("HTTP error! status: %d", e.StatusCode)
	if e.Body != "" {
		msg += ", message: " + e.Body
	}
	return msg
}
