package client

import (
	"errors"
	"fmt"
)

var (
	// ErrCacheMiss is recorded when the remote list failed and the local cache
	// had nothing to fall back on.
	ErrCacheMiss = errors.New("no cached tasks available")

	// ErrInFlight is returned by a guarded controller when a mutation for the
	// same task is still waiting on the server.
	ErrInFlight = errors.New("another request for this task is in flight")

	// ErrClosed is returned by controller operations started after Close.
	ErrClosed = errors.New("controller is closed")
)

// NetworkError means the request never produced an HTTP response: the server
// was unreachable, the connection dropped or the call timed out.
type NetworkError struct {
	Method string
	URL    string
	Err    error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s %s: network error: %v", e.Method, e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// APIError is a non-2xx response. Message is the server's own explanation
// when the body carried one.
type APIError struct {
	Method     string
	URL        string
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s %s: server returned %d", e.Method, e.URL, e.StatusCode)
	}
	return fmt.Sprintf("%s %s: server returned %d: %s", e.Method, e.URL, e.StatusCode, e.Message)
}

// IsNotFound reports whether err is an APIError with status 404.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == 404
}
