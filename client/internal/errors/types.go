// Package errors defines the error values returned for unsuccessful HTTP
// exchanges with the Rancher API.
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrNotFound is matched by any HTTPError carrying a 404 status.
var ErrNotFound = errors.New("not found")

// HTTPError reports a response whose status was not accepted by the caller.
type HTTPError struct {
	Operation  string // e.g. "list projects"
	Method     string
	URL        string
	StatusCode int
	Body       string // response body, truncated
}

// Error implements the error interface.
func (e *HTTPError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("%s: %s %s: HTTP %d: %s", e.Operation, e.Method, e.URL, e.StatusCode, e.Body)
	}
	return fmt.Sprintf("%s: %s %s: HTTP %d", e.Operation, e.Method, e.URL, e.StatusCode)
}

// Is lets errors.Is(err, ErrNotFound) match 404 responses.
func (e *HTTPError) Is(target error) bool {
	return target == ErrNotFound && e.StatusCode == http.StatusNotFound
}

// StatusCode extracts the HTTP status from err, or 0 if err is not an HTTPError.
func StatusCode(err error) int {
	var he *HTTPError
	if errors.As(err, &he) {
		return he.StatusCode
	}
	return 0
}
