package errors

import (
	"io"
	"net/http"
	"strings"
)

// maxBodyBytes bounds how much of an error body is kept on HTTPError.
const maxBodyBytes = 4 << 10

// NewHTTPError builds an HTTPError from resp, consuming up to maxBodyBytes of
// its body. The caller still owns closing resp.Body.
func NewHTTPError(operation string, resp *http.Response) *HTTPError {
	e := &HTTPError{
		Operation:  operation,
		StatusCode: resp.StatusCode,
	}
	if resp.Request != nil {
		e.Method = resp.Request.Method
		if resp.Request.URL != nil {
			e.URL = resp.Request.URL.String()
		}
	}
	if resp.Body != nil {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
		e.Body = strings.TrimSpace(string(b))
	}
	return e
}

// IsSuccess reports whether code is in the 2xx range.
func IsSuccess(code int) bool {
	return code >= 200 && code < 300
}
