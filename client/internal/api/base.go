package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	apierrors "github.com/mycelian/rancher-client/client/internal/errors"
)

// HTTPClient interface for dependency injection
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// errDecode marks a 2xx response whose body could not be decoded. The server
// did accept the request.
var errDecode = errors.New("decode response")

// Headers (Accept, Content-Type, Authorization) are stamped by the client's
// transport, so requests built here only carry method, URL and body.

// sendJSON performs a single round trip. A non-nil body is marshalled as JSON
// unless it is already a []byte. Any non-2xx response becomes an
// *apierrors.HTTPError; out, when non-nil, receives the decoded 2xx body. An
// empty 2xx body (204 and the like) leaves out untouched.
func sendJSON(ctx context.Context, httpClient HTTPClient, operation, method, target string, body any, out any) error {
	var rdr io.Reader
	switch b := body.(type) {
	case nil:
	case []byte:
		rdr = bytes.NewReader(b)
	default:
		buf, err := json.Marshal(b)
		if err != nil {
			return err
		}
		rdr = bytes.NewReader(buf)
	}
	httpReq, err := http.NewRequestWithContext(ctx, method, target, rdr)
	if err != nil {
		return err
	}
	resp, err := httpClient.Do(httpReq)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if !apierrors.IsSuccess(resp.StatusCode) {
		return apierrors.NewHTTPError(operation, resp)
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("%s: %w: %w", operation, errDecode, err)
	}
	return nil
}
