package api

import (
	"fmt"
	"io"
	"net/http"
	"sync"
	"testing"
)

// errRT is an http.RoundTripper that always returns an error (simulates network failure).
type errRT struct{}

func (e *errRT) RoundTrip(*http.Request) (*http.Response, error) { return nil, fmt.Errorf("boom") }

// recordedCall captures one request seen by a stub server.
type recordedCall struct {
	Method string
	Path   string
	Query  string
	Body   []byte
}

// recorder is a test helper that keeps every request in arrival order.
type recorder struct {
	mu    sync.Mutex
	calls []recordedCall
}

func (r *recorder) record(t *testing.T, req *http.Request) recordedCall {
	t.Helper()
	b, err := io.ReadAll(req.Body)
	if err != nil {
		t.Errorf("read body: %v", err)
	}
	c := recordedCall{Method: req.Method, Path: req.URL.Path, Query: req.URL.RawQuery, Body: b}
	r.mu.Lock()
	r.calls = append(r.calls, c)
	r.mu.Unlock()
	return c
}

func (r *recorder) snapshot() []recordedCall {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]recordedCall, len(r.calls))
	copy(out, r.calls)
	return out
}

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }
