package client

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) {
	return f(r)
}

type seenRequest struct {
	Method string
	Path   string
	Query  string
	Header http.Header
	Body   []byte
}

// fakeRancher serves a single project p1 holding workload w1 under /v3.
type fakeRancher struct {
	*httptest.Server
	mu   sync.Mutex
	seen []seenRequest
}

func newFakeRancher(t *testing.T) *fakeRancher {
	t.Helper()
	fr := &fakeRancher{}
	mux := http.NewServeMux()
	mux.HandleFunc("/v3/projects", func(w http.ResponseWriter, r *http.Request) {
		fr.record(r)
		_, _ = fmt.Fprintf(w, `{"data":[{"id":"c-1:p1","name":"Default","namespaceId":null,"links":{"self":"http://%[1]s/v3/projects/c-1:p1","workloads":"http://%[1]s/v3/project/c-1:p1/workloads"}}]}`, r.Host)
	})
	mux.HandleFunc("/v3/project/c-1:p1/workloads", func(w http.ResponseWriter, r *http.Request) {
		fr.record(r)
		_, _ = fmt.Fprintf(w, `{"data":[%s]}`, workloadJSON(r.Host, "nginx:1.25"))
	})
	mux.HandleFunc("/v3/project/c-1:p1/workloads/deployment:prod:web", func(w http.ResponseWriter, r *http.Request) {
		fr.record(r)
		switch {
		case r.Method == http.MethodGet:
			_, _ = w.Write([]byte(workloadJSON(r.Host, "nginx:1.25")))
		case r.Method == http.MethodPut && r.URL.Query().Get("action") == "redeploy":
			_, _ = w.Write([]byte(workloadJSON(r.Host, "nginx:1.27")))
		case r.Method == http.MethodPost && r.URL.Query().Get("action") == "pause":
			w.WriteHeader(http.StatusOK)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	})
	fr.Server = httptest.NewServer(mux)
	t.Cleanup(fr.Close)
	return fr
}

func workloadJSON(host, image string) string {
	return fmt.Sprintf(`{"id":"deployment:prod:web","name":"web","namespaceId":"prod","projectId":"c-1:p1","paused":false,
		"containers":[{"image":%q,"name":"web","imagePullPolicy":"Always"}],
		"links":{"self":"http://%[2]s/v3/project/c-1:p1/workloads/deployment:prod:web","update":"http://%[2]s/v3/project/c-1:p1/workloads/deployment:prod:web"},
		"actions":{"redeploy":"http://%[2]s/v3/project/c-1:p1/workloads/deployment:prod:web?action=redeploy","pause":"http://%[2]s/v3/project/c-1:p1/workloads/deployment:prod:web?action=pause"}}`,
		image, host)
}

func (fr *fakeRancher) record(r *http.Request) {
	b, _ := io.ReadAll(r.Body)
	fr.mu.Lock()
	defer fr.mu.Unlock()
	fr.seen = append(fr.seen, seenRequest{Method: r.Method, Path: r.URL.Path, Query: r.URL.RawQuery, Header: r.Header.Clone(), Body: b})
}

func (fr *fakeRancher) requests() []seenRequest {
	fr.mu.Lock()
	defer fr.mu.Unlock()
	return append([]seenRequest(nil), fr.seen...)
}
