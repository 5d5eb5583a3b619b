package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apierrors "github.com/mycelian/rancher-client/client/internal/errors"
	"github.com/mycelian/rancher-client/client/internal/types"
)

// workloadServer stubs a workload resource at /w1. failPass makes that
// redeploy pass answer 500; refreshStatus overrides the GET status; putReply,
// when set, writes every redeploy reply instead of the default JSON body.
type workloadServer struct {
	*httptest.Server
	rec           *recorder
	puts          atomic.Int32
	failPass      int32
	refreshStatus int
	refreshBody   func(base string) string
	putReply      func(w http.ResponseWriter, pass int32)
}

func freshWorkloadBody(base string) string {
	return fmt.Sprintf(`{
		"id": "deployment:prod:web",
		"name": "web",
		"namespaceId": "prod",
		"projectId": "c-1:p-1",
		"scale": 3,
		"imagePullSecrets": [{"name": "regcred"}],
		"containers": [
			{"image": "a", "name": "web", "imagePullPolicy": "IfNotPresent", "ports": [{"containerPort": 8080}]},
			{"image": "b", "name": "sidecar"}
		],
		"links": {"self": "%[1]s/w1", "update": "%[1]s/w1"},
		"actions": {"redeploy": "%[1]s/w1?action=redeploy", "pause": "%[1]s/w1?action=pause"}
	}`, base)
}

func newWorkloadServer(t *testing.T, opts ...func(*workloadServer)) *workloadServer {
	t.Helper()
	ws := &workloadServer{rec: &recorder{}, refreshBody: freshWorkloadBody}
	for _, opt := range opts {
		opt(ws)
	}
	ws.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ws.rec.record(t, r)
		switch {
		case r.Method == http.MethodGet:
			if ws.refreshStatus != 0 {
				w.WriteHeader(ws.refreshStatus)
				return
			}
			_, _ = w.Write([]byte(ws.refreshBody("http://" + r.Host)))
		case r.Method == http.MethodPut && r.URL.Query().Get("action") == "redeploy":
			n := ws.puts.Add(1)
			if n == ws.failPass {
				w.WriteHeader(http.StatusInternalServerError)
				_, _ = w.Write([]byte(`{"message":"boom"}`))
				return
			}
			if ws.putReply != nil {
				ws.putReply(w, n)
				return
			}
			_, _ = fmt.Fprintf(w, `{"id":"deployment:prod:web","name":"pass-%d"}`, n)
		case r.Method == http.MethodPost:
			w.WriteHeader(http.StatusCreated)
			_, _ = w.Write([]byte(`{"id":"deployment:stale-ns:web","name":"web","namespaceId":"stale-ns"}`))
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	}))
	t.Cleanup(ws.Close)
	return ws
}

// staleWorkload mimics a workload fetched earlier; its redeploy action points
// somewhere the server never serves so the test proves the fresh one is used.
func (ws *workloadServer) staleWorkload() types.Workload {
	return types.Workload{
		ID:          "deployment:prod:web",
		Name:        "web",
		NamespaceID: "stale-ns",
		Containers:  []types.Container{{Image: "old", Name: "web"}},
		Links: types.Links{
			types.LinkSelf:   ws.URL + "/w1",
			types.LinkUpdate: ws.URL + "/w1",
		},
		Actions: types.Actions{types.ActionRedeploy: ws.URL + "/stale?action=redeploy"},
	}
}

func TestChangeImage_RedeploysTwiceWithFirstImageReplaced(t *testing.T) {
	t.Parallel()
	ws := newWorkloadServer(t)

	res, err := ChangeImage(context.Background(), ws.Client(), ws.staleWorkload(), types.DeploymentConfig{Image: "c", Name: "web"})
	require.NoError(t, err)
	assert.False(t, res.Recreated)
	assert.Equal(t, 2, res.Passes)
	assert.Equal(t, "pass-2", res.Workload.Name, "second response is returned")

	calls := ws.rec.snapshot()
	require.Len(t, calls, 3)
	assert.Equal(t, http.MethodGet, calls[0].Method)
	assert.Equal(t, "/w1", calls[0].Path)

	for _, put := range calls[1:] {
		assert.Equal(t, http.MethodPut, put.Method)
		assert.Equal(t, "/w1", put.Path)
		assert.Equal(t, "action=redeploy", put.Query)

		var body map[string]any
		require.NoError(t, json.Unmarshal(put.Body, &body))
		containers := body["containers"].([]any)
		require.Len(t, containers, 2)
		first := containers[0].(map[string]any)
		assert.Equal(t, "c", first["image"])
		assert.Equal(t, "IfNotPresent", first["imagePullPolicy"])
		assert.NotNil(t, first["ports"])
		assert.Equal(t, "b", containers[1].(map[string]any)["image"])

		assert.Equal(t, float64(3), body["scale"])
		assert.Equal(t, []any{map[string]any{"name": "regcred"}}, body["imagePullSecrets"])
	}
	assert.Equal(t, calls[1].Body, calls[2].Body, "both passes send the same payload")
}

func TestChangeImage_NotFoundRecreates(t *testing.T) {
	t.Parallel()
	ws := newWorkloadServer(t, func(ws *workloadServer) { ws.refreshStatus = http.StatusNotFound })

	res, err := ChangeImage(context.Background(), ws.Client(), ws.staleWorkload(), types.DeploymentConfig{Image: "c", Name: "web"})
	require.NoError(t, err)
	assert.True(t, res.Recreated)
	assert.Zero(t, res.Passes)
	assert.Equal(t, "stale-ns", res.Workload.NamespaceID)

	calls := ws.rec.snapshot()
	require.Len(t, calls, 2)
	assert.Equal(t, http.MethodPost, calls[1].Method)
	assert.Equal(t, "/w1", calls[1].Path)
	assert.JSONEq(t,
		`{"containers":[{"image":"c","name":"web","imagePullPolicy":"Always"}],"name":"web","namespaceId":"stale-ns"}`,
		string(calls[1].Body))
}

func TestChangeImage_NotFoundWithoutUpdateLink(t *testing.T) {
	t.Parallel()
	ws := newWorkloadServer(t, func(ws *workloadServer) { ws.refreshStatus = http.StatusNotFound })
	wl := ws.staleWorkload()
	delete(wl.Links, types.LinkUpdate)

	_, err := ChangeImage(context.Background(), ws.Client(), wl, types.DeploymentConfig{Image: "c", Name: "web"})
	assert.ErrorIs(t, err, types.ErrMissingLink)
	assert.Len(t, ws.rec.snapshot(), 1)
}

func TestChangeImage_SecondPassFailureIsPartial(t *testing.T) {
	t.Parallel()
	ws := newWorkloadServer(t, func(ws *workloadServer) { ws.failPass = 2 })

	res, err := ChangeImage(context.Background(), ws.Client(), ws.staleWorkload(), types.DeploymentConfig{Image: "c", Name: "web"})
	require.Error(t, err)
	require.NotNil(t, res)
	assert.Equal(t, 1, res.Passes)
	assert.Nil(t, res.Workload)
	assert.ErrorIs(t, err, types.ErrPartialRedeploy)
	var he *apierrors.HTTPError
	require.ErrorAs(t, err, &he)
	assert.Equal(t, http.StatusInternalServerError, he.StatusCode)
	assert.Len(t, ws.rec.snapshot(), 3)
}

func TestChangeImage_EmptyRedeployReplies(t *testing.T) {
	t.Parallel()
	ws := newWorkloadServer(t, func(ws *workloadServer) {
		ws.putReply = func(w http.ResponseWriter, _ int32) { w.WriteHeader(http.StatusNoContent) }
	})

	res, err := ChangeImage(context.Background(), ws.Client(), ws.staleWorkload(), types.DeploymentConfig{Image: "c", Name: "web"})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Passes)
	require.NotNil(t, res.Workload)
	assert.Empty(t, res.Workload.ID)
	assert.Equal(t, int32(2), ws.puts.Load())

	ws = newWorkloadServer(t, func(ws *workloadServer) {
		ws.putReply = func(w http.ResponseWriter, _ int32) { w.WriteHeader(http.StatusOK) }
	})
	res, err = ChangeImage(context.Background(), ws.Client(), ws.staleWorkload(), types.DeploymentConfig{Image: "c", Name: "web"})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Passes)
}

func TestChangeImage_UnreadableLastReplyIsNotPartial(t *testing.T) {
	t.Parallel()
	ws := newWorkloadServer(t, func(ws *workloadServer) {
		ws.putReply = func(w http.ResponseWriter, pass int32) {
			if pass == 2 {
				_, _ = w.Write([]byte("{not json"))
				return
			}
			_, _ = w.Write([]byte(`{"id":"deployment:prod:web"}`))
		}
	})

	res, err := ChangeImage(context.Background(), ws.Client(), ws.staleWorkload(), types.DeploymentConfig{Image: "c", Name: "web"})
	require.Error(t, err)
	assert.NotErrorIs(t, err, types.ErrPartialRedeploy)
	assert.ErrorIs(t, err, errDecode)
	require.NotNil(t, res)
	assert.Equal(t, 2, res.Passes)
	assert.Nil(t, res.Workload)
	assert.Equal(t, int32(2), ws.puts.Load())
}

func TestChangeImage_FirstPassFailureStops(t *testing.T) {
	t.Parallel()
	ws := newWorkloadServer(t, func(ws *workloadServer) { ws.failPass = 1 })

	_, err := ChangeImage(context.Background(), ws.Client(), ws.staleWorkload(), types.DeploymentConfig{Image: "c", Name: "web"})
	require.Error(t, err)
	assert.NotErrorIs(t, err, types.ErrPartialRedeploy)
	assert.Equal(t, http.StatusInternalServerError, apierrors.StatusCode(err))
	assert.Len(t, ws.rec.snapshot(), 2, "no second pass after a failed first one")
}

func TestChangeImage_RefreshFailure(t *testing.T) {
	t.Parallel()
	ws := newWorkloadServer(t, func(ws *workloadServer) { ws.refreshStatus = http.StatusBadGateway })

	_, err := ChangeImage(context.Background(), ws.Client(), ws.staleWorkload(), types.DeploymentConfig{Image: "c", Name: "web"})
	assert.Equal(t, http.StatusBadGateway, apierrors.StatusCode(err))
	assert.Len(t, ws.rec.snapshot(), 1)
}

func TestChangeImage_MalformedRefresh(t *testing.T) {
	t.Parallel()
	cases := map[string]struct {
		body string
		want error
	}{
		"no containers":   {body: `{"id":"w","containers":[],"actions":{"redeploy":"http://x"}}`, want: errNoContainers},
		"no redeploy":     {body: `{"id":"w","containers":[{"image":"a"}],"actions":{"pause":"http://x"}}`, want: types.ErrActionUnavailable},
		"missing actions": {body: `{"id":"w","containers":[{"image":"a"}]}`, want: types.ErrActionUnavailable},
	}
	for name, tc := range cases {
		tc := tc
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			body := tc.body
			ws := newWorkloadServer(t, func(ws *workloadServer) {
				ws.refreshBody = func(string) string { return body }
			})

			_, err := ChangeImage(context.Background(), ws.Client(), ws.staleWorkload(), types.DeploymentConfig{Image: "c"})
			assert.ErrorIs(t, err, tc.want)
			assert.Len(t, ws.rec.snapshot(), 1, "nothing is mutated")
		})
	}

	ws := newWorkloadServer(t, func(ws *workloadServer) {
		ws.refreshBody = func(string) string { return "{bad json" }
	})
	_, err := ChangeImage(context.Background(), ws.Client(), ws.staleWorkload(), types.DeploymentConfig{Image: "c"})
	assert.Error(t, err)
}

func TestChangeImage_ValidatesInputs(t *testing.T) {
	t.Parallel()
	hc := &http.Client{Transport: roundTripFunc(func(*http.Request) (*http.Response, error) {
		t.Fatal("no request expected")
		return nil, nil
	})}

	_, err := ChangeImage(context.Background(), hc, types.Workload{Links: types.Links{types.LinkSelf: "https://x/w"}}, types.DeploymentConfig{Name: "web"})
	assert.ErrorIs(t, err, types.ErrInvalidDeploymentConfig)

	_, err = ChangeImage(context.Background(), hc, types.Workload{}, types.DeploymentConfig{Image: "c"})
	assert.ErrorIs(t, err, types.ErrMissingLink)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = ChangeImage(ctx, hc, types.Workload{}, types.DeploymentConfig{Image: "c"})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPrepareRedeploy_KeepsNumbersExact(t *testing.T) {
	t.Parallel()
	in := []byte(`{"createdTS":1546398245000,"containers":[{"image":"a"}],"actions":{"redeploy":"http://x/r"}}`)
	out, url, err := prepareRedeploy(in, "z")
	require.NoError(t, err)
	assert.Equal(t, "http://x/r", url)
	assert.Contains(t, string(out), `"createdTS":1546398245000`)
	assert.Contains(t, string(out), `"image":"z"`)
}
