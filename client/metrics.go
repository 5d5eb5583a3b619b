package client

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "rancher_client",
			Name:      "http_requests_total",
			Help:      "HTTP requests sent to the Rancher API, by method and status code (\"error\" for transport failures).",
		},
		[]string{"method", "code"},
	)

	imageChangesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "rancher_client",
			Name:      "image_changes_total",
			Help:      "Completed ChangeImage calls, by path taken (redeploy or recreate).",
		},
		[]string{"path"},
	)

	redeployPassesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "rancher_client",
			Name:      "redeploy_passes_total",
			Help:      "Redeploy actions accepted by the server.",
		},
	)
)

// metricsTransport counts every round trip in httpRequestsTotal.
type metricsTransport struct{ base http.RoundTripper }

func (t *metricsTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := t.base.RoundTrip(req)
	if err != nil {
		httpRequestsTotal.WithLabelValues(req.Method, "error").Inc()
		return nil, err
	}
	httpRequestsTotal.WithLabelValues(req.Method, strconv.Itoa(resp.StatusCode)).Inc()
	return resp, nil
}
