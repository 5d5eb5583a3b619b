package client

import (
	"context"
	"encoding/base64"
	"errors"
	"net/http"
	"time"

	"github.com/mycelian/rancher-client/client/internal/api"
	"github.com/mycelian/rancher-client/client/internal/types"
)

// --------------------------------------------------------------------
// Client core
// --------------------------------------------------------------------

// defaultHTTPTimeout bounds each round trip unless WithHTTPTimeout or
// WithHTTPClient says otherwise.
const defaultHTTPTimeout = 30 * time.Second

// Client talks to the Rancher v3 management API. It holds no state between
// calls beyond its credentials and is safe for concurrent use.
type Client struct {
	baseURL    string
	http       *http.Client
	authHeader string // "Basic " + base64(accessKey:secretKey)
}

// New constructs a Client for the API rooted at baseURL (for example
// https://rancher.example.com/v3), authenticating with an API key pair.
// No request is made.
func New(baseURL, accessKey, secretKey string, opts ...Option) (*Client, error) {
	if err := types.ValidateBaseURL(baseURL); err != nil {
		return nil, err
	}
	if accessKey == "" {
		return nil, errors.New("accessKey cannot be empty")
	}
	if secretKey == "" {
		return nil, errors.New("secretKey cannot be empty")
	}

	c := &Client{
		baseURL:    baseURL,
		authHeader: basicAuth(accessKey, secretKey),
		http:       &http.Client{Timeout: defaultHTTPTimeout},
	}

	// Auto-enable debug via env variable without changing code.
	if debugLoggingRequested() {
		opts = append(opts, WithDebugLogging(true))
	}

	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}

	c.wrapTransport()

	return c, nil
}

func basicAuth(accessKey, secretKey string) string {
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(accessKey+":"+secretKey))
}

// AuthorizationHeader returns the Authorization value sent with every request.
func (c *Client) AuthorizationHeader() string { return c.authHeader }

// BaseURL returns the API root the client was built with.
func (c *Client) BaseURL() string { return c.baseURL }

// wrapTransport installs the metrics and header transports on top of
// whatever the options left in place.
func (c *Client) wrapTransport() {
	c.http.Transport = &headerTransport{
		base:       &metricsTransport{base: transportOrDefault(c.http.Transport)},
		authHeader: c.authHeader,
	}
}

// headerTransport stamps the JSON and Authorization headers on every request.
type headerTransport struct {
	base       http.RoundTripper
	authHeader string
}

func (t *headerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	// Clone the request to avoid modifying the original
	cloned := req.Clone(req.Context())
	cloned.Header.Set("Accept", "application/json")
	cloned.Header.Set("Content-Type", "application/json")
	cloned.Header.Set("Authorization", t.authHeader)
	return t.base.RoundTrip(cloned)
}

// --------------------------------------------------------------------
// Project operations
// --------------------------------------------------------------------

// FetchProjects lists the projects visible to the API key (GET {baseURL}/projects).
func (c *Client) FetchProjects(ctx context.Context) (*ProjectCollection, error) {
	return api.FetchProjects(ctx, c.http, c.baseURL)
}

// FetchProjectWorkloads lists a project's workloads by following its
// "workloads" link.
func (c *Client) FetchProjectWorkloads(ctx context.Context, project Project) (*WorkloadCollection, error) {
	return api.FetchProjectWorkloads(ctx, c.http, project)
}

// --------------------------------------------------------------------
// Workload operations
// --------------------------------------------------------------------

// FetchWorkload re-reads workload through its self link. IsNotFound reports
// whether the returned error means the workload is gone.
func (c *Client) FetchWorkload(ctx context.Context, workload Workload) (*Workload, error) {
	return api.FetchWorkload(ctx, c.http, workload)
}

// ChangeImage sets the image of workload's first container to cfg.Image and
// redeploys it, returning the server's view of the redeployed workload.
//
// The workload is re-read first. If the server answers 404 the workload is
// recreated from cfg through its update link instead. Otherwise the redeploy
// action is sent twice with the same payload: Rancher loses the workload's
// imagePullSecrets on the first redeploy and the second restores them. If the
// second call fails the error satisfies errors.Is(err, ErrPartialRedeploy)
// and the workload is left redeployed once.
func (c *Client) ChangeImage(ctx context.Context, workload Workload, cfg DeploymentConfig) (*Workload, error) {
	res, err := api.ChangeImage(ctx, c.http, workload, cfg)
	if res != nil {
		redeployPassesTotal.Add(float64(res.Passes))
	}
	if err != nil {
		return nil, err
	}
	if res.Recreated {
		imageChangesTotal.WithLabelValues("recreate").Inc()
	} else {
		imageChangesTotal.WithLabelValues("redeploy").Inc()
	}
	return res.Workload, nil
}

// PauseWorkload invokes the workload's pause action.
func (c *Client) PauseWorkload(ctx context.Context, workload Workload) error {
	return api.InvokeAction(ctx, c.http, workload, types.ActionPause)
}

// ResumeWorkload invokes the workload's resume action.
func (c *Client) ResumeWorkload(ctx context.Context, workload Workload) error {
	return api.InvokeAction(ctx, c.http, workload, types.ActionResume)
}

// RollbackWorkload invokes the workload's rollback action.
func (c *Client) RollbackWorkload(ctx context.Context, workload Workload) error {
	return api.InvokeAction(ctx, c.http, workload, types.ActionRollback)
}
