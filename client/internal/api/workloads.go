package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/mycelian/rancher-client/client/internal/types"
)

// FetchProjectWorkloads follows the project's workloads link.
func FetchProjectWorkloads(ctx context.Context, httpClient HTTPClient, project types.Project) (*types.WorkloadCollection, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	url, err := types.ValidateLink(project.Links, types.LinkWorkloads)
	if err != nil {
		return nil, err
	}

	var wc types.WorkloadCollection
	if err := sendJSON(ctx, httpClient, "list workloads", http.MethodGet, url, nil, &wc); err != nil {
		return nil, err
	}
	return &wc, nil
}

// FetchWorkload re-reads a workload through its self link. A vanished
// workload yields an error matching errors.ErrNotFound.
func FetchWorkload(ctx context.Context, httpClient HTTPClient, workload types.Workload) (*types.Workload, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	url, err := types.ValidateLink(workload.Links, types.LinkSelf)
	if err != nil {
		return nil, err
	}

	var w types.Workload
	if err := sendJSON(ctx, httpClient, "get workload", http.MethodGet, url, nil, &w); err != nil {
		return nil, err
	}
	return &w, nil
}

// CreateWorkload posts req to updateURL.
func CreateWorkload(ctx context.Context, httpClient HTTPClient, updateURL string, req types.CreateWorkloadRequest) (*types.Workload, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var w types.Workload
	if err := sendJSON(ctx, httpClient, "create workload", http.MethodPost, updateURL, req, &w); err != nil {
		return nil, err
	}
	return &w, nil
}

// Redeploy PUTs payload to a redeploy action URL. When out is nil the response
// body is discarded.
func Redeploy(ctx context.Context, httpClient HTTPClient, redeployURL string, payload []byte, out *types.Workload) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if out == nil {
		return sendJSON(ctx, httpClient, "redeploy workload", http.MethodPut, redeployURL, payload, nil)
	}
	return sendJSON(ctx, httpClient, "redeploy workload", http.MethodPut, redeployURL, payload, out)
}

// InvokeAction POSTs to the named action of workload. It fails with
// types.ErrActionUnavailable, without a request, when the server did not
// offer the action.
func InvokeAction(ctx context.Context, httpClient HTTPClient, workload types.Workload, action string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	url := workload.Actions.Get(action)
	if url == "" {
		return fmt.Errorf("%w: %q on workload %s", types.ErrActionUnavailable, action, workload.ID)
	}
	return sendJSON(ctx, httpClient, action+" workload", http.MethodPost, url, nil, nil)
}
