package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/mycelian/rancher-client/client/internal/types"
)

// FetchProjects lists every project visible to the credentials.
func FetchProjects(ctx context.Context, httpClient HTTPClient, baseURL string) (*types.ProjectCollection, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	url := strings.TrimRight(baseURL, "/") + "/projects"

	var pc types.ProjectCollection
	if err := sendJSON(ctx, httpClient, "list projects", http.MethodGet, url, nil, &pc); err != nil {
		return nil, err
	}
	return &pc, nil
}
