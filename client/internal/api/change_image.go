package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	apierrors "github.com/mycelian/rancher-client/client/internal/errors"
	"github.com/mycelian/rancher-client/client/internal/types"
)

// redeployPasses is how many times the redeploy action is sent. Rancher drops
// imagePullSecrets from a workload on redeploy, which ends in ImagePullBackOff
// for private registries; a second pass with the same payload puts them back.
// Set to 1 once the platform no longer needs it.
const redeployPasses = 2

var errNoContainers = errors.New("workload has no containers")

// ChangeImageResult reports what ChangeImage did.
type ChangeImageResult struct {
	Workload *types.Workload
	// Recreated is true when the workload had vanished and was posted anew
	// through its update link instead of being redeployed.
	Recreated bool
	// Passes counts the redeploy calls the server accepted.
	Passes int
}

// ChangeImage points workload's first container at cfg.Image and redeploys
// it. The workload is re-read through its self link first and every field of
// that fresh body is sent back unchanged apart from containers[0].image.
//
// A 404 on the re-read means the workload is gone; a single-container
// workload built from cfg is then posted to the update link, in the
// namespace of the workload passed in.
//
// The redeploy is not atomic: if a later pass fails the error wraps
// types.ErrPartialRedeploy and the workload stays redeployed once. The result
// is then returned alongside the error, with Passes set and Workload nil.
// A final reply that cannot be decoded is not partial: the pass counts and
// the decode error is returned. An empty final reply yields a zero Workload.
func ChangeImage(ctx context.Context, httpClient HTTPClient, workload types.Workload, cfg types.DeploymentConfig) (*ChangeImageResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := types.ValidateDeploymentConfig(cfg); err != nil {
		return nil, err
	}
	selfURL, err := types.ValidateLink(workload.Links, types.LinkSelf)
	if err != nil {
		return nil, err
	}

	logger := log.With().
		Str("op_id", uuid.NewString()).
		Str("workload_id", workload.ID).
		Str("image", cfg.Image).
		Logger()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, selfURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := httpClient.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNotFound {
		updateURL, err := types.ValidateLink(workload.Links, types.LinkUpdate)
		if err != nil {
			return nil, err
		}
		logger.Debug().Str("url", updateURL).Msg("workload not found, recreating")
		created, err := CreateWorkload(ctx, httpClient, updateURL, types.NewCreateWorkloadRequest(cfg, workload.NamespaceID))
		if err != nil {
			return nil, err
		}
		return &ChangeImageResult{Workload: created, Recreated: true}, nil
	}
	if !apierrors.IsSuccess(resp.StatusCode) {
		return nil, apierrors.NewHTTPError("refresh workload", resp)
	}

	fresh, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	payload, redeployURL, err := prepareRedeploy(fresh, cfg.Image)
	if err != nil {
		return nil, fmt.Errorf("workload %s: %w", workload.ID, err)
	}

	result := &ChangeImageResult{Workload: &types.Workload{}}
	for pass := 1; pass <= redeployPasses; pass++ {
		// Only the last response is returned.
		var out *types.Workload
		if pass == redeployPasses {
			out = result.Workload
		}
		err := Redeploy(ctx, httpClient, redeployURL, payload, out)
		if errors.Is(err, errDecode) {
			// Accepted by the server; only the reply was unreadable.
			result.Passes++
			result.Workload = nil
			return result, fmt.Errorf("redeploy pass %d of %d: %w", pass, redeployPasses, err)
		}
		if err != nil {
			logger.Debug().Err(err).Int("pass", pass).Msg("redeploy failed")
			if result.Passes > 0 {
				result.Workload = nil
				return result, fmt.Errorf("redeploy pass %d of %d: %w: %w", pass, redeployPasses, types.ErrPartialRedeploy, err)
			}
			return nil, err
		}
		result.Passes++
		logger.Debug().Int("pass", pass).Str("url", redeployURL).Msg("redeploy accepted")
	}
	return result, nil
}

// prepareRedeploy rewrites containers[0].image in the raw workload body and
// returns the new body with the redeploy action URL found in it. Fields the
// client does not model are kept.
func prepareRedeploy(body []byte, image string) ([]byte, string, error) {
	var doc map[string]any
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	if err := dec.Decode(&doc); err != nil {
		return nil, "", fmt.Errorf("decode workload: %w", err)
	}

	containers, _ := doc["containers"].([]any)
	if len(containers) == 0 {
		return nil, "", errNoContainers
	}
	first, ok := containers[0].(map[string]any)
	if !ok {
		return nil, "", fmt.Errorf("decode workload: container 0 is %T, not an object", containers[0])
	}
	first["image"] = image

	actions, _ := doc["actions"].(map[string]any)
	redeployURL, _ := actions[types.ActionRedeploy].(string)
	if redeployURL == "" {
		return nil, "", fmt.Errorf("%w: %q", types.ErrActionUnavailable, types.ActionRedeploy)
	}

	out, err := json.Marshal(doc)
	if err != nil {
		return nil, "", err
	}
	return out, redeployURL, nil
}
