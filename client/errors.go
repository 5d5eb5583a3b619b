package client

import (
	"errors"

	apierrors "github.com/mycelian/rancher-client/client/internal/errors"
	"github.com/mycelian/rancher-client/client/internal/types"
)

// HTTPError is returned for responses with an unexpected status. It carries
// the status code and the (truncated) response body.
type HTTPError = apierrors.HTTPError

// Re-export shared SDK errors so callers compare against a single symbol.
var (
	// ErrNotFound matches any HTTPError with status 404.
	ErrNotFound          = apierrors.ErrNotFound
	ErrMissingLink       = types.ErrMissingLink
	ErrActionUnavailable = types.ErrActionUnavailable
	ErrPartialRedeploy   = types.ErrPartialRedeploy
	ErrInvalidConfig     = types.ErrInvalidDeploymentConfig
)

// IsNotFound reports whether err is a 404 from the API.
func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }

// IsPartialRedeploy reports whether a ChangeImage failure happened after the
// workload had already been redeployed once.
func IsPartialRedeploy(err error) bool { return errors.Is(err, ErrPartialRedeploy) }

// StatusCode returns the HTTP status carried by err, or 0.
func StatusCode(err error) int { return apierrors.StatusCode(err) }
