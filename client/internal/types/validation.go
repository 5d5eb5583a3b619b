package types

import (
	"errors"
	"fmt"
	"net/url"
)

// ------------------------------
// Shared Errors
// ------------------------------

var (
	// ErrMissingLink is returned when a resource lacks a hypermedia URL that an
	// operation needs.
	ErrMissingLink = errors.New("missing hypermedia link")

	// ErrActionUnavailable is returned when the server did not offer the
	// requested action for the resource's current state.
	ErrActionUnavailable = errors.New("action not available")

	// ErrInvalidDeploymentConfig is returned for a DeploymentConfig without an image.
	ErrInvalidDeploymentConfig = errors.New("invalid deployment config")

	// ErrPartialRedeploy marks a failure after at least one redeploy pass was
	// accepted. The workload has been redeployed but may lack settings the
	// later pass would have restored.
	ErrPartialRedeploy = errors.New("partial redeploy")
)

// ------------------------------
// Validation
// ------------------------------

// ValidateLink ensures the named link is present and is an absolute URL.
func ValidateLink(links map[string]string, name string) (string, error) {
	raw := links[name]
	if raw == "" {
		return "", fmt.Errorf("%w: %q", ErrMissingLink, name)
	}
	u, err := url.Parse(raw)
	if err != nil || !u.IsAbs() {
		return "", fmt.Errorf("%w: %q is not an absolute URL: %s", ErrMissingLink, name, raw)
	}
	return raw, nil
}

// ValidateDeploymentConfig requires an image reference.
func ValidateDeploymentConfig(cfg DeploymentConfig) error {
	if cfg.Image == "" {
		return fmt.Errorf("%w: image is required", ErrInvalidDeploymentConfig)
	}
	return nil
}

// ValidateBaseURL requires an absolute http or https URL.
func ValidateBaseURL(raw string) error {
	if raw == "" {
		return errors.New("base URL cannot be empty")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid base URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid base URL %q: scheme must be http or https", raw)
	}
	if u.Host == "" {
		return fmt.Errorf("invalid base URL %q: missing host", raw)
	}
	return nil
}
