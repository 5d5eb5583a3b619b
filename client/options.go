package client

import (
	"fmt"
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// Option configures a Client during construction in New.
//
// Options are applied in order before the header transport is installed, so
// transport-related options (debug logging, tracing) end up underneath it and
// see the Authorization header.
type Option func(*Client) error

// WithHTTPClient replaces the underlying *http.Client. The client is copied,
// so the caller's value is never modified; its Transport is used as the base
// transport. Combine with a Timeout or per-request context deadlines, since
// the SDK does not time requests out on its own beyond this client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) error {
		if hc == nil {
			return fmt.Errorf("nil http client")
		}
		cp := *hc
		c.http = &cp
		return nil
	}
}

// WithHTTPTimeout bounds each round trip to the Rancher API by d, replacing
// the 30s default. ChangeImage makes up to three round trips and each gets
// the full d; pass a context deadline to bound the whole call. d must be
// positive.
func WithHTTPTimeout(d time.Duration) Option {
	return func(c *Client) error {
		if d <= 0 {
			return fmt.Errorf("http timeout must be > 0")
		}
		c.http.Timeout = d
		return nil
	}
}

// WithDebugLogging dumps every request and response through zerolog at debug
// level. Authorization is masked; workload bodies are printed whole, so keep
// it off where those bodies are sensitive. A second call is a no-op.
func WithDebugLogging(enabled bool) Option {
	return func(c *Client) error {
		if enabled {
			if _, ok := c.http.Transport.(*debugTransport); ok {
				return nil
			}
			c.http.Transport = &debugTransport{base: transportOrDefault(c.http.Transport)}
		}
		return nil
	}
}

// WithTracing wraps the transport with OpenTelemetry HTTP client
// instrumentation using the global tracer and meter providers.
func WithTracing() Option {
	return func(c *Client) error {
		c.http.Transport = otelhttp.NewTransport(transportOrDefault(c.http.Transport))
		return nil
	}
}

func transportOrDefault(rt http.RoundTripper) http.RoundTripper {
	if rt == nil {
		return http.DefaultTransport
	}
	return rt
}
