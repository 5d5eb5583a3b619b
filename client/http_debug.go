package client

import (
	"net/http"
	"net/http/httputil"
	"os"

	"github.com/rs/zerolog/log"
)

// debugTransport logs full request/response dumps through zerolog at debug
// level.
//
// Activate it with WithDebugLogging(true), or without code changes by setting
// RANCHER_DEBUG=true or DEBUG=true. The Authorization header is replaced by a
// placeholder in the request dump; bodies (which may include workload
// environment variables) are logged verbatim.
//
// Example usage:
//
//	export RANCHER_DEBUG=true
//	rancherctl projects   # every HTTP exchange is now logged
type debugTransport struct{ base http.RoundTripper }

const redacted = "[REDACTED]"

func (dt *debugTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	logger := log.With().Str("method", req.Method).Str("url", req.URL.String()).Logger()

	// Dump a copy so the outgoing request keeps its body and credentials.
	shown := req.Clone(req.Context())
	if shown.Header.Get("Authorization") != "" {
		shown.Header.Set("Authorization", redacted)
	}
	withBody := false
	if req.GetBody != nil {
		if body, err := req.GetBody(); err == nil {
			shown.Body = body
			withBody = true
		}
	}
	if reqDump, err := httputil.DumpRequestOut(shown, withBody); err == nil {
		logger.Debug().Str("request_dump", string(reqDump)).Msg("HTTP request")
	}

	resp, err := dt.base.RoundTrip(req)
	if err != nil {
		logger.Error().Err(err).Msg("HTTP request failed")
		return nil, err
	}

	if respDump, err := httputil.DumpResponse(resp, true); err == nil {
		logger.Debug().Int("status_code", resp.StatusCode).Str("response_dump", string(respDump)).Msg("HTTP response")
	}
	return resp, nil
}

// debugLoggingRequested checks if HTTP debug logging should be enabled.
//
// Returns true if RANCHER_DEBUG or DEBUG is set to "true" (case-sensitive).
func debugLoggingRequested() bool {
	return os.Getenv("RANCHER_DEBUG") == "true" || os.Getenv("DEBUG") == "true"
}
