// Package httpclient provides the shared HTTP client configuration for
// leakscout's outbound metadata requests (release lookups). No gathered
// value ever travels through it.
package httpclient

import (
	"context"
	"net/http"
	"net/url"
	"os"
	"sync/atomic"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/rs/zerolog/log"
)

// UserAgent identifies leakscout to the release APIs.
const UserAgent = "leakscout"

// ignoreProxy controls whether the HTTP_PROXY environment variable should be ignored.
// When set to true, no proxy will be configured even if HTTP_PROXY is set.
// Uses atomic operations for thread-safe access.
var ignoreProxy atomic.Bool

// SetIgnoreProxy sets whether to ignore the HTTP_PROXY environment variable.
// This is useful in environments where HTTP_PROXY is set but should not be used.
func SetIgnoreProxy(ignore bool) {
	ignoreProxy.Store(ignore)
}

// HeaderRoundTripper is an http.RoundTripper that adds default headers to requests.
// Headers are only added if they're not already present in the request.
type HeaderRoundTripper struct {
	Headers map[string]string
	Next    http.RoundTripper
}

// RoundTrip adds default headers when they're not present on the request
// and delegates to the next RoundTripper.
func (hrt *HeaderRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	if hrt.Next == nil {
		return nil, http.ErrNotSupported
	}

	if hrt.Headers != nil {
		for k, v := range hrt.Headers {
			if req.Header.Get(k) == "" {
				req.Header.Set(k, v)
			}
		}
	}

	return hrt.Next.RoundTrip(req)
}

// NewHTTPClient creates and configures a retryable HTTP client for release
// lookups. It supports:
//   - Custom default headers with a leakscout User-Agent fallback
//   - Automatic retry logic for 429 and 5xx errors (except 501)
//   - HTTP proxy support via HTTP_PROXY environment variable (unless SetIgnoreProxy(true) is called)
//
// Returns a configured *retryablehttp.Client ready for use.
func NewHTTPClient(defaultHeaders map[string]string) *retryablehttp.Client {
	client := retryablehttp.NewClient()
	client.Logger = nil

	client.CheckRetry = func(ctx context.Context, resp *http.Response, err error) (bool, error) {
		if err != nil {
			log.Error().Err(err).Msg("Retrying HTTP request, error occurred")
			return true, nil
		}

		if resp == nil {
			log.Error().Msg("Retrying HTTP request, no response")
			return false, nil
		}

		if resp.StatusCode == 429 || (resp.StatusCode >= 500 && resp.StatusCode != 501) {
			url := ""
			if resp.Request != nil && resp.Request.URL != nil {
				url = resp.Request.URL.String()
			}
			log.Trace().Str("url", url).Int("statusCode", resp.StatusCode).Msg("Retrying HTTP request")
			return true, nil
		}

		return false, nil
	}

	tr := &http.Transport{}

	if !ignoreProxy.Load() {
		proxyServer, useHttpProxy := os.LookupEnv("HTTP_PROXY")
		if useHttpProxy {
			proxyUrl, err := url.Parse(proxyServer)
			if err != nil {
				log.Fatal().Err(err).Str("HTTP_PROXY", proxyServer).Msg("Invalid Proxy URL in HTTP_PROXY environment variable")
			}
			log.Info().Str("proxy", proxyUrl.String()).Msg("Using HTTP_PROXY")
			tr.Proxy = http.ProxyURL(proxyUrl)
		}
	}

	headers := map[string]string{"User-Agent": UserAgent}
	for k, v := range defaultHeaders {
		headers[k] = v
	}

	client.HTTPClient.Transport = &HeaderRoundTripper{Headers: headers, Next: tr}
	return client
}
