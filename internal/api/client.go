// Package api provides the shared HTTP client used for all outbound
// REST calls (geocoding, letter generation, identity, notifications).
//
// A single pooled client is shared so keep-alive connections are
// reused across components instead of each one paying the TCP and TLS
// handshake cost per call.
package api

import (
	"net/http"
	"time"
)

// sharedClient is the singleton HTTP client used throughout the
// application. http.Client is safe for concurrent use, so no locking
// is needed around it.
var sharedClient *http.Client

func init() {
	sharedClient = NewHTTPClient(30 * time.Second)
}

// GetHTTPClient returns the shared HTTP client instance.
func GetHTTPClient() *http.Client {
	return sharedClient
}

// NewHTTPClient creates an HTTP client with connection pooling.
//
// Parameters:
//   - timeout: Maximum time for a complete request (including reading response)
//
// Returns:
//   - *http.Client: Configured HTTP client
func NewHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
			DisableKeepAlives:   false,
			ForceAttemptHTTP2:   true,
		},
	}
}

// SetHTTPClient allows overriding the shared client (useful for testing).
func SetHTTPClient(client *http.Client) {
	sharedClient = client
}
