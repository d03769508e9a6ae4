// Package httputil provides HTTP client construction with standard settings.
package httputil

import (
	"net/http"
	"time"
)

const (
	defaultTimeout = 30 * time.Second

	maxIdleConns        = 10
	maxIdleConnsPerHost = 2
	idleConnTimeout     = 30 * time.Second
)

// NewHTTPClient creates an HTTP client with the specified timeout and
// connection pooling suited for repeated calls to a single API host.
func NewHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			MaxIdleConns:        maxIdleConns,
			MaxIdleConnsPerHost: maxIdleConnsPerHost,
			IdleConnTimeout:     idleConnTimeout,
		},
	}
}

// NewDefaultHTTPClient creates an HTTP client with the default 30 second timeout.
func NewDefaultHTTPClient() *http.Client {
	return NewHTTPClient(defaultTimeout)
}
