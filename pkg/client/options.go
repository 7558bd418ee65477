package client

import (
	"net/http"
	"time"

	"go.uber.org/zap"
)

// Option configures a Client.
type Option func(*Client)

// WithNavigator sets the port invoked once per 401 response.
func WithNavigator(n Navigator) Option {
	return func(c *Client) { c.navigator = n }
}

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithTimeout sets the per-request timeout on a copy of the http.Client, so a
// client passed to WithHTTPClient is left as it was.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			hc := *c.httpClient
			hc.Timeout = d
			c.httpClient = &hc
		}
	}
}

// WithLogger sets the request logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.log = l
		}
	}
}

// WithUserScope adds a userId query parameter, read from id on each call, to
// transaction requests. Off by default: the bearer token identifies the user.
func WithUserScope(id func() string) Option {
	return func(c *Client) { c.userScope = id }
}
