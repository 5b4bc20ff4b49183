// Package transport provides the HTTP client shared by the remote lookups and
// discovery sources: optional bearer authentication, a fixed user agent, JSON
// accept headers and a client-side rate limit.
package transport

import (
	"context"
	"net/http"

	"golang.org/x/time/rate"

	"github.com/agentstation/sizer/pkg/constants"
	"github.com/agentstation/sizer/pkg/errors"
)

// Client provides HTTP client functionality with authentication and rate limiting.
type Client struct {
	http      *http.Client
	auth      Authenticator
	token     string
	userAgent string
	limiter   *rate.Limiter
}

// Option configures a Client.
type Option func(*Client)

// WithToken authenticates requests with a bearer token. An empty token disables auth.
func WithToken(token string) Option {
	return func(c *Client) {
		c.token = token
		if token != "" {
			c.auth = &BearerAuth{}
		}
	}
}

// WithRateLimit limits outgoing requests to rps per second with the given burst.
// A non-positive rps disables limiting.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *Client) {
		if rps <= 0 {
			c.limiter = nil
			return
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), max(burst, 1))
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// New creates a new transport client.
func New(opts ...Option) *Client {
	c := &Client{
		http:      &http.Client{Timeout: constants.DefaultHTTPTimeout},
		auth:      &NoAuth{},
		userAgent: constants.UserAgent,
		limiter:   rate.NewLimiter(rate.Limit(constants.DefaultRateLimit), constants.DefaultRateBurst),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Do performs an HTTP request after waiting for the rate limiter.
func (c *Client) Do(ctx context.Context, req *http.Request) (*http.Response, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	if c.token != "" {
		c.auth.Apply(req, c.token)
	}
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	return c.http.Do(req.WithContext(ctx))
}

// Get performs a GET request.
func (c *Client) Get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.WrapIO("create request", url, err)
	}
	return c.Do(ctx, req)
}
