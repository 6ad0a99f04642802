// Package dashboard holds the clients behind the protected dashboard views:
// business setup, assistant training, payments, feedback and settings.
//
// A Client reads the signed in identity from the session.IdentitySource it
// was built with; nothing is looked up from package level state.
package dashboard

import (
	"context"
	"net/http"
	"time"

	"github.com/bizzai/go-session"
	"github.com/bizzai/go-session/identityapi"
	"github.com/go-resty/resty/v2"
)

// Option customizes a Client.
type Option func(*Client)

// WithTrainerURL sets the host of the training service. It defaults to the
// dashboard API host.
func WithTrainerURL(u string) Option {
	return func(c *Client) {
		c.trainerURL = u
	}
}

// WithHTTPClient uses hc for transport.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTimeout bounds every request. Zero leaves requests unbounded.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithLogger overrides the logger.
func WithLogger(logger session.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithClock injects a custom clock (useful for tests).
func WithClock(clock func() time.Time) Option {
	return func(c *Client) {
		if clock != nil {
			c.now = clock
		}
	}
}

// Client calls the dashboard APIs on behalf of the current identity.
type Client struct {
	api      *resty.Client
	trainer  *resty.Client
	identity session.IdentitySource

	baseURL    string
	trainerURL string
	httpClient *http.Client
	timeout    time.Duration
	logger     session.Logger
	now        func() time.Time
}

// New returns a Client for the dashboard API at baseURL.
func New(baseURL string, identity session.IdentitySource, opts ...Option) *Client {
	c := &Client{
		baseURL:  baseURL,
		identity: identity,
		logger:   nopLogger{},
		now:      time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	if c.trainerURL == "" {
		c.trainerURL = baseURL
	}

	c.api = identityapi.NewResty(c.baseURL, c.httpClient, c.timeout, "bizz-dashboard")
	c.trainer = identityapi.NewResty(c.trainerURL, c.httpClient, c.timeout, "bizz-dashboard")
	return c
}

func (c *Client) currentIdentity() (*session.Identity, bool) {
	if c.identity == nil {
		return nil, false
	}
	identity, ok := c.identity.Identity()
	if !ok || identity == nil {
		return nil, false
	}
	return identity, true
}

type call struct {
	op       string
	path     string
	body     any
	bearer   string
	fallback string
	// useBody surfaces the message field of a failed response.
	useBody bool
	// statusFallback formats the fallback from the status code.
	statusFallback func(status int) string
}

func (c *Client) post(ctx context.Context, rest *resty.Client, in call) (*resty.Response, error) {
	req := rest.R().
		SetContext(ctx).
		SetBody(in.body)
	if in.bearer != "" {
		req.SetHeader("Authorization", in.bearer)
	}

	resp, err := req.Post(in.path)
	if err != nil {
		c.logger.Error("dashboard request failed", "op", in.op, "error", err)
		return nil, &identityapi.APIError{Op: in.op, Message: in.fallback, Err: err}
	}

	if resp.IsSuccess() {
		return resp, nil
	}

	fallback := in.fallback
	if in.statusFallback != nil {
		fallback = in.statusFallback(resp.StatusCode())
	}
	msg := fallback
	if in.useBody {
		msg = identityapi.MessageOr(resp.Body(), fallback)
	}
	c.logger.Warn("dashboard request rejected", "op", in.op, "status", resp.StatusCode(), "body", resp.String())
	return nil, &identityapi.APIError{Op: in.op, StatusCode: resp.StatusCode(), Message: msg}
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Info(string, ...any)  {}
func (nopLogger) Warn(string, ...any)  {}
func (nopLogger) Error(string, ...any) {}
