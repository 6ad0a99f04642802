// Package identityapi talks to the remote identity service that issues
// session tokens.
package identityapi

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/bizzai/go-session"
	"github.com/go-resty/resty/v2"
	"github.com/goccy/go-json"
	"github.com/tidwall/gjson"
)

const (
	DefaultBaseURL = "https://api.teenytechtrek.com"
	RegisterPath   = "/api/auth/register"
	LoginPath      = "/api/auth/login"
)

// TokenFields are probed in order on a successful response.
var TokenFields = []string{"Token", "token", "accessToken"}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient uses hc for transport.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithTimeout bounds every request. Zero leaves requests unbounded.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
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

// Client implements session.IdentityAPI over HTTP.
type Client struct {
	rest       *resty.Client
	httpClient *http.Client
	timeout    time.Duration
	userAgent  string
	logger     session.Logger
}

var _ session.IdentityAPI = (*Client)(nil)

// New returns a Client for the identity service at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		userAgent: "bizz-session",
		logger:    nopLogger{},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c.rest = NewResty(baseURL, c.httpClient, c.timeout, c.userAgent)
	return c
}

// NewResty builds the resty client shared by the remote API clients in this
// module.
func NewResty(baseURL string, hc *http.Client, timeout time.Duration, userAgent string) *resty.Client {
	var rc *resty.Client
	if hc != nil {
		rc = resty.NewWithClient(hc)
	} else {
		rc = resty.New()
	}
	rc.JSONMarshal = json.Marshal
	rc.JSONUnmarshal = json.Unmarshal
	rc.SetBaseURL(strings.TrimRight(baseURL, "/"))
	rc.SetHeader("Content-Type", "application/json")
	rc.SetHeader("Accept", "application/json")
	if userAgent != "" {
		rc.SetHeader("User-Agent", userAgent)
	}
	if timeout > 0 {
		rc.SetTimeout(timeout)
	}
	return rc
}

// Register creates an account and returns the issued token.
func (c *Client) Register(ctx context.Context, payload session.Registration) (string, error) {
	return c.exchange(ctx, "register", RegisterPath, payload, FallbackRegister)
}

// Login exchanges credentials for a token.
func (c *Client) Login(ctx context.Context, payload session.Credentials) (string, error) {
	return c.exchange(ctx, "login", LoginPath, payload, FallbackLogin)
}

func (c *Client) exchange(ctx context.Context, op, path string, body any, fallback string) (string, error) {
	resp, err := c.rest.R().
		SetContext(ctx).
		SetBody(body).
		Post(path)
	if err != nil {
		c.logger.Error("identity request failed", "op", op, "error", err)
		return "", &APIError{Op: op, Message: fallback, Err: err}
	}

	if !resp.IsSuccess() {
		msg := MessageOr(resp.Body(), fallback)
		c.logger.Warn("identity service rejected request", "op", op, "status", resp.StatusCode())
		return "", &APIError{Op: op, StatusCode: resp.StatusCode(), Message: msg}
	}

	token, ok := ProbeToken(resp.Body())
	if !ok {
		c.logger.Warn("identity response carries no token", "op", op)
		return "", &APIError{Op: op, StatusCode: resp.StatusCode(), Message: fallback}
	}
	return token, nil
}

// ProbeToken looks for the token under TokenFields.
func ProbeToken(body []byte) (string, bool) {
	if !gjson.ValidBytes(body) {
		return "", false
	}
	for _, field := range TokenFields {
		v := gjson.GetBytes(body, field)
		if v.Type == gjson.String && v.Str != "" {
			return v.Str, true
		}
	}
	return "", false
}

// MessageOr returns the non empty string message field of a JSON body, or
// fallback.
func MessageOr(body []byte, fallback string) string {
	if !gjson.ValidBytes(body) {
		return fallback
	}
	v := gjson.GetBytes(body, "message")
	if v.Type == gjson.String && v.Str != "" {
		return v.Str
	}
	return fallback
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Info(string, ...any)  {}
func (nopLogger) Warn(string, ...any)  {}
func (nopLogger) Error(string, ...any) {}
