package dropcountr

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"
)

// DefaultBaseURL is the base URL for the Dropcountr API.
const DefaultBaseURL = "https://dropcountr.com"

// Endpoint paths under the base URL.
const (
	loginPath  = "/login"
	mePath     = "/api/me"
	logoutPath = "/api/logout"
)

const (
	userAgent = "Dropcountr Go Client"
	// The Accept header pins the API version; Dropcountr routes on it.
	mediaType = "application/vnd.dropcountr.api+json;version=2"

	defaultTimeout = 30 * time.Second
)

// Client talks to the Dropcountr API on behalf of a single account. The
// underlying session (cookie jar plus redirect-following transport) is
// created on first use and released by Close. A Client mutates its cookie
// jar without locking, so use one Client per goroutine.
type Client struct {
	email    string
	password string

	baseURL   string
	transport http.RoundTripper
	timeout   time.Duration

	// nil until the first request and again after Close.
	httpClient *http.Client
}

// Option is a functional option for configuring the Client.
type Option func(*Client)

// WithBaseURL points the client at a different host. Endpoint paths stay
// fixed; this exists for tests, not API versioning.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimSuffix(baseURL, "/")
	}
}

// WithTransport sets the http.RoundTripper used by the session.
func WithTransport(rt http.RoundTripper) Option {
	return func(c *Client) {
		c.transport = rt
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// New creates a Dropcountr client for the given account credentials. No
// network traffic happens until the first request.
func New(email, password string, opts ...Option) *Client {
	c := &Client{
		email:    email,
		password: password,
		baseURL:  DefaultBaseURL,
		timeout:  defaultTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// session returns the lazily created HTTP client that carries the session
// cookies across requests.
func (c *Client) session() *http.Client {
	if c.httpClient == nil {
		jar, _ := cookiejar.New(nil) // never fails with default options
		c.httpClient = &http.Client{
			Jar:       jar,
			Timeout:   c.timeout,
			Transport: c.transport,
		}
	}
	return c.httpClient
}

// Headers returns the fixed API header set, composed fresh on every call.
func (c *Client) Headers() http.Header {
	h := make(http.Header)
	h.Set("User-Agent", userAgent)
	h.Set("Content-Type", "application/json")
	h.Set("Accept", mediaType)
	return h
}

// Login posts the account credentials to the login endpoint. Any session
// cookies the server sets are kept for subsequent requests. The response is
// returned as-is and never inspected here: a 2xx carrying a login-failure
// page is indistinguishable from success at this layer, so callers that
// need confirmation must check the response themselves. The caller owns the
// response body and must close it.
func (c *Client) Login(ctx context.Context) (*http.Response, error) {
	form := url.Values{
		"email":    {c.email},
		"password": {c.password},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+loginPath, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("building login request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.session().Do(req)
	if err != nil {
		return nil, fmt.Errorf("posting login form: %w", err)
	}
	return resp, nil
}

// Get performs an authenticated GET against rawurl and unmarshals the inner
// value of the {"data": ...} envelope into out. Pass a *json.RawMessage to
// receive the value untyped, or nil to discard it. A non-2xx status yields a
// *StatusError; a body without a data key yields ErrMissingData.
func (c *Client) Get(ctx context.Context, rawurl string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawurl, nil)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header = c.Headers()

	resp, err := c.session().Do(req)
	if err != nil {
		return fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			URL:        rawurl,
		}
	}

	var envelope map[string]json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return fmt.Errorf("decoding response from %s: %w", rawurl, err)
	}
	data, ok := envelope["data"]
	if !ok {
		return fmt.Errorf("response from %s: %w", rawurl, ErrMissingData)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decoding data from %s: %w", rawurl, err)
	}
	return nil
}

// Logout hits the logout endpoint and returns whatever the server put under
// the data key.
func (c *Client) Logout(ctx context.Context) (json.RawMessage, error) {
	var out json.RawMessage
	if err := c.Get(ctx, c.baseURL+logoutPath, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Me fetches the authenticated user from the discovery endpoint.
func (c *Client) Me(ctx context.Context) (*User, error) {
	var user User
	if err := c.Get(ctx, c.baseURL+mePath, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Premise fetches a premise by the URL discovered from a prior response.
func (c *Client) Premise(ctx context.Context, rawurl string) (*Premise, error) {
	var premise Premise
	if err := c.Get(ctx, rawurl, &premise); err != nil {
		return nil, err
	}
	return &premise, nil
}

// ServiceConnection fetches a service connection by its resource URL.
func (c *Client) ServiceConnection(ctx context.Context, rawurl string) (*ServiceConnection, error) {
	var sc ServiceConnection
	if err := c.Get(ctx, rawurl, &sc); err != nil {
		return nil, err
	}
	return &sc, nil
}

// Close releases the underlying session. Calling it again is a no-op; the
// next request after Close builds a fresh session with an empty cookie jar.
func (c *Client) Close() {
	if c.httpClient == nil {
		return
	}
	c.httpClient.CloseIdleConnections()
	c.httpClient = nil
}
