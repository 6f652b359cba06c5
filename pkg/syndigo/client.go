// Package syndigo queries a tenant's entityappservice API for attribute usage.
package syndigo

import (
	"bytes"
	"context"
	"crypto/tls"
	"crypto/x509"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
)

// Fixed protocol headers sent on every request.
const (
	HeaderRDPVersion   = "x-rdp-version"
	HeaderRDPClientID  = "x-rdp-clientId"
	HeaderRDPUserID    = "x-rdp-userId"
	HeaderClientID     = "auth-client-id"
	HeaderClientSecret = "auth-client-secret"

	RDPVersion  = "8.1"
	RDPClientID = "rdpclient"

	// QueryPath is the entity query endpoint relative to the tenant host.
	QueryPath = "api/entityappservice/get"

	DefaultUserID = "system"
)

// Template is the immutable part of every request in a run.
type Template struct {
	Tenant string
	// BaseURL overrides https://<tenant>.syndigo.com (proxies, the mock server).
	BaseURL      string
	UserID       string
	ClientID     string
	ClientSecret string
}

// Endpoint returns the query URL for the template.
func (t Template) Endpoint() (*url.URL, error) {
	raw := strings.TrimSpace(t.BaseURL)
	if raw == "" {
		tenant := strings.TrimSpace(t.Tenant)
		if tenant == "" {
			return nil, errors.New("tenant is required")
		}
		raw = fmt.Sprintf("https://%s.syndigo.com", tenant)
	}
	base, err := parseBaseURL(raw)
	if err != nil {
		return nil, err
	}
	return base.ResolveReference(&url.URL{Path: QueryPath}), nil
}

// Headers returns the request header set for the template.
func (t Template) Headers() http.Header {
	userID := strings.TrimSpace(t.UserID)
	if userID == "" {
		userID = DefaultUserID
	}
	h := http.Header{}
	h.Set("Content-Type", "application/json")
	// Non-canonical names are set directly so they go out exactly as the API documents them.
	h[HeaderRDPVersion] = []string{RDPVersion}
	h[HeaderRDPClientID] = []string{RDPClientID}
	h[HeaderRDPUserID] = []string{userID}
	h[HeaderClientID] = []string{t.ClientID}
	h[HeaderClientSecret] = []string{t.ClientSecret}
	return h
}

// Client issues entity queries for one tenant. Safe for concurrent use: every call builds its
// own request from the shared, read-only template.
type Client struct {
	endpoint *url.URL
	headers  http.Header
	http     *http.Client
}

type Option func(*clientOptions)

type clientOptions struct {
	timeout    time.Duration
	caPath     string
	httpClient *http.Client
}

// WithTimeout bounds each request. Zero keeps the default of no timeout.
func WithTimeout(d time.Duration) Option {
	return func(o *clientOptions) { o.timeout = d }
}

// WithCAFile trusts the PEM bundle at path for TLS instead of the system pool.
func WithCAFile(path string) Option {
	return func(o *clientOptions) { o.caPath = path }
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(o *clientOptions) { o.httpClient = hc }
}

// NewClient constructs a client for the template.
func NewClient(t Template, opts ...Option) (*Client, error) {
	var o clientOptions
	for _, opt := range opts {
		opt(&o)
	}

	endpoint, err := t.Endpoint()
	if err != nil {
		return nil, err
	}

	hc := o.httpClient
	if hc == nil {
		hc, err = newHTTPClient(o.caPath, o.timeout)
		if err != nil {
			return nil, err
		}
	}

	return &Client{
		endpoint: endpoint,
		headers:  t.Headers(),
		http:     hc,
	}, nil
}

// Endpoint is the URL queries are posted to.
func (c *Client) Endpoint() string {
	return c.endpoint.String()
}

func parseBaseURL(raw string) (*url.URL, error) {
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil, errors.Wrap(err, "parse base URL")
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, errors.Newf("base URL must include a host (got %q)", raw)
	}
	// Ensure the base path ends with a slash so ResolveReference treats it as a directory.
	u.Path = strings.TrimRight(u.Path, "/") + "/"
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}

func newHTTPClient(caPath string, timeout time.Duration) (*http.Client, error) {
	tr := http.DefaultTransport.(*http.Transport).Clone()
	if strings.TrimSpace(caPath) != "" {
		b, err := os.ReadFile(strings.TrimSpace(caPath))
		if err != nil {
			return nil, errors.Wrap(err, "read CA file")
		}
		pool := x509.NewCertPool()
		if ok := pool.AppendCertsFromPEM(b); !ok {
			return nil, errors.New("parse CA file PEM: no certs found")
		}
		tr.TLSClientConfig = &tls.Config{RootCAs: pool, MinVersion: tls.VersionTLS12}
	}
	return &http.Client{
		Transport: tr,
		Timeout:   timeout,
	}, nil
}

// Query posts the attribute query for entityType. A non-200 answer is returned as *HTTPError.
func (c *Client) Query(ctx context.Context, entityType, attribute string) (QueryResponse, error) {
	body, err := json.Marshal(BuildQuery(entityType, attribute))
	if err != nil {
		return QueryResponse{}, errors.Wrap(err, "encode query")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint.String(), bytes.NewReader(body))
	if err != nil {
		return QueryResponse{}, err
	}
	req.Header = c.headers.Clone()

	resp, err := c.http.Do(req)
	if err != nil {
		return QueryResponse{}, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return QueryResponse{}, errors.Wrap(err, "read response")
	}
	if resp.StatusCode != http.StatusOK {
		return QueryResponse{}, newHTTPError(resp, b)
	}

	var out QueryResponse
	if err := json.Unmarshal(b, &out); err != nil {
		return QueryResponse{}, errors.Wrap(err, "parse query response")
	}
	return out, nil
}
