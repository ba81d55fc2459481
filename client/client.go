// Package client is a typed client for the Unit banking API. It builds
// JSON:API requests against a fixed base URL, authenticates them with a
// bearer token and returns typed resources or an *apierr.APIError.
package client

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/bodrovis/unitx/internal/logging"
	"github.com/bodrovis/unitx/internal/metrics"
	"github.com/bodrovis/unitx/jsonapi"
)

const (
	// defaultBaseURL is the Unit sandbox API.
	defaultBaseURL = "https://api.s.unit.sh"

	// defaultUserAgent is sent on every request unless overridden via WithUserAgent.
	defaultUserAgent = "unitx/1.0.0"

	// defaultErrCap caps how many bytes we slurp from a non-2xx response when
	// constructing an apierr.APIError.
	defaultErrCap = 64 << 10

	defaultHTTPTimeout = 30 * time.Second
)

// HTTPDoer is the transport the client sends requests through.
// *http.Client satisfies it.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client is the root Unit API client.
// It is safe for concurrent use; nothing is mutated after NewClient returns.
// Rotating the token means building a new Client.
type Client struct {
	BaseURL    string       // normalized base URL, no trailing slash
	Token      string       // bearer token
	UserAgent  string       // User-Agent header value
	HTTPClient HTTPDoer     // underlying transport
	Logger     *slog.Logger // request logging, debug level

	headers  http.Header
	registry prometheus.Registerer

	Accounts       *AccountsResource
	Customers      *CustomersResource
	Applications   *ApplicationsResource
	Cards          *CardsResource
	Payments       *PaymentsResource
	Counterparties *CounterpartiesResource
	Transactions   *TransactionsResource
	Webhooks       *WebhooksResource
	Events         *EventsResource
	Statements     *StatementsResource
	Institutions   *InstitutionsResource
}

// Option customizes a Client during construction.
// Errors returned by an Option abort NewClient.
type Option func(*Client) error

// WithBaseURL sets a custom API base URL, e.g. the production
// "https://api.unit.co". The value must be an absolute URL; trailing
// slashes are dropped.
func WithBaseURL(u string) Option {
	return func(c *Client) error {
		u = strings.TrimSpace(u)
		if u == "" {
			return errors.New("base URL cannot be empty")
		}
		parsed, err := url.Parse(u)
		if err != nil || parsed.Scheme == "" || parsed.Host == "" {
			return errors.New("invalid base URL")
		}
		c.BaseURL = u
		return nil
	}
}

// WithUserAgent overrides the default User-Agent string.
// An empty value is ignored.
func WithUserAgent(ua string) Option {
	return func(c *Client) error {
		ua = strings.TrimSpace(ua)
		if ua != "" {
			c.UserAgent = ua
		}
		return nil
	}
}

// WithHTTPClient replaces the underlying transport.
// The client must be non-nil.
func WithHTTPClient(hc HTTPDoer) Option {
	return func(c *Client) error {
		if hc == nil {
			return errors.New("http client cannot be nil")
		}
		if p, ok := hc.(*http.Client); ok && p == nil {
			return errors.New("http client cannot be nil")
		}
		c.HTTPClient = hc
		return nil
	}
}

// WithHTTPTimeout sets the timeout on a copy of the *http.Client; the
// caller's value is not modified. A zero value disables the timeout. Custom HTTPDoer implementations handle their own timeouts, so
// combining them with this option is an error.
func WithHTTPTimeout(d time.Duration) Option {
	return func(c *Client) error {
		if d < 0 {
			return errors.New("http timeout cannot be negative")
		}
		hc, ok := c.HTTPClient.(*http.Client)
		if !ok {
			return errors.New("http timeout requires an *http.Client")
		}
		cp := *hc
		cp.Timeout = d
		c.HTTPClient = &cp
		return nil
	}
}

// WithLogger sets the logger used for per-request debug lines.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) error {
		if l == nil {
			return errors.New("logger cannot be nil")
		}
		c.Logger = l
		return nil
	}
}

// WithMetrics registers request metrics with reg and instruments the
// transport. It requires the transport to be an *http.Client; the
// instrumentation is applied after all options, so ordering relative to
// WithHTTPClient does not matter.
func WithMetrics(reg prometheus.Registerer) Option {
	return func(c *Client) error {
		if reg == nil {
			return errors.New("metrics registerer cannot be nil")
		}
		c.registry = reg
		return nil
	}
}

// WithHeader adds a header sent by every resource. Authorization and
// Content-Type cannot be overridden this way.
func WithHeader(key, value string) Option {
	return func(c *Client) error {
		key = http.CanonicalHeaderKey(strings.TrimSpace(key))
		switch key {
		case "":
			return errors.New("header name cannot be empty")
		case "Authorization", "Content-Type":
			return errors.New("header " + key + " is managed by the client")
		}
		c.headers.Set(key, value)
		return nil
	}
}

// NewClient builds a Client with sensible defaults and applies the provided
// options in order.
func NewClient(token string, opts ...Option) (*Client, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, errors.New("API token is required")
	}

	c := &Client{
		BaseURL:    defaultBaseURL,
		Token:      token,
		UserAgent:  defaultUserAgent,
		HTTPClient: &http.Client{Timeout: defaultHTTPTimeout},
		Logger:     logging.Discard(),
		headers:    make(http.Header),
	}

	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(c); err != nil {
			return nil, err
		}
	}

	c.BaseURL = strings.TrimRight(strings.TrimSpace(c.BaseURL), "/")

	if c.registry != nil {
		if err := c.instrument(); err != nil {
			return nil, err
		}
	}

	c.Accounts = &AccountsResource{c.newResource("/accounts")}
	c.Customers = &CustomersResource{c.newResource("/customers")}
	c.Applications = &ApplicationsResource{c.newResource("/applications")}
	c.Cards = &CardsResource{c.newResource("/cards")}
	c.Payments = &PaymentsResource{c.newResource("/payments")}
	c.Counterparties = &CounterpartiesResource{c.newResource("/counterparties")}
	c.Transactions = &TransactionsResource{
		accounts:     c.newResource("/accounts"),
		transactions: c.newResource("/transactions"),
	}
	c.Webhooks = &WebhooksResource{c.newResource("/webhooks")}
	c.Events = &EventsResource{c.newResource("/events")}
	c.Statements = &StatementsResource{c.newResource("/statements")}
	c.Institutions = &InstitutionsResource{c.newResource("/institutions")}

	return c, nil
}

// NewResource builds a request pipeline rooted at BaseURL+suffix that shares
// the client's token, transport and logger. It is the escape hatch for
// endpoints this package does not wrap.
func (c *Client) NewResource(suffix string) *Resource {
	return c.newResource(suffix)
}

func (c *Client) newResource(suffix string) *Resource {
	headers := c.headers.Clone()
	if headers == nil {
		headers = make(http.Header)
	}
	headers.Set("Authorization", "Bearer "+c.Token)
	headers.Set("Content-Type", jsonapi.MediaType)
	if c.UserAgent != "" {
		headers.Set("User-Agent", c.UserAgent)
	}

	return &Resource{
		path:    c.BaseURL + suffix,
		headers: headers,
		hc:      c.HTTPClient,
		logger:  c.Logger.With(logging.Resource(strings.TrimPrefix(suffix, "/"))),
	}
}

// instrument swaps the transport of the *http.Client for an instrumented
// copy; the caller's http.Client value is not modified.
func (c *Client) instrument() error {
	hc, ok := c.HTTPClient.(*http.Client)
	if !ok {
		return errors.New("metrics require an *http.Client")
	}
	rec, err := metrics.NewRecorder(c.registry)
	if err != nil {
		return err
	}

	cp := *hc
	cp.Transport = rec.InstrumentRoundTripper(hc.Transport)
	c.HTTPClient = &cp
	return nil
}
