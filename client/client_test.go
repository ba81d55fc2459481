package client_test

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/bodrovis/unitx/client"
	"github.com/bodrovis/unitx/internal/logging"
)

func TestNewClient_DefaultBaseURL(t *testing.T) {
	token := "tok123"

	c, err := client.NewClient(token)
	if err != nil {
		t.Fatalf("Cannot create client: %v", err)
	}

	if c.Token != token {
		t.Fatalf("Token = %q, want %q", c.Token, token)
	}
	if c.BaseURL != "https://api.s.unit.sh" {
		t.Fatalf("BaseURL = %q, want %q", c.BaseURL, "https://api.s.unit.sh")
	}
	if c.UserAgent == "" {
		t.Fatalf("UserAgent must default to a non-empty value")
	}
	if got := c.Accounts.Path(); got != "https://api.s.unit.sh/accounts" {
		t.Fatalf("Accounts.Path() = %q", got)
	}
}

func TestNewClient_CustomBaseURL(t *testing.T) {
	customBase := "https://api.unit.co/"

	c, err := client.NewClient("tok", client.WithBaseURL(customBase))
	if err != nil {
		t.Fatalf("Cannot create client: %v", err)
	}

	if c.BaseURL != "https://api.unit.co" {
		t.Fatalf("BaseURL = %q, want trailing slash trimmed", c.BaseURL)
	}
	if got := c.Webhooks.Path(); got != "https://api.unit.co/webhooks" {
		t.Fatalf("Webhooks.Path() = %q", got)
	}
}

func TestNewClient_OptionValidation(t *testing.T) {
	// missing token
	if _, err := client.NewClient("  "); err == nil {
		t.Fatalf("expected error for empty token")
	}
	// invalid base url
	if _, err := client.NewClient("t", client.WithBaseURL(":// nope")); err == nil {
		t.Fatalf("expected error for invalid base URL")
	}
	if _, err := client.NewClient("t", client.WithBaseURL("")); err == nil {
		t.Fatalf("expected error for empty base URL")
	}
	// WithHTTPClient(nil) should error
	if _, err := client.NewClient("t", client.WithHTTPClient(nil)); err == nil {
		t.Fatalf("expected error for nil http client")
	}
	var typedNil *http.Client
	if _, err := client.NewClient("t", client.WithHTTPClient(typedNil)); err == nil {
		t.Fatalf("expected error for typed nil http client")
	}
	if _, err := client.NewClient("t", client.WithHTTPTimeout(-time.Second)); err == nil {
		t.Fatalf("expected error for negative timeout")
	}
	if _, err := client.NewClient("t", client.WithLogger(nil)); err == nil {
		t.Fatalf("expected error for nil logger")
	}
	if _, err := client.NewClient("t", client.WithMetrics(nil)); err == nil {
		t.Fatalf("expected error for nil registerer")
	}
	for _, h := range []string{"authorization", "Content-Type", " "} {
		if _, err := client.NewClient("t", client.WithHeader(h, "x")); err == nil {
			t.Fatalf("expected error for header %q", h)
		}
	}
	// nil options are skipped
	if _, err := client.NewClient("t", nil); err != nil {
		t.Fatalf("unexpected: %v", err)
	}
}

type doerFunc func(*http.Request) (*http.Response, error)

func (f doerFunc) Do(r *http.Request) (*http.Response, error) { return f(r) }

func TestNewClient_CustomDoer(t *testing.T) {
	var seen *http.Request
	doer := doerFunc(func(r *http.Request) (*http.Response, error) {
		seen = r
		return &http.Response{
			StatusCode: http.StatusOK,
			Body:       http.NoBody,
			Header:     make(http.Header),
			Request:    r,
		}, nil
	})

	c, err := client.NewClient("t", client.WithHTTPClient(doer))
	if err != nil {
		t.Fatalf("unexpected: %v", err)
	}
	if err := c.Counterparties.Delete(context.Background(), "7"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if seen == nil || seen.URL.String() != "https://api.s.unit.sh/counterparties/7" {
		t.Fatalf("request = %#v", seen)
	}

	// timeouts belong to the custom doer
	if _, err := client.NewClient("t", client.WithHTTPClient(doer), client.WithHTTPTimeout(time.Second)); err == nil {
		t.Fatalf("expected error combining a custom doer with WithHTTPTimeout")
	}
}

func TestNewClient_WithUserAgentAndHTTPTimeout(t *testing.T) {
	ua := "unitx-test/1.0"
	c, err := client.NewClient("t",
		client.WithUserAgent(ua),
		client.WithUserAgent("   "),
		client.WithHTTPTimeout(1500*time.Millisecond),
	)
	if err != nil {
		t.Fatalf("unexpected: %v", err)
	}
	if c.UserAgent != ua {
		t.Fatalf("UserAgent = %q, want %q", c.UserAgent, ua)
	}
	hc, ok := c.HTTPClient.(*http.Client)
	if !ok {
		t.Fatalf("HTTPClient = %T, want *http.Client", c.HTTPClient)
	}
	if hc.Timeout != 1500*time.Millisecond {
		t.Fatalf("timeout = %v, want 1.5s", hc.Timeout)
	}
	if got := c.Cards.Headers().Get("User-Agent"); got != ua {
		t.Fatalf("User-Agent header = %q", got)
	}
}

func TestNewClient_WithHTTPTimeoutCopiesCallerClient(t *testing.T) {
	own := &http.Client{Timeout: 5 * time.Second}
	c, err := client.NewClient("t",
		client.WithHTTPClient(own),
		client.WithHTTPTimeout(time.Second),
	)
	if err != nil {
		t.Fatalf("unexpected: %v", err)
	}
	if own.Timeout != 5*time.Second {
		t.Fatalf("caller client mutated: timeout = %v", own.Timeout)
	}
	hc, ok := c.HTTPClient.(*http.Client)
	if !ok || hc == own {
		t.Fatalf("HTTPClient = %p, want a copy of %p", hc, own)
	}
	if hc.Timeout != time.Second {
		t.Fatalf("timeout = %v, want 1s", hc.Timeout)
	}
}

func TestNewClient_WithLoggerLogsRequests(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"errors":[{"title":"Not Found","status":"404"}]}`))
	}))
	defer srv.Close()

	var buf bytes.Buffer
	c, err := client.NewClient("secret-token",
		client.WithBaseURL(srv.URL),
		client.WithHTTPClient(srv.Client()),
		client.WithLogger(logging.New(&buf, logging.ParseLevel("debug"), "json")),
	)
	if err != nil {
		t.Fatalf("unexpected: %v", err)
	}

	_, _ = c.Accounts.Get(context.Background(), "1")

	out := buf.String()
	for _, want := range []string{`"method":"GET"`, `"path":"/1"`, `"status":404`, `"resource":"accounts"`, `"error":"Not Found"`} {
		if !strings.Contains(out, want) {
			t.Fatalf("log %q missing %s", out, want)
		}
	}
	if strings.Contains(out, "secret-token") {
		t.Fatalf("token leaked into logs: %s", out)
	}
}

func TestNewClient_WithMetrics(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":[]}`))
	}))
	defer srv.Close()

	reg := prometheus.NewRegistry()
	base := srv.Client()
	c, err := client.NewClient("t",
		client.WithMetrics(reg),
		client.WithBaseURL(srv.URL),
		client.WithHTTPClient(base),
	)
	if err != nil {
		t.Fatalf("unexpected: %v", err)
	}
	if c.HTTPClient == base {
		t.Fatalf("caller's http.Client must not be modified in place")
	}

	if _, err := c.Events.List(context.Background(), client.ListEventsParams{}); err != nil {
		t.Fatalf("List: %v", err)
	}
	if n := testutil.CollectAndCount(reg, "unitx_client_requests_total"); n != 1 {
		t.Fatalf("requests_total series = %d, want 1", n)
	}

	// a second client on the same registry reuses the collectors
	if _, err := client.NewClient("t", client.WithMetrics(reg)); err != nil {
		t.Fatalf("second client: %v", err)
	}
}

func TestNewClient_WithHeader(t *testing.T) {
	c, err := client.NewClient("t", client.WithHeader("x-request-source", "batch"))
	if err != nil {
		t.Fatalf("unexpected: %v", err)
	}
	for _, h := range []http.Header{c.Accounts.Headers(), c.Payments.Headers(), c.NewResource("/disputes").Headers()} {
		if got := h.Get("X-Request-Source"); got != "batch" {
			t.Fatalf("X-Request-Source = %q", got)
		}
		if got := h.Get("Authorization"); got != "Bearer t" {
			t.Fatalf("Authorization = %q", got)
		}
	}
}
