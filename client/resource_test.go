package client_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/bodrovis/unitx/apierr"
	"github.com/bodrovis/unitx/client"
)

type recorded struct {
	method string
	uri    string
	header http.Header
	body   string
}

// recorder is an httptest server that remembers every request it served.
type recorder struct {
	mu   sync.Mutex
	reqs []recorded
	srv  *httptest.Server
}

func newRecorder(t *testing.T, status int, body string) *recorder {
	t.Helper()
	rec := &recorder{}
	rec.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		rec.mu.Lock()
		rec.reqs = append(rec.reqs, recorded{
			method: r.Method,
			uri:    r.URL.RequestURI(),
			header: r.Header.Clone(),
			body:   string(b),
		})
		rec.mu.Unlock()
		w.Header().Set("Content-Type", "application/vnd.api+json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(rec.srv.Close)
	return rec
}

func (r *recorder) last(t *testing.T) recorded {
	t.Helper()
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.reqs) == 0 {
		t.Fatalf("no request recorded")
	}
	return r.reqs[len(r.reqs)-1]
}

func (r *recorder) client(t *testing.T, opts ...client.Option) *client.Client {
	t.Helper()
	opts = append([]client.Option{
		client.WithBaseURL(r.srv.URL),
		client.WithHTTPClient(r.srv.Client()),
	}, opts...)
	c, err := client.NewClient("tok", opts...)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return c
}

func TestResource_PathConstruction(t *testing.T) {
	rec := newRecorder(t, http.StatusOK, `{}`)
	res := rec.client(t).NewResource("/accounts")

	for _, rel := range []string{"", "/x", "/x/y"} {
		if err := res.Get(context.Background(), rel, nil, nil); err != nil {
			t.Fatalf("Get(%q): %v", rel, err)
		}
		want := "/accounts" + rel
		if got := rec.last(t).uri; got != want {
			t.Fatalf("uri = %q, want %q", got, want)
		}
	}

	if got, want := res.Path(), rec.srv.URL+"/accounts"; got != want {
		t.Fatalf("Path() = %q, want %q", got, want)
	}
}

func TestResource_TrailingSlashBaseURL(t *testing.T) {
	rec := newRecorder(t, http.StatusOK, `{}`)
	c := rec.client(t, client.WithBaseURL(rec.srv.URL+"/"))

	if err := c.NewResource("/cards").Get(context.Background(), "/1", nil, nil); err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got := rec.last(t).uri; got != "/cards/1" {
		t.Fatalf("uri = %q, want /cards/1", got)
	}
}

func TestResource_DefaultHeaders(t *testing.T) {
	rec := newRecorder(t, http.StatusOK, `{}`)
	res := rec.client(t, client.WithUserAgent("unitx-test/ua")).NewResource("/accounts")

	if err := res.Get(context.Background(), "", nil, nil); err != nil {
		t.Fatalf("Get: %v", err)
	}
	h := rec.last(t).header
	if got := h.Get("Authorization"); got != "Bearer tok" {
		t.Fatalf("Authorization = %q", got)
	}
	if got := h.Get("Content-Type"); got != "application/vnd.api+json" {
		t.Fatalf("Content-Type = %q", got)
	}
	if got := h.Get("User-Agent"); got != "unitx-test/ua" {
		t.Fatalf("User-Agent = %q", got)
	}
}

func TestResource_HeaderMergePrecedence(t *testing.T) {
	rec := newRecorder(t, http.StatusOK, `{}`)
	res := rec.client(t,
		client.WithHeader("A", "1"),
		client.WithHeader("B", "2"),
	).NewResource("/accounts")

	opts := &client.RequestOptions{Headers: http.Header{"B": {"3"}, "C": {"4"}}}
	if err := res.Get(context.Background(), "", opts, nil); err != nil {
		t.Fatalf("Get: %v", err)
	}
	h := rec.last(t).header
	if h.Get("A") != "1" || h.Get("B") != "3" || h.Get("C") != "4" {
		t.Fatalf("merged headers = A:%q B:%q C:%q, want 1/3/4", h.Get("A"), h.Get("B"), h.Get("C"))
	}

	// the next call sees the untouched defaults
	if err := res.Get(context.Background(), "", nil, nil); err != nil {
		t.Fatalf("Get: %v", err)
	}
	h = rec.last(t).header
	if h.Get("B") != "2" || h.Get("C") != "" {
		t.Fatalf("defaults mutated: B:%q C:%q", h.Get("B"), h.Get("C"))
	}
	if got := res.Headers().Get("B"); got != "2" {
		t.Fatalf("stored B = %q, want 2", got)
	}
}

func TestResource_QueryParams(t *testing.T) {
	rec := newRecorder(t, http.StatusOK, `{}`)
	res := rec.client(t).NewResource("/accounts")

	params := url.Values{"filter[customerId]": {"42"}, "page[limit]": {"10"}}
	if err := res.Get(context.Background(), "", &client.RequestOptions{Params: params}, nil); err != nil {
		t.Fatalf("Get: %v", err)
	}
	u, err := url.ParseRequestURI(rec.last(t).uri)
	if err != nil {
		t.Fatalf("parse uri: %v", err)
	}
	q := u.Query()
	if q.Get("filter[customerId]") != "42" || q.Get("page[limit]") != "10" {
		t.Fatalf("query = %v", q)
	}
}

func TestResource_PostBodyVerbatim(t *testing.T) {
	rec := newRecorder(t, http.StatusCreated, `{"data":{"type":"x","id":"1","attributes":{}}}`)
	res := rec.client(t).NewResource("/things")

	body := map[string]any{"anything": "goes", "note": "a<b"}
	var out map[string]any
	if err := res.Post(context.Background(), "", body, nil, &out); err != nil {
		t.Fatalf("Post: %v", err)
	}
	if got := strings.TrimSpace(rec.last(t).body); got != `{"anything":"goes","note":"a<b"}` {
		t.Fatalf("body = %s", got)
	}
	if _, ok := out["data"]; !ok {
		t.Fatalf("decoded response missing data: %#v", out)
	}
}

func TestResource_PostWithoutBody(t *testing.T) {
	rec := newRecorder(t, http.StatusOK, `{}`)
	res := rec.client(t).NewResource("/cards")

	if err := res.Post(context.Background(), "/1/freeze", nil, nil, nil); err != nil {
		t.Fatalf("Post: %v", err)
	}
	if got := rec.last(t).body; got != "" {
		t.Fatalf("body = %q, want empty", got)
	}
}

func TestResource_PatchNormalization(t *testing.T) {
	rec := newRecorder(t, http.StatusOK, `{}`)
	res := rec.client(t).NewResource("/accounts")
	ctx := context.Background()

	wrapped := map[string]any{"data": map[string]any{"type": "x", "attributes": map[string]any{}}}
	bare := map[string]any{"type": "x", "attributes": map[string]any{}}

	if err := res.Patch(ctx, "/1", wrapped, nil, nil); err != nil {
		t.Fatalf("Patch(wrapped): %v", err)
	}
	first := rec.last(t)
	if err := res.Patch(ctx, "/1", bare, nil, nil); err != nil {
		t.Fatalf("Patch(bare): %v", err)
	}
	second := rec.last(t)

	if first.body != second.body {
		t.Fatalf("bodies differ:\n%s\n%s", first.body, second.body)
	}
	if got := strings.TrimSpace(first.body); got != `{"data":{"attributes":{},"type":"x"}}` {
		t.Fatalf("body = %s", got)
	}
	if first.method != http.MethodPatch {
		t.Fatalf("method = %s", first.method)
	}
}

func TestResource_PatchDropsExtraKeys(t *testing.T) {
	rec := newRecorder(t, http.StatusOK, `{}`)
	res := rec.client(t).NewResource("/accounts")

	type update struct {
		Type       string            `json:"type"`
		Attributes map[string]string `json:"attributes"`
		Extra      string            `json:"extra"`
	}
	in := update{Type: "depositAccount", Attributes: map[string]string{"k": "v"}, Extra: "dropped"}
	if err := res.Patch(context.Background(), "/1", in, nil, nil); err != nil {
		t.Fatalf("Patch: %v", err)
	}
	if got := strings.TrimSpace(rec.last(t).body); got != `{"data":{"attributes":{"k":"v"},"type":"depositAccount"}}` {
		t.Fatalf("body = %s", got)
	}
}

func TestResource_PatchRejectsNonObject(t *testing.T) {
	rec := newRecorder(t, http.StatusOK, `{}`)
	res := rec.client(t).NewResource("/accounts")

	err := res.Patch(context.Background(), "/1", []int{1, 2}, nil, nil)
	if _, ok := apierr.As(err); !ok {
		t.Fatalf("expected *apierr.APIError, got %T: %v", err, err)
	}
	if len(rec.reqs) != 0 {
		t.Fatalf("request sent despite invalid body")
	}
}

func TestResource_DeleteBodyRules(t *testing.T) {
	rec := newRecorder(t, http.StatusNoContent, ``)
	res := rec.client(t).NewResource("/counterparties")
	ctx := context.Background()

	if err := res.Delete(ctx, "/7", nil, nil); err != nil {
		t.Fatalf("Delete(nil): %v", err)
	}
	if got := rec.last(t).body; got != "" {
		t.Fatalf("body = %q, want none", got)
	}

	if err := res.Delete(ctx, "/7", map[string]any{}, nil); err != nil {
		t.Fatalf("Delete({}): %v", err)
	}
	if got := strings.TrimSpace(rec.last(t).body); got != "{}" {
		t.Fatalf("body = %q, want {}", got)
	}
}

func TestResource_ErrorPassthrough(t *testing.T) {
	rec := newRecorder(t, http.StatusBadRequest, `{"errors":[{"title":"Bad","status":400}]}`)
	res := rec.client(t).NewResource("/accounts")

	err := res.Get(context.Background(), "/1", nil, nil)
	ae, ok := apierr.As(err)
	if !ok {
		t.Fatalf("expected *apierr.APIError, got %T", err)
	}
	if len(ae.Errors) != 1 || ae.Errors[0].Title != "Bad" || ae.Errors[0].Status != 400 {
		t.Fatalf("errors = %#v", ae.Errors)
	}
	if ae.Errors[0].Code != "" || ae.Errors[0].Detail != "" {
		t.Fatalf("unexpected extra fields: %#v", ae.Errors[0])
	}
	if err.Error() != "Bad" {
		t.Fatalf("message = %q, want Bad", err.Error())
	}
	if ae.Resp == nil || ae.Resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("Resp not attached")
	}
}

func TestResource_MultipleErrors(t *testing.T) {
	rec := newRecorder(t, http.StatusUnprocessableEntity,
		`{"errors":[{"title":"First","status":"422"},{"title":"Second","status":"422","detail":"d"}]}`)
	res := rec.client(t).NewResource("/applications")

	err := res.Post(context.Background(), "", map[string]any{}, nil, nil)
	ae, ok := apierr.As(err)
	if !ok {
		t.Fatalf("expected *apierr.APIError, got %T", err)
	}
	if len(ae.Errors) != 2 {
		t.Fatalf("errors = %#v", ae.Errors)
	}
	if msg := err.Error(); msg == "First" || msg == "Second" {
		t.Fatalf("message %q must be the generic summary", msg)
	}
}

func TestResource_NonJSONErrorBody(t *testing.T) {
	rec := newRecorder(t, http.StatusBadGateway, `<html>bad gateway</html>`)
	res := rec.client(t).NewResource("/accounts")

	err := res.Get(context.Background(), "", nil, nil)
	ae, ok := apierr.As(err)
	if !ok {
		t.Fatalf("expected *apierr.APIError, got %T", err)
	}
	if len(ae.Errors) != 1 || ae.Errors[0].Title == "" || ae.Errors[0].Status != http.StatusBadGateway {
		t.Fatalf("errors = %#v", ae.Errors)
	}
	if !apierr.IsRetryable(err) {
		t.Fatalf("502 should be retryable")
	}
}

func TestResource_TransportFailure(t *testing.T) {
	rec := newRecorder(t, http.StatusOK, `{}`)
	c := rec.client(t)
	res := c.NewResource("/accounts")
	rec.srv.Close()

	err := res.Get(context.Background(), "", nil, nil)
	ae, ok := apierr.As(err)
	if !ok {
		t.Fatalf("expected *apierr.APIError, got %T", err)
	}
	if len(ae.Errors) != 1 || ae.Errors[0].Title == "" {
		t.Fatalf("errors = %#v", ae.Errors)
	}
	if ae.Errors[0].Status != apierr.StatusUnknown {
		t.Fatalf("status = %d, want sentinel", ae.Errors[0].Status)
	}
	if ae.Cause == nil {
		t.Fatalf("cause not kept")
	}
}

func TestResource_ContextCanceled(t *testing.T) {
	rec := newRecorder(t, http.StatusOK, `{}`)
	res := rec.client(t).NewResource("/accounts")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := res.Get(ctx, "", nil, nil)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled in chain", err)
	}
}

func TestResource_DecodeFailure(t *testing.T) {
	rec := newRecorder(t, http.StatusOK, `{"data":`)
	res := rec.client(t).NewResource("/accounts")

	var out map[string]any
	err := res.Get(context.Background(), "", nil, &out)
	ae, ok := apierr.As(err)
	if !ok {
		t.Fatalf("expected *apierr.APIError, got %T", err)
	}
	if ae.Errors[0].Title == "" {
		t.Fatalf("empty title")
	}
}

func TestResource_TextAndBinaryEncodings(t *testing.T) {
	rec := newRecorder(t, http.StatusOK, "<html>statement</html>")
	res := rec.client(t).NewResource("/statements")
	ctx := context.Background()

	var text string
	if err := res.Get(ctx, "/1/html", &client.RequestOptions{Encoding: client.EncodingText}, &text); err != nil {
		t.Fatalf("Get text: %v", err)
	}
	if text != "<html>statement</html>" {
		t.Fatalf("text = %q", text)
	}

	var raw []byte
	if err := res.Get(ctx, "/1/pdf", &client.RequestOptions{Encoding: client.EncodingBinary}, &raw); err != nil {
		t.Fatalf("Get binary: %v", err)
	}
	if string(raw) != "<html>statement</html>" {
		t.Fatalf("raw = %q", raw)
	}

	var wrong int
	if err := res.Get(ctx, "/1/html", &client.RequestOptions{Encoding: client.EncodingText}, &wrong); err == nil {
		t.Fatalf("expected error for non-string target")
	}
}

func TestResource_EmptySuccessBody(t *testing.T) {
	rec := newRecorder(t, http.StatusNoContent, ``)
	res := rec.client(t).NewResource("/webhooks")

	var out map[string]any
	if err := res.Get(context.Background(), "/1", nil, &out); err != nil {
		t.Fatalf("Get: %v", err)
	}
	if out != nil {
		t.Fatalf("out = %#v, want nil", out)
	}
}
