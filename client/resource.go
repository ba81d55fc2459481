package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/bodrovis/unitx/apierr"
	"github.com/bodrovis/unitx/internal/logging"
	"github.com/bodrovis/unitx/internal/utils"
)

// ResponseEncoding tells the pipeline how to read a successful body.
type ResponseEncoding int

const (
	// EncodingJSON decodes the body as JSON into the target value.
	EncodingJSON ResponseEncoding = iota
	// EncodingText reads the body into a *string.
	EncodingText
	// EncodingBinary reads the body into a *[]byte.
	EncodingBinary
)

// RequestOptions are per-call additions to a request.
type RequestOptions struct {
	// Headers override the resource headers key by key.
	Headers http.Header
	// Params become the query string.
	Params url.Values
	// Encoding selects how the success body is read.
	Encoding ResponseEncoding
}

// Resource is the request pipeline shared by every resource wrapper: it
// joins its fixed path with a relative path, merges headers, sends the
// request and decodes the answer. Any failure comes back as an
// *apierr.APIError.
type Resource struct {
	path    string
	headers http.Header
	hc      HTTPDoer
	logger  *slog.Logger
}

// Path returns the absolute resource path, e.g. "https://api.s.unit.sh/accounts".
func (r *Resource) Path() string {
	return r.path
}

// Headers returns a copy of the headers sent with every request.
func (r *Resource) Headers() http.Header {
	return r.headers.Clone()
}

// Get issues GET path+rel and decodes the response into v.
func (r *Resource) Get(ctx context.Context, rel string, opts *RequestOptions, v any) error {
	return r.do(ctx, http.MethodGet, rel, nil, false, opts, v)
}

// Post issues POST path+rel. body is sent as JSON verbatim; nil means no body.
func (r *Resource) Post(ctx context.Context, rel string, body any, opts *RequestOptions, v any) error {
	return r.do(ctx, http.MethodPost, rel, body, body != nil, opts, v)
}

// Patch issues PATCH path+rel. data that is not already a {"data": ...}
// envelope is wrapped as {"data":{"type":..,"attributes":..}}.
func (r *Resource) Patch(ctx context.Context, rel string, data any, opts *RequestOptions, v any) error {
	body, err := normalizePatchBody(data)
	if err != nil {
		return apierr.FromTransport(fmt.Errorf("patch body: %w", err))
	}
	return r.do(ctx, http.MethodPatch, rel, body, body != nil, opts, v)
}

// Put issues PUT path+rel. An io.Reader body is streamed as-is; set its
// Content-Type through opts.Headers.
func (r *Resource) Put(ctx context.Context, rel string, body any, opts *RequestOptions, v any) error {
	return r.do(ctx, http.MethodPut, rel, body, body != nil, opts, v)
}

// Delete issues DELETE path+rel. The request carries a body only when body
// is non-nil; pass map[string]any{} to send an explicit "{}".
func (r *Resource) Delete(ctx context.Context, rel string, body any, v any) error {
	return r.do(ctx, http.MethodDelete, rel, body, body != nil, nil, v)
}

func (r *Resource) do(ctx context.Context, method, rel string, body any, hasBody bool, opts *RequestOptions, v any) (err error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if opts == nil {
		opts = &RequestOptions{}
	}

	started := time.Now()
	status := apierr.StatusUnknown
	defer func() {
		r.logRequest(ctx, method, rel, status, time.Since(started), err)
	}()

	req, err := r.newRequest(ctx, method, rel, body, hasBody, opts)
	if err != nil {
		return apierr.FromTransport(err)
	}

	resp, err := r.hc.Do(req)
	if err != nil {
		// after Do() net/http already handled closing the request body.
		return apierr.FromTransport(fmt.Errorf("send request: %w", err))
	}
	defer func() { _ = resp.Body.Close() }()
	status = resp.StatusCode

	// Non-2xx: parse as APIError with a bounded snippet for debugging.
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		slurp, _ := io.ReadAll(io.LimitReader(resp.Body, defaultErrCap))
		// Drain the rest to maximize chances of connection reuse.
		_, _ = io.Copy(io.Discard, resp.Body)

		ae := apierr.Parse(slurp, resp.StatusCode)
		ae.Resp = resp
		return ae
	}

	if err := decodeBody(resp.Body, opts.Encoding, v); err != nil {
		ae := apierr.FromDecode(err, resp.StatusCode)
		ae.Resp = resp
		return ae
	}
	return nil
}

func (r *Resource) newRequest(ctx context.Context, method, rel string, body any, hasBody bool, opts *RequestOptions) (*http.Request, error) {
	fullURL := r.path + rel
	if len(opts.Params) > 0 {
		fullURL += "?" + opts.Params.Encode()
	}

	var rdr io.Reader
	if hasBody {
		switch b := body.(type) {
		case io.Reader:
			rdr = b
		default:
			buf, err := utils.EncodeJSONBody(b)
			if err != nil {
				return nil, err
			}
			rdr = bytes.NewReader(buf.Bytes())
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, rdr)
	if err != nil {
		if cl, ok := rdr.(io.Closer); ok {
			_ = cl.Close()
		}
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header = mergeHeaders(r.headers, opts.Headers)
	return req, nil
}

// mergeHeaders returns a fresh header map: base first, then overrides key
// by key. Neither input is modified.
func mergeHeaders(base, override http.Header) http.Header {
	out := base.Clone()
	if out == nil {
		out = make(http.Header, len(override))
	}
	for k, vv := range override {
		if len(vv) == 0 {
			continue
		}
		out[http.CanonicalHeaderKey(k)] = append([]string(nil), vv...)
	}
	return out
}

// normalizePatchBody accepts either a ready {"data": ...} envelope or a bare
// {"type": .., "attributes": ..} object and always returns the envelope.
// Keys absent from data stay absent.
func normalizePatchBody(data any) (any, error) {
	if data == nil {
		return nil, nil
	}

	buf, err := utils.EncodeJSONBody(data)
	if err != nil {
		return nil, err
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(buf.Bytes(), &obj); err != nil {
		return nil, errors.New("data must encode to a JSON object")
	}
	if _, ok := obj["data"]; ok {
		return obj, nil
	}

	inner := make(map[string]json.RawMessage, 2)
	if t, ok := obj["type"]; ok {
		inner["type"] = t
	}
	if a, ok := obj["attributes"]; ok {
		inner["attributes"] = a
	}
	return map[string]any{"data": inner}, nil
}

func decodeBody(body io.Reader, enc ResponseEncoding, v any) error {
	// No target to decode into → drain body and return.
	if v == nil {
		_, _ = io.Copy(io.Discard, body)
		return nil
	}

	switch enc {
	case EncodingText:
		dst, ok := v.(*string)
		if !ok {
			return fmt.Errorf("text response needs *string, got %T", v)
		}
		b, err := io.ReadAll(body)
		if err != nil {
			return fmt.Errorf("read response: %w", err)
		}
		*dst = string(b)
		return nil

	case EncodingBinary:
		dst, ok := v.(*[]byte)
		if !ok {
			return fmt.Errorf("binary response needs *[]byte, got %T", v)
		}
		b, err := io.ReadAll(body)
		if err != nil {
			return fmt.Errorf("read response: %w", err)
		}
		*dst = b
		return nil
	}

	if err := json.NewDecoder(body).Decode(v); err != nil {
		// Empty body (204 or some 200s) is fine.
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (r *Resource) logRequest(ctx context.Context, method, rel string, status int, d time.Duration, err error) {
	if !r.logger.Enabled(ctx, slog.LevelDebug) {
		return
	}
	attrs := []slog.Attr{
		logging.Method(method),
		logging.Path(rel),
		logging.Status(status),
		logging.Duration(d),
	}
	if err != nil {
		attrs = append(attrs, logging.Error(err))
	}
	r.logger.LogAttrs(ctx, slog.LevelDebug, "unit request", attrs...)
}
