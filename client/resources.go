package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/bodrovis/unitx/apierr"
	"github.com/bodrovis/unitx/jsonapi"
)

// Response is a single-resource document.
type Response[T any] struct {
	Data     T
	Included []jsonapi.RawResource
	Meta     *jsonapi.Meta
}

// ListResponse is a collection document.
type ListResponse[T any] struct {
	Data     []T
	Included []jsonapi.RawResource
	Meta     *jsonapi.Meta
}

// Total returns meta.pagination.total, or the page length when the API
// sent no pagination block.
func (l *ListResponse[T]) Total() int {
	if l.Meta != nil && l.Meta.Pagination != nil {
		return l.Meta.Pagination.Total
	}
	return len(l.Data)
}

// UnknownResource holds a resource whose "type" this package does not
// model yet. It satisfies every union interface so new API variants never
// break decoding.
type UnknownResource jsonapi.RawResource

func (u UnknownResource) ResourceID() string   { return u.ID }
func (u UnknownResource) ResourceType() string { return u.Type }

func (UnknownResource) isAccount()     {}
func (UnknownResource) isCustomer()    {}
func (UnknownResource) isApplication() {}
func (UnknownResource) isCard()        {}
func (UnknownResource) isPayment()     {}
func (UnknownResource) isTransaction() {}
func (UnknownResource) isEvent()       {}

func unknownVariant[T any](raw jsonapi.RawResource) (T, error) {
	v, ok := any(UnknownResource(raw)).(T)
	if !ok {
		var zero T
		return zero, fmt.Errorf("unknown type %q", raw.Type)
	}
	return v, nil
}

// Tags are free-form key/value labels Unit lets you attach to resources.
type Tags map[string]string

// Address is a postal address.
type Address struct {
	Street     string `json:"street"`
	Street2    string `json:"street2,omitempty"`
	City       string `json:"city"`
	State      string `json:"state,omitempty"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`
}

// FullName is a first/last name pair.
type FullName struct {
	First string `json:"first"`
	Last  string `json:"last"`
}

// Phone is a phone number with country code.
type Phone struct {
	CountryCode string `json:"countryCode"`
	Number      string `json:"number"`
}

// Date is a calendar date encoded as "YYYY-MM-DD".
type Date struct {
	time.Time
}

// NewDate returns the date part of t.
func NewDate(year int, month time.Month, day int) Date {
	return Date{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.Format(time.DateOnly))
}

func (d *Date) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		*d = Date{}
		return nil
	}
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return fmt.Errorf("parse date %q: %w", s, err)
	}
	*d = Date{t}
	return nil
}

// emptyBody is sent where the API rejects an absent body paired with the
// JSON:API content type (HTTP 415).
func emptyBody() map[string]any {
	return map[string]any{}
}

// requireID guards path segments: an empty id would silently hit the
// collection endpoint instead.
func requireID(op, name, id string) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("%s: %s is required", op, name)
	}
	return nil
}

func fetchOne[T any](ctx context.Context, r *Resource, method, rel string, body any, opts *RequestOptions, u *jsonapi.Union[T]) (*Response[T], error) {
	var doc jsonapi.Document[jsonapi.RawResource]
	if err := r.send(ctx, method, rel, body, opts, &doc); err != nil {
		return nil, err
	}
	data, err := u.Decode(doc.Data)
	if err != nil {
		return nil, apierr.FromDecode(err, http.StatusOK)
	}
	return &Response[T]{Data: data, Included: doc.Included, Meta: doc.Meta}, nil
}

func fetchMany[T any](ctx context.Context, r *Resource, rel string, opts *RequestOptions, u *jsonapi.Union[T]) (*ListResponse[T], error) {
	var doc jsonapi.Document[[]jsonapi.RawResource]
	if err := r.Get(ctx, rel, opts, &doc); err != nil {
		return nil, err
	}
	data, err := u.DecodeMany(doc.Data)
	if err != nil {
		return nil, apierr.FromDecode(err, http.StatusOK)
	}
	return &ListResponse[T]{Data: data, Included: doc.Included, Meta: doc.Meta}, nil
}

func fetchTyped[A any](ctx context.Context, r *Resource, method, rel string, body any, opts *RequestOptions) (*Response[jsonapi.Resource[A]], error) {
	var doc jsonapi.Document[jsonapi.Resource[A]]
	if err := r.send(ctx, method, rel, body, opts, &doc); err != nil {
		return nil, err
	}
	return &Response[jsonapi.Resource[A]]{Data: doc.Data, Included: doc.Included, Meta: doc.Meta}, nil
}

func fetchTypedList[A any](ctx context.Context, r *Resource, rel string, opts *RequestOptions) (*ListResponse[jsonapi.Resource[A]], error) {
	var doc jsonapi.Document[[]jsonapi.Resource[A]]
	if err := r.Get(ctx, rel, opts, &doc); err != nil {
		return nil, err
	}
	return &ListResponse[jsonapi.Resource[A]]{Data: doc.Data, Included: doc.Included, Meta: doc.Meta}, nil
}

// send dispatches on method so generic helpers can share one code path.
func (r *Resource) send(ctx context.Context, method, rel string, body any, opts *RequestOptions, v any) error {
	switch method {
	case http.MethodGet:
		return r.Get(ctx, rel, opts, v)
	case http.MethodPost:
		return r.Post(ctx, rel, body, opts, v)
	case http.MethodPatch:
		return r.Patch(ctx, rel, body, opts, v)
	case http.MethodPut:
		return r.Put(ctx, rel, body, opts, v)
	case http.MethodDelete:
		return r.Delete(ctx, rel, body, v)
	default:
		return apierr.FromTransport(fmt.Errorf("unsupported method %q", method))
	}
}

func includeOpts(include []string) *RequestOptions {
	q := newQuery().setInclude(include)
	return &RequestOptions{Params: q.values()}
}
