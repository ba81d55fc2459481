package client

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const (
	defaultPageLimit  = 100
	defaultPageOffset = 0
)

// Page controls pagination of list endpoints. Nil fields take the API
// defaults: limit 100, offset 0. Both are always sent.
type Page struct {
	Limit  *int
	Offset *int
}

// query assembles list parameters. Every setter ignores absent (nil/empty)
// values but keeps present zero values such as 0, false or "".
type query struct {
	v url.Values
}

func newQuery() *query {
	return &query{v: make(url.Values)}
}

func (q *query) values() url.Values {
	if len(q.v) == 0 {
		return nil
	}
	return q.v
}

func (q *query) page(p Page) *query {
	q.v.Set("page[limit]", strconv.Itoa(intOr(p.Limit, defaultPageLimit)))
	q.v.Set("page[offset]", strconv.Itoa(intOr(p.Offset, defaultPageOffset)))
	return q
}

func (q *query) setString(key string, s *string) *query {
	if s != nil {
		q.v.Set(key, *s)
	}
	return q
}

func (q *query) setInt(key string, n *int) *query {
	if n != nil {
		q.v.Set(key, strconv.Itoa(*n))
	}
	return q
}

func (q *query) setInt64(key string, n *int64) *query {
	if n != nil {
		q.v.Set(key, strconv.FormatInt(*n, 10))
	}
	return q
}

func (q *query) setBool(key string, b *bool) *query {
	if b != nil {
		q.v.Set(key, strconv.FormatBool(*b))
	}
	return q
}

// setTime writes RFC 3339 timestamps, the format Unit filters accept.
func (q *query) setTime(key string, t *time.Time) *query {
	if t != nil {
		q.v.Set(key, t.UTC().Format(time.RFC3339))
	}
	return q
}

// setDate writes YYYY-MM-DD dates.
func (q *query) setDate(key string, t *time.Time) *query {
	if t != nil {
		q.v.Set(key, t.Format(time.DateOnly))
	}
	return q
}

// setList writes key[0]=a&key[1]=b, the array form used by filter[status]
// and friends. A nil slice writes nothing; an empty slice writes nothing
// either since the API has no notion of an empty array filter.
func (q *query) setList(key string, items []string) *query {
	for i, it := range items {
		q.v.Set(fmt.Sprintf("%s[%d]", key, i), it)
	}
	return q
}

// setTags writes the tags filter as a JSON object string.
func (q *query) setTags(key string, tags map[string]string) *query {
	if tags == nil {
		return q
	}
	b, err := json.Marshal(tags)
	if err != nil {
		return q
	}
	q.v.Set(key, string(b))
	return q
}

// setInclude writes a comma-separated include list.
func (q *query) setInclude(include []string) *query {
	if len(include) == 0 {
		return q
	}
	q.v.Set("include", strings.Join(include, ","))
	return q
}

func intOr(p *int, def int) int {
	if p == nil {
		return def
	}
	return *p
}

// Ptr returns a pointer to v. Handy for optional filter fields:
//
//	client.ListAccountsParams{CustomerID: client.Ptr("42")}
func Ptr[T any](v T) *T {
	return &v
}
