package apierr

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
)

// Parse builds an APIError from a non-2xx response body.
// slurp is already size-limited; status is the HTTP status.
//
// A JSON:API body of the form {"errors":[...]} whose entries all carry a
// title is taken verbatim. Anything else (empty, HTML, JSON without
// "errors", entries without a title) becomes a single synthetic entry
// titled after the HTTP status.
func Parse(slurp []byte, status int) *APIError {
	trimmed := strings.TrimSpace(string(slurp))

	if objs, ok := decodeErrorObjects(trimmed); ok {
		return &APIError{
			Errors: objs,
			Status: status,
			Raw:    trimmed,
		}
	}

	return &APIError{
		Errors: []ErrorObject{{
			Title:  coalesce(http.StatusText(status), TitleRequestFailed),
			Status: status,
			Detail: trimmed,
		}},
		Status: status,
		Raw:    trimmed,
	}
}

// FromTransport wraps a failure that produced no response: network errors,
// context cancellation, request construction or body encoding problems.
// An *APIError is returned unchanged.
func FromTransport(err error) *APIError {
	if err == nil {
		return nil
	}
	if ae, ok := As(err); ok {
		return ae
	}
	return &APIError{
		Errors: []ErrorObject{{
			Title:  TitleRequestFailed,
			Status: StatusUnknown,
			Detail: err.Error(),
		}},
		Status: StatusUnknown,
		Cause:  err,
	}
}

// FromDecode wraps a 2xx response whose body could not be decoded.
func FromDecode(err error, status int) *APIError {
	return &APIError{
		Errors: []ErrorObject{{
			Title:  TitleMalformedResponse,
			Status: status,
			Detail: err.Error(),
		}},
		Status: status,
		Cause:  err,
	}
}

func decodeErrorObjects(trimmed string) ([]ErrorObject, bool) {
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, false
	}

	var payload struct {
		Errors []ErrorObject `json:"errors"`
	}
	if err := json.Unmarshal([]byte(trimmed), &payload); err != nil {
		return nil, false
	}
	if len(payload.Errors) == 0 {
		return nil, false
	}
	// Every entry needs a title, otherwise the body is not a Unit error document.
	for _, o := range payload.Errors {
		if strings.TrimSpace(o.Title) == "" {
			return nil, false
		}
	}
	return payload.Errors, true
}

// UnmarshalJSON accepts "status" both as a JSON number and as a numeric
// string; the Unit API uses the latter.
func (o *ErrorObject) UnmarshalJSON(b []byte) error {
	type plain ErrorObject
	var aux struct {
		plain
		Status json.RawMessage `json:"status"`
	}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	*o = ErrorObject(aux.plain)

	st, err := parseStatus(aux.Status)
	if err != nil {
		return err
	}
	o.Status = st
	return nil
}

func parseStatus(raw json.RawMessage) (int, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || string(raw) == "null" {
		return StatusUnknown, nil
	}

	var n json.Number
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return 0, err
		}
		s = strings.TrimSpace(s)
		if s == "" {
			return StatusUnknown, nil
		}
		n = json.Number(s)
	} else if err := json.Unmarshal(raw, &n); err != nil {
		return 0, err
	}

	if i, err := strconv.Atoi(n.String()); err == nil {
		return i, nil
	}
	if f, err := n.Float64(); err == nil {
		return int(f), nil
	}
	return 0, errors.New("status is not numeric: " + n.String())
}

func coalesce(ss ...string) string {
	for _, s := range ss {
		if s != "" {
			return s
		}
	}
	return ""
}
