// Package apierr defines the single error type returned by every unitx
// request. An APIError always carries at least one ErrorObject: either the
// entries of the JSON:API "errors" array the Unit API sent back, or one
// synthetic entry describing a transport, encoding or decoding failure.
package apierr

import (
	"errors"
	"net/http"
)

const (
	// StatusUnknown is used as ErrorObject.Status when no HTTP response
	// was received at all (DNS failure, refused connection, timeout).
	StatusUnknown = 0

	// MultipleErrorsMessage is what Error() returns when the API sent
	// more than one error entry.
	MultipleErrorsMessage = "multiple errors returned, inspect Errors for details"

	// TitleRequestFailed is the synthetic title for failures without a
	// usable response.
	TitleRequestFailed = "Request failed"

	// TitleMalformedResponse is the synthetic title for 2xx responses whose
	// body could not be decoded.
	TitleMalformedResponse = "Malformed response"
)

// ErrorObject is one entry of a JSON:API "errors" array.
type ErrorObject struct {
	Title  string         `json:"title"`
	Status int            `json:"status"`
	Code   string         `json:"code,omitempty"`
	Detail string         `json:"detail,omitempty"`
	Source map[string]any `json:"source,omitempty"`
	Meta   map[string]any `json:"meta,omitempty"`
}

// APIError is returned for any failed call: non-2xx responses, network
// failures and malformed payloads alike.
type APIError struct {
	// Errors is never empty.
	Errors []ErrorObject

	// Status is the HTTP status of the response, or StatusUnknown.
	Status int

	// Raw is the trimmed (size-limited) response body, if there was one.
	Raw string

	// Resp is the original response. Its body is already consumed.
	Resp *http.Response

	// Cause is the underlying error for synthesized entries.
	Cause error
}

// Error returns the title of the only entry, or MultipleErrorsMessage when
// there are several.
func (e *APIError) Error() string {
	switch len(e.Errors) {
	case 0:
		if t := http.StatusText(e.Status); t != "" {
			return t
		}
		return TitleRequestFailed
	case 1:
		return e.Errors[0].Title
	default:
		return MultipleErrorsMessage
	}
}

// Unwrap exposes Cause to errors.Is / errors.As.
func (e *APIError) Unwrap() error {
	return e.Cause
}

// First returns the first error entry.
func (e *APIError) First() ErrorObject {
	if len(e.Errors) == 0 {
		return ErrorObject{Title: e.Error(), Status: e.Status}
	}
	return e.Errors[0]
}

// As extracts an *APIError from err, looking through wrapping.
func As(err error) (*APIError, bool) {
	var ae *APIError
	if errors.As(err, &ae) {
		return ae, true
	}
	return nil, false
}
