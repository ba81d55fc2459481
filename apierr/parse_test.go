package apierr_test

import (
	"errors"
	"net/http"
	"reflect"
	"testing"

	"github.com/bodrovis/unitx/apierr"
)

func TestParse_JSONAPIErrors_Passthrough(t *testing.T) {
	body := []byte(`{"errors":[{"title":"Bad","status":400}]}`)

	e := apierr.Parse(body, http.StatusBadRequest)

	want := []apierr.ErrorObject{{Title: "Bad", Status: 400}}
	if !reflect.DeepEqual(e.Errors, want) {
		t.Fatalf("Errors = %#v, want %#v", e.Errors, want)
	}
	if e.Error() != "Bad" {
		t.Fatalf("Error() = %q, want %q", e.Error(), "Bad")
	}
	if e.Status != http.StatusBadRequest {
		t.Fatalf("Status = %d, want 400", e.Status)
	}
}

func TestParse_StatusAsString(t *testing.T) {
	body := []byte(`{"errors":[{"title":"Not Found","status":"404","detail":"Account 1 not found","code":"not_found"}]}`)

	e := apierr.Parse(body, http.StatusNotFound)
	if len(e.Errors) != 1 {
		t.Fatalf("len(Errors) = %d, want 1", len(e.Errors))
	}
	got := e.Errors[0]
	if got.Status != 404 || got.Code != "not_found" || got.Detail != "Account 1 not found" {
		t.Fatalf("unexpected entry: %#v", got)
	}
}

func TestParse_MultipleErrors_KeepsOrderAndExtras(t *testing.T) {
	body := []byte(`{"errors":[
		{"title":"Invalid","status":"400","source":{"pointer":"/data/attributes/ssn"}},
		{"title":"Missing","status":400,"meta":{"field":"email"}}
	]}`)

	e := apierr.Parse(body, http.StatusBadRequest)
	if len(e.Errors) != 2 {
		t.Fatalf("len(Errors) = %d, want 2", len(e.Errors))
	}
	if e.Errors[0].Title != "Invalid" || e.Errors[1].Title != "Missing" {
		t.Fatalf("order mismatch: %#v", e.Errors)
	}
	if e.Errors[0].Source["pointer"] != "/data/attributes/ssn" {
		t.Fatalf("source lost: %#v", e.Errors[0].Source)
	}
	if e.Errors[1].Meta["field"] != "email" {
		t.Fatalf("meta lost: %#v", e.Errors[1].Meta)
	}
	if e.Error() != apierr.MultipleErrorsMessage {
		t.Fatalf("Error() = %q, want generic message", e.Error())
	}
}

func TestParse_NonJSON(t *testing.T) {
	body := []byte("  <html>gateway exploded</html>\n")
	st := http.StatusBadGateway

	e := apierr.Parse(body, st)
	if len(e.Errors) != 1 {
		t.Fatalf("len(Errors) = %d, want 1", len(e.Errors))
	}
	if e.Errors[0].Title != http.StatusText(st) || e.Errors[0].Status != st {
		t.Fatalf("unexpected entry: %#v", e.Errors[0])
	}
	if e.Raw != "<html>gateway exploded</html>" {
		t.Fatalf("Raw = %q not trimmed", e.Raw)
	}
	if e.Errors[0].Detail != e.Raw {
		t.Fatalf("Detail = %q, want raw body", e.Errors[0].Detail)
	}
}

func TestParse_JSONWithoutErrors(t *testing.T) {
	e := apierr.Parse([]byte(`{"message":"nope"}`), http.StatusForbidden)
	if len(e.Errors) != 1 || e.Errors[0].Title != http.StatusText(http.StatusForbidden) {
		t.Fatalf("unexpected: %#v", e.Errors)
	}
}

func TestParse_EmptyErrorsArray(t *testing.T) {
	e := apierr.Parse([]byte(`{"errors":[]}`), http.StatusInternalServerError)
	if len(e.Errors) != 1 {
		t.Fatalf("len(Errors) = %d, want 1 synthetic entry", len(e.Errors))
	}
	if e.Errors[0].Status != http.StatusInternalServerError {
		t.Fatalf("Status = %d, want 500", e.Errors[0].Status)
	}
}

func TestParse_EntryWithoutTitle(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"single untitled", `{"errors":[{"status":"400","detail":"no title"}]}`},
		{"blank title", `{"errors":[{"title":"  ","status":"400"}]}`},
		{"one of several untitled", `{"errors":[{"title":"Bad","status":"400"},{"status":"400"}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := apierr.Parse([]byte(tt.body), http.StatusBadRequest)
			if len(e.Errors) != 1 {
				t.Fatalf("len(Errors) = %d, want 1 synthetic entry", len(e.Errors))
			}
			if got := e.Error(); got != http.StatusText(http.StatusBadRequest) {
				t.Fatalf("Error() = %q, want %q", got, http.StatusText(http.StatusBadRequest))
			}
			if e.Errors[0].Detail != tt.body || e.Errors[0].Status != http.StatusBadRequest {
				t.Fatalf("entry = %#v", e.Errors[0])
			}
		})
	}
}

func TestParse_InvalidJSON(t *testing.T) {
	e := apierr.Parse([]byte("{oops"), http.StatusInternalServerError)
	if len(e.Errors) != 1 || e.Errors[0].Title == "" {
		t.Fatalf("unexpected: %#v", e.Errors)
	}
	if e.Raw != "{oops" {
		t.Fatalf("Raw = %q, want {oops", e.Raw)
	}
}

func TestParse_EmptyBody_UnknownStatus(t *testing.T) {
	e := apierr.Parse(nil, 599)
	if len(e.Errors) != 1 {
		t.Fatalf("len(Errors) = %d, want 1", len(e.Errors))
	}
	if e.Errors[0].Title != apierr.TitleRequestFailed {
		t.Fatalf("Title = %q, want %q", e.Errors[0].Title, apierr.TitleRequestFailed)
	}
	if e.Errors[0].Detail != "" {
		t.Fatalf("Detail = %q, want empty", e.Errors[0].Detail)
	}
}

func TestFromTransport_SynthesizesSingleEntry(t *testing.T) {
	cause := errors.New("dial tcp: connection refused")
	e := apierr.FromTransport(cause)

	if len(e.Errors) != 1 {
		t.Fatalf("len(Errors) = %d, want 1", len(e.Errors))
	}
	if e.Errors[0].Title == "" {
		t.Fatalf("Title must be non-empty")
	}
	if e.Errors[0].Status != apierr.StatusUnknown || e.Status != apierr.StatusUnknown {
		t.Fatalf("status = %d/%d, want StatusUnknown", e.Errors[0].Status, e.Status)
	}
	if e.Errors[0].Detail != cause.Error() {
		t.Fatalf("Detail = %q, want %q", e.Errors[0].Detail, cause.Error())
	}
	if !errors.Is(e, cause) {
		t.Fatalf("cause not reachable via errors.Is")
	}
}

func TestFromTransport_PassesAPIErrorThrough(t *testing.T) {
	orig := apierr.Parse([]byte(`{"errors":[{"title":"x","status":409}]}`), 409)
	if got := apierr.FromTransport(orig); got != orig {
		t.Fatalf("FromTransport re-wrapped an *APIError")
	}
	if apierr.FromTransport(nil) != nil {
		t.Fatalf("FromTransport(nil) must be nil")
	}
}

func TestFromDecode(t *testing.T) {
	cause := errors.New("unexpected end of JSON input")
	e := apierr.FromDecode(cause, http.StatusOK)
	if e.Error() != apierr.TitleMalformedResponse {
		t.Fatalf("Error() = %q", e.Error())
	}
	if e.Errors[0].Status != http.StatusOK {
		t.Fatalf("Status = %d, want 200", e.Errors[0].Status)
	}
}
