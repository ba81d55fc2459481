// Package testutils holds helpers shared by package tests.
package testutils

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/bodrovis/unitx/config"
)

// placeholderToken is what a fresh .env.example ships with.
const placeholderToken = "secret"

// Integration returns live sandbox settings, or skips t under -short or when
// no real token is configured.
func Integration(t testing.TB) config.Settings {
	t.Helper()
	if testing.Short() {
		t.Skip("integration test skipped in -short mode")
	}
	_ = config.LoadDotEnv()
	s, err := config.FromEnv()
	if err != nil || s.Token == placeholderToken {
		t.Skipf("integration test needs %s", config.EnvToken)
	}
	return s
}

// ReadJSON decodes a request body into a generic value and fails t when
// the body is not JSON.
func ReadJSON(t testing.TB, r *http.Request) any {
	t.Helper()
	if r.Body == nil {
		t.Fatalf("request has no body")
	}
	b, err := io.ReadAll(r.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		t.Fatalf("body %q is not JSON: %v", b, err)
	}
	return v
}

// JSONEqual reports whether two JSON documents are semantically equal.
func JSONEqual(t testing.TB, a, b string) bool {
	t.Helper()
	var va, vb any
	if err := json.Unmarshal([]byte(a), &va); err != nil {
		t.Fatalf("left side %q: %v", a, err)
	}
	if err := json.Unmarshal([]byte(b), &vb); err != nil {
		t.Fatalf("right side %q: %v", b, err)
	}
	ca, _ := json.Marshal(va)
	cb, _ := json.Marshal(vb)
	return string(ca) == string(cb)
}

// Resource renders a single-resource JSON:API document.
func Resource(typ, id, attributes string) string {
	if strings.TrimSpace(attributes) == "" {
		attributes = "{}"
	}
	return `{"data":{"type":"` + typ + `","id":"` + id + `","attributes":` + attributes + `}}`
}
