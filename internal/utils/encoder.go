package utils

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// EncodeJSONBody encodes body without HTML escaping. A json.RawMessage is
// validated and copied as-is.
func EncodeJSONBody(body any) (*bytes.Buffer, error) {
	var buf bytes.Buffer

	if raw, ok := body.(json.RawMessage); ok {
		if !json.Valid(raw) {
			return nil, fmt.Errorf("encode body: invalid raw JSON")
		}
		buf.Write(raw)
		return &buf, nil
	}

	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(body); err != nil {
		return nil, fmt.Errorf("encode body: %w", err)
	}
	return &buf, nil
}
