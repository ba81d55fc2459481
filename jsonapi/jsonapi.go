// Package jsonapi models the JSON:API envelopes the Unit API speaks:
// {"data": {...}, "included": [...], "meta": {...}} documents, resource
// objects with relationships, and request envelopes.
package jsonapi

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// MediaType is the JSON:API content type.
const MediaType = "application/vnd.api+json"

// Identifier is a resource linkage: {"type": "...", "id": "..."}.
type Identifier struct {
	Type string `json:"type"`
	ID   string `json:"id"`
}

// Relationship holds either a single linkage or a list of them.
// A to-one relationship set to null decodes with both fields empty.
type Relationship struct {
	One  *Identifier
	Many []Identifier
}

// ToOne builds a to-one relationship.
func ToOne(typ, id string) Relationship {
	return Relationship{One: &Identifier{Type: typ, ID: id}}
}

// ToMany builds a to-many relationship.
func ToMany(typ string, ids ...string) Relationship {
	many := make([]Identifier, 0, len(ids))
	for _, id := range ids {
		many = append(many, Identifier{Type: typ, ID: id})
	}
	return Relationship{Many: many}
}

// ID returns the linked id of a to-one relationship.
func (r Relationship) ID() string {
	if r.One == nil {
		return ""
	}
	return r.One.ID
}

func (r Relationship) MarshalJSON() ([]byte, error) {
	switch {
	case r.One != nil:
		return json.Marshal(struct {
			Data *Identifier `json:"data"`
		}{r.One})
	case r.Many != nil:
		return json.Marshal(struct {
			Data []Identifier `json:"data"`
		}{r.Many})
	default:
		return []byte(`{"data":null}`), nil
	}
}

func (r *Relationship) UnmarshalJSON(b []byte) error {
	var aux struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	data := bytes.TrimSpace(aux.Data)
	*r = Relationship{}

	switch {
	case len(data) == 0 || string(data) == "null":
		return nil
	case data[0] == '[':
		r.Many = []Identifier{}
		return json.Unmarshal(data, &r.Many)
	default:
		r.One = &Identifier{}
		return json.Unmarshal(data, r.One)
	}
}

// Relationships maps relationship names ("account", "customer", ...) to
// their linkage.
type Relationships map[string]Relationship

// Resource is a typed resource object.
type Resource[A any] struct {
	Type          string        `json:"type"`
	ID            string        `json:"id,omitempty"`
	Attributes    A             `json:"attributes"`
	Relationships Relationships `json:"relationships,omitempty"`
}

// RawResource is a resource object whose attributes are kept undecoded.
// Included resources and union members are decoded through it.
type RawResource struct {
	Type          string          `json:"type"`
	ID            string          `json:"id,omitempty"`
	Attributes    json.RawMessage `json:"attributes,omitempty"`
	Relationships Relationships   `json:"relationships,omitempty"`
}

// DecodeAttributes unmarshals the raw attributes into v.
func (r RawResource) DecodeAttributes(v any) error {
	if len(r.Attributes) == 0 {
		return nil
	}
	if err := json.Unmarshal(r.Attributes, v); err != nil {
		return fmt.Errorf("decode %s attributes: %w", r.Type, err)
	}
	return nil
}

// Pagination is the meta.pagination block of list responses.
type Pagination struct {
	Total  int `json:"total"`
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

// Meta is the top-level meta object.
type Meta struct {
	Pagination *Pagination     `json:"pagination,omitempty"`
	Extra      json.RawMessage `json:"-"`
}

func (m *Meta) UnmarshalJSON(b []byte) error {
	type plain Meta
	var aux plain
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	*m = Meta(aux)
	m.Extra = append(json.RawMessage(nil), b...)
	return nil
}

// Document is a top-level response document.
type Document[T any] struct {
	Data     T                 `json:"data"`
	Included []RawResource     `json:"included,omitempty"`
	Meta     *Meta             `json:"meta,omitempty"`
	Links    map[string]string `json:"links,omitempty"`
}

// FindIncluded returns the included resource with the given type and id.
func (d *Document[T]) FindIncluded(typ, id string) (RawResource, bool) {
	for _, inc := range d.Included {
		if inc.Type == typ && inc.ID == id {
			return inc, true
		}
	}
	return RawResource{}, false
}

// Envelope is a request body: {"data": {...}}.
type Envelope[T any] struct {
	Data T `json:"data"`
}

// Wrap builds {"data":{"type":typ,"attributes":attrs}}.
func Wrap[A any](typ string, attrs A) Envelope[Resource[A]] {
	return Envelope[Resource[A]]{Data: Resource[A]{Type: typ, Attributes: attrs}}
}

// WrapWithRelationships is Wrap plus a relationships block.
func WrapWithRelationships[A any](typ string, attrs A, rels Relationships) Envelope[Resource[A]] {
	return Envelope[Resource[A]]{Data: Resource[A]{Type: typ, Attributes: attrs, Relationships: rels}}
}
