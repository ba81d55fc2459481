package jsonapi

import (
	"encoding/json"
	"fmt"
	"sort"
)

// Union decodes resource objects into one of several Go types, picked by
// the "type" discriminator. Types without a registered constructor go to
// the fallback; without a fallback they are an error.
type Union[T any] struct {
	name     string
	variants map[string]func(RawResource) (T, error)
	fallback func(RawResource) (T, error)
}

// NewUnion creates an empty union named for error messages.
func NewUnion[T any](name string) *Union[T] {
	return &Union[T]{
		name:     name,
		variants: make(map[string]func(RawResource) (T, error)),
	}
}

// Register adds a constructor for one discriminator value.
func (u *Union[T]) Register(typ string, fn func(RawResource) (T, error)) *Union[T] {
	u.variants[typ] = fn
	return u
}

// Fallback sets the constructor used for unknown discriminators.
func (u *Union[T]) Fallback(fn func(RawResource) (T, error)) *Union[T] {
	u.fallback = fn
	return u
}

// Types lists the registered discriminators, sorted.
func (u *Union[T]) Types() []string {
	out := make([]string, 0, len(u.variants))
	for k := range u.variants {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Decode picks the variant for raw.Type.
func (u *Union[T]) Decode(raw RawResource) (T, error) {
	if fn, ok := u.variants[raw.Type]; ok {
		return fn(raw)
	}
	if u.fallback != nil {
		return u.fallback(raw)
	}
	var zero T
	return zero, fmt.Errorf("%s: unknown type %q", u.name, raw.Type)
}

// DecodeJSON decodes a single resource object from JSON.
func (u *Union[T]) DecodeJSON(b []byte) (T, error) {
	var raw RawResource
	if err := json.Unmarshal(b, &raw); err != nil {
		var zero T
		return zero, fmt.Errorf("%s: %w", u.name, err)
	}
	return u.Decode(raw)
}

// DecodeMany decodes a list of resource objects, preserving order.
func (u *Union[T]) DecodeMany(raws []RawResource) ([]T, error) {
	out := make([]T, 0, len(raws))
	for i, raw := range raws {
		v, err := u.Decode(raw)
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
		out = append(out, v)
	}
	return out, nil
}

// Variant adapts a typed resource into a union constructor: it decodes the
// attributes into A and hands the result to wrap.
func Variant[A, T any](wrap func(Resource[A]) T) func(RawResource) (T, error) {
	return func(raw RawResource) (T, error) {
		res := Resource[A]{Type: raw.Type, ID: raw.ID, Relationships: raw.Relationships}
		if err := raw.DecodeAttributes(&res.Attributes); err != nil {
			var zero T
			return zero, err
		}
		return wrap(res), nil
	}
}
