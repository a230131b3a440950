package parser

import (
	"bytes"
	"encoding/json"

	"github.com/erraggy/oasmerge/parser/internal/jsonhelpers"
)

// RefOr holds either a $ref pointer or a concrete value of type T.
//
// The two cases are mutually exclusive: when Ref is non-empty the node is a
// pointer and Value is ignored, otherwise Value holds the concrete object.
// Every traversal in this module dispatches on [RefOr.IsRef] before looking
// at Value, so a pointer is never followed implicitly.
type RefOr[T any] struct {
	// Ref is the $ref pointer (e.g. "#/components/schemas/Pet")
	Ref string
	// Value is the concrete object when Ref is empty
	Value *T
	// Extra holds sibling members of a $ref object (summary, description, x-*)
	Extra map[string]any
}

// NewRef returns a pointer node targeting ref.
func NewRef[T any](ref string) *RefOr[T] {
	return &RefOr[T]{Ref: ref}
}

// NewValue returns a concrete node holding v.
func NewValue[T any](v *T) *RefOr[T] {
	return &RefOr[T]{Value: v}
}

// IsRef reports whether the node is a pointer.
func (r *RefOr[T]) IsRef() bool {
	return r != nil && r.Ref != ""
}

// pointer and concrete let Tree and the walker dispatch on the variant tag
// without knowing T.
func (r *RefOr[T]) pointer() string { return r.Ref }

func (r *RefOr[T]) concrete() any {
	if r.Value == nil {
		return nil
	}
	return r.Value
}

// MarshalJSON emits {"$ref": ...} for pointers and the concrete value otherwise.
func (r *RefOr[T]) MarshalJSON() ([]byte, error) {
	if r.IsRef() {
		data, err := json.Marshal(struct {
			Ref string `json:"$ref"`
		}{r.Ref})
		if err != nil {
			return nil, err
		}
		return jsonhelpers.AppendExtensions(data, r.Extra)
	}
	if r.Value == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(r.Value)
}

// UnmarshalJSON decodes an object carrying a string $ref as a pointer and
// anything else as a concrete T.
func (r *RefOr[T]) UnmarshalJSON(data []byte) error {
	*r = RefOr[T]{}
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return nil
	}

	var members map[string]json.RawMessage
	if err := json.Unmarshal(data, &members); err == nil {
		if raw, ok := members["$ref"]; ok {
			var ref string
			if err := json.Unmarshal(raw, &ref); err == nil && ref != "" {
				r.Ref = ref
				for k, v := range members {
					if k == "$ref" {
						continue
					}
					var sibling any
					if err := json.Unmarshal(v, &sibling); err != nil {
						return err
					}
					if r.Extra == nil {
						r.Extra = make(map[string]any)
					}
					r.Extra[k] = sibling
				}
				return nil
			}
		}
	}

	r.Value = new(T)
	return json.Unmarshal(data, r.Value)
}
