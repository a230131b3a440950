// Package jsonhelpers provides helper functions for JSON marshaling and unmarshaling
// with support for extra fields in OpenAPI specifications: x-* extensions and
// any member the model does not declare.
//
// Go's encoding/json has no equivalent of yaml:",inline" for maps, so the model
// types marshal their known fields through a method-less alias and then splice
// their extra members into the resulting object with [AppendExtensions].
package jsonhelpers

import (
	"bytes"
	"encoding/json"
	"reflect"
	"slices"
	"strings"
	"sync"
)

// IsExtension reports whether key is a specification extension (x-*).
func IsExtension(key string) bool {
	return strings.HasPrefix(key, "x-")
}

var knownFieldsCache sync.Map // reflect.Type -> map[string]bool

// KnownFields returns the JSON member names declared by the struct type t (or
// the struct t points to). Fields tagged "-" are not members.
func KnownFields(t reflect.Type) map[string]bool {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if cached, ok := knownFieldsCache.Load(t); ok {
		return cached.(map[string]bool)
	}
	known := make(map[string]bool)
	if t.Kind() == reflect.Struct {
		for i := 0; i < t.NumField(); i++ {
			field := t.Field(i)
			if !field.IsExported() {
				continue
			}
			tag := field.Tag.Get("json")
			if tag == "-" {
				continue
			}
			name, _, _ := strings.Cut(tag, ",")
			if name == "" {
				name = field.Name
			}
			known[name] = true
		}
	}
	knownFieldsCache.Store(t, known)
	return known
}

// ExtractExtras returns the top-level members of a JSON object whose names
// are not in knownFields. Extensions and members of newer OpenAPI or JSON
// Schema versions end up here alike. Returns nil when there are none or the
// data is not an object.
func ExtractExtras(data []byte, knownFields map[string]bool) map[string]any {
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return nil
	}

	var extra map[string]any
	for k, v := range m {
		if knownFields[k] {
			continue
		}
		if extra == nil {
			extra = make(map[string]any)
		}
		extra[k] = v
	}
	return extra
}

// AppendExtensions splices extra into the already-encoded JSON object data.
// Extra members are appended after the known fields in sorted key order so the
// output is deterministic.
//
// Example:
//
//	func (t *Tag) MarshalJSON() ([]byte, error) {
//	    type alias Tag
//	    data, err := json.Marshal((*alias)(t))
//	    if err != nil {
//	        return nil, err
//	    }
//	    return jsonhelpers.AppendExtensions(data, t.Extra)
//	}
func AppendExtensions(data []byte, extra map[string]any) ([]byte, error) {
	if len(extra) == 0 {
		return data, nil
	}
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) < 2 || trimmed[0] != '{' || trimmed[len(trimmed)-1] != '}' {
		return data, nil
	}

	keys := make([]string, 0, len(extra))
	for k := range extra {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	var buf bytes.Buffer
	buf.Grow(len(trimmed) + 32*len(keys))
	buf.Write(trimmed[:len(trimmed)-1])
	empty := len(bytes.TrimSpace(trimmed[1:len(trimmed)-1])) == 0
	for _, k := range keys {
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(extra[k])
		if err != nil {
			return nil, err
		}
		if !empty {
			buf.WriteByte(',')
		}
		empty = false
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// DecodeMembers decodes a JSON object into a map while skipping x-* members,
// which would not decode into the value type of maps such as paths or responses.
// The skipped members are returned separately.
func DecodeMembers[T any](data []byte) (map[string]T, map[string]any, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, nil, err
	}
	if raw == nil {
		return nil, nil, nil
	}
	out := make(map[string]T, len(raw))
	var extra map[string]any
	for k, v := range raw {
		if IsExtension(k) {
			var ext any
			if err := json.Unmarshal(v, &ext); err != nil {
				return nil, nil, err
			}
			if extra == nil {
				extra = make(map[string]any)
			}
			extra[k] = ext
			continue
		}
		var member T
		if err := json.Unmarshal(v, &member); err != nil {
			return nil, nil, err
		}
		out[k] = member
	}
	return out, extra, nil
}
