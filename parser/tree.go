package parser

import (
	"reflect"
	"strings"
)

// Pointer is a $ref string as it appears in a [Tree]. It marks the pointer
// case of a [RefOr] so that it cannot be confused with an ordinary string.
type Pointer string

// IsInternal reports whether the pointer targets the same document.
func (p Pointer) IsInternal() bool {
	return strings.HasPrefix(string(p), "#/")
}

// refNode is implemented by every *RefOr[T].
type refNode interface {
	pointer() string
	concrete() any
}

// treeNode is implemented by model types whose JSON form is not an object
// derived from struct fields.
type treeNode interface {
	tree() any
}

// Tree converts a model value into a generic tree of map[string]any, []any
// and JSON scalars, mirroring the value's JSON form.
//
// The pointer case of a [RefOr] becomes a [Pointer] leaf, while a "$ref" key
// inside a PathItem or inside free-form data (examples, defaults) stays a
// plain string. Empty members are omitted exactly as the JSON encoding omits
// them, so two values have equal trees only if they encode to the same
// document.
func Tree(v any) any {
	if v == nil {
		return nil
	}
	if isNil(reflect.ValueOf(v)) {
		return nil
	}
	if rn, ok := v.(refNode); ok {
		if ref := rn.pointer(); ref != "" {
			return Pointer(ref)
		}
		return Tree(rn.concrete())
	}
	if tn, ok := v.(treeNode); ok {
		return tn.tree()
	}
	return treeOf(reflect.ValueOf(v))
}

func treeOf(rv reflect.Value) any {
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return nil
		}
		if rv.Kind() == reflect.Interface {
			return Tree(rv.Elem().Interface())
		}
		if rv.CanInterface() {
			iface := rv.Interface()
			if _, ok := iface.(refNode); ok {
				return Tree(iface)
			}
			if _, ok := iface.(treeNode); ok {
				return Tree(iface)
			}
		}
		return treeOf(rv.Elem())
	case reflect.Struct:
		return structTree(rv)
	case reflect.Map:
		if rv.IsNil() {
			return nil
		}
		out := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			out[iter.Key().String()] = treeOf(iter.Value())
		}
		return out
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.IsNil() {
			return nil
		}
		out := make([]any, rv.Len())
		for i := range out {
			out[i] = treeOf(rv.Index(i))
		}
		return out
	case reflect.String:
		return rv.String()
	case reflect.Bool:
		return rv.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(rv.Uint())
	case reflect.Float32, reflect.Float64:
		return rv.Float()
	default:
		if rv.IsValid() && rv.CanInterface() {
			return rv.Interface()
		}
		return nil
	}
}

// structTree builds the object form of a model struct using its json tags.
// Fields tagged "-" named Extra contribute their entries directly.
func structTree(rv reflect.Value) map[string]any {
	rt := rv.Type()
	out := make(map[string]any, rt.NumField())
	for i := 0; i < rt.NumField(); i++ {
		field := rt.Field(i)
		if !field.IsExported() {
			continue
		}
		fv := rv.Field(i)
		tag := field.Tag.Get("json")
		if tag == "-" {
			if field.Name == "Extra" && fv.Kind() == reflect.Map {
				iter := fv.MapRange()
				for iter.Next() {
					out[iter.Key().String()] = treeOf(iter.Value())
				}
			}
			continue
		}
		name, opts, _ := strings.Cut(tag, ",")
		if name == "" {
			name = field.Name
		}
		if strings.Contains(opts, "omitempty") && isEmptyValue(fv) {
			continue
		}
		out[name] = treeOf(fv)
	}
	return out
}

func isNil(rv reflect.Value) bool {
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice:
		return rv.IsNil()
	}
	return false
}

// isEmptyValue matches encoding/json's omitempty rule.
func isEmptyValue(rv reflect.Value) bool {
	switch rv.Kind() {
	case reflect.Array, reflect.Map, reflect.Slice, reflect.String:
		return rv.Len() == 0
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64,
		reflect.Interface, reflect.Pointer:
		return rv.IsZero()
	}
	return false
}
