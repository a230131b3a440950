// Package httputil provides HTTP method constants shared by the document
// model and the operation selector.
package httputil

import "strings"

// HTTP Method Constants
const (
	MethodGet     = "get"
	MethodPut     = "put"
	MethodPost    = "post"
	MethodDelete  = "delete"
	MethodOptions = "options"
	MethodHead    = "head"
	MethodPatch   = "patch"
	MethodTrace   = "trace"
)

// Methods lists the eight path item operation slots in OpenAPI order.
var Methods = []string{
	MethodGet,
	MethodPut,
	MethodPost,
	MethodDelete,
	MethodOptions,
	MethodHead,
	MethodPatch,
	MethodTrace,
}

// NormalizeMethod lowercases and trims a method name.
func NormalizeMethod(method string) string {
	return strings.ToLower(strings.TrimSpace(method))
}

// IsMethod reports whether method (in any case) names one of the eight slots.
func IsMethod(method string) bool {
	m := NormalizeMethod(method)
	for _, known := range Methods {
		if m == known {
			return true
		}
	}
	return false
}
