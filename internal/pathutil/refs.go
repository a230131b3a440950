// Copyright 2024 Erraggy
// SPDX-License-Identifier: MIT

package pathutil

import "strings"

// Component categories of an OAS 3.x components object.
const (
	CategorySchemas         = "schemas"
	CategoryResponses       = "responses"
	CategoryParameters      = "parameters"
	CategoryExamples        = "examples"
	CategoryRequestBodies   = "requestBodies"
	CategoryHeaders         = "headers"
	CategorySecuritySchemes = "securitySchemes"
	CategoryLinks           = "links"
	CategoryCallbacks       = "callbacks"
	CategoryPathItems       = "pathItems" // OAS 3.1+
)

// Categories lists the component categories in merge order.
var Categories = []string{
	CategorySchemas,
	CategoryResponses,
	CategoryParameters,
	CategoryExamples,
	CategoryRequestBodies,
	CategoryHeaders,
	CategorySecuritySchemes,
	CategoryLinks,
	CategoryCallbacks,
	CategoryPathItems,
}

// OAS 3.x reference prefixes
const (
	RefPrefixComponents      = "#/components/"
	RefPrefixSchemas         = "#/components/schemas/"
	RefPrefixParameters      = "#/components/parameters/"
	RefPrefixResponses       = "#/components/responses/"
	RefPrefixExamples        = "#/components/examples/"
	RefPrefixRequestBodies   = "#/components/requestBodies/"
	RefPrefixHeaders         = "#/components/headers/"
	RefPrefixSecuritySchemes = "#/components/securitySchemes/"
	RefPrefixLinks           = "#/components/links/"
	RefPrefixCallbacks       = "#/components/callbacks/"
	RefPrefixPathItems       = "#/components/pathItems/"
	RefPrefixPaths           = "#/paths/"
)

// ComponentRef builds "#/components/{category}/{name}".
func ComponentRef(category, name string) string {
	return RefPrefixComponents + category + "/" + name
}

// SchemaRef builds "#/components/schemas/{name}".
func SchemaRef(name string) string {
	return RefPrefixSchemas + name
}

// ParseComponentRef splits "#/components/{category}/{name}" into its parts.
// The name is everything after the category, so pointers that address a
// member below a component are reported with ok set to false.
func ParseComponentRef(ref string) (category, name string, ok bool) {
	rest, found := strings.CutPrefix(ref, RefPrefixComponents)
	if !found {
		return "", "", false
	}
	category, name, found = strings.Cut(rest, "/")
	if !found || category == "" || name == "" || strings.Contains(name, "/") {
		return "", "", false
	}
	return category, name, true
}

// PathRef builds "#/paths/{escaped path}".
func PathRef(path string) string {
	return RefPrefixPaths + EscapePointerToken(path)
}

// EscapePointerToken escapes a JSON Pointer reference token per RFC 6901.
func EscapePointerToken(token string) string {
	if !strings.ContainsAny(token, "~/") {
		return token
	}
	token = strings.ReplaceAll(token, "~", "~0")
	return strings.ReplaceAll(token, "/", "~1")
}

// IsInternal reports whether ref points into the same document.
func IsInternal(ref string) bool {
	return strings.HasPrefix(ref, "#/")
}
