// Copyright 2024 Erraggy
// SPDX-License-Identifier: MIT

// Package pathutil provides helpers for the internal pointers of an OpenAPI
// 3.x document and for output paths.
//
// Component pointers have the form "#/components/{category}/{name}" and path
// pointers have the form "#/paths/{escaped path}", where the path is escaped
// per RFC 6901 ("~" becomes "~0" and "/" becomes "~1"):
//
//	pathutil.ComponentRef(pathutil.CategorySchemas, "Pet") // "#/components/schemas/Pet"
//	pathutil.PathRef("/pets/{id}")                          // "#/paths/~1pets~1{id}"
package pathutil
