package walker

import (
	"slices"
	"strings"

	"github.com/erraggy/oasmerge/internal/httputil"
	"github.com/erraggy/oasmerge/internal/pathutil"
	"github.com/erraggy/oasmerge/parser"
)

// RewriteFunc maps a pointer to its replacement. Returning the argument
// leaves the pointer unchanged.
type RewriteFunc func(ref string) string

// Document rewrites every pointer in the paths, webhooks and components of
// doc.
func Document(doc *parser.Document, fn RewriteFunc) {
	if doc == nil {
		return
	}
	Paths(doc.Paths, fn)
	for _, item := range doc.Webhooks {
		PathItem(item, fn)
	}
	Components(doc.Components, fn)
}

// Paths rewrites every path item of a paths map.
func Paths(paths parser.Paths, fn RewriteFunc) {
	for _, item := range paths {
		PathItem(item, fn)
	}
}

// PathItem rewrites the item's own $ref, its shared parameters and each of
// its operations.
func PathItem(item *parser.PathItem, fn RewriteFunc) {
	if item == nil {
		return
	}
	if item.Ref != "" {
		item.Ref = fn(item.Ref)
	}
	for _, p := range item.Parameters {
		Parameter(p, fn)
	}
	for _, method := range httputil.Methods {
		Operation(item.Operation(method), fn)
	}
}

// Operation rewrites an operation's parameters, request body, responses and
// callbacks.
func Operation(op *parser.Operation, fn RewriteFunc) {
	if op == nil {
		return
	}
	for _, p := range op.Parameters {
		Parameter(p, fn)
	}
	RequestBody(op.RequestBody, fn)
	for _, r := range op.Responses {
		Response(r, fn)
	}
	for _, cb := range op.Callbacks {
		Callback(cb, fn)
	}
}

// Components rewrites every entry of every component category except
// securitySchemes, which cannot contain pointers to other components.
func Components(c *parser.Components, fn RewriteFunc) {
	if c == nil {
		return
	}
	for _, s := range c.Schemas {
		Schema(s, fn)
	}
	for _, r := range c.Responses {
		Response(r, fn)
	}
	for _, p := range c.Parameters {
		Parameter(p, fn)
	}
	for _, e := range c.Examples {
		Example(e, fn)
	}
	for _, rb := range c.RequestBodies {
		RequestBody(rb, fn)
	}
	for _, h := range c.Headers {
		Header(h, fn)
	}
	for _, l := range c.Links {
		Link(l, fn)
	}
	for _, cb := range c.Callbacks {
		Callback(cb, fn)
	}
	for _, item := range c.PathItems {
		if item.IsRef() {
			item.Ref = fn(item.Ref)
			continue
		}
		PathItem(item.Value, fn)
	}
}

// Schema rewrites a schema or schema pointer and all of its subschemas.
func Schema(s *parser.RefOr[parser.Schema], fn RewriteFunc) {
	if s == nil {
		return
	}
	if s.IsRef() {
		s.Ref = fn(s.Ref)
		return
	}
	v := s.Value
	if v == nil {
		return
	}
	Schema(v.Not, fn)
	for _, sub := range v.AllOf {
		Schema(sub, fn)
	}
	for _, sub := range v.OneOf {
		Schema(sub, fn)
	}
	for _, sub := range v.AnyOf {
		Schema(sub, fn)
	}
	Schema(v.Items, fn)
	for _, sub := range v.PrefixItems {
		Schema(sub, fn)
	}
	for _, prop := range v.Properties {
		Schema(prop, fn)
	}
	if v.AdditionalProperties != nil {
		Schema(v.AdditionalProperties.Schema, fn)
	}
	for _, def := range v.Defs {
		Schema(def, fn)
	}
	if v.Discriminator != nil {
		for k, target := range v.Discriminator.Mapping {
			v.Discriminator.Mapping[k] = mappingTarget(target, fn)
		}
	}
	for k, keyword := range v.Extra {
		if !strings.HasPrefix(k, "x-") {
			v.Extra[k] = rawSchema(keyword, fn)
		}
	}
}

// mappingTarget rewrites one discriminator mapping value. A value without a
// "#" or "/" is a schema name and is rewritten as the pointer to that schema;
// if the pointer is renamed within schemas the new name is kept bare.
func mappingTarget(target string, fn RewriteFunc) string {
	if strings.HasPrefix(target, "#/") {
		return fn(target)
	}
	if target == "" || strings.ContainsAny(target, "#/") {
		return target
	}
	ref := pathutil.SchemaRef(target)
	out := fn(ref)
	if out == ref {
		return target
	}
	if category, name, ok := pathutil.ParseComponentRef(out); ok && category == pathutil.CategorySchemas {
		return name
	}
	return out
}

// rawSchema rewrites the "$ref" members of a schema keyword the model keeps
// undecoded, such as unevaluatedItems or dependentSchemas.
func rawSchema(v any, fn RewriteFunc) any {
	switch node := v.(type) {
	case map[string]any:
		for k, member := range node {
			if ref, ok := member.(string); ok && k == "$ref" {
				node[k] = fn(ref)
				continue
			}
			node[k] = rawSchema(member, fn)
		}
	case []any:
		for i := range node {
			node[i] = rawSchema(node[i], fn)
		}
	}
	return v
}

// Example rewrites an example pointer. Example values are data and are
// never inspected.
func Example(e *parser.RefOr[parser.Example], fn RewriteFunc) {
	if e.IsRef() {
		e.Ref = fn(e.Ref)
	}
}

// MediaType rewrites a media type's schema, examples and encoding headers.
func MediaType(mt *parser.MediaType, fn RewriteFunc) {
	if mt == nil {
		return
	}
	Schema(mt.Schema, fn)
	for _, e := range mt.Examples {
		Example(e, fn)
	}
	for _, enc := range mt.Encoding {
		if enc == nil {
			continue
		}
		for _, h := range enc.Headers {
			Header(h, fn)
		}
	}
}

// Parameter rewrites a parameter pointer, or the schema, content and
// examples of a concrete parameter.
func Parameter(p *parser.RefOr[parser.Parameter], fn RewriteFunc) {
	if p == nil {
		return
	}
	if p.IsRef() {
		p.Ref = fn(p.Ref)
		return
	}
	if p.Value == nil {
		return
	}
	Schema(p.Value.Schema, fn)
	for _, e := range p.Value.Examples {
		Example(e, fn)
	}
	for _, mt := range p.Value.Content {
		MediaType(mt, fn)
	}
}

// RequestBody rewrites a request body pointer or its content.
func RequestBody(rb *parser.RefOr[parser.RequestBody], fn RewriteFunc) {
	if rb == nil {
		return
	}
	if rb.IsRef() {
		rb.Ref = fn(rb.Ref)
		return
	}
	if rb.Value == nil {
		return
	}
	for _, mt := range rb.Value.Content {
		MediaType(mt, fn)
	}
}

// Header rewrites a header pointer, or the schema, content and examples of
// a concrete header.
func Header(h *parser.RefOr[parser.Header], fn RewriteFunc) {
	if h == nil {
		return
	}
	if h.IsRef() {
		h.Ref = fn(h.Ref)
		return
	}
	if h.Value == nil {
		return
	}
	Schema(h.Value.Schema, fn)
	for _, e := range h.Value.Examples {
		Example(e, fn)
	}
	for _, mt := range h.Value.Content {
		MediaType(mt, fn)
	}
}

// Link rewrites a link pointer, or the operationRef of a concrete link when
// it addresses the same document.
func Link(l *parser.RefOr[parser.Link], fn RewriteFunc) {
	if l == nil {
		return
	}
	if l.IsRef() {
		l.Ref = fn(l.Ref)
		return
	}
	if l.Value != nil && strings.HasPrefix(l.Value.OperationRef, "#/") {
		l.Value.OperationRef = fn(l.Value.OperationRef)
	}
}

// Response rewrites a response pointer, or the headers, content and links
// of a concrete response.
func Response(r *parser.RefOr[parser.Response], fn RewriteFunc) {
	if r == nil {
		return
	}
	if r.IsRef() {
		r.Ref = fn(r.Ref)
		return
	}
	if r.Value == nil {
		return
	}
	for _, h := range r.Value.Headers {
		Header(h, fn)
	}
	for _, mt := range r.Value.Content {
		MediaType(mt, fn)
	}
	for _, l := range r.Value.Links {
		Link(l, fn)
	}
}

// Callback rewrites a callback pointer, or every path item of a concrete
// callback including its nested operations.
func Callback(cb *parser.RefOr[parser.Callback], fn RewriteFunc) {
	if cb == nil {
		return
	}
	if cb.IsRef() {
		cb.Ref = fn(cb.Ref)
		return
	}
	if cb.Value == nil {
		return
	}
	for _, item := range *cb.Value {
		PathItem(item, fn)
	}
}

// CollectRefs returns the distinct pointers reachable in doc, sorted.
func CollectRefs(doc *parser.Document) []string {
	seen := make(map[string]struct{})
	Document(doc, func(ref string) string {
		seen[ref] = struct{}{}
		return ref
	})
	refs := make([]string, 0, len(seen))
	for ref := range seen {
		refs = append(refs, ref)
	}
	slices.Sort(refs)
	return refs
}
