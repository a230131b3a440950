// Package walker rewrites the $ref pointers of an OpenAPI 3.x document in place.
//
// The walker visits every position that can hold a pointer and replaces it with
// the result of a caller-supplied [RewriteFunc]. A pointer node is a leaf: the
// walker never follows it, so traversal terminates even when the document's
// reference graph is cyclic.
//
// # Quick Start
//
// Point every reference to Pet at Pet1:
//
//	walker.Document(doc, func(ref string) string {
//		if ref == "#/components/schemas/Pet" {
//			return "#/components/schemas/Pet1"
//		}
//		return ref
//	})
//
// # Visited Positions
//
//   - schemas: not, allOf, oneOf, anyOf, items, properties, additionalProperties
//     (schema form only), discriminator mapping values
//   - parameters and headers: schema or content, examples
//   - media types: schema, examples, encoding headers
//   - request bodies: content
//   - responses: headers, content, links
//   - links: operationRef when it is internal
//   - callbacks: every nested path item, fully
//   - path items: $ref, parameters, and each operation's parameters, request
//     body, responses and callbacks
//   - components: every entry of every category except securitySchemes
//
// Fragment entry points ([Schema], [Response], [Operation], ...) walk a single
// subtree. Absent optional members are skipped.
package walker
