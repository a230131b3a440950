// Package parser provides the OpenAPI 3.x document model used by oasmerge,
// together with loading and writing.
//
// # Loading
//
// Documents are read from bytes, files or http(s) URLs. The input is decoded
// as JSON first and as YAML when that fails, so either encoding is accepted
// regardless of file extension:
//
//	doc, err := parser.ParseFile("openapi.yaml")
//	doc, err := parser.ParseURL(ctx, "https://example.com/openapi.json")
//	doc, err := parser.ParseWithOptions(
//		parser.WithBytes(data),
//		parser.WithLogger(parser.NewSlogAdapter(nil)),
//	)
//
// # Model
//
// Every position that may hold either a $ref or an inline object is a
// [RefOr]. Members an object type does not declare, vendor extensions (x-*)
// as well as keywords of newer OpenAPI or JSON Schema versions, are kept in
// the Extra field of the object that carries them.
//
// [Tree] converts any model value into plain maps, slices and scalars with
// pointers kept as [Pointer] leaves. The merge engine compares components on
// this view.
//
// # Writing
//
// [WriteDocument] writes YAML when the path ends in .yaml or .yml and
// indented JSON otherwise. Files are created with 0600 permissions.
package parser
