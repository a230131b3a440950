// Package oasmerge merges several OpenAPI 3.x documents into one.
//
// Each input document is paired with a small policy bundle: path rewriting,
// operation selection, name dispute handling and description concatenation.
// Inputs are folded in order; the first input to claim a name, a path method
// or a top-level field keeps it, and later inputs are renamed or rejected.
//
// # Packages
//
//   - parser: document model, JSON/YAML decoding, file and URL loading, writing
//   - walker: in-place rewriting of every $ref reachable in a document
//   - joiner: the merge engine (equivalence, naming, selection, assembly)
//   - oaserrors: typed errors for merge, parse, load and configuration failures
//
// # Quick Start
//
//	first, _ := parser.ParseFile("users.yaml")
//	second, _ := parser.ParseFile("billing.yaml")
//
//	merged, err := joiner.Merge([]joiner.Input{
//		{Document: first},
//		{Document: second, Dispute: &joiner.Dispute{Prefix: "Billing"}},
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
//	err = parser.WriteDocument(merged, "merged.yaml")
//
// # Command Line
//
// The oasmerge command reads an openapi-merge.json configuration (see
// cmd/oasmerge) and exits with 1 on configuration errors, 2 when an input
// cannot be loaded and 3 when the merge itself fails.
package oasmerge
