// Package joiner merges multiple OpenAPI 3.x documents into one.
//
// Inputs are processed strictly in order and the order decides every
// first-claim: the info block, servers, security, externalDocs, vendor
// extensions and the securitySchemes map all come from the first input that
// defines them.
//
// # Quick Start
//
//	merged, err := joiner.Merge([]joiner.Input{
//		{Document: users},
//		{Document: billing, PathModification: joiner.PathModification{Prepend: "/billing"}},
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
//	_ = parser.WriteDocument(merged, "merged.yaml")
//
// Or keep a reusable Joiner and inspect the decisions it made:
//
//	j := joiner.New(joiner.Config{Logger: parser.NewSlogAdapter(nil)})
//	result, err := j.Merge(inputs)
//	for _, r := range result.Renames {
//		fmt.Printf("input %d: %s %s -> %s\n", r.InputIndex, r.Kind, r.From, r.To)
//	}
//
// # Components
//
// Components are merged category by category in the order schemas,
// responses, parameters, examples, requestBodies, headers, securitySchemes,
// links, callbacks. When a name is already taken the new entry is compared
// structurally with the existing one (following pointers on both sides,
// terminating on cycles). Equivalent entries are shared. Otherwise the
// input's [Dispute] rule is applied, and failing that the numeric suffixes 1
// through 999 are probed. Every pointer of the input that targeted a renamed
// component is rewritten; other inputs are unaffected.
//
// securitySchemes are never merged: the first input that defines any keeps
// all of its schemes and later ones are ignored.
//
// # Paths
//
// Each path is first passed through the input's [PathModification]. Two
// inputs may contribute to the same path only with disjoint methods;
// overlapping methods fail the merge with a duplicate-paths error.
// operationIds are kept unique across the merge with the same naming
// policy as components unless an input sets AllowDuplicateOperationIDs.
//
// # Errors
//
// Merge failures are *oaserrors.MergeError values. Match them with
// errors.Is against oaserrors.ErrNoInputs, oaserrors.ErrDuplicatePaths,
// oaserrors.ErrComponentConflict or oaserrors.ErrOperationIDConflict. An
// input whose Document is nil fails with a *oaserrors.ConfigError
// (oaserrors.ErrConfig) instead, and a document that cannot be copied fails
// with the wrapped encoding error. A failed merge never returns a partial
// document.
//
// # External References
//
// External $ref values are carried through unchanged; they are neither
// resolved nor merged.
package joiner
