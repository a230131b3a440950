package joiner

import (
	"fmt"
	"reflect"
	"slices"
	"strings"

	"github.com/erraggy/oasmerge/internal/pathutil"
	"github.com/erraggy/oasmerge/oaserrors"
	"github.com/erraggy/oasmerge/parser"
	"github.com/erraggy/oasmerge/walker"
)

// accumulator is the merged state built up by one Merge call.
type accumulator struct {
	paths        parser.Paths
	webhooks     map[string]*parser.PathItem
	components   *parser.Components
	operationIDs map[string]struct{}
	// securityFrom is the input whose securitySchemes were claimed, or -1
	securityFrom int
	renames      []Rename
	shared       []Rename
}

func newAccumulator() *accumulator {
	return &accumulator{
		paths:        make(parser.Paths),
		components:   &parser.Components{},
		operationIDs: make(map[string]struct{}),
		securityFrom: -1,
	}
}

// renameTable maps original pointers of one input to their merged form.
type renameTable map[string]string

// rewrite returns the merged form of ref. An exact entry wins; otherwise the
// one entry that is a prefix of ref (on a "/" boundary) replaces that
// prefix; otherwise ref is returned unchanged.
func (t renameTable) rewrite(ref string) string {
	if to, ok := t[ref]; ok {
		return to
	}
	var match string
	for from := range t {
		if !strings.HasPrefix(ref, from+"/") {
			continue
		}
		if match != "" {
			panic(fmt.Sprintf("joiner: pointer %q is below both %q and %q", ref, match, from))
		}
		match = from
	}
	if match == "" {
		return ref
	}
	return t[match] + ref[len(match):]
}

// join records the methods one input moved onto a path item claimed by an
// earlier input. Path-level parameters are reconciled after the input's
// pointers have been rewritten, since only then can both sides be compared.
type join struct {
	target   *parser.PathItem
	resident []*parser.Operation // target's operations before the join
	incoming *parser.PathItem
	moved    []*parser.Operation
}

// reconcile keeps path-level parameters on the shared item only when both
// sides declare the same list. Otherwise each side's list is pushed down into
// its own operations and the shared list is cleared.
func (j join) reconcile() {
	if sameParameters(j.target.Parameters, j.incoming.Parameters) {
		return
	}
	for _, op := range j.resident {
		op.Parameters = withSharedParameters(j.target.Parameters, op.Parameters)
	}
	for _, op := range j.moved {
		op.Parameters = withSharedParameters(j.incoming.Parameters, op.Parameters)
	}
	j.target.Parameters = nil
}

func sameParameters(a, b []*parser.RefOr[parser.Parameter]) bool {
	if len(a) == 0 && len(b) == 0 {
		return true
	}
	return reflect.DeepEqual(parser.Tree(a), parser.Tree(b))
}

// Merge merges inputs in order.
//
// Each input's document is deep-copied, filtered by its operation selection,
// then folded into the merged state: components first (one category at a
// time), then paths. Every internal pointer of the input is rewritten to the
// names chosen for it. The first failure aborts the merge.
func (j *Joiner) Merge(inputs []Input) (*Result, error) {
	if len(inputs) == 0 {
		return nil, &oaserrors.MergeError{
			Kind:       oaserrors.KindNoInputs,
			InputIndex: -1,
			Message:    "You must provide at least one OAS file as an input.",
		}
	}

	acc := newAccumulator()
	docs := make([]*parser.Document, len(inputs))
	for i, in := range inputs {
		if in.Document == nil {
			return nil, &oaserrors.ConfigError{
				Option:  "inputs",
				Message: fmt.Sprintf("input %d has no document", i),
			}
		}
		doc, err := in.Document.DeepCopy()
		if err != nil {
			return nil, fmt.Errorf("joiner: copying input %d: %w", i, err)
		}
		SelectOperations(doc, in.OperationSelection)

		if err := j.mergeInput(acc, i, in, doc); err != nil {
			return nil, err
		}
		docs[i] = doc
	}

	result := &Result{
		Document:            assemble(inputs, docs, acc),
		Renames:             acc.renames,
		Shared:              acc.shared,
		SecuritySchemesFrom: acc.securityFrom,
	}
	j.config.Logger.Debug("merged documents",
		"inputs", len(inputs),
		"paths", len(result.Document.Paths),
		"renames", len(result.Renames),
		"shared", len(result.Shared))
	return result, nil
}

func (j *Joiner) mergeInput(acc *accumulator, index int, in Input, doc *parser.Document) error {
	log := j.config.Logger.With("input", index)
	table := make(renameTable)

	if err := acc.mergeComponents(log, index, in, doc, table); err != nil {
		return err
	}
	joins, err := acc.mergePaths(log, index, in, doc, table)
	if err != nil {
		return err
	}
	hooks, err := acc.mergeWebhooks(log, index, in, doc)
	if err != nil {
		return err
	}
	joins = append(joins, hooks...)

	// Everything the input contributed is shared with the accumulator, so
	// rewriting the input's copy rewrites the merged entries as well.
	walker.Document(doc, table.rewrite)

	for _, jn := range joins {
		jn.reconcile()
	}
	return nil
}

func (a *accumulator) mergeComponents(log parser.Logger, index int, in Input, doc *parser.Document, table renameTable) error {
	src := doc.Components
	if src == nil {
		return nil
	}
	for k, v := range src.Extra {
		if a.components.Extra == nil {
			a.components.Extra = make(map[string]any)
		}
		if _, ok := a.components.Extra[k]; !ok {
			a.components.Extra[k] = v
		}
	}

	mergedLookup := ComponentLookup(a.components)
	inputLookup := ComponentLookup(src)
	for _, s := range sections {
		category := s.category()
		if category == pathutil.CategorySecuritySchemes {
			if a.securityFrom < 0 && s.size(src) > 0 {
				s.replace(src, a.components)
				a.securityFrom = index
				log.Debug("claimed securitySchemes", "count", s.size(src))
			} else if s.size(src) > 0 {
				log.Debug("ignored securitySchemes", "claimedBy", a.securityFrom)
			}
			continue
		}

		for _, name := range s.names(src) {
			candidate := s.entry(src, name)
			ns := namespace{
				taken: func(n string) bool { return s.has(a.components, n) },
				equivalent: func(n string) bool {
					return NewEquivalence(mergedLookup, inputLookup).Equal(s.entry(a.components, n), candidate)
				},
			}
			res, ok := resolveName(name, ns, in.Dispute)
			if !ok {
				return &oaserrors.MergeError{
					Kind:       oaserrors.KindComponentConflict,
					InputIndex: index,
					Name:       name,
					Message: fmt.Sprintf("Input %d: The %q definition had a duplicate in a previous input and could not be deduplicated.",
						index, name),
				}
			}

			decision := Rename{Kind: RenameComponent, InputIndex: index, Category: category, From: name, To: res.Name}
			if res.Name != name {
				table[pathutil.ComponentRef(category, name)] = pathutil.ComponentRef(category, res.Name)
				a.renames = append(a.renames, decision)
				log.Debug("renamed component", "category", category, "from", name, "to", res.Name)
			}
			if res.Shared {
				a.shared = append(a.shared, decision)
				log.Debug("reused equivalent component", "category", category, "name", res.Name)
				continue
			}
			s.move(src, a.components, name, res.Name)
		}
	}
	return nil
}

func (a *accumulator) mergePaths(log parser.Logger, index int, in Input, doc *parser.Document, table renameTable) ([]join, error) {
	var joins []join
	for _, path := range sortedKeys(doc.Paths) {
		out := in.PathModification.Apply(path)
		if out != path {
			table[pathutil.PathRef(path)] = pathutil.PathRef(out)
			a.renames = append(a.renames, Rename{Kind: RenamePath, InputIndex: index, From: path, To: out})
		}
		where := fmt.Sprintf("The path '%s' maps to '%s' and", path, out)
		jn, err := a.place(log, index, in, a.paths, out, doc.Paths[path], where)
		if err != nil {
			return nil, err
		}
		if jn != nil {
			joins = append(joins, *jn)
		}
	}
	return joins, nil
}

// mergeWebhooks places the input's webhooks the way paths are placed, minus
// the path modification: a webhook name is not a path template.
func (a *accumulator) mergeWebhooks(log parser.Logger, index int, in Input, doc *parser.Document) ([]join, error) {
	var joins []join
	for _, name := range sortedKeys(doc.Webhooks) {
		if a.webhooks == nil {
			a.webhooks = make(map[string]*parser.PathItem)
		}
		where := fmt.Sprintf("The webhook '%s'", name)
		jn, err := a.place(log, index, in, a.webhooks, name, doc.Webhooks[name], where)
		if err != nil {
			return nil, err
		}
		if jn != nil {
			joins = append(joins, *jn)
		}
	}
	return joins, nil
}

// place stores item under key in dst. When dst already holds an item there,
// the incoming methods are moved onto it and the returned join records the
// move. Methods defined on both sides are a KindDuplicatePaths failure.
func (a *accumulator) place(log parser.Logger, index int, in Input, dst map[string]*parser.PathItem, key string, item *parser.PathItem, where string) (*join, error) {
	existing, found := dst[key]
	if !found {
		if err := a.claimOperationIDs(log, index, in, item); err != nil {
			return nil, err
		}
		dst[key] = item
		return nil, nil
	}

	var overlap []string
	for _, m := range item.Methods() {
		if existing.Operation(m) != nil {
			overlap = append(overlap, m)
		}
	}
	if len(overlap) > 0 {
		return nil, &oaserrors.MergeError{
			Kind:       oaserrors.KindDuplicatePaths,
			InputIndex: index,
			Name:       key,
			Message: fmt.Sprintf("Input %d: %s has methods already defined by a previous input: %s",
				index, where, strings.Join(overlap, ", ")),
		}
	}

	if err := a.claimOperationIDs(log, index, in, item); err != nil {
		return nil, err
	}
	jn := &join{target: existing, incoming: item}
	for _, m := range existing.Methods() {
		jn.resident = append(jn.resident, existing.Operation(m))
	}
	for _, m := range item.Methods() {
		existing.SetOperation(m, item.Operation(m))
		jn.moved = append(jn.moved, item.Operation(m))
	}
	log.Debug("joined methods onto existing item", "key", key, "methods", item.Methods())
	return jn, nil
}

// claimOperationIDs makes every operationId of item unique across the merge,
// renaming in place. Inputs that allow duplicates register their IDs
// without checks.
func (a *accumulator) claimOperationIDs(log parser.Logger, index int, in Input, item *parser.PathItem) error {
	ns := namespace{taken: func(id string) bool {
		_, ok := a.operationIDs[id]
		return ok
	}}
	for _, m := range item.Methods() {
		op := item.Operation(m)
		if op.OperationID == "" {
			continue
		}
		if in.AllowDuplicateOperationIDs {
			a.operationIDs[op.OperationID] = struct{}{}
			continue
		}
		res, ok := resolveName(op.OperationID, ns, in.Dispute)
		if !ok {
			return &oaserrors.MergeError{
				Kind:       oaserrors.KindOperationIDConflict,
				InputIndex: index,
				Name:       op.OperationID,
				Message: fmt.Sprintf("Input %d: The operationId %q had a duplicate in a previous input and could not be made unique.",
					index, op.OperationID),
			}
		}
		if res.Name != op.OperationID {
			a.renames = append(a.renames, Rename{Kind: RenameOperationID, InputIndex: index, From: op.OperationID, To: res.Name})
			log.Debug("renamed operationId", "from", op.OperationID, "to", res.Name)
			op.OperationID = res.Name
		}
		a.operationIDs[res.Name] = struct{}{}
	}
	return nil
}

// withSharedParameters prepends the shared parameters that own does not
// override. A parameter is identified by its pointer, or by name and
// location.
func withSharedParameters(shared, own []*parser.RefOr[parser.Parameter]) []*parser.RefOr[parser.Parameter] {
	declared := make(map[string]struct{}, len(own))
	for _, p := range own {
		declared[parameterKey(p)] = struct{}{}
	}
	var merged []*parser.RefOr[parser.Parameter]
	for _, p := range shared {
		if _, ok := declared[parameterKey(p)]; !ok {
			merged = append(merged, p)
		}
	}
	return append(merged, own...)
}

func parameterKey(p *parser.RefOr[parser.Parameter]) string {
	switch {
	case p == nil:
		return ""
	case p.IsRef():
		return p.Ref
	case p.Value == nil:
		return ""
	}
	return p.Value.In + ":" + p.Value.Name
}

func sortedKeys[M ~map[string]V, V any](m M) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
