package joiner

import (
	"reflect"

	"github.com/erraggy/oasmerge/internal/pathutil"
	"github.com/erraggy/oasmerge/parser"
)

// Lookup resolves an internal component pointer to the generic tree of the
// entry it names. It reports false when the pointer does not resolve.
type Lookup func(ref string) (any, bool)

// ComponentLookup resolves "#/components/{category}/{name}" pointers
// against c. External pointers and pointers into a component's members
// never resolve.
func ComponentLookup(c *parser.Components) Lookup {
	return func(ref string) (any, bool) {
		category, name, ok := pathutil.ParseComponentRef(ref)
		if !ok {
			return nil, false
		}
		s := sectionFor(category)
		if s == nil {
			return nil, false
		}
		v := s.entry(c, name)
		if v == nil {
			return nil, false
		}
		return parser.Tree(v), true
	}
}

// Equivalence decides whether two values, each possibly containing pointers
// into its own document, describe the same structure.
//
// The comparison is syntactic. Keyed values must have the same key set,
// sequences the same length, and every member must compare equal. When both
// sides are pointers the targets are compared instead. A pair of pointers
// that is already under comparison counts as equal, which is what lets
// mutually recursive components terminate.
type Equivalence struct {
	x, y Lookup
	seen map[[2]string]struct{}
}

// NewEquivalence returns a checker resolving left-hand pointers with x and
// right-hand pointers with y.
func NewEquivalence(x, y Lookup) *Equivalence {
	return &Equivalence{x: x, y: y}
}

// Equal compares two model values (for example two *parser.RefOr entries).
// Each call starts with an empty memo.
func (e *Equivalence) Equal(x, y any) bool {
	e.seen = make(map[[2]string]struct{})
	return e.compare(parser.Tree(x), parser.Tree(y))
}

func (e *Equivalence) compare(x, y any) bool {
	xp, xIsPointer := x.(parser.Pointer)
	yp, yIsPointer := y.(parser.Pointer)
	switch {
	case xIsPointer && yIsPointer:
		return e.comparePointers(string(xp), string(yp))
	case xIsPointer || yIsPointer:
		return false
	}

	switch xv := x.(type) {
	case map[string]any:
		yv, ok := y.(map[string]any)
		if !ok || len(xv) != len(yv) {
			return false
		}
		for k, xm := range xv {
			ym, ok := yv[k]
			if !ok || !e.compare(xm, ym) {
				return false
			}
		}
		return true
	case []any:
		yv, ok := y.([]any)
		if !ok || len(xv) != len(yv) {
			return false
		}
		for i := range xv {
			if !e.compare(xv[i], yv[i]) {
				return false
			}
		}
		return true
	}
	return reflect.DeepEqual(x, y)
}

func (e *Equivalence) comparePointers(xref, yref string) bool {
	key := [2]string{xref, yref}
	if _, ok := e.seen[key]; ok {
		return true
	}
	e.seen[key] = struct{}{}

	xv, ok := e.x(xref)
	if !ok {
		return false
	}
	yv, ok := e.y(yref)
	if !ok {
		return false
	}
	return e.compare(xv, yv)
}
