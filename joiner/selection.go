package joiner

import (
	"strings"

	"github.com/erraggy/oasmerge/parser"
)

// PathRule matches operations by method and path prefix.
type PathRule struct {
	// Path is matched as a prefix of the operation's path
	Path string
	// Method is compared case-insensitively
	Method string
}

// Matches reports whether the rule selects the operation at path and method.
func (r PathRule) Matches(path, method string) bool {
	return strings.EqualFold(r.Method, method) && strings.HasPrefix(path, r.Path)
}

// OperationSelection filters the operations of one input before it is
// merged. Empty lists disable their stage.
type OperationSelection struct {
	// IncludeTags keeps only operations carrying at least one of these tags
	IncludeTags []string
	// ExcludeTags drops operations carrying any of these tags. The tags are
	// also removed from the input's top-level tag list.
	ExcludeTags []string
	// IncludePaths keeps only operations matched by at least one rule
	IncludePaths []PathRule
	// ExcludePaths drops operations matched by any rule
	ExcludePaths []PathRule
}

// keep decides one stage for one operation.
type keep func(path, method string, op *parser.Operation) bool

// stages returns the filters in application order: include-tags,
// exclude-tags, include-paths, exclude-paths. An operation carrying both an
// included and an excluded tag is therefore dropped.
func (s *OperationSelection) stages() []keep {
	var stages []keep
	if len(s.IncludeTags) > 0 {
		stages = append(stages, func(_, _ string, op *parser.Operation) bool {
			return op.HasTag(s.IncludeTags...)
		})
	}
	if len(s.ExcludeTags) > 0 {
		stages = append(stages, func(_, _ string, op *parser.Operation) bool {
			return !op.HasTag(s.ExcludeTags...)
		})
	}
	if len(s.IncludePaths) > 0 {
		stages = append(stages, func(path, method string, _ *parser.Operation) bool {
			return anyRuleMatches(s.IncludePaths, path, method)
		})
	}
	if len(s.ExcludePaths) > 0 {
		stages = append(stages, func(path, method string, _ *parser.Operation) bool {
			return !anyRuleMatches(s.ExcludePaths, path, method)
		})
	}
	return stages
}

func anyRuleMatches(rules []PathRule, path, method string) bool {
	for _, r := range rules {
		if r.Matches(path, method) {
			return true
		}
	}
	return false
}

// SelectOperations removes from doc every operation rejected by sel, then
// drops path items left without operations. The document is modified in
// place; callers pass a copy.
//
// A path item that is itself a $ref keeps its place even without
// operations, since its operations live at the target.
func SelectOperations(doc *parser.Document, sel *OperationSelection) {
	if doc == nil {
		return
	}
	if sel != nil {
		stages := sel.stages()
		for _, stage := range stages {
			for path, item := range doc.Paths {
				if item == nil {
					continue
				}
				for _, method := range item.Methods() {
					if !stage(path, method, item.Operation(method)) {
						item.SetOperation(method, nil)
					}
				}
			}
		}
	}
	dropEmptyPathItems(doc.Paths)
}

func dropEmptyPathItems(paths parser.Paths) {
	for path, item := range paths {
		if item == nil || (!item.HasOperations() && item.Ref == "") {
			delete(paths, path)
		}
	}
}
