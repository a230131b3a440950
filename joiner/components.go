package joiner

import (
	"slices"

	"github.com/erraggy/oasmerge/internal/pathutil"
	"github.com/erraggy/oasmerge/parser"
)

// section gives uniform access to one component category regardless of the
// entry type stored in it.
type section interface {
	category() string
	// names returns the entry names of c in sorted order.
	names(c *parser.Components) []string
	// has reports whether c defines an entry named name.
	has(c *parser.Components, name string) bool
	// entry returns the named entry as a *parser.RefOr value, or nil.
	entry(c *parser.Components, name string) any
	// move stores src's entry named from into dst under the name to.
	move(src, dst *parser.Components, from, to string)
	// replace makes dst's category the same map as src's.
	replace(src, dst *parser.Components)
	size(c *parser.Components) int
}

type typedSection[T any] struct {
	name  string
	field func(*parser.Components) *map[string]*parser.RefOr[T]
}

func (s typedSection[T]) category() string { return s.name }

func (s typedSection[T]) names(c *parser.Components) []string {
	if c == nil {
		return nil
	}
	m := *s.field(c)
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

func (s typedSection[T]) has(c *parser.Components, name string) bool {
	if c == nil {
		return false
	}
	_, ok := (*s.field(c))[name]
	return ok
}

func (s typedSection[T]) entry(c *parser.Components, name string) any {
	if c == nil {
		return nil
	}
	v, ok := (*s.field(c))[name]
	if !ok || v == nil {
		return nil
	}
	return v
}

func (s typedSection[T]) move(src, dst *parser.Components, from, to string) {
	m := s.field(dst)
	if *m == nil {
		*m = make(map[string]*parser.RefOr[T])
	}
	(*m)[to] = (*s.field(src))[from]
}

func (s typedSection[T]) replace(src, dst *parser.Components) {
	*s.field(dst) = *s.field(src)
}

func (s typedSection[T]) size(c *parser.Components) int {
	if c == nil {
		return 0
	}
	return len(*s.field(c))
}

// sections lists every category in merge order.
var sections = []section{
	typedSection[parser.Schema]{pathutil.CategorySchemas, func(c *parser.Components) *map[string]*parser.RefOr[parser.Schema] { return &c.Schemas }},
	typedSection[parser.Response]{pathutil.CategoryResponses, func(c *parser.Components) *map[string]*parser.RefOr[parser.Response] { return &c.Responses }},
	typedSection[parser.Parameter]{pathutil.CategoryParameters, func(c *parser.Components) *map[string]*parser.RefOr[parser.Parameter] { return &c.Parameters }},
	typedSection[parser.Example]{pathutil.CategoryExamples, func(c *parser.Components) *map[string]*parser.RefOr[parser.Example] { return &c.Examples }},
	typedSection[parser.RequestBody]{pathutil.CategoryRequestBodies, func(c *parser.Components) *map[string]*parser.RefOr[parser.RequestBody] { return &c.RequestBodies }},
	typedSection[parser.Header]{pathutil.CategoryHeaders, func(c *parser.Components) *map[string]*parser.RefOr[parser.Header] { return &c.Headers }},
	typedSection[parser.SecurityScheme]{pathutil.CategorySecuritySchemes, func(c *parser.Components) *map[string]*parser.RefOr[parser.SecurityScheme] { return &c.SecuritySchemes }},
	typedSection[parser.Link]{pathutil.CategoryLinks, func(c *parser.Components) *map[string]*parser.RefOr[parser.Link] { return &c.Links }},
	typedSection[parser.Callback]{pathutil.CategoryCallbacks, func(c *parser.Components) *map[string]*parser.RefOr[parser.Callback] { return &c.Callbacks }},
	typedSection[parser.PathItem]{pathutil.CategoryPathItems, func(c *parser.Components) *map[string]*parser.RefOr[parser.PathItem] { return &c.PathItems }},
}

func sectionFor(category string) section {
	for _, s := range sections {
		if s.category() == category {
			return s
		}
	}
	return nil
}
