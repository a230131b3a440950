package joiner

import "strconv"

// maxNumericSuffix bounds the numeric probes tried after the dispute rule.
const maxNumericSuffix = 999

// Dispute is a per-input disambiguation rule. Prefix takes precedence when
// both Prefix and Suffix are set.
type Dispute struct {
	// Prefix is prepended to a disputed name
	Prefix string
	// Suffix is appended to a disputed name when Prefix is empty
	Suffix string
	// AlwaysApply renames every name of the input, disputed or not
	AlwaysApply bool
}

// Apply returns name with the rule's prefix or suffix applied.
func (d *Dispute) Apply(name string) string {
	if d == nil {
		return name
	}
	if d.Prefix != "" {
		return d.Prefix + name
	}
	return name + d.Suffix
}

// namespace is the destination of a name resolution.
type namespace struct {
	// taken reports whether a slot is occupied.
	taken func(name string) bool
	// equivalent reports whether the occupant of a slot may be shared with
	// the candidate. A nil func treats every occupant as a collision.
	equivalent func(name string) bool
}

func (ns namespace) accepts(name string) bool {
	if !ns.taken(name) {
		return true
	}
	return ns.equivalent != nil && ns.equivalent(name)
}

// resolution is where a candidate ends up.
type resolution struct {
	Name string
	// Shared is true when an equivalent occupant already holds Name.
	Shared bool
}

// resolveName picks the name under which a candidate called original is
// stored. It tries, in order: the original name (or the dispute-applied name
// when the rule always applies), the dispute-applied name, and original
// followed by 1 through 999. The first two steps accept an equivalent
// occupant; numeric probes only accept an empty slot. It reports false when
// every step is exhausted.
func resolveName(original string, ns namespace, dispute *Dispute) (resolution, bool) {
	start := original
	if dispute != nil && dispute.AlwaysApply {
		start = dispute.Apply(original)
	}
	if ns.accepts(start) {
		return resolution{Name: start, Shared: ns.taken(start)}, true
	}

	if dispute != nil && !dispute.AlwaysApply {
		disputed := dispute.Apply(original)
		if ns.accepts(disputed) {
			return resolution{Name: disputed, Shared: ns.taken(disputed)}, true
		}
	}

	for i := 1; i <= maxNumericSuffix; i++ {
		candidate := original + strconv.Itoa(i)
		if !ns.taken(candidate) {
			return resolution{Name: candidate}, true
		}
	}
	return resolution{}, false
}
