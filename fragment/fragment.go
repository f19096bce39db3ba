// Package fragment decodes, merges, and renders the compact JSON "rendered
// fragment" format described in spec.md §4.6: a tree of static text
// segments interleaved with per-hole dynamic values, kept up to date by
// minimal deltas from the server rather than full re-renders.
//
// Components and streams from the format this grammar descends from are
// out of scope (SPEC_FULL.md §4.6): both depend on a channel-bound
// lifecycle that has no Document/Merge equivalent in this module.
package fragment

// Statics is the "s" field of a fragment: either a literal array of static
// segments, a reference into the enclosing comprehension's "p" pool, or
// absent (meaning "keep whatever is already held at this path").
type Statics struct {
	Present       bool
	Values        []string
	IsTemplateRef bool
	TemplateID    int
}

// HoleCount returns the number of holes implied by Values ("s" has one
// more entry than there are holes). Only meaningful when Present and not
// a template reference.
func (s Statics) HoleCount() int {
	if len(s.Values) == 0 {
		return 0
	}
	return len(s.Values) - 1
}

// Child is a single hole's value: either a literal string or a nested
// Fragment. A bare integer hole value (§4.6: "an integer key referring to
// a shared template") decodes as a nested Fragment whose Statics is a
// template reference and which carries no holes of its own.
type Child struct {
	IsFragment bool
	Literal    string
	Fragment   *Fragment
}

// Fragment is a node in the rendered-fragment tree. It is used both for a
// full initial render and for an incoming delta: a delta simply omits the
// fields it does not touch (tracked by the Has* flags), and Merge applies
// it onto a held Fragment per §4.6's merge semantics.
type Fragment struct {
	Comprehension bool

	Statics Statics

	// Regular mode: holes keyed by index, §4.6's integer-string keys.
	Children map[int]Child

	// Comprehension mode ("d"): each row is one iteration's hole values,
	// rendered against Statics the same way a Regular fragment's children
	// are.
	HasRows bool
	Rows    [][]Child

	// Shared static-template pool ("p"), keyed by small integer id.
	HasTemplates bool
	Templates    map[int][]string

	// Reply id ("r"), opaque and preserved across merges.
	HasReplyID bool
	ReplyID    int
}
