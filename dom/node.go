package dom

import "github.com/liveview-native/liveview-native-core/symbol"

// node is the internal, arena-stored representation of a tree node. The
// public API never hands out a *node; it hands out NodeRef and, on demand,
// a value-copy Node snapshot (see Document.Get). Namespace and tag are
// stored as interned symbols (§4.1) since they repeat heavily across a
// tree and are compared constantly during diff.
type node struct {
	kind Kind

	// Element fields.
	namespace symbol.Symbol
	tag       symbol.Symbol
	attrs     []AttrRef // ordered, dedup-by-(namespace,name) enforced on set

	// Leaf field. Leaf text is not interned: it is typically unique and
	// potentially large, so interning it would only grow the symbol table.
	text string

	hasParent bool
	parent    NodeRef
	children  []NodeRef

	live bool // false once freed; guards against UseAfterFree (§4.1)
}

// Node is an immutable snapshot of a node's shape, safe to hold after the
// Document that produced it has been mutated (it borrows nothing).
type Node struct {
	Kind      Kind
	Namespace string // Element only, "" if none
	Tag       string // Element only
	Text      string // Leaf only
}

func (d *Document) snapshotOf(n *node) Node {
	switch n.kind {
	case KindElement:
		return Node{
			Kind:      KindElement,
			Namespace: d.lookupOptional(n.namespace),
			Tag:       d.interner.Lookup(n.tag),
		}
	case KindLeaf:
		return Node{Kind: KindLeaf, Text: n.text}
	default:
		return Node{Kind: KindRoot}
	}
}

func (d *Document) lookupOptional(sym symbol.Symbol) string {
	if sym == symbol.Invalid {
		return ""
	}
	return d.interner.Lookup(sym)
}

// attribute is the arena-stored representation of an Attribute. Namespace
// and name are interned for the same reason node tags are.
type attribute struct {
	namespace symbol.Symbol
	name      symbol.Symbol
	value     AttributeValue
}
