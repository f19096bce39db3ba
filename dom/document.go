// Package dom implements the arena-allocated element tree described in
// spec.md §3-§4.2: a Document holds Root/Element/Leaf nodes behind stable
// NodeRef handles, an ordered attribute list per element, and supports
// parsing from and rendering to markup.
//
// The Document is not safe for concurrent use; per §5, exclusive access is
// the caller's responsibility.
package dom

import (
	"fmt"

	"github.com/liveview-native/liveview-native-core/symbol"
)

// ChangeType enumerates the edit kinds a merge can emit (§4.4, §6).
type ChangeType uint8

const (
	Add ChangeType = iota
	Remove
	Replace
	Change
)

func (c ChangeType) String() string {
	switch c {
	case Add:
		return "Add"
	case Remove:
		return "Remove"
	case Replace:
		return "Replace"
	case Change:
		return "Change"
	default:
		return "Unknown"
	}
}

// ChangeEvent is the record delivered to a ChangeHandler for each edit
// (§6). Parent is the zero NodeRef (RootRef) when the affected node has no
// parent, which in practice never happens since Root itself never changes
// shape; the field exists for completeness.
type ChangeEvent struct {
	Kind     ChangeType
	Node     NodeRef
	Parent   NodeRef
	HasParent bool
	// Snapshot is populated for Remove events so a handler can inspect the
	// kind/tag/text of a node that no longer resolves via Get (§6).
	Snapshot Node
}

// ChangeHandler receives change events fired synchronously during Merge.
type ChangeHandler interface {
	OnDocumentChange(event ChangeEvent) error
}

// ChannelStatus and ContinueDirective exist purely so that a host can
// implement ChannelStatusHandler against a stable type from this module;
// the core never invokes OnChannelStatus itself (spec.md §6).
type ChannelStatus uint8

const (
	ChannelConnected ChannelStatus = iota
	ChannelDisconnected
)

type ContinueDirective uint8

const (
	ContinueListening ContinueDirective = iota
	ExitOk
)

// ChannelStatusHandler is implemented by external collaborators; see
// SPEC_FULL.md §6.
type ChannelStatusHandler interface {
	OnChannelStatus(status ChannelStatus) ContinueDirective
}

// Document is an arena-allocated element tree with stable NodeRef handles.
type Document struct {
	interner *symbol.Interner

	nodes []node // index 0 is always the Root

	attrs []attribute

	handler ChangeHandler
	// merging guards against replacing the handler mid-merge (InvalidState,
	// §4.7). It is set from BeginMerge to EndMerge, which bracket the whole
	// of a Merge call, edit application and handler dispatch alike.
	merging bool
}

// Empty returns a Document containing only Root (§4.2).
func Empty() *Document {
	d := &Document{
		interner: symbol.NewInterner(),
	}
	d.nodes = append(d.nodes, node{kind: KindRoot, live: true})
	return d
}

// Root always returns the fixed Root handle.
func (d *Document) Root() NodeRef {
	return RootRef
}

func (d *Document) resolve(ref NodeRef) (*node, error) {
	if int(ref) >= len(d.nodes) || !d.nodes[ref].live {
		return nil, invalidNode(ref)
	}
	return &d.nodes[ref], nil
}

// Get returns a snapshot of the node ref refers to.
func (d *Document) Get(ref NodeRef) (Node, error) {
	n, err := d.resolve(ref)
	if err != nil {
		return Node{}, err
	}
	return d.snapshotOf(n), nil
}

// Children returns a snapshot slice of ref's ordered children.
func (d *Document) Children(ref NodeRef) ([]NodeRef, error) {
	n, err := d.resolve(ref)
	if err != nil {
		return nil, err
	}
	out := make([]NodeRef, len(n.children))
	copy(out, n.children)
	return out, nil
}

// Parent returns ref's parent, and false iff ref is Root.
func (d *Document) Parent(ref NodeRef) (NodeRef, bool, error) {
	n, err := d.resolve(ref)
	if err != nil {
		return 0, false, err
	}
	if !n.hasParent {
		return 0, false, nil
	}
	return n.parent, true, nil
}

// Attributes returns a snapshot of elementRef's attributes in insertion
// order.
func (d *Document) Attributes(elementRef NodeRef) ([]Attribute, error) {
	n, err := d.elementNode(elementRef)
	if err != nil {
		return nil, err
	}
	out := make([]Attribute, len(n.attrs))
	for i, ar := range n.attrs {
		a := d.attrs[ar]
		out[i] = Attribute{
			Namespace: d.lookupOptional(a.namespace),
			Name:      d.interner.Lookup(a.name),
			Value:     a.value,
		}
	}
	return out, nil
}

func (d *Document) elementNode(ref NodeRef) (*node, error) {
	n, err := d.resolve(ref)
	if err != nil {
		return nil, err
	}
	if n.kind != KindElement {
		return nil, illegalMutation(fmt.Sprintf("node %d is a %s, not an Element", ref, n.kind))
	}
	return n, nil
}

func (d *Document) findAttr(n *node, ns, name symbol.Symbol) int {
	for i, ar := range n.attrs {
		a := d.attrs[ar]
		if a.namespace == ns && a.name == name {
			return i
		}
	}
	return -1
}

// GetAttribute returns the value stored for name on elementRef, if any.
func (d *Document) GetAttribute(elementRef NodeRef, name AttributeName) (AttributeValue, bool, error) {
	n, err := d.elementNode(elementRef)
	if err != nil {
		return AttributeValue{}, false, err
	}
	nsSym, nameSym := d.internName(name)
	idx := d.findAttr(n, nsSym, nameSym)
	if idx < 0 {
		return AttributeValue{}, false, nil
	}
	return d.attrs[n.attrs[idx]].value, true, nil
}

func (d *Document) internName(name AttributeName) (ns, n symbol.Symbol) {
	if name.Namespace == "" {
		ns = symbol.Invalid
	} else {
		ns = d.interner.Intern(name.Namespace)
	}
	n = d.interner.Intern(name.Name)
	return
}

// SetAttribute inserts or updates an attribute on elementRef (§4.2):
// insertion order is preserved on insert and not disturbed on update
// (Document invariant 4).
func (d *Document) SetAttribute(elementRef NodeRef, name AttributeName, value AttributeValue) error {
	n, err := d.elementNode(elementRef)
	if err != nil {
		return err
	}
	nsSym, nameSym := d.internName(name)
	if idx := d.findAttr(n, nsSym, nameSym); idx >= 0 {
		ar := n.attrs[idx]
		d.attrs[ar].value = value
		return nil
	}
	ar := AttrRef(len(d.attrs))
	d.attrs = append(d.attrs, attribute{namespace: nsSym, name: nameSym, value: value})
	n.attrs = append(n.attrs, ar)
	return nil
}

// RemoveAttribute removes name from elementRef, if present. Removing a
// missing attribute is a no-op, not an error.
func (d *Document) RemoveAttribute(elementRef NodeRef, name AttributeName) error {
	n, err := d.elementNode(elementRef)
	if err != nil {
		return err
	}
	nsSym, nameSym := d.internName(name)
	idx := d.findAttr(n, nsSym, nameSym)
	if idx < 0 {
		return nil
	}
	n.attrs = append(n.attrs[:idx], n.attrs[idx+1:]...)
	return nil
}

// allocElement allocates a new, unattached Element node.
func (d *Document) allocElement(namespace, tag string) NodeRef {
	var nsSym symbol.Symbol
	if namespace != "" {
		nsSym = d.interner.Intern(namespace)
	}
	ref := NodeRef(len(d.nodes))
	d.nodes = append(d.nodes, node{
		kind:      KindElement,
		namespace: nsSym,
		tag:       d.interner.Intern(tag),
		live:      true,
	})
	return ref
}

// allocLeaf allocates a new, unattached Leaf node.
func (d *Document) allocLeaf(text string) NodeRef {
	ref := NodeRef(len(d.nodes))
	d.nodes = append(d.nodes, node{kind: KindLeaf, text: text, live: true})
	return ref
}

// SetLeafText updates the text of a Leaf node in place, preserving its
// NodeRef identity. This is the mutation the diff engine uses to emit a
// Change event for a leaf whose text differs (§4.4) instead of replacing
// the node outright.
func (d *Document) SetLeafText(ref NodeRef, text string) error {
	n, err := d.resolve(ref)
	if err != nil {
		return err
	}
	if n.kind != KindLeaf {
		return illegalMutation(fmt.Sprintf("node %d is a %s, not a Leaf", ref, n.kind))
	}
	n.text = text
	return nil
}

// InsertChild attaches an unattached node (freshly allocated or cloned via
// CloneInto, and not yet linked into any tree) as a child of parent at
// index. index must be in [0, len(children)].
func (d *Document) InsertChild(parent NodeRef, index int, child NodeRef) error {
	p, err := d.resolve(parent)
	if err != nil {
		return err
	}
	if p.kind == KindLeaf {
		return illegalMutation(fmt.Sprintf("node %d is a Leaf and cannot have children", parent))
	}
	c, err := d.resolve(child)
	if err != nil {
		return err
	}
	if c.hasParent {
		return illegalMutation(fmt.Sprintf("node %d already has a parent", child))
	}
	if index < 0 || index > len(p.children) {
		return indexOutOfBounds(index, len(p.children))
	}
	p.children = append(p.children, 0)
	copy(p.children[index+1:], p.children[index:])
	p.children[index] = child
	c.hasParent = true
	c.parent = parent
	return nil
}

// Remove removes the subtree rooted at ref. Root cannot be removed.
func (d *Document) Remove(ref NodeRef) error {
	n, err := d.resolve(ref)
	if err != nil {
		return err
	}
	if !n.hasParent {
		return illegalMutation("root cannot be removed")
	}
	parent, err := d.resolve(n.parent)
	if err != nil {
		return err
	}
	idx := indexOf(parent.children, ref)
	if idx < 0 {
		return illegalMutation(fmt.Sprintf("node %d not found among parent %d's children", ref, n.parent))
	}
	parent.children = append(parent.children[:idx], parent.children[idx+1:]...)
	d.freeSubtree(ref)
	return nil
}

func indexOf(refs []NodeRef, ref NodeRef) int {
	for i, r := range refs {
		if r == ref {
			return i
		}
	}
	return -1
}

// freeSubtree marks ref and its descendants dead. Arena slots are not
// reused; see DESIGN.md for the monotonic-handle rationale.
func (d *Document) freeSubtree(ref NodeRef) {
	n := &d.nodes[ref]
	for _, c := range n.children {
		d.freeSubtree(c)
	}
	n.live = false
	n.children = nil
	n.attrs = nil
}

// Replace substitutes the subtree rooted at ref with a deep clone of
// src's subtree rooted at srcRef, and returns the new root's NodeRef. The
// old ref is destroyed. ref must not be Root. src may be d itself.
func (d *Document) Replace(ref NodeRef, src *Document, srcRef NodeRef) (NodeRef, error) {
	n, err := d.resolve(ref)
	if err != nil {
		return 0, err
	}
	if !n.hasParent {
		return 0, illegalMutation("root cannot be replaced")
	}
	parent := n.parent
	p, err := d.resolve(parent)
	if err != nil {
		return 0, err
	}
	idx := indexOf(p.children, ref)
	if idx < 0 {
		return 0, illegalMutation(fmt.Sprintf("node %d not found among parent %d's children", ref, parent))
	}

	newRef, err := d.CloneInto(src, srcRef)
	if err != nil {
		return 0, err
	}

	p.children[idx] = newRef
	d.nodes[newRef].hasParent = true
	d.nodes[newRef].parent = parent

	d.freeSubtree(ref)
	return newRef, nil
}

// CloneInto deep-copies src's subtree rooted at srcRef into d, allocating
// fresh NodeRefs and interning names into d's own interner. The returned
// ref is unattached; callers typically pass it to InsertChild or use it as
// the newRef from Replace.
func (d *Document) CloneInto(src *Document, srcRef NodeRef) (NodeRef, error) {
	sn, err := src.resolve(srcRef)
	if err != nil {
		return 0, err
	}
	switch sn.kind {
	case KindLeaf:
		return d.allocLeaf(sn.text), nil
	case KindElement:
		tag := src.interner.Lookup(sn.tag)
		ns := src.lookupOptional(sn.namespace)
		ref := d.allocElement(ns, tag)
		for _, ar := range sn.attrs {
			a := src.attrs[ar]
			name := AttributeName{
				Namespace: src.lookupOptional(a.namespace),
				Name:      src.interner.Lookup(a.name),
			}
			if err := d.SetAttribute(ref, name, a.value); err != nil {
				return 0, err
			}
		}
		for _, c := range sn.children {
			childRef, err := d.CloneInto(src, c)
			if err != nil {
				return 0, err
			}
			if err := d.InsertChild(ref, len(d.nodes[ref].children), childRef); err != nil {
				return 0, err
			}
		}
		return ref, nil
	default:
		return 0, illegalMutation("cannot clone the Root node as a subtree")
	}
}

// SetChangeHandler installs the single current change handler (§4.2,
// §4.7). A nil handler detaches the current one. Calling this mid-merge
// (for example from within the handler) leaves the installed handler in
// place and returns ErrMergeInProgress itself, a DocumentError; it is not
// turned into a MergeError{Kind: InvalidState}.
func (d *Document) SetChangeHandler(handler ChangeHandler) error {
	if d.merging {
		return ErrMergeInProgress
	}
	d.handler = handler
	return nil
}

// Handler returns the currently installed ChangeHandler, or nil.
func (d *Document) Handler() ChangeHandler {
	return d.handler
}

// BeginMerge and EndMerge bracket a merge for the diff package's use,
// enforcing the "no handler replacement mid-merge" rule (§4.7) and
// rejecting reentrant merges on the same Document.
func (d *Document) BeginMerge() error {
	if d.merging {
		return ErrMergeInProgress
	}
	d.merging = true
	return nil
}

func (d *Document) EndMerge() {
	d.merging = false
}
