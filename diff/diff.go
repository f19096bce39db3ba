// Package diff implements the structural diff/merge engine (spec.md §4.4,
// §4.7): it computes a minimal edit script between two dom.Documents using
// positional child matching with a one-sibling look-ahead (see
// mergeChildren), applies it to the live Document, and
// dispatches change events to the Document's installed handler in a
// defined order.
package diff

import (
	"log/slog"

	pkgerrors "github.com/pkg/errors"

	"github.com/liveview-native/liveview-native-core/dom"
)

// MergeConfig holds merge options (SPEC_FULL.md §2 ambient config).
type MergeConfig struct {
	// Logger receives diagnostic messages about the merge. Defaults to
	// slog.Default() when nil.
	Logger *slog.Logger
}

func (c MergeConfig) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return slog.Default()
}

// Merge makes the live Document a structurally equal to the reference
// Document b, preserving NodeRef identity wherever possible, and delivers
// change events to a's installed ChangeHandler (§4.4, §4.7). Edits already
// applied before a mid-merge error are not rolled back; see DESIGN.md for
// the staged-vs-journaled tradeoff.
func Merge(a, b *dom.Document) error {
	return MergeWithConfig(a, b, MergeConfig{})
}

// MergeWithConfig is Merge with explicit options.
func MergeWithConfig(a, b *dom.Document, cfg MergeConfig) error {
	log := cfg.logger()

	if err := a.BeginMerge(); err != nil {
		return &MergeError{Kind: InvalidState, Message: "cannot start merge", Inner: err}
	}
	defer a.EndMerge()

	var events []dom.ChangeEvent
	if err := mergeChildren(a, a.Root(), b, b.Root(), &events); err != nil {
		return &MergeError{Kind: ShapeMismatch, Message: "failed to reconcile document shape", Inner: err}
	}

	log.Debug("merge computed edit script", "events", len(events))

	return dispatch(a, events)
}

// mergeChildren reconciles aParent's children against bParent's children
// (§4.4's matching rule) and recurses into matched Element pairs.
//
// Matching walks both child lists with a pair of cursors rather than
// comparing purely by index. At each step, if the current A child and the
// current B child are compatible (same Kind, and for Elements the same
// Tag/Namespace), they are matched and both cursors advance. Otherwise,
// before falling back to Replace, the next A sibling is checked against the
// current B child: if that one is compatible instead, the current A child
// has simply been dropped from the tree, so it is removed on its own and
// only the A cursor advances. This keeps a later sibling's NodeRef intact
// when a node ahead of it disappears, instead of cascading every following
// pair one slot out of alignment and replacing nodes that did not change.
func mergeChildren(a *dom.Document, aParent dom.NodeRef, b *dom.Document, bParent dom.NodeRef, events *[]dom.ChangeEvent) error {
	aChildren, err := a.Children(aParent)
	if err != nil {
		return pkgerrors.Wrap(err, "reading live children")
	}
	bChildren, err := b.Children(bParent)
	if err != nil {
		return pkgerrors.Wrap(err, "reading reference children")
	}

	type matched struct {
		aRef, bRef dom.NodeRef
	}
	var toRecurse []matched
	var dropped, replaced, changes []dom.ChangeEvent

	liveCount := len(aChildren)
	ai, bi := 0, 0

	for ai < len(aChildren) && bi < len(bChildren) {
		aRef, bRef := aChildren[ai], bChildren[bi]
		aNode, err := a.Get(aRef)
		if err != nil {
			return pkgerrors.Wrapf(err, "reading node %d", aRef)
		}
		bNode, err := b.Get(bRef)
		if err != nil {
			return pkgerrors.Wrapf(err, "reading reference node %d", bRef)
		}

		if !shouldReplace(aNode, bNode) {
			switch aNode.Kind {
			case dom.KindLeaf:
				if aNode.Text != bNode.Text {
					if err := a.SetLeafText(aRef, bNode.Text); err != nil {
						return pkgerrors.Wrapf(err, "updating text of node %d", aRef)
					}
					changes = append(changes, dom.ChangeEvent{Kind: dom.Change, Node: aRef, Parent: aParent, HasParent: true})
				}
			case dom.KindElement:
				changed, err := mergeAttributes(a, aRef, b, bRef)
				if err != nil {
					return pkgerrors.Wrapf(err, "computing attribute delta for node %d", aRef)
				}
				if changed {
					changes = append(changes, dom.ChangeEvent{Kind: dom.Change, Node: aRef, Parent: aParent, HasParent: true})
				}
				toRecurse = append(toRecurse, matched{aRef: aRef, bRef: bRef})
			}
			ai++
			bi++
			continue
		}

		if ai+1 < len(aChildren) {
			nextANode, err := a.Get(aChildren[ai+1])
			if err != nil {
				return pkgerrors.Wrapf(err, "reading node %d", aChildren[ai+1])
			}
			if !shouldReplace(nextANode, bNode) {
				if err := a.Remove(aRef); err != nil {
					return pkgerrors.Wrapf(err, "removing node %d", aRef)
				}
				dropped = append(dropped, dom.ChangeEvent{
					Kind: dom.Remove, Node: aRef, Parent: aParent, HasParent: true, Snapshot: aNode,
				})
				liveCount--
				ai++
				continue
			}
		}

		newRef, err := a.Replace(aRef, b, bRef)
		if err != nil {
			return pkgerrors.Wrapf(err, "replacing node %d", aRef)
		}
		replaced = append(replaced, dom.ChangeEvent{Kind: dom.Replace, Node: newRef, Parent: aParent, HasParent: true})
		ai++
		bi++
	}

	// Whatever remains of A past the cursor exists only on the A side;
	// remove it in descending order so an earlier removal never disturbs
	// the position a later, not-yet-removed sibling is found at.
	for i := len(aChildren) - 1; i >= ai; i-- {
		ref := aChildren[i]
		snapshot, err := a.Get(ref)
		if err != nil {
			return pkgerrors.Wrapf(err, "snapshotting node %d before removal", ref)
		}
		if err := a.Remove(ref); err != nil {
			return pkgerrors.Wrapf(err, "removing node %d", ref)
		}
		*events = append(*events, dom.ChangeEvent{
			Kind: dom.Remove, Node: ref, Parent: aParent, HasParent: true, Snapshot: snapshot,
		})
		liveCount--
	}
	// Look-ahead removals sit at lower indices than the trailing ones, so
	// reporting them last and in reverse keeps every Remove event in
	// descending index order.
	for i := len(dropped) - 1; i >= 0; i-- {
		*events = append(*events, dropped[i])
	}

	// Whatever remains of B past the cursor exists only on the B side;
	// clone and append it in ascending order at the current live length.
	for i := bi; i < len(bChildren); i++ {
		cloned, err := a.CloneInto(b, bChildren[i])
		if err != nil {
			return pkgerrors.Wrapf(err, "cloning reference node %d", bChildren[i])
		}
		if err := a.InsertChild(aParent, liveCount, cloned); err != nil {
			return pkgerrors.Wrapf(err, "inserting cloned node at index %d", liveCount)
		}
		*events = append(*events, dom.ChangeEvent{Kind: dom.Add, Node: cloned, Parent: aParent, HasParent: true})
		liveCount++
	}

	// Replace events follow the Adds, and attribute/text Change events come
	// last, before the events of the recursion into matched children.
	*events = append(*events, replaced...)
	*events = append(*events, changes...)

	for _, m := range toRecurse {
		if err := mergeChildren(a, m.aRef, b, m.bRef, events); err != nil {
			return err
		}
	}

	return nil
}

// shouldReplace implements the "kinds differ, or (Element vs Element)
// tags/namespaces differ" branch of the matching rule.
func shouldReplace(a, b dom.Node) bool {
	if a.Kind != b.Kind {
		return true
	}
	if a.Kind == dom.KindElement {
		return a.Tag != b.Tag || a.Namespace != b.Namespace
	}
	return false
}

// mergeAttributes applies the symmetric-difference attribute delta from b
// onto a's element aRef (§4.4) and reports whether anything changed.
func mergeAttributes(a *dom.Document, aRef dom.NodeRef, b *dom.Document, bRef dom.NodeRef) (bool, error) {
	aAttrs, err := a.Attributes(aRef)
	if err != nil {
		return false, err
	}
	bAttrs, err := b.Attributes(bRef)
	if err != nil {
		return false, err
	}

	aByName := make(map[dom.AttributeName]dom.AttributeValue, len(aAttrs))
	for _, attr := range aAttrs {
		aByName[attr.AttrName()] = attr.Value
	}
	bByName := make(map[dom.AttributeName]dom.AttributeValue, len(bAttrs))
	for _, attr := range bAttrs {
		bByName[attr.AttrName()] = attr.Value
	}

	changed := false

	for name, aVal := range aByName {
		if bVal, ok := bByName[name]; !ok {
			if err := a.RemoveAttribute(aRef, name); err != nil {
				return false, err
			}
			changed = true
		} else if !aVal.Equal(bVal) || aVal.HasValue() != bVal.HasValue() {
			if err := a.SetAttribute(aRef, name, bVal); err != nil {
				return false, err
			}
			changed = true
		}
	}
	for _, attr := range bAttrs {
		name := attr.AttrName()
		if _, ok := aByName[name]; !ok {
			if err := a.SetAttribute(aRef, name, attr.Value); err != nil {
				return false, err
			}
			changed = true
		}
	}

	return changed, nil
}
