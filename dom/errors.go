package dom

import "fmt"

// ParseError reports a markup syntax violation (§4.3, §7).
type ParseError struct {
	Line   int
	Column int
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at %d:%d: %s", e.Line, e.Column, e.Reason)
}

// DocumentErrorKind enumerates the taxonomy from spec.md §7.
type DocumentErrorKind uint8

const (
	// InvalidNode means a NodeRef does not refer to a live node.
	InvalidNode DocumentErrorKind = iota
	// IllegalMutation means a mutation would violate a Document invariant
	// (e.g. removing Root, inserting a node that already has a parent).
	IllegalMutation
	// IndexOutOfBounds means a child index was outside [0, len].
	IndexOutOfBounds
)

func (k DocumentErrorKind) String() string {
	switch k {
	case InvalidNode:
		return "InvalidNode"
	case IllegalMutation:
		return "IllegalMutation"
	case IndexOutOfBounds:
		return "IndexOutOfBounds"
	default:
		return "Unknown"
	}
}

// DocumentError is returned by Document operations that fail a precondition.
// Per §4.2, the Document is left unchanged whenever this is returned.
type DocumentError struct {
	Kind    DocumentErrorKind
	Message string
}

func (e *DocumentError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// ErrMergeInProgress is returned by SetChangeHandler and BeginMerge when a
// merge is already in progress on the Document (§4.7's "replacing the
// handler mid-merge is not permitted" and the general reentrancy guard).
// When BeginMerge returns it, diff.Merge reports MergeError{Kind:
// InvalidState}; SetChangeHandler returns it to its caller as is.
var ErrMergeInProgress = &DocumentError{Kind: IllegalMutation, Message: "a merge is already in progress on this document"}

func invalidNode(ref NodeRef) *DocumentError {
	return &DocumentError{Kind: InvalidNode, Message: fmt.Sprintf("node %d is not live", ref)}
}

func illegalMutation(msg string) *DocumentError {
	return &DocumentError{Kind: IllegalMutation, Message: msg}
}

func indexOutOfBounds(index, length int) *DocumentError {
	return &DocumentError{Kind: IndexOutOfBounds, Message: fmt.Sprintf("index %d out of bounds for length %d", index, length)}
}
