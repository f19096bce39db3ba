package fragment

import "fmt"

// ErrorKind enumerates the taxonomy from spec.md §4.6/§7.
type ErrorKind uint8

const (
	// MalformedJson means the input was not valid JSON at all.
	MalformedJson ErrorKind = iota
	// Schema means the JSON was valid but violated the fragment grammar:
	// unexpected key types, a hole count that disagrees with "s", a
	// comprehension row of the wrong arity, or a held/incoming fragment
	// whose shapes (Regular vs Comprehension) don't match during merge.
	Schema
	// UnknownTemplate means a fragment's statics referenced a "p" id that
	// is not defined in the applicable template pool, even after merge.
	UnknownTemplate
	// RenderBeforeBound means rendering required statics that have never
	// been provided at some path in the fragment tree.
	RenderBeforeBound
)

func (k ErrorKind) String() string {
	switch k {
	case MalformedJson:
		return "MalformedJson"
	case Schema:
		return "Schema"
	case UnknownTemplate:
		return "UnknownTemplate"
	case RenderBeforeBound:
		return "RenderBeforeBound"
	default:
		return "Unknown"
	}
}

// Error is returned by ParseFragment, Merge, and Render.
type Error struct {
	Kind    ErrorKind
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func schemaErr(format string, args ...any) *Error {
	return &Error{Kind: Schema, Message: fmt.Sprintf(format, args...)}
}
