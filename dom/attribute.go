package dom

import (
	"strings"
)

// AttributeValue distinguishes an attribute with no value (a bare name,
// e.g. `disabled`) from one with an empty string value (`name=""`). The two
// compare equal but serialize differently (§6).
type AttributeValue struct {
	present bool
	value   string
}

// NoValue is the value of a value-less attribute.
var NoValue = AttributeValue{}

// StringValue wraps s as a present attribute value, even if s is empty.
func StringValue(s string) AttributeValue {
	return AttributeValue{present: true, value: s}
}

// HasValue reports whether this is a present (possibly empty) value, as
// opposed to a bare attribute name.
func (v AttributeValue) HasValue() bool {
	return v.present
}

// String returns the underlying string, or "" for NoValue.
func (v AttributeValue) String() string {
	return v.value
}

// Equal reports whether v and other carry the same value, treating a
// bare (value-less) attribute as equal to one with an empty string value.
func (v AttributeValue) Equal(other AttributeValue) bool {
	return v.value == other.value
}

// AttributeName identifies an attribute independent of its value.
type AttributeName struct {
	Namespace string // "" means no namespace
	Name      string
}

// Less implements the total order used by diff (§3): namespace-less
// sorts before namespaced, then lexical on namespace, then lexical on name.
func (a AttributeName) Less(b AttributeName) bool {
	if (a.Namespace == "") != (b.Namespace == "") {
		return a.Namespace == ""
	}
	if a.Namespace != b.Namespace {
		return a.Namespace < b.Namespace
	}
	return a.Name < b.Name
}

// Attribute is a single (namespace?, name, value?) record attached to an
// Element node.
type Attribute struct {
	Namespace string
	Name      string
	Value     AttributeValue
}

// AttrName returns this attribute's name, ignoring its value.
func (a Attribute) AttrName() AttributeName {
	return AttributeName{Namespace: a.Namespace, Name: a.Name}
}

// qualifiedName returns "ns:name" for namespaced attributes, "name"
// otherwise. Used by both the parser (round-tripping) and the printer.
func qualifiedName(namespace, name string) string {
	if namespace == "" {
		return name
	}
	var b strings.Builder
	b.Grow(len(namespace) + 1 + len(name))
	b.WriteString(namespace)
	b.WriteByte(':')
	b.WriteString(name)
	return b.String()
}

// splitQualifiedName splits "ns:name" into its namespace and name parts.
// A name with no colon has an empty namespace.
func splitQualifiedName(qualified string) (namespace, name string) {
	if i := strings.IndexByte(qualified, ':'); i >= 0 {
		return qualified[:i], qualified[i+1:]
	}
	return "", qualified
}
