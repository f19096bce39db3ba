package fragment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMergeRetainsUnmentionedHoles(t *testing.T) {
	held, err := ParseFragment(`{"0": "Alice", "1": "Bob", "s": ["hi ", " and ", "!"]}`)
	require.NoError(t, err)
	delta, err := ParseFragment(`{"0": "Carol"}`)
	require.NoError(t, err)

	held, err = Merge(held, delta)
	require.NoError(t, err)

	out, err := Render(held)
	require.NoError(t, err)
	assert.Equal(t, "hi Carol and Bob!", out)
}

func TestMergeReplacesStaticsWholesale(t *testing.T) {
	held, err := ParseFragment(`{"0": "x", "s": ["<b>", "</b>"]}`)
	require.NoError(t, err)
	delta, err := ParseFragment(`{"0": "x", "s": ["<i>", "</i>"]}`)
	require.NoError(t, err)

	held, err = Merge(held, delta)
	require.NoError(t, err)

	out, err := Render(held)
	require.NoError(t, err)
	assert.Equal(t, "<i>x</i>", out)
}

func TestMergeRecursesIntoNestedFragments(t *testing.T) {
	held, err := ParseFragment(`{"0": {"0": "old", "s": ["<b>", "</b>"]}, "s": ["", ""]}`)
	require.NoError(t, err)
	delta, err := ParseFragment(`{"0": {"0": "new"}, "s": ["", ""]}`)
	require.NoError(t, err)

	held, err = Merge(held, delta)
	require.NoError(t, err)

	out, err := Render(held)
	require.NoError(t, err)
	assert.Equal(t, "<b>new</b>", out)
}

func TestMergeComprehensionReplacesRowsWholesale(t *testing.T) {
	held, err := ParseFragment(`{"d": [["a"], ["b"]], "s": ["<li>", "</li>"]}`)
	require.NoError(t, err)
	delta, err := ParseFragment(`{"d": [["c"]]}`)
	require.NoError(t, err)

	held, err = Merge(held, delta)
	require.NoError(t, err)

	out, err := Render(held)
	require.NoError(t, err)
	assert.Equal(t, "<li>c</li>", out)
}

func TestMergeShallowMergesTemplatePool(t *testing.T) {
	held, err := ParseFragment(`{"d": [], "p": {"0": ["a", "b"], "1": ["c", "d"]}, "s": ["", ""]}`)
	require.NoError(t, err)
	delta, err := ParseFragment(`{"d": [], "p": {"0": ["x", "y"]}}`)
	require.NoError(t, err)

	held, err = Merge(held, delta)
	require.NoError(t, err)

	assert.Equal(t, []string{"x", "y"}, held.Templates[0])
	assert.Equal(t, []string{"c", "d"}, held.Templates[1], "entries absent from the delta are retained")
}

func TestMergeRejectsShapeMismatch(t *testing.T) {
	held, err := ParseFragment(`{"0": "a", "s": ["", ""]}`)
	require.NoError(t, err)
	delta, err := ParseFragment(`{"d": [["b"]], "s": ["", ""]}`)
	require.NoError(t, err)

	_, err = Merge(held, delta)
	require.Error(t, err)
	var ferr *Error
	require.ErrorAs(t, err, &ferr)
	assert.Equal(t, Schema, ferr.Kind)
}

func TestMergeWithNilHeldAdoptsIncoming(t *testing.T) {
	incoming, err := ParseFragment(`{"0": "a", "s": ["", ""]}`)
	require.NoError(t, err)
	merged, err := Merge(nil, incoming)
	require.NoError(t, err)
	assert.Same(t, incoming, merged)
}

// Property: merging a fragment with itself is idempotent.
func TestMergeIdempotent(t *testing.T) {
	held, err := ParseFragment(`{"0": "a", "1": "b", "s": ["x", "y", "z"]}`)
	require.NoError(t, err)
	again, err := ParseFragment(`{"0": "a", "1": "b", "s": ["x", "y", "z"]}`)
	require.NoError(t, err)

	before, err := Render(held)
	require.NoError(t, err)

	held, err = Merge(held, again)
	require.NoError(t, err)

	after, err := Render(held)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}
