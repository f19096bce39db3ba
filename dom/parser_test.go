package dom

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSimpleNesting(t *testing.T) {
	d, err := Parse(`<A><B>hi</B></A>`)
	require.NoError(t, err)

	roots, err := d.Children(d.Root())
	require.NoError(t, err)
	require.Len(t, roots, 1)

	a, err := d.Get(roots[0])
	require.NoError(t, err)
	assert.Equal(t, "A", a.Tag)

	aChildren, err := d.Children(roots[0])
	require.NoError(t, err)
	require.Len(t, aChildren, 1)

	b, err := d.Get(aChildren[0])
	require.NoError(t, err)
	assert.Equal(t, "B", b.Tag)

	bChildren, err := d.Children(aChildren[0])
	require.NoError(t, err)
	require.Len(t, bChildren, 1)

	leaf, err := d.Get(bChildren[0])
	require.NoError(t, err)
	assert.Equal(t, KindLeaf, leaf.Kind)
	assert.Equal(t, "hi", leaf.Text)
}

func TestParseSelfClosingAndExplicitClose(t *testing.T) {
	d, err := Parse(`<img/><div></div>`)
	require.NoError(t, err)
	roots, err := d.Children(d.Root())
	require.NoError(t, err)
	require.Len(t, roots, 2)
}

func TestParsePreservesCaseAndArbitraryTags(t *testing.T) {
	d, err := Parse(`<MyWidget FooBar="1"/>`)
	require.NoError(t, err)
	roots, err := d.Children(d.Root())
	require.NoError(t, err)
	n, err := d.Get(roots[0])
	require.NoError(t, err)
	assert.Equal(t, "MyWidget", n.Tag, "tag casing must be preserved, no HTML normalization")

	attrs, err := d.Attributes(roots[0])
	require.NoError(t, err)
	require.Len(t, attrs, 1)
	assert.Equal(t, "FooBar", attrs[0].Name)
}

func TestParseAttributeQuoteStyles(t *testing.T) {
	d, err := Parse(`<a href=unquoted class='single' title="double" disabled/>`)
	require.NoError(t, err)
	roots, err := d.Children(d.Root())
	require.NoError(t, err)
	attrs, err := d.Attributes(roots[0])
	require.NoError(t, err)
	require.Len(t, attrs, 4)
	assert.Equal(t, "unquoted", attrs[0].Value.String())
	assert.Equal(t, "single", attrs[1].Value.String())
	assert.Equal(t, "double", attrs[2].Value.String())
	assert.False(t, attrs[3].Value.HasValue(), "value-less attribute must stay value-less")
}

func TestParseAttributeValueWithEscapedQuote(t *testing.T) {
	d, err := Parse(`<a title="say \"hi\""/>`)
	require.NoError(t, err)
	roots, err := d.Children(d.Root())
	require.NoError(t, err)
	attrs, err := d.Attributes(roots[0])
	require.NoError(t, err)
	require.Len(t, attrs, 1)
	assert.Equal(t, `say "hi"`, attrs[0].Value.String())
}

// Property: Render's escaping and parseAttribute's unescaping are inverses,
// so re-parsing rendered markup reproduces the original attribute value
// even when it contains a double quote.
func TestParseRenderRoundTripsQuoteInAttributeValue(t *testing.T) {
	d1, err := Parse(`<a title='say "hi"'/>`)
	require.NoError(t, err)

	rendered := d1.Render()
	d2, err := Parse(rendered)
	require.NoError(t, err)

	roots, err := d2.Children(d2.Root())
	require.NoError(t, err)
	attrs, err := d2.Attributes(roots[0])
	require.NoError(t, err)
	require.Len(t, attrs, 1)
	assert.Equal(t, `say "hi"`, attrs[0].Value.String())
}

func TestParseNamespacedAttributeAndTag(t *testing.T) {
	d, err := Parse(`<svg:path xlink:href="x"/>`)
	require.NoError(t, err)
	roots, err := d.Children(d.Root())
	require.NoError(t, err)
	n, err := d.Get(roots[0])
	require.NoError(t, err)
	assert.Equal(t, "svg", n.Namespace)
	assert.Equal(t, "path", n.Tag)

	attrs, err := d.Attributes(roots[0])
	require.NoError(t, err)
	require.Len(t, attrs, 1)
	assert.Equal(t, "xlink", attrs[0].Namespace)
	assert.Equal(t, "href", attrs[0].Name)
}

func TestParseMismatchedCloseTagIsError(t *testing.T) {
	_, err := Parse(`<A><B></A></B>`)
	require.Error(t, err)
	var pe *ParseError
	require.ErrorAs(t, err, &pe)
}

func TestParseUnterminatedTagIsError(t *testing.T) {
	_, err := Parse(`<A><B>`)
	require.Error(t, err)
	var pe *ParseError
	require.ErrorAs(t, err, &pe)
}

func TestParseRejectsExcessiveNesting(t *testing.T) {
	deep := ""
	for i := 0; i < 10; i++ {
		deep += "<a>"
	}
	_, err := ParseWithConfig(deep, ParserConfig{MaxDepth: 5})
	require.Error(t, err)
}
