package dom

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderSelfClosesChildlessElements(t *testing.T) {
	d, err := Parse(`<img class="x"/>`)
	require.NoError(t, err)
	assert.Equal(t, "<img class=\"x\" />\n", d.Render())
}

func TestRenderNestsWithFourSpaceIndent(t *testing.T) {
	d, err := Parse(`<A><B>hi</B></A>`)
	require.NoError(t, err)
	assert.Equal(t, "<A>\n    <B>\n        hi\n    </B>\n</A>\n", d.Render())
}

func TestRenderValuelessAttributeHasNoEquals(t *testing.T) {
	d, err := Parse(`<input disabled/>`)
	require.NoError(t, err)
	assert.Equal(t, "<input disabled />\n", d.Render())
}

func TestRenderEscapesEmbeddedDoubleQuotes(t *testing.T) {
	d := Empty()
	el := d.allocElement("", "a")
	require.NoError(t, d.InsertChild(d.Root(), 0, el))
	require.NoError(t, d.SetAttribute(el, AttributeName{Name: "title"}, StringValue(`she said "hi"`)))
	assert.Equal(t, `<a title="she said \"hi\"" />`+"\n", d.Render())
}

func TestRenderNamespacedNames(t *testing.T) {
	d, err := Parse(`<svg:path xlink:href="x"/>`)
	require.NoError(t, err)
	assert.Equal(t, `<svg:path xlink:href="x" />`+"\n", d.Render())
}

func TestRoundTripParseRenderReparse(t *testing.T) {
	original := `<A><B>hi</B></A>`
	d1, err := Parse(original)
	require.NoError(t, err)
	rendered := d1.Render()

	d2, err := Parse(rendered)
	require.NoError(t, err)

	assert.Equal(t, rendered, d2.Render(), "render(parse(render(d))) must be a fixed point")
}

func TestRenderIsDeterministic(t *testing.T) {
	d, err := Parse(`<A foo="1" bar="2"><B/></A>`)
	require.NoError(t, err)
	first := d.Render()
	second := d.Render()
	assert.Equal(t, first, second)
}
