package dom

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWalkVisitsPreOrder(t *testing.T) {
	d, err := Parse(`<A><B><C/></B><D/></A>`)
	require.NoError(t, err)
	roots, err := d.Children(d.Root())
	require.NoError(t, err)

	var tags []string
	err = d.Walk(roots[0], func(ref NodeRef) bool {
		n, gerr := d.Get(ref)
		require.NoError(t, gerr)
		tags = append(tags, n.Tag)
		return true
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"B", "C", "D"}, tags)
}

func TestWalkStopsEarlyWhenVisitReturnsFalse(t *testing.T) {
	d, err := Parse(`<A><B/><C/></A>`)
	require.NoError(t, err)
	roots, err := d.Children(d.Root())
	require.NoError(t, err)

	var seen int
	err = d.Walk(roots[0], func(ref NodeRef) bool {
		seen++
		return false
	})
	require.NoError(t, err)
	assert.Equal(t, 1, seen)
}
