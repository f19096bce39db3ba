package dom

// Walk performs a depth-first pre-order traversal of ref's descendants
// (§4.5), calling visit(child) for each. The child list is snapshotted at
// construction time: mutating the Document from within visit is not
// detected beyond the normal InvalidNode check on re-resolution, since the
// walk does not re-resolve nodes once it has copied their children slices.
//
// visit may return false to stop the traversal early.
func (d *Document) Walk(ref NodeRef, visit func(NodeRef) bool) error {
	children, err := d.Children(ref)
	if err != nil {
		return err
	}
	for _, c := range children {
		if !visit(c) {
			return nil
		}
		if err := d.Walk(c, visit); err != nil {
			return err
		}
	}
	return nil
}
