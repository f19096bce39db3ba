package fragment

// Merge applies incoming onto held in place, per §4.6's merge semantics:
// keys absent from incoming are retained unchanged on held; keys present
// replace (or, for nested fragment holes, recursively merge). held may be
// nil, in which case incoming becomes the new held fragment outright (the
// first render case, where there is nothing yet to merge onto).
func Merge(held, incoming *Fragment) (*Fragment, error) {
	if held == nil {
		return incoming, nil
	}
	if incoming == nil {
		return held, nil
	}
	if held.Comprehension != incoming.Comprehension {
		return nil, schemaErr("cannot merge a %s fragment onto a %s fragment", shapeName(incoming), shapeName(held))
	}

	if incoming.Statics.Present {
		held.Statics = incoming.Statics
	}

	if incoming.HasTemplates {
		if held.Templates == nil {
			held.Templates = make(map[int][]string, len(incoming.Templates))
		}
		for id, values := range incoming.Templates {
			held.Templates[id] = values
		}
		held.HasTemplates = true
	}

	if incoming.HasReplyID {
		held.ReplyID = incoming.ReplyID
		held.HasReplyID = true
	}

	if held.Comprehension {
		if incoming.HasRows {
			held.Rows = incoming.Rows
			held.HasRows = true
		}
		return held, nil
	}

	if held.Children == nil {
		held.Children = make(map[int]Child, len(incoming.Children))
	}
	for idx, incomingChild := range incoming.Children {
		heldChild, exists := held.Children[idx]
		if exists && heldChild.IsFragment && incomingChild.IsFragment {
			merged, err := Merge(heldChild.Fragment, incomingChild.Fragment)
			if err != nil {
				return nil, err
			}
			held.Children[idx] = Child{IsFragment: true, Fragment: merged}
			continue
		}
		held.Children[idx] = incomingChild
	}

	return held, nil
}

func shapeName(f *Fragment) string {
	if f.Comprehension {
		return "comprehension"
	}
	return "regular"
}
