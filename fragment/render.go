package fragment

import "strings"

// Render produces the markup for a held fragment by interleaving its
// statics with the rendered forms of its holes (§4.6).
func Render(f *Fragment) (string, error) {
	return renderFragment(f, nil)
}

func renderFragment(f *Fragment, templates map[int][]string) (string, error) {
	effective := templates
	if f.HasTemplates {
		effective = f.Templates
	}

	statics, err := resolveStatics(f.Statics, templates, effective)
	if err != nil {
		return "", err
	}

	if f.Comprehension {
		return renderComprehension(f, statics, effective)
	}
	return renderRegular(f, statics, effective)
}

func resolveStatics(s Statics, inherited, effective map[int][]string) ([]string, error) {
	if !s.Present {
		return nil, &Error{Kind: RenderBeforeBound, Message: "statics were never provided at this path"}
	}
	if !s.IsTemplateRef {
		return s.Values, nil
	}
	pool := effective
	if pool == nil {
		pool = inherited
	}
	values, ok := pool[s.TemplateID]
	if !ok {
		return nil, &Error{Kind: UnknownTemplate, Message: "template id not found in any applicable pool"}
	}
	return values, nil
}

func renderRegular(f *Fragment, statics []string, templates map[int][]string) (string, error) {
	holes := len(statics) - 1
	if holes < 0 {
		holes = 0
	}
	var b strings.Builder
	if len(statics) > 0 {
		b.WriteString(statics[0])
	}
	for i := 0; i < holes; i++ {
		child, ok := f.Children[i]
		if !ok {
			return "", &Error{Kind: RenderBeforeBound, Message: "hole has no value at this path"}
		}
		rendered, err := renderChild(child, templates)
		if err != nil {
			return "", err
		}
		b.WriteString(rendered)
		b.WriteString(statics[i+1])
	}
	return b.String(), nil
}

func renderComprehension(f *Fragment, statics []string, templates map[int][]string) (string, error) {
	holes := len(statics) - 1
	if holes < 0 {
		holes = 0
	}
	var b strings.Builder
	for _, row := range f.Rows {
		if len(row) != holes {
			return "", schemaErr("comprehension row has %d values, statics expect %d", len(row), holes)
		}
		if len(statics) > 0 {
			b.WriteString(statics[0])
		}
		for i, child := range row {
			rendered, err := renderChild(child, templates)
			if err != nil {
				return "", err
			}
			b.WriteString(rendered)
			b.WriteString(statics[i+1])
		}
	}
	return b.String(), nil
}

func renderChild(c Child, templates map[int][]string) (string, error) {
	if !c.IsFragment {
		return c.Literal, nil
	}
	return renderFragment(c.Fragment, templates)
}
