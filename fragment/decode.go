package fragment

import (
	"encoding/json"
	"errors"
	"strconv"
)

// DefaultMaxDepth bounds recursive fragment nesting, mirroring the parser's
// depth guard against maliciously deep input (dom.DefaultMaxDepth).
const DefaultMaxDepth = 256

// ErrMaxDepthExceeded is returned when a fragment nests deeper than the
// configured limit.
var ErrMaxDepthExceeded = errors.New("fragment: maximum nesting depth exceeded")

// DecodeConfig holds decoder options.
type DecodeConfig struct {
	// MaxDepth caps fragment nesting depth. Zero means DefaultMaxDepth.
	MaxDepth int
}

type depthGuard struct {
	current int
	max     int
}

func (g *depthGuard) enter() error {
	if g.current >= g.max {
		return ErrMaxDepthExceeded
	}
	g.current++
	return nil
}

func (g *depthGuard) leave() {
	g.current--
}

// ParseFragment decodes a single JSON fragment object (§4.6).
func ParseFragment(jsonText string) (*Fragment, error) {
	return ParseFragmentWithConfig(jsonText, DecodeConfig{})
}

// ParseFragmentWithConfig is ParseFragment with explicit options.
func ParseFragmentWithConfig(jsonText string, cfg DecodeConfig) (*Fragment, error) {
	maxDepth := cfg.MaxDepth
	if maxDepth == 0 {
		maxDepth = DefaultMaxDepth
	}
	var raw json.RawMessage
	if err := json.Unmarshal([]byte(jsonText), &raw); err != nil {
		return nil, &Error{Kind: MalformedJson, Message: err.Error()}
	}
	guard := &depthGuard{max: maxDepth}
	return decodeFragmentValue(raw, guard)
}

func decodeFragmentValue(raw json.RawMessage, guard *depthGuard) (*Fragment, error) {
	if err := guard.enter(); err != nil {
		return nil, &Error{Kind: Schema, Message: err.Error()}
	}
	defer guard.leave()

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		// raw is already known to be valid JSON, so this is a value of the
		// wrong type where a fragment object belongs.
		return nil, schemaErr("fragment must be a JSON object: %v", err)
	}
	return decodeFragmentObject(obj, guard)
}

func decodeFragmentObject(obj map[string]json.RawMessage, guard *depthGuard) (*Fragment, error) {
	f := &Fragment{}

	if raw, ok := obj["s"]; ok {
		statics, err := decodeStatics(raw)
		if err != nil {
			return nil, err
		}
		f.Statics = statics
	}

	if raw, ok := obj["p"]; ok {
		templates, err := decodeTemplates(raw)
		if err != nil {
			return nil, err
		}
		f.HasTemplates = true
		f.Templates = templates
	}

	if raw, ok := obj["r"]; ok {
		var reply int
		if err := json.Unmarshal(raw, &reply); err != nil {
			return nil, schemaErr(`"r" must be an integer: %v`, err)
		}
		f.HasReplyID = true
		f.ReplyID = reply
	}

	if raw, ok := obj["d"]; ok {
		f.Comprehension = true
		var rawRows []json.RawMessage
		if err := json.Unmarshal(raw, &rawRows); err != nil {
			return nil, schemaErr(`"d" must be an array of arrays: %v`, err)
		}
		rows := make([][]Child, len(rawRows))
		var arity = -1
		for i, rawRow := range rawRows {
			row, err := decodeRow(rawRow, guard)
			if err != nil {
				return nil, err
			}
			if arity == -1 {
				arity = len(row)
			} else if len(row) != arity {
				return nil, schemaErr("comprehension row %d has arity %d, expected %d", i, len(row), arity)
			}
			rows[i] = row
		}
		f.HasRows = true
		f.Rows = rows
		return f, validateHoleCount(f.Statics, arity)
	}

	children := make(map[int]Child)
	for key, raw := range obj {
		idx, ok := parseHoleKey(key)
		if !ok {
			continue
		}
		child, err := decodeChild(raw, guard)
		if err != nil {
			return nil, err
		}
		children[idx] = child
	}
	f.Children = children

	holes := -1
	if f.Statics.Present && !f.Statics.IsTemplateRef {
		holes = f.Statics.HoleCount()
	}
	for idx := range children {
		if holes >= 0 && idx >= holes {
			return nil, schemaErr("hole key %d out of range [0, %d)", idx, holes)
		}
	}
	return f, nil
}

func validateHoleCount(s Statics, arity int) error {
	if !s.Present || s.IsTemplateRef || arity < 0 {
		return nil
	}
	if s.HoleCount() != arity {
		return schemaErr("comprehension arity %d disagrees with static hole count %d", arity, s.HoleCount())
	}
	return nil
}

// parseHoleKey recognizes decimal, non-negative, no-leading-zero integer
// keys ("0", "1", "12", ...) as distinct from the reserved keys.
func parseHoleKey(key string) (int, bool) {
	if key == "" {
		return 0, false
	}
	for _, c := range key {
		if c < '0' || c > '9' {
			return 0, false
		}
	}
	if len(key) > 1 && key[0] == '0' {
		return 0, false
	}
	n, err := strconv.Atoi(key)
	if err != nil {
		return 0, false
	}
	return n, true
}

// decodeStatics accepts either a JSON array of strings or a bare integer
// (a reference into the enclosing comprehension's "p" pool).
func decodeStatics(raw json.RawMessage) (Statics, error) {
	var asInt int
	if err := json.Unmarshal(raw, &asInt); err == nil {
		return Statics{Present: true, IsTemplateRef: true, TemplateID: asInt}, nil
	}
	var asArray []string
	if err := json.Unmarshal(raw, &asArray); err != nil {
		return Statics{}, schemaErr(`"s" must be an array of strings or an integer: %v`, err)
	}
	return Statics{Present: true, Values: asArray}, nil
}

func decodeTemplates(raw json.RawMessage) (map[int][]string, error) {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		return nil, schemaErr(`"p" must be an object: %v`, err)
	}
	templates := make(map[int][]string, len(obj))
	for key, val := range obj {
		id, ok := parseHoleKey(key)
		if !ok {
			return nil, schemaErr(`"p" key %q is not a valid template id`, key)
		}
		var values []string
		if err := json.Unmarshal(val, &values); err != nil {
			return nil, schemaErr(`"p" entry %q must be an array of strings: %v`, key, err)
		}
		templates[id] = values
	}
	return templates, nil
}

func decodeRow(raw json.RawMessage, guard *depthGuard) ([]Child, error) {
	var rawChildren []json.RawMessage
	if err := json.Unmarshal(raw, &rawChildren); err != nil {
		return nil, schemaErr("comprehension row must be an array: %v", err)
	}
	row := make([]Child, len(rawChildren))
	for i, rawChild := range rawChildren {
		child, err := decodeChild(rawChild, guard)
		if err != nil {
			return nil, err
		}
		row[i] = child
	}
	return row, nil
}

// decodeChild decodes a single hole value: a JSON string (literal), a JSON
// object (nested fragment), or a bare JSON number (template reference,
// §4.6), synthesized as a nested fragment carrying only a template-ref
// Statics, with no holes of its own.
func decodeChild(raw json.RawMessage, guard *depthGuard) (Child, error) {
	var asString string
	if err := json.Unmarshal(raw, &asString); err == nil {
		return Child{Literal: asString}, nil
	}
	var asInt int
	if err := json.Unmarshal(raw, &asInt); err == nil {
		return Child{IsFragment: true, Fragment: &Fragment{
			Statics: Statics{Present: true, IsTemplateRef: true, TemplateID: asInt},
		}}, nil
	}
	nested, err := decodeFragmentValue(raw, guard)
	if err != nil {
		return Child{}, err
	}
	return Child{IsFragment: true, Fragment: nested}, nil
}
