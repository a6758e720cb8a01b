package document

import (
	"fmt"
	"strconv"

	"go.yaml.in/yaml/v4"
)

// FromYAML converts a decoded yaml.Node tree into a document Node tree.
// Both YAML and JSON sources arrive here: JSON is a subset of YAML, and going
// through the YAML AST is what preserves mapping key order for both formats.
//
// Anchors and aliases are expanded during conversion. A recursive alias (an
// alias that expands through itself) is rejected rather than building a
// cyclic tree.
func FromYAML(root *yaml.Node) (*Node, error) {
	return fromYAML(root, make(map[*yaml.Node]bool))
}

func fromYAML(yn *yaml.Node, expanding map[*yaml.Node]bool) (*Node, error) {
	if yn == nil {
		return NullNode(), nil
	}

	switch yn.Kind {
	case yaml.DocumentNode:
		if len(yn.Content) == 0 {
			return NullNode(), nil
		}
		return fromYAML(yn.Content[0], expanding)

	case yaml.AliasNode:
		if yn.Alias == nil {
			return NullNode(), nil
		}
		if expanding[yn.Alias] {
			return nil, fmt.Errorf("document: recursive alias %q cannot be expanded", yn.Value)
		}
		expanding[yn.Alias] = true
		n, err := fromYAML(yn.Alias, expanding)
		delete(expanding, yn.Alias)
		return n, err

	case yaml.MappingNode:
		m := NewMapping()
		for i := 0; i+1 < len(yn.Content); i += 2 {
			keyNode := yn.Content[i]
			key := keyNode.Value
			if keyNode.Kind == yaml.AliasNode && keyNode.Alias != nil {
				key = keyNode.Alias.Value
			}
			value, err := fromYAML(yn.Content[i+1], expanding)
			if err != nil {
				return nil, err
			}
			m.Set(key, value)
		}
		return m, nil

	case yaml.SequenceNode:
		items := make([]*Node, 0, len(yn.Content))
		for _, item := range yn.Content {
			n, err := fromYAML(item, expanding)
			if err != nil {
				return nil, err
			}
			items = append(items, n)
		}
		return SequenceNode(items...), nil

	case yaml.ScalarNode:
		return scalarFromYAML(yn), nil

	default:
		return nil, fmt.Errorf("document: unsupported YAML node kind %d", yn.Kind)
	}
}

// scalarFromYAML maps a YAML scalar onto the tagged scalar kinds.
// Unrecognized tags (timestamps, binary, custom tags) degrade to strings,
// which is how the rest of the engine treats opaque values.
func scalarFromYAML(yn *yaml.Node) *Node {
	switch yn.Tag {
	case "!!null", "":
		if yn.Tag == "" && yn.Value != "" {
			return StringNode(yn.Value)
		}
		return NullNode()
	case "!!bool":
		b, err := strconv.ParseBool(yn.Value)
		if err != nil {
			return StringNode(yn.Value)
		}
		return BoolNode(b)
	case "!!int":
		i, err := strconv.ParseInt(yn.Value, 0, 64)
		if err != nil {
			return StringNode(yn.Value)
		}
		return IntNode(i)
	case "!!float":
		f, err := strconv.ParseFloat(yn.Value, 64)
		if err != nil {
			return StringNode(yn.Value)
		}
		return FloatNode(f)
	default:
		return StringNode(yn.Value)
	}
}
