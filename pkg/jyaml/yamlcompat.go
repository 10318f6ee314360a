package jyaml

import (
	"fmt"
	"math"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/shapestone/shape-jyaml/internal/errs"
	"github.com/shapestone/shape-jyaml/pkg/value"
)

// FromYAML converts a single YAML document into a value.Value. Mapping key
// order is preserved and aliases are expanded. Only string keys are accepted,
// and tags outside the core schema decode as strings.
//
// An empty document converts to null.
func FromYAML(data []byte) (value.Value, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return value.Value{}, errs.NewDeserialization("%v", err)
	}
	if doc.Kind == 0 || len(doc.Content) == 0 {
		return value.Null(), nil
	}
	return fromYAMLNode(doc.Content[0], 0)
}

// maxYAMLDepth bounds nesting, including nesting reached through aliases.
const maxYAMLDepth = DefaultMaxDepth

func fromYAMLNode(n *yaml.Node, depth int) (value.Value, error) {
	if depth > maxYAMLDepth {
		return value.Value{}, errs.NewDeserialization("YAML nesting deeper than %d", maxYAMLDepth)
	}

	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return value.Null(), nil
		}
		return fromYAMLNode(n.Content[0], depth)

	case yaml.AliasNode:
		return fromYAMLNode(n.Alias, depth+1)

	case yaml.SequenceNode:
		items := make([]value.Value, len(n.Content))
		for i, child := range n.Content {
			v, err := fromYAMLNode(child, depth+1)
			if err != nil {
				return value.Value{}, fmt.Errorf("in array item %d: %w", i, err)
			}
			items[i] = v
		}
		return value.Array(items...), nil

	case yaml.MappingNode:
		obj := value.NewObjectCap(len(n.Content) / 2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			k, vn := n.Content[i], n.Content[i+1]
			if k.Kind != yaml.ScalarNode {
				return value.Value{}, errs.NewDeserialization("YAML key at line %d is not a scalar", k.Line)
			}
			v, err := fromYAMLNode(vn, depth+1)
			if err != nil {
				return value.Value{}, fmt.Errorf("in value for key %q: %w", k.Value, err)
			}
			obj.Set(k.Value, v)
		}
		return value.ObjectValue(obj), nil

	case yaml.ScalarNode:
		return fromYAMLScalar(n)
	}
	return value.Value{}, errs.NewDeserialization("unsupported YAML node at line %d", n.Line)
}

func fromYAMLScalar(n *yaml.Node) (value.Value, error) {
	switch n.ShortTag() {
	case "!!null":
		return value.Null(), nil
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err != nil {
			return value.Value{}, errs.NewDeserialization("line %d: %v", n.Line, err)
		}
		return value.Bool(b), nil
	case "!!int":
		var i int64
		if err := n.Decode(&i); err != nil {
			return value.Value{}, errs.NewDeserialization("line %d: %v", n.Line, err)
		}
		return value.Int(i), nil
	case "!!float":
		var f float64
		if err := n.Decode(&f); err != nil {
			return value.Value{}, errs.NewDeserialization("line %d: %v", n.Line, err)
		}
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return value.Value{}, errs.NewDeserialization("line %d: %s has no JYAML representation", n.Line, n.Value)
		}
		return value.Float(f), nil
	}
	return value.String(n.Value), nil
}

// ToYAML renders v as a YAML document with yaml.v3. Objects keep their key
// order and strings are always tagged as strings, so the output reads back
// to the same value through FromYAML.
func ToYAML(v value.Value) ([]byte, error) {
	n, err := toYAMLNode(v)
	if err != nil {
		return nil, err
	}
	out, err := yaml.Marshal(n)
	if err != nil {
		return nil, errs.NewSerialization("%v", err)
	}
	return out, nil
}

func toYAMLNode(v value.Value) (*yaml.Node, error) {
	switch v.Kind() {
	case value.KindNull:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}, nil
	case value.KindBool:
		b, _ := v.AsBool()
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: strconv.FormatBool(b)}, nil
	case value.KindNumber:
		n, _ := v.AsNumber()
		if n.IsInteger() {
			return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: strconv.FormatInt(n.Int64(), 10)}, nil
		}
		text, err := appendFloat(nil, n.Float64())
		if err != nil {
			return nil, err
		}
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!float", Value: string(text)}, nil
	case value.KindString:
		s, _ := v.AsString()
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: s}, nil
	case value.KindArray:
		items, _ := v.AsArray()
		seq := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq", Content: make([]*yaml.Node, 0, len(items))}
		if len(items) == 0 {
			seq.Style = yaml.FlowStyle
		}
		for i, item := range items {
			child, err := toYAMLNode(item)
			if err != nil {
				return nil, fmt.Errorf("in array item %d: %w", i, err)
			}
			seq.Content = append(seq.Content, child)
		}
		return seq, nil
	case value.KindObject:
		obj, _ := v.AsObject()
		m := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map", Content: make([]*yaml.Node, 0, 2*obj.Len())}
		if obj.Len() == 0 {
			m.Style = yaml.FlowStyle
		}
		var err error
		obj.Range(func(key string, item value.Value) bool {
			var child *yaml.Node
			if child, err = toYAMLNode(item); err != nil {
				err = fmt.Errorf("in value for key %q: %w", key, err)
				return false
			}
			m.Content = append(m.Content,
				&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key}, child)
			return true
		})
		if err != nil {
			return nil, err
		}
		return m, nil
	}
	return nil, errs.NewSerialization("unknown value kind %s", v.Kind())
}
