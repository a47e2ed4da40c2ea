package config

import (
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Kind identifies the variant held by a RawValue node.
type Kind int

const (
	// KindNull is an explicit null scalar.
	KindNull Kind = iota
	// KindString is a string scalar.
	KindString
	// KindNumber is a numeric scalar (integers and floats share one kind).
	KindNumber
	// KindBool is a boolean scalar.
	KindBool
	// KindList is an ordered sequence of values.
	KindList
	// KindMapping is a key-ordered map of string keys to values.
	KindMapping
)

// String returns the lowercase name of the kind.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindBool:
		return "boolean"
	case KindList:
		return "list"
	case KindMapping:
		return "mapping"
	default:
		return "unknown"
	}
}

// MapEntry is a single key/value pair of a mapping node.
// Mappings are stored as entry slices so document order survives
// substitution, defaulting, and re-serialization.
type MapEntry struct {
	Key   string
	Value *RawValue
}

// RawValue is one node of the untyped configuration tree: a scalar,
// a list, or a mapping. Exactly the fields matching Kind are meaningful.
type RawValue struct {
	Kind Kind

	Str   string
	Num   float64
	Bool  bool
	Items []*RawValue
	Map   []MapEntry

	// Line is the 1-based source line the node was parsed from,
	// zero for synthesized nodes (defaults).
	Line int
}

// Str returns a string node.
func Str(s string) *RawValue { return &RawValue{Kind: KindString, Str: s} }

// Num returns a number node.
func Num(n float64) *RawValue { return &RawValue{Kind: KindNumber, Num: n} }

// Bool returns a boolean node.
func Bool(b bool) *RawValue { return &RawValue{Kind: KindBool, Bool: b} }

// Null returns a null node.
func Null() *RawValue { return &RawValue{Kind: KindNull} }

// List returns a list node over the given items.
func List(items ...*RawValue) *RawValue {
	return &RawValue{Kind: KindList, Items: items}
}

// Mapping returns an empty mapping node.
func Mapping() *RawValue { return &RawValue{Kind: KindMapping} }

// Get returns the value for key in a mapping node, or nil if the key is
// absent or the node is not a mapping.
func (v *RawValue) Get(key string) *RawValue {
	if v == nil || v.Kind != KindMapping {
		return nil
	}
	for _, e := range v.Map {
		if e.Key == key {
			return e.Value
		}
	}
	return nil
}

// Set inserts or replaces key in a mapping node, preserving the position
// of an existing key and appending new keys at the end.
func (v *RawValue) Set(key string, val *RawValue) {
	for i, e := range v.Map {
		if e.Key == key {
			v.Map[i].Value = val
			return
		}
	}
	v.Map = append(v.Map, MapEntry{Key: key, Value: val})
}

// Lookup walks a dotted path from this node. List elements are addressed
// by decimal index segments. It returns nil if any segment is missing.
func (v *RawValue) Lookup(path string) *RawValue {
	if path == "" {
		return v
	}
	cur := v
	for _, seg := range strings.Split(path, ".") {
		if cur == nil {
			return nil
		}
		switch cur.Kind {
		case KindMapping:
			cur = cur.Get(seg)
		case KindList:
			idx, err := strconv.Atoi(seg)
			if err != nil || idx < 0 || idx >= len(cur.Items) {
				return nil
			}
			cur = cur.Items[idx]
		default:
			return nil
		}
	}
	return cur
}

// Clone returns a deep copy of the node.
func (v *RawValue) Clone() *RawValue {
	if v == nil {
		return nil
	}
	out := &RawValue{Kind: v.Kind, Str: v.Str, Num: v.Num, Bool: v.Bool, Line: v.Line}
	if v.Items != nil {
		out.Items = make([]*RawValue, len(v.Items))
		for i, it := range v.Items {
			out.Items[i] = it.Clone()
		}
	}
	if v.Map != nil {
		out.Map = make([]MapEntry, len(v.Map))
		for i, e := range v.Map {
			out.Map[i] = MapEntry{Key: e.Key, Value: e.Value.Clone()}
		}
	}
	return out
}

// fromYAMLNode converts a decoded yaml.Node into a RawValue tree.
func fromYAMLNode(n *yaml.Node) (*RawValue, error) {
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return Mapping(), nil
		}
		return fromYAMLNode(n.Content[0])
	case yaml.AliasNode:
		return fromYAMLNode(n.Alias)
	case yaml.ScalarNode:
		return scalarFromYAML(n)
	case yaml.SequenceNode:
		out := &RawValue{Kind: KindList, Line: n.Line}
		for _, c := range n.Content {
			item, err := fromYAMLNode(c)
			if err != nil {
				return nil, err
			}
			out.Items = append(out.Items, item)
		}
		return out, nil
	case yaml.MappingNode:
		out := &RawValue{Kind: KindMapping, Line: n.Line}
		for i := 0; i+1 < len(n.Content); i += 2 {
			key := n.Content[i].Value
			if out.Get(key) != nil {
				return nil, fmt.Errorf("line %d: duplicate mapping key %q", n.Content[i].Line, key)
			}
			val, err := fromYAMLNode(n.Content[i+1])
			if err != nil {
				return nil, err
			}
			out.Map = append(out.Map, MapEntry{Key: key, Value: val})
		}
		return out, nil
	default:
		return nil, fmt.Errorf("line %d: unsupported node kind %d", n.Line, n.Kind)
	}
}

func scalarFromYAML(n *yaml.Node) (*RawValue, error) {
	switch n.Tag {
	case "!!null":
		return &RawValue{Kind: KindNull, Line: n.Line}, nil
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err != nil {
			return nil, err
		}
		return &RawValue{Kind: KindBool, Bool: b, Line: n.Line}, nil
	case "!!int", "!!float":
		var f float64
		if err := n.Decode(&f); err != nil {
			return nil, err
		}
		return &RawValue{Kind: KindNumber, Num: f, Line: n.Line}, nil
	default:
		return &RawValue{Kind: KindString, Str: n.Value, Line: n.Line}, nil
	}
}

// toYAMLNode converts a RawValue tree back into a yaml.Node for
// serialization or typed decoding.
func (v *RawValue) toYAMLNode() *yaml.Node {
	switch v.Kind {
	case KindNull:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}
	case KindString:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: v.Str}
	case KindBool:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: strconv.FormatBool(v.Bool)}
	case KindNumber:
		if v.Num == float64(int64(v.Num)) {
			return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: strconv.FormatInt(int64(v.Num), 10)}
		}
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!float", Value: strconv.FormatFloat(v.Num, 'g', -1, 64)}
	case KindList:
		n := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, it := range v.Items {
			n.Content = append(n.Content, it.toYAMLNode())
		}
		return n
	case KindMapping:
		n := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for _, e := range v.Map {
			n.Content = append(n.Content,
				&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: e.Key},
				e.Value.toYAMLNode(),
			)
		}
		return n
	default:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}
	}
}

// MarshalYAML lets RawValue trees be written with yaml.Marshal while
// keeping mapping order.
func (v *RawValue) MarshalYAML() (interface{}, error) {
	return v.toYAMLNode(), nil
}

// Display renders a scalar node the way it appears in diagnostics.
func (v *RawValue) Display() string {
	if v == nil {
		return "<absent>"
	}
	switch v.Kind {
	case KindNull:
		return "null"
	case KindString:
		return v.Str
	case KindBool:
		return strconv.FormatBool(v.Bool)
	case KindNumber:
		if v.Num == float64(int64(v.Num)) {
			return strconv.FormatInt(int64(v.Num), 10)
		}
		return strconv.FormatFloat(v.Num, 'g', -1, 64)
	default:
		return v.Kind.String()
	}
}
