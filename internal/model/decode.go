// Package model reads and writes data-model documents.
//
// A model document is YAML. Mappings become *reactive.Object in document
// order, sequences become *reactive.Array and scalars become bool, int,
// float64, string or nil. Two tags select keyed collections:
//
//	inventory: !map      # *reactive.Map, keys keep their scalar type
//	  1: sword
//	  2: shield
//	tags: !!set          # *reactive.Set
//	  ? fast
//	  ? rare
//	flags: !set [a, b]   # *reactive.Set from a sequence
//
// Aliases resolve to the same container as their anchor, so a shared
// anchor is one object in the decoded tree.
package model

import (
	"bytes"
	"fmt"
	"os"

	"github.com/eathonq/toolkit-mvvm-plugin/internal/errors"
	"github.com/eathonq/toolkit-mvvm-plugin/pkg/reactive"
	"gopkg.in/yaml.v3"
)

const (
	tagMap    = "!map"
	tagSet    = "!!set"
	tagSeqSet = "!set"
)

// Decode parses a model document into a raw tree.
func Decode(data []byte) (any, error) {
	return decodeFile("", data)
}

// Load reads and decodes the model document at path. Errors carry the
// document location.
func Load(path string) (any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.New("E201").WithDetail(path).Wrap(err)
	}
	return decodeFile(path, data)
}

// DecodeNode decodes an already parsed YAML node, such as the inline model
// of a scenario. file is used for error locations and may be empty.
func DecodeNode(file string, node *yaml.Node) (any, error) {
	d := &decoder{file: file, seen: make(map[*yaml.Node]any)}
	return d.decode(node)
}

func decodeFile(file string, data []byte) (any, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		e := errors.New("E202").Wrap(err)
		if line := yamlErrorLine(err); line > 0 {
			e.WithLocation(file, line, 0)
		}
		return nil, e
	}
	return DecodeNode(file, &doc)
}

type decoder struct {
	file string

	// seen maps anchored nodes to their decoded container so aliases share
	// identity.
	seen map[*yaml.Node]any
}

func (d *decoder) fail(code string, n *yaml.Node, format string, args ...any) error {
	e := errors.New(code).WithDetailf(format, args...)
	if n != nil && n.Line > 0 {
		e.WithLocation(d.file, n.Line, n.Column)
	}
	return e
}

func (d *decoder) decode(n *yaml.Node) (any, error) {
	if v, ok := d.seen[n]; ok {
		return v, nil
	}

	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return nil, nil
		}
		return d.decode(n.Content[0])
	case yaml.AliasNode:
		return d.decode(n.Alias)
	case yaml.ScalarNode:
		return d.scalar(n)
	case yaml.SequenceNode:
		if n.Tag == tagSeqSet {
			return d.sequenceSet(n)
		}
		return d.sequence(n)
	case yaml.MappingNode:
		switch n.Tag {
		case tagMap:
			return d.keyedMap(n)
		case tagSet:
			return d.mappingSet(n)
		default:
			return d.object(n)
		}
	}
	return nil, d.fail("E203", n, "unexpected node kind %d", n.Kind)
}

func (d *decoder) object(n *yaml.Node) (any, error) {
	obj := reactive.NewObject()
	d.seen[n] = obj
	for i := 0; i+1 < len(n.Content); i += 2 {
		k, vn := n.Content[i], n.Content[i+1]
		if k.Kind != yaml.ScalarNode {
			return nil, d.fail("E203", k, "object keys must be scalars; use !map for other keys")
		}
		if k.Tag == "!!merge" {
			return nil, d.fail("E203", k, "merge keys are not supported")
		}
		if obj.Has(k.Value) {
			return nil, d.fail("E204", k, "key %q appears twice", k.Value)
		}
		v, err := d.decode(vn)
		if err != nil {
			return nil, err
		}
		obj.Set(k.Value, v)
	}
	return obj, nil
}

func (d *decoder) keyedMap(n *yaml.Node) (any, error) {
	m := reactive.NewMap()
	d.seen[n] = m
	for i := 0; i+1 < len(n.Content); i += 2 {
		k, vn := n.Content[i], n.Content[i+1]
		if k.Kind != yaml.ScalarNode {
			return nil, d.fail("E203", k, "!map keys must be scalars")
		}
		key, err := d.scalar(k)
		if err != nil {
			return nil, err
		}
		if m.Has(key) {
			return nil, d.fail("E204", k, "key %v appears twice", key)
		}
		v, err := d.decode(vn)
		if err != nil {
			return nil, err
		}
		m.Set(key, v)
	}
	return m, nil
}

func (d *decoder) mappingSet(n *yaml.Node) (any, error) {
	s := reactive.NewSet()
	d.seen[n] = s
	for i := 0; i+1 < len(n.Content); i += 2 {
		k := n.Content[i]
		if k.Kind != yaml.ScalarNode {
			return nil, d.fail("E203", k, "set members must be scalars")
		}
		v, err := d.scalar(k)
		if err != nil {
			return nil, err
		}
		s.Add(v)
	}
	return s, nil
}

func (d *decoder) sequenceSet(n *yaml.Node) (any, error) {
	s := reactive.NewSet()
	d.seen[n] = s
	for _, item := range n.Content {
		v, err := d.decode(item)
		if err != nil {
			return nil, err
		}
		if !isComparable(v) {
			return nil, d.fail("E203", item, "set members must be comparable")
		}
		s.Add(v)
	}
	return s, nil
}

func (d *decoder) sequence(n *yaml.Node) (any, error) {
	arr := reactive.NewArray()
	d.seen[n] = arr
	for _, item := range n.Content {
		v, err := d.decode(item)
		if err != nil {
			return nil, err
		}
		arr.Push(v)
	}
	return arr, nil
}

func (d *decoder) scalar(n *yaml.Node) (any, error) {
	switch n.ShortTag() {
	case "!!null":
		return nil, nil
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err != nil {
			return nil, d.fail("E202", n, "%v", err)
		}
		return b, nil
	case "!!int":
		var i int
		if err := n.Decode(&i); err == nil {
			return i, nil
		}
		var f float64
		if err := n.Decode(&f); err != nil {
			return nil, d.fail("E202", n, "%v", err)
		}
		return f, nil
	case "!!float":
		var f float64
		if err := n.Decode(&f); err != nil {
			return nil, d.fail("E202", n, "%v", err)
		}
		return f, nil
	case "!!str", "!!timestamp", "!!binary":
		return n.Value, nil
	}
	return nil, d.fail("E203", n, "unsupported tag %s", n.Tag)
}

func isComparable(v any) bool {
	switch v.(type) {
	case nil, bool, int, float64, string, *reactive.Object, *reactive.Array, *reactive.Map, *reactive.Set:
		return true
	}
	return false
}

// yamlErrorLine extracts the line from a "yaml: line N: ..." message.
func yamlErrorLine(err error) int {
	var line int
	if _, scanErr := fmt.Sscanf(err.Error(), "yaml: line %d:", &line); scanErr != nil {
		return 0
	}
	return line
}
