package model

import (
	"bytes"
	"fmt"

	"github.com/eathonq/toolkit-mvvm-plugin/internal/errors"
	"github.com/eathonq/toolkit-mvvm-plugin/pkg/reactive"
	"gopkg.in/yaml.v3"
)

// Encode writes a raw tree (or a proxy of one) as a model document. Object
// keys keep their insertion order; *Map and *Set keep their tags so the
// result decodes back to the same shape.
func Encode(v any) ([]byte, error) {
	e := &encoder{visiting: make(map[any]bool)}
	node, err := e.encode(reactive.Raw(v))
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(node); err != nil {
		return nil, errors.New("E205").Wrap(err)
	}
	if err := enc.Close(); err != nil {
		return nil, errors.New("E205").Wrap(err)
	}
	return buf.Bytes(), nil
}

type encoder struct {
	visiting map[any]bool
}

func (e *encoder) enter(v any) error {
	if e.visiting[v] {
		return errors.New("E205").WithDetail("the model contains a cycle")
	}
	e.visiting[v] = true
	return nil
}

func (e *encoder) encode(v any) (*yaml.Node, error) {
	v = reactive.Raw(v)
	switch x := v.(type) {
	case *reactive.Object:
		if err := e.enter(x); err != nil {
			return nil, err
		}
		defer delete(e.visiting, x)
		n := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for _, k := range x.Keys() {
			val, _ := x.Get(k)
			vn, err := e.encode(val)
			if err != nil {
				return nil, err
			}
			n.Content = append(n.Content, stringNode(k), vn)
		}
		return n, nil

	case *reactive.Array:
		if err := e.enter(x); err != nil {
			return nil, err
		}
		defer delete(e.visiting, x)
		n := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, item := range x.Items() {
			in, err := e.encode(item)
			if err != nil {
				return nil, err
			}
			n.Content = append(n.Content, in)
		}
		return n, nil

	case *reactive.Map:
		if err := e.enter(x); err != nil {
			return nil, err
		}
		defer delete(e.visiting, x)
		n := &yaml.Node{Kind: yaml.MappingNode, Tag: tagMap}
		for _, k := range x.Keys() {
			kn, err := scalarNode(k)
			if err != nil {
				return nil, err
			}
			val, _ := x.Get(k)
			vn, err := e.encode(val)
			if err != nil {
				return nil, err
			}
			n.Content = append(n.Content, kn, vn)
		}
		return n, nil

	case *reactive.Set:
		if err := e.enter(x); err != nil {
			return nil, err
		}
		defer delete(e.visiting, x)
		n := &yaml.Node{Kind: yaml.SequenceNode, Tag: tagSeqSet, Style: yaml.FlowStyle}
		for _, item := range x.Values() {
			in, err := e.encode(item)
			if err != nil {
				return nil, err
			}
			n.Content = append(n.Content, in)
		}
		return n, nil
	}

	n := &yaml.Node{}
	if err := n.Encode(v); err != nil {
		return nil, errors.New("E205").WithDetailf("%T", v).Wrap(err)
	}
	return n, nil
}

func stringNode(s string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: s}
}

func scalarNode(v any) (*yaml.Node, error) {
	n := &yaml.Node{}
	if err := n.Encode(v); err != nil {
		return nil, errors.New("E205").Wrap(err)
	}
	if n.Kind != yaml.ScalarNode {
		return nil, errors.New("E205").WithDetail(fmt.Sprintf("map key %T is not a scalar", v))
	}
	return n, nil
}
