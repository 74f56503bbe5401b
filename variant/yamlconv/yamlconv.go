// Licensed to the Apache Software Foundation (ASF) under one
// or more contributor license agreements.  See the NOTICE file
// distributed with this work for additional information
// regarding copyright ownership.  The ASF licenses this file
// to you under the Apache License, Version 2.0 (the
// "License"); you may not use this file except in compliance
// with the License.  You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package yamlconv converts Values to and from YAML documents.
package yamlconv

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/apache/variant-go/variant"
	"gopkg.in/yaml.v3"
)

const (
	// maxDepth bounds the nesting followed while decoding, aliases included.
	maxDepth = 10000
	// aliases may expand a document to at most expansionRatio times its node
	// count, or minExpansion nodes for small documents
	expansionRatio = 100
	minExpansion   = 1 << 16
)

var (
	errTooDeep      = errors.New("yamlconv: document nested too deeply")
	errTooManyNodes = errors.New("yamlconv: aliases expand the document too much")
)

// Marshal returns v as a YAML document. Map keys are written in sorted order.
func Marshal(v variant.Value) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(ToNode(v)); err != nil {
		return nil, fmt.Errorf("yamlconv: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("yamlconv: %w", err)
	}
	return buf.Bytes(), nil
}

// ToNode converts v to a YAML node tree.
func ToNode(v variant.Value) *yaml.Node {
	switch v.Kind() {
	case variant.Bool:
		return scalar("!!bool", strconv.FormatBool(v.AsBool()))
	case variant.Int32, variant.Int64:
		return scalar("!!int", strconv.FormatInt(v.AsInt64(), 10))
	case variant.Double:
		return scalar("!!float", formatFloat(v.AsDouble()))
	case variant.String:
		return scalar("!!str", v.AsString())
	case variant.List:
		n := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, item := range v.Elems() {
			n.Content = append(n.Content, ToNode(item))
		}
		return n
	case variant.Map:
		n := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for k, item := range v.Fields() {
			n.Content = append(n.Content, scalar("!!str", k), ToNode(item))
		}
		return n
	}
	return scalar("!!null", "null")
}

func scalar(tag, value string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: value}
}

func formatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return ".nan"
	case math.IsInf(f, 1):
		return ".inf"
	case math.IsInf(f, -1):
		return "-.inf"
	}
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}

// Unmarshal parses a YAML document into a Value. An empty document is Null.
// Integers become Int64 (Double when they overflow), timestamps and other
// tagged scalars keep their text, aliases are resolved and merge keys are
// applied.
func Unmarshal(data []byte) (variant.Value, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return variant.Value{}, fmt.Errorf("yamlconv: %w", err)
	}
	return FromNode(&doc)
}

// FromNode converts a YAML node tree to a Value. Anchored nodes are decoded
// once and shared by every alias; documents whose aliases expand them to many
// more nodes than they contain are rejected.
func FromNode(n *yaml.Node) (variant.Value, error) {
	d := decoder{
		anchors: make(map[*yaml.Node]anchored),
		budget:  max(minExpansion, expansionRatio*countNodes(n, 0)),
	}
	return d.fromNode(n, 0)
}

// countNodes returns the number of nodes in the tree below n without following
// aliases.
func countNodes(n *yaml.Node, depth int) int {
	if n == nil || depth > maxDepth {
		return 0
	}
	count := 1
	for _, c := range n.Content {
		count += countNodes(c, depth+1)
	}
	return count
}

type anchored struct {
	val   variant.Value
	nodes int
}

type decoder struct {
	anchors map[*yaml.Node]anchored
	// nodes counts the values produced so far, counting an alias as the size
	// of its expansion
	nodes  int
	budget int
}

func (d *decoder) charge(n int) error {
	d.nodes += n
	if d.nodes > d.budget {
		return errTooManyNodes
	}
	return nil
}

func (d *decoder) fromNode(n *yaml.Node, depth int) (variant.Value, error) {
	if depth > maxDepth {
		return variant.Value{}, errTooDeep
	}
	if n.Kind == yaml.AliasNode {
		if n.Alias == nil {
			return variant.Value{}, fmt.Errorf("yamlconv: line %d: alias %q has no target", n.Line, n.Value)
		}
		return d.fromNode(n.Alias, depth+1)
	}
	if n.Anchor == "" {
		return d.decode(n, depth)
	}

	if a, ok := d.anchors[n]; ok {
		return a.val, d.charge(a.nodes)
	}
	start := d.nodes
	v, err := d.decode(n, depth)
	if err != nil {
		return variant.Value{}, err
	}
	d.anchors[n] = anchored{val: v, nodes: d.nodes - start}
	return v, nil
}

func (d *decoder) decode(n *yaml.Node, depth int) (variant.Value, error) {
	if n.Kind == yaml.DocumentNode {
		if len(n.Content) == 0 {
			return variant.Value{}, nil
		}
		return d.fromNode(n.Content[0], depth+1)
	}
	if err := d.charge(1); err != nil {
		return variant.Value{}, err
	}

	switch n.Kind {
	case yaml.ScalarNode:
		return fromScalar(n)
	case yaml.SequenceNode:
		items := make([]variant.Value, 0, len(n.Content))
		for _, c := range n.Content {
			item, err := d.fromNode(c, depth+1)
			if err != nil {
				return variant.Value{}, err
			}
			items = append(items, item)
		}
		return variant.NewList(items...), nil
	case yaml.MappingNode:
		obj := make(map[string]variant.Value, len(n.Content)/2)
		if err := d.fillMap(obj, n, depth); err != nil {
			return variant.Value{}, err
		}
		return variant.NewMap(obj), nil
	}
	return variant.Value{}, nil
}

// fillMap adds the entries of the mapping n to obj. Merged mappings never
// override keys that are set explicitly.
func (d *decoder) fillMap(obj map[string]variant.Value, n *yaml.Node, depth int) error {
	var merges []*yaml.Node
	for i := 0; i+1 < len(n.Content); i += 2 {
		k, val := n.Content[i], n.Content[i+1]
		if k.Kind == yaml.ScalarNode && k.ShortTag() == "!!merge" {
			merges = append(merges, val)
			continue
		}
		key, err := mapKey(k)
		if err != nil {
			return err
		}
		if obj[key], err = d.fromNode(val, depth+1); err != nil {
			return err
		}
	}

	for _, m := range merges {
		sources := []*yaml.Node{m}
		if resolve(m).Kind == yaml.SequenceNode {
			sources = resolve(m).Content
		}
		for _, src := range sources {
			merged, err := d.fromNode(src, depth+1)
			if err != nil {
				return err
			}
			if merged.Kind() != variant.Map {
				return fmt.Errorf("yamlconv: line %d: merge of a non-mapping value", m.Line)
			}
			for k, item := range merged.Fields() {
				if _, ok := obj[k]; !ok {
					obj[k] = item
				}
			}
		}
	}
	return nil
}

func resolve(n *yaml.Node) *yaml.Node {
	for n.Kind == yaml.AliasNode && n.Alias != nil {
		n = n.Alias
	}
	return n
}

func mapKey(k *yaml.Node) (string, error) {
	k = resolve(k)
	if k.Kind != yaml.ScalarNode {
		return "", fmt.Errorf("yamlconv: line %d: mapping keys must be scalars", k.Line)
	}
	return k.Value, nil
}

func fromScalar(n *yaml.Node) (variant.Value, error) {
	switch n.ShortTag() {
	case "!!null":
		return variant.Value{}, nil
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err != nil {
			return variant.Value{}, fmt.Errorf("yamlconv: %w", err)
		}
		return variant.NewBool(b), nil
	case "!!int":
		var i int64
		if err := n.Decode(&i); err == nil {
			return variant.NewInt64(i), nil
		}
		var f float64
		if err := n.Decode(&f); err != nil {
			return variant.Value{}, fmt.Errorf("yamlconv: %w", err)
		}
		return variant.NewDouble(f), nil
	case "!!float":
		var f float64
		if err := n.Decode(&f); err != nil {
			return variant.Value{}, fmt.Errorf("yamlconv: %w", err)
		}
		return variant.NewDouble(f), nil
	case "!!binary":
		var s string
		if err := n.Decode(&s); err != nil {
			return variant.Value{}, fmt.Errorf("yamlconv: %w", err)
		}
		return variant.NewString(s), nil
	}
	return variant.NewString(n.Value), nil
}
