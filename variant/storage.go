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

package variant

import (
	"math/bits"
	"slices"

	"github.com/zeebo/xxh3"
)

// Lists and maps are stored in persistent 32-way tries. A write copies the
// nodes on the path to the changed entry and shares everything else, so
// updates cost O(log n) and no node is modified once it is reachable from a
// Value.

const (
	nodeBits  = 5
	nodeWidth = 1 << nodeBits
	nodeMask  = nodeWidth - 1
)

// vector is a persistent list. Interior nodes hold kids, leaves hold items;
// the tree is always filled from the left.
type vector struct {
	root  *vnode
	shift uint
	size  int
}

type vnode struct {
	kids  []*vnode
	items []Value
}

// vectorOf returns a vector holding a copy of items.
func vectorOf(items []Value) vector {
	n := len(items)
	if n == 0 {
		return vector{}
	}
	nodes := make([]*vnode, 0, (n+nodeMask)/nodeWidth)
	for len(items) > 0 {
		k := min(nodeWidth, len(items))
		nodes = append(nodes, &vnode{items: slices.Clone(items[:k])})
		items = items[k:]
	}
	var shift uint
	for len(nodes) > 1 {
		parents := make([]*vnode, 0, (len(nodes)+nodeMask)/nodeWidth)
		for len(nodes) > 0 {
			k := min(nodeWidth, len(nodes))
			parents = append(parents, &vnode{kids: nodes[:k:k]})
			nodes = nodes[k:]
		}
		nodes = parents
		shift += nodeBits
	}
	return vector{root: nodes[0], shift: shift, size: n}
}

func (v vector) at(i int) Value {
	n := v.root
	for s := v.shift; s > 0; s -= nodeBits {
		n = n.kids[(i>>s)&nodeMask]
	}
	return n.items[i&nodeMask]
}

// set returns a vector with x stored at i, where i <= size. Storing at size
// appends.
func (v vector) set(i int, x Value) vector {
	if i == v.size {
		if v.root != nil && v.size == 1<<(v.shift+nodeBits) {
			v.root = &vnode{kids: []*vnode{v.root}}
			v.shift += nodeBits
		}
		v.size++
	}
	v.root = assoc(v.root, v.shift, i, x)
	return v
}

// assoc returns a copy of n with x stored at i. A nil n stands for a node that
// does not exist yet.
func assoc(n *vnode, shift uint, i int, x Value) *vnode {
	j := (i >> shift) & nodeMask
	c := &vnode{}
	if shift == 0 {
		if n != nil {
			c.items = make([]Value, max(len(n.items), j+1))
			copy(c.items, n.items)
		} else {
			c.items = make([]Value, j+1)
		}
		c.items[j] = x
		return c
	}

	var child *vnode
	if n != nil {
		c.kids = make([]*vnode, max(len(n.kids), j+1))
		copy(c.kids, n.kids)
		child = c.kids[j]
	} else {
		c.kids = make([]*vnode, j+1)
	}
	c.kids[j] = assoc(child, shift-nodeBits, i, x)
	return c
}

// each calls yield for every item in order until it returns false.
func (v vector) each(yield func(int, Value) bool) bool {
	if v.root == nil {
		return true
	}
	i := 0
	return v.root.each(&i, yield)
}

func (n *vnode) each(i *int, yield func(int, Value) bool) bool {
	for _, kid := range n.kids {
		if !kid.each(i, yield) {
			return false
		}
	}
	for _, item := range n.items {
		if !yield(*i, item) {
			return false
		}
		*i++
	}
	return true
}

func (v vector) slice() []Value {
	out := make([]Value, 0, v.size)
	v.each(func(_ int, item Value) bool {
		out = append(out, item)
		return true
	})
	return out
}

// hmap is a persistent hash array mapped trie keyed by the xxh3 hash of the
// key, consuming five bits of the hash per level. Keys whose full hashes
// collide share a collision node.
type hmap struct {
	root *hnode
	size int
}

type hnode struct {
	bitmap uint32
	slots  []hslot
	coll   []hslot
}

// hslot is either an entry (sub == nil) or a link to the next level.
type hslot struct {
	key  string
	val  Value
	hash uint64
	sub  *hnode
}

func hashKey(k string) uint64 { return xxh3.HashString(k) }

func (m hmap) get(k string) (Value, bool) {
	h := hashKey(k)
	n := m.root
	for shift := uint(0); n != nil; shift += nodeBits {
		if n.coll != nil {
			for _, s := range n.coll {
				if s.key == k {
					return s.val, true
				}
			}
			return Value{}, false
		}
		bit := uint32(1) << ((h >> shift) & nodeMask)
		if n.bitmap&bit == 0 {
			return Value{}, false
		}
		s := n.slots[bits.OnesCount32(n.bitmap&(bit-1))]
		if s.sub == nil {
			if s.key == k {
				return s.val, true
			}
			return Value{}, false
		}
		n = s.sub
	}
	return Value{}, false
}

// set returns a map with x stored under k.
func (m hmap) set(k string, x Value) hmap {
	root := m.root
	if root == nil {
		root = &hnode{}
	}
	root, added := root.put(0, hashKey(k), k, x)
	m.root = root
	if added {
		m.size++
	}
	return m
}

func (n *hnode) put(shift uint, h uint64, k string, x Value) (*hnode, bool) {
	entry := hslot{key: k, val: x, hash: h}
	if n.coll != nil {
		c := &hnode{coll: slices.Clone(n.coll)}
		for i := range c.coll {
			if c.coll[i].key == k {
				c.coll[i].val = x
				return c, false
			}
		}
		c.coll = append(c.coll, entry)
		return c, true
	}

	bit := uint32(1) << ((h >> shift) & nodeMask)
	pos := bits.OnesCount32(n.bitmap & (bit - 1))
	c := &hnode{bitmap: n.bitmap | bit}
	if n.bitmap&bit == 0 {
		c.slots = make([]hslot, 0, len(n.slots)+1)
		c.slots = append(c.slots, n.slots[:pos]...)
		c.slots = append(c.slots, entry)
		c.slots = append(c.slots, n.slots[pos:]...)
		return c, true
	}

	c.slots = slices.Clone(n.slots)
	old := c.slots[pos]
	switch {
	case old.sub != nil:
		sub, added := old.sub.put(shift+nodeBits, h, k, x)
		c.slots[pos] = hslot{sub: sub}
		return c, added
	case old.key == k:
		c.slots[pos] = entry
		return c, false
	}
	c.slots[pos] = hslot{sub: pairNode(shift+nodeBits, old, entry)}
	return c, true
}

// pairNode returns a node holding the two entries a and b, whose hashes agree
// on every bit below shift.
func pairNode(shift uint, a, b hslot) *hnode {
	if shift >= 64 {
		return &hnode{coll: []hslot{a, b}}
	}
	ia, ib := (a.hash>>shift)&nodeMask, (b.hash>>shift)&nodeMask
	if ia == ib {
		return &hnode{bitmap: 1 << ia, slots: []hslot{{sub: pairNode(shift+nodeBits, a, b)}}}
	}
	if ia > ib {
		a, b = b, a
		ia, ib = ib, ia
	}
	return &hnode{bitmap: 1<<ia | 1<<ib, slots: []hslot{a, b}}
}

// each calls yield for every entry, in no particular order, until it returns
// false.
func (m hmap) each(yield func(string, Value) bool) bool {
	if m.root == nil {
		return true
	}
	return m.root.each(yield)
}

func (n *hnode) each(yield func(string, Value) bool) bool {
	for _, s := range n.coll {
		if !yield(s.key, s.val) {
			return false
		}
	}
	for _, s := range n.slots {
		if s.sub != nil {
			if !s.sub.each(yield) {
				return false
			}
		} else if !yield(s.key, s.val) {
			return false
		}
	}
	return true
}

func hmapOf(m map[string]Value) hmap {
	var out hmap
	for k, x := range m {
		out = out.set(k, x)
	}
	return out
}
