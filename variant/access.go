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
	"iter"
	"slices"
	"strings"
)

// Index returns the i-th child of a List. It returns Null when v is not a List
// or i is out of range, and never modifies v.
func (v Value) Index(i int) Value {
	if v.kind != List || i < 0 || i >= v.list.size {
		return Value{}
	}
	return v.list.at(i)
}

// SetIndex stores x at position i.
//
// If v is not a List it is first reset to an empty List, discarding its previous
// content. The list grows with Null elements when i is past its end. Negative
// indexes are ignored.
func (v *Value) SetIndex(i int, x Value) {
	if i < 0 {
		return
	}
	*v = v.withIndex(i, x)
}

// Append adds x after the last child. Like SetIndex it resets a non-List value
// to an empty List first.
func (v *Value) Append(x Value) {
	n := 0
	if v.kind == List {
		n = v.list.size
	}
	*v = v.withIndex(n, x)
}

// Key returns the child of a Map stored under k. It returns Null when v is not a
// Map or has no such key, and never inserts the key.
func (v Value) Key(k string) Value {
	if v.kind != Map {
		return Value{}
	}
	x, _ := v.obj.get(k)
	return x
}

// SetKey stores x under k, replacing any existing entry.
//
// If v is not a Map it is first reset to an empty Map, discarding its previous
// content.
func (v *Value) SetKey(k string, x Value) {
	*v = v.withKey(k, x)
}

// Keys returns the keys of a Map in sorted order, or nil for other kinds.
func (v Value) Keys() []string {
	if v.kind != Map {
		return nil
	}
	keys := make([]string, 0, v.obj.size)
	v.obj.each(func(k string, _ Value) bool {
		keys = append(keys, k)
		return true
	})
	slices.Sort(keys)
	return keys
}

// Elems iterates over the children of a List in order. It yields nothing for
// other kinds.
func (v Value) Elems() iter.Seq2[int, Value] {
	return func(yield func(int, Value) bool) {
		if v.kind != List {
			return
		}
		v.list.each(yield)
	}
}

// Fields iterates over the entries of a Map in sorted key order. It yields
// nothing for other kinds.
func (v Value) Fields() iter.Seq2[string, Value] {
	return func(yield func(string, Value) bool) {
		if v.kind != Map {
			return
		}
		type entry struct {
			key string
			val Value
		}
		entries := make([]entry, 0, v.obj.size)
		v.obj.each(func(k string, x Value) bool {
			entries = append(entries, entry{k, x})
			return true
		})
		slices.SortFunc(entries, func(a, b entry) int { return strings.Compare(a.key, b.key) })
		for _, e := range entries {
			if !yield(e.key, e.val) {
				return
			}
		}
	}
}

// Get follows p from v and returns the value found there. Any step that does
// not match (an index into a non-List, a missing key, ...) yields Null.
func (v Value) Get(p Path) Value {
	cur := v
	for _, seg := range p {
		if seg.keyed {
			cur = cur.Key(seg.key)
		} else {
			cur = cur.Index(seg.index)
		}
		if cur.kind == Null {
			return cur
		}
	}
	return cur
}

// SetPath stores x at p below v, creating and coercing every level on the way
// with the same rules as SetIndex and SetKey. An empty path replaces v itself.
// A path containing a negative index leaves v untouched.
func (v *Value) SetPath(p Path, x Value) {
	for _, seg := range p {
		if !seg.keyed && seg.index < 0 {
			return
		}
	}
	*v = setPath(*v, p, x)
}

func setPath(v Value, p Path, x Value) Value {
	if len(p) == 0 {
		return x
	}
	seg := p[0]
	if seg.keyed {
		return v.withKey(seg.key, setPath(v.Key(seg.key), p[1:], x))
	}
	return v.withIndex(seg.index, setPath(v.Index(seg.index), p[1:], x))
}

// withIndex returns a List equal to v (or empty, if v is not a List) with x
// stored at i. The receiver is left untouched.
func (v Value) withIndex(i int, x Value) Value {
	var list vector
	if v.kind == List {
		list = v.list
	}
	for list.size < i {
		list = list.set(list.size, Value{})
	}
	return Value{kind: List, list: list.set(i, x)}
}

// withKey returns a Map equal to v (or empty, if v is not a Map) with x stored
// under k. The receiver is left untouched.
func (v Value) withKey(k string, x Value) Value {
	var obj hmap
	if v.kind == Map {
		obj = v.obj
	}
	return Value{kind: Map, obj: obj.set(k, x)}
}
