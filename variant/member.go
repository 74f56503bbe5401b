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

import "slices"

// Member is a write-through handle on a nested element of a root Value.
//
// It records the root and the path to the element, and resolves that path again
// on every call, so creating or reading a Member never modifies the root. Set
// assigns with a single set-at-path on the root, creating or coercing each level
// on the way:
//
//	var doc variant.Value
//	doc.Field("a").At(2).Set(variant.NewInt32(5))
//	doc.Field("a").Size() // 3
//
// A Member is only valid while its root is. It is not safe for concurrent use.
type Member struct {
	root *Value
	path Path
}

// At returns a Member for the i-th element of v.
func (v *Value) At(i int) Member { return Member{root: v, path: Path{Idx(i)}} }

// Field returns a Member for the entry k of v.
func (v *Value) Field(k string) Member { return Member{root: v, path: Path{Key(k)}} }

// Member returns a Member for the element at p below v.
func (v *Value) Member(p Path) Member { return Member{root: v, path: slices.Clone(p)} }

func (m Member) At(i int) Member { return m.extend(Idx(i)) }

func (m Member) Field(k string) Member { return m.extend(Key(k)) }

func (m Member) extend(seg Segment) Member {
	return Member{root: m.root, path: append(slices.Clip(m.path), seg)}
}

// Path returns a copy of the path from the root to this member.
func (m Member) Path() Path { return slices.Clone(m.path) }

// Value fetches the current value of the member, or Null if any level of its
// path is missing.
func (m Member) Value() Value { return m.root.Get(m.path) }

// Set stores x at the member's path in the root. Levels that are not of the
// container kind the path needs are reset to an empty List or Map first.
func (m Member) Set(x Value) { m.root.SetPath(m.path, x) }

func (m Member) Kind() Kind { return m.Value().Kind() }

func (m Member) Size() int { return m.Value().Size() }

func (m Member) IsNull() bool { return m.Value().IsNull() }

func (m Member) AsBool() bool { return m.Value().AsBool() }

func (m Member) AsInt32() int32 { return m.Value().AsInt32() }

func (m Member) AsInt64() int64 { return m.Value().AsInt64() }

func (m Member) AsDouble() float64 { return m.Value().AsDouble() }

func (m Member) AsString() string { return m.Value().AsString() }

func (m Member) AsList() []Value { return m.Value().AsList() }

func (m Member) AsMap() map[string]Value { return m.Value().AsMap() }

func (m Member) Equal(x Value) bool { return m.Value().Equal(x) }
