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


// Value is a dynamically typed value. See the package documentation for the
// conversion, access and mutation rules.
//
// The zero Value is Null.
type Value struct {
	kind Kind

	// i holds the payload of Bool (0 or 1), Int32 and Int64 values.
	i    int64
	f    float64
	s    string
	list vector
	obj  hmap
}

// NewNull returns a Null value. It is equivalent to the zero Value.
func NewNull() Value { return Value{} }

func NewBool(b bool) Value {
	v := Value{kind: Bool}
	if b {
		v.i = 1
	}
	return v
}

func NewInt32(n int32) Value { return Value{kind: Int32, i: int64(n)} }

func NewInt64(n int64) Value { return Value{kind: Int64, i: n} }

func NewDouble(f float64) Value { return Value{kind: Double, f: f} }

func NewString(s string) Value { return Value{kind: String, s: s} }

// NewBytes returns a String value holding a copy of b. The bytes do not need to
// be valid UTF-8.
func NewBytes(b []byte) Value { return Value{kind: String, s: string(b)} }

// NewList returns a List value holding items in order. The slice is copied, so
// the caller may keep using it.
func NewList(items ...Value) Value {
	return Value{kind: List, list: vectorOf(items)}
}

// NewMap returns a Map value holding the entries of m. The map is copied, so the
// caller may keep using it.
func NewMap(m map[string]Value) Value {
	return Value{kind: Map, obj: hmapOf(m)}
}

// Kind returns the kind of representation v currently holds.
func (v Value) Kind() Kind { return v.kind }

func (v Value) IsNull() bool { return v.kind == Null }

// Size returns the number of children of a List or Map, and 0 for every other
// kind.
func (v Value) Size() int {
	switch v.kind {
	case List:
		return v.list.size
	case Map:
		return v.obj.size
	}
	return 0
}

// Clone returns a deep copy of v that shares no storage with it.
func (v Value) Clone() Value {
	switch v.kind {
	case List:
		items := make([]Value, 0, v.list.size)
		v.list.each(func(_ int, item Value) bool {
			items = append(items, item.Clone())
			return true
		})
		return Value{kind: List, list: vectorOf(items)}
	case Map:
		var obj hmap
		v.obj.each(func(k string, item Value) bool {
			obj = obj.set(k, item.Clone())
			return true
		})
		return Value{kind: Map, obj: obj}
	}
	return v
}

// String returns the JSON text of v. It exists so values print usefully with
// the fmt package; use AsString for the string conversion.
func (v Value) String() string { return v.ToJSONString() }
