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
	"encoding/binary"
	"math"

	"github.com/zeebo/xxh3"
)

// Equal reports whether v and other hold the same kind and the same content.
// Lists compare element by element in order, maps compare entries regardless of
// order. Doubles compare numerically, except that NaN equals NaN.
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case Null:
		return true
	case Bool, Int32, Int64:
		return v.i == other.i
	case Double:
		return v.f == other.f || (math.IsNaN(v.f) && math.IsNaN(other.f))
	case String:
		return v.s == other.s
	case List:
		if v.list.size != other.list.size {
			return false
		}
		return v.list.each(func(i int, item Value) bool {
			return item.Equal(other.list.at(i))
		})
	case Map:
		if v.obj.size != other.obj.size {
			return false
		}
		return v.obj.each(func(k string, a Value) bool {
			b, ok := other.obj.get(k)
			return ok && a.Equal(b)
		})
	}
	return false
}

// Hash returns a structural hash of v. Values that are Equal hash the same.
func (v Value) Hash() uint64 {
	h := xxh3.New()
	v.hashInto(h)
	return h.Sum64()
}

func (v Value) hashInto(h *xxh3.Hasher) {
	var buf [9]byte
	buf[0] = byte(v.kind)
	switch v.kind {
	case Null:
		h.Write(buf[:1])
	case Bool, Int32, Int64:
		binary.LittleEndian.PutUint64(buf[1:], uint64(v.i))
		h.Write(buf[:])
	case Double:
		f := v.f
		if f == 0 {
			// folds -0 into +0
			f = 0
		}
		bits := math.Float64bits(f)
		if math.IsNaN(f) {
			bits = math.Float64bits(math.NaN())
		}
		binary.LittleEndian.PutUint64(buf[1:], bits)
		h.Write(buf[:])
	case String:
		binary.LittleEndian.PutUint64(buf[1:], uint64(len(v.s)))
		h.Write(buf[:])
		h.WriteString(v.s)
	case List:
		binary.LittleEndian.PutUint64(buf[1:], uint64(v.list.size))
		h.Write(buf[:])
		v.list.each(func(_ int, item Value) bool {
			item.hashInto(h)
			return true
		})
	case Map:
		binary.LittleEndian.PutUint64(buf[1:], uint64(v.obj.size))
		h.Write(buf[:])
		// entries are hashed independently and summed so that iteration order
		// does not matter
		var sum uint64
		v.obj.each(func(k string, item Value) bool {
			eh := xxh3.New()
			binary.LittleEndian.PutUint64(buf[1:], uint64(len(k)))
			eh.Write(buf[1:])
			eh.WriteString(k)
			binary.LittleEndian.PutUint64(buf[1:], item.Hash())
			eh.Write(buf[1:])
			sum += eh.Sum64()
			return true
		})
		binary.LittleEndian.PutUint64(buf[1:], sum)
		h.Write(buf[1:])
	}
}
