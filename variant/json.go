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
	"bytes"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/apache/variant-go/internal/json"
)

var ErrInvalidJSON = errors.New("variant: invalid json")

// Codec parses JSON text into a generic tree and stringifies such trees back
// into text. Trees are built from nil, bool, Go integers, float64, string,
// []any, map[string]any, and number literals such as json.Number (anything with
// Int64, Float64 and String methods).
type Codec interface {
	Parse(data []byte) (any, error)
	Stringify(tree any) ([]byte, error)
}

// GoJSONCodec is the default Codec, backed by github.com/goccy/go-json. Numbers
// are kept as literals while parsing so that 64-bit integers survive intact.
type GoJSONCodec struct{}

func (GoJSONCodec) Parse(data []byte) (any, error) {
	if !json.Valid(data) {
		return nil, ErrInvalidJSON
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var tree any
	if err := dec.Decode(&tree); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidJSON, err)
	}
	return tree, nil
}

func (GoJSONCodec) Stringify(tree any) ([]byte, error) {
	return json.Marshal(tree)
}

// Bridge converts between Values and JSON text through a Codec.
type Bridge struct {
	codec Codec
}

// NewBridge returns a Bridge using codec, or GoJSONCodec if codec is nil.
func NewBridge(codec Codec) *Bridge {
	if codec == nil {
		codec = GoJSONCodec{}
	}
	return &Bridge{codec: codec}
}

var defaultBridge = NewBridge(GoJSONCodec{})

// Encode returns the JSON text of v.
func (b *Bridge) Encode(v Value) ([]byte, error) {
	return b.codec.Stringify(v.ToJSONTree())
}

// Decode parses JSON text into a Value.
func (b *Bridge) Decode(data []byte) (Value, error) {
	tree, err := b.codec.Parse(data)
	if err != nil {
		return Value{}, err
	}
	return FromJSONTree(tree), nil
}

// ToJSONString returns the JSON text of v, or "null" if the codec fails.
func (b *Bridge) ToJSONString(v Value) string {
	out, err := b.Encode(v)
	if err != nil {
		return "null"
	}
	return string(out)
}

// FromJSONString parses text into a Value. Malformed text yields Null; use
// Decode to learn why parsing failed.
func (b *Bridge) FromJSONString(text string) Value {
	v, err := b.Decode([]byte(text))
	if err != nil {
		return Value{}
	}
	return v
}

// ParseJSON parses JSON text with GoJSONCodec. Malformed text, including
// trailing data after the first value, returns an error wrapping
// ErrInvalidJSON.
func ParseJSON(data []byte) (Value, error) { return defaultBridge.Decode(data) }

// FromJSONString parses JSON text with GoJSONCodec, returning Null if the text
// is not valid JSON.
func FromJSONString(text string) Value { return defaultBridge.FromJSONString(text) }

// ToJSON returns the JSON text of v produced by GoJSONCodec.
func (v Value) ToJSON() ([]byte, error) { return defaultBridge.Encode(v) }

// ToJSONString returns the JSON text of v produced by GoJSONCodec.
func (v Value) ToJSONString() string { return defaultBridge.ToJSONString(v) }

var (
	_ json.Marshaler   = Value{}
	_ json.Unmarshaler = (*Value)(nil)
)

func (v Value) MarshalJSON() ([]byte, error) { return v.ToJSON() }

func (v *Value) UnmarshalJSON(data []byte) error {
	parsed, err := ParseJSON(data)
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

// ToJSONTree converts v into a generic JSON tree: nil, bool, int32, int64,
// json.Number, string, []any and map[string]any. Doubles become number
// literals that always carry a fraction or an exponent, so whole values such as
// 1.0 parse back as Double. Doubles that JSON cannot represent (NaN and the
// infinities) become nil.
func (v Value) ToJSONTree() any {
	switch v.kind {
	case Bool:
		return v.i != 0
	case Int32:
		return int32(v.i)
	case Int64:
		return v.i
	case Double:
		if math.IsNaN(v.f) || math.IsInf(v.f, 0) {
			return nil
		}
		return json.Number(appendDouble(nil, v.f))
	case String:
		return v.s
	case List:
		out := make([]any, 0, v.list.size)
		v.list.each(func(_ int, item Value) bool {
			out = append(out, item.ToJSONTree())
			return true
		})
		return out
	case Map:
		out := make(map[string]any, v.obj.size)
		v.obj.each(func(k string, item Value) bool {
			out[k] = item.ToJSONTree()
			return true
		})
		return out
	}
	return nil
}

type numberLiteral interface {
	Int64() (int64, error)
	Float64() (float64, error)
	String() string
}

// FromJSONTree converts a generic JSON tree into a Value. Integral number
// literals that fit in 64 bits become Int64, other numbers Double. Nodes of any
// type not listed on Codec become Null.
func FromJSONTree(tree any) Value {
	switch t := tree.(type) {
	case nil:
		return Value{}
	case Value:
		return t
	case bool:
		return NewBool(t)
	case int8:
		return NewInt32(int32(t))
	case int16:
		return NewInt32(int32(t))
	case int32:
		return NewInt32(t)
	case int:
		return NewInt64(int64(t))
	case int64:
		return NewInt64(t)
	case uint8:
		return NewInt32(int32(t))
	case uint16:
		return NewInt32(int32(t))
	case uint32:
		return NewInt64(int64(t))
	case uint:
		return fromUint(uint64(t))
	case uint64:
		return fromUint(t)
	case float32:
		return NewDouble(float64(t))
	case float64:
		return NewDouble(t)
	case string:
		return NewString(t)
	case []any:
		items := make([]Value, len(t))
		for i, item := range t {
			items[i] = FromJSONTree(item)
		}
		return Value{kind: List, list: vectorOf(items)}
	case map[string]any:
		var obj hmap
		for k, item := range t {
			obj = obj.set(k, FromJSONTree(item))
		}
		return Value{kind: Map, obj: obj}
	case numberLiteral:
		return fromNumberLiteral(t.String())
	}
	return Value{}
}

// appendDouble spells f the way encoding/json does, then adds ".0" when the
// result would otherwise read as an integer.
func appendDouble(b []byte, f float64) []byte {
	format := byte('f')
	if abs := math.Abs(f); abs != 0 && (abs < 1e-6 || abs >= 1e21) {
		format = 'e'
	}
	start := len(b)
	b = strconv.AppendFloat(b, f, format, -1, 64)
	if format == 'e' {
		// clean up e-09 to e-9
		n := len(b)
		if n >= 4 && b[n-4] == 'e' && b[n-3] == '-' && b[n-2] == '0' {
			b[n-2] = b[n-1]
			b = b[:n-1]
		}
		return b
	}
	if !bytes.ContainsAny(b[start:], ".eE") {
		b = append(b, '.', '0')
	}
	return b
}

func fromUint(u uint64) Value {
	if u > math.MaxInt64 {
		return NewDouble(float64(u))
	}
	return NewInt64(int64(u))
}

func fromNumberLiteral(lit string) Value {
	if !strings.ContainsAny(lit, ".eE") {
		if n, err := strconv.ParseInt(lit, 10, 64); err == nil {
			return NewInt64(n)
		}
	}
	f, err := strconv.ParseFloat(lit, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return Value{}
	}
	return NewDouble(f)
}
