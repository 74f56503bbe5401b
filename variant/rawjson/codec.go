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

// Package rawjson works with JSON text directly through gjson and sjson. Its
// Codec plugs into variant.NewBridge, while Get and Set read and patch single
// members of a document without decoding the rest of it.
//
// Objects holding the same key more than once resolve to the first occurrence,
// both when parsing and when addressing members by path.
package rawjson

import (
	"bytes"
	"fmt"
	"maps"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/apache/variant-go/variant"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// Number is a JSON number literal kept as text.
type Number string

func (n Number) String() string            { return string(n) }
func (n Number) Int64() (int64, error)     { return strconv.ParseInt(string(n), 10, 64) }
func (n Number) Float64() (float64, error) { return strconv.ParseFloat(string(n), 64) }

// Codec is a variant.Codec backed by gjson for parsing and sjson for
// stringifying. Numbers are parsed into Number literals.
type Codec struct{}

var _ variant.Codec = Codec{}

func (Codec) Parse(data []byte) (any, error) {
	if !gjson.ValidBytes(data) {
		return nil, variant.ErrInvalidJSON
	}
	return treeOf(gjson.ParseBytes(data)), nil
}

func treeOf(r gjson.Result) any {
	switch r.Type {
	case gjson.Null:
		return nil
	case gjson.False:
		return false
	case gjson.True:
		return true
	case gjson.Number:
		return Number(r.Raw)
	case gjson.String:
		return r.Str
	}

	switch {
	case r.IsArray():
		items := []any{}
		r.ForEach(func(_, item gjson.Result) bool {
			items = append(items, treeOf(item))
			return true
		})
		return items
	case r.IsObject():
		obj := map[string]any{}
		r.ForEach(func(k, item gjson.Result) bool {
			if _, dup := obj[k.Str]; !dup {
				obj[k.Str] = treeOf(item)
			}
			return true
		})
		return obj
	}
	return nil
}

type numberLiteral interface {
	Int64() (int64, error)
	Float64() (float64, error)
	String() string
}

func (Codec) Stringify(tree any) ([]byte, error) {
	out, err := setNode([]byte("[]"), "0", tree)
	if err != nil {
		return nil, err
	}
	return []byte(gjson.GetBytes(out, "0").Raw), nil
}

// setNode stores the JSON form of node under the single path component elem
// of the container doc.
func setNode(doc []byte, elem string, node any) ([]byte, error) {
	switch t := node.(type) {
	case nil, bool, string, int8, int16, int32, int64, uint8, uint16, uint32, uint64:
		return sjson.SetBytes(doc, elem, t)
	case int:
		return sjson.SetBytes(doc, elem, int64(t))
	case uint:
		return sjson.SetBytes(doc, elem, uint64(t))
	case float32:
		return setFloat(doc, elem, float64(t))
	case float64:
		return setFloat(doc, elem, t)
	case numberLiteral:
		if _, err := t.Float64(); err != nil {
			return nil, fmt.Errorf("rawjson: bad number literal %q", t.String())
		}
		return sjson.SetRawBytes(doc, elem, []byte(t.String()))
	case variant.Value:
		return setNode(doc, elem, t.ToJSONTree())
	case []any:
		arr := []byte("[]")
		for i, item := range t {
			var err error
			if arr, err = setNode(arr, strconv.Itoa(i), item); err != nil {
				return nil, err
			}
		}
		return sjson.SetRawBytes(doc, elem, arr)
	case map[string]any:
		obj := []byte("{}")
		for _, k := range slices.Sorted(maps.Keys(t)) {
			var err error
			if obj, err = setNode(obj, keyElem(k), t[k]); err != nil {
				return nil, err
			}
		}
		return sjson.SetRawBytes(doc, elem, obj)
	}
	return nil, fmt.Errorf("rawjson: cannot stringify %T", node)
}

func setFloat(doc []byte, elem string, f float64) ([]byte, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, fmt.Errorf("rawjson: unsupported value %v", f)
	}
	return sjson.SetRawBytes(doc, elem, appendFloat(nil, f))
}

// appendFloat formats f the way encoding/json does: plain notation, switching to
// exponent notation for very small and very large magnitudes. Whole numbers
// keep a ".0" so they read back as floating point.
func appendFloat(b []byte, f float64) []byte {
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
	if !bytes.ContainsRune(b[start:], '.') {
		b = append(b, '.', '0')
	}
	return b
}

// keyElem returns the sjson path component addressing the object member k.
// The leading colon keeps numeric keys from being taken as array indexes.
func keyElem(k string) string {
	var sb strings.Builder
	sb.Grow(len(k) + 1)
	sb.WriteByte(':')
	for i := 0; i < len(k); i++ {
		switch k[i] {
		case '\\', '.', ':', '|', '#', '@', '*', '?', '!', '[', ']', '{', '}', '(', ')', '=', '<', '>', '%', ',', '"':
			sb.WriteByte('\\')
		}
		sb.WriteByte(k[i])
	}
	return sb.String()
}
