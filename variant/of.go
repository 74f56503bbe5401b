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
	"encoding"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/stoewer/go-strcase"
	"golang.org/x/exp/constraints"
)

var ErrUnsupportedType = errors.New("variant: unsupported type")

// Options for converting Go values with Of.
type OfOpts int

const (
	// OfSnakeCaseKeys converts the names of untagged struct fields to
	// snake_case. Names given in a `variant` tag are used as is.
	OfSnakeCaseKeys OfOpts = 1 << iota
	// OfOmitEmpty drops zero valued struct fields as if every field were
	// tagged with omitempty.
	OfOmitEmpty
)

var (
	valueType         = reflect.TypeOf(Value{})
	textMarshalerType = reflect.TypeOf((*encoding.TextMarshaler)(nil)).Elem()
)

// Number returns the Value for a Go number, choosing the kind by width:
// integers of at most 32 bits become Int32 (16 bits for unsigned types), wider
// integers become Int64, and floats become Double. Unsigned values above
// math.MaxInt64 become Double.
func Number[T constraints.Integer | constraints.Float](n T) Value {
	return fromNumber(reflect.ValueOf(n))
}

func fromNumber(rv reflect.Value) Value {
	switch rv.Kind() {
	case reflect.Int8, reflect.Int16, reflect.Int32:
		return NewInt32(int32(rv.Int()))
	case reflect.Int, reflect.Int64:
		return NewInt64(rv.Int())
	case reflect.Uint8, reflect.Uint16:
		return NewInt32(int32(rv.Uint()))
	case reflect.Uint32:
		return NewInt64(int64(rv.Uint()))
	case reflect.Uint, reflect.Uint64, reflect.Uintptr:
		return fromUint(rv.Uint())
	}
	return NewDouble(rv.Float())
}

// Of converts a Go value into a Value:
//   - nil, nil pointers and nil interfaces: Null
//   - Value and *Value: the value itself
//   - bool: Bool
//   - integers and floats: as with Number
//   - string and []byte: String
//   - types implementing encoding.TextMarshaler: String holding their text
//   - slices and arrays: List
//   - maps with string keys: Map
//   - structs: Map keyed by the exported field names, or by the name given in a
//     `variant:"name"` field tag. A tag of "-" skips the field and the
//     omitempty flag drops zero valued fields.
//
// Channels, functions, complex numbers and maps without string keys return an
// error wrapping ErrUnsupportedType.
func Of(val any, opts ...OfOpts) (Value, error) {
	var all OfOpts
	for _, o := range opts {
		all |= o
	}
	return of(reflect.ValueOf(val), all)
}

func of(rv reflect.Value, opts OfOpts) (Value, error) {
	if !rv.IsValid() {
		return Value{}, nil
	}
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return Value{}, nil
		}
		if rv.Type().Implements(textMarshalerType) && rv.Kind() == reflect.Pointer {
			break
		}
		rv = rv.Elem()
	}

	if rv.Type() == valueType {
		return rv.Interface().(Value), nil
	}
	if rv.Type().Implements(textMarshalerType) {
		text, err := rv.Interface().(encoding.TextMarshaler).MarshalText()
		if err != nil {
			return Value{}, fmt.Errorf("variant: marshaling %s: %w", rv.Type(), err)
		}
		return NewBytes(text), nil
	}

	switch rv.Kind() {
	case reflect.Bool:
		return NewBool(rv.Bool()), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64:
		return fromNumber(rv), nil
	case reflect.String:
		return NewString(rv.String()), nil
	case reflect.Slice:
		if rv.IsNil() {
			return Value{}, nil
		}
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			return NewBytes(rv.Bytes()), nil
		}
		return ofSequence(rv, opts)
	case reflect.Array:
		return ofSequence(rv, opts)
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return Value{}, fmt.Errorf("%w: map key %s", ErrUnsupportedType, rv.Type().Key())
		}
		if rv.IsNil() {
			return Value{}, nil
		}
		obj := make(map[string]Value, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			item, err := of(iter.Value(), opts)
			if err != nil {
				return Value{}, err
			}
			obj[iter.Key().String()] = item
		}
		return Value{kind: Map, obj: hmapOf(obj)}, nil
	case reflect.Struct:
		return ofStruct(rv, opts)
	}
	return Value{}, fmt.Errorf("%w: %s", ErrUnsupportedType, rv.Type())
}

func ofSequence(rv reflect.Value, opts OfOpts) (Value, error) {
	items := make([]Value, rv.Len())
	for i := range rv.Len() {
		item, err := of(rv.Index(i), opts)
		if err != nil {
			return Value{}, err
		}
		items[i] = item
	}
	return Value{kind: List, list: vectorOf(items)}, nil
}

// Extracts the key name and flags from a struct field. If no key name is
// present in the `variant` tag, the field name is used (converted to
// snake_case when requested).
func fieldInfo(field reflect.StructField, opts OfOpts) (key string, omitEmpty, skip bool) {
	key = field.Name
	if opts&OfSnakeCaseKeys != 0 {
		key = strcase.SnakeCase(field.Name)
	}
	omitEmpty = opts&OfOmitEmpty != 0

	tag, ok := field.Tag.Lookup("variant")
	if !ok || tag == "" {
		return key, omitEmpty, false
	}
	if tag == "-" {
		return "", false, true
	}

	// Tag is of the form "key_name,comma,separated,flags"
	parts := strings.Split(tag, ",")
	if parts[0] != "" {
		key = parts[0]
	}
	for _, flag := range parts[1:] {
		if strings.EqualFold(flag, "omitempty") {
			omitEmpty = true
		}
	}
	return key, omitEmpty, false
}

func ofStruct(rv reflect.Value, opts OfOpts) (Value, error) {
	typ := rv.Type()
	obj := make(map[string]Value, typ.NumField())
	for i := range typ.NumField() {
		field := typ.Field(i)
		if !field.IsExported() {
			continue
		}
		key, omitEmpty, skip := fieldInfo(field, opts)
		if skip {
			continue
		}
		fv := rv.Field(i)
		if omitEmpty && fv.IsZero() {
			continue
		}
		item, err := of(fv, opts)
		if err != nil {
			return Value{}, fmt.Errorf("field %s: %w", field.Name, err)
		}
		obj[key] = item
	}
	return Value{kind: Map, obj: hmapOf(obj)}, nil
}
