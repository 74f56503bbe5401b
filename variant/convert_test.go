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
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConversions(t *testing.T) {
	cases := []struct {
		name       string
		val        Value
		wantBool   bool
		wantInt32  int32
		wantInt64  int64
		wantDouble float64
		wantString string
	}{
		{name: "Null", val: NewNull()},
		{name: "Zero value", val: Value{}},
		{
			name: "True", val: NewBool(true),
			wantBool: true, wantInt32: 1, wantInt64: 1, wantDouble: 1, wantString: "1",
		},
		{
			name: "False", val: NewBool(false),
			wantString: "0",
		},
		{
			name: "Int32", val: NewInt32(-7),
			wantBool: true, wantInt32: -7, wantInt64: -7, wantDouble: -7, wantString: "-7",
		},
		{
			name: "Int64 narrowed", val: NewInt64(1 << 40),
			wantBool: true, wantInt32: 0, wantInt64: 1 << 40, wantDouble: 1 << 40, wantString: "1099511627776",
		},
		{
			name: "Double truncated", val: NewDouble(3.99),
			wantBool: true, wantInt32: 3, wantInt64: 3, wantDouble: 3.99, wantString: "3.99",
		},
		{
			name: "Negative double", val: NewDouble(-2.5),
			wantBool: true, wantInt32: -2, wantInt64: -2, wantDouble: -2.5, wantString: "-2.5",
		},
		{
			name: "Huge double saturates", val: NewDouble(1e20),
			wantBool: true, wantInt32: math.MaxInt32, wantInt64: math.MaxInt64, wantDouble: 1e20,
			wantString: "100000000000000000000",
		},
		{
			name: "Numeric string", val: NewString("3.14"),
			wantBool: true, wantInt32: 3, wantInt64: 3, wantDouble: 3.14, wantString: "3.14",
		},
		{
			name: "Padded integer string", val: NewString(" 42 "),
			wantBool: true, wantInt32: 42, wantInt64: 42, wantDouble: 42, wantString: " 42 ",
		},
		{
			name: "Zero string", val: NewString("0"),
			wantString: "0",
		},
		{
			name: "Malformed string", val: NewString("abc"),
			wantString: "abc",
		},
		{
			name: "String overflowing int32", val: NewString("5000000000"),
			wantBool: true, wantInt32: 0, wantInt64: 5000000000, wantDouble: 5e9, wantString: "5000000000",
		},
		{
			name: "Integer with trailing text", val: NewString("12abc"),
			wantBool: true, wantInt32: 12, wantInt64: 12, wantDouble: 12, wantString: "12abc",
		},
		{
			name: "Fraction with trailing text", val: NewString("3.5kg"),
			wantBool: true, wantInt32: 3, wantInt64: 3, wantDouble: 3.5, wantString: "3.5kg",
		},
		{
			name: "Leading space", val: NewString(" 7"),
			wantBool: true, wantInt32: 7, wantInt64: 7, wantDouble: 7, wantString: " 7",
		},
		{
			name: "Dangling exponent", val: NewString("-4e"),
			wantBool: true, wantInt32: -4, wantInt64: -4, wantDouble: -4, wantString: "-4e",
		},
		{
			name: "Exponent string", val: NewString("2e3x"),
			wantBool: true, wantInt32: 2000, wantInt64: 2000, wantDouble: 2000, wantString: "2e3x",
		},
		{
			name: "Bare sign", val: NewString("-x"),
			wantString: "-x",
		},
		{name: "List", val: NewList(NewInt32(1), NewInt32(2))},
		{name: "Map", val: NewMap(map[string]Value{"a": NewBool(true)})},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.wantBool, c.val.AsBool(), "AsBool")
			assert.Equal(t, c.wantInt32, c.val.AsInt32(), "AsInt32")
			assert.Equal(t, c.wantInt64, c.val.AsInt64(), "AsInt64")
			assert.Equal(t, c.wantDouble, c.val.AsDouble(), "AsDouble")
			assert.Equal(t, c.wantString, c.val.AsString(), "AsString")
		})
	}
}

func TestNumericPrefix(t *testing.T) {
	cases := []struct {
		in       string
		words    bool
		want     string
		integral bool
	}{
		{in: "12abc", want: "12", integral: true},
		{in: "\t+5", want: "+5", integral: true},
		{in: ".5.", want: ".5"},
		{in: "5.", want: "5."},
		{in: "1e+", want: "1", integral: true},
		{in: "1E-3z", want: "1E-3"},
		{in: ".", want: ""},
		{in: "x1", want: ""},
		{in: "-Infinity and more", words: true, want: "-Infinity"},
		{in: "nanny", words: true, want: "nan"},
		{in: "inf", want: ""},
	}
	for _, c := range cases {
		got, integral := numericPrefix(c.in, c.words)
		assert.Equal(t, c.want, got, "numericPrefix(%q)", c.in)
		if got != "" {
			assert.Equal(t, c.integral, integral, "numericPrefix(%q) integral", c.in)
		}
	}

	assert.True(t, math.IsInf(NewString("-inf").AsDouble(), -1))
	assert.Zero(t, NewString("inf").AsInt64())
}

func TestNaNConversions(t *testing.T) {
	v := NewDouble(math.NaN())
	assert.True(t, v.AsBool())
	assert.Zero(t, v.AsInt32())
	assert.Zero(t, v.AsInt64())
	assert.True(t, math.IsNaN(v.AsDouble()))
	assert.Equal(t, "NaN", v.AsString())
}

func TestNativeRoundTrip(t *testing.T) {
	assert.Equal(t, true, NewBool(true).AsBool())
	assert.Equal(t, false, NewBool(false).AsBool())
	assert.Equal(t, int32(math.MinInt32), NewInt32(math.MinInt32).AsInt32())
	assert.Equal(t, int32(math.MaxInt32), NewInt32(math.MaxInt32).AsInt32())
	assert.Equal(t, int64(math.MinInt64), NewInt64(math.MinInt64).AsInt64())
	assert.Equal(t, int64(math.MaxInt64), NewInt64(math.MaxInt64).AsInt64())
	assert.Equal(t, 0.1, NewDouble(0.1).AsDouble())
	assert.Equal(t, "h\x00llo\xff", NewString("h\x00llo\xff").AsString())
	assert.Equal(t, "bytes", NewBytes([]byte("bytes")).AsString())
}

func TestContainerConversions(t *testing.T) {
	list := NewList(NewInt32(1), NewString("two"))
	got := list.AsList()
	assert.Len(t, got, 2)
	assert.True(t, got[1].Equal(NewString("two")))

	// the returned slice is a copy
	got[0] = NewString("changed")
	assert.True(t, list.Index(0).Equal(NewInt32(1)))

	assert.Empty(t, NewString("x").AsList())
	assert.NotNil(t, NewString("x").AsList())
	assert.Empty(t, list.AsMap())

	m := NewMap(map[string]Value{"k": NewBool(true)})
	gotMap := m.AsMap()
	gotMap["k"] = NewBool(false)
	gotMap["new"] = NewNull()
	assert.True(t, m.Key("k").AsBool())
	assert.Equal(t, 1, m.Size())
	assert.Empty(t, NewNull().AsMap())
}
