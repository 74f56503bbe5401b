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

package variant_test

import (
	"errors"
	"math"
	"testing"

	"github.com/apache/variant-go/internal/json"
	"github.com/apache/variant-go/variant"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromJSONString(t *testing.T) {
	v := variant.FromJSONString(`{"x": [1, "two", null]}`)
	require.Equal(t, variant.Map, v.Kind())

	x := v.Key("x")
	require.Equal(t, variant.List, x.Kind())
	require.Equal(t, 3, x.Size())
	assert.True(t, x.Index(0).Equal(variant.NewInt64(1)))
	assert.True(t, x.Index(1).Equal(variant.NewString("two")))
	assert.True(t, x.Index(2).IsNull())
}

func TestDecodeScalars(t *testing.T) {
	tests := []struct {
		in   string
		want variant.Value
	}{
		{`null`, variant.NewNull()},
		{`true`, variant.NewBool(true)},
		{`false`, variant.NewBool(false)},
		{`0`, variant.NewInt64(0)},
		{`-12`, variant.NewInt64(-12)},
		{`9007199254740993`, variant.NewInt64(9007199254740993)},
		{`9223372036854775807`, variant.NewInt64(math.MaxInt64)},
		{`9223372036854775808`, variant.NewDouble(9223372036854775808)},
		{`1.0`, variant.NewDouble(1)},
		{`1e3`, variant.NewDouble(1000)},
		{`-0.25`, variant.NewDouble(-0.25)},
		{`"aé\n"`, variant.NewString("aé\n")},
		{`[]`, variant.NewList()},
		{`{}`, variant.NewMap(nil)},
		{" \n 7 \t", variant.NewInt64(7)},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := variant.ParseJSON([]byte(tt.in))
			require.NoError(t, err)
			assert.Truef(t, tt.want.Equal(got), "want %s (%s), got %s (%s)",
				tt.want, tt.want.Kind(), got, got.Kind())
		})
	}
}

func TestMalformedJSON(t *testing.T) {
	for _, in := range []string{"not json", "", "{", `{"a":}`, "1 2", `[1,]`, `{"a":1}x`} {
		t.Run(in, func(t *testing.T) {
			assert.True(t, variant.FromJSONString(in).IsNull())

			_, err := variant.ParseJSON([]byte(in))
			assert.ErrorIs(t, err, variant.ErrInvalidJSON)
		})
	}
}

func TestEncode(t *testing.T) {
	tests := []struct {
		name string
		val  variant.Value
		want string
	}{
		{"null", variant.NewNull(), `null`},
		{"bool", variant.NewBool(true), `true`},
		{"int32", variant.NewInt32(-5), `-5`},
		{"int64", variant.NewInt64(math.MaxInt64), `9223372036854775807`},
		{"double", variant.NewDouble(2.5), `2.5`},
		{"nan", variant.NewDouble(math.NaN()), `null`},
		{"inf", variant.NewDouble(math.Inf(-1)), `null`},
		{"string", variant.NewString(`say "hi"`), `"say \"hi\""`},
		{"empty list", variant.NewList(), `[]`},
		{"empty map", variant.NewMap(nil), `{}`},
		{"nested", variant.NewList(variant.NewMap(map[string]variant.Value{
			"k": variant.NewList(variant.NewDouble(math.NaN())),
		})), `[{"k":[null]}]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.JSONEq(t, tt.want, tt.val.ToJSONString())
		})
	}
}

func TestJSONRoundTrip(t *testing.T) {
	v := variant.NewMap(map[string]variant.Value{
		"int":    variant.NewInt64(-3),
		"big":    variant.NewInt64(1 << 62),
		"double": variant.NewDouble(0.1),
		"whole":  variant.NewDouble(1),
		"huge":   variant.NewDouble(1e21),
		"list": variant.NewList(
			variant.NewBool(true), variant.NewNull(), variant.NewString("s"),
			variant.NewList(), variant.NewDouble(100), variant.NewDouble(-2),
		),
		"map": variant.NewMap(map[string]variant.Value{"": variant.NewString("empty key")}),
	})

	got := variant.FromJSONString(v.ToJSONString())
	assert.Truef(t, v.Equal(got), "round trip changed %s into %s", v, got)

	// Int32 has no JSON spelling of its own
	narrow := variant.NewInt32(4)
	assert.True(t, variant.FromJSONString(narrow.ToJSONString()).Equal(variant.NewInt64(4)))
}

func TestEncodeWholeDoubles(t *testing.T) {
	tests := []struct {
		val  variant.Value
		want string
	}{
		{variant.NewDouble(1), `1.0`},
		{variant.NewDouble(-100), `-100.0`},
		{variant.NewDouble(0), `0.0`},
		{variant.NewDouble(1e21), `1e+21`},
		{variant.NewDouble(1e-7), `1e-7`},
		{variant.NewDouble(2.5), `2.5`},
		{variant.NewList(variant.NewDouble(2)), `[2.0]`},
	}

	for _, tt := range tests {
		got := tt.val.ToJSONString()
		assert.Equal(t, tt.want, got)
		back := variant.FromJSONString(got)
		assert.Truef(t, tt.val.Equal(back), "%s came back as %s", got, back)
	}
}

func TestJSONMarshalerInterfaces(t *testing.T) {
	type envelope struct {
		ID   int           `json:"id"`
		Data variant.Value `json:"data"`
	}

	in := envelope{ID: 1, Data: variant.FromJSONString(`{"tags": ["a", "b"]}`)}
	out, err := json.Marshal(in)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":1,"data":{"tags":["a","b"]}}`, string(out))

	var back envelope
	require.NoError(t, json.Unmarshal(out, &back))
	assert.Equal(t, 1, back.ID)
	assert.True(t, in.Data.Equal(back.Data))

	assert.Equal(t, `"x"`, variant.NewString("x").String())
}

type recordingCodec struct {
	parsed, stringified int
	fail                bool
}

func (c *recordingCodec) Parse(data []byte) (any, error) {
	c.parsed++
	if c.fail {
		return nil, errors.New("boom")
	}
	return map[string]any{"raw": string(data)}, nil
}

func (c *recordingCodec) Stringify(tree any) ([]byte, error) {
	c.stringified++
	if c.fail {
		return nil, errors.New("boom")
	}
	return []byte("<custom>"), nil
}

func TestBridgeUsesCodec(t *testing.T) {
	codec := &recordingCodec{}
	b := variant.NewBridge(codec)

	v := b.FromJSONString("anything")
	assert.Equal(t, "anything", v.Key("raw").AsString())
	assert.Equal(t, "<custom>", b.ToJSONString(v))
	assert.Equal(t, 1, codec.parsed)
	assert.Equal(t, 1, codec.stringified)

	codec.fail = true
	assert.True(t, b.FromJSONString("{}").IsNull())
	assert.Equal(t, "null", b.ToJSONString(v))
	_, err := b.Decode([]byte("{}"))
	assert.Error(t, err)

	def := variant.NewBridge(nil)
	assert.Equal(t, int64(2), def.FromJSONString("2").AsInt64())
}

type literal string

func (l literal) Int64() (int64, error)     { return 0, errors.New("unused") }
func (l literal) Float64() (float64, error) { return 0, errors.New("unused") }
func (l literal) String() string            { return string(l) }

func TestFromJSONTree(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want variant.Value
	}{
		{"nil", nil, variant.NewNull()},
		{"value", variant.NewInt32(3), variant.NewInt32(3)},
		{"int8", int8(-3), variant.NewInt32(-3)},
		{"uint16", uint16(65535), variant.NewInt32(65535)},
		{"int", 12, variant.NewInt64(12)},
		{"uint32", uint32(math.MaxUint32), variant.NewInt64(math.MaxUint32)},
		{"uint64 overflow", uint64(math.MaxUint64), variant.NewDouble(math.MaxUint64)},
		{"float32", float32(0.5), variant.NewDouble(0.5)},
		{"number literal", literal("17"), variant.NewInt64(17)},
		{"fractional literal", literal("1.5"), variant.NewDouble(1.5)},
		{"bad literal", literal("x"), variant.NewNull()},
		{"json number", json.Number("8"), variant.NewInt64(8)},
		{"unknown", struct{}{}, variant.NewNull()},
		{
			"nested",
			map[string]any{"a": []any{true, "s", nil}},
			variant.NewMap(map[string]variant.Value{
				"a": variant.NewList(variant.NewBool(true), variant.NewString("s"), variant.NewNull()),
			}),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := variant.FromJSONTree(tt.in)
			assert.Truef(t, tt.want.Equal(got), "want %s, got %s", tt.want, got)
		})
	}
}
