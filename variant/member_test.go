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
	"testing"

	"github.com/apache/variant-go/variant"
	"github.com/stretchr/testify/assert"
)

func TestMemberCreatesLevels(t *testing.T) {
	v := variant.NewMap(nil)
	v.Field("a").At(2).Set(variant.NewInt32(5))

	assert.Equal(t, variant.Map, v.Kind())
	assert.Equal(t, 3, v.Field("a").Size())
	assert.True(t, v.Field("a").At(0).IsNull())
	assert.True(t, v.Field("a").At(2).Equal(variant.NewInt32(5)))
	assert.Equal(t, variant.Int32, v.Field("a").At(2).Kind())
}

func TestMemberReadDoesNotMutate(t *testing.T) {
	tests := []struct {
		name string
		val  variant.Value
	}{
		{"null", variant.NewNull()},
		{"string", variant.NewString("text")},
		{"list", variant.NewList(variant.NewInt32(1))},
		{"map", variant.NewMap(map[string]variant.Value{"k": variant.NewInt32(1)})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := tt.val
			m := v.Field("missing").At(3).Field("deep")
			assert.True(t, m.IsNull())
			assert.Zero(t, m.AsInt64())
			assert.Empty(t, m.AsString())
			_ = v.At(7).Value()
			assert.True(t, v.Equal(tt.val))
		})
	}
}

func TestMemberCoercesOnWrite(t *testing.T) {
	v := variant.NewMap(map[string]variant.Value{"a": variant.NewString("s")})
	v.Field("a").Field("b").Set(variant.NewBool(true))
	assert.JSONEq(t, `{"a":{"b":true}}`, v.ToJSONString())

	v.Field("a").At(1).Set(variant.NewInt32(2))
	assert.JSONEq(t, `{"a":[null,2]}`, v.ToJSONString())

	var root variant.Value
	root.At(0).Set(variant.NewString("x"))
	assert.Equal(t, variant.List, root.Kind())
}

func TestMemberReuse(t *testing.T) {
	var v variant.Value
	m := v.Field("k")
	m.Set(variant.NewInt32(1))
	assert.Equal(t, int32(1), m.AsInt32())

	m.Set(variant.NewString("2"))
	assert.Equal(t, int64(2), m.AsInt64())
	assert.Equal(t, variant.String, m.Kind())

	// extending a member leaves it untouched
	base := v.Field("a")
	left := base.At(0)
	right := base.At(1)
	assert.Equal(t, "a[0]", left.Path().String())
	assert.Equal(t, "a[1]", right.Path().String())
	assert.Equal(t, "a", base.Path().String())
}

func TestMemberConversions(t *testing.T) {
	v := variant.FromJSONString(`{"n": "42", "f": 2.5, "b": true, "l": [1], "m": {"x": 1}}`)

	assert.Equal(t, int32(42), v.Field("n").AsInt32())
	assert.Equal(t, 2.5, v.Field("f").AsDouble())
	assert.True(t, v.Field("b").AsBool())
	assert.Len(t, v.Field("l").AsList(), 1)
	assert.Contains(t, v.Field("m").AsMap(), "x")
	assert.True(t, v.Member(variant.MustParsePath("m.x")).Equal(variant.NewInt64(1)))
}
