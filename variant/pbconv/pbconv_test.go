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

package pbconv_test

import (
	"math"
	"testing"

	"github.com/apache/variant-go/variant"
	"github.com/apache/variant-go/variant/pbconv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/types/known/structpb"
)

func TestToProto(t *testing.T) {
	v := variant.NewMap(map[string]variant.Value{
		"b":    variant.NewBool(true),
		"i":    variant.NewInt32(-4),
		"l":    variant.NewInt64(1 << 40),
		"d":    variant.NewDouble(0.25),
		"s":    variant.NewString("x"),
		"nan":  variant.NewDouble(math.NaN()),
		"null": variant.NewNull(),
		"list": variant.NewList(variant.NewString("y"), variant.NewNull()),
	})

	got := pbconv.ToProto(v).GetStructValue().GetFields()
	require.Len(t, got, 8)
	assert.True(t, got["b"].GetBoolValue())
	assert.Equal(t, float64(-4), got["i"].GetNumberValue())
	assert.Equal(t, float64(1<<40), got["l"].GetNumberValue())
	assert.Equal(t, 0.25, got["d"].GetNumberValue())
	assert.Equal(t, "x", got["s"].GetStringValue())
	assert.IsType(t, &structpb.Value_NullValue{}, got["nan"].GetKind())
	assert.IsType(t, &structpb.Value_NullValue{}, got["null"].GetKind())
	require.Len(t, got["list"].GetListValue().GetValues(), 2)
	assert.Equal(t, "y", got["list"].GetListValue().GetValues()[0].GetStringValue())
}

func TestFromProto(t *testing.T) {
	tests := []struct {
		name string
		pv   *structpb.Value
		want variant.Value
	}{
		{"nil", nil, variant.NewNull()},
		{"unset", &structpb.Value{}, variant.NewNull()},
		{"null", structpb.NewNullValue(), variant.NewNull()},
		{"bool", structpb.NewBoolValue(false), variant.NewBool(false)},
		{"whole number", structpb.NewNumberValue(3), variant.NewInt64(3)},
		{"negative whole number", structpb.NewNumberValue(-1 << 53), variant.NewInt64(-1 << 53)},
		{"beyond 2^53", structpb.NewNumberValue(1 << 60), variant.NewDouble(1 << 60)},
		{"fraction", structpb.NewNumberValue(1.5), variant.NewDouble(1.5)},
		{"string", structpb.NewStringValue("hi"), variant.NewString("hi")},
		{"list", structpb.NewListValue(&structpb.ListValue{Values: []*structpb.Value{
			structpb.NewNumberValue(1), structpb.NewStringValue("two"),
		}}), variant.NewList(variant.NewInt64(1), variant.NewString("two"))},
		{"struct", structpb.NewStructValue(&structpb.Struct{Fields: map[string]*structpb.Value{
			"a": structpb.NewBoolValue(true),
		}}), variant.NewMap(map[string]variant.Value{"a": variant.NewBool(true)})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := pbconv.FromProto(tt.pv)
			assert.Truef(t, tt.want.Equal(got), "got %s (%s)", got, got.Kind())
		})
	}
}

func TestRoundTrips(t *testing.T) {
	v := variant.FromJSONString(`{"id": 7, "tags": ["a", "b"], "dims": {"w": 1.25, "h": -3}, "ok": true, "none": null}`)
	require.Equal(t, variant.Map, v.Kind())

	assert.True(t, v.Equal(pbconv.FromProto(pbconv.ToProto(v))))

	text, err := pbconv.MarshalProtoJSON(v)
	require.NoError(t, err)
	assert.JSONEq(t, v.ToJSONString(), string(text))
	back, err := pbconv.UnmarshalProtoJSON(text)
	require.NoError(t, err)
	assert.True(t, v.Equal(back))

	wire, err := pbconv.Marshal(v)
	require.NoError(t, err)
	back, err = pbconv.Unmarshal(wire)
	require.NoError(t, err)
	assert.True(t, v.Equal(back))
}

func TestUnmarshalErrors(t *testing.T) {
	_, err := pbconv.UnmarshalProtoJSON([]byte("{"))
	assert.ErrorIs(t, err, variant.ErrInvalidJSON)

	_, err = pbconv.Unmarshal([]byte{0xFF, 0xFF})
	assert.Error(t, err)
}
