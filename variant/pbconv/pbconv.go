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

// Package pbconv converts Values to and from google.protobuf.Value messages.
//
// Protobuf has a single number type, a double. Integers travel as doubles, and
// whole numbers within ±2^53 come back as Int64.
package pbconv

import (
	"fmt"
	"math"

	"github.com/apache/variant-go/variant"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

// maxExactInt is the largest magnitude for which every integer has an exact
// double representation.
const maxExactInt = 1 << 53

// ToProto converts v to a structpb.Value. Doubles that JSON cannot represent
// (NaN and the infinities) become null values, as in the JSON bridge.
func ToProto(v variant.Value) *structpb.Value {
	switch v.Kind() {
	case variant.Bool:
		return structpb.NewBoolValue(v.AsBool())
	case variant.Int32, variant.Int64:
		return structpb.NewNumberValue(float64(v.AsInt64()))
	case variant.Double:
		f := v.AsDouble()
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return structpb.NewNullValue()
		}
		return structpb.NewNumberValue(f)
	case variant.String:
		return structpb.NewStringValue(v.AsString())
	case variant.List:
		items := make([]*structpb.Value, 0, v.Size())
		for _, item := range v.Elems() {
			items = append(items, ToProto(item))
		}
		return structpb.NewListValue(&structpb.ListValue{Values: items})
	case variant.Map:
		fields := make(map[string]*structpb.Value, v.Size())
		for k, item := range v.Fields() {
			fields[k] = ToProto(item)
		}
		return structpb.NewStructValue(&structpb.Struct{Fields: fields})
	}
	return structpb.NewNullValue()
}

// FromProto converts a structpb.Value to a Value. A nil message, or one with no
// kind set, is Null.
func FromProto(pv *structpb.Value) variant.Value {
	switch k := pv.GetKind().(type) {
	case *structpb.Value_BoolValue:
		return variant.NewBool(k.BoolValue)
	case *structpb.Value_NumberValue:
		f := k.NumberValue
		if f == math.Trunc(f) && math.Abs(f) <= maxExactInt {
			return variant.NewInt64(int64(f))
		}
		return variant.NewDouble(f)
	case *structpb.Value_StringValue:
		return variant.NewString(k.StringValue)
	case *structpb.Value_ListValue:
		items := make([]variant.Value, 0, len(k.ListValue.GetValues()))
		for _, item := range k.ListValue.GetValues() {
			items = append(items, FromProto(item))
		}
		return variant.NewList(items...)
	case *structpb.Value_StructValue:
		fields := make(map[string]variant.Value, len(k.StructValue.GetFields()))
		for key, item := range k.StructValue.GetFields() {
			fields[key] = FromProto(item)
		}
		return variant.NewMap(fields)
	}
	return variant.Value{}
}

// MarshalProtoJSON returns the protobuf JSON encoding of v.
func MarshalProtoJSON(v variant.Value) ([]byte, error) {
	out, err := protojson.Marshal(ToProto(v))
	if err != nil {
		return nil, fmt.Errorf("pbconv: %w", err)
	}
	return out, nil
}

// UnmarshalProtoJSON parses the protobuf JSON encoding of a google.protobuf.Value.
func UnmarshalProtoJSON(data []byte) (variant.Value, error) {
	var pv structpb.Value
	if err := protojson.Unmarshal(data, &pv); err != nil {
		return variant.Value{}, fmt.Errorf("%w: %w", variant.ErrInvalidJSON, err)
	}
	return FromProto(&pv), nil
}

// Marshal returns the protobuf wire encoding of v as a google.protobuf.Value.
func Marshal(v variant.Value) ([]byte, error) {
	return proto.MarshalOptions{Deterministic: true}.Marshal(ToProto(v))
}

// Unmarshal decodes the protobuf wire encoding of a google.protobuf.Value.
func Unmarshal(data []byte) (variant.Value, error) {
	var pv structpb.Value
	if err := proto.Unmarshal(data, &pv); err != nil {
		return variant.Value{}, fmt.Errorf("pbconv: %w", err)
	}
	return FromProto(&pv), nil
}
