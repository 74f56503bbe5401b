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

package variants

import (
	"fmt"

	"github.com/apache/variant-go/variant"
)

// Unmarshal decodes an encoded Variant into a variant.Value. The mapping of
// Variant types to kinds is:
//   - Null: Null
//   - Boolean: Bool
//   - Int8, Int16, Int32: Int32
//   - Int64: Int64
//   - Float, Double: Double
//   - String, Binary: String
//   - UUID: String in canonical form
//   - Date: String as YYYY-MM-DD
//   - Time: String as HH:MM:SS with fractional seconds
//   - Timestamp (all varieties): String in RFC 3339 form, UTC for the
//     timestamps with a time zone and without offset for the others
//   - Decimal4, Decimal8, Decimal16: String holding the decimal text
//   - Array: List
//   - Object: Map
func Unmarshal(encoded *MarshaledVariant) (variant.Value, error) {
	md, err := decodeMetadata(encoded.Metadata)
	if err != nil {
		return variant.Value{}, fmt.Errorf("could not decode metadata: %w", err)
	}
	return unmarshalCommon(encoded.Value, md, 0)
}

// Get decodes only the element found at p, without decoding the rest of the
// Variant. Like variant.Value.Get it returns Null when any step of the path is
// missing or lands on the wrong basic type. Errors are only returned for
// malformed input.
func Get(encoded *MarshaledVariant, p variant.Path) (variant.Value, error) {
	md, err := decodeMetadata(encoded.Metadata)
	if err != nil {
		return variant.Value{}, fmt.Errorf("could not decode metadata: %w", err)
	}

	raw, offset := encoded.Value, 0
	for _, seg := range p {
		if err := checkBounds(raw, offset, offset); err != nil {
			return variant.Value{}, err
		}
		bt := BasicTypeFromHeader(raw[offset])
		switch {
		case seg.IsKey() && bt == BasicObject:
			data, err := getObjectData(raw, offset)
			if err != nil {
				return variant.Value{}, err
			}
			idx, ok, err := data.find(raw, md, seg.Key())
			if err != nil || !ok {
				return variant.Value{}, err
			}
			offset = idx
		case !seg.IsKey() && bt == BasicArray:
			data, err := getArrayData(raw, offset)
			if err != nil {
				return variant.Value{}, err
			}
			if seg.Index() < 0 || seg.Index() >= data.numElements {
				return variant.Value{}, nil
			}
			if offset, err = data.elemIdx(raw, seg.Index()); err != nil {
				return variant.Value{}, err
			}
		default:
			return variant.Value{}, nil
		}
	}
	return unmarshalCommon(raw, md, offset)
}

func unmarshalCommon(raw []byte, md *decodedMetadata, offset int) (variant.Value, error) {
	if err := checkBounds(raw, offset, offset); err != nil {
		return variant.Value{}, err
	}
	switch bt := BasicTypeFromHeader(raw[offset]); bt {
	case BasicArray:
		v, err := unmarshalArray(raw, md, offset)
		if err != nil {
			return v, fmt.Errorf("could not decode array: %w", err)
		}
		return v, nil
	case BasicObject:
		v, err := unmarshalObject(raw, md, offset)
		if err != nil {
			return v, fmt.Errorf("could not decode object: %w", err)
		}
		return v, nil
	}
	v, err := unmarshalPrimitive(raw, offset)
	if err != nil {
		return v, fmt.Errorf("could not decode primitive: %w", err)
	}
	return v, nil
}
