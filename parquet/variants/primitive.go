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
	"errors"
	"fmt"
	"io"
	"math"
	"math/big"
	"strings"
	"time"

	"github.com/apache/variant-go/variant"
	"github.com/google/uuid"
)

// Variant primitive type IDs.
type primitiveType int

const (
	primitiveInvalid            primitiveType = -1
	primitiveNull               primitiveType = 0
	primitiveTrue               primitiveType = 1
	primitiveFalse              primitiveType = 2
	primitiveInt8               primitiveType = 3
	primitiveInt16              primitiveType = 4
	primitiveInt32              primitiveType = 5
	primitiveInt64              primitiveType = 6
	primitiveDouble             primitiveType = 7
	primitiveDecimal4           primitiveType = 8
	primitiveDecimal8           primitiveType = 9
	primitiveDecimal16          primitiveType = 10
	primitiveDate               primitiveType = 11
	primitiveTimestampMicros    primitiveType = 12
	primitiveTimestampNTZMicros primitiveType = 13
	primitiveFloat              primitiveType = 14
	primitiveBinary             primitiveType = 15
	primitiveString             primitiveType = 16
	primitiveTimeNTZ            primitiveType = 17
	primitiveTimestampNanos     primitiveType = 18
	primitiveTimestampNTZNanos  primitiveType = 19
	primitiveUUID               primitiveType = 20
)

// Strings of up to this many bytes are written with the short string basic type.
const maxShortStringLen = 0x3F

// Largest scale a Variant decimal may carry.
const maxDecimalScale = 38

func (pt primitiveType) String() string {
	switch pt {
	case primitiveNull:
		return "Null"
	case primitiveFalse, primitiveTrue:
		return "Boolean"
	case primitiveInt8:
		return "Int8"
	case primitiveInt16:
		return "Int16"
	case primitiveInt32:
		return "Int32"
	case primitiveInt64:
		return "Int64"
	case primitiveDouble:
		return "Double"
	case primitiveDecimal4:
		return "Decimal4"
	case primitiveDecimal8:
		return "Decimal8"
	case primitiveDecimal16:
		return "Decimal16"
	case primitiveDate:
		return "Date"
	case primitiveTimestampMicros:
		return "Timestamp(micros)"
	case primitiveTimestampNTZMicros:
		return "TimestampNTZ(micros)"
	case primitiveFloat:
		return "Float"
	case primitiveBinary:
		return "Binary"
	case primitiveString:
		return "String"
	case primitiveTimeNTZ:
		return "TimeNTZ"
	case primitiveTimestampNanos:
		return "Timestamp(nanos)"
	case primitiveTimestampNTZNanos:
		return "TimestampNTZ(nanos)"
	case primitiveUUID:
		return "UUID"
	}
	return "Invalid"
}

func validPrimitiveValue(prim primitiveType) error {
	if prim < primitiveNull || prim > primitiveUUID {
		return fmt.Errorf("invalid primitive type: %d", prim)
	}
	return nil
}

func primitiveFromHeader(hdr byte) (primitiveType, error) {
	// Special case the basic type of Short String and call it a Primitive String.
	bt := BasicTypeFromHeader(hdr)
	if bt == BasicShortString {
		return primitiveString, nil
	} else if bt == BasicPrimitive {
		prim := primitiveType(hdr >> 2)
		if err := validPrimitiveValue(prim); err != nil {
			return primitiveInvalid, err
		}
		return prim, nil
	}
	return primitiveInvalid, fmt.Errorf("header is not of a primitive or short string basic type: %s", bt)
}

func primitiveHeader(prim primitiveType) (byte, error) {
	if err := validPrimitiveValue(prim); err != nil {
		return 0, err
	}
	hdr := byte(prim << 2)
	hdr |= byte(BasicPrimitive)
	return hdr, nil
}

// marshalPrimitive writes a scalar Value in the Variant primitive encoding into the
// provided writer, returning the number of bytes written.
func marshalPrimitive(v variant.Value, w io.Writer, opts MarshalOpts) (int, error) {
	switch v.Kind() {
	case variant.Null:
		return marshalNull(w), nil
	case variant.Bool:
		return marshalBoolean(v.AsBool(), w), nil
	case variant.Int32:
		if opts&MarshalCompactInts != 0 {
			return marshalInt(v.AsInt64(), w), nil
		}
		return marshalIntWidth(primitiveInt32, v.AsInt64(), 4, w), nil
	case variant.Int64:
		if opts&MarshalCompactInts != 0 {
			return marshalInt(v.AsInt64(), w), nil
		}
		return marshalIntWidth(primitiveInt64, v.AsInt64(), 8, w), nil
	case variant.Double:
		return marshalDouble(v.AsDouble(), w), nil
	case variant.String:
		str := v.AsString()
		if opts&MarshalUUIDStrings != 0 {
			if u, ok := canonicalUUID(str); ok {
				return marshalUUID(u, w), nil
			}
		}
		return marshalString(str, w), nil
	}
	return -1, fmt.Errorf("unsupported primitive kind %s", v.Kind())
}

func canonicalUUID(s string) (uuid.UUID, bool) {
	if len(s) != 36 {
		return uuid.UUID{}, false
	}
	u, err := uuid.Parse(s)
	if err != nil || u.String() != s {
		return uuid.UUID{}, false
	}
	return u, true
}

// unmarshalPrimitive decodes the primitive (or short string) starting at offset.
// Types without a matching kind are decoded as described on Unmarshal.
func unmarshalPrimitive(raw []byte, offset int) (variant.Value, error) {
	if err := checkBounds(raw, offset, offset); err != nil {
		return variant.Value{}, err
	}

	prim, err := primitiveFromHeader(raw[offset])
	if err != nil {
		return variant.Value{}, err
	}

	switch prim {
	case primitiveNull:
		return variant.NewNull(), nil
	case primitiveTrue, primitiveFalse:
		return variant.NewBool(prim == primitiveTrue), nil
	case primitiveInt8, primitiveInt16, primitiveInt32:
		iv, err := decodeIntPhysical(raw, offset)
		return variant.NewInt32(int32(iv)), err
	case primitiveInt64:
		iv, err := decodeIntPhysical(raw, offset)
		return variant.NewInt64(iv), err
	case primitiveFloat:
		fv, err := unmarshalFloat(raw, offset)
		return variant.NewDouble(float64(fv)), err
	case primitiveDouble:
		dv, err := unmarshalDouble(raw, offset)
		return variant.NewDouble(dv), err
	case primitiveDecimal4, primitiveDecimal8, primitiveDecimal16:
		str, err := unmarshalDecimal(raw, offset)
		return variant.NewString(str), err
	case primitiveDate:
		t, err := unmarshalDate(raw, offset)
		return variant.NewString(t.Format(time.DateOnly)), err
	case primitiveTimeNTZ:
		str, err := unmarshalTime(raw, offset)
		return variant.NewString(str), err
	case primitiveTimestampMicros, primitiveTimestampNanos:
		t, err := unmarshalTimestamp(raw, offset)
		return variant.NewString(t.Format(time.RFC3339Nano)), err
	case primitiveTimestampNTZMicros, primitiveTimestampNTZNanos:
		t, err := unmarshalTimestamp(raw, offset)
		return variant.NewString(t.Format("2006-01-02T15:04:05.999999999")), err
	case primitiveString:
		str, err := unmarshalString(raw, offset)
		return variant.NewString(str), err
	case primitiveBinary:
		b, err := unmarshalBinary(raw, offset)
		return variant.NewBytes(b), err
	case primitiveUUID:
		u, err := unmarshalUUID(raw, offset)
		if err != nil {
			return variant.Value{}, err
		}
		return variant.NewString(u.String()), nil
	}
	return variant.Value{}, fmt.Errorf("unknown primitive: %s", prim)
}

func marshalNull(w io.Writer) int {
	hdr, _ := primitiveHeader(primitiveNull)
	w.Write([]byte{hdr})
	return 1
}

func marshalBoolean(b bool, w io.Writer) int {
	var hdr byte
	if b {
		hdr, _ = primitiveHeader(primitiveTrue)
	} else {
		hdr, _ = primitiveHeader(primitiveFalse)
	}
	w.Write([]byte{hdr})
	return 1
}

func unmarshalBoolean(raw []byte, offset int) (bool, error) {
	prim, err := primitiveFromHeader(raw[offset])
	if err != nil {
		return false, err
	}
	return prim == primitiveTrue, nil
}

// Encodes an integer with the appropriate primitive header. This encodes the int
// into the minimal space necessary regardless of the width that's passed in (eg. an
// int64 of value 1 will be encoded into an int8)
func marshalInt(val int64, w io.Writer) int {
	switch {
	case val <= math.MaxInt8 && val >= math.MinInt8:
		return marshalIntWidth(primitiveInt8, val, 1, w)
	case val <= math.MaxInt16 && val >= math.MinInt16:
		return marshalIntWidth(primitiveInt16, val, 2, w)
	case val <= math.MaxInt32 && val >= math.MinInt32:
		return marshalIntWidth(primitiveInt32, val, 4, w)
	}
	return marshalIntWidth(primitiveInt64, val, 8, w)
}

func marshalIntWidth(prim primitiveType, val int64, size int, w io.Writer) int {
	hdr, _ := primitiveHeader(prim)
	w.Write([]byte{hdr})
	encodeNumber(val, size, w)
	return size + 1
}

func decodeIntPhysical(raw []byte, offset int) (int64, error) {
	typ, _ := primitiveFromHeader(raw[offset])
	var size int
	switch typ {
	case primitiveInt8:
		size = 1
	case primitiveInt16:
		size = 2
	case primitiveInt32, primitiveDate:
		size = 4
	case primitiveInt64:
		size = 8
	default:
		return -1, fmt.Errorf("not an integral type: %s", typ)
	}
	return readInt(raw, offset+1, size)
}

func marshalDouble(val float64, w io.Writer) int {
	buf := make([]byte, 9)
	hdr, _ := primitiveHeader(primitiveDouble)
	buf[0] = hdr
	bits := math.Float64bits(val)
	for i := range 8 {
		buf[i+1] = byte(bits)
		bits >>= 8
	}
	w.Write(buf)
	return 9
}

func unmarshalFloat(raw []byte, offset int) (float32, error) {
	v, err := readUint(raw, offset+1, 4)
	if err != nil {
		return -1, err
	}
	return math.Float32frombits(uint32(v)), nil
}

func unmarshalDouble(raw []byte, offset int) (float64, error) {
	v, err := readUint(raw, offset+1, 8)
	if err != nil {
		return -1, err
	}
	return math.Float64frombits(v), nil
}

func encodePrimitiveBytes(b []byte, w io.Writer) int {
	encodeNumber(int64(len(b)), 4, w)
	w.Write(b)
	return len(b) + 4
}

func marshalString(str string, w io.Writer) int {
	str = strings.ToValidUTF8(str, "\uFFFD")

	// Short strings hold their length in the header and save the four byte length.
	strlen := len(str)
	if strlen <= maxShortStringLen {
		hdr := byte(strlen << 2)
		hdr |= byte(BasicShortString)
		w.Write([]byte{hdr})
		io.WriteString(w, str)
		return 1 + strlen
	}

	// Otherwise, encode this as a basic string.
	hdr, _ := primitiveHeader(primitiveString)
	w.Write([]byte{hdr})
	return 1 + encodePrimitiveBytes([]byte(str), w)
}

func marshalUUID(u uuid.UUID, w io.Writer) int {
	hdr, _ := primitiveHeader(primitiveUUID)
	w.Write([]byte{hdr})
	w.Write(u[:])
	return 17
}

func unmarshalUUID(raw []byte, offset int) (uuid.UUID, error) {
	if err := checkBounds(raw, offset, offset+17); err != nil {
		return uuid.UUID{}, err
	}
	return uuid.FromBytes(raw[offset+1 : offset+17])
}

func unmarshalString(raw []byte, offset int) (string, error) {
	// Determine if the string is a short string, or a basic string.
	maxPos := len(raw)
	if offset >= maxPos {
		return "", fmt.Errorf("offset is out of bounds: trying to access position %d, max position is %d", offset, maxPos)
	}
	bt := BasicTypeFromHeader(raw[offset])

	if bt == BasicShortString {
		l := int(raw[offset] >> 2)
		endIdx := 1 + l + offset
		if endIdx > maxPos {
			return "", fmt.Errorf("end index is out of bounds: trying to access position %d, max position is %d", endIdx, maxPos)
		}
		return string(raw[offset+1 : endIdx]), nil
	}

	b, err := getBytes(raw, offset+1)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func getBytes(raw []byte, offset int) ([]byte, error) {
	l, err := readUint(raw, offset, 4)
	if err != nil {
		return nil, fmt.Errorf("could not read length: %w", err)
	}
	maxIdx := offset + 4 + int(l)
	if len(raw) < maxIdx {
		return nil, errors.New("bytes are out of bounds")
	}
	return raw[offset+4 : maxIdx], nil
}

func unmarshalBinary(raw []byte, offset int) ([]byte, error) {
	return getBytes(raw, offset+1)
}

// unmarshalDecimal returns the text of a decimal: a scale byte followed by the
// unscaled value as a little-endian two's complement integer of 4, 8 or 16
// bytes.
func unmarshalDecimal(raw []byte, offset int) (string, error) {
	typ, _ := primitiveFromHeader(raw[offset])
	size := 16
	switch typ {
	case primitiveDecimal4:
		size = 4
	case primitiveDecimal8:
		size = 8
	}
	if err := checkBounds(raw, offset, offset+2+size); err != nil {
		return "", err
	}
	scale := int(raw[offset+1])
	if scale > maxDecimalScale {
		return "", fmt.Errorf("decimal scale %d exceeds %d", scale, maxDecimalScale)
	}

	unscaled := new(big.Int)
	if size < 16 {
		iv, err := readInt(raw, offset+2, size)
		if err != nil {
			return "", err
		}
		unscaled.SetInt64(iv)
	} else {
		le := raw[offset+2 : offset+2+size]
		be := make([]byte, size)
		for i, b := range le {
			be[size-1-i] = b
		}
		unscaled.SetBytes(be)
		if be[0]&0x80 != 0 {
			unscaled.Sub(unscaled, new(big.Int).Lsh(big.NewInt(1), 128))
		}
	}
	return formatDecimal(unscaled, scale), nil
}

func formatDecimal(unscaled *big.Int, scale int) string {
	digits := new(big.Int).Abs(unscaled).String()
	if scale > 0 {
		if pad := scale + 1 - len(digits); pad > 0 {
			digits = strings.Repeat("0", pad) + digits
		}
		digits = digits[:len(digits)-scale] + "." + digits[len(digits)-scale:]
	}
	if unscaled.Sign() < 0 {
		return "-" + digits
	}
	return digits
}

// Dates are stored as the signed number of days since the Unix epoch.
func unmarshalDate(raw []byte, offset int) (time.Time, error) {
	days, err := readInt(raw, offset+1, 4)
	if err != nil {
		return time.Time{}, err
	}
	return time.Unix(0, 0).UTC().AddDate(0, 0, int(days)), nil
}

// Times are stored as microseconds since midnight, without a time zone.
func unmarshalTime(raw []byte, offset int) (string, error) {
	us, err := readInt(raw, offset+1, 8)
	if err != nil {
		return "", err
	}
	if us < 0 || us >= int64(24*time.Hour/time.Microsecond) {
		return "", fmt.Errorf("time of day out of range: %d microseconds", us)
	}
	return time.Unix(0, 0).UTC().Add(time.Duration(us) * time.Microsecond).Format("15:04:05.999999"), nil
}

// Timestamps are stored as the signed number of micro or nanoseconds since the
// Unix epoch. The result is always in UTC.
func unmarshalTimestamp(raw []byte, offset int) (time.Time, error) {
	typ, _ := primitiveFromHeader(raw[offset])
	ts, err := readInt(raw, offset+1, 8)
	if err != nil {
		return time.Time{}, err
	}
	if typ == primitiveTimestampMicros || typ == primitiveTimestampNTZMicros {
		return time.UnixMicro(ts).UTC(), nil
	}
	return time.Unix(0, ts).UTC(), nil
}
