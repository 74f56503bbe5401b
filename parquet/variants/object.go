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
	"bytes"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/apache/variant-go/variant"
)

// Container to keep track of the metadata for a given element in an object. This is mainly
// used so that it's possible to sort by key during build time (fields must be ordered by key name) and
// not need to go doing a bunch of lookups to find field IDs and offsets.
type objectKey struct {
	fieldID int
	offset  int
	key     string
}

type objectBuilder struct {
	w          io.Writer
	buf        bytes.Buffer
	objKeys    []objectKey
	fieldIDs   map[int]struct{}
	maxFieldID int
	nextOffset int
	doneCB     doneCB
	mdb        *metadataBuilder
	opts       MarshalOpts
	built      bool
}

var _ ObjectBuilder = (*objectBuilder)(nil)

func newObjectBuilder(w io.Writer, mdb *metadataBuilder, doneCB doneCB, opts MarshalOpts) *objectBuilder {
	if mdb == nil {
		mdb = newMetadataBuilder()
	}
	return &objectBuilder{
		w:        w,
		mdb:      mdb,
		doneCB:   doneCB,
		opts:     opts,
		fieldIDs: make(map[int]struct{}),
	}
}

// Write marshals the provided value into the appropriate Variant type and adds it to this object with
// the provided key. Keys must be unique per object (though nested objects may share the same key).
func (o *objectBuilder) Write(key string, val variant.Value) error {
	if err := o.checkKey(key); err != nil {
		return err
	}
	return writeCommon(val, &o.buf, o.mdb, func(size int) {
		o.record(key, size)
	}, o.opts)
}

// Keys within a given object must be unique
func (o *objectBuilder) checkKey(key string) error {
	if o.built {
		return errAlreadyBuilt
	}
	fieldID, ok := o.mdb.KeyID(key)
	if ok {
		if _, ok := o.fieldIDs[fieldID]; ok {
			return fmt.Errorf("multiple insertion of key %q in object", key)
		}
	}
	return nil
}

// Array returns a new ArrayBuilder associated with this object. The marshaled array will
// not be part of the object until the returned ArrayBuilder's Build method is called.
func (o *objectBuilder) Array(key string) (ArrayBuilder, error) {
	if err := o.checkKey(key); err != nil {
		return nil, err
	}
	ab := newArrayBuilder(&o.buf, o.mdb, func(size int) {
		o.record(key, size)
	}, o.opts)
	return ab, nil
}

// Object returns a new ObjectBuilder associated with this object. The marshaled object will
// not be part of this object until the returned ObjectBuilder's Build method is called.
//
// NB. A nested object can contain a key that also exists in the parent object.
func (o *objectBuilder) Object(key string) (ObjectBuilder, error) {
	if err := o.checkKey(key); err != nil {
		return nil, err
	}
	ob := newObjectBuilder(&o.buf, o.mdb, func(size int) {
		o.record(key, size)
	}, o.opts)
	return ob, nil
}

// Bookkeeping to record information about an elements key, offset and field ID,
// and to keep a running track of the max field ID seen.
func (o *objectBuilder) record(key string, size int) {
	currOffset := o.nextOffset
	o.nextOffset += size

	fieldID := o.mdb.Add(key)
	o.objKeys = append(o.objKeys, objectKey{
		fieldID: fieldID,
		offset:  currOffset,
		key:     strings.ToValidUTF8(key, "\uFFFD"),
	})
	o.fieldIDs[fieldID] = struct{}{}
	o.maxFieldID = max(o.maxFieldID, fieldID)
}

// Build writes the marshaled object to the builders io.Writer. This prepends serialized
// metadata about the object (ie. its header, number of elements, sorted field IDs, and
// offsets) to the running data buffer.
func (o *objectBuilder) Build() error {
	if o.built {
		return errAlreadyBuilt
	}
	o.built = true

	numItems := len(o.objKeys)
	numItemsSize := 1
	if isLarge(numItems) {
		numItemsSize = 4
	}
	offsetSize := fieldOffsetSize(int32(o.nextOffset))
	fieldIDSize := fieldOffsetSize(int32(o.maxFieldID))

	// Fields are listed in key order, while their data stays in insertion order.
	slices.SortFunc(o.objKeys, func(a, b objectKey) int {
		return strings.Compare(a.key, b.key)
	})

	// Preallocate a buffer for the header, number of items, field IDs, and field offsets
	serializedFieldIDSize := fieldIDSize * numItems
	serializedFieldOffsetSize := offsetSize * (numItems + 1)

	serializedDataBuf := bytes.NewBuffer(make([]byte, 0, 1+numItemsSize+serializedFieldIDSize+serializedFieldOffsetSize))
	serializedDataBuf.WriteByte(o.header(isLarge(numItems), fieldIDSize, offsetSize))

	encodeNumber(int64(numItems), numItemsSize, serializedDataBuf)
	for _, k := range o.objKeys {
		encodeNumber(int64(k.fieldID), fieldIDSize, serializedDataBuf)
	}
	for _, k := range o.objKeys {
		encodeNumber(int64(k.offset), offsetSize, serializedDataBuf)
	}
	encodeNumber(int64(o.nextOffset), offsetSize, serializedDataBuf)

	hdrSize, err := o.w.Write(serializedDataBuf.Bytes())
	if err != nil {
		return err
	}
	dataSize, err := o.w.Write(o.buf.Bytes())
	if err != nil {
		return err
	}

	if o.doneCB != nil {
		o.doneCB(hdrSize + dataSize)
	}
	return nil
}

func (o *objectBuilder) header(large bool, fieldIDSize, fieldOffsetSize int) byte {
	// Header is one byte: ABCCDDEE
	//  * A: Unused
	//  * B: Is Large: whether there are more than 255 elements in this object or not.
	//  * C: Field ID Size Minus One: the number of bytes (minus one) used to encode each Field ID
	//  * D: Field Offset Size Minus One: the number of bytes (minus one) used to encode each Field Offset
	//  * E: 0x02: the identifier of the Object basic type
	hdr := byte(fieldOffsetSize - 1)
	hdr |= byte((fieldIDSize - 1) << 2)
	if large {
		hdr |= byte(1 << 4)
	}

	// Basic type is the lower two bits of the header. Shift the Object specific bits over 2.
	hdr <<= 2
	hdr |= byte(BasicObject)
	return hdr
}

type objectData struct {
	size            int
	numElements     int
	firstFieldIDIdx int
	firstOffsetIdx  int
	firstDataIdx    int
	fieldIDWidth    int
	offsetWidth     int
}

// Parses object data from a marshaled object (where the different encoded sections start,
// plus size in bytes and number of elements), plus ensures that the entire object is present
// in the raw buffer.
func getObjectData(raw []byte, offset int) (*objectData, error) {
	if err := checkBounds(raw, offset, offset); err != nil {
		return nil, err
	}

	hdr := raw[offset]
	if bt := BasicTypeFromHeader(hdr); bt != BasicObject {
		return nil, fmt.Errorf("not an object: %s", bt)
	}

	// Get the size of all encoded metadata fields. Bitshift by two to expose the 5 raw value header bits.
	hdr >>= 2

	offsetWidth := int(hdr&0x03) + 1
	fieldIDWidth := int((hdr>>2)&0x03) + 1

	numElementsWidth := 1
	if hdr&0x10 != 0 {
		numElementsWidth = 4
	}

	numElements, err := readUint(raw, offset+1, numElementsWidth)
	if err != nil {
		return nil, fmt.Errorf("could not get number of elements: %w", err)
	}
	if numElements > uint64(len(raw)) {
		return nil, fmt.Errorf("object of %d elements cannot fit in %d bytes", numElements, len(raw))
	}

	firstFieldIDIdx := offset + 1 + numElementsWidth // Header plus width of # of elements
	firstOffsetIdx := firstFieldIDIdx + int(numElements)*fieldIDWidth
	firstDataIdx := firstOffsetIdx + int(numElements+1)*offsetWidth
	lastDataOffset, err := readUint(raw, firstDataIdx-offsetWidth, offsetWidth)
	if err != nil {
		return nil, fmt.Errorf("could not read last offset: %w", err)
	}
	lastDataIdx := firstDataIdx + int(lastDataOffset)

	// Also do some bounds checking to ensure that the entire object is represented in the raw buffer.
	if err := checkBounds(raw, offset, lastDataIdx); err != nil {
		return nil, fmt.Errorf("object is out of bounds: %w", err)
	}
	return &objectData{
		size:            lastDataIdx - offset,
		numElements:     int(numElements),
		firstFieldIDIdx: firstFieldIDIdx,
		firstOffsetIdx:  firstOffsetIdx,
		firstDataIdx:    firstDataIdx,
		fieldIDWidth:    fieldIDWidth,
		offsetWidth:     offsetWidth,
	}, nil
}

// field returns the key of the i-th field and the position of its value in raw.
func (d *objectData) field(raw []byte, md *decodedMetadata, i int) (string, int, error) {
	fieldID, err := readUint(raw, d.firstFieldIDIdx+d.fieldIDWidth*i, d.fieldIDWidth)
	if err != nil {
		return "", -1, err
	}
	key, ok := md.At(int(fieldID))
	if !ok {
		return "", -1, fmt.Errorf("key ID %d not present in metadata dictionary", fieldID)
	}
	elemOffset, err := readUint(raw, d.firstOffsetIdx+d.offsetWidth*i, d.offsetWidth)
	if err != nil {
		return "", -1, err
	}
	dataIdx := int(elemOffset) + d.firstDataIdx
	if err := checkBounds(raw, dataIdx, dataIdx); err != nil {
		return "", -1, err
	}
	return key, dataIdx, nil
}

// find returns the position of the value stored under key, relying on fields
// being listed in key order.
func (d *objectData) find(raw []byte, md *decodedMetadata, key string) (int, bool, error) {
	lo, hi := 0, d.numElements
	for lo < hi {
		mid := int(uint(lo+hi) >> 1)
		k, dataIdx, err := d.field(raw, md, mid)
		if err != nil {
			return -1, false, err
		}
		switch c := strings.Compare(k, key); {
		case c == 0:
			return dataIdx, true, nil
		case c < 0:
			lo = mid + 1
		default:
			hi = mid
		}
	}
	return -1, false, nil
}

// Unmarshals a Variant object into a Map.
func unmarshalObject(raw []byte, md *decodedMetadata, offset int) (variant.Value, error) {
	data, err := getObjectData(raw, offset)
	if err != nil {
		return variant.Value{}, err
	}

	obj := make(map[string]variant.Value, data.numElements)
	for i := range data.numElements {
		key, dataIdx, err := data.field(raw, md, i)
		if err != nil {
			return variant.Value{}, err
		}
		if obj[key], err = unmarshalCommon(raw, md, dataIdx); err != nil {
			return variant.Value{}, fmt.Errorf("field %q: %w", key, err)
		}
	}
	return variant.NewMap(obj), nil
}
