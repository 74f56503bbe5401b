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

	"github.com/apache/variant-go/variant"
)

type arrayBuilder struct {
	w          io.Writer
	buf        bytes.Buffer
	numItems   int
	offsets    []int32
	nextOffset int32
	doneCB     doneCB
	mdb        *metadataBuilder
	opts       MarshalOpts
	built      bool
}

func newArrayBuilder(w io.Writer, mdb *metadataBuilder, doneCB doneCB, opts MarshalOpts) *arrayBuilder {
	if mdb == nil {
		mdb = newMetadataBuilder()
	}
	return &arrayBuilder{
		w:      w,
		doneCB: doneCB,
		mdb:    mdb,
		opts:   opts,
	}
}

var _ ArrayBuilder = (*arrayBuilder)(nil)

// Write marshals the provided value into the appropriate Variant type and appends it to this array.
func (a *arrayBuilder) Write(val variant.Value) error {
	if a.built {
		return errAlreadyBuilt
	}
	return writeCommon(val, &a.buf, a.mdb, a.recordOffset, a.opts)
}

func (a *arrayBuilder) recordOffset(size int) {
	a.numItems++
	a.offsets = append(a.offsets, a.nextOffset)
	a.nextOffset += int32(size)
}

// Array returns a new ArrayBuilder associated with this array. The marshaled array
// will not be part of the array until the returned ArrayBuilder's Build method is called.
func (a *arrayBuilder) Array() ArrayBuilder {
	return newArrayBuilder(&a.buf, a.mdb, a.recordOffset, a.opts)
}

// Object returns a new ObjectBuilder associated with this array. The marshaled object
// will not be part of the array until the returned ObjectBuilder's Build() method is called.
func (a *arrayBuilder) Object() ObjectBuilder {
	return newObjectBuilder(&a.buf, a.mdb, a.recordOffset, a.opts)
}

// Build marshals an Array in Variant format and writes its header and value data to the
// underlying Writer. This prepends serialized metadata about the array (ie. its header, number
// of elements, and element offsets) to the running data buffer.
func (a *arrayBuilder) Build() error {
	if a.built {
		return errAlreadyBuilt
	}
	a.built = true

	large := isLarge(a.numItems)
	offsetSize := fieldOffsetSize(a.nextOffset)

	// Preallocate a buffer for the header, number of items, and the field offsets.
	numItemsSize := 1
	if large {
		numItemsSize = 4
	}
	serializedOffsetSize := (a.numItems + 1) * offsetSize
	serializedDataBuf := bytes.NewBuffer(make([]byte, 0, 1+numItemsSize+serializedOffsetSize))

	// Write the header and number of elements in the array
	serializedDataBuf.WriteByte(a.header(large, offsetSize))
	encodeNumber(int64(a.numItems), numItemsSize, serializedDataBuf)

	// Write all of the field offsets, including the final offset which is the first index after all
	// of the array's elements.
	for _, o := range a.offsets {
		encodeNumber(int64(o), offsetSize, serializedDataBuf)
	}
	encodeNumber(int64(a.nextOffset), offsetSize, serializedDataBuf)

	hdrSize, err := a.w.Write(serializedDataBuf.Bytes())
	if err != nil {
		return err
	}
	dataSize, err := a.w.Write(a.buf.Bytes())
	if err != nil {
		return err
	}

	if a.doneCB != nil {
		a.doneCB(hdrSize + dataSize)
	}
	return nil
}

func (a *arrayBuilder) header(large bool, offsetSize int) byte {
	// Header is one byte: AAABCCDD
	//  * A: Unused
	//  * B: Is Large: whether there are more than 255 elements in this array or not
	//  * C: Field Offset Size Minus One: the number of bytes (minus one) used to encode each Field Offset
	//  * D: 0x03: the identifier of the Array basic type
	hdr := byte(offsetSize - 1)
	if large {
		hdr |= (1 << 2)
	}
	// Shift the value header over 2 to allow for the lower to bits to
	// denote the array basic type
	hdr <<= 2
	hdr |= byte(BasicArray)
	return hdr
}

type arrayData struct {
	size           int
	numElements    int
	firstOffsetIdx int
	firstDataIdx   int
	offsetWidth    int
}

// Parses array data from a marshaled object (where the different encoded sections start, plus size in bytes
// and number of elements). This also ensures that the entire array exists in the raw buffer.
func getArrayData(raw []byte, offset int) (*arrayData, error) {
	if err := checkBounds(raw, offset, offset); err != nil {
		return nil, err
	}
	hdr := raw[offset]
	if bt := BasicTypeFromHeader(hdr); bt != BasicArray {
		return nil, fmt.Errorf("not an array: %s", bt)
	}

	// Get the size of all encoded metadata fields. Bitshift by two to expose the 5 raw value header bits.
	hdr >>= 2

	offsetWidth := int(hdr&0x03) + 1
	numElementsWidth := 1
	if hdr&0x04 != 0 {
		numElementsWidth = 4
	}

	numElements, err := readUint(raw, offset+1, numElementsWidth)
	if err != nil {
		return nil, fmt.Errorf("could not get number of elements: %w", err)
	}
	if numElements > uint64(len(raw)) {
		return nil, fmt.Errorf("array of %d elements cannot fit in %d bytes", numElements, len(raw))
	}
	firstOffsetIdx := offset + 1 + numElementsWidth // Header plus width of # of elements
	lastOffsetIdx := firstOffsetIdx + int(numElements)*offsetWidth
	firstDataIdx := lastOffsetIdx + offsetWidth

	// Do some bounds checking to ensure that the entire array is present in the raw buffer.
	lastDataOffset, err := readUint(raw, lastOffsetIdx, offsetWidth)
	if err != nil {
		return nil, fmt.Errorf("could not read last offset: %w", err)
	}
	lastDataIdx := firstDataIdx + int(lastDataOffset)
	if err := checkBounds(raw, offset, lastDataIdx); err != nil {
		return nil, fmt.Errorf("array is out of bounds: %w", err)
	}

	return &arrayData{
		size:           lastDataIdx - offset,
		numElements:    int(numElements),
		firstOffsetIdx: firstOffsetIdx,
		firstDataIdx:   firstDataIdx,
		offsetWidth:    offsetWidth,
	}, nil
}

// elemIdx returns the position in raw of the i-th element.
func (d *arrayData) elemIdx(raw []byte, i int) (int, error) {
	elemOffset, err := readUint(raw, d.firstOffsetIdx+d.offsetWidth*i, d.offsetWidth)
	if err != nil {
		return -1, err
	}
	dataIdx := int(elemOffset) + d.firstDataIdx
	if err := checkBounds(raw, dataIdx, dataIdx); err != nil {
		return -1, err
	}
	return dataIdx, nil
}

// Unmarshals a Variant array into a List.
func unmarshalArray(raw []byte, md *decodedMetadata, offset int) (variant.Value, error) {
	data, err := getArrayData(raw, offset)
	if err != nil {
		return variant.Value{}, err
	}

	items := make([]variant.Value, data.numElements)
	for i := range data.numElements {
		dataIdx, err := data.elemIdx(raw, i)
		if err != nil {
			return variant.Value{}, err
		}
		if items[i], err = unmarshalCommon(raw, md, dataIdx); err != nil {
			return variant.Value{}, err
		}
	}
	return variant.NewList(items...), nil
}
