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
	"errors"
	"fmt"
	"strings"
)

const (
	versionMask = 0x0F
	sortedMask  = 0x10
	offsetMask  = 0xC0

	version = 0x01
)

type decodedMetadata struct {
	keys   []string
	sorted bool
}

func (d *decodedMetadata) At(i int) (string, bool) {
	if i < 0 || i >= len(d.keys) {
		return "", false
	}
	return d.keys[i], true
}

func decodeMetadata(raw []byte) (*decodedMetadata, error) {
	if len(raw) == 0 {
		return nil, errors.New("invalid metadata")
	}

	// Ensure the version is something recognizable.
	if ver := raw[0] & versionMask; ver != version {
		return nil, fmt.Errorf("invalid version (got %d, want %d)", ver, version)
	}

	// Get the offset size.
	offsetSize := int((raw[0]&offsetMask)>>6) + 1

	// Get the number of elements in the dictionary.
	elems, err := readUint(raw, 1, offsetSize)
	if err != nil {
		return nil, err
	}
	// Every key needs at least one offset, which bounds how many can fit.
	if elems > uint64(len(raw)) {
		return nil, fmt.Errorf("dictionary size %d exceeds metadata length %d", elems, len(raw))
	}

	md := &decodedMetadata{sorted: raw[0]&sortedMask != 0}
	if elems > 0 {
		md.keys = make([]string, int(elems))
		// Offset here is the first index of the offset list, which is the
		// first element after the header and the size.
		offset := offsetSize + 1
		for i := range int(elems) {
			key, err := readNthItem(raw, offset, i, offsetSize, int(elems))
			if err != nil {
				return nil, err
			}
			md.keys[i] = string(key)
		}
	}
	return md, nil
}

type metadataBuilder struct {
	keyToIdx map[string]int
	utf8Keys [][]byte
	keyBytes int
	sorted   bool
}

func newMetadataBuilder() *metadataBuilder {
	return &metadataBuilder{
		keyToIdx: make(map[string]int),
	}
}

func (m *metadataBuilder) Build() []byte {
	// Build the header.
	hdr := byte(version)
	if m.sorted {
		hdr |= sortedMask
	}
	offsetSize := m.calculateOffsetBytes()
	hdr |= byte(offsetSize-1) << 6

	mdSize := 1 + offsetSize*(len(m.utf8Keys)+2) + m.keyBytes

	buf := bytes.NewBuffer(make([]byte, 0, mdSize))
	buf.WriteByte(hdr)

	// Write the number of elements in the dictionary.
	encodeNumber(int64(len(m.utf8Keys)), offsetSize, buf)

	// Write all of the offsets.
	var currOffset int64
	for _, k := range m.utf8Keys {
		encodeNumber(currOffset, offsetSize, buf)
		currOffset += int64(len(k))
	}
	encodeNumber(currOffset, offsetSize, buf)

	// Write all of the keys.
	for _, k := range m.utf8Keys {
		buf.Write(k)
	}

	return buf.Bytes()
}

func (m *metadataBuilder) calculateOffsetBytes() int {
	maxNum := m.keyBytes + 1
	if dictLen := len(m.utf8Keys); dictLen > maxNum {
		maxNum = dictLen
	}
	return fieldOffsetSize(int32(maxNum))
}

// Add adds a key to the metadata dictionary if not already present, and returns the index
// that the key is present.
func (m *metadataBuilder) Add(key string) int {
	// Key already present, nothing to do.
	if idx, ok := m.keyToIdx[key]; ok {
		return idx
	}

	// Ensure the passed in string is in UTF8 form (replacing invalid sequences with
	// a replacement character), and append to the key slice.
	keyBytes := []byte(strings.ToValidUTF8(key, "\uFFFD"))
	idx := len(m.utf8Keys)
	m.keyToIdx[key] = idx
	m.utf8Keys = append(m.utf8Keys, keyBytes)
	m.keyBytes += len(keyBytes)

	return idx
}

// addSorted seeds an empty dictionary with keys in sorted order. Keys added
// later still get appended, so this must see every key that will be used. It
// leaves the dictionary unsorted if the keys cannot be ordered.
func (m *metadataBuilder) addSorted(keys []string) {
	if len(m.utf8Keys) > 0 {
		return
	}
	sorted, ok := sortedKeys(keys)
	if !ok {
		return
	}
	for _, k := range sorted {
		m.Add(k)
	}
	m.sorted = true
}

func (m *metadataBuilder) KeyID(key string) (int, bool) {
	id, ok := m.keyToIdx[key]
	return id, ok
}
