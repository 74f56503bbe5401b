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
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestReadUint(t *testing.T) {
	cases := []struct {
		name    string
		raw     []byte
		offset  int
		size    int
		want    uint64
		wantErr bool
	}{
		{
			name:   "Read uint8, offset=1",
			raw:    []byte{0x00, 0x05},
			offset: 1,
			size:   1,
			want:   5,
		},
		{
			name:   "Read uint16, offset=1",
			raw:    []byte{0x00, 0x00, 0x01}, // 256
			offset: 1,
			size:   2,
			want:   256,
		},
		{
			name:   "Read uint24",
			raw:    []byte{0x00, 0x00, 0x01}, // 65536
			offset: 0,
			size:   3,
			want:   65536,
		},
		{
			name:   "Read uint64, offset=1",
			raw:    []byte{0x00, 0x00, 0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00}, // 4294967296
			offset: 1,
			size:   8,
			want:   4294967296,
		},
		{
			name:    "Out of bounds",
			raw:     []byte{0x00, 0x00},
			offset:  1,
			size:    2,
			wantErr: true,
		},
		{
			name:    "Negative offset",
			raw:     []byte{0x00, 0x00},
			offset:  -1,
			size:    1,
			wantErr: true,
		},
		{
			name:    "Size too large",
			raw:     make([]byte, 16),
			size:    9,
			wantErr: true,
		},
		{
			name:    "Size too small",
			raw:     make([]byte, 16),
			size:    0,
			wantErr: true,
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, err := readUint(c.raw, c.offset, c.size)
			checkErr(t, c.wantErr, err)
			if got != c.want {
				t.Fatalf("Incorrect value returned. Got %d, want %d", got, c.want)
			}
		})
	}
}

func TestReadIntSignExtends(t *testing.T) {
	cases := []struct {
		raw  []byte
		want int64
	}{
		{[]byte{0xFF}, -1},
		{[]byte{0x7F}, 127},
		{[]byte{0x00, 0x80}, -32768},
		{[]byte{0xFE, 0xFF, 0xFF, 0xFF}, -2},
		{[]byte{0xFF, 0xFF, 0xFF, 0x7F}, 2147483647},
		{[]byte{0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x80}, -9223372036854775808},
	}
	for _, c := range cases {
		got, err := readInt(c.raw, 0, len(c.raw))
		if err != nil {
			t.Fatalf("readInt(%x): %v", c.raw, err)
		}
		if got != c.want {
			t.Errorf("readInt(%x) = %d, want %d", c.raw, got, c.want)
		}
	}
}

func checkErr(t *testing.T, wantErr bool, err error) {
	t.Helper()
	if err != nil {
		if wantErr {
			return
		}
		t.Fatalf("Unexpected error: %v", err)
	} else if wantErr {
		t.Fatal("Got no error when one was expected")
	}
}

func TestEncodeNumber(t *testing.T) {
	var buf bytes.Buffer
	encodeNumber(0x010203, 3, &buf)
	encodeNumber(-1, 2, &buf)
	diffByteArrays(t, buf.Bytes(), []byte{0x03, 0x02, 0x01, 0xFF, 0xFF})
}

func TestFieldOffsetSize(t *testing.T) {
	cases := []struct {
		max  int32
		want int
	}{
		{0, 1},
		{0xFE, 1},
		{0xFF, 2},
		{0xFFFE, 2},
		{0xFFFF, 3},
		{0xFFFFFF, 4},
	}
	for _, c := range cases {
		if got := fieldOffsetSize(c.max); got != c.want {
			t.Errorf("fieldOffsetSize(%d) = %d, want %d", c.max, got, c.want)
		}
	}
}

func TestReadNthItem(t *testing.T) {
	// Three items "a", "", "bc" with one byte offsets.
	raw := []byte{0x00, 0x01, 0x01, 0x03, 'a', 'b', 'c'}
	cases := []struct {
		name        string
		raw         []byte
		numElements int
		item        int
		want        []byte
		wantErr     bool
	}{
		{name: "First", raw: raw, numElements: 3, item: 0, want: []byte("a")},
		{name: "Empty item", raw: raw, numElements: 3, item: 1, want: []byte{}},
		{name: "Last", raw: raw, numElements: 3, item: 2, want: []byte("bc")},
		{name: "Past the end", raw: raw, numElements: 3, item: 3, wantErr: true},
		{name: "Negative", raw: raw, numElements: 3, item: -1, wantErr: true},
		{name: "Truncated data", raw: raw[:6], numElements: 3, item: 2, wantErr: true},
		{
			name:        "Empty last item at the end of the buffer",
			raw:         []byte{0x00, 0x01, 0x01, 'a'},
			numElements: 2,
			item:        1,
			want:        []byte{},
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, err := readNthItem(c.raw, 0, c.item, 1, c.numElements)
			checkErr(t, c.wantErr, err)
			if c.wantErr {
				return
			}
			if diff := cmp.Diff(string(got), string(c.want)); diff != "" {
				t.Fatalf("Incorrect item. Diff (-got +want):\n%s", diff)
			}
		})
	}
}

func TestCheckBounds(t *testing.T) {
	raw := make([]byte, 4)
	cases := []struct {
		name      string
		low, high int
		wantErr   bool
	}{
		{name: "Whole buffer", low: 0, high: 4},
		{name: "Single position", low: 3, high: 3},
		{name: "Low at end", low: 4, high: 4, wantErr: true},
		{name: "High past end", low: 0, high: 5, wantErr: true},
		{name: "Negative low", low: -1, high: 2, wantErr: true},
		{name: "Inverted range", low: 3, high: 1, wantErr: true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			checkErr(t, c.wantErr, checkBounds(raw, c.low, c.high))
		})
	}
}
