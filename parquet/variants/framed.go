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
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/apache/variant-go/parquet/compress"
)

// Frame layout, all integers little-endian:
//
//	magic "PVAR" | version (1) | codec (1) | reserved (2)
//	metadata length (4) | value length (4) | payload length (4)
//	payload: metadata followed by value, compressed with codec
const (
	frameMagic      = "PVAR"
	frameVersion    = 1
	frameHeaderSize = 4 + 1 + 1 + 2 + 4 + 4 + 4
)

var ErrInvalidFrame = errors.New("variants: invalid frame")

// MaxFramedSize caps the combined metadata and value length ReadFramed accepts.
var MaxFramedSize int64 = 256 << 20

// maxExpansion is the most bytes a single payload byte can decode to for each
// codec. Codecs missing from the table are only bounded by MaxFramedSize.
var maxExpansion = map[compress.Compression]int64{
	compress.Codecs.Uncompressed: 1,
	compress.Codecs.Snappy:       22,
	compress.Codecs.Gzip:         1032,
	compress.Codecs.Lz4Raw:       256,
	compress.Codecs.Zstd:         32768,
}

// WriteFramed writes mv to w as a single frame, compressing the metadata and
// value together with the given codec.
func WriteFramed(w io.Writer, mv *MarshaledVariant, codec compress.Compression) error {
	c, err := compress.GetCodec(codec)
	if err != nil {
		return err
	}

	raw := make([]byte, 0, mv.Size())
	raw = append(raw, mv.Metadata...)
	raw = append(raw, mv.Value...)
	payload := c.Encode(nil, raw)

	var hdr [frameHeaderSize]byte
	copy(hdr[:4], frameMagic)
	hdr[4] = frameVersion
	hdr[5] = byte(codec)
	binary.LittleEndian.PutUint32(hdr[8:], uint32(len(mv.Metadata)))
	binary.LittleEndian.PutUint32(hdr[12:], uint32(len(mv.Value)))
	binary.LittleEndian.PutUint32(hdr[16:], uint32(len(payload)))

	if _, err := w.Write(hdr[:]); err != nil {
		return err
	}
	_, err = w.Write(payload)
	return err
}

// ReadFramed reads one frame written by WriteFramed.
func ReadFramed(r io.Reader) (*MarshaledVariant, error) {
	var hdr [frameHeaderSize]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		return nil, fmt.Errorf("%w: reading header: %w", ErrInvalidFrame, err)
	}
	if !bytes.Equal(hdr[:4], []byte(frameMagic)) {
		return nil, fmt.Errorf("%w: bad magic %q", ErrInvalidFrame, hdr[:4])
	}
	if hdr[4] != frameVersion {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrInvalidFrame, hdr[4])
	}

	c, err := compress.GetCodec(compress.Compression(hdr[5]))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidFrame, err)
	}
	mdLen := int64(binary.LittleEndian.Uint32(hdr[8:]))
	valLen := int64(binary.LittleEndian.Uint32(hdr[12:]))
	payloadLen := int64(binary.LittleEndian.Uint32(hdr[16:]))

	want := mdLen + valLen
	if want > MaxFramedSize {
		return nil, fmt.Errorf("%w: %d decoded bytes exceeds the limit of %d", ErrInvalidFrame, want, MaxFramedSize)
	}
	if ratio, ok := maxExpansion[compress.Compression(hdr[5])]; ok && want > payloadLen*ratio {
		return nil, fmt.Errorf("%w: %d decoded bytes cannot come from a %d byte %s payload",
			ErrInvalidFrame, want, payloadLen, compress.Compression(hdr[5]))
	}

	var payload bytes.Buffer
	if n, err := io.CopyN(&payload, r, payloadLen); err != nil {
		return nil, fmt.Errorf("%w: payload truncated after %d of %d bytes", ErrInvalidFrame, n, payloadLen)
	}

	raw, err := c.Decode(make([]byte, want), payload.Bytes())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidFrame, err)
	}
	if int64(len(raw)) != want {
		return nil, fmt.Errorf("%w: decoded %d bytes, want %d", ErrInvalidFrame, len(raw), want)
	}
	return &MarshaledVariant{
		Metadata: raw[:mdLen:mdLen],
		Value:    raw[mdLen:],
	}, nil
}
