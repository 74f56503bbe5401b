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

// Package compress contains the interfaces and implementations for handling
// compression and decompression of encoded variant payloads.
package compress

import (
	"compress/flate"
	"fmt"
	"io"
	"strings"

	"golang.org/x/xerrors"
)

// Compression identifies a compression algorithm. The values match the codec
// ids used by parquet files.
type Compression int8

const (
	uncompressed Compression = iota
	snappyCompression
	gzipCompression
	lzoCompression
	brotliCompression
	lz4Compression
	zstdCompression
	lz4RawCompression
)

var compressionNames = map[Compression]string{
	uncompressed:      "UNCOMPRESSED",
	snappyCompression: "SNAPPY",
	gzipCompression:   "GZIP",
	lzoCompression:    "LZO",
	brotliCompression: "BROTLI",
	lz4Compression:    "LZ4",
	zstdCompression:   "ZSTD",
	lz4RawCompression: "LZ4_RAW",
}

func (c Compression) String() string {
	if name, ok := compressionNames[c]; ok {
		return name
	}
	return fmt.Sprintf("Compression(%d)", int8(c))
}

// ParseCompression returns the Compression with the given name, ignoring case.
// "none" is accepted for Uncompressed.
func ParseCompression(name string) (Compression, error) {
	if strings.EqualFold(name, "none") {
		return Codecs.Uncompressed, nil
	}
	for c, n := range compressionNames {
		if strings.EqualFold(name, n) {
			return c, nil
		}
	}
	return 0, xerrors.Errorf("unknown compression %q", name)
}

// DefaultCompressionLevel will use flate.DefaultCompression since many of the compression libraries
// use that to denote "use the default".
const DefaultCompressionLevel = flate.DefaultCompression

// Codecs is a useful struct to provide namespaced enum values to use for specifying the compression type to use.
var Codecs = struct {
	Uncompressed Compression
	Snappy       Compression
	Gzip         Compression
	// LZO is unsupported in this library since LZO license is incompatible with Apache License
	Lzo    Compression
	Brotli Compression
	// LZ4 is unsupported due to the incompatibilities between the Hadoop LZ4 framing and plain lz4
	Lz4    Compression
	Zstd   Compression
	Lz4Raw Compression
}{
	Uncompressed: uncompressed,
	Snappy:       snappyCompression,
	Gzip:         gzipCompression,
	Lzo:          lzoCompression,
	Brotli:       brotliCompression,
	Lz4:          lz4Compression,
	Zstd:         zstdCompression,
	Lz4Raw:       lz4RawCompression,
}

// Codec is an interface which is implemented for each compression type in order to make the interactions easy to
// implement. Most consumers won't be calling GetCodec directly.
type Codec interface {
	// NewReader provides a reader that wraps a stream with compressed data to stream the uncompressed data
	NewReader(io.Reader) (io.ReadCloser, error)
	// NewWriter provides a wrapper around a write stream to compress data before writing it.
	NewWriter(io.Writer) (io.WriteCloser, error)
	// Encode encodes a block of data given by src and returns the compressed block. dst should be either nil
	// or sized large enough to fit the compressed block (use CompressBound to allocate). dst and src should not
	// overlap since some of the compression types don't allow it.
	//
	// The returned slice will be one of the following:
	//	1. If dst was nil or dst was too small to fit the compressed data, it will be a newly allocated slice
	//	2. If dst was large enough to fit the compressed data (depending on the compression algorithm it might
	//		 be required to be at least CompressBound length) then it might be a slice of dst.
	Encode(dst, src []byte) []byte
	// EncodeLevel is Encode with a specific compression level if supported
	EncodeLevel(dst, src []byte, level int) []byte
	// CompressBound returns the boundary of maximum size of compressed data under the chosen codec.
	CompressBound(int64) int64
	// Decode is for decoding a single block rather than a stream. dst must be
	// sized to the uncompressed length and should not overlap with src. A
	// non-empty dst also bounds the output: blocks that decode to more than
	// len(dst) bytes return an error instead of growing the buffer.
	//
	// the returned slice *might* be a slice of dst.
	Decode(dst, src []byte) ([]byte, error)
}

var codecs = map[Compression]Codec{}

// RegisterCodec adds or overrides a codec implementation for a given compression algorithm.
func RegisterCodec(compression Compression, codec Codec) {
	codecs[compression] = codec
}

type nocodec struct{}

func (nocodec) NewReader(r io.Reader) (io.ReadCloser, error) {
	if rc, ok := r.(io.ReadCloser); ok {
		return rc, nil
	}
	return io.NopCloser(r), nil
}

func (nocodec) NewWriter(w io.Writer) (io.WriteCloser, error) {
	if wc, ok := w.(io.WriteCloser); ok {
		return wc, nil
	}
	return nopWriteCloser{w}, nil
}

func (n nocodec) Encode(dst, src []byte) []byte {
	return n.EncodeLevel(dst, src, DefaultCompressionLevel)
}

func (nocodec) EncodeLevel(dst, src []byte, _ int) []byte {
	if cap(dst) >= len(src) {
		dst = dst[:len(src)]
	} else {
		dst = make([]byte, len(src))
	}
	copy(dst, src)
	return dst
}

func (nocodec) CompressBound(l int64) int64 { return l }

func (nocodec) Decode(dst, src []byte) ([]byte, error) {
	if len(dst) > 0 && len(src) > len(dst) {
		return nil, errOutputTooLarge("uncompressed", len(dst))
	}
	if cap(dst) >= len(src) {
		dst = dst[:len(src)]
	} else {
		dst = make([]byte, len(src))
	}
	copy(dst, src)
	return dst, nil
}

func errOutputTooLarge(codec string, limit int) error {
	return xerrors.Errorf("%s decode: output exceeds %d bytes", codec, limit)
}

// boundedReader stops one byte past limit so that overlong output can be
// detected without reading all of it. A zero limit leaves r unbounded.
func boundedReader(r io.Reader, limit int) io.Reader {
	if limit == 0 {
		return r
	}
	return io.LimitReader(r, int64(limit)+1)
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }

func init() {
	codecs[Codecs.Uncompressed] = nocodec{}
}

// GetCodec returns a Codec interface for the requested Compression type
func GetCodec(typ Compression) (Codec, error) {
	ret, ok := codecs[typ]
	if !ok {
		return nil, xerrors.Errorf("compression for %s unimplemented", typ)
	}
	return ret, nil
}
