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

package compress

import (
	"io"

	"github.com/pierrec/lz4/v4"
	"golang.org/x/xerrors"
)

// lz4RawCodec writes bare lz4 blocks without any framing, as the LZ4_RAW
// parquet codec does. The streaming reader and writer use the lz4 frame format.
type lz4RawCodec struct{}

func (c lz4RawCodec) Encode(dst, src []byte) []byte {
	return c.EncodeLevel(dst, src, DefaultCompressionLevel)
}

func (c lz4RawCodec) EncodeLevel(dst, src []byte, level int) []byte {
	maxlen := int(c.CompressBound(int64(len(src))))
	if cap(dst) < maxlen {
		dst = make([]byte, maxlen)
	}
	dst = dst[:cap(dst)]

	var (
		n   int
		err error
	)
	if level == DefaultCompressionLevel {
		var comp lz4.Compressor
		n, err = comp.CompressBlock(src, dst)
	} else {
		comp := lz4.CompressorHC{Level: lz4.CompressionLevel(level)}
		n, err = comp.CompressBlock(src, dst)
	}
	if err != nil {
		panic(err)
	}
	return dst[:n]
}

func (lz4RawCodec) Decode(dst, src []byte) ([]byte, error) {
	if len(src) == 0 {
		return dst[:0], nil
	}
	n, err := lz4.UncompressBlock(src, dst[:cap(dst)])
	if err != nil {
		return nil, xerrors.Errorf("lz4 decode: %w", err)
	}
	return dst[:n], nil
}

func (lz4RawCodec) CompressBound(len int64) int64 {
	return int64(lz4.CompressBlockBound(int(len)))
}

func (lz4RawCodec) NewReader(r io.Reader) (io.ReadCloser, error) {
	return io.NopCloser(lz4.NewReader(r)), nil
}

func (lz4RawCodec) NewWriter(w io.Writer) (io.WriteCloser, error) {
	return lz4.NewWriter(w), nil
}

func init() {
	RegisterCodec(Codecs.Lz4Raw, lz4RawCodec{})
}
