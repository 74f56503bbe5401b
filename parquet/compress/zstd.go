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
	"sync"

	"github.com/klauspost/compress/zstd"
	"golang.org/x/xerrors"
)

type zstdCodec struct{}

type zstdcloser struct {
	*zstd.Decoder
}

func (z *zstdcloser) Close() error {
	z.Decoder.Close()
	return nil
}

var (
	zstdDecoderOnce sync.Once
	zstdDecoder     *zstd.Decoder
	zstdDecoderErr  error
)

// the block decoder is safe for concurrent DecodeAll calls, so one is shared.
func getDecoder() (*zstd.Decoder, error) {
	zstdDecoderOnce.Do(func() {
		zstdDecoder, zstdDecoderErr = zstd.NewReader(nil, zstd.WithDecoderConcurrency(0))
	})
	return zstdDecoder, zstdDecoderErr
}

func (zstdCodec) Decode(dst, src []byte) ([]byte, error) {
	dec, err := getDecoder()
	if err != nil {
		return nil, xerrors.Errorf("zstd: %w", err)
	}
	limit := len(dst)
	if limit > 0 {
		var hdr zstd.Header
		if hdr.Decode(src) == nil && hdr.HasFCS && hdr.FrameContentSize > uint64(limit) {
			return nil, errOutputTooLarge("zstd", limit)
		}
	}
	dst, err = dec.DecodeAll(src, dst[:0])
	if err != nil {
		return nil, xerrors.Errorf("zstd decode: %w", err)
	}
	if limit > 0 && len(dst) > limit {
		return nil, errOutputTooLarge("zstd", limit)
	}
	return dst, nil
}

func (zstdCodec) NewReader(r io.Reader) (io.ReadCloser, error) {
	ret, err := zstd.NewReader(r)
	if err != nil {
		return nil, xerrors.Errorf("zstd: %w", err)
	}
	return &zstdcloser{ret}, nil
}

func (zstdCodec) NewWriter(w io.Writer) (io.WriteCloser, error) {
	enc, err := zstd.NewWriter(w)
	if err != nil {
		return nil, xerrors.Errorf("zstd: %w", err)
	}
	return enc, nil
}

func (z zstdCodec) Encode(dst, src []byte) []byte {
	return z.EncodeLevel(dst, src, DefaultCompressionLevel)
}

func (zstdCodec) EncodeLevel(dst, src []byte, level int) []byte {
	compressionLevel := zstd.EncoderLevelFromZstd(level)
	if level == DefaultCompressionLevel {
		compressionLevel = zstd.SpeedDefault
	}
	enc, err := zstd.NewWriter(nil, zstd.WithZeroFrames(true), zstd.WithEncoderLevel(compressionLevel), zstd.WithEncoderConcurrency(1))
	if err != nil {
		panic(err)
	}
	return enc.EncodeAll(src, dst[:0])
}

// from zstd.h, ZSTD_COMPRESSBOUND
func (zstdCodec) CompressBound(len int64) int64 {
	debugBound := len >> 8
	extra := ((128 << 10) - len) >> 11
	if len >= (128 << 10) {
		extra = 0
	}
	return len + debugBound + extra
}

func init() {
	RegisterCodec(Codecs.Zstd, zstdCodec{})
}
