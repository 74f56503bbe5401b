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
	"bytes"
	"io"

	"github.com/klauspost/compress/gzip"
	"golang.org/x/xerrors"
)

type gzipCodec struct{}

func (gzipCodec) NewReader(r io.Reader) (io.ReadCloser, error) {
	ret, err := gzip.NewReader(r)
	if err != nil {
		return nil, xerrors.Errorf("gzip: %w", err)
	}
	return ret, nil
}

func (gzipCodec) Decode(dst, src []byte) ([]byte, error) {
	rdr, err := gzip.NewReader(bytes.NewReader(src))
	if err != nil {
		return nil, xerrors.Errorf("gzip: %w", err)
	}
	defer rdr.Close()

	buf := bytes.NewBuffer(dst[:0])
	if _, err := io.Copy(buf, boundedReader(rdr, len(dst))); err != nil {
		return nil, xerrors.Errorf("gzip decode: %w", err)
	}
	if len(dst) > 0 && buf.Len() > len(dst) {
		return nil, errOutputTooLarge("gzip", len(dst))
	}
	return buf.Bytes(), nil
}

func (g gzipCodec) EncodeLevel(dst, src []byte, level int) []byte {
	maxlen := int(g.CompressBound(int64(len(src))))
	if dst == nil || cap(dst) < maxlen {
		dst = make([]byte, 0, maxlen)
	}
	buf := bytes.NewBuffer(dst[:0])
	w, err := gzip.NewWriterLevel(buf, level)
	if err != nil {
		panic(err)
	}
	if _, err = w.Write(src); err != nil {
		panic(err)
	}
	if err := w.Close(); err != nil {
		panic(err)
	}
	return buf.Bytes()
}

func (g gzipCodec) Encode(dst, src []byte) []byte {
	return g.EncodeLevel(dst, src, DefaultCompressionLevel)
}

func (gzipCodec) CompressBound(len int64) int64 {
	return len + ((len + 7) >> 3) + ((len + 63) >> 6) + 5 + 18
}

func (gzipCodec) NewWriter(w io.Writer) (io.WriteCloser, error) {
	return gzip.NewWriter(w), nil
}

func init() {
	RegisterCodec(Codecs.Gzip, gzipCodec{})
}
