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

	"github.com/golang/snappy"
	"golang.org/x/xerrors"
)

type snappyCodec struct{}

func (snappyCodec) Encode(dst, src []byte) []byte {
	return snappy.Encode(dst[:cap(dst)], src)
}

func (s snappyCodec) EncodeLevel(dst, src []byte, _ int) []byte {
	return s.Encode(dst, src)
}

func (snappyCodec) Decode(dst, src []byte) ([]byte, error) {
	// the block header carries the decoded length, check it before snappy
	// allocates for it
	if n, err := snappy.DecodedLen(src); err == nil && len(dst) > 0 && n > len(dst) {
		return nil, errOutputTooLarge("snappy", len(dst))
	}
	dst, err := snappy.Decode(dst[:cap(dst)], src)
	if err != nil {
		return nil, xerrors.Errorf("snappy decode: %w", err)
	}
	return dst, nil
}

func (snappyCodec) NewReader(r io.Reader) (io.ReadCloser, error) {
	return io.NopCloser(snappy.NewReader(r)), nil
}

func (snappyCodec) CompressBound(len int64) int64 {
	return int64(snappy.MaxEncodedLen(int(len)))
}

func (snappyCodec) NewWriter(w io.Writer) (io.WriteCloser, error) {
	return snappy.NewBufferedWriter(w), nil
}

func init() {
	RegisterCodec(Codecs.Snappy, snappyCodec{})
}
