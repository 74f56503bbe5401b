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

// Package variants encodes variant.Value trees into the binary Variant format
// described in the Parquet format's VariantEncoding.md
// (https://github.com/apache/parquet-format/blob/master/VariantEncoding.md).
//
// There are two main ways to create a marshaled Variant:
//
//  1. Using `variants.Marshal()`. Lists become Variant arrays, maps become Variant
//     objects and the scalar kinds are written as the matching primitive.
//  2. Using `variants.NewBuilder()`. This allows you to build out your Variant bit by bit.
//
// `variants.Unmarshal()` decodes a marshaled Variant back into a variant.Value,
// and `variants.Get()` decodes a single nested element without walking the rest
// of the buffer. Decoding accepts every primitive type of the format, mapping
// the ones variant.Value has no kind for onto the closest one (small ints to
// Int32, floats to Double, binary to String, and UUIDs, dates, times,
// timestamps and decimals to their canonical text).
//
// WriteFramed and ReadFramed store a marshaled Variant in a small
// self-describing container, optionally compressed with one of the codecs from
// the compress package.
package variants
