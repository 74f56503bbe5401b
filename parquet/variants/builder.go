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
	"io"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/apache/variant-go/variant"
)

// ArrayBuilder provides a mechanism to build a Variant encoded array.
type ArrayBuilder interface {
	Builder
	Write(val variant.Value) error
	Array() ArrayBuilder
	Object() ObjectBuilder
}

// ObjectBuilder provides a mechanism to build a Variant encoded object
type ObjectBuilder interface {
	Builder
	Write(key string, val variant.Value) error
	Array(key string) (ArrayBuilder, error)
	Object(key string) (ObjectBuilder, error)
}

// Builder provides a mechanism to build something that's Variant encoded
type Builder interface {
	Build() error
}

// Options for marshaling values into a Variant.
type MarshalOpts int

const (
	// MarshalCompactInts writes Int32 and Int64 values with the smallest
	// integer primitive that holds them. Decoding then yields Int32 for
	// anything that fit in 32 bits, whatever its original kind.
	MarshalCompactInts MarshalOpts = 1 << iota
	// MarshalSortedKeys writes the metadata dictionary in sorted order and
	// flags it as such. Only honored by Marshal, which sees every key up front.
	MarshalSortedKeys
	// MarshalUUIDStrings writes strings holding a canonical lower case UUID as
	// UUID primitives.
	MarshalUUIDStrings
)

func combineOpts(opts []MarshalOpts) MarshalOpts {
	var all MarshalOpts
	for _, o := range opts {
		all |= o
	}
	return all
}

var errAlreadyBuilt = errors.New("component already built")

// VariantBuilder is a helper to build and encode a Variant
type VariantBuilder struct {
	buf     bytes.Buffer
	builder Builder
	typ     BasicType
	mdb     *metadataBuilder
	opts    MarshalOpts
	built   bool
}

func NewBuilder(opts ...MarshalOpts) *VariantBuilder {
	return &VariantBuilder{
		typ:  BasicUndefined,
		mdb:  newMetadataBuilder(),
		opts: combineOpts(opts),
	}
}

// Marshal encodes val. Lists become Variant arrays, maps become Variant objects
// (with keys sorted as the format requires) and scalar kinds become primitives:
//   - Null: Null
//   - Bool: Boolean
//   - Int32: Int32 (any width with MarshalCompactInts)
//   - Int64: Int64 (any width with MarshalCompactInts)
//   - Double: Double
//   - String: short string when under 64 bytes, String otherwise. Invalid
//     UTF-8 sequences are replaced.
func Marshal(val variant.Value, opts ...MarshalOpts) (*MarshaledVariant, error) {
	b := NewBuilder(opts...)
	if b.opts&MarshalSortedKeys != 0 {
		b.mdb.addSorted(collectKeys(val, nil))
	}
	b.typ = basicTypeOf(val)
	if err := writeCommon(val, &b.buf, b.mdb, nil, b.opts); err != nil {
		return nil, err
	}
	return b.Build()
}

func basicTypeOf(val variant.Value) BasicType {
	switch val.Kind() {
	case variant.List:
		return BasicArray
	case variant.Map:
		return BasicObject
	case variant.String:
		if len(val.AsString()) <= maxShortStringLen {
			return BasicShortString
		}
	}
	return BasicPrimitive
}

func collectKeys(val variant.Value, keys []string) []string {
	switch val.Kind() {
	case variant.List:
		for _, item := range val.Elems() {
			keys = collectKeys(item, keys)
		}
	case variant.Map:
		for k, item := range val.Fields() {
			keys = append(keys, k)
			keys = collectKeys(item, keys)
		}
	}
	return keys
}

func (vb *VariantBuilder) check() error {
	if vb.built {
		return errors.New("Variant has already been built")
	}
	if vb.typ != BasicUndefined {
		return fmt.Errorf("Variant type has already been started as a %q", vb.typ)
	}
	return nil
}

// Callback to record the number of bytes written.
type doneCB func(int)

// Common functionalities in writing Variant encoded data. This will be recursed into from various places.
func writeCommon(val variant.Value, buf io.Writer, mdb *metadataBuilder, doneCB doneCB, opts MarshalOpts) error {
	switch val.Kind() {
	case variant.Map:
		ob := newObjectBuilder(buf, mdb, doneCB, opts)
		for k, item := range val.Fields() {
			if err := ob.Write(k, item); err != nil {
				return err
			}
		}
		return ob.Build()
	case variant.List:
		ab := newArrayBuilder(buf, mdb, doneCB, opts)
		for _, item := range val.Elems() {
			if err := ab.Write(item); err != nil {
				return err
			}
		}
		return ab.Build()
	}

	n, err := marshalPrimitive(val, buf, opts)
	if err != nil {
		return fmt.Errorf("marshalPrimitive(): %w", err)
	}
	if doneCB != nil {
		doneCB(n)
	}
	return nil
}

// Sets this Variant as a primitive, and writes the provided value. Lists and
// maps are rejected; use Array or Object for those.
func (vb *VariantBuilder) Primitive(val variant.Value) error {
	if err := vb.check(); err != nil {
		return err
	}
	if val.Kind().IsContainer() {
		return fmt.Errorf("not a primitive: %s", val.Kind())
	}
	vb.typ = basicTypeOf(val)
	_, err := marshalPrimitive(val, &vb.buf, vb.opts)
	return err
}

// Sets this Variant as an Object and returns an ObjectBuilder.
func (vb *VariantBuilder) Object() (ObjectBuilder, error) {
	if err := vb.check(); err != nil {
		return nil, err
	}
	ob := newObjectBuilder(&vb.buf, vb.mdb, nil, vb.opts)
	vb.typ = BasicObject
	vb.builder = ob
	return ob, nil
}

// Sets this Variant as an Array and returns an ArrayBuilder.
func (vb *VariantBuilder) Array() (ArrayBuilder, error) {
	if err := vb.check(); err != nil {
		return nil, err
	}
	ab := newArrayBuilder(&vb.buf, vb.mdb, nil, vb.opts)
	vb.typ = BasicArray
	vb.builder = ab
	return ab, nil
}

// Builds the Variant. An untouched builder encodes Null.
func (vb *VariantBuilder) Build() (*MarshaledVariant, error) {
	if vb.built {
		return nil, errAlreadyBuilt
	}
	// Indicate that all building has completed to prevent any mutation.
	vb.built = true

	// Build an object or an array if necessary
	if vb.builder != nil {
		if err := vb.builder.Build(); err != nil && err != errAlreadyBuilt {
			return nil, err
		}
	}
	if vb.typ == BasicUndefined {
		marshalNull(&vb.buf)
	}

	return &MarshaledVariant{
		Metadata: vb.mdb.Build(),
		Value:    vb.buf.Bytes(),
	}, nil
}

// sortedKeys returns keys sorted and deduplicated. It fails when a key is not
// valid UTF-8, since replacing the bad sequences could break the order.
func sortedKeys(keys []string) ([]string, bool) {
	for _, k := range keys {
		if !utf8.ValidString(k) {
			return nil, false
		}
	}
	out := slices.Clone(keys)
	slices.SortFunc(out, strings.Compare)
	return slices.Compact(out), true
}
