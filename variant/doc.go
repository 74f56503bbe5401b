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

// Package variant provides Value, a dynamically typed container for data whose
// shape is not known at compile time, most commonly JSON documents decoded before
// any schema is available.
//
// A Value holds exactly one of a closed set of kinds at a time: Null, Bool, Int32,
// Int64, Double, String, List or Map. The zero Value is Null.
//
// Values have value semantics. Containers are persistent tries that share
// unchanged nodes between versions, so an assignment such as `b := a` behaves like
// a deep copy: writing through b never becomes visible in a. A single write costs
// O(log n) in the size of each container it passes through. Clone is available
// when eagerly separated storage is wanted.
//
// Conversions never fail. Each of the As* methods converts the active kind to the
// requested Go type, falling back to the zero value for incompatible kinds and for
// strings that do not parse as numbers:
//
//	variant.NewString("3.14").AsDouble() // 3.14
//	variant.NewString("abc").AsDouble()  // 0
//
// Reads never fail either. Index and Key return Null for out of range indexes,
// missing keys and non-container values.
//
// Writes coerce. SetIndex on a value that is not a List first resets it to an empty
// List, then grows it with Null elements up to the requested index. SetKey does the
// same with an empty Map. Nested writes go through a Member, which records a path
// from a root value and applies an assignment as a single set-at-path:
//
//	var v variant.Value
//	v.Field("a").At(2).Set(variant.NewInt32(5))
//	// v is now {"a": [null, null, 5]}
//
// JSON conversion goes through a Bridge, which walks the generic tree produced by a
// pluggable Codec. The package level helpers (ParseJSON, FromJSONString,
// Value.ToJSONString, MarshalJSON and UnmarshalJSON) use GoJSONCodec. Malformed JSON
// handed to FromJSONString yields Null rather than an error.
package variant
