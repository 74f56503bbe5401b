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

package variant

//go:generate stringer -type=Kind -linecomment -output=kind_string.go

// Kind identifies which representation a Value currently holds.
type Kind int8

const (
	Null   Kind = iota // Null
	Bool               // Bool
	Int32              // Int32
	Int64              // Int64
	Double             // Double
	String             // String
	List               // List
	Map                // Map
)

// IsContainer reports whether values of this kind have children.
func (k Kind) IsContainer() bool { return k == List || k == Map }

// IsNumeric reports whether k is one of the integer or floating point kinds.
func (k Kind) IsNumeric() bool { return k == Int32 || k == Int64 || k == Double }
